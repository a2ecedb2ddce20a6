package queries

import (
	"context"
	"strings"

	"confman/contexts/peer-review/review-workflow-service/ports"
)

// ConflictChecker answers conflict-of-interest questions from recorded bids.
type ConflictChecker struct {
	Preferences ports.PreferenceRepository
}

// HasConflict is true iff the reviewer's preference for the submission is
// CONFLICT. When conferenceID is set, only a preference recorded for that
// conference counts. No preference means no conflict.
func (c ConflictChecker) HasConflict(
	ctx context.Context,
	reviewerID string,
	submissionID string,
	conferenceID *string,
) (bool, error) {
	var scope *string
	if conferenceID != nil && strings.TrimSpace(*conferenceID) != "" {
		trimmed := strings.TrimSpace(*conferenceID)
		scope = &trimmed
	}
	preference, found, err := c.Preferences.GetPreference(
		ctx,
		strings.TrimSpace(reviewerID),
		strings.TrimSpace(submissionID),
		scope,
	)
	if err != nil {
		return false, err
	}
	return found && preference.IsConflict(), nil
}
