package upstream

import (
	"context"
	"net/http"
	"strings"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"
)

type trackMemberDTO struct {
	TrackID string `json:"trackId"`
	Status  string `json:"status"`
}

// ConferenceTrackClient reads the caller's program-committee track memberships.
type ConferenceTrackClient struct {
	client client
}

func NewConferenceTrackClient(cfg Config) *ConferenceTrackClient {
	return &ConferenceTrackClient{client: newClient("conference-service", cfg)}
}

func (c *ConferenceTrackClient) MyTrackAssignments(ctx context.Context, authToken string) ([]entities.TrackMember, error) {
	var payload []trackMemberDTO
	status, err := c.client.do(ctx, http.MethodGet, "/my-track-assignments", authToken, nil, nil, &payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []entities.TrackMember{}, nil
	}

	items := make([]entities.TrackMember, 0, len(payload))
	for _, item := range payload {
		items = append(items, entities.TrackMember{
			TrackID: strings.TrimSpace(item.TrackID),
			Status:  entities.TrackMemberStatus(strings.ToUpper(strings.TrimSpace(item.Status))),
		})
	}
	return items, nil
}
