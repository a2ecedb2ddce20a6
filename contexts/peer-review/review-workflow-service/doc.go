// Package reviewworkflowservice implements the peer-review workflow engine
// inside the peer-review context.
//
// The module owns reviewer bidding, reviewer-to-submission assignments and
// their lifecycle, review submission with a due-date gated edit window,
// conflict-of-interest checks, and progress/decision aggregation. Conference,
// submission and identity data live in external services reached through
// ports; business rules stay in the application and domain layers.
package reviewworkflowservice
