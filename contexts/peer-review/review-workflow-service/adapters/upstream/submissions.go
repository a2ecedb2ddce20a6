package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
)

type submissionDTO struct {
	ID           string    `json:"id"`
	TrackID      string    `json:"trackId"`
	ConferenceID string    `json:"conferenceId"`
	Title        string    `json:"title"`
	Abstract     string    `json:"abstract"`
	Status       string    `json:"status"`
	AuthorID     string    `json:"authorId"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (d submissionDTO) toEntity() entities.Submission {
	return entities.Submission{
		SubmissionID: strings.TrimSpace(d.ID),
		TrackID:      strings.TrimSpace(d.TrackID),
		ConferenceID: strings.TrimSpace(d.ConferenceID),
		Title:        d.Title,
		Abstract:     d.Abstract,
		Status:       entities.SubmissionStatus(strings.ToUpper(strings.TrimSpace(d.Status))),
		AuthorID:     strings.TrimSpace(d.AuthorID),
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type SubmissionClient struct {
	client client
}

func NewSubmissionClient(cfg Config) *SubmissionClient {
	return &SubmissionClient{client: newClient("submission-service", cfg)}
}

func (c *SubmissionClient) ListSubmissions(
	ctx context.Context,
	authToken string,
	trackID string,
	status entities.SubmissionStatus,
) ([]entities.Submission, error) {
	query := url.Values{}
	query.Set("trackId", strings.TrimSpace(trackID))
	if status != "" {
		query.Set("status", string(status))
	}

	var payload []submissionDTO
	code, err := c.client.do(ctx, http.MethodGet, "/submissions", authToken, query, nil, &payload)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return []entities.Submission{}, nil
	}
	items := make([]entities.Submission, 0, len(payload))
	for _, item := range payload {
		items = append(items, item.toEntity())
	}
	return items, nil
}

func (c *SubmissionClient) GetSubmission(
	ctx context.Context,
	authToken string,
	submissionID string,
) (entities.Submission, bool, error) {
	var payload submissionDTO
	code, err := c.client.do(ctx, http.MethodGet, "/submissions/"+url.PathEscape(strings.TrimSpace(submissionID)), authToken, nil, nil, &payload)
	if err != nil {
		return entities.Submission{}, false, err
	}
	if code == http.StatusNotFound {
		return entities.Submission{}, false, nil
	}
	return payload.toEntity(), true, nil
}

func (c *SubmissionClient) UpdateSubmissionStatus(
	ctx context.Context,
	authToken string,
	submissionID string,
	status entities.SubmissionStatus,
) (entities.Submission, error) {
	path := "/submissions/" + url.PathEscape(strings.TrimSpace(submissionID)) + "/status"
	body := map[string]string{"status": string(status)}

	var payload submissionDTO
	code, err := c.client.do(ctx, http.MethodPatch, path, authToken, nil, body, &payload)
	if err != nil {
		return entities.Submission{}, err
	}
	if code == http.StatusNotFound {
		return entities.Submission{}, domainerrors.Upstream(c.client.service, &statusError{StatusCode: code})
	}
	return payload.toEntity(), nil
}
