package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"confman/contexts/peer-review/review-workflow-service/application/commands"
	"confman/contexts/peer-review/review-workflow-service/application/queries"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	httptransport "confman/contexts/peer-review/review-workflow-service/transport/http"
)

type Handler struct {
	Bids        commands.BidUseCase
	Assignments commands.AssignmentUseCase
	Reviews     commands.ReviewUseCase
	Decisions   commands.DecisionUseCase
	Queries     queries.QueryUseCase
	Logger      *slog.Logger
}

func (h Handler) SubmitBidHandler(
	ctx context.Context,
	userID string,
	req httptransport.SubmitBidRequest,
) (httptransport.PreferenceResponse, error) {
	item, err := h.Bids.SubmitBid(ctx, commands.SubmitBidCommand{
		ReviewerID:   userID,
		SubmissionID: req.SubmissionID,
		ConferenceID: req.ConferenceID,
		Kind:         entities.PreferenceKind(strings.ToUpper(strings.TrimSpace(req.PreferenceKind))),
	})
	if err != nil {
		return httptransport.PreferenceResponse{}, err
	}
	return httptransport.PreferenceResponse{Preference: mapPreference(item)}, nil
}

func (h Handler) ListMyBidsHandler(ctx context.Context, userID string) (httptransport.ListPreferencesResponse, error) {
	items, err := h.Queries.ListMyBids(ctx, userID)
	if err != nil {
		return httptransport.ListPreferencesResponse{}, err
	}
	result := make([]httptransport.PreferenceDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapPreference(item))
	}
	return httptransport.ListPreferencesResponse{Items: result}, nil
}

func (h Handler) ConflictHandler(
	ctx context.Context,
	userID string,
	submissionID string,
	conferenceID string,
) (httptransport.ConflictResponse, error) {
	var scope *string
	if value := strings.TrimSpace(conferenceID); value != "" {
		scope = &value
	}
	conflict, err := h.Queries.HasConflict(ctx, userID, submissionID, scope)
	if err != nil {
		return httptransport.ConflictResponse{}, err
	}
	return httptransport.ConflictResponse{SubmissionID: strings.TrimSpace(submissionID), HasConflict: conflict}, nil
}

func (h Handler) SelfAssignHandler(
	ctx context.Context,
	userID string,
	req httptransport.SelfAssignRequest,
) (httptransport.AssignmentResponse, error) {
	item, err := h.Assignments.SelfAssign(ctx, commands.SelfAssignCommand{
		ReviewerID:   userID,
		SubmissionID: req.SubmissionID,
		ConferenceID: req.ConferenceID,
	})
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return httptransport.AssignmentResponse{Assignment: mapAssignment(item)}, nil
}

func (h Handler) AssignReviewerHandler(
	ctx context.Context,
	chairID string,
	req httptransport.AssignReviewerRequest,
) (httptransport.AssignmentResponse, error) {
	var dueDate *time.Time
	if value := strings.TrimSpace(req.DueDate); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return httptransport.AssignmentResponse{}, domainerrors.New(domainerrors.ErrInvalidInput, "", chairID, "", "due_date must be RFC3339")
		}
		dueDate = &parsed
	}
	item, err := h.Assignments.AssignReviewer(ctx, commands.AssignReviewerCommand{
		ChairID:      chairID,
		ReviewerID:   req.ReviewerID,
		SubmissionID: req.SubmissionID,
		ConferenceID: req.ConferenceID,
		DueDate:      dueDate,
	})
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return httptransport.AssignmentResponse{Assignment: mapAssignment(item)}, nil
}

func (h Handler) UpdateAssignmentStatusHandler(
	ctx context.Context,
	userID string,
	assignmentID string,
	status entities.AssignmentStatus,
) (httptransport.AssignmentResponse, error) {
	item, err := h.Assignments.UpdateStatus(ctx, commands.UpdateAssignmentStatusCommand{
		AssignmentID: assignmentID,
		ReviewerID:   userID,
		Status:       status,
	})
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return httptransport.AssignmentResponse{Assignment: mapAssignment(item)}, nil
}

func (h Handler) ListMyAssignmentsHandler(
	ctx context.Context,
	userID string,
	page int,
	limit int,
) (httptransport.ListAssignmentsResponse, error) {
	result, err := h.Queries.ListMyAssignments(ctx, userID, page, limit)
	if err != nil {
		return httptransport.ListAssignmentsResponse{}, err
	}
	items := make([]httptransport.AssignmentDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapAssignment(item))
	}
	return httptransport.ListAssignmentsResponse{
		Items: items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	}, nil
}

func (h Handler) HasAssignmentHandler(
	ctx context.Context,
	userID string,
	submissionID string,
) (httptransport.HasAssignmentResponse, error) {
	exists, err := h.Queries.HasAssignment(ctx, userID, submissionID)
	if err != nil {
		return httptransport.HasAssignmentResponse{}, err
	}
	return httptransport.HasAssignmentResponse{SubmissionID: strings.TrimSpace(submissionID), HasAssignment: exists}, nil
}

func (h Handler) SubmitReviewHandler(
	ctx context.Context,
	userID string,
	authToken string,
	req httptransport.SubmitReviewRequest,
) (httptransport.ReviewResponse, error) {
	item, err := h.Reviews.SubmitReview(ctx, commands.SubmitReviewCommand{
		ReviewerID:   userID,
		AssignmentID: req.AssignmentID,
		AuthToken:    authToken,
		Content: entities.ReviewContent{
			Score:            req.Score,
			Confidence:       entities.Confidence(strings.ToUpper(strings.TrimSpace(req.Confidence))),
			CommentForAuthor: req.CommentForAuthor,
			CommentForPC:     req.CommentForPC,
			Recommendation:   entities.Recommendation(strings.ToUpper(strings.TrimSpace(req.Recommendation))),
		},
	})
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	return httptransport.ReviewResponse{Review: mapReview(item)}, nil
}

func (h Handler) GetMyReviewHandler(
	ctx context.Context,
	userID string,
	assignmentID string,
) (httptransport.ReviewResponse, error) {
	item, err := h.Queries.GetReviewForAssignment(ctx, userID, assignmentID)
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	return httptransport.ReviewResponse{Review: mapReview(item)}, nil
}

func (h Handler) ListReviewsHandler(
	ctx context.Context,
	authToken string,
	submissionID string,
	page int,
	limit int,
) (httptransport.ListReviewsResponse, error) {
	items, err := h.Queries.ListReviews(ctx, queries.ListReviewsQuery{
		SubmissionID: submissionID,
		Page:         page,
		Limit:        limit,
		AuthToken:    authToken,
	})
	if err != nil {
		return httptransport.ListReviewsResponse{}, err
	}
	result := make([]httptransport.ReviewDTO, 0, len(items))
	for _, item := range items {
		dto := mapReview(item.Review)
		dto.ReviewerID = item.ReviewerID
		dto.ReviewerName = item.ReviewerName
		result = append(result, dto)
	}
	return httptransport.ListReviewsResponse{Items: result}, nil
}

func (h Handler) ListAnonymizedReviewsHandler(
	ctx context.Context,
	submissionID string,
) (httptransport.ListAnonymizedReviewsResponse, error) {
	items, err := h.Queries.ListAnonymizedReviews(ctx, submissionID)
	if err != nil {
		return httptransport.ListAnonymizedReviewsResponse{}, err
	}
	result := make([]httptransport.AnonymizedReviewDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.AnonymizedReviewDTO{
			Score:            item.Score,
			CommentForAuthor: item.CommentForAuthor,
			Recommendation:   string(item.Recommendation),
			CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.ListAnonymizedReviewsResponse{Items: result}, nil
}

func (h Handler) SubmissionProgressHandler(ctx context.Context, submissionID string) (httptransport.ProgressResponse, error) {
	progress, err := h.Queries.SubmissionProgress(ctx, submissionID)
	if err != nil {
		return httptransport.ProgressResponse{}, err
	}
	return mapProgress(progress), nil
}

func (h Handler) ConferenceProgressHandler(ctx context.Context, conferenceID string) (httptransport.ProgressResponse, error) {
	progress, err := h.Queries.ConferenceProgress(ctx, conferenceID)
	if err != nil {
		return httptransport.ProgressResponse{}, err
	}
	return mapProgress(progress), nil
}

func (h Handler) DecisionSummaryHandler(ctx context.Context, submissionID string) (httptransport.DecisionSummaryResponse, error) {
	summary, err := h.Queries.DecisionSummary(ctx, submissionID)
	if err != nil {
		return httptransport.DecisionSummaryResponse{}, err
	}
	counts := make(map[string]int, len(summary.RecommendationCounts))
	for kind, count := range summary.RecommendationCounts {
		counts[string(kind)] = count
	}
	response := httptransport.DecisionSummaryResponse{
		ReviewCount:          summary.ReviewCount,
		AverageScore:         summary.AverageScore,
		MinScore:             summary.MinScore,
		MaxScore:             summary.MaxScore,
		RecommendationCounts: counts,
	}
	if summary.Decision != nil {
		decision := mapDecision(*summary.Decision)
		response.Decision = &decision
	}
	return response, nil
}

func (h Handler) UpsertDecisionHandler(
	ctx context.Context,
	chairID string,
	req httptransport.UpsertDecisionRequest,
) (httptransport.DecisionResponse, error) {
	item, err := h.Decisions.UpsertDecision(ctx, commands.UpsertDecisionCommand{
		SubmissionID: req.SubmissionID,
		ConferenceID: req.ConferenceID,
		DecidedBy:    chairID,
		Kind:         entities.DecisionKind(strings.ToUpper(strings.TrimSpace(req.Decision))),
		Note:         req.Note,
	})
	if err != nil {
		return httptransport.DecisionResponse{}, err
	}
	return httptransport.DecisionResponse{Decision: mapDecision(item)}, nil
}

func (h Handler) SubmissionsForReviewerHandler(
	ctx context.Context,
	userID string,
	authToken string,
	status string,
) (httptransport.ListSubmissionsResponse, error) {
	items, err := h.Queries.SubmissionsForReviewer(ctx, queries.SubmissionsForReviewerQuery{
		ReviewerID:   userID,
		AuthToken:    authToken,
		StatusFilter: entities.SubmissionStatus(strings.ToUpper(strings.TrimSpace(status))),
	})
	if err != nil {
		return httptransport.ListSubmissionsResponse{}, err
	}
	result := make([]httptransport.SubmissionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapSubmission(item))
	}
	return httptransport.ListSubmissionsResponse{Items: result}, nil
}

func mapPreference(item entities.Preference) httptransport.PreferenceDTO {
	return httptransport.PreferenceDTO{
		PreferenceID:   item.PreferenceID,
		ReviewerID:     item.ReviewerID,
		SubmissionID:   item.SubmissionID,
		ConferenceID:   deref(item.ConferenceID),
		PreferenceKind: string(item.PreferenceKind),
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapAssignment(item entities.Assignment) httptransport.AssignmentDTO {
	return httptransport.AssignmentDTO{
		AssignmentID: item.AssignmentID,
		ReviewerID:   item.ReviewerID,
		SubmissionID: item.SubmissionID,
		ConferenceID: deref(item.ConferenceID),
		Status:       string(item.Status),
		AssignedBy:   item.AssignedBy,
		DueDate:      formatOptionalTime(item.DueDate),
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapReview(item entities.Review) httptransport.ReviewDTO {
	return httptransport.ReviewDTO{
		ReviewID:         item.ReviewID,
		AssignmentID:     item.AssignmentID,
		ConferenceID:     deref(item.ConferenceID),
		Score:            item.Score,
		Confidence:       string(item.Confidence),
		CommentForAuthor: item.CommentForAuthor,
		CommentForPC:     item.CommentForPC,
		Recommendation:   string(item.Recommendation),
		CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapDecision(item entities.Decision) httptransport.DecisionDTO {
	return httptransport.DecisionDTO{
		DecisionID:   item.DecisionID,
		SubmissionID: item.SubmissionID,
		ConferenceID: deref(item.ConferenceID),
		Decision:     string(item.DecisionKind),
		DecidedBy:    item.DecidedBy,
		Note:         item.Note,
		DecidedAt:    item.DecidedAt.UTC().Format(time.RFC3339),
	}
}

func mapSubmission(item entities.Submission) httptransport.SubmissionDTO {
	dto := httptransport.SubmissionDTO{
		SubmissionID: item.SubmissionID,
		TrackID:      item.TrackID,
		ConferenceID: item.ConferenceID,
		Title:        item.Title,
		Abstract:     item.Abstract,
		Status:       string(item.Status),
		AuthorID:     item.AuthorID,
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func mapProgress(item queries.Progress) httptransport.ProgressResponse {
	return httptransport.ProgressResponse{
		TotalAssignments:     item.TotalAssignments,
		CompletedAssignments: item.CompletedAssignments,
		PendingAssignments:   item.PendingAssignments,
		ReviewsSubmitted:     item.ReviewsSubmitted,
		LastReviewAt:         formatOptionalTime(item.LastReviewAt),
	}
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
