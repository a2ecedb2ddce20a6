package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	reviewworkflow "confman/contexts/peer-review/review-workflow-service"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	reviewhttp "confman/contexts/peer-review/review-workflow-service/transport/http"
	_ "confman/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// JWTSecret enables HS256 bearer verification. When empty the caller is
	// taken from X-User-Id and the bearer token is only forwarded upstream.
	JWTSecret string
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

type Server struct {
	mux     *http.ServeMux
	http    *http.Server
	logger  *slog.Logger
	addr    string
	review  reviewworkflow.Module
	options Options
}

func New(review reviewworkflow.Module, options Options, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		review:  review,
		options: options,
	}
	s.registerRoutes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.options.MetricsHandler != nil {
		s.mux.Handle("GET /metrics", s.options.MetricsHandler)
	}
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("POST /bids", s.handleSubmitBid)
	s.mux.HandleFunc("GET /bids/me", s.handleListMyBids)
	s.mux.HandleFunc("GET /submissions/{submission_id}/conflict", s.handleConflict)

	s.mux.HandleFunc("POST /assignments", s.handleAssignReviewer)
	s.mux.HandleFunc("POST /assignments/self", s.handleSelfAssign)
	s.mux.HandleFunc("GET /assignments/me", s.handleListMyAssignments)
	s.mux.HandleFunc("GET /assignments/submission/{submission_id}/exists", s.handleHasAssignment)
	s.mux.HandleFunc("PUT /assignments/{assignment_id}/accept", s.handleAssignmentStatus(entities.AssignmentStatusAccepted))
	s.mux.HandleFunc("PUT /assignments/{assignment_id}/reject", s.handleAssignmentStatus(entities.AssignmentStatusRejected))

	s.mux.HandleFunc("POST /reviews", s.handleSubmitReview)
	s.mux.HandleFunc("GET /reviews/assignment/{assignment_id}", s.handleGetMyReview)
	s.mux.HandleFunc("GET /reviews/submission/{submission_id}", s.handleListReviews)
	s.mux.HandleFunc("GET /reviews/submission/{submission_id}/anonymized", s.handleListAnonymizedReviews)

	s.mux.HandleFunc("GET /submissions/{submission_id}/progress", s.handleSubmissionProgress)
	s.mux.HandleFunc("GET /conferences/{conference_id}/progress", s.handleConferenceProgress)
	s.mux.HandleFunc("GET /submissions/{submission_id}/decision-summary", s.handleDecisionSummary)
	s.mux.HandleFunc("POST /decisions", s.handleUpsertDecision)

	s.mux.HandleFunc("GET /reviewer/submissions", s.handleReviewerSubmissions)
}

func (s *Server) handleSubmitBid(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req reviewhttp.SubmitBidRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.review.Handler.SubmitBidHandler(r.Context(), caller.UserID, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMyBids(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.ListMyBidsHandler(r.Context(), caller.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConflict(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.ConflictHandler(
		r.Context(),
		caller.UserID,
		r.PathValue("submission_id"),
		r.URL.Query().Get("conference_id"),
	)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignReviewer(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req reviewhttp.AssignReviewerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.review.Handler.AssignReviewerHandler(r.Context(), caller.UserID, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSelfAssign(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req reviewhttp.SelfAssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.review.Handler.SelfAssignHandler(r.Context(), caller.UserID, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMyAssignments(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	page, limit, ok := parsePaging(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.ListMyAssignmentsHandler(r.Context(), caller.UserID, page, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHasAssignment(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.HasAssignmentHandler(r.Context(), caller.UserID, r.PathValue("submission_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignmentStatus(status entities.AssignmentStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := s.requireCaller(w, r)
		if !ok {
			return
		}
		resp, err := s.review.Handler.UpdateAssignmentStatusHandler(
			r.Context(),
			caller.UserID,
			r.PathValue("assignment_id"),
			status,
		)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req reviewhttp.SubmitReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.review.Handler.SubmitReviewHandler(r.Context(), caller.UserID, caller.Token, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMyReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.GetMyReviewHandler(r.Context(), caller.UserID, r.PathValue("assignment_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	page, limit, ok := parsePaging(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.ListReviewsHandler(r.Context(), caller.Token, r.PathValue("submission_id"), page, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAnonymizedReviews(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCaller(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.ListAnonymizedReviewsHandler(r.Context(), r.PathValue("submission_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmissionProgress(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCaller(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.SubmissionProgressHandler(r.Context(), r.PathValue("submission_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConferenceProgress(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCaller(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.ConferenceProgressHandler(r.Context(), r.PathValue("conference_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecisionSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCaller(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.DecisionSummaryHandler(r.Context(), r.PathValue("submission_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpsertDecision(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req reviewhttp.UpsertDecisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.review.Handler.UpsertDecisionHandler(r.Context(), caller.UserID, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewerSubmissions(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.SubmissionsForReviewerHandler(
		r.Context(),
		caller.UserID,
		caller.Token,
		r.URL.Query().Get("status"),
	)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, domainerrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domainerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, domainerrors.ErrConflictOfInterest):
		writeError(w, http.StatusConflict, "conflict_of_interest", err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateReview):
		writeError(w, http.StatusConflict, "duplicate_review", err.Error())
	case errors.Is(err, domainerrors.ErrAssignmentExists):
		writeError(w, http.StatusConflict, "assignment_exists", err.Error())
	case errors.Is(err, domainerrors.ErrDeadlineExceeded):
		writeError(w, http.StatusGone, "deadline_exceeded", err.Error())
	case errors.Is(err, domainerrors.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, "upstream_unavailable", "upstream service unavailable")
	case errors.Is(err, domainerrors.ErrInconsistent):
		s.logRequestError(r, err)
		writeError(w, http.StatusInternalServerError, "inconsistent_state", "data integrity violation")
	default:
		s.logRequestError(r, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) logRequestError(r *http.Request, err error) {
	s.logger.Error("request failed",
		"event", "http_request_failed",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func parsePaging(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	query := r.URL.Query()
	page, limit := 0, 0
	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			writeError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return 0, 0, false
		}
		page = value
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > 100 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer between 1 and 100")
			return 0, 0, false
		}
		limit = value
	}
	return page, limit, true
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reviewhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
