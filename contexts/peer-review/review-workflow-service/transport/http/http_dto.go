package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitBidRequest struct {
	SubmissionID   string  `json:"submission_id"`
	ConferenceID   *string `json:"conference_id,omitempty"`
	PreferenceKind string  `json:"preference_kind"`
}

type SelfAssignRequest struct {
	SubmissionID string `json:"submission_id"`
	ConferenceID string `json:"conference_id"`
}

type AssignReviewerRequest struct {
	ReviewerID   string `json:"reviewer_id"`
	SubmissionID string `json:"submission_id"`
	ConferenceID string `json:"conference_id"`
	DueDate      string `json:"due_date,omitempty"`
}

type SubmitReviewRequest struct {
	AssignmentID     string  `json:"assignment_id"`
	Score            int     `json:"score"`
	Confidence       string  `json:"confidence"`
	CommentForAuthor *string `json:"comment_for_author,omitempty"`
	CommentForPC     *string `json:"comment_for_pc,omitempty"`
	Recommendation   string  `json:"recommendation"`
}

type UpsertDecisionRequest struct {
	SubmissionID string  `json:"submission_id"`
	ConferenceID *string `json:"conference_id,omitempty"`
	Decision     string  `json:"decision"`
	Note         *string `json:"note,omitempty"`
}

type PreferenceDTO struct {
	PreferenceID   string `json:"preference_id"`
	ReviewerID     string `json:"reviewer_id"`
	SubmissionID   string `json:"submission_id"`
	ConferenceID   string `json:"conference_id,omitempty"`
	PreferenceKind string `json:"preference_kind"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type AssignmentDTO struct {
	AssignmentID string `json:"assignment_id"`
	ReviewerID   string `json:"reviewer_id"`
	SubmissionID string `json:"submission_id"`
	ConferenceID string `json:"conference_id,omitempty"`
	Status       string `json:"status"`
	AssignedBy   string `json:"assigned_by"`
	DueDate      string `json:"due_date,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type ReviewDTO struct {
	ReviewID         string  `json:"review_id"`
	AssignmentID     string  `json:"assignment_id"`
	ConferenceID     string  `json:"conference_id,omitempty"`
	ReviewerID       string  `json:"reviewer_id,omitempty"`
	ReviewerName     string  `json:"reviewer_name,omitempty"`
	Score            int     `json:"score"`
	Confidence       string  `json:"confidence"`
	CommentForAuthor *string `json:"comment_for_author,omitempty"`
	CommentForPC     *string `json:"comment_for_pc,omitempty"`
	Recommendation   string  `json:"recommendation"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type AnonymizedReviewDTO struct {
	Score            int     `json:"score"`
	CommentForAuthor *string `json:"comment_for_author,omitempty"`
	Recommendation   string  `json:"recommendation"`
	CreatedAt        string  `json:"created_at"`
}

type DecisionDTO struct {
	DecisionID   string  `json:"decision_id"`
	SubmissionID string  `json:"submission_id"`
	ConferenceID string  `json:"conference_id,omitempty"`
	Decision     string  `json:"decision"`
	DecidedBy    string  `json:"decided_by"`
	Note         *string `json:"note,omitempty"`
	DecidedAt    string  `json:"decided_at"`
}

type SubmissionDTO struct {
	SubmissionID string `json:"submission_id"`
	TrackID      string `json:"track_id"`
	ConferenceID string `json:"conference_id,omitempty"`
	Title        string `json:"title"`
	Abstract     string `json:"abstract,omitempty"`
	Status       string `json:"status"`
	AuthorID     string `json:"author_id,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type PreferenceResponse struct {
	Preference PreferenceDTO `json:"preference"`
}

type ListPreferencesResponse struct {
	Items []PreferenceDTO `json:"items"`
}

type AssignmentResponse struct {
	Assignment AssignmentDTO `json:"assignment"`
}

type ListAssignmentsResponse struct {
	Items []AssignmentDTO `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ReviewResponse struct {
	Review ReviewDTO `json:"review"`
}

type ListReviewsResponse struct {
	Items []ReviewDTO `json:"items"`
}

type ListAnonymizedReviewsResponse struct {
	Items []AnonymizedReviewDTO `json:"items"`
}

type ProgressResponse struct {
	TotalAssignments     int    `json:"total_assignments"`
	CompletedAssignments int    `json:"completed_assignments"`
	PendingAssignments   int    `json:"pending_assignments"`
	ReviewsSubmitted     int    `json:"reviews_submitted"`
	LastReviewAt         string `json:"last_review_at,omitempty"`
}

type DecisionSummaryResponse struct {
	ReviewCount          int            `json:"review_count"`
	AverageScore         *float64       `json:"average_score"`
	MinScore             *int           `json:"min_score"`
	MaxScore             *int           `json:"max_score"`
	RecommendationCounts map[string]int `json:"recommendation_counts"`
	Decision             *DecisionDTO   `json:"decision"`
}

type DecisionResponse struct {
	Decision DecisionDTO `json:"decision"`
}

type ListSubmissionsResponse struct {
	Items []SubmissionDTO `json:"items"`
}

type HasAssignmentResponse struct {
	SubmissionID  string `json:"submission_id"`
	HasAssignment bool   `json:"has_assignment"`
}

type ConflictResponse struct {
	SubmissionID string `json:"submission_id"`
	HasConflict  bool   `json:"has_conflict"`
}
