package upstream

import "time"

// Canonical upstream schema. Every upstream payload is declared exactly once
// here; field mapping to inbound DTOs happens at the proxy boundary only.

// Token is the response of the password-grant token exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the upstream account record.
type User struct {
	UserID       int       `json:"user_id"`
	UserName     string    `json:"user_name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserCreate is the signup payload sent to the upstream.
type UserCreate struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserName string `json:"user_name"`
}

// UserUpdate is the profile update payload.
type UserUpdate struct {
	UserName     string `json:"user_name"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// Resume is an uploaded resume with its extracted text content.
type Resume struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GrammarError is one spelling/grammar finding in a resume.
type GrammarError struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Context   string `json:"context"`
	Type      string `json:"type"`
}

// GrammarAnalysis is the result of a grammar check.
type GrammarAnalysis struct {
	Errors     []GrammarError `json:"errors"`
	ErrorCount int            `json:"error_count"`
}

// Feedback is the AI-generated overall resume feedback.
type Feedback struct {
	ErrorCount        int    `json:"error_count"`
	CorrectedSentence string `json:"corrected_sentence"`
	Feedback          string `json:"feedback"`
}

// GeneratedQuestion is one AI-generated interview question for a resume.
type GeneratedQuestion struct {
	QuestionID   int    `json:"question_id"`
	ResumeID     int    `json:"resume_id"`
	QuestionText string `json:"question_text"`
}

// Interview is one mock-interview session record.
type Interview struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"owner_id"`
	ResumeID  int       `json:"resume_id"`
	JobID     int       `json:"job_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InterviewCreate is the payload for starting an interview session.
type InterviewCreate struct {
	ResumeID int `json:"resume_id"`
	JobID    int `json:"job_id"`
}

// Analysis is the post-interview feedback record.
type Analysis struct {
	AnalysisID   int       `json:"analysis_id"`
	InterviewID  int       `json:"interview_id"`
	FeedbackText string    `json:"feedback_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// VideoAnalysisRequest carries facial landmark frames captured during a
// recorded interview. Landmark payloads are opaque to the BFF.
type VideoAnalysisRequest struct {
	Landmarks []map[string]any `json:"landmarks"`
}
