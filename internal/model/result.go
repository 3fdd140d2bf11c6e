package model

// Rating is the coarse strength classification returned by the scoring service.
type Rating string

const (
	RatingWeak   Rating = "Weak"
	RatingMedium Rating = "Medium"
	RatingStrong Rating = "Strong"
)

// Ratings lists the known ratings from weakest to strongest.
var Ratings = []Rating{RatingWeak, RatingMedium, RatingStrong}

// CheckRequest represents a password check request.
type CheckRequest struct {
	Password string `json:"password"`
}

// StrengthResult is the scoring service's verdict, kept as returned.
type StrengthResult struct {
	Rating   Rating   `json:"rating"`
	Feedback []string `json:"feedback"`
	Length   int      `json:"length,omitempty"`
	Password string   `json:"password,omitempty"`
}

// SessionInfo is the diagnostic payload of the session endpoint.
type SessionInfo map[string]any

// HealthResponse is the payload of the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
