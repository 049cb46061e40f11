package main

type MatchRequest struct {
	ProbeImage     string `json:"probe_image"`
	CandidateImage string `json:"candidate_image"`
}

type MatchResponse struct {
	Score   int    `json:"score"`
	Match   bool   `json:"is_match"`
	Elapsed string `json:"elapsed"`
}

type EnrollRequest struct {
	Subject string `json:"subject"`
	Image   string `json:"image"`
}

type EnrollResponse struct {
	ID       int64  `json:"id"`
	Subject  string `json:"subject"`
	Minutiae int    `json:"minutiae"`
}

type IdentifyRequest struct {
	Image string `json:"image"`
}

type SubjectScore struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

type IdentifyResponse struct {
	Matched     bool           `json:"matched"`
	BestSubject string         `json:"best_subject,omitempty"`
	BestScore   int            `json:"best_score"`
	Scores      []SubjectScore `json:"scores"`
	Elapsed     string         `json:"elapsed"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
