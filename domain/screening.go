package domain

// ScreeningResult is the normalized outcome of one screening job. Score is
// always within [0,100]; a failed evaluation carries a zero score and an
// explanation instead of a missing result.
type ScreeningResult struct {
	Name          string   `json:"name"`
	Contact       string   `json:"contact"`
	Score         int      `json:"score"`
	Explanation   string   `json:"explanation"`
	MatchedSkills []string `json:"matched_skills"`
}

// JobDescription is the vacancy text candidates are screened against.
type JobDescription struct {
	Text     string
	Filename string
}

// CandidateDocument is one uploaded CV: raw bytes plus the original filename.
type CandidateDocument struct {
	Filename string
	Data     []byte
}
