package domain

// JobRecord tracks the progress of one CV screening job. Progress is
// monotonically non-decreasing; Result stays nil until Progress reaches 100.
type JobRecord struct {
	ID       string           `json:"id"`
	Filename string           `json:"filename"`
	Progress int              `json:"progress"`
	Message  string           `json:"message"`
	Result   *ScreeningResult `json:"result"`
}

// Terminal reports whether the job has finished and will not mutate again.
func (r JobRecord) Terminal() bool {
	return r.Progress >= 100
}
