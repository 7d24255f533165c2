package domain

import "errors"

// ErrJobNotFound is returned when a job id is not present in the store.
var ErrJobNotFound = errors.New("job not found")

// JobStore holds the mutable progress state of screening jobs. Exactly one
// worker writes a given id; any number of pollers may read concurrently.
type JobStore interface {
	Create(id, filename string)
	Update(id string, progress int, message string, result *ScreeningResult)
	Get(id string) (JobRecord, error)
	List() []JobRecord
}
