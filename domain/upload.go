package domain

import "time"

// Submission archives one screening request: the job text and how many CVs
// came with it.
type Submission struct {
	ID        uint   `gorm:"primaryKey"`
	JobText   string `gorm:"type:text;not null"`
	CVCount   int    `gorm:"not null"`
	CreatedAt time.Time
}

// Upload archives one CV file of a submission, keyed by its screening job id.
type Upload struct {
	ID           uint   `gorm:"primaryKey"`
	SubmissionID uint   `gorm:"index;not null"`
	JobID        string `gorm:"size:64;index"`
	Filename     string `gorm:"size:255"`
	Size         int64
	CreatedAt    time.Time
}
