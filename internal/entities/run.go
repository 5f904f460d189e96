package entities

import "time"

type RunStatus string

const (
	RunRunning     RunStatus = "running"
	RunOk          RunStatus = "ok"
	RunFailed      RunStatus = "failed"
	RunInterrupted RunStatus = "interrupted"
)

// Run is one keyword and city pass as recorded in the journal.
type Run struct {
	ID           string `gorm:"primaryKey"`
	Keyword      string
	City         string
	Status       RunStatus `gorm:"index"`
	Harvested    int
	Descriptions int
	Skipped      int
	Error        string
	StartedAt    time.Time `gorm:"index"`
	FinishedAt   *time.Time
}
