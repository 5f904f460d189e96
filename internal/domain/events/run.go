package events

import "time"

var RunStartedTopic = "RunStartedEvent"
var RunFinishedTopic = "RunFinishedEvent"

type RunStatus string

const (
	RunOK          RunStatus = "ok"
	RunFailed      RunStatus = "failed"
	RunInterrupted RunStatus = "interrupted"
)

type RunStarted struct {
	RunID     string
	Keyword   string
	City      string
	StartedAt time.Time
}

type RunFinished struct {
	RunID        string
	Keyword      string
	City         string
	StartedAt    time.Time
	FinishedAt   time.Time
	Harvested    int
	Descriptions int
	Skipped      int
	Status       RunStatus
	Error        string
}
