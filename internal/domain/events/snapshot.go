package events

import (
	"github.com/maxaizer/boss-harvester/internal/domain/models"
)

var SnapshotWrittenTopic = "SnapshotWrittenEvent"

// SnapshotWritten is published after every successful snapshot write.
// Records is a private copy owned by the subscribers.
type SnapshotWritten struct {
	Path    string
	Reason  string
	Records []models.JobRecord
}
