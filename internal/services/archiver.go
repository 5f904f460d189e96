package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/boss-harvester/internal/domain/events"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/maxaizer/boss-harvester/internal/logger"
	log "github.com/sirupsen/logrus"
	"time"
)

type jobArchive interface {
	Upsert(ctx context.Context, records []models.JobRecord, seenAt time.Time) error
}

// Archiver mirrors every written snapshot into the job archive. Archive
// failures are logged and never reach the pipeline.
type Archiver struct {
	jobs jobArchive
	now  func() time.Time
}

func NewArchiver(bus EventBus.Bus, jobs jobArchive) (*Archiver, error) {
	a := &Archiver{jobs: jobs, now: time.Now}
	if err := bus.Subscribe(events.SnapshotWrittenTopic, a.onSnapshotWritten); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Archiver) onSnapshotWritten(event events.SnapshotWritten) {
	if err := a.jobs.Upsert(context.Background(), event.Records, a.now()); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to archive snapshot %s: %v", event.Path, err)
	}
}
