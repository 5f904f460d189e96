package services

import (
	"context"
	"github.com/maxaizer/boss-harvester/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

type runCleanupRepository interface {
	RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error)
}

// RunsCleaner drops journal rows older than the retention period once a day.
type RunsCleaner struct {
	runs            runCleanupRepository
	cron            *cron.Cron
	retentionInDays int
	now             func() time.Time
}

func NewRunsCleaner(runs runCleanupRepository, retentionInDays int) (*RunsCleaner, error) {

	if retentionInDays <= 0 {
		return nil, errors.New("retention in days must be greater than zero")
	}

	rc := &RunsCleaner{
		runs:            runs,
		cron:            cron.New(),
		retentionInDays: retentionInDays,
		now:             time.Now,
	}

	_, err := rc.cron.AddFunc("0 0 * * *", rc.cleanOldRuns)
	if err != nil {
		return nil, err
	}

	rc.cron.Start()
	log.Infof("runs cleaner started, retention in days: %d", rc.retentionInDays)
	return rc, nil
}

func (rc *RunsCleaner) Stop() {
	rc.cron.Stop()
}

func (rc *RunsCleaner) cleanOldRuns() {
	expirationTime := rc.now().AddDate(0, 0, -rc.retentionInDays)
	rowsAffected, err := rc.runs.RemoveOlderThan(context.Background(), expirationTime)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to clean old runs: %v", err)
	} else {
		log.Infof("old runs cleaned at %v, affected rows: %v", rc.now(), rowsAffected)
	}
}
