package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/maxaizer/boss-harvester/internal/browser"
	"github.com/maxaizer/boss-harvester/internal/dedup"
	"github.com/maxaizer/boss-harvester/internal/domain/events"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/maxaizer/boss-harvester/internal/entities"
	"github.com/maxaizer/boss-harvester/internal/harvest"
	"github.com/maxaizer/boss-harvester/internal/interrupt"
	"github.com/maxaizer/boss-harvester/internal/logger"
	"github.com/maxaizer/boss-harvester/internal/metrics"
	"github.com/maxaizer/boss-harvester/internal/normalize"
	log "github.com/sirupsen/logrus"
	"iter"
	"time"
)

var ErrSnapshotWrite = errors.New("snapshot write failed")

type listingHarvester interface {
	Harvest(ctx context.Context, query harvest.Query) iter.Seq2[[]models.RawListingRecord, error]
}

type descriptionFetcher interface {
	FetchDescription(ctx context.Context, record models.RawListingRecord) string
}

type snapshotStore interface {
	Write(records []models.JobRecord) error
	Load() ([]models.JobRecord, error)
	Path() string
}

type runJournal interface {
	Start(ctx context.Context, run entities.Run) error
	Finish(ctx context.Context, run entities.Run) error
}

// Pass is one keyword searched in one city.
type Pass struct {
	Search   normalize.Search
	CityCode string
}

type PipelineOptions struct {
	FetchDetails bool
	FlushEvery   int
	PairPause    time.Duration
	Resume       bool
}

// Pipeline runs passes one after another, keeping the merged result set in
// memory and writing it to the snapshot after every batch.
type Pipeline struct {
	harvester listingHarvester
	fetcher   descriptionFetcher
	store     snapshotStore
	runs      runJournal
	bus       EventBus.Bus
	opts      PipelineOptions
	now       func() time.Time

	records []models.JobRecord
}

// NewPipeline wires the driver. runs may be nil when no journal is kept.
func NewPipeline(harvester listingHarvester, fetcher descriptionFetcher, store snapshotStore,
	runs runJournal, bus EventBus.Bus, opts PipelineOptions) *Pipeline {

	if opts.FlushEvery <= 0 {
		opts.FlushEvery = 5
	}
	return &Pipeline{
		harvester: harvester,
		fetcher:   fetcher,
		store:     store,
		runs:      runs,
		bus:       bus,
		opts:      opts,
		now:       time.Now,
	}
}

// Records returns a copy of the current merged result set.
func (p *Pipeline) Records() []models.JobRecord {
	return models.CloneRecords(p.records)
}

// Run executes passes in order. The snapshot is written once more before Run
// returns, whatever the outcome. An operator interruption is not an error;
// access denial and snapshot failures trip ctrl and stop the remaining
// passes; any other failed pass is reported after the others have run.
func (p *Pipeline) Run(ctrl *interrupt.Controller, passes []Pass) error {
	ctx := ctrl.Context()

	if p.opts.Resume {
		loaded, err := p.store.Load()
		if err != nil {
			return fmt.Errorf("failed to load previous snapshot: %w", err)
		}
		p.records = dedup.Merge(nil, loaded)
		log.Infof("resuming with %d records from %s", len(p.records), p.store.Path())
	}

	var failed []error
	for i, pass := range passes {
		if ctrl.Tripped() {
			break
		}

		err := p.runPass(ctx, pass)
		if err != nil && !ctrl.Interrupted() {
			failed = append(failed, fmt.Errorf("%s/%s: %w", pass.Search.Keyword, pass.Search.City, err))
			if errors.Is(err, harvest.ErrAccessDenied) || errors.Is(err, ErrSnapshotWrite) {
				ctrl.Trip(err)
				break
			}
		}

		if i < len(passes)-1 {
			_ = browser.Sleep(ctx, p.opts.PairPause)
		}
	}

	if err := p.flush("final"); err != nil {
		failed = append(failed, err)
	}

	if ctrl.Interrupted() {
		log.Infof("interrupted, %d records saved to %s", len(p.records), p.store.Path())
	}
	return errors.Join(failed...)
}

func (p *Pipeline) runPass(ctx context.Context, pass Pass) error {
	run := entities.Run{
		ID:        uuid.NewString(),
		Keyword:   pass.Search.Keyword,
		City:      pass.Search.City,
		StartedAt: p.now(),
	}
	entry := log.WithFields(log.Fields{"run_id": run.ID, "keyword": run.Keyword, "city": run.City})
	entry.Info("pass started")

	p.bus.Publish(events.RunStartedTopic, events.RunStarted{
		RunID: run.ID, Keyword: run.Keyword, City: run.City, StartedAt: run.StartedAt,
	})
	if p.runs != nil {
		if err := p.runs.Start(context.Background(), run); err != nil {
			entry.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to journal run: %v", err)
		}
	}

	err := p.collect(ctx, pass, &run)
	if flushErr := p.flush(pass.Search.Keyword + "/" + pass.Search.City); flushErr != nil && err == nil {
		err = flushErr
	}

	finished := p.now()
	run.FinishedAt = &finished
	switch {
	case err == nil:
		run.Status = entities.RunOk
	case errors.Is(err, interrupt.ErrInterrupted):
		run.Status = entities.RunInterrupted
	default:
		run.Status = entities.RunFailed
		run.Error = err.Error()
		entry.WithField(logger.ErrorTypeField, logger.ErrorTypeBrowser).Errorf("pass failed: %v", err)
	}
	metrics.PassDuration.Observe(finished.Sub(run.StartedAt).Seconds())
	entry.Infof("pass %s: %d harvested, %d descriptions, %d skipped",
		run.Status, run.Harvested, run.Descriptions, run.Skipped)

	if p.runs != nil {
		if jErr := p.runs.Finish(context.Background(), run); jErr != nil {
			entry.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to journal run: %v", jErr)
		}
	}
	p.bus.Publish(events.RunFinishedTopic, events.RunFinished{
		RunID:        run.ID,
		Keyword:      run.Keyword,
		City:         run.City,
		StartedAt:    run.StartedAt,
		FinishedAt:   finished,
		Harvested:    run.Harvested,
		Descriptions: run.Descriptions,
		Skipped:      run.Skipped,
		Status:       events.RunStatus(run.Status),
		Error:        run.Error,
	})
	return err
}

type pendingDetail struct {
	raw         models.RawListingRecord
	key         models.DedupKey
	collectedAt time.Time
}

// collect runs the listing phase and then the detail phase of one pass.
func (p *Pipeline) collect(ctx context.Context, pass Pass, run *entities.Run) error {
	var pending []pendingDetail

	for batch, err := range p.harvester.Harvest(ctx, harvest.Query{Keyword: pass.Search.Keyword, CityCode: pass.CityCode}) {
		if err != nil {
			return err
		}

		collectedAt := p.now()
		jobs := make([]models.JobRecord, 0, len(batch))
		for _, raw := range batch {
			outcome := normalize.Record(pass.Search, raw, "", collectedAt)
			if !outcome.IsOk() {
				run.Skipped++
				metrics.RecordsCounter.WithLabelValues("skipped").Inc()
				log.Warnf("skipping listing: %s", outcome.SkipReason)
				continue
			}
			metrics.RecordsCounter.WithLabelValues("ok").Inc()
			jobs = append(jobs, *outcome.Record)
			pending = append(pending, pendingDetail{raw: raw, key: outcome.Record.Key(), collectedAt: collectedAt})
		}

		run.Harvested += len(jobs)
		p.records = dedup.Merge(p.records, jobs)
		if err := p.flush(pass.Search.Keyword + "/" + pass.Search.City); err != nil {
			return err
		}
	}

	if !p.opts.FetchDetails {
		return nil
	}
	return p.enrich(ctx, pass, pending, run)
}

func (p *Pipeline) enrich(ctx context.Context, pass Pass, pending []pendingDetail, run *entities.Run) error {
	missing := make(map[models.DedupKey]struct{})
	for _, r := range p.records {
		if r.DescriptionText == "" {
			missing[r.Key()] = struct{}{}
		}
	}

	fetched := 0
	for _, item := range pending {
		if _, ok := missing[item.key]; !ok {
			continue
		}
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		description := p.fetcher.FetchDescription(ctx, item.raw)
		fetched++

		if description != "" {
			outcome := normalize.Record(pass.Search, item.raw, description, item.collectedAt)
			if outcome.IsOk() && outcome.Record.DescriptionText != "" {
				p.records = dedup.Merge(p.records, []models.JobRecord{*outcome.Record})
				delete(missing, item.key)
				run.Descriptions++
			}
		}

		if fetched%p.opts.FlushEvery == 0 {
			if err := p.flush(pass.Search.Keyword + "/" + pass.Search.City + " details"); err != nil {
				return err
			}
		}
	}

	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return nil
}

func (p *Pipeline) flush(reason string) error {
	snapshot := models.CloneRecords(p.records)
	if err := p.store.Write(snapshot); err != nil {
		metrics.SnapshotWrites.WithLabelValues("failed").Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSnapshot).Errorf("failed to write snapshot: %v", err)
		return fmt.Errorf("%w: %w", ErrSnapshotWrite, err)
	}
	metrics.SnapshotWrites.WithLabelValues("ok").Inc()
	log.Debugf("snapshot written (%s): %d records", reason, len(snapshot))

	p.bus.Publish(events.SnapshotWrittenTopic, events.SnapshotWritten{
		Path:    p.store.Path(),
		Reason:  reason,
		Records: snapshot,
	})
	return nil
}
