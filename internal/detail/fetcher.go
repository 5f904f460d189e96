package detail

import (
	"context"
	"github.com/maxaizer/boss-harvester/internal/browser"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/maxaizer/boss-harvester/internal/logger"
	"github.com/maxaizer/boss-harvester/internal/metrics"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"time"
)

// Fetcher tries its sources in order and returns the first non-empty
// description. It never fails: source errors are logged and the result is
// then empty.
type Fetcher struct {
	sources []Source
	pacer   *browser.Pacer
	cache   *cache.Cache
}

func NewFetcher(pacer *browser.Pacer, cacheTTL time.Duration, sources ...Source) *Fetcher {
	return &Fetcher{
		sources: sources,
		pacer:   pacer,
		cache:   cache.New(cacheTTL, 2*cacheTTL),
	}
}

// FetchDescription returns the description for record, or "" when no source
// produced one. A paced delay follows every network fetch; cached
// descriptions are returned without touching the page.
func (f *Fetcher) FetchDescription(ctx context.Context, record models.RawListingRecord) string {
	if cached, ok := f.cache.Get(record.JobID); ok {
		metrics.DetailFetches.WithLabelValues(metrics.SourceCache).Inc()
		return cached.(string)
	}

	entry := log.WithField("job_id", record.JobID)
	description, source := "", metrics.SourceNone
	for _, s := range f.sources {
		text, err := s.Description(ctx, record)
		if err != nil {
			entry.WithField(logger.ErrorTypeField, logger.ErrorTypeBrowser).
				Warnf("%s detail source failed: %v", s.Name(), err)
			continue
		}
		if text != "" {
			description, source = text, s.Name()
			break
		}
	}

	metrics.DetailFetches.WithLabelValues(source).Inc()
	if description != "" {
		f.cache.SetDefault(record.JobID, description)
	}

	if err := f.pacer.Pause(ctx); err != nil {
		entry.Debug("detail pacing interrupted")
	}
	return description
}
