// Package harvest drives the scrolled listing of one search and yields the
// postings it has not seen before, batch by batch.
package harvest

import (
	"context"
	"github.com/maxaizer/boss-harvester/internal/browser"
	"github.com/maxaizer/boss-harvester/internal/clients/boss"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/maxaizer/boss-harvester/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"iter"
	"math/rand/v2"
	"strings"
	"time"
)

var ErrAccessDenied = errors.New("access denied by source")

var accessDeniedMarkers = []string{"异常", "禁止", "账号存在异常"}

const (
	minScrollSteps  = 2
	maxScrollSteps  = 4
	minScrollPixels = 300
	maxScrollPixels = 600
)

type Query struct {
	Keyword  string
	CityCode string
}

type Options struct {
	MaxRounds        int
	MinRounds        int
	EmptyRoundLimit  int
	RoundTimeout     time.Duration
	VerificationWait time.Duration
	ScrollPause      time.Duration
}

type Harvester struct {
	page  browser.Controller
	pacer *browser.Pacer
	opts  Options
}

// NewHarvester builds a harvester; pacer spaces out consecutive rounds.
func NewHarvester(page browser.Controller, pacer *browser.Pacer, opts Options) *Harvester {
	return &Harvester{page: page, pacer: pacer, opts: opts}
}

// Harvest returns a lazy, single-use sequence of listing batches. Every batch
// holds only postings new to this session. Recoverable problems are logged
// and skipped; a fatal error or cancellation is yielded once and ends the
// sequence. The caller must persist each batch before pulling the next one.
func (h *Harvester) Harvest(ctx context.Context, query Query) iter.Seq2[[]models.RawListingRecord, error] {
	return func(yield func([]models.RawListingRecord, error) bool) {
		logger := log.WithFields(log.Fields{"keyword": query.Keyword, "city": query.CityCode})

		if err := h.open(ctx, query); err != nil {
			yield(nil, err)
			return
		}

		state := NewState()
		for !state.Exhausted(h.opts) {
			if ctx.Err() != nil {
				yield(nil, context.Cause(ctx))
				return
			}

			batch, err := h.round(state, logger)
			if err != nil {
				yield(nil, err)
				return
			}
			logger.Infof("round %d: %d new, %d seen", state.Rounds, len(batch), state.Seen())

			if len(batch) > 0 && !yield(batch, nil) {
				return
			}
			if err := h.pacer.Pause(ctx); err != nil {
				yield(nil, context.Cause(ctx))
				return
			}
		}
		logger.Infof("listing finished after %d rounds, %d postings", state.Rounds, len(state.Harvested))
	}
}

func (h *Harvester) open(ctx context.Context, query Query) error {
	if err := h.page.Navigate(boss.HomeURL); err != nil {
		return err
	}
	if err := h.pacer.Pause(ctx); err != nil {
		return context.Cause(ctx)
	}
	if err := h.page.Navigate(boss.SearchURL(query.Keyword, query.CityCode)); err != nil {
		return err
	}

	log.Infof("waiting %s for human verification", h.opts.VerificationWait)
	if err := browser.Sleep(ctx, h.opts.VerificationWait); err != nil {
		return context.Cause(ctx)
	}

	html, err := h.page.HTML()
	if err != nil {
		return errors.Wrap(err, "failed to read page")
	}
	page := strings.ToLower(html)
	for _, marker := range accessDeniedMarkers {
		if strings.Contains(page, marker) {
			return errors.Wrapf(ErrAccessDenied, "page contains %q", marker)
		}
	}
	return nil
}

func (h *Harvester) round(state *State, logger *log.Entry) ([]models.RawListingRecord, error) {
	h.page.Listen(boss.ListingPattern)

	steps := minScrollSteps + rand.IntN(maxScrollSteps-minScrollSteps+1)
	for i := 0; i < steps; i++ {
		if err := h.page.Scroll(minScrollPixels + rand.IntN(maxScrollPixels-minScrollPixels+1)); err != nil {
			return nil, errors.Wrap(err, "failed to scroll")
		}
		time.Sleep(browser.RandomDuration(h.opts.ScrollPause/2, h.opts.ScrollPause))
	}
	if err := h.page.ScrollToBottom(); err != nil {
		return nil, errors.Wrap(err, "failed to scroll")
	}

	response, err := h.page.WaitForNetwork(h.opts.RoundTimeout)
	if err != nil {
		state.CountFailedRound()
		metrics.ListingRounds.WithLabelValues(metrics.RoundTimeout).Inc()
		logger.Warnf("no listing response: %v", err)
		return nil, nil
	}

	records, err := boss.DecodeListing(response.Body)
	if err != nil {
		state.CountFailedRound()
		metrics.ListingRounds.WithLabelValues(metrics.RoundMalformed).Inc()
		logger.Warnf("skipping listing response: %v", err)
		return nil, nil
	}

	fresh := state.Admit(records)
	state.CountRound(len(fresh))
	if len(fresh) == 0 {
		metrics.ListingRounds.WithLabelValues(metrics.RoundEmpty).Inc()
	} else {
		metrics.ListingRounds.WithLabelValues(metrics.RoundOk).Inc()
	}
	return fresh, nil
}
