package browser

import (
	"context"
	"golang.org/x/time/rate"
	"math/rand/v2"
	"time"
)

// Pacer spaces out requests with a random delay. An optional limiter caps the
// long-run request rate on top of the delay.
type Pacer struct {
	min     time.Duration
	max     time.Duration
	limiter *rate.Limiter
}

func NewPacer(min, max time.Duration) *Pacer {
	if max < min {
		max = min
	}
	return &Pacer{min: min, max: max}
}

func (p *Pacer) SetRequestsPerMinute(n int) {
	if n <= 0 {
		p.limiter = nil
		return
	}
	p.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

// Pause sleeps for a random duration in [min, max] and then waits for the
// limiter. It returns early with the context error if ctx is cancelled.
func (p *Pacer) Pause(ctx context.Context) error {
	if err := Sleep(ctx, RandomDuration(p.min, p.max)); err != nil {
		return err
	}
	if p.limiter != nil {
		return p.limiter.Wait(ctx)
	}
	return nil
}

func RandomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min+1)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
