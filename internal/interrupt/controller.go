// Package interrupt owns the process-wide cancellation flag. The flag is set
// once, by an operator signal or by the first fatal error, and the first
// cause wins.
package interrupt

import (
	"context"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"sync"
)

var ErrInterrupted = errors.New("interrupted by operator")

type Controller struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	once   sync.Once
	stop   func()
}

func New(parent context.Context) *Controller {
	ctx, cancel := context.WithCancelCause(parent)
	return &Controller{ctx: ctx, cancel: cancel, stop: func() {}}
}

// Context is cancelled when the controller trips.
func (c *Controller) Context() context.Context {
	return c.ctx
}

// Trip sets the flag. Only the first call has an effect.
func (c *Controller) Trip(cause error) {
	c.once.Do(func() {
		if cause == nil {
			cause = ErrInterrupted
		}
		c.cancel(cause)
	})
}

func (c *Controller) Tripped() bool {
	return c.ctx.Err() != nil
}

// Cause returns the error the controller was tripped with, or nil.
func (c *Controller) Cause() error {
	if !c.Tripped() {
		return nil
	}
	return context.Cause(c.ctx)
}

// Interrupted reports whether the controller was tripped by the operator.
func (c *Controller) Interrupted() bool {
	return errors.Is(c.Cause(), ErrInterrupted)
}

// NotifyOnSignal trips the controller with ErrInterrupted when one of sigs
// arrives. A second signal is left to the default handler once Stop is called.
func (c *Controller) NotifyOnSignal(sigs ...os.Signal) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-ch:
			log.Warnf("received %s, finishing current step and saving", sig)
			c.Trip(ErrInterrupted)
		case <-done:
		}
	}()

	var once sync.Once
	c.stop = func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}

// Stop releases signal handling and the context.
func (c *Controller) Stop() {
	c.stop()
	c.cancel(context.Canceled)
}
