// Package retention enforces the maximum message age in durable storage.
package retention

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
)

// Purger is the slice of the message store the sweeper needs.
type Purger interface {
	PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Options tunes the sweep cadence.
type Options struct {
	// MaxAge is the retention cutoff for logged messages.
	MaxAge time.Duration
	// Interval is the normal pause between sweep cycles.
	Interval time.Duration
	// ErrorBackoff replaces Interval after a failed cycle.
	ErrorBackoff time.Duration
}

// DefaultOptions returns the production retention policy.
func DefaultOptions() Options {
	return Options{
		MaxAge:       7 * 24 * time.Hour,
		Interval:     24 * time.Hour,
		ErrorBackoff: time.Hour,
	}
}

// Sweeper periodically purges messages older than the retention cutoff. It
// runs detached from the interactive session; its failures never affect the
// orchestrator. Cancellation of the Start context is the only stop signal.
type Sweeper struct {
	store Purger
	log   zerolog.Logger
	opts  Options
	wg    conc.WaitGroup
}

// New builds a sweeper. Zero-valued Options fields fall back to
// DefaultOptions.
func New(store Purger, log zerolog.Logger, opts Options) *Sweeper {
	def := DefaultOptions()
	if opts.MaxAge <= 0 {
		opts.MaxAge = def.MaxAge
	}
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = def.ErrorBackoff
	}

	return &Sweeper{
		store: store,
		log:   log.With().Str("component", "retention_sweeper").Logger(),
		opts:  opts,
	}
}

// Start launches the sweep loop in the background. The first cycle runs
// immediately; call Wait after cancelling ctx to ensure the loop has exited.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Go(func() {
		s.run(ctx)
	})
}

// Wait blocks until the background loop has returned.
func (s *Sweeper) Wait() {
	s.wg.Wait()
}

func (s *Sweeper) run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("retention sweeper stopped")
			return
		case <-timer.C:
			next := s.opts.Interval
			if _, err := s.RunOnce(ctx); err != nil {
				next = s.opts.ErrorBackoff
			}
			timer.Reset(next)
		}
	}
}

// RunOnce performs a single sweep cycle. Exposed so tests can drive cycles
// deterministically instead of waiting on wall-clock sleeps.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := s.store.PurgeOlderThan(ctx, s.opts.MaxAge)
	if err != nil {
		s.log.Error().Err(err).
			Dur("backoff", s.opts.ErrorBackoff).
			Msg("sweep cycle failed, retrying after backoff")
		return 0, err
	}
	if deleted > 0 {
		s.log.Info().
			Int64("deleted", deleted).
			Dur("max_age", s.opts.MaxAge).
			Msg("purged expired messages")
	}
	return deleted, nil
}
