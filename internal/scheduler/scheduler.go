// Package scheduler drives the two recurring cycles: the commit
// reconciliation sweep every few minutes and the standup once a day.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sovanghoshh/minutemate/internal/config"
	"github.com/sovanghoshh/minutemate/internal/scm"
	"github.com/sovanghoshh/minutemate/pkg/models"
)

const (
	// initialDelay is how long after Start the first reconcile sweep runs.
	initialDelay = 5 * time.Second

	// reconcileTimeout bounds one reconcile sweep. It must stay under the
	// sweep interval so a stuck sweep cannot overlap the next tick.
	reconcileTimeout = 4 * time.Minute

	// standupTimeout bounds one standup cycle, which makes one model call
	// per active person.
	standupTimeout = 10 * time.Minute
)

// Poller fetches the commit page and reports what is new since the cursor.
type Poller interface {
	Poll(ctx context.Context, cursor scm.Cursor) (all, unseen []models.Commit, next scm.Cursor)
}

// Sweeper reconciles a batch of commits against tracker tasks.
type Sweeper interface {
	Sweep(ctx context.Context, commits []models.Commit) int
}

// CycleRunner runs one standup cycle.
type CycleRunner interface {
	Run(ctx context.Context) error
}

// Scheduler owns the poll cursor and the two timers. Sweeps run
// sequentially on one goroutine; a sweep that overruns its interval makes
// the ticker drop ticks, so cycles are skipped rather than queued.
type Scheduler struct {
	poller    Poller
	matcher   Sweeper
	standup   CycleRunner
	interval  time.Duration
	standupAt config.ClockTime

	cursor scm.Cursor

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

// NewScheduler wires the recurring cycles. interval is the reconcile sweep
// period and standupAt the daily standup wall-clock time.
func NewScheduler(poller Poller, matcher Sweeper, standup CycleRunner, interval time.Duration, standupAt config.ClockTime) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		poller:    poller,
		matcher:   matcher,
		standup:   standup,
		interval:  interval,
		standupAt: standupAt,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	if s.started {
		return
	}
	s.started = true
	log.Info().
		Dur("reconcile_interval", s.interval).
		Int("standup_hour", s.standupAt.Hour).
		Int("standup_minute", s.standupAt.Minute).
		Msg("scheduler started")
	go s.loop()
}

// Stop halts the timers and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	if !s.started {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) loop() {
	initial := time.NewTimer(initialDelay)
	ticker := time.NewTicker(s.interval)
	standupTimer := time.NewTimer(time.Until(nextFire(time.Now(), s.standupAt)))
	defer func() {
		initial.Stop()
		ticker.Stop()
		standupTimer.Stop()
		close(s.doneCh)
	}()
	for {
		select {
		case <-s.stopCh:
			return
		case <-initial.C:
			s.reconcileOnce()
		case <-ticker.C:
			s.reconcileOnce()
		case <-standupTimer.C:
			s.standupOnce()
			standupTimer.Reset(time.Until(nextFire(time.Now(), s.standupAt)))
		}
	}
}

// reconcileOnce polls the host and sweeps every returned commit against the
// tracker. The cursor only tracks what has been seen; matching always
// covers the full page because a task created after a commit landed still
// deserves to be closed by it.
func (s *Scheduler) reconcileOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	all, unseen, next := s.poller.Poll(ctx, s.cursor)
	if len(all) == 0 {
		return
	}
	if len(unseen) > 0 {
		log.Info().
			Int("count", len(unseen)).
			Str("newest", unseen[0].ShortSHA()).
			Msg("new commits since last sweep")
	}
	updated := s.matcher.Sweep(ctx, all)
	s.cursor = next
	log.Debug().
		Int("commits", len(all)).
		Int("tasks_updated", updated).
		Str("cursor", next.LastSHA).
		Msg("reconcile sweep finished")
}

func (s *Scheduler) standupOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), standupTimeout)
	defer cancel()
	if err := s.standup.Run(ctx); err != nil {
		log.Error().Err(err).Msg("standup cycle failed")
	}
}

// nextFire returns the next occurrence of the daily wall-clock time, which
// is tomorrow when today's has already passed.
func nextFire(now time.Time, at config.ClockTime) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour, at.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
