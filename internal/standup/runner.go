package standup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sovanghoshh/minutemate/internal/chat"
	"github.com/sovanghoshh/minutemate/internal/identity"
	"github.com/sovanghoshh/minutemate/internal/tracker"
	"github.com/sovanghoshh/minutemate/pkg/models"
)

// CommitSource lists commits authored after a point in time.
type CommitSource interface {
	ListCommitsSince(ctx context.Context, since time.Time) ([]models.Commit, error)
}

// DigestPoster delivers the assembled digest payload.
type DigestPoster interface {
	PostWebhook(ctx context.Context, payload chat.WebhookPayload) error
}

// Runner executes one full standup cycle: gather the reporting window's
// activity, synthesize per-person reports, deliver the digest.
type Runner struct {
	commits CommitSource
	store   tracker.Store
	dir     *identity.Directory
	synth   *Synthesizer
	poster  DigestPoster
	window  time.Duration
}

// NewRunner wires a standup runner. window is how far back the cycle looks
// for commits; tasks are always read in full.
func NewRunner(commits CommitSource, store tracker.Store, dir *identity.Directory, synth *Synthesizer, poster DigestPoster, window time.Duration) *Runner {
	return &Runner{
		commits: commits,
		store:   store,
		dir:     dir,
		synth:   synth,
		poster:  poster,
		window:  window,
	}
}

// Run executes one standup cycle. A failed commit or task fetch degrades to
// an empty result so the cycle still reports whatever activity it can see;
// only digest delivery failure is returned as an error. When nobody in the
// directory has activity, no digest is sent.
func (r *Runner) Run(ctx context.Context) error {
	since := time.Now().Add(-r.window)
	commits, err := r.commits.ListCommitsSince(ctx, since)
	if err != nil {
		log.Warn().Err(err).Msg("commit fetch failed, standup proceeds without commits")
		commits = nil
	}
	tasks, err := r.store.ListTasks(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("task fetch failed, standup proceeds without tasks")
		tasks = nil
	}

	bundles := Aggregate(commits, tasks, r.dir)
	if len(bundles) == 0 {
		log.Info().Msg("no activity for any mapped person, skipping standup")
		return nil
	}

	reports := r.synth.ReportAll(ctx, bundles)
	payload := chat.WebhookPayload{
		Text:   ComposeBatch(reports),
		Blocks: BuildBlocks(reports),
	}
	if err := r.poster.PostWebhook(ctx, payload); err != nil {
		return fmt.Errorf("failed to deliver standup digest: %w", err)
	}
	log.Info().Int("people", len(reports)).Msg("standup digest delivered")
	return nil
}
