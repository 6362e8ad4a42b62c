// Package reconcile closes the loop between pushed commits and tracker
// tasks: a commit whose message mentions a task's title marks that task
// done.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sovanghoshh/minutemate/internal/tracker"
	"github.com/sovanghoshh/minutemate/pkg/models"
)

// Matcher matches commit messages against live tracker tasks.
type Matcher struct {
	store tracker.Store
}

// NewMatcher creates a matcher over the given task store.
func NewMatcher(store tracker.Store) *Matcher {
	return &Matcher{store: store}
}

// Reconcile marks every open task whose title appears in the commit message
// as Done and returns how many tasks it transitioned. The task list is
// re-fetched on every call: the tracker is the source of truth and a task
// may have been closed elsewhere since the last sweep. Matching is a
// case-insensitive substring test on the trimmed title, so short or generic
// titles can match unrelated commits.
func (m *Matcher) Reconcile(ctx context.Context, commitMessage string) (int, error) {
	tasks, err := m.store.ListTasks(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	message := strings.ToLower(commitMessage)
	updated := 0
	for _, task := range tasks {
		title := strings.ToLower(strings.TrimSpace(task.Title))
		if title == "" || !strings.Contains(message, title) {
			continue
		}
		if task.Status == models.StatusDone {
			// Already closed. Re-sweeping the same commits must not issue
			// another write.
			continue
		}
		if err := m.store.UpdateTaskStatus(ctx, task.ID, models.StatusDone); err != nil {
			log.Error().Err(err).Str("task", task.Title).Msg("failed to mark task done")
			continue
		}
		log.Info().Str("task", task.Title).Msg("task marked done by commit")
		updated++
	}
	return updated, nil
}

// Sweep reconciles every commit in the batch and returns the total number
// of tasks transitioned. The host returns commits newest first; the sweep
// walks them oldest first so task history reflects push order. A failure
// for one commit is logged and the sweep continues.
func (m *Matcher) Sweep(ctx context.Context, commits []models.Commit) int {
	total := 0
	for i := len(commits) - 1; i >= 0; i-- {
		commit := commits[i]
		n, err := m.Reconcile(ctx, commit.Message)
		if err != nil {
			log.Warn().Err(err).Str("sha", commit.ShortSHA()).Msg("reconcile failed for commit")
			continue
		}
		if n > 0 {
			log.Info().Str("sha", commit.ShortSHA()).Int("tasks", n).Msg("commit closed tasks")
		}
		total += n
	}
	return total
}
