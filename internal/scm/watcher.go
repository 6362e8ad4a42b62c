package scm

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/sovanghoshh/minutemate/pkg/models"
)

// Cursor marks the newest commit id observed by a previous poll. The zero
// value means nothing has been seen yet.
type Cursor struct {
	LastSHA string
}

// Lister is the commit-listing surface the watcher polls.
type Lister interface {
	ListCommits(ctx context.Context) ([]models.Commit, error)
}

// Watcher detects commits that appeared since a cursor. It holds no state
// of its own; the caller owns the cursor and passes it into every poll.
type Watcher struct {
	client Lister
}

// NewWatcher returns a watcher over the given commit source.
func NewWatcher(client Lister) *Watcher {
	return &Watcher{client: client}
}

// Poll fetches the recent commit page and splits it against the cursor.
// It returns the full fetched list (newest first), the commits newer than
// the cursor, and the advanced cursor pointing at the newest commit seen.
//
// A fetch failure is logged and yields empty results with the cursor
// unchanged; the next cycle self-heals. Poll never returns an error.
func (w *Watcher) Poll(ctx context.Context, cursor Cursor) (all, unseen []models.Commit, next Cursor) {
	commits, err := w.client.ListCommits(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("commit poll failed, treating as empty")
		return nil, nil, cursor
	}
	if len(commits) == 0 {
		return nil, nil, cursor
	}

	next = Cursor{LastSHA: commits[0].SHA}

	for _, commit := range commits {
		if cursor.LastSHA != "" && commit.SHA == cursor.LastSHA {
			break
		}
		unseen = append(unseen, commit)
	}

	return commits, unseen, next
}
