// Package standup gathers each person's recent activity, asks the
// summarization model for a per-person report, and assembles the daily
// digest for the team channel.
package standup

import (
	"github.com/sovanghoshh/minutemate/internal/identity"
	"github.com/sovanghoshh/minutemate/pkg/models"
)

// Aggregate groups commits and tasks by person, keyed by chat display name.
// Commit authors are matched on host login, task assignees on the exact
// tracker name. Activity that maps to nobody in the directory is dropped
// without comment, and people with no activity at all get no bundle.
func Aggregate(commits []models.Commit, tasks []models.Task, dir *identity.Directory) map[string]*models.ActivityBundle {
	bundles := make(map[string]*models.ActivityBundle)
	bundleFor := func(person models.Person) *models.ActivityBundle {
		bundle, ok := bundles[person.SlackDisplayName]
		if !ok {
			bundle = &models.ActivityBundle{}
			bundles[person.SlackDisplayName] = bundle
		}
		return bundle
	}

	for _, commit := range commits {
		if commit.AuthorLogin == "" {
			continue
		}
		person, ok := dir.LookupLogin(commit.AuthorLogin)
		if !ok {
			continue
		}
		bundle := bundleFor(person)
		bundle.CommitMessages = append(bundle.CommitMessages, commit.Message)
	}

	for _, task := range tasks {
		person, ok := dir.LookupTrackerName(task.Assignee)
		if !ok {
			continue
		}
		bundle := bundleFor(person)
		bundle.Tasks = append(bundle.Tasks, models.TaskRef{Title: task.Title, Status: task.Status})
	}

	return bundles
}
