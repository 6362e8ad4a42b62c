package standup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sovanghoshh/minutemate/internal/identity"
	"github.com/sovanghoshh/minutemate/pkg/models"
)

func testDirectory(t *testing.T) *identity.Directory {
	t.Helper()
	dir, err := identity.NewDirectory([]models.Person{
		{TrackerName: "Asha Rao", GitHubLogin: "asha-rao", SlackID: "U001", SlackDisplayName: "asha"},
		{TrackerName: "Brian Lee", GitHubLogin: "blee", SlackID: "U002", SlackDisplayName: "brian"},
		{TrackerName: "Mira Chen", GitHubLogin: "mchen", SlackID: "U003", SlackDisplayName: "mira"},
	})
	require.NoError(t, err)
	return dir
}

func TestAggregate(t *testing.T) {
	commits := []models.Commit{
		{SHA: "c1", AuthorLogin: "asha-rao", Message: "Fix bug #42"},
		{SHA: "c2", AuthorLogin: "asha-rao", Message: "Add retry to poller"},
		{SHA: "c3", AuthorLogin: "blee", Message: "Write onboarding docs"},
		{SHA: "c4", AuthorLogin: "ghost-user", Message: "not one of ours"},
		{SHA: "c5", AuthorLogin: "", Message: "no linked account"},
	}
	tasks := []models.Task{
		{ID: "t1", Title: "Fix bug #42", Assignee: "Asha Rao", Status: models.StatusDone},
		{ID: "t2", Title: "Refactor config", Assignee: "Asha Rao", Status: models.StatusInProgress},
		{ID: "t3", Title: "Plan offsite", Assignee: models.UnassignedName, Status: models.StatusToDo},
	}

	bundles := Aggregate(commits, tasks, testDirectory(t))

	require.Len(t, bundles, 2, "people without activity and unmapped activity get no bundle")

	asha := bundles["asha"]
	require.NotNil(t, asha)
	assert.Equal(t, []string{"Fix bug #42", "Add retry to poller"}, asha.CommitMessages)
	require.Len(t, asha.Tasks, 2)
	assert.Equal(t, models.TaskRef{Title: "Fix bug #42", Status: models.StatusDone}, asha.Tasks[0])

	brian := bundles["brian"]
	require.NotNil(t, brian)
	assert.Equal(t, []string{"Write onboarding docs"}, brian.CommitMessages)
	assert.Empty(t, brian.Tasks)

	assert.NotContains(t, bundles, "mira")
}

func TestAggregateLinksCommitAndTaskForSamePerson(t *testing.T) {
	dir, err := identity.NewDirectory([]models.Person{
		{TrackerName: "Asha", GitHubLogin: "asha99", SlackID: "U123", SlackDisplayName: "Asha K"},
	})
	require.NoError(t, err)

	commits := []models.Commit{{SHA: "c1", AuthorLogin: "asha99", Message: "Fix bug #42"}}
	tasks := []models.Task{{ID: "t1", Title: "Fix bug #42", Assignee: "Asha", Status: models.StatusDone}}

	bundles := Aggregate(commits, tasks, dir)

	require.Len(t, bundles, 1)
	bundle := bundles["Asha K"]
	require.NotNil(t, bundle, "bundle is keyed by the chat display name")
	assert.Equal(t, []string{"Fix bug #42"}, bundle.CommitMessages)
	assert.Equal(t, []models.TaskRef{{Title: "Fix bug #42", Status: models.StatusDone}}, bundle.Tasks)
}

func TestAggregateAssigneeLookupIsExact(t *testing.T) {
	// Reverse lookup from task assignee uses the exact tracker name; the
	// fuzzy resolver only runs at ingestion time.
	tasks := []models.Task{
		{ID: "t1", Title: "Task A", Assignee: "asha", Status: models.StatusToDo},
		{ID: "t2", Title: "Task B", Assignee: "ASHA RAO", Status: models.StatusToDo},
	}

	bundles := Aggregate(nil, tasks, testDirectory(t))
	assert.Empty(t, bundles)
}

func TestAggregateEmptyInputs(t *testing.T) {
	bundles := Aggregate(nil, nil, testDirectory(t))
	assert.Empty(t, bundles)
}
