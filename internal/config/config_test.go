package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sovanghoshh/minutemate/pkg/models"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minutemate.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `
[server]
port = 9090

[tracker]
token = "secret-tracker"
database_id = "db-123"

[github]
token = "ghp_test"
owner = "acme"
repo = "widgets"

[schedule]
reconcile_interval = "2m"

[team.members.asha]
tracker_name = "Asha Rao"
github_login = "asha-rao"
slack_id = "U001"
slack_display_name = "asha"

[team.members.brian]
tracker_name = "Brian Lee"
github_login = "blee"
slack_id = "U002"
slack_display_name = "brian"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret-tracker", cfg.Tracker.Token)
	assert.Equal(t, "db-123", cfg.Tracker.DatabaseID)
	assert.Equal(t, "acme", cfg.GitHub.Owner)
	assert.Equal(t, 2*time.Minute, cfg.Schedule.ReconcileInterval)

	// Defaults fill whatever the file leaves out.
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, "09:00", cfg.Schedule.StandupTime)
	assert.Equal(t, 24*time.Hour, cfg.Schedule.StandupWindow)

	require.Len(t, cfg.Team.Members, 2)
	assert.Equal(t, "asha-rao", cfg.Team.Members["asha"].GitHubLogin)
	assert.Equal(t, "brian", cfg.Team.Members["brian"].SlackDisplayName)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeTempConfig(t, `
[github]
token = "from-file"
`)

	t.Setenv("MINUTEMATE_GITHUB_TOKEN", "from-env")
	t.Setenv("MINUTEMATE_TRACKER_DATABASE_ID", "env-db")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.GitHub.Token)
	assert.Equal(t, "env-db", cfg.Tracker.DatabaseID)
}

func TestLoadConfigMissingTeam(t *testing.T) {
	path := writeTempConfig(t, `
[tracker]
token = "t"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Team.Members)
	assert.Empty(t, cfg.MemberKeys())
}

func TestMemberKeysSorted(t *testing.T) {
	cfg := &Config{}
	cfg.Team.Members = map[string]models.Person{
		"zoe":  {TrackerName: "Zoe Park"},
		"asha": {TrackerName: "Asha Rao"},
		"mira": {TrackerName: "Mira Chen"},
	}
	assert.Equal(t, []string{"asha", "mira", "zoe"}, cfg.MemberKeys())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		path := writeTempConfig(t, `
[tracker]
token = "t"
database_id = "d"

[github]
token = "g"
owner = "o"
repo = "r"

[ai]
api_key = "k"

[slack]
webhook_url = "https://hooks.example.com/x"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		return cfg
	}

	t.Run("complete config passes", func(t *testing.T) {
		assert.NoError(t, Validate(valid()))
	})

	t.Run("missing tracker token fails", func(t *testing.T) {
		cfg := valid()
		cfg.Tracker.Token = ""
		assert.Error(t, Validate(cfg))
	})

	t.Run("missing github repo fails", func(t *testing.T) {
		cfg := valid()
		cfg.GitHub.Repo = ""
		assert.Error(t, Validate(cfg))
	})

	t.Run("bot token alone satisfies slack", func(t *testing.T) {
		cfg := valid()
		cfg.Slack.WebhookURL = ""
		cfg.Slack.BotToken = "xoxb-1"
		assert.NoError(t, Validate(cfg))
	})

	t.Run("neither slack credential fails", func(t *testing.T) {
		cfg := valid()
		cfg.Slack.WebhookURL = ""
		assert.Error(t, Validate(cfg))
	})

	t.Run("malformed standup time fails", func(t *testing.T) {
		cfg := valid()
		cfg.Schedule.StandupTime = "quarter past nine"
		assert.Error(t, Validate(cfg))
	})
}

func TestParseClockTime(t *testing.T) {
	ct, err := ParseClockTime("09:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 9, Minute: 0}, ct)

	ct, err = ParseClockTime("23:45")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 23, Minute: 45}, ct)

	_, err = ParseClockTime("25:00")
	assert.Error(t, err)

	_, err = ParseClockTime("0900")
	assert.Error(t, err)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.toml")
	require.NoError(t, InitConfig(path))

	// Refuses to clobber an existing file.
	require.Error(t, InitConfig(path))

	// The sample must load cleanly.
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	require.Contains(t, cfg.Team.Members, "asha")
	assert.Equal(t, "Asha Rao", cfg.Team.Members["asha"].TrackerName)
}
