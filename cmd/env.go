package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sovanghoshh/minutemate/internal/config"
)

// ConfigCheckResult holds the result of configuration validation
type ConfigCheckResult struct {
	Missing  []string          // Required settings that are missing
	Present  map[string]string // Settings that are set (secrets masked)
	Warnings []string          // Non-fatal warnings
}

// CheckRequiredConfig reports which settings are configured, regardless of
// whether they arrived from the config file or the environment.
func CheckRequiredConfig(cfg *config.Config) *ConfigCheckResult {
	result := &ConfigCheckResult{
		Missing:  []string{},
		Present:  make(map[string]string),
		Warnings: []string{},
	}

	required := []struct {
		name   string
		value  string
		secret bool
	}{
		{"tracker.token", cfg.Tracker.Token, true},
		{"tracker.database_id", cfg.Tracker.DatabaseID, false},
		{"github.token", cfg.GitHub.Token, true},
		{"github.owner", cfg.GitHub.Owner, false},
		{"github.repo", cfg.GitHub.Repo, false},
		{"ai.api_key", cfg.AI.APIKey, true},
	}
	for _, setting := range required {
		if setting.value == "" {
			result.Missing = append(result.Missing, setting.name)
			continue
		}
		if setting.secret {
			result.Present[setting.name] = maskSecret(setting.value)
		} else {
			result.Present[setting.name] = setting.value
		}
	}

	// One chat delivery path is enough: webhook for the standup digest,
	// bot token for meeting summaries.
	if cfg.Slack.WebhookURL == "" && cfg.Slack.BotToken == "" {
		result.Missing = append(result.Missing, "slack.webhook_url or slack.bot_token")
	}
	if cfg.Slack.WebhookURL != "" {
		result.Present["slack.webhook_url"] = maskSecret(cfg.Slack.WebhookURL)
	}
	if cfg.Slack.BotToken != "" {
		result.Present["slack.bot_token"] = maskSecret(cfg.Slack.BotToken)
		if cfg.Slack.ChannelID == "" {
			result.Warnings = append(result.Warnings, "slack.bot_token is set but slack.channel_id is empty; meeting summaries will not be posted")
		}
	}

	if len(cfg.Team.Members) == 0 {
		result.Warnings = append(result.Warnings, "no team members configured; standups will have nobody to report on")
	}

	return result
}

// PrintConfigCheck prints the configuration check results
func PrintConfigCheck(result *ConfigCheckResult) {
	fmt.Println("=== Configuration Check ===")
	fmt.Println("")

	if len(result.Missing) > 0 {
		fmt.Println("❌ Missing required settings:")
		for _, v := range result.Missing {
			fmt.Printf("   - %s\n", v)
		}
		fmt.Println("")
	}

	if len(result.Present) > 0 {
		fmt.Println("✓ Configured settings:")
		names := make([]string, 0, len(result.Present))
		for name := range result.Present {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("   - %s = %s\n", name, result.Present[name])
		}
		fmt.Println("")
	}

	for _, w := range result.Warnings {
		fmt.Printf("⚠ Warning: %s\n", w)
	}

	if len(result.Missing) == 0 {
		fmt.Println("✓ All required configuration is present")
	}

	fmt.Println("============================")
}

// maskSecret masks a secret value for display, showing only first and last 2 chars
func maskSecret(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:2] + "****" + value[len(value)-2:]
}

// LoadEnvFile loads environment variables from a file, overwriting existing ones.
func LoadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'')) {
			value = value[1 : len(value)-1]
		}

		// Overwrite environment variable
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set env var %s: %w", key, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	return nil
}
