package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/sovanghoshh/minutemate/internal/chat"
	"github.com/sovanghoshh/minutemate/internal/config"
	"github.com/sovanghoshh/minutemate/internal/identity"
	"github.com/sovanghoshh/minutemate/internal/meeting"
	"github.com/sovanghoshh/minutemate/internal/reconcile"
	"github.com/sovanghoshh/minutemate/internal/scm"
	"github.com/sovanghoshh/minutemate/internal/standup"
	"github.com/sovanghoshh/minutemate/internal/summarizer"
	"github.com/sovanghoshh/minutemate/internal/tracker"
	"github.com/sovanghoshh/minutemate/internal/transcribe"
)

// application bundles the components the commands wire from configuration.
type application struct {
	cfg         *config.Config
	dir         *identity.Directory
	resolver    *identity.Resolver
	tracker     *tracker.Client
	scm         *scm.Client
	chat        *chat.Client
	matcher     *reconcile.Matcher
	watcher     *scm.Watcher
	standup     *standup.Runner
	pipeline    *meeting.Pipeline
	transcriber *transcribe.Client
}

// loadConfig loads and validates configuration from the CLI context's
// --config flag.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildApp constructs every component from validated configuration.
func buildApp(ctx context.Context, cfg *config.Config) (*application, error) {
	dir, err := identity.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid team directory: %w", err)
	}
	resolver := identity.NewResolver(dir)

	trackerClient := tracker.NewClient(cfg.Tracker.Token, cfg.Tracker.DatabaseID)
	scmClient := scm.NewClient(cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo)
	chatClient := chat.NewClient(cfg.Slack.BotToken, cfg.Slack.WebhookURL)

	gemini, err := summarizer.New(ctx, summarizer.Config{
		APIKey:    cfg.AI.APIKey,
		ModelName: cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize summarizer: %w", err)
	}
	ai := summarizer.NewResilient(gemini)

	return &application{
		cfg:         cfg,
		dir:         dir,
		resolver:    resolver,
		tracker:     trackerClient,
		scm:         scmClient,
		chat:        chatClient,
		matcher:     reconcile.NewMatcher(trackerClient),
		watcher:     scm.NewWatcher(scmClient),
		standup:     standup.NewRunner(scmClient, trackerClient, dir, standup.NewSynthesizer(ai), chatClient, cfg.Schedule.StandupWindow),
		pipeline:    meeting.NewPipeline(ai, resolver, trackerClient, chatClient, cfg.Slack.ChannelID),
		transcriber: transcribe.NewClient(cfg.Transcriber.URL),
	}, nil
}
