package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/sovanghoshh/minutemate/internal/api"
	"github.com/sovanghoshh/minutemate/internal/config"
	"github.com/sovanghoshh/minutemate/internal/scheduler"
)

// ServeCommand returns the CLI command for running the full service
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the API server with the reconciliation and standup schedules",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides config)",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	app, err := buildApp(c.Context, cfg)
	if err != nil {
		return err
	}

	standupAt, err := config.ParseClockTime(cfg.Schedule.StandupTime)
	if err != nil {
		return fmt.Errorf("invalid standup time: %w", err)
	}

	sched := scheduler.NewScheduler(app.watcher, app.matcher, app.standup, cfg.Schedule.ReconcileInterval, standupAt)
	sched.Start()
	defer sched.Stop()

	port := cfg.Server.Port
	if c.IsSet("port") {
		port = c.Int("port")
	}

	fmt.Printf("Starting MinuteMate API server on port %d...\n", port)
	server := api.NewServer(port, api.Deps{
		Transcriber:  app.transcriber,
		Pipeline:     app.pipeline,
		Commits:      app.scm,
		Matcher:      app.matcher,
		Standup:      app.standup,
		Tracker:      app.tracker,
		ParentPageID: cfg.Tracker.ParentPageID,
	})
	return server.Start()
}
