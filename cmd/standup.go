package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// StandupCommand returns the CLI command for a one-off standup cycle
func StandupCommand() *cli.Command {
	return &cli.Command{
		Name:   "standup",
		Usage:  "Run one standup cycle and exit",
		Action: runStandup,
	}
}

func runStandup(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	app, err := buildApp(c.Context, cfg)
	if err != nil {
		return err
	}

	if err := app.standup.Run(c.Context); err != nil {
		return fmt.Errorf("standup cycle failed: %w", err)
	}
	fmt.Println("Standup cycle completed")
	return nil
}
