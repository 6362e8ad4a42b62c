package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ReconcileCommand returns the CLI command for a one-off reconciliation sweep
func ReconcileCommand() *cli.Command {
	return &cli.Command{
		Name:   "reconcile",
		Usage:  "Run one commit-to-task reconciliation sweep and exit",
		Action: runReconcile,
	}
}

func runReconcile(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	app, err := buildApp(c.Context, cfg)
	if err != nil {
		return err
	}

	commits, err := app.scm.ListCommits(c.Context)
	if err != nil {
		return fmt.Errorf("failed to fetch commits: %w", err)
	}
	updated := app.matcher.Sweep(c.Context, commits)
	fmt.Printf("Checked %d commits, updated %d tasks\n", len(commits), updated)
	return nil
}
