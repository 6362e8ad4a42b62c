package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sovanghoshh/minutemate/cmd"
)

const (
	version = "0.1.0"
)

func main() {
	app := &cli.App{
		Name:    "minutemate",
		Usage:   "Meeting assistant that turns transcripts into tasks, closes them from commits, and posts daily standups",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				Value:   "minutemate.toml",
			},
		},
		Before: func(c *cli.Context) error {
			// Pick up a local .env so tokens don't have to live in the
			// config file.
			if _, err := os.Stat(".env"); err == nil {
				if err := cmd.LoadEnvFile(".env"); err != nil {
					return fmt.Errorf("failed to load .env: %w", err)
				}
			}
			return nil
		},
		Commands: []*cli.Command{
			cmd.ServeCommand(),
			cmd.ReconcileCommand(),
			cmd.StandupCommand(),
			cmd.IngestCommand(),
			cmd.ConfigCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
