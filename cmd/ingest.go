package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// IngestCommand returns the CLI command for processing a transcript file
func IngestCommand() *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Run the meeting pipeline on an existing transcript file",
		ArgsUsage: "TRANSCRIPT_FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Usage:   "Meeting title",
				Value:   "Untitled Meeting",
			},
		},
		Action: runIngest,
	}
}

func runIngest(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one transcript file argument")
	}
	transcript, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	app, err := buildApp(c.Context, cfg)
	if err != nil {
		return err
	}

	rec := app.pipeline.Process(c.Context, c.String("title"), string(transcript))
	fmt.Printf("Meeting %s processed: %d tasks created\n", rec.ID, rec.TasksCreated)
	if rec.Structured == nil {
		fmt.Println("Structured summary could not be parsed; no tasks were extracted")
	}
	return nil
}
