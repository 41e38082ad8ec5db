package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "server",
		Usage:   "Bet tracker API server",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Value:   ".env",
				Usage:   "Optional dotenv file loaded before the environment",
				Sources: cli.EnvVars("ENV_FILE"),
			},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: runServer,
			},
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Commands: []*cli.Command{
					{Name: "up", Usage: "Apply pending migrations", Action: runMigrate("up")},
					{Name: "down", Usage: "Roll back the latest migration", Action: runMigrate("down")},
					{Name: "status", Usage: "Show migration status", Action: runMigrate("status")},
				},
			},
			{
				Name:   "cleanup",
				Usage:  "Delete expired password reset tokens",
				Action: runCleanup,
			},
			{
				Name:  "backup",
				Usage: "Export or restore the ledger as JSON",
				Commands: []*cli.Command{
					{
						Name:  "export",
						Usage: "Write a backup file",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "output",
								Usage: "Output file path (default: backup_YYYYMMDD_HHMMSS.json)",
							},
						},
						Action: runExport,
					},
					{
						Name:  "import",
						Usage: "Restore a backup file into an empty database",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "input",
								Usage:    "Backup file to restore",
								Required: true,
							},
						},
						Action: runImport,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
