package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/config"
	logpkg "github.com/kailas-cloud/rosterdex/internal/logger"
	"github.com/kailas-cloud/rosterdex/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "rosterctl",
		Usage:   "Query and maintain the workforce roster index",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Config environment (reads config/<env>.yaml)",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Explicit config file path (overrides --env)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Answer a natural-language roster query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of hits", Value: 20},
					&cli.Float64Flag{Name: "min-score", Usage: "Drop hits scoring below this value"},
					&cli.BoolFlag{Name: "json", Usage: "Print the response as JSON"},
				},
			},
			{
				Name:      "route",
				Usage:     "Show how a query would be routed, without retrieval",
				ArgsUsage: "<query>",
				Action:    routeCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print the decision as JSON"},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the semantic profile index from the roster",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "batch-size", Usage: "Profiles embedded per request", Value: 64},
					&cli.BoolFlag{Name: "recreate", Usage: "Drop and recreate the index first"},
					&cli.BoolFlag{Name: "prune", Usage: "Delete profiles no longer on the roster"},
				},
			},
			{
				Name:   "import",
				Usage:  "Load employees from a JSON file into the roster database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a JSON array of employees",
						Required: true,
					},
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load(c.String("env"))
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	return logpkg.NewLogger(c.String("env"), c.String("log-level"))
}
