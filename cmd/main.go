package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/meghashyamc/catalogsearch/api"
	"github.com/meghashyamc/catalogsearch/config"
	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	godotenv.Load()

	app := &cli.App{
		Name:  "catalogsearch",
		Usage: "Document catalog with ranked TF-IDF, prefix and fuzzy search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error); overrides the config file",
			},
		},
		Action: serveCommand,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
			},
			{
				Name:   "import",
				Usage:  "Create a document for every text file below a directory",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory to import",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Folder to skip; may be repeated",
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Rank the stored documents against a query and print the results as JSON",
				Action: queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the document database; defaults to the configured path",
					},
					&cli.IntFlag{
						Name:  "fuzzy-threshold",
						Usage: "Maximum edit distance for fuzzy matches",
						Value: engine.DefaultFuzzyThreshold,
					},
					&cli.Float64Flag{
						Name:  "prefix-boost",
						Usage: "Score added per prefix match",
						Value: engine.DefaultPrefixBoost,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to print (0 prints all)",
						Value: 10,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.GetLogLevel()
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}

	return cfg, logger.New(level), nil
}

func serveCommand(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}

	return api.Run(context.Background(), cfg, log)
}
