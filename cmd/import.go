package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meghashyamc/catalogsearch/db/catalogdb"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/metrics"
	"github.com/meghashyamc/catalogsearch/services/documents"
	"github.com/meghashyamc/catalogsearch/services/ingest"
	"github.com/urfave/cli/v2"
)

func importCommand(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}

	store, err := kvdb.New(log, cfg)
	if err != nil {
		return fmt.Errorf("failed to open document database: %w", err)
	}
	defer store.Close()

	catalog, err := catalogdb.New(log, cfg)
	if err != nil {
		return fmt.Errorf("failed to open catalog index: %w", err)
	}
	defer catalog.Close()

	searchEngine := engine.New(log, engine.Config{FuzzyIncrement: cfg.GetFuzzyIncrement()})
	documentService := documents.New(log, store, catalog, searchEngine, metrics.New())
	if err := documentService.Rebuild(c.Context); err != nil {
		return err
	}

	report, err := ingest.New(log, documentService, store).Import(c.Context, c.String("dir"), c.StringSlice("exclude"))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
