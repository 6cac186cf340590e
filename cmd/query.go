package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/services/documents"
	"github.com/urfave/cli/v2"
)

type queryOutput struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Results []engine.Result `json:"results"`
}

func queryCommand(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}

	path := c.String("db")
	if path == "" {
		path = cfg.GetKVDBPath()
	}

	store, err := kvdb.Open(log, path)
	if err != nil {
		return fmt.Errorf("failed to open document database: %w", err)
	}
	defer store.Close()

	opts := engine.Options{
		FuzzyThreshold: c.Int("fuzzy-threshold"),
		PrefixBoost:    c.Float64("prefix-boost"),
	}
	searchEngine := engine.New(log, engine.Config{FuzzyIncrement: cfg.GetFuzzyIncrement()})

	return runQuery(c.Context, os.Stdout, log, store, searchEngine, c.String("query"), opts, c.Int("limit"))
}

// runQuery loads every stored document into searchEngine and writes the ranked results to out.
func runQuery(ctx context.Context, out io.Writer, log logger.Logger, store kvdb.DB, searchEngine *engine.Engine, query string, opts engine.Options, limit int) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", limit)
	}

	if _, err := documents.Reindex(ctx, log, store, searchEngine); err != nil {
		return err
	}

	results := searchEngine.Rank(query, opts)
	output := queryOutput{Query: query, Total: len(results), Results: results}
	if limit > 0 && len(results) > limit {
		output.Results = results[:limit]
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
