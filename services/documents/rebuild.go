package documents

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/meghashyamc/catalogsearch/db/catalogdb"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
)

// Reindex feeds every stored document to indexer in the order it was stored and returns how many it accepted.
// Documents the indexer rejects are logged and skipped. Reindex stops early when ctx is cancelled.
func Reindex(ctx context.Context, logger logger.Logger, store kvdb.DB, indexer Indexer) (int, error) {
	docs, err := loadAll(logger, store)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			logger.Warn("reindexing cancelled", "indexed", indexed, "total", len(docs), "err", err.Error())
			return indexed, err
		}
		if err := indexer.AddDocument(doc); err != nil {
			logger.Warn("skipping document during reindex", "id", doc.ID, "err", err.Error())
			continue
		}
		indexed++
	}

	logger.Info("reindexed stored documents", "indexed", indexed, "total", len(docs))
	return indexed, nil
}

func loadAll(logger logger.Logger, store kvdb.DB) ([]engine.Document, error) {
	var records []storedDocument
	err := store.ForEach(kvdb.DocumentsBucket, func(key string, value string) error {
		record, err := decode(key, value)
		if err != nil {
			logger.Error("skipping undecodable document", "id", key, "err", err.Error())
			return nil
		}
		records = append(records, *record)
		return nil
	})
	if err != nil {
		logger.Error("failed to read stored documents", "err", err.Error())
		return nil, fmt.Errorf("failed to read stored documents: %w", err)
	}

	// vectors depend on insertion order, so replay the order documents were stored in.
	// Records without a sequence sort first, by creation time.
	slices.SortStableFunc(records, func(a, b storedDocument) int {
		if c := cmp.Compare(a.Seq, b.Seq); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	docs := make([]engine.Document, len(records))
	for i, record := range records {
		docs[i] = record.Document
	}
	return docs, nil
}

// Rebuild restores the in-memory index from the store and re-catalogs everything if the
// catalog index has drifted from the store.
func (s *Service) Rebuild(ctx context.Context) error {
	indexed, err := Reindex(ctx, s.logger, s.store, s.indexer)
	s.metrics.DocsIndexedTotal.Add(float64(indexed))
	s.metrics.SetIndexSize(s.indexer.Len(), s.indexer.TermCount())
	if err != nil {
		return err
	}

	return s.syncCatalog()
}

func (s *Service) syncCatalog() error {
	stored, err := s.store.Count(kvdb.DocumentsBucket)
	if err != nil {
		return fmt.Errorf("failed to count stored documents: %w", err)
	}
	catalogued, err := s.catalog.GetDocCount()
	if err != nil {
		return fmt.Errorf("failed to count catalog entries: %w", err)
	}
	if uint64(stored) == catalogued {
		return nil
	}

	s.logger.Warn("catalog out of sync with store, rebuilding", "stored", stored, "catalogued", catalogued)
	docs, err := loadAll(s.logger, s.store)
	if err != nil {
		return err
	}
	entries := make([]catalogdb.Entry, len(docs))
	for i, doc := range docs {
		entries[i] = toEntry(doc)
	}
	if err := s.catalog.BuildIndex(entries); err != nil {
		return fmt.Errorf("failed to rebuild catalog: %w", err)
	}
	return nil
}
