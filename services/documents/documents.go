package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/catalogsearch/db/catalogdb"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/metrics"
)

// Indexer is the part of the search engine the document service feeds.
type Indexer interface {
	AddDocument(doc engine.Document) error
	Len() int
	TermCount() int
}

type NewDocument struct {
	Title   string
	Content string
	Tags    []string
}

// storedDocument is the persisted form of a document. Seq comes from the bucket sequence at
// creation time and fixes the order in which documents are replayed into the index.
type storedDocument struct {
	engine.Document
	Seq uint64 `json:"seq"`
}

type ListResult struct {
	Documents []engine.Document
	Total     int
}

// Service owns the durable copy of the catalog and keeps the in-memory index in step with it.
type Service struct {
	logger  logger.Logger
	store   kvdb.DB
	catalog catalogdb.DB
	indexer Indexer
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(logger logger.Logger, store kvdb.DB, catalog catalogdb.DB, indexer Indexer, metrics *metrics.Metrics) *Service {
	return &Service{
		logger:  logger,
		store:   store,
		catalog: catalog,
		indexer: indexer,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a new document and indexes it before returning. When the index refuses the
// document, the stored record and catalog entry are removed again and the engine's error is returned.
func (s *Service) Create(input NewDocument) (*engine.Document, error) {
	doc := engine.Document{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Tags:      cleanTags(input.Tags),
		CreatedAt: s.now(),
	}

	if err := s.save(doc); err != nil {
		return nil, err
	}

	if err := s.catalog.Index(toEntry(doc)); err != nil {
		s.rollback(doc.ID, false)
		return nil, fmt.Errorf("failed to catalog document: %w", err)
	}

	if err := s.indexer.AddDocument(doc); err != nil {
		s.logger.Warn("search index rejected document", "id", doc.ID, "err", err.Error())
		s.metrics.DocsRejectedTotal.Inc()
		s.rollback(doc.ID, true)
		return nil, err
	}

	s.metrics.DocsIndexedTotal.Inc()
	s.metrics.SetIndexSize(s.indexer.Len(), s.indexer.TermCount())
	s.logger.Info("created document", "id", doc.ID)

	return &doc, nil
}

func (s *Service) rollback(id string, catalogued bool) {
	if catalogued {
		if err := s.catalog.Delete(id); err != nil {
			s.logger.Error("failed to remove catalog entry after rejected document", "id", id, "err", err.Error())
		}
	}
	if err := s.store.Delete(kvdb.DocumentsBucket, id); err != nil {
		s.logger.Error("failed to remove stored document after rejected document", "id", id, "err", err.Error())
	}
}

func (s *Service) save(doc engine.Document) error {
	seq, err := s.store.NextSequence(kvdb.DocumentsBucket)
	if err != nil {
		return fmt.Errorf("failed to allocate sequence for document %s: %w", doc.ID, err)
	}

	data, err := json.Marshal(storedDocument{Document: doc, Seq: seq})
	if err != nil {
		s.logger.Error("failed to marshal document", "id", doc.ID, "err", err.Error())
		return fmt.Errorf("failed to marshal document %s: %w", doc.ID, err)
	}

	if err := s.store.Set(kvdb.DocumentsBucket, doc.ID, string(data)); err != nil {
		s.logger.Error("failed to store document", "id", doc.ID, "err", err.Error())
		return fmt.Errorf("failed to store document %s: %w", doc.ID, err)
	}

	return nil
}

// Get returns the stored document. A missing id yields an error matching kvdb.ErrNotFound.
func (s *Service) Get(id string) (*engine.Document, error) {
	value, err := s.store.Get(kvdb.DocumentsBucket, id)
	if err != nil {
		if !errors.Is(err, kvdb.ErrNotFound) {
			s.logger.Error("failed to get document", "id", id, "err", err.Error())
		}
		return nil, err
	}

	record, err := decode(id, value)
	if err != nil {
		return nil, err
	}
	return &record.Document, nil
}

// List returns a page of documents in creation order, optionally narrowed by tag and title.
func (s *Service) List(filter catalogdb.Filter, limit int, offset int) (*ListResult, error) {
	page, err := s.catalog.Find(filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]engine.Document, 0, len(page.IDs))
	for _, id := range page.IDs {
		doc, err := s.Get(id)
		if err != nil {
			if errors.Is(err, kvdb.ErrNotFound) {
				s.logger.Warn("catalog entry has no stored document", "id", id)
				continue
			}
			return nil, err
		}
		docs = append(docs, *doc)
	}

	return &ListResult{Documents: docs, Total: int(page.Total)}, nil
}

func decode(id string, value string) (*storedDocument, error) {
	var record storedDocument
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}
	return &record, nil
}

func toEntry(doc engine.Document) catalogdb.Entry {
	return catalogdb.Entry{
		ID:        doc.ID,
		Title:     doc.Title,
		Tags:      doc.Tags,
		CreatedAt: doc.CreatedAt,
	}
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	return cleaned
}
