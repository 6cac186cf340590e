package catalogdb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/catalogsearch/config"
	"github.com/meghashyamc/catalogsearch/logger"
)

const IndexingBatchSize = 100

const (
	indexFieldTitle     = "title"
	indexFieldTags      = "tags"
	indexFieldCreatedAt = "created_at"
)

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	return Open(logger, filepath.Join(cfg.GetStoragePath(), cfg.GetCatalogIndexPath()))
}

// Open creates the index at indexPath, or opens it if one already exists there.
func Open(logger logger.Logger, indexPath string) (*BleveDB, error) {
	index, err := bleve.New(indexPath, createIndexMapping())
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open catalog index", "path", indexPath, "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Tags match whole values only
	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldTags, tagsFieldMapping)

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldTitle, titleFieldMapping)

	createdAtFieldMapping := bleve.NewDateTimeFieldMapping()
	docMapping.AddFieldMappingsAt(indexFieldCreatedAt, createdAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func normalize(entry Entry) Entry {
	tags := make([]string, 0, len(entry.Tags))
	for _, tag := range entry.Tags {
		if tag = normalizeTag(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	entry.Tags = tags
	return entry
}

func (b *BleveDB) Index(entry Entry) error {
	if err := b.index.Index(entry.ID, normalize(entry)); err != nil {
		b.logger.Error("could not index catalog entry", "id", entry.ID, "err", err.Error())
		return fmt.Errorf("could not index catalog entry %s: %w", entry.ID, err)
	}
	return nil
}

func (b *BleveDB) BuildIndex(entries []Entry) error {

	batch := b.index.NewBatch()

	for i, entry := range entries {

		if err := batch.Index(entry.ID, normalize(entry)); err != nil {
			b.logger.Error("could not index catalog entry", "id", entry.ID, "err", err.Error())
			return err
		}

		// Execute batch when it reaches the batch size
		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index catalog entries", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) Delete(id string) error {
	if err := b.index.Delete(id); err != nil {
		b.logger.Error("could not delete catalog entry", "id", id, "err", err.Error())
		return err
	}
	return nil
}

// Find lists the ids of entries matching filter, oldest first.
func (b *BleveDB) Find(filter Filter, limit int, offset int) (*Page, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("limit and offset must not be negative, got %d and %d", limit, offset)
	}
	searchRequest := bleve.NewSearchRequestOptions(buildFilterQuery(filter), limit, offset, false)
	searchRequest.SortBy([]string{indexFieldCreatedAt, "_id"})

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("catalog search failed", "err", err.Error())
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	ids := make([]string, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		ids[i] = hit.ID
	}

	return &Page{IDs: ids, Total: searchResult.Total}, nil
}

func buildFilterQuery(filter Filter) query.Query {
	var queries []query.Query

	if tag := normalizeTag(filter.Tag); tag != "" {
		tagQuery := bleve.NewTermQuery(tag)
		tagQuery.SetField(indexFieldTags)
		queries = append(queries, tagQuery)
	}

	if title := strings.TrimSpace(filter.Title); title != "" {
		titleQuery := bleve.NewMatchQuery(title)
		titleQuery.SetField(indexFieldTitle)
		queries = append(queries, titleQuery)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewConjunctionQuery(queries...)
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close catalog index", "err", err.Error())
			return err
		}
	}
	return nil
}
