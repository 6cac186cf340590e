// Package ingest imports a directory tree of text files as catalog documents.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/services/documents"
	"golang.org/x/sync/errgroup"
)

const (
	maxGoRoutinesForFileProcessing = 50
	// importWindowSize files are read ahead of their creation at most.
	importWindowSize = 2 * maxGoRoutinesForFileProcessing
)

// Creator stores and indexes a new document.
type Creator interface {
	Create(input documents.NewDocument) (*engine.Document, error)
}

type ImportedFile struct {
	DocumentID string    `json:"document_id"`
	ModTime    time.Time `json:"mod_time"`
	ImportedAt time.Time `json:"imported_at"`
}

type Report struct {
	Discovered int      `json:"discovered"`
	Imported   int      `json:"imported"`
	Unchanged  int      `json:"unchanged"`
	Rejected   []string `json:"rejected"`
	Failed     []string `json:"failed"`
}

type Service struct {
	logger        logger.Logger
	creator       Creator
	metadataStore kvdb.DB
}

func New(logger logger.Logger, creator Creator, metadataStore kvdb.DB) *Service {
	return &Service{
		logger:        logger,
		creator:       creator,
		metadataStore: metadataStore,
	}
}

type extracted struct {
	input documents.NewDocument
	err   error
}

// Import creates one document per text file below rootPath. Files are read concurrently in
// bounded windows and created in walk order. Files recorded by an earlier import are left alone.
func (s *Service) Import(ctx context.Context, rootPath string, excludeFolders []string) (*Report, error) {
	files, err := s.discoverFiles(rootPath, excludeFolders)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files under %s: %w", rootPath, err)
	}
	s.logger.Info("discovered files", "root", rootPath, "num_of_files", len(files))

	report := &Report{Discovered: len(files), Rejected: []string{}, Failed: []string{}}

	pending := make([]FileInfo, 0, len(files))
	for _, file := range files {
		if s.alreadyImported(file.Path) {
			report.Unchanged++
			continue
		}
		pending = append(pending, file)
	}

	for start := 0; start < len(pending); start += importWindowSize {
		window := pending[start:min(start+importWindowSize, len(pending))]
		if err := s.importWindow(ctx, window, report); err != nil {
			return report, err
		}
	}

	s.logger.Info("finished importing files", "root", rootPath, "imported", report.Imported, "unchanged", report.Unchanged,
		"rejected", len(report.Rejected), "failed", len(report.Failed))

	return report, nil
}

// importWindow reads the files of one window concurrently, then creates their documents in order.
// Only one window of file contents is held in memory at a time.
func (s *Service) importWindow(ctx context.Context, window []FileInfo, report *Report) error {
	results := make([]extracted, len(window))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxGoRoutinesForFileProcessing)
	for i, file := range window {
		i, file := i, file
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			input, err := extractDocument(file)
			results[i] = extracted{input: input, err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for i, file := range window {
		if err := ctx.Err(); err != nil {
			return err
		}
		if results[i].err != nil {
			s.logger.Error("error reading file", "path", file.Path, "err", results[i].err.Error())
			report.Failed = append(report.Failed, file.Path)
			continue
		}

		doc, err := s.creator.Create(results[i].input)
		// drop the content as soon as it is indexed
		results[i] = extracted{}
		if err != nil {
			if errors.Is(err, engine.ErrValidation) {
				s.logger.Warn("file has no indexable content", "path", file.Path, "err", err.Error())
				report.Rejected = append(report.Rejected, file.Path)
				continue
			}
			s.logger.Error("error creating document for file", "path", file.Path, "err", err.Error())
			report.Failed = append(report.Failed, file.Path)
			continue
		}

		s.recordImport(file, doc.ID)
		report.Imported++
	}

	return nil
}

func (s *Service) alreadyImported(path string) bool {
	value, err := s.metadataStore.Get(kvdb.FilesBucket, path)
	if err != nil {
		if !errors.Is(err, kvdb.ErrNotFound) {
			s.logger.Error("failed to get file metadata", "path", path, "err", err.Error())
		}
		return false
	}

	var imported ImportedFile
	if err := json.Unmarshal([]byte(value), &imported); err != nil {
		s.logger.Error("failed to unmarshal file metadata", "path", path, "err", err.Error())
		return false
	}

	return imported.DocumentID != ""
}

func (s *Service) recordImport(file FileInfo, documentID string) {
	data, err := json.Marshal(ImportedFile{
		DocumentID: documentID,
		ModTime:    file.ModTime,
		ImportedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to marshal file metadata", "path", file.Path, "err", err.Error())
		return
	}

	if err := s.metadataStore.Set(kvdb.FilesBucket, file.Path, string(data)); err != nil {
		s.logger.Error("failed to set file metadata", "path", file.Path, "err", err.Error())
	}
}
