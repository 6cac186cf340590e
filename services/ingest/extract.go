package ingest

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/meghashyamc/catalogsearch/services/documents"
)

// Files larger than this many bytes are truncated. It equals the content limit of the create
// endpoint, so an imported document is never longer than one created over HTTP.
const maxFileSize = 1_000_000

func extractDocument(file FileInfo) (documents.NewDocument, error) {
	content, err := readTextFile(file.Path)
	if err != nil {
		return documents.NewDocument{}, err
	}

	var tags []string
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Name)), "."); ext != "" {
		tags = append(tags, ext)
	}

	return documents.NewDocument{
		Title:   file.Name,
		Content: content,
		Tags:    tags,
	}, nil
}

func readTextFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxFileSize))
	if err != nil {
		return "", err
	}

	return strings.ToValidUTF8(string(content), string(utf8.RuneError)), nil
}
