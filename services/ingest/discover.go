package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".go": true, ".js": true,
	".py": true, ".java": true, ".cpp": true, ".c": true,
	".html": true, ".css": true, ".json": true, ".xml": true,
	".yaml": true, ".yml": true, ".ini": true, ".conf": true,
	".csv": true, ".tsv": true, ".sql": true, ".cs": true,
	".rst": true,
}

// discoverFiles walks rootPath in lexical order and returns the text files below it.
// Hidden entries and excluded folders are skipped.
func (s *Service) discoverFiles(rootPath string, excludeFolders []string) ([]FileInfo, error) {
	var files []FileInfo
	excludeSet := make(map[string]struct{}, len(excludeFolders))
	for _, folder := range excludeFolders {
		excludeSet[filepath.Clean(folder)] = struct{}{}
	}
	rootPath = filepath.Clean(rootPath)

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Error("could not walk through file or directory", "path", path, "err", err.Error())
			if errors.Is(err, os.ErrPermission) {
				return nil
			}
			return err
		}

		// Skip directories that start with '.' but not the root directory
		if info.IsDir() && strings.HasPrefix(info.Name(), ".") && path != rootPath {
			return filepath.SkipDir
		}

		if info.IsDir() && isInExcludedPath(path, excludeSet) {
			return filepath.SkipDir
		}

		if info.IsDir() || strings.HasPrefix(info.Name(), ".") || !isTextFile(path) {
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})

		return nil
	})

	return files, err
}

func isTextFile(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// Assumes current path is clean
func isInExcludedPath(currentPath string, excludeSet map[string]struct{}) bool {
	if len(excludeSet) == 0 {
		return false
	}

	_, ok := excludeSet[currentPath]
	return ok
}
