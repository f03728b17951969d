package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"meridian-hq/minos/pkg/law"
)

// Bundle is the on-disk representation of a law collection. A file holds one
// bundle: a version string and a list of laws. YAML and JSON are both
// accepted (JSON is a YAML subset).
type Bundle struct {
	// Version identifies this law collection (e.g. "2025.08.1").
	Version string `yaml:"version"`

	// Laws is the list of laws in the bundle.
	Laws []law.Law `yaml:"laws"`
}

// FileSource loads law bundles from a file or a directory of files.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a file-based law source. The path may be a single
// bundle file or a directory; for a directory, every .yaml, .yml, and .json
// file is loaded, in lexical filename order so the batch order is stable.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:   path,
		logger: logger.With("component", "law.source.file"),
	}
}

// LoadLaws loads every bundle under the configured path and concatenates the
// laws in file order. The version of the batch is the last non-empty bundle
// version seen.
func (s *FileSource) LoadLaws(ctx context.Context) (string, []law.Law, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", nil, fmt.Errorf("stat law path %q: %w", s.path, err)
	}

	files := []string{s.path}
	if info.IsDir() {
		files, err = s.bundleFiles()
		if err != nil {
			return "", nil, err
		}
		if len(files) == 0 {
			return "", nil, fmt.Errorf("no law bundles found in %q", s.path)
		}
	}

	version := "0.0.0"
	var laws []law.Law
	for _, file := range files {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		default:
		}

		bundle, err := s.loadFile(file)
		if err != nil {
			return "", nil, err
		}
		if bundle.Version != "" {
			version = bundle.Version
		}
		laws = append(laws, bundle.Laws...)
	}

	s.logger.Info("loaded law bundles",
		"path", s.path,
		"file_count", len(files),
		"law_count", len(laws),
	)
	return version, laws, nil
}

// bundleFiles lists the bundle files in the source directory in lexical order.
func (s *FileSource) bundleFiles() ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("read law directory %q: %w", s.path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(s.path, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// loadFile parses a single bundle file.
func (s *FileSource) loadFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read law bundle %q: %w", path, err)
	}

	var bundle Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parse law bundle %q: %w", path, err)
	}

	// Records without a severity default to MEDIUM.
	for i := range bundle.Laws {
		if bundle.Laws[i].Severity == 0 {
			bundle.Laws[i].Severity = law.SeverityMedium
		}
	}
	return &bundle, nil
}
