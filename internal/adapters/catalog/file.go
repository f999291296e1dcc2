package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/okian/toolboard/internal/domain/model"
	"github.com/okian/toolboard/pkg/metrics"
)

// FileOption applies a configuration option to the FileSource.
type FileOption func(*FileSource)

// WithFS reads catalog files from fsys instead of the local disk. The glob
// is then evaluated relative to the root of fsys.
func WithFS(fsys fs.FS) FileOption {
	return func(s *FileSource) {
		if fsys != nil {
			s.fsys = fsys
		}
	}
}

// FileSource reads YAML or JSON catalog files matched by a doublestar glob,
// e.g. "catalog/**/*.yaml".
type FileSource struct {
	fsys    fs.FS
	pattern string
}

// NewFileSource creates a FileSource for pattern.
func NewFileSource(pattern string, opts ...FileOption) *FileSource {
	s := &FileSource{pattern: filepath.ToSlash(pattern)}
	for _, opt := range opts {
		opt(s)
	}

	if s.fsys == nil {
		base, rest := doublestar.SplitPattern(s.pattern)
		s.fsys = os.DirFS(filepath.FromSlash(base))
		s.pattern = rest
	}
	return s
}

type document struct {
	Tools []model.ToolRecord `yaml:"tools"`
}

// Tools parses every matched file in sorted path order and concatenates the
// records, keeping in-file order.
func (s *FileSource) Tools(ctx context.Context) ([]model.ToolRecord, error) {
	matches, err := doublestar.Glob(s.fsys, s.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("evaluate catalog pattern %s: %w", s.pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, s.pattern)
	}
	sort.Strings(matches)

	var tools []model.ToolRecord
	var origin []string
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := s.readFile(name)
		if err != nil {
			metrics.RecordErrorByComponent("catalog", "parse")
			return nil, err
		}
		for range records {
			origin = append(origin, name)
		}
		tools = append(tools, records...)
	}

	if err := validate(tools, origin); err != nil {
		metrics.RecordErrorByComponent("catalog", "invalid")
		return nil, err
	}

	metrics.UpdateCatalogTools(len(tools))
	return tools, nil
}

// readFile decodes one file holding either a list of tools or a mapping with
// a "tools" key. JSON parses as YAML.
func (s *FileSource) readFile(name string) ([]model.ToolRecord, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", name, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var tools []model.ToolRecord
		if err := node.Decode(&tools); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", name, err)
		}
		return tools, nil
	case yaml.MappingNode:
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", name, err)
		}
		return doc.Tools, nil
	default:
		return nil, fmt.Errorf("decode catalog %s: expected a list or a tools mapping", name)
	}
}
