// Package transcript provides the sources the pipeline reads calls from.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/table"
)

// Column headers of a transcript table.
const (
	ColumnSpeaker = "speaker"
	ColumnContent = "content"
)

// ErrNotDirectory indicates Discover was pointed at something other than a directory.
var ErrNotDirectory = errors.New("not a directory")

// Source is one call transcript that can be loaded on demand.
type Source interface {
	// Name identifies the source in logs and orders sources within a run.
	Name() string

	// Key returns the call identity. A source whose name is not a valid
	// key returns core.ErrInvalidFileKey.
	Key() (core.FileKey, error)

	// Load reads the transcript turns.
	Load(ctx context.Context) (*core.Transcript, error)
}

// FileSource reads a transcript from a CSV or XLSX file with speaker and
// content columns.
type FileSource struct {
	path   string
	key    core.FileKey
	keyErr error
}

// NewFileSource creates a source for path. The key is parsed from the file
// name; a malformed name is reported by Key, not here.
func NewFileSource(path string) *FileSource {
	key, err := core.FileKeyFromPath(path)
	return &FileSource{path: path, key: key, keyErr: err}
}

// Name returns the base name of the file.
func (s *FileSource) Name() string {
	return filepath.Base(s.path)
}

// Path returns the file path.
func (s *FileSource) Path() string {
	return s.path
}

// Key returns the call identity parsed from the file name.
func (s *FileSource) Key() (core.FileKey, error) {
	return s.key, s.keyErr
}

// Load reads every row of the file as a turn. Rows with neither a speaker
// nor content are ignored.
func (s *FileSource) Load(ctx context.Context) (*core.Transcript, error) {
	if s.keyErr != nil {
		return nil, s.keyErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tbl, err := table.Read(s.path)
	if err != nil {
		return nil, err
	}
	idx, err := tbl.Columns(ColumnSpeaker, ColumnContent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}

	turns := make([]core.Turn, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		turn := core.Turn{
			Speaker: table.Cell(row, idx[0]),
			Content: table.Cell(row, idx[1]),
		}
		if turn.Speaker == "" && turn.Content == "" {
			continue
		}
		turns = append(turns, turn)
	}

	return &core.Transcript{Key: s.key, Turns: turns}, nil
}

// MemorySource is a Source backed by turns held in memory.
type MemorySource struct {
	name  string
	key   core.FileKey
	turns []core.Turn
}

// NewMemorySource creates a source named after key.
func NewMemorySource(key core.FileKey, turns []core.Turn) *MemorySource {
	return &MemorySource{name: key.String(), key: key, turns: turns}
}

func (s *MemorySource) Name() string { return s.name }

func (s *MemorySource) Key() (core.FileKey, error) {
	return s.key, core.ValidateFileKey(s.key)
}

func (s *MemorySource) Load(ctx context.Context) (*core.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &core.Transcript{Key: s.key, Turns: slices.Clone(s.turns)}, nil
}

// Discover lists the CSV and XLSX transcripts in dir, sorted by name.
// Files whose names are not valid keys are still returned so the run can
// account for them; a warning is logged for each.
func Discover(dir string, logger *slog.Logger) ([]Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var sources []Source
	for _, entry := range entries {
		if entry.IsDir() || !table.IsSupported(entry.Name()) {
			continue
		}
		src := NewFileSource(filepath.Join(dir, entry.Name()))
		if _, err := src.Key(); err != nil {
			logger.Warn("transcript name is not a valid key", "file", entry.Name(), "err", err)
		}
		sources = append(sources, src)
	}

	slices.SortFunc(sources, func(a, b Source) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return sources, nil
}
