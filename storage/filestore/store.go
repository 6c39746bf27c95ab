// Package filestore implements storage.RecordStore as one JSON file per
// call in a metadata directory.
//
// A save never leaves the artifact half written: the new content is
// written to a temporary sibling first, the previous artifact is moved to
// <name>.json.bak, and the temporary file is renamed into place. On any
// failure the backup is moved back.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/storage"
)

const (
	artifactExt = ".json"
	backupExt   = ".json.bak"
	tempExt     = ".json.tmp"
)

// fileOps are the filesystem calls a save is built from.
type fileOps struct {
	writeFile func(name string, data []byte) error
	rename    func(oldpath, newpath string) error
	remove    func(name string) error
}

var osOps = fileOps{
	writeFile: writeSynced,
	rename:    os.Rename,
	remove:    os.Remove,
}

// Store keeps metadata artifacts in a directory.
type Store struct {
	dir    string
	ops    fileOps
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New opens a store rooted at dir, creating it if needed. Leftovers of an
// interrupted save are cleaned up: a backup whose artifact is missing is
// restored and stray temporary files are removed.
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create metadata dir: %w", err)
	}
	s := &Store{
		dir:    dir,
		ops:    osOps,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "filestore")

	if err := s.cleanup(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the metadata directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the artifact path for key.
func (s *Store) Path(key core.FileKey) string {
	return filepath.Join(s.dir, key.String()+artifactExt)
}

// Exists reports whether an artifact for key is present.
func (s *Store) Exists(key core.FileKey) (bool, error) {
	_, err := os.Stat(s.Path(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Save writes records as the artifact for key, replacing any previous one.
func (s *Store) Save(ctx context.Context, key core.FileKey, records []*core.MetadataRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", storage.ErrPersistFailed, key, err)
	}
	if records == nil {
		records = []*core.MetadataRecord{}
	}

	data, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", storage.ErrPersistFailed, key, err)
	}

	target := s.Path(key)
	temp := target[:len(target)-len(artifactExt)] + tempExt
	backup := target[:len(target)-len(artifactExt)] + backupExt
	log := s.logger.With("key", key.String())

	if err := s.ops.writeFile(temp, data); err != nil {
		s.discard(temp)
		return fmt.Errorf("%w: %s: %w", storage.ErrPersistFailed, key, err)
	}

	backedUp := false
	if _, err := os.Stat(target); err == nil {
		if err := s.ops.rename(target, backup); err != nil {
			s.discard(temp)
			return fmt.Errorf("%w: %s: backup: %w", storage.ErrPersistFailed, key, err)
		}
		backedUp = true
	}

	if err := s.ops.rename(temp, target); err != nil {
		s.discard(temp)
		if backedUp {
			if rerr := s.ops.rename(backup, target); rerr != nil {
				log.Error("failed to restore backup", "backup", backup, "err", rerr)
				return errors.Join(fmt.Errorf("%w: %s: %w", storage.ErrPersistFailed, key, err), rerr)
			}
			log.Warn("restored previous artifact after failed save")
		}
		return fmt.Errorf("%w: %s: %w", storage.ErrPersistFailed, key, err)
	}

	if backedUp {
		if err := s.ops.remove(backup); err != nil {
			log.Warn("failed to remove backup", "backup", backup, "err", err)
		}
	}

	log.Debug("saved artifact", "records", len(records), "path", target)
	return nil
}

// Load reads the artifact for key.
func (s *Store) Load(key core.FileKey) ([]*core.MetadataRecord, error) {
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}

	var records []*core.MetadataRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrSerializationFailed, key, err)
	}
	return records, nil
}

// Keys lists the keys of every artifact in the directory. Files whose
// names are not valid keys are ignored.
func (s *Store) Keys() ([]core.FileKey, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var keys []core.FileKey
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, artifactExt) {
			continue
		}
		key, err := core.ParseFileKey(strings.TrimSuffix(name, artifactExt))
		if err != nil {
			s.logger.Debug("ignoring file", "file", name, "err", err)
			continue
		}
		keys = append(keys, key)
	}

	slices.SortFunc(keys, func(a, b core.FileKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys, nil
}

func (s *Store) cleanup() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(s.dir, name)
		switch {
		case strings.HasSuffix(name, tempExt):
			s.discard(path)
		case strings.HasSuffix(name, backupExt):
			target := strings.TrimSuffix(path, backupExt) + artifactExt
			if _, err := os.Stat(target); err == nil {
				s.discard(path)
				continue
			}
			if err := os.Rename(path, target); err != nil {
				return fmt.Errorf("restore %s: %w", name, err)
			}
			s.logger.Warn("restored artifact from backup", "file", filepath.Base(target))
		}
	}
	return nil
}

func (s *Store) discard(path string) {
	if err := s.ops.remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove file", "path", path, "err", err)
	}
}

func encodeRecords(records []*core.MetadataRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSynced(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var _ storage.RecordStore = (*Store)(nil)
