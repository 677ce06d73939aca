// Package jsonfile keeps the waitlist as a single JSON array on local disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/astexai/waitlist-backend/internal/domain/model"
	repo "github.com/astexai/waitlist-backend/internal/domain/repository"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

// Ensure EntryStore implements the interface
var _ repo.EntryStore = (*EntryStore)(nil)

const lockRetryDelay = 20 * time.Millisecond

// EntryStore implements repository.EntryStore on top of one JSON file.
// Appends are serialized in-process by a mutex and across processes by an advisory lock file,
// and the file is replaced atomically so a crash never leaves it truncated.
type EntryStore struct {
	path   string
	mu     sync.Mutex
	lock   *flock.Flock
	logger zerolog.Logger
}

// NewEntryStore creates the store configured in cfg.Storage.
func NewEntryStore(cfg *config.Config, logger *zerolog.Logger) *EntryStore {
	return New(cfg.Storage.Path, logger)
}

// New creates a store backed by the file at path.
func New(path string, logger *zerolog.Logger) *EntryStore {
	return &EntryStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger.With().Str("layer", "jsonfile_store").Str("path", path).Logger(),
	}
}

// Path returns the backing file.
func (s *EntryStore) Path() string {
	return s.path
}

// Load returns every stored record, or an empty slice if the file is missing or malformed.
func (s *EntryStore) Load(_ context.Context) ([]model.Record, error) {
	records, err := s.readRecords()
	if err != nil {
		s.logger.Warn().Err(err).Msg("entry store unreadable, returning no entries")
		return []model.Record{}, nil
	}
	return records, nil
}

// ReadAll returns every stored record. A missing file is an empty store; anything else that
// prevents reading it is a *repository.StorageError.
func (s *EntryStore) ReadAll(_ context.Context) ([]model.Record, error) {
	records, err := s.readRecords()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read entry store")
		return nil, err
	}
	return records, nil
}

// Append adds entry after the existing records and rewrites the file.
// A malformed file is reported instead of being overwritten.
func (s *EntryStore) Append(ctx context.Context, entry *model.WhitelistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &repo.StorageError{Op: "mkdir", Path: s.path, Err: err}
	}

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		if err == nil {
			err = errors.New("lock not acquired")
		}
		return &repo.StorageError{Op: "lock", Path: s.path, Err: err}
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Error().Err(err).Msg("failed to release store lock")
		}
	}()

	raw, err := s.readRaw()
	if err != nil {
		return err
	}

	encoded, err := encode(entry)
	if err != nil {
		return &repo.StorageError{Op: "encode", Path: s.path, Err: err}
	}
	raw = append(raw, encoded)

	if err := s.write(raw); err != nil {
		return err
	}

	s.logger.Debug().Int("entries", len(raw)).Msg("entry appended")
	return nil
}

func (s *EntryStore) readRecords() ([]model.Record, error) {
	raw, err := s.readRaw()
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(raw))
	for _, r := range raw {
		var rec model.Record
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, &repo.StorageError{Op: "decode", Path: s.path, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// readRaw keeps each element as stored so rewrites do not reorder or drop unknown fields.
func (s *EntryStore) readRaw() ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []json.RawMessage{}, nil
		}
		return nil, &repo.StorageError{Op: "read", Path: s.path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []json.RawMessage{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &repo.StorageError{Op: "decode", Path: s.path, Err: err}
	}
	if raw == nil {
		raw = []json.RawMessage{}
	}
	return raw, nil
}

func (s *EntryStore) write(raw []json.RawMessage) error {
	data, err := encode(raw)
	if err != nil {
		return &repo.StorageError{Op: "encode", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &repo.StorageError{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return &repo.StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &repo.StorageError{Op: "sync", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &repo.StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &repo.StorageError{Op: "chmod", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &repo.StorageError{Op: "rename", Path: s.path, Err: err}
	}
	return nil
}

// encode pretty prints v with two-space indentation, leaving non-ASCII and HTML characters as-is.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
