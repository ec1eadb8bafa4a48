// Package statefile persists the complete device state as a single
// checksummed JSON document on local flash. Writes go to a temp file in the
// same directory which is fsynced and renamed over the previous document,
// so a crash mid-write leaves the prior state intact.
package statefile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/nvoss/strongbox/internal/logger"
	"github.com/nvoss/strongbox/internal/model"
)

const schemaVersion = 1

// document is the on-disk layout. Checksum covers the JSON encoding of the
// document with Checksum itself blanked, and detects partial or corrupt
// writes at load time.
type document struct {
	Version  int               `json:"version"`
	Device   model.DeviceState `json:"device"`
	Checksum string            `json:"checksum"`
}

// Store is a file-backed model.StateStore. A single coarse mutex guards
// both the in-memory copy and the file; the device is single-tenant and
// every operation is brief.
type Store struct {
	mu     sync.Mutex
	path   string
	device model.DeviceState
	logger *logger.Logger
}

// New opens the state file at path, verifying its checksum. If the file
// does not exist the store is seeded with defaults and the seed is
// persisted before New returns.
func New(path string, defaults model.DeviceState, l *logger.Logger) (*Store, error) {
	s := &Store{path: path, logger: l}

	doc, err := readDocument(path)
	switch {
	case err == nil:
		s.device = doc.Device
		l.Info("state file loaded", "path", path, "safe_state", doc.Device.State)
	case errors.Is(err, fs.ErrNotExist):
		l.Info("no state file, seeding factory defaults", "path", path)
		s.device = defaults
		if err := s.persist(defaults); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s, nil
}

// View calls fn with a copy of the current device state.
func (s *Store) View(_ context.Context, fn func(model.DeviceState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.device)
	return nil
}

// Update applies fn to a copy of the device state and persists the result.
// The in-memory state is replaced only after the durable write succeeds;
// if fn or the write fails, nothing changes.
func (s *Store) Update(_ context.Context, fn func(*model.DeviceState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.device
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.device = next
	return nil
}

func (s *Store) persist(device model.DeviceState) error {
	doc := document{Version: schemaVersion, Device: device}
	sum, err := checksum(doc)
	if err != nil {
		return fmt.Errorf("%w: checksum: %w", model.ErrPersistence, err)
	}
	doc.Checksum = sum

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", model.ErrPersistence, err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	return nil
}

func readDocument(path string) (document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document{}, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("%w: %w", model.ErrStateCorrupt, err)
	}

	want := doc.Checksum
	doc.Checksum = ""
	got, err := checksum(doc)
	if err != nil {
		return document{}, fmt.Errorf("%w: checksum: %w", model.ErrStateCorrupt, err)
	}
	if got != want {
		return document{}, fmt.Errorf("%w: checksum mismatch", model.ErrStateCorrupt)
	}
	doc.Checksum = want

	return doc, nil
}

func checksum(doc document) (string, error) {
	doc.Checksum = ""
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// writeAtomic writes data to a temp file in the target directory, syncs it,
// and renames it over path. The directory is synced afterwards so the
// rename itself is durable.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
