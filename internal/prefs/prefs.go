// Package prefs persists each user's display window in a YAML file.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/starford/habits/internal/layout"
)

// ErrInvalidEntry marks a saved window that was skipped on load. A reload
// failing only with such errors has still applied every valid entry.
var ErrInvalidEntry = errors.New("invalid display entry")

type record struct {
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
}

type document struct {
	Display map[string]record `yaml:"display"`
}

// Store holds display windows keyed by user ID. Users without a saved
// window get the default.
type Store struct {
	path string
	def  layout.Window

	mu      sync.RWMutex
	windows map[string]layout.Window
}

// Open loads path if it exists. A missing file is not an error. When the
// file cannot be fully loaded the Store is still returned, holding whatever
// entries were valid, together with the error.
func Open(path string, def layout.Window) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("prefs: resolve path: %w", err)
	}
	s := &Store{path: abs, def: def, windows: map[string]layout.Window{}}
	return s, s.Reload()
}

// Applied reports whether a Reload that returned err changed the loaded
// windows, either fully or with some entries skipped.
func Applied(err error) bool {
	return err == nil || errors.Is(err, ErrInvalidEntry)
}

// Path returns the absolute location of the preferences file.
func (s *Store) Path() string { return s.path }

// Default returns the window used for users without a saved preference.
func (s *Store) Default() layout.Window { return s.def }

// Get returns the user's window or the default.
func (s *Store) Get(userID string) layout.Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.windows[userID]; ok {
		return w
	}
	return s.def
}

// Set validates w, records it for userID and rewrites the file.
func (s *Store) Set(userID string, w layout.Window) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[userID] = w
	return s.persistLocked()
}

// Reload re-reads the file. Entries that do not form a valid window are
// skipped and reported in the returned error, wrapping ErrInvalidEntry;
// valid entries still apply. Any other error leaves the loaded windows
// untouched.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("prefs: read %s: %w", s.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("prefs: parse %s: %w", s.path, err)
	}

	windows := make(map[string]layout.Window, len(doc.Display))
	var errs []error
	for user, rec := range doc.Display {
		w, err := layout.ParseWindow(rec.StartTime, rec.EndTime)
		if err != nil {
			errs = append(errs, fmt.Errorf("prefs: user %s: %w: %w", user, ErrInvalidEntry, err))
			continue
		}
		windows[user] = w
	}

	s.mu.Lock()
	s.windows = windows
	s.mu.Unlock()
	return errors.Join(errs...)
}

func (s *Store) persistLocked() error {
	doc := document{Display: make(map[string]record, len(s.windows))}
	for user, w := range s.windows {
		doc.Display[user] = record{StartTime: w.StartLabel(), EndTime: w.EndLabel()}
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	return writeAtomic(s.path, data)
}

// writeAtomic writes content via tmp file → fsync → rename.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prefs: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".habits-prefs-*")
	if err != nil {
		return fmt.Errorf("prefs: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("prefs: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("prefs: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("prefs: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("prefs: rename: %w", err)
	}
	success = true
	return nil
}
