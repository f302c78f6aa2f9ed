// Package settings provides a file-backed store of typed user settings with
// change notifications.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/schema"
)

// Well-known setting keys.
const (
	// KeyLanguage selects the BCP 47 tag used to format CLI output.
	KeyLanguage = "language"
)

// ErrEmptyKey is returned when a setting key is empty.
var ErrEmptyKey = deverrors.Validation("setting key is empty")

// Change describes one modification of the store.
type Change struct {
	Key     string
	Old     Value
	New     Value
	Existed bool // Key had a value before the change
	Deleted bool
}

// Store is a JSON file of settings. Writes replace the file atomically.
// A Store is safe for concurrent use within one process.
type Store struct {
	path string

	mu     sync.RWMutex
	values map[string]Value

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(Change)
}

// Open loads the settings file at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]Value{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return s, nil
	}

	if err := schema.ValidateSettings(data); err != nil {
		return nil, deverrors.Configf("settings file %s: %v", path, err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, deverrors.Configf("settings file %s: %v", path, err)
	}
	if s.values == nil {
		s.values = map[string]Value{}
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string stored under key, or def when the key is
// missing or holds another kind.
func (s *Store) GetString(key, def string) string {
	if v, ok := s.Get(key); ok {
		if str, ok := v.AsString(); ok {
			return str
		}
	}
	return def
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a copy of every setting.
func (s *Store) All() map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		all[k] = v
	}
	return all
}

// Set stores v under key, persists the file and notifies subscribers.
// Setting a key to the value it already holds does nothing.
func (s *Store) Set(key string, v Value) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	old, existed := s.values[key]
	if existed && old.Equal(v) {
		s.mu.Unlock()
		return nil
	}
	next := s.copyLocked()
	next[key] = v
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.values = next
	s.mu.Unlock()

	s.notify(Change{Key: key, Old: old, New: v, Existed: existed})
	return nil
}

// Delete removes key. Deleting a missing key does nothing.
func (s *Store) Delete(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	old, existed := s.values[key]
	if !existed {
		s.mu.Unlock()
		return nil
	}
	next := s.copyLocked()
	delete(next, key)
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.values = next
	s.mu.Unlock()

	s.notify(Change{Key: key, Old: old, Existed: true, Deleted: true})
	return nil
}

// Subscribe registers fn to be called after every change. Callbacks run
// synchronously on the goroutine that made the change, in subscription
// order. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.subMu.Unlock()
	for _, sub := range subs {
		sub.fn(c)
	}
}

func (s *Store) copyLocked() map[string]Value {
	next := make(map[string]Value, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	return next
}

// persist writes values to a temporary file next to the target and renames
// it into place.
func (s *Store) persist(values map[string]Value) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
