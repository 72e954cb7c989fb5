package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrSessionCorrupt is returned by FileStore.Get when the session file
// cannot be decoded. The returned Session is empty in that case.
var ErrSessionCorrupt = errors.New("session file is corrupt")

// Session is the persisted login state. Role only means something while a
// Token is present.
type Session struct {
	Token string `json:"token,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Authenticated reports whether a credential is present. A leftover role
// without a token does not count.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// EffectiveRole is the role to act on: empty when unauthenticated.
func (s Session) EffectiveRole() string {
	if !s.Authenticated() {
		return ""
	}
	return s.Role
}

// Store persists a Session. Implementations must be safe for concurrent use.
type Store interface {
	Set(token, role string) error
	Get() (Session, error)
	Clear() error
}

// FileStore keeps the session in a JSON file that survives restarts.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Set(token, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(Session{Token: token, Role: role})
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session write: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("session write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	return nil
}

func (f *FileStore) Get() (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("session read: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	return s, nil
}

// Clear removes both fields at once by deleting the file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Set(token, role string) error {
	m.mu.Lock()
	m.session = Session{Token: token, Role: role}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.session = Session{}
	m.mu.Unlock()
	return nil
}
