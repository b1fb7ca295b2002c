package prefs

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// KeyPlayerName holds the last display name used to join a room.
const KeyPlayerName = "playerName"

const (
	ModeSQLite = "sqlite"
	ModeMemory = "memory"
)

// Store is a small persistent key/value store for client preferences.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open returns the store selected by mode. path is only used by sqlite.
func Open(mode, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeSQLite:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ModeMemory, "mem":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("invalid prefs mode %q (supported: %s, %s)", mode, ModeSQLite, ModeMemory)
	}
}

// LoadName returns the saved display name, or "" when none was saved.
func LoadName(ctx context.Context, s Store) (string, error) {
	name, _, err := s.Get(ctx, KeyPlayerName)
	return name, err
}

func SaveName(ctx context.Context, s Store, name string) error {
	return s.Set(ctx, KeyPlayerName, name)
}

type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Close() error { return nil }
