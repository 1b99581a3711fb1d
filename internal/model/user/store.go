package user

import (
	"fmt"
	"strings"
	"sync"
)

// IDStrategy decides how the store numbers new records.
type IDStrategy string

const (
	// IDStrategyLength numbers a new record as len(records)+1. A create after a delete can
	// reuse an id that is still in the store.
	IDStrategyLength IDStrategy = "length"
	// IDStrategySequence numbers records from a high-water mark and never reuses an id.
	IDStrategySequence IDStrategy = "sequence"
)

// ParseIDStrategy maps a configuration value onto an IDStrategy.
func ParseIDStrategy(raw string) (IDStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(IDStrategyLength):
		return IDStrategyLength, nil
	case string(IDStrategySequence):
		return IDStrategySequence, nil
	default:
		return "", fmt.Errorf("unknown id strategy %q", raw)
	}
}

// MemoryStore holds the ordered user sequence for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	items    []User
	strategy IDStrategy
	lastID   int
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied users.
func NewMemoryStore(items []User, strategy IDStrategy) *MemoryStore {
	if strategy == "" {
		strategy = IDStrategyLength
	}
	s := &MemoryStore{
		items:    append([]User(nil), items...),
		strategy: strategy,
	}
	for _, item := range s.items {
		if item.ID > s.lastID {
			s.lastID = item.ID
		}
	}
	return s
}

// Strategy reports the id strategy the store was built with.
func (s *MemoryStore) Strategy() IDStrategy {
	return s.strategy
}

// View runs fn with read access to the current sequence. fn must not retain or modify items.
func (s *MemoryStore) View(fn func(items []User)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.items)
}

// Mutate runs fn with exclusive access and replaces the sequence with its result.
func (s *MemoryStore) Mutate(fn func(items []User) []User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = fn(s.items)
	for _, item := range s.items {
		if item.ID > s.lastID {
			s.lastID = item.ID
		}
	}
}

// NextID returns the id for a record about to be appended to items.
// Callers must be inside Mutate.
func (s *MemoryStore) NextID(items []User) int {
	if s.strategy == IDStrategySequence {
		return s.lastID + 1
	}
	return len(items) + 1
}
