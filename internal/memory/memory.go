// Package memory holds per-user conversation state for the chat assistant.
// Records live for the process lifetime only; nothing is persisted.
package memory

import "sync"

// Record is the mutable conversation memory for one user.
// SpendingHabits, Goals and Preferences are reserved for future
// personalization and currently have no read path.
type Record struct {
	LastMessage    string
	SpendingHabits map[string]string
	Goals          map[string]string
	Preferences    map[string]string
}

// Store is the session-store abstraction the chat router depends on.
type Store interface {
	// Get returns the memory record for the user id, creating a fresh
	// default record on first use. It always succeeds.
	Get(userID string) *Record

	// Update overwrites the last-message field for the user id,
	// creating the record if needed. Last write wins.
	Update(userID, lastMessage string)
}

// InMemoryStore is the default Store backed by a process-wide map.
// At most one record exists per user id.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*Record)}
}

// Get returns the record for the user id, creating it if absent.
func (s *InMemoryStore) Get(userID string) *Record {
	s.mu.RLock()
	rec, ok := s.records[userID]
	s.mu.RUnlock()
	if ok {
		return rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[userID]; ok {
		return rec
	}
	rec = newRecord()
	s.records[userID] = rec
	return rec
}

// Update overwrites the last-message field for the user id.
func (s *InMemoryStore) Update(userID, lastMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		rec = newRecord()
		s.records[userID] = rec
	}
	rec.LastMessage = lastMessage
}

func newRecord() *Record {
	return &Record{
		SpendingHabits: make(map[string]string),
		Goals:          make(map[string]string),
		Preferences:    make(map[string]string),
	}
}

var _ Store = (*InMemoryStore)(nil)
