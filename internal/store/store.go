// Package store provides the in-memory conversation history store.
package store

import (
	"sync"

	"github.com/crt-lab/chatproxy/internal/model"
)

// MaxHistory is the per-conversation turn cap. Older turns are dropped so
// prompts stay well inside the provider's context window.
const MaxHistory = 10

// Key partitions histories by participant and bot identity.
func Key(participantID, botID string) string {
	return participantID + ":" + botID
}

// Store holds per-key bounded conversation histories.
type Store interface {
	// AppendAndTrim appends a turn to the conversation for key, creating it
	// if absent, and drops the oldest turns beyond MaxHistory. The returned
	// slice is a read reference; callers must not mutate it.
	AppendAndTrim(key string, turn model.Turn) []model.Turn

	// Get returns the current history for key, or nil if none exists.
	Get(key string) []model.Turn

	// Len returns the number of distinct conversation keys.
	Len() int
}

type entry struct {
	mu    sync.Mutex
	turns []model.Turn
}

// Memory is the process-lifetime Store implementation. Each conversation key
// carries its own mutex so append-and-trim is serialized per key while
// unrelated keys proceed concurrently; the store-level mutex guards only
// entry creation. Conversations live until process exit — growth is bounded
// per key and unbounded in key count.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*entry)}
}

func (m *Memory) entryFor(key string) *entry {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok = m.entries[key]; ok {
		return e
	}
	e = &entry{}
	m.entries[key] = e
	return e
}

// AppendAndTrim implements Store.
func (m *Memory) AppendAndTrim(key string, turn model.Turn) []model.Turn {
	e := m.entryFor(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.turns = append(e.turns, turn)
	if len(e.turns) > MaxHistory {
		trimmed := make([]model.Turn, MaxHistory)
		copy(trimmed, e.turns[len(e.turns)-MaxHistory:])
		e.turns = trimmed
	}
	return e.turns
}

// Get implements Store.
func (m *Memory) Get(key string) []model.Turn {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turns
}

// Len implements Store.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
