package contacts

import (
	"log/slog"
	"sync"

	"github.com/tartampluch/hermandad/internal/config"
)

// Store is an append-only, in-memory list of contacts.
// There is no update or delete; callers needing that must layer it on top.
type Store struct {
	mu        sync.RWMutex
	records   []ContactRecord
	listeners map[int]func(int)
	order     []int
	nextID    int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		records:   make([]ContactRecord, 0),
		listeners: make(map[int]func(int)),
	}
}

// List returns every contact in insertion order.
// The returned slice is a copy and may be modified freely.
func (s *Store) List() []ContactRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ContactRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of contacts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Add appends rec unconditionally and then notifies subscribers with the new length.
func (s *Store) Add(rec ContactRecord) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	n := len(s.records)
	fns := make([]func(int), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	slog.Debug(config.MsgContactAdded,
		config.LogKeyComponent, config.CompContacts,
		config.LogKeyID, rec.ID,
		config.LogKeyCount, n)

	for _, fn := range fns {
		fn(n)
	}
}

// Subscribe registers fn to be called synchronously after every Add and
// returns a function that removes it.
func (s *Store) Subscribe(fn func(count int)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
