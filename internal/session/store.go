// internal/session/store.go
//
// In-memory session store keyed by client and game mode.
//
// Characteristics:
//   - Stores State values keyed by "clientID|mode".
//   - Concurrency-safe via RWMutex.
//   - State is lost on process restart; the browser's own copy survives,
//     so losing this mirror is harmless.

package session

import "sync"

// Mode identifies a game mode within the store.
type Mode string

const (
	ModeTroop   Mode = "troop"
	ModeMapArea Mode = "map-area"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]State
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]State)}
}

func key(clientID string, mode Mode) string { return clientID + "|" + string(mode) }

// Get returns the client's state for the mode, reconciled against today.
// The reconciled state is written back so rollover happens exactly once.
func (s *Store) Get(clientID string, mode Mode, today string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[key(clientID, mode)]
	if !ok {
		st = NewState(today)
	}
	st = Reconcile(st, today)
	s.sessions[key(clientID, mode)] = st
	return st
}

// Put stores the client's state for the mode.
func (s *Store) Put(clientID string, mode Mode, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key(clientID, mode)] = st
}
