package ledger

import "sync"

// householdLocks hands out one mutex per household. Entries are reference
// counted and dropped once no goroutine holds or waits for them.
type householdLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newHouseholdLocks() *householdLocks {
	return &householdLocks{locks: make(map[string]*lockEntry)}
}

// lock blocks until the household's mutex is held and returns its release func.
func (h *householdLocks) lock(householdID string) func() {
	h.mu.Lock()
	e, ok := h.locks[householdID]
	if !ok {
		e = &lockEntry{}
		h.locks[householdID] = e
	}
	e.refs++
	h.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		h.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(h.locks, householdID)
		}
		h.mu.Unlock()
	}
}

// size returns the number of live entries.
func (h *householdLocks) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.locks)
}
