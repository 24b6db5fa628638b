package pagestate

import (
	"errors"
	"sync"
)

// ErrActionInProgress rejects a mutation issued while another is in flight.
var ErrActionInProgress = errors.New("another action is in progress")

// Action is the per-page in-flight mutation flag. It guards one page model only;
// other sessions are arbitrated by the server.
type Action struct {
	mu   sync.Mutex
	busy bool
}

// Start claims the flag, or returns ErrActionInProgress. Call the returned func when done.
func (a *Action) Start() (done func(), err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return nil, ErrActionInProgress
	}
	a.busy = true
	return func() {
		a.mu.Lock()
		a.busy = false
		a.mu.Unlock()
	}, nil
}

// Busy reports whether a mutation is in flight.
func (a *Action) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}
