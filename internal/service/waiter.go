// FILE: internal/service/waiter.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout is the longest a client is held before getting the current state
const WaitTimeout = 25 * time.Second

// WaitRegistry parks long-polling clients until a game's move count changes,
// which is how clients learn that a pending computer move has landed
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string]map[*waitRequest]struct{}
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

type waitRequest struct {
	moveCount int
	notify    chan struct{}
	once      sync.Once
}

func (r *waitRequest) fire() {
	r.once.Do(func() { close(r.notify) })
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string]map[*waitRequest]struct{}),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel closed when the game moves away from
// moveCount, is removed, the wait times out, ctx ends or the registry stops
func (w *WaitRegistry) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	req := &waitRequest{moveCount: moveCount, notify: make(chan struct{})}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		req.fire()
		return req.notify
	}
	if w.waiters[gameID] == nil {
		w.waiters[gameID] = make(map[*waitRequest]struct{})
	}
	w.waiters[gameID][req] = struct{}{}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		timer := time.NewTimer(WaitTimeout)
		defer timer.Stop()

		select {
		case <-req.notify:
		case <-ctx.Done():
		case <-timer.C:
		case <-w.shutdown:
		}
		req.fire()
		w.remove(gameID, req)
	}()

	return req.notify
}

// NotifyGame wakes the waiters whose known move count is stale
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for req := range w.waiters[gameID] {
		if req.moveCount != currentMoveCount {
			req.fire()
		}
	}
}

// RemoveGame wakes every waiter of a game that is going away
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for req := range w.waiters[gameID] {
		req.fire()
	}
}

// Waiting returns the number of parked clients for a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

func (w *WaitRegistry) remove(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.waiters[gameID], req)
	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}

// Shutdown releases every waiter and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}
