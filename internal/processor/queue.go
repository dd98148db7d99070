// FILE: internal/processor/queue.go
package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"cortex/internal/game"
)

const (
	defaultWorkers   = 2
	queueSize        = 100
	DefaultTurnLimit = 45 * time.Second
)

var (
	ErrQueueFull     = errors.New("turn queue is full")
	ErrQueueStopping = errors.New("turn queue is shutting down")
)

// TurnTask is one pending computer turn
type TurnTask struct {
	GameID   string
	Ticket   *game.Ticket
	Callback func(TurnResult) // Optional, runs on the worker
}

// TurnResult is the outcome of resolving a ticket
type TurnResult struct {
	GameID string
	Move   game.MoveResult
	Err    error
}

// TurnQueue resolves computer turns on a fixed pool of workers
type TurnQueue struct {
	tasks   chan TurnTask
	workers int
	limit   time.Duration
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.RWMutex
	closed  bool
}

// NewTurnQueue starts workerCount workers. Each turn is bounded by limit.
func NewTurnQueue(workerCount int, limit time.Duration) *TurnQueue {
	if workerCount < 1 {
		workerCount = defaultWorkers
	}
	if limit <= 0 {
		limit = DefaultTurnLimit
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &TurnQueue{
		tasks:   make(chan TurnTask, queueSize),
		workers: workerCount,
		limit:   limit,
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	return q
}

func (q *TurnQueue) worker(id int) {
	defer q.wg.Done()

	for task := range q.tasks {
		result := q.process(task)
		if result.Err != nil && !errors.Is(result.Err, game.ErrTurnDiscarded) {
			log.Error().Err(result.Err).Int("worker", id).Str("game", task.GameID).Msg("Computer turn failed")
		}
		if task.Callback != nil {
			task.Callback(result)
		}
	}
}

func (q *TurnQueue) process(task TurnTask) TurnResult {
	ctx, cancel := context.WithTimeout(q.ctx, q.limit)
	defer cancel()

	move, err := task.Ticket.Resolve(ctx)
	return TurnResult{GameID: task.GameID, Move: move, Err: err}
}

// Submit queues a task without blocking
func (q *TurnQueue) Submit(task TurnTask) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueStopping
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting tasks, lets workers finish what is queued and
// cancels in-flight turns once timeout passes
func (q *TurnQueue) Shutdown(timeout time.Duration) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-time.After(timeout):
		q.cancel()
		return fmt.Errorf("turn queue shutdown timeout exceeded")
	}
}
