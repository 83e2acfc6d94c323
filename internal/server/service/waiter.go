// FILE: internal/server/service/waiter.go
package service

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	// WaitTimeout bounds a single long-poll
	WaitTimeout = 25 * time.Second

	waitChannelBuffer = 1
)

var ErrWaitShutdownTimeout = errors.New("wait registry shutdown timed out")

// WaitRegistry tracks long-polling clients per game
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*waitRequest
	shutdown chan struct{}
	wg       sync.WaitGroup
}

type waitRequest struct {
	moveCount int
	notify    chan struct{}
	timer     *time.Timer
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that fires when the game's move count moves
// away from moveCount, the game is removed, or WaitTimeout passes. On
// shutdown the channel is closed.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &waitRequest{
		moveCount: moveCount,
		notify:    make(chan struct{}, waitChannelBuffer),
	}
	req.timer = time.AfterFunc(WaitTimeout, func() { signal(req) })

	w.mu.Lock()
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	out := make(chan struct{}, 1)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer req.timer.Stop()
		select {
		case <-ctx.Done():
			w.remove(gameID, req)
		case <-req.notify:
			w.remove(gameID, req)
			out <- struct{}{}
		case <-w.shutdown:
		}
		close(out)
	}()
	return out
}

// NotifyGame wakes waiters whose known move count differs from currentMoveCount
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, req := range w.waiters[gameID] {
		if req.moveCount != currentMoveCount {
			signal(req)
		}
	}
}

// RemoveGame wakes and forgets every waiter of a game
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	list := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range list {
		signal(req)
	}
}

// Shutdown releases all waiters and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return ErrWaitShutdownTimeout
	}
}

func signal(req *waitRequest) {
	select {
	case req.notify <- struct{}{}:
	default:
	}
}

func (w *WaitRegistry) remove(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	list := w.waiters[gameID]
	for i, r := range list {
		if r == req {
			w.waiters[gameID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
