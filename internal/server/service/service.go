// FILE: internal/server/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/maps"

	"chessrules/internal/server/game"
	"chessrules/internal/server/storage"
)

const (
	SessionTTL         = 7 * 24 * time.Hour
	CleanupJobInterval = 1 * time.Hour
	DefaultFinishedTTL = 30 * time.Minute
)

// ErrGameNotFound is wrapped by every lookup of an unknown game id
var ErrGameNotFound = errors.New("game not found")

// Service coordinates game state, user management, and storage
type Service struct {
	games       map[string]*game.Game
	mu          sync.RWMutex
	store       *storage.Store // nil if persistence disabled
	jwtSecret   []byte
	waiter      *WaitRegistry
	locks       gameLocks
	finishedTTL time.Duration
}

// New creates a service. store may be nil.
func New(store *storage.Store, jwtSecret []byte) *Service {
	return &Service{
		games:       make(map[string]*game.Game),
		store:       store,
		jwtSecret:   jwtSecret,
		waiter:      NewWaitRegistry(),
		finishedTTL: DefaultFinishedTTL,
	}
}

// SetFinishedTTL sets how long finished games stay in memory
func (s *Service) SetFinishedTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishedTTL = ttl
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob periodically evicts finished games and expired sessions
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(time.Now())
		}
	}
}

func (s *Service) cleanup(now time.Time) {
	if n := s.evictFinished(now); n > 0 {
		log.Printf("[cleanup] evicted %d finished games", n)
	}

	if s.store == nil {
		return
	}
	if deleted, err := s.store.DeleteExpiredSessions(); err != nil {
		log.Printf("[cleanup] failed to delete expired sessions: %v", err)
	} else if deleted > 0 {
		log.Printf("[cleanup] deleted %d expired sessions", deleted)
	}
}

// evictFinished drops games that ended more than finishedTTL before now
func (s *Service) evictFinished(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for _, id := range maps.Keys(s.games) {
		g := s.games[id]
		if g.State().IsOver() && now.Sub(g.LastActivity()) > s.finishedTTL {
			s.waiter.RemoveGame(id)
			delete(s.games, id)
			s.locks.forget(id)
			evicted++
		}
	}
	return evicted
}
