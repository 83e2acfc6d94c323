// FILE: internal/server/storage/storage.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	writeQueueSize = 1000
	drainTimeout   = 2 * time.Second
)

// ErrQueueFull is returned when an async write had to be dropped
var ErrQueueFull = errors.New("storage write queue full")

type writeFunc func(*sql.Tx) error

// Store persists games asynchronously and users synchronously in SQLite.
// A failed async write marks the store degraded; later async writes are
// dropped until restart.
type Store struct {
	db      *sql.DB
	path    string
	writes  chan writeFunc
	healthy atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewStore opens the database and starts the writer goroutine
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{"PRAGMA foreign_keys = ON"}
	if devMode {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:     db,
		path:   dataSourceName,
		writes: make(chan writeFunc, writeQueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	s.healthy.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// IsHealthy returns true until an async write fails
func (s *Store) IsHealthy() bool {
	return s.healthy.Load()
}

// enqueue hands fn to the writer. Writes are dropped silently while
// degraded and logged when the queue is full.
func (s *Store) enqueue(what string, fn writeFunc) error {
	if !s.healthy.Load() {
		return nil
	}
	select {
	case s.writes <- fn:
		return nil
	default:
		log.Printf("[storage] write queue full, dropping %s", what)
		return ErrQueueFull
	}
}

func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			s.drain()
			return
		case fn := <-s.writes:
			if s.healthy.Load() {
				s.execute(fn)
			}
		}
	}
}

// drain flushes queued writes on shutdown, bounded by drainTimeout
func (s *Store) drain() {
	deadline := time.After(drainTimeout)
	for {
		select {
		case fn := <-s.writes:
			if s.healthy.Load() {
				s.execute(fn)
			}
		case <-deadline:
			return
		default:
			return
		}
	}
}

func (s *Store) execute(fn writeFunc) {
	tx, err := s.db.Begin()
	if err != nil {
		s.degrade("begin transaction", err)
		return
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		s.degrade("write", err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.degrade("commit", err)
	}
}

func (s *Store) degrade(stage string, err error) {
	log.Printf("[storage] degraded: %s failed: %v", stage, err)
	s.healthy.Store(false)
}

// Close stops the writer, flushing what is queued, and closes the database
func (s *Store) Close() error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(drainTimeout):
		log.Printf("[storage] writer shutdown timed out, queued writes may be lost")
	}

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return tx.Commit()
}

// DeleteDB closes the store and removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}
	return nil
}
