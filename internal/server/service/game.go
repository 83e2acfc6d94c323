// FILE: internal/server/service/game.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chessrules/internal/rules"
	"chessrules/internal/server/core"
	"chessrules/internal/server/game"
	"chessrules/internal/server/storage"
)

// gameLocks serializes read-validate-apply sequences per game
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *gameLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

func (l *gameLocks) forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, id)
}

// LockGame holds the game's move lock until the returned func is called.
// Processors take it around every command that reads and then writes a game.
func (s *Service) LockGame(gameID string) (unlock func(), err error) {
	if err := s.View(gameID, func(*game.Game) {}); err != nil {
		return nil, err
	}
	m := s.locks.get(gameID)
	m.Lock()
	return m.Unlock, nil
}

// CreateGame registers a new game with pre-constructed players
func (s *Service) CreateGame(id string, whitePlayer, blackPlayer *core.Player, initial rules.Snapshot, state core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("game %s already exists", id)
	}

	g := game.New(initial, whitePlayer, blackPlayer)
	g.SetState(state)
	s.games[id] = g

	if s.store != nil {
		position, err := json.Marshal(initial)
		if err != nil {
			return fmt.Errorf("encode initial position: %w", err)
		}
		s.store.RecordNewGame(storage.GameRecord{
			GameID:          id,
			InitialPosition: string(position),
			WhitePlayerID:   whitePlayer.ID,
			WhiteName:       whitePlayer.Name,
			WhiteUserID:     whitePlayer.UserID,
			BlackPlayerID:   blackPlayer.ID,
			BlackName:       blackPlayer.Name,
			BlackUserID:     blackPlayer.UserID,
			StartTimeUTC:    time.Now().UTC(),
		})
	}
	return nil
}

// UpdatePlayers replaces players in an existing game
func (s *Service) UpdatePlayers(gameID string, whitePlayer, blackPlayer *core.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	g.UpdatePlayers(whitePlayer, blackPlayer)
	return nil
}

// View runs fn with the game held under the registry read lock. fn must not
// retain g or call back into the service.
func (s *Service) View(gameID string, fn func(g *game.Game)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	fn(g)
	return nil
}

// WaitForMove registers a long-poll waiter for a game whose move count is
// still moveCount. When the count already differs or the game is over,
// changed is true and no waiter is registered. The check and the registration share one lock hold,
// so a move cannot slip between them.
func (s *Service) WaitForMove(ctx context.Context, gameID string, moveCount int) (notify <-chan struct{}, changed bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if len(g.Moves()) != moveCount || g.State().IsOver() {
		return nil, true, nil
	}
	return s.waiter.RegisterWait(ctx, gameID, moveCount), false, nil
}

// ListGames returns the ids of all games in memory, sorted
func (s *Service) ListGames() []string {
	s.mu.RLock()
	ids := maps.Keys(s.games)
	s.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// ApplyMove appends the position reached by a validated move, records the
// result, wakes waiters and persists.
func (s *Service) ApplyMove(gameID, moveText string, position rules.Snapshot, state core.State, result *game.MoveResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	mover := g.NextTurnColor()
	g.AddSnapshot(position, moveText, state)
	g.SetLastResult(result)

	moveNumber := len(g.Moves())
	s.waiter.NotifyGame(gameID, moveNumber)

	if s.store != nil {
		encoded, err := json.Marshal(position)
		if err != nil {
			return fmt.Errorf("encode position: %w", err)
		}
		s.store.RecordMove(storage.MoveRecord{
			GameID:      gameID,
			MoveNumber:  moveNumber,
			MoveText:    moveText,
			Position:    string(encoded),
			PlayerColor: mover.String(),
			State:       state.String(),
			MoveTimeUTC: time.Now().UTC(),
		})
	}
	return nil
}

// UpdateGameState overrides the state of the current position. A finished
// state wakes every waiter of the game.
func (s *Service) UpdateGameState(gameID string, state core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	g.SetState(state)
	if state.IsOver() {
		s.waiter.NotifyGame(gameID, -1)
	}
	return nil
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if err := g.UndoMoves(count); err != nil {
		return err
	}

	remaining := len(g.Moves())
	s.waiter.NotifyGame(gameID, remaining)

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, remaining)
	}
	return nil
}

// DeleteGame removes a game from memory and storage
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)
	s.locks.forget(gameID)

	if s.store != nil {
		s.store.DeleteGameRecord(gameID)
	}
	return nil
}
