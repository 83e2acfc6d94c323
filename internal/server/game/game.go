// FILE: internal/server/game/game.go
package game

import (
	"fmt"
	"time"

	"chessrules/internal/rules"
	"chessrules/internal/server/core"
)

// Entry is one position in a game's history
type Entry struct {
	Position rules.Snapshot `json:"position"`
	Move     string         `json:"move"`  // text of the move that produced it, empty for the first entry
	State    core.State     `json:"state"` // evaluated for the side to move
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        string         `json:"move"`
	PlayerColor core.Color     `json:"playerColor"`
	GameState   core.State     `json:"gameState"`
	Captured    rules.Piece    `json:"captured"`
	Kind        rules.MoveKind `json:"kind"`
	Promotion   rules.Piece    `json:"promotion"`
}

// Game is a session: the history of engine snapshots plus who plays which side.
// A Game is not synchronized. The service mutates it under its registry lock
// and hands it to readers only inside Service.View.
type Game struct {
	history      []Entry
	players      map[core.Color]*core.Player
	lastResult   *MoveResult
	lastActivity time.Time
}

func New(initial rules.Snapshot, whitePlayer, blackPlayer *core.Player) *Game {
	return &Game{
		history: []Entry{{Position: initial, State: core.StateOngoing}},
		players: map[core.Color]*core.Player{
			core.ColorWhite: whitePlayer,
			core.ColorBlack: blackPlayer,
		},
		lastActivity: time.Now(),
	}
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// Current returns the latest history entry
func (g *Game) Current() Entry {
	return g.history[len(g.history)-1]
}

// CurrentSnapshot returns the latest position
func (g *Game) CurrentSnapshot() rules.Snapshot {
	return g.Current().Position
}

// Engine rebuilds a rules game positioned at the current snapshot
func (g *Game) Engine(reporter rules.Reporter) *rules.Game {
	return rules.New(g.CurrentSnapshot(), reporter)
}

func (g *Game) NextTurnColor() core.Color {
	if g.CurrentSnapshot().Round%2 == 0 {
		return core.ColorWhite
	}
	return core.ColorBlack
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurnColor()]
}

func (g *Game) GetPlayer(color core.Color) *core.Player {
	return g.players[color]
}

// Controls reports whether userID may manage the game: reconfigure players,
// undo, resign or delete. Games with no bound side are open to everyone;
// otherwise the caller must be bound to at least one side.
func (g *Game) Controls(userID string) bool {
	bound := false
	for _, p := range g.players {
		if p == nil || p.UserID == "" {
			continue
		}
		if p.UserID == userID {
			return true
		}
		bound = true
	}
	return !bound
}

// AddSnapshot appends the position reached by move
func (g *Game) AddSnapshot(position rules.Snapshot, move string, state core.State) {
	g.history = append(g.history, Entry{Position: position, Move: move, State: state})
	g.lastActivity = time.Now()
}

func (g *Game) UpdatePlayers(whitePlayer, blackPlayer *core.Player) {
	g.players[core.ColorWhite] = whitePlayer
	g.players[core.ColorBlack] = blackPlayer
	g.lastActivity = time.Now()
}

// UndoMoves drops the last count entries. The state recorded with the
// remaining last entry comes back with it.
func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	available := len(g.history) - 1
	if available < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, available)
	}

	g.history = g.history[:len(g.history)-count]
	g.lastResult = nil
	g.lastActivity = time.Now()
	return nil
}

func (g *Game) Moves() []string {
	moves := make([]string, 0, len(g.history)-1)
	for _, e := range g.history[1:] {
		moves = append(moves, e.Move)
	}
	return moves
}

func (g *Game) State() core.State {
	return g.Current().State
}

func (g *Game) SetState(s core.State) {
	g.history[len(g.history)-1].State = s
	g.lastActivity = time.Now()
}

func (g *Game) InitialSnapshot() rules.Snapshot {
	return g.history[0].Position
}

// LastActivity is when the game last changed
func (g *Game) LastActivity() time.Time {
	return g.lastActivity
}
