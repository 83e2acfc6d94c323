// FILE: internal/rules/game.go
package rules

import "fmt"

// Side of the board a castling move goes to
type Side uint8

const (
	KingSide Side = iota
	QueenSide
)

func (s Side) String() string {
	if s == KingSide {
		return "king side"
	}
	return "queen side"
}

// CastlingRights are cleared once and never restored
type CastlingRights struct {
	WhiteKingSide  bool `json:"whiteKingSide"`
	WhiteQueenSide bool `json:"whiteQueenSide"`
	BlackKingSide  bool `json:"blackKingSide"`
	BlackQueenSide bool `json:"blackQueenSide"`
}

// AllCastlingRights is the initial set for a standard game
func AllCastlingRights() CastlingRights {
	return CastlingRights{true, true, true, true}
}

func (r CastlingRights) Allowed(c Color, s Side) bool {
	switch {
	case c == White && s == KingSide:
		return r.WhiteKingSide
	case c == White:
		return r.WhiteQueenSide
	case s == KingSide:
		return r.BlackKingSide
	default:
		return r.BlackQueenSide
	}
}

func (r *CastlingRights) revoke(c Color, s Side) {
	switch {
	case c == White && s == KingSide:
		r.WhiteKingSide = false
	case c == White:
		r.WhiteQueenSide = false
	case s == KingSide:
		r.BlackKingSide = false
	default:
		r.BlackQueenSide = false
	}
}

// Snapshot is everything needed to construct a Game. LastFrom == LastTo
// means no move has been played yet.
type Snapshot struct {
	Board    Board          `json:"board"`
	Round    int            `json:"round"`
	LastFrom Position       `json:"lastFrom"`
	LastTo   Position       `json:"lastTo"`
	Castling CastlingRights `json:"castling"`
}

// StandardSnapshot is the initial position with white to move
func StandardSnapshot() Snapshot {
	return Snapshot{
		Board:    StandardBoard(),
		Castling: AllCastlingRights(),
	}
}

// Validate checks the parts of a snapshot the engine depends on
func (s Snapshot) Validate() error {
	if s.Round < 0 {
		return fmt.Errorf("%w: negative round %d", ErrInvalidBoard, s.Round)
	}
	if !s.LastFrom.Valid() || !s.LastTo.Valid() {
		return fmt.Errorf("%w: last move off the board", ErrInvalidBoard)
	}
	kings := map[Piece]int{}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			pc := s.Board[r][c]
			if !pc.Valid() {
				return fmt.Errorf("%w: malformed piece %q at %s", ErrInvalidBoard, byte(pc), Position{r, c})
			}
			if pc.Kind() == King {
				kings[pc]++
			}
		}
	}
	if kings[WhiteKing] != 1 || kings[BlackKing] != 1 {
		return fmt.Errorf("%w: need exactly one king per color", ErrInvalidBoard)
	}
	return nil
}

// Game owns one position exclusively. It is not safe for concurrent use.
type Game struct {
	board    Board
	round    int
	lastFrom Position
	lastTo   Position
	castling CastlingRights
	finished bool
	reporter Reporter

	// set while scanning candidate moves so probing castling stays silent
	enumerating bool
}

// New copies the snapshot into a fresh game. A nil reporter discards diagnostics.
func New(s Snapshot, reporter Reporter) *Game {
	if reporter == nil {
		reporter = discard{}
	}
	g := &Game{
		board:    s.Board,
		round:    s.Round,
		lastFrom: s.LastFrom,
		lastTo:   s.LastTo,
		castling: s.Castling,
		reporter: reporter,
	}
	// zero value squares are vacant
	for r := range g.board {
		for c := range g.board[r] {
			if g.board[r][c] == 0 {
				g.board[r][c] = Empty
			}
		}
	}
	return g
}

// Snapshot reads the current state back out
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Board:    g.board,
		Round:    g.round,
		LastFrom: g.lastFrom,
		LastTo:   g.lastTo,
		Castling: g.castling,
	}
}

func (g *Game) Board() Board {
	return g.board
}

func (g *Game) PieceAt(p Position) Piece {
	return g.board.At(p)
}

func (g *Game) IsOccupied(p Position) bool {
	return g.board.IsOccupied(p)
}

func (g *Game) Round() int {
	return g.round
}

// CurrentTurn is white on even rounds, black on odd
func (g *Game) CurrentTurn() Color {
	if g.round&1 == 0 {
		return White
	}
	return Black
}

func (g *Game) OpponentColor() Color {
	return g.CurrentTurn().Opponent()
}

func (g *Game) IsFinished() bool {
	return g.finished
}

func (g *Game) CastlingAllowed(s Side, c Color) bool {
	return g.castling.Allowed(c, s)
}

func (g *Game) LastMove() (from, to Position) {
	return g.lastFrom, g.lastTo
}

// FindKing locates the king of color c
func (g *Game) FindKing(c Color) (Position, bool) {
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			if g.board[r][col].Is(King, c) {
				return Position{r, col}, true
			}
		}
	}
	return Position{}, false
}

func (g *Game) report(format string, args ...any) {
	g.reporter.Report(fmt.Sprintf(format, args...))
}
