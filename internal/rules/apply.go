// FILE: internal/rules/apply.go
package rules

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrGameFinished = errors.New("game is finished")
)

// Move records a committed move
type Move struct {
	From      Position `json:"from"`
	To        Position `json:"to"`
	Piece     Piece    `json:"piece"`
	Captured  Piece    `json:"captured"`  // Empty when nothing was taken
	Promotion Piece    `json:"promotion"` // Empty unless the pawn was promoted
	Outcome   Outcome  `json:"outcome"`
}

func (m Move) IsCapture() bool {
	return !m.Captured.IsEmpty()
}

// MovePiece commits a move that IsMoveValid accepted with out. It does not
// re-check legality. promote picks the replacement piece when out flags a
// promotion; anything other than a knight, bishop, rook or queen means queen.
func (g *Game) MovePiece(from, to Position, out Outcome, promote Kind) Move {
	pc := g.board.At(from)
	c := pc.Color()
	m := Move{From: from, To: to, Piece: pc, Captured: g.board.At(to), Promotion: Empty, Outcome: out}

	if victim, ok := out.EnPassant(); ok && m.Captured.IsEmpty() {
		m.Captured = g.board.At(victim)
		g.board.Set(victim, Empty)
	}

	g.board.Set(from, Empty)
	if out.IsPromotion() {
		if !promote.IsPromotion() {
			promote = Queen
		}
		m.Promotion = NewPiece(promote, c)
		g.board.Set(to, m.Promotion)
	} else {
		g.board.Set(to, pc)
	}

	if rookFrom, rookTo, ok := out.Castling(); ok {
		rook := g.board.At(rookFrom)
		g.board.Set(rookFrom, Empty)
		g.board.Set(rookTo, rook)
	}

	g.updateCastlingRights(m)

	g.lastFrom, g.lastTo = from, to
	g.round++
	return m
}

func (g *Game) updateCastlingRights(m Move) {
	c := m.Piece.Color()
	switch m.Piece.Kind() {
	case King:
		g.castling.revoke(c, KingSide)
		g.castling.revoke(c, QueenSide)
	case Rook:
		g.revokeRookHome(c, m.From)
	}
	// a rook taken on its home square takes the right with it
	if m.Captured.Is(Rook, c.Opponent()) {
		g.revokeRookHome(c.Opponent(), m.To)
	}
}

func (g *Game) revokeRookHome(c Color, sq Position) {
	if sq.Row != c.homeRow() {
		return
	}
	switch sq.Col {
	case 0:
		g.castling.revoke(c, QueenSide)
	case 7:
		g.castling.revoke(c, KingSide)
	}
}

// Play validates and commits a move for the side to move
func (g *Game) Play(from, to Position, promote Kind) (Move, error) {
	if g.finished {
		return Move{}, ErrGameFinished
	}
	out, ok := g.IsMoveValid(from, to)
	if !ok {
		return Move{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, from, to)
	}
	return g.MovePiece(from, to, out, promote), nil
}
