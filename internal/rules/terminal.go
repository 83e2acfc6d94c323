// FILE: internal/rules/terminal.go
package rules

// Status summarizes the position for the side to move
type Status uint8

const (
	StatusOngoing Status = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
)

func (s Status) String() string {
	switch s {
	case StatusCheck:
		return "check"
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// IsCheckMate reports whether the side to move is in check with no way out.
// A positive answer finishes the game.
func (g *Game) IsCheckMate() bool {
	c := g.CurrentTurn()
	king, ok := g.FindKing(c)
	if !ok {
		g.report("no %s king on the board", c)
		return false
	}
	attack := g.UnderAttack(king, c, nil)
	if !attack.Attacked {
		return false
	}
	if g.canEscapeCheck(king, attack) {
		return false
	}
	g.finished = true
	return true
}

func (g *Game) canEscapeCheck(king Position, attack AttackReport) bool {
	g.enumerating = true
	defer func() { g.enumerating = false }()

	c := g.CurrentTurn()

	// step the king away, or take with it
	for _, s := range allSteps {
		to := king.offset(s.dr, s.dc)
		if !to.Valid() {
			continue
		}
		if _, ok := g.IsMoveValid(king, to); ok {
			return true
		}
	}

	// an en passant capture either removes the checker or lands in the line
	if g.canTakeEnPassant(c, g.lastTo) {
		return true
	}

	// double check leaves only king moves
	if len(attack.Attackers) > 1 {
		return false
	}
	a := attack.Attackers[0]
	attacker := g.board.At(a.Square)

	// capture the checking piece
	for _, by := range g.UnderAttack(a.Square, c.Opponent(), nil).Attackers {
		if by.Square == king {
			continue
		}
		if _, ok := g.IsMoveValid(by.Square, a.Square); ok {
			return true
		}
	}

	// block the line
	switch attacker.Kind() {
	case Bishop, Rook, Queen:
		blocked := false
		g.walkBetween(a.Square, king, a.Direction, func(p Position) bool {
			for _, from := range g.reachers(p, c) {
				if _, ok := g.IsMoveValid(from, p); ok {
					blocked = true
					return false
				}
			}
			return true
		})
		return blocked
	case Pawn, Knight:
		return false
	default:
		g.report("malformed checking piece %q at %s", byte(attacker), a.Square)
		return false
	}
}

// canTakeEnPassant reports whether one of c's pawns may capture the pawn on
// victim en passant
func (g *Game) canTakeEnPassant(c Color, victim Position) bool {
	if !victim.Valid() || g.lastTo != victim || g.lastFrom == g.lastTo {
		return false
	}
	to := victim.offset(c.forward(), 0)
	for _, dc := range [2]int{-1, 1} {
		from := victim.offset(0, dc)
		if !from.Valid() || !to.Valid() || !g.board.At(from).Is(Pawn, c) {
			continue
		}
		if out, ok := g.IsMoveValid(from, to); ok && out.Kind == MoveEnPassant {
			return true
		}
	}
	return false
}

// IsStaleMate reports whether the side to move is not in check yet has no
// legal move. A positive answer finishes the game.
func (g *Game) IsStaleMate() bool {
	if g.InCheck(g.CurrentTurn(), nil) {
		return false
	}
	if g.hasLegalMove() {
		return false
	}
	g.finished = true
	return true
}

func (g *Game) hasLegalMove() bool {
	g.enumerating = true
	defer func() { g.enumerating = false }()

	found := false
	g.eachOwnPiece(func(from Position, pc Piece) bool {
		for _, to := range g.pseudoTargets(from, pc, false) {
			if _, ok := g.IsMoveValid(from, to); ok {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// Status runs both terminal evaluators, then the plain check test
func (g *Game) Status() Status {
	switch {
	case g.IsCheckMate():
		return StatusCheckmate
	case g.IsStaleMate():
		return StatusStalemate
	case g.InCheck(g.CurrentTurn(), nil):
		return StatusCheck
	default:
		return StatusOngoing
	}
}

var promotionKinds = [4]Kind{Queen, Rook, Bishop, Knight}

// LegalMoves lists every move the side to move may play, in board order,
// with one entry per promotion piece. Nothing is committed.
func (g *Game) LegalMoves() []Move {
	g.enumerating = true
	defer func() { g.enumerating = false }()

	var moves []Move
	g.eachOwnPiece(func(from Position, pc Piece) bool {
		for _, to := range g.pseudoTargets(from, pc, true) {
			out, ok := g.IsMoveValid(from, to)
			if !ok {
				continue
			}
			m := Move{From: from, To: to, Piece: pc, Captured: g.board.At(to), Promotion: Empty, Outcome: out}
			if victim, ep := out.EnPassant(); ep {
				m.Captured = g.board.At(victim)
			}
			if !out.IsPromotion() {
				moves = append(moves, m)
				continue
			}
			for _, k := range promotionKinds {
				m.Promotion = NewPiece(k, pc.Color())
				moves = append(moves, m)
			}
		}
		return true
	})
	return moves
}

func (g *Game) eachOwnPiece(fn func(Position, Piece) bool) {
	c := g.CurrentTurn()
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			pc := g.board[r][col]
			if pc.IsEmpty() || pc.Color() != c {
				continue
			}
			if !fn(Position{r, col}, pc) {
				return
			}
		}
	}
}

// pseudoTargets lists the on-board squares the movement pattern of pc could
// reach from from. Rays end at the first occupied square.
func (g *Game) pseudoTargets(from Position, pc Piece, castling bool) []Position {
	var targets []Position
	add := func(p Position) {
		if p.Valid() {
			targets = append(targets, p)
		}
	}
	ray := func(steps []step) {
		for _, s := range steps {
			for p := from.offset(s.dr, s.dc); p.Valid(); p = p.offset(s.dr, s.dc) {
				targets = append(targets, p)
				if g.board.IsOccupied(p) {
					break
				}
			}
		}
	}

	switch pc.Kind() {
	case Pawn:
		f := pc.Color().forward()
		add(from.offset(f, 0))
		add(from.offset(2*f, 0))
		add(from.offset(f, -1))
		add(from.offset(f, 1))
	case Knight:
		for _, o := range knightOffsets {
			add(from.offset(o[0], o[1]))
		}
	case Bishop:
		ray(diagonalSteps)
	case Rook:
		ray(straightSteps)
	case Queen:
		ray(allSteps)
	case King:
		for _, s := range allSteps {
			add(from.offset(s.dr, s.dc))
		}
		if castling {
			add(from.offset(0, 2))
			add(from.offset(0, -2))
		}
	default:
		g.report("malformed piece %q at %s", byte(pc), from)
	}
	return targets
}
