// FILE: internal/rules/attack.go
package rules

// Overlay is a move treated as already played while the board stays
// untouched: From reads as empty, To reads as Piece, and Captured (the en
// passant victim, when set) reads as empty.
type Overlay struct {
	Piece    Piece
	From     Position
	To       Position
	Captured *Position
}

// Attacker is a piece that could capture on the queried square
type Attacker struct {
	Square    Position  `json:"square"`
	Direction Direction `json:"direction"`
}

type AttackReport struct {
	Attacked  bool
	Attackers []Attacker
}

func (r *AttackReport) add(p Position, d Direction) {
	r.Attacked = true
	r.Attackers = append(r.Attackers, Attacker{Square: p, Direction: d})
}

func (g *Game) pieceAt(p Position, ov *Overlay) Piece {
	if ov != nil {
		switch {
		case p == ov.To:
			return ov.Piece
		case p == ov.From:
			return Empty
		case ov.Captured != nil && p == *ov.Captured:
			return Empty
		}
	}
	return g.board.At(p)
}

// UnderAttack lists the pieces of defender's opponent that attack square,
// as the board would look after ov (nil for the real board).
func (g *Game) UnderAttack(square Position, defender Color, ov *Overlay) AttackReport {
	var report AttackReport
	enemy := defender.Opponent()

	for _, s := range allSteps {
		for dist := 1; ; dist++ {
			p := square.offset(s.dr*dist, s.dc*dist)
			if !p.Valid() {
				break
			}
			pc := g.pieceAt(p, ov)
			if pc.IsEmpty() {
				continue
			}
			if pc.Color() != defender && g.attacksAlong(pc, enemy, s, dist) {
				report.add(p, s.dir)
			}
			break
		}
	}

	for _, o := range knightOffsets {
		p := square.offset(o[0], o[1])
		if p.Valid() && g.pieceAt(p, ov).Is(Knight, enemy) {
			report.add(p, LShape)
		}
	}
	return report
}

// attacksAlong reports whether pc, found dist squares away along s, attacks
// the origin of the ray.
func (g *Game) attacksAlong(pc Piece, c Color, s step, dist int) bool {
	switch pc.Kind() {
	case Queen:
		return true
	case Rook:
		return s.dir != Diagonal
	case Bishop:
		return s.dir == Diagonal
	case King:
		return dist == 1
	case Pawn:
		// the pawn sits one row behind the square in its own direction of travel
		return dist == 1 && s.dir == Diagonal && s.dr == -c.forward()
	case Knight:
		return false
	default:
		g.report("malformed piece %q found during attack analysis", byte(pc))
		return false
	}
}

// IsReachable reports whether a piece of color c other than the king could
// move onto the empty square.
func (g *Game) IsReachable(square Position, c Color) bool {
	return len(g.reachers(square, c)) > 0
}

// reachers returns the origins of c's non-king pieces whose movement pattern
// ends on the empty square. King safety is not considered.
func (g *Game) reachers(square Position, c Color) []Position {
	var found []Position

	for _, s := range allSteps {
		for dist := 1; ; dist++ {
			p := square.offset(s.dr*dist, s.dc*dist)
			if !p.Valid() {
				break
			}
			pc := g.board.At(p)
			if pc.IsEmpty() {
				continue
			}
			if pc.Color() == c {
				switch pc.Kind() {
				case Queen:
					found = append(found, p)
				case Rook:
					if s.dir != Diagonal {
						found = append(found, p)
					}
				case Bishop:
					if s.dir == Diagonal {
						found = append(found, p)
					}
				case Pawn, Knight, King:
				default:
					g.report("malformed piece %q found during reachability analysis", byte(pc))
				}
			}
			break
		}
	}

	// pawns advance straight onto an empty square
	one := square.offset(-c.forward(), 0)
	if one.Valid() {
		switch pc := g.board.At(one); {
		case pc.Is(Pawn, c):
			found = append(found, one)
		case pc.IsEmpty():
			two := one.offset(-c.forward(), 0)
			if two.Valid() && two.Row == c.pawnRow() && g.board.At(two).Is(Pawn, c) {
				found = append(found, two)
			}
		}
	}

	for _, o := range knightOffsets {
		p := square.offset(o[0], o[1])
		if p.Valid() && g.board.At(p).Is(Knight, c) {
			found = append(found, p)
		}
	}
	return found
}

// InCheck reports whether c's king is attacked, as the board would look
// after ov (nil for the real board).
func (g *Game) InCheck(c Color, ov *Overlay) bool {
	var king Position
	if ov != nil && ov.Piece.Is(King, c) {
		king = ov.To
	} else {
		var ok bool
		if king, ok = g.FindKing(c); !ok {
			g.report("no %s king on the board", c)
			return false
		}
	}
	return g.UnderAttack(king, c, ov).Attacked
}
