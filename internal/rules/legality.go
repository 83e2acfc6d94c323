// FILE: internal/rules/legality.go
package rules

// MoveKind separates ordinary moves from those with side effects
type MoveKind uint8

const (
	MoveNormal MoveKind = iota
	MoveDoublePush
	MoveEnPassant
	MoveCastling
)

func (k MoveKind) String() string {
	switch k {
	case MoveDoublePush:
		return "double push"
	case MoveEnPassant:
		return "en passant"
	case MoveCastling:
		return "castling"
	default:
		return "normal"
	}
}

// Outcome is what a legality check learned about a move and what
// MovePiece needs to commit it. Promotion combines with Normal captures
// and pushes only.
type Outcome struct {
	Kind      MoveKind `json:"kind"`
	Promotion bool     `json:"promotion,omitempty"`
	Captured  Position `json:"captured"` // en passant victim
	RookFrom  Position `json:"rookFrom"` // castling only
	RookTo    Position `json:"rookTo"`
}

func (o Outcome) EnPassant() (Position, bool) {
	return o.Captured, o.Kind == MoveEnPassant
}

func (o Outcome) Castling() (rookFrom, rookTo Position, ok bool) {
	return o.RookFrom, o.RookTo, o.Kind == MoveCastling
}

func (o Outcome) IsPromotion() bool {
	return o.Promotion
}

func (o Outcome) IsDoublePush() bool {
	return o.Kind == MoveDoublePush
}

// IsMoveValid decides whether the side to move may play from -> to. The
// board is never modified.
func (g *Game) IsMoveValid(from, to Position) (Outcome, bool) {
	if g.finished || !from.Valid() || !to.Valid() || from == to {
		return Outcome{}, false
	}
	pc := g.board.At(from)
	if pc.IsEmpty() {
		return Outcome{}, false
	}
	if pc.Kind() == NoKind {
		g.report("malformed piece %q at %s", byte(pc), from)
		return Outcome{}, false
	}
	if pc.Color() != g.CurrentTurn() {
		return Outcome{}, false
	}

	var (
		out Outcome
		ok  bool
	)
	dir, aligned := lineBetween(from, to)

	switch pc.Kind() {
	case Pawn:
		out, ok = g.pawnMove(pc.Color(), from, to)
	case Knight:
		ok = aligned && dir == LShape
	case Bishop:
		ok = aligned && dir == Diagonal && g.PathFree(from, to, dir)
	case Rook:
		ok = aligned && (dir == Horizontal || dir == Vertical) && g.PathFree(from, to, dir)
	case Queen:
		ok = aligned && dir != LShape && g.PathFree(from, to, dir)
	case King:
		out, ok = g.kingMove(pc.Color(), from, to)
	}
	if !ok {
		return Outcome{}, false
	}

	// destination may not hold one of our own pieces
	if dst := g.board.At(to); !dst.IsEmpty() && dst.Color() == pc.Color() {
		return Outcome{}, false
	}

	// our king may not be left attacked
	ov := &Overlay{Piece: pc, From: from, To: to}
	if victim, ep := out.EnPassant(); ep {
		ov.Captured = &victim
	}
	if g.InCheck(pc.Color(), ov) {
		return Outcome{}, false
	}
	return out, true
}

func (g *Game) pawnMove(c Color, from, to Position) (Outcome, bool) {
	var out Outcome
	f := c.forward()
	dr, dc := to.Row-from.Row, to.Col-from.Col

	switch {
	case dc == 0 && dr == f:
		if g.board.IsOccupied(to) {
			return out, false
		}
	case dc == 0 && dr == 2*f:
		if from.Row != c.pawnRow() || g.board.IsOccupied(from.offset(f, 0)) || g.board.IsOccupied(to) {
			return out, false
		}
		out.Kind = MoveDoublePush
	case abs(dc) == 1 && dr == f:
		if !g.board.IsOccupied(to) {
			victim, ok := g.enPassantVictim(c, from, to)
			if !ok {
				return out, false
			}
			out.Kind = MoveEnPassant
			out.Captured = victim
		}
	default:
		return out, false
	}

	if to.Row == c.Opponent().homeRow() {
		out.Promotion = true
	}
	return out, true
}

// enPassantVictim finds the enemy pawn that just double stepped past to
func (g *Game) enPassantVictim(c Color, from, to Position) (Position, bool) {
	victim := Position{Row: from.Row, Col: to.Col}
	enemy := c.Opponent()
	switch {
	case g.lastTo != victim:
		return victim, false
	case g.lastFrom.Col != victim.Col || g.lastFrom.Row != enemy.pawnRow():
		return victim, false
	case abs(g.lastTo.Row-g.lastFrom.Row) != 2:
		return victim, false
	case !g.board.At(victim).Is(Pawn, enemy):
		return victim, false
	}
	return victim, true
}

func (g *Game) kingMove(c Color, from, to Position) (Outcome, bool) {
	var out Outcome
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if abs(dr) <= 1 && abs(dc) <= 1 {
		return out, true
	}
	if dr != 0 || abs(dc) != 2 || from != (Position{Row: c.homeRow(), Col: 4}) {
		return out, false
	}

	side := KingSide
	rookFrom, rookTo := Position{from.Row, 7}, Position{from.Row, 5}
	if dc < 0 {
		side = QueenSide
		rookFrom, rookTo = Position{from.Row, 0}, Position{from.Row, 3}
	}

	if g.InCheck(c, nil) {
		g.castlingFailed("Cannot castle to the %s while in check.", side)
		return out, false
	}
	if !g.castling.Allowed(c, side) {
		g.castlingFailed("Castling to the %s is not allowed.", side)
		return out, false
	}
	if !g.board.At(rookFrom).Is(Rook, c) {
		g.castlingFailed("Cannot castle to the %s: no rook on %s.", side, rookFrom)
		return out, false
	}
	if !g.PathFree(from, rookFrom, Horizontal) {
		g.castlingFailed("Cannot castle to the %s: squares between king and rook are occupied.", side)
		return out, false
	}
	transit := Position{Row: from.Row, Col: from.Col + sign(dc)}
	if g.UnderAttack(transit, c, nil).Attacked {
		g.castlingFailed("Cannot castle to the %s: %s is attacked.", side, transit)
		return out, false
	}

	out.Kind = MoveCastling
	out.RookFrom, out.RookTo = rookFrom, rookTo
	return out, true
}

func (g *Game) castlingFailed(format string, args ...any) {
	if g.enumerating {
		return
	}
	g.report(format, args...)
}
