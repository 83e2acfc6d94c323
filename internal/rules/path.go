// FILE: internal/rules/path.go
package rules

// Direction of a line between two squares
type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
	Diagonal
	LShape
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Diagonal:
		return "diagonal"
	case LShape:
		return "L-shape"
	default:
		return "unknown"
	}
}

// PathFree reports whether every square strictly between from and to along
// dir is empty. The endpoints are not inspected.
func (g *Game) PathFree(from, to Position, dir Direction) bool {
	free := true
	ok := g.walkBetween(from, to, dir, func(p Position) bool {
		if g.board.IsOccupied(p) {
			free = false
			return false
		}
		return true
	})
	return ok && free
}

// walkBetween calls visit for each square strictly between from and to,
// stopping early when visit returns false. It reports a direction that does
// not fit the two squares and returns false in that case.
func (g *Game) walkBetween(from, to Position, dir Direction, visit func(Position) bool) bool {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	switch dir {
	case Horizontal:
		if dr != 0 || dc == 0 {
			g.report("movement is horizontal but %s and %s are not on one row", from, to)
			return false
		}
	case Vertical:
		if dc != 0 || dr == 0 {
			g.report("movement is vertical but %s and %s are not on one column", from, to)
			return false
		}
	case Diagonal:
		if dr == 0 || abs(dr) != abs(dc) {
			g.report("diagonal movement not possible between %s and %s", from, to)
			return false
		}
	case LShape:
		// knights jump; nothing lies between
		return true
	default:
		g.report("invalid direction %d between %s and %s", dir, from, to)
		return false
	}

	sr, sc := sign(dr), sign(dc)
	for p := from.offset(sr, sc); p != to; p = p.offset(sr, sc) {
		if !visit(p) {
			break
		}
	}
	return true
}

// lineBetween classifies the geometry from one square to another
func lineBetween(from, to Position) (Direction, bool) {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	switch {
	case dr == 0 && dc == 0:
		return 0, false
	case dr == 0:
		return Horizontal, true
	case dc == 0:
		return Vertical, true
	case abs(dr) == abs(dc):
		return Diagonal, true
	case (abs(dr) == 1 && abs(dc) == 2) || (abs(dr) == 2 && abs(dc) == 1):
		return LShape, true
	default:
		return 0, false
	}
}
