// FILE: internal/rules/position.go
package rules

import "fmt"

// Position is a zero-based square: row 0 is rank 1, column 0 is file a
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return string([]byte{byte('a' + p.Col), byte('1' + p.Row)})
}

func (p Position) offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// step is one unit move along a ray
type step struct {
	dr, dc int
	dir    Direction
}

var (
	straightSteps = []step{
		{0, 1, Horizontal}, {0, -1, Horizontal},
		{1, 0, Vertical}, {-1, 0, Vertical},
	}
	diagonalSteps = []step{
		{1, 1, Diagonal}, {1, -1, Diagonal},
		{-1, 1, Diagonal}, {-1, -1, Diagonal},
	}
	allSteps = append(append([]step{}, straightSteps...), diagonalSteps...)

	knightOffsets = [8][2]int{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
