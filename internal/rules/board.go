// FILE: internal/rules/board.go
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidBoard = errors.New("invalid board")

// Board is the 8x8 grid indexed [row][col]
type Board [8][8]Piece

var standardRows = []string{
	"RNBQKBNR",
	"PPPPPPPP",
	"........",
	"........",
	"........",
	"........",
	"pppppppp",
	"rnbqkbnr",
}

// StandardBoard returns the initial array
func StandardBoard() Board {
	b, _ := ParseBoard(standardRows)
	return b
}

// EmptyBoard returns a board with every square vacant
func EmptyBoard() Board {
	var b Board
	for r := range b {
		for c := range b[r] {
			b[r][c] = Empty
		}
	}
	return b
}

func (b *Board) At(p Position) Piece {
	return b[p.Row][p.Col]
}

func (b *Board) IsOccupied(p Position) bool {
	return !b[p.Row][p.Col].IsEmpty()
}

func (b *Board) Set(p Position, pc Piece) {
	b[p.Row][p.Col] = pc
}

// Rows renders the board row 0 first, '.' for empty squares
func (b Board) Rows() []string {
	rows := make([]string, 8)
	for r := 0; r < 8; r++ {
		var sb strings.Builder
		for c := 0; c < 8; c++ {
			pc := b[r][c]
			if pc.IsEmpty() {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte(pc))
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

// ParseBoard reads rows in the Rows layout. Both '.' and ' ' mean empty.
func ParseBoard(rows []string) (Board, error) {
	var b Board
	if len(rows) != 8 {
		return b, fmt.Errorf("%w: expected 8 rows, got %d", ErrInvalidBoard, len(rows))
	}
	for r, row := range rows {
		if len(row) != 8 {
			return b, fmt.Errorf("%w: row %d has %d squares", ErrInvalidBoard, r+1, len(row))
		}
		for c := 0; c < 8; c++ {
			ch := row[c]
			if ch == '.' || ch == ' ' {
				b[r][c] = Empty
				continue
			}
			if KindFromLetter(ch) == NoKind {
				return b, fmt.Errorf("%w: unknown piece %q at %s", ErrInvalidBoard, ch, Position{r, c})
			}
			b[r][c] = Piece(ch)
		}
	}
	return b, nil
}

// String draws the board from black's back rank down, as a player sees it
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for r := 7; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for c := 0; c < 8; c++ {
			pc := b[r][c]
			if pc.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", pc))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Rows())
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := ParseBoard(rows)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
