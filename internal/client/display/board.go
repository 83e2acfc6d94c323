// FILE: internal/client/display/board.go
package display

import (
	"fmt"
	"strings"
)

// FormatBoard draws board rows (rank 1 first, '.' for empty) with rank 8 on
// top, white pieces in blue and black pieces in red
func FormatBoard(rows []string) string {
	var sb strings.Builder
	files := Cyan + "  a b c d e f g h" + Reset + "\n"
	sb.WriteString(files)
	for r := len(rows) - 1; r >= 0; r-- {
		rank := fmt.Sprintf("%s%d%s", Cyan, r+1, Reset)
		sb.WriteString(rank + " ")
		for _, ch := range rows[r] {
			switch {
			case ch >= 'A' && ch <= 'Z':
				sb.WriteString(Blue + string(ch) + Reset)
			case ch >= 'a' && ch <= 'z':
				sb.WriteString(Red + string(ch) + Reset)
			default:
				sb.WriteRune(ch)
			}
			sb.WriteByte(' ')
		}
		sb.WriteString(rank + "\n")
	}
	sb.WriteString(files)
	return sb.String()
}

// RenderBoard prints FormatBoard's diagram
func RenderBoard(rows []string) {
	fmt.Print(FormatBoard(rows))
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
