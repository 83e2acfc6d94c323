// FILE: internal/notation/notation.go
package notation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"chessrules/internal/rules"
)

// ErrSyntax is wrapped by every parse failure
var ErrSyntax = errors.New("invalid move syntax")

// ParseSquare reads "e4" (either case) into a board position
func ParseSquare(s string) (rules.Position, error) {
	if len(s) != 2 {
		return rules.Position{}, fmt.Errorf("%w: square %q", ErrSyntax, s)
	}
	col := int(unicode.ToLower(rune(s[0])) - 'a')
	row := int(s[1] - '1')
	p := rules.Position{Row: row, Col: col}
	if !p.Valid() {
		return rules.Position{}, fmt.Errorf("%w: square %q", ErrSyntax, s)
	}
	return p, nil
}

// ParseMove accepts coordinate text: "e2e4", "e7e8q" and the dashed
// "E2-E4=Q" form. promote is NoKind when no piece letter is given.
func ParseMove(s string) (from, to rules.Position, promote rules.Kind, err error) {
	text := strings.TrimSpace(s)
	for _, r := range text {
		if unicode.IsControl(r) {
			return from, to, rules.NoKind, fmt.Errorf("%w: control character in %q", ErrSyntax, s)
		}
	}

	text = strings.ReplaceAll(text, "-", "")
	text = strings.ReplaceAll(text, "=", "")
	if len(text) < 4 || len(text) > 5 {
		return from, to, rules.NoKind, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	if from, err = ParseSquare(text[0:2]); err != nil {
		return from, to, rules.NoKind, err
	}
	if to, err = ParseSquare(text[2:4]); err != nil {
		return from, to, rules.NoKind, err
	}

	if len(text) == 5 {
		promote = rules.KindFromLetter(text[4])
		if !promote.IsPromotion() {
			return from, to, rules.NoKind, fmt.Errorf("%w: promotion piece %q", ErrSyntax, text[4])
		}
	}
	return from, to, promote, nil
}

// FormatMove renders a played move as "e2e4", or "e7e8q" for promotions
func FormatMove(m rules.Move) string {
	s := m.From.String() + m.To.String()
	if !m.Promotion.IsEmpty() {
		s += strings.ToLower(m.Promotion.String())
	}
	return s
}
