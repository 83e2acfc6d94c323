// FILE: internal/rules/piece.go
package rules

import "fmt"

// Color of a piece or of the side to move
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Opponent returns the other color
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the row delta of a pawn advance for this color
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// homeRow is the back rank where the king and rooks start
func (c Color) homeRow() int {
	if c == White {
		return 0
	}
	return 7
}

// pawnRow is the row pawns start on and may double step from
func (c Color) pawnRow() int {
	if c == White {
		return 1
	}
	return 6
}

// Kind is the closed set of piece types
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{
	NoKind: "unknown piece",
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[NoKind]
}

// letter is the white (upper case) code for the kind
func (k Kind) letter() byte {
	switch k {
	case Pawn:
		return 'P'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	default:
		return 0
	}
}

// IsPromotion reports whether a pawn may be promoted to this kind
func (k Kind) IsPromotion() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

// KindFromLetter maps a piece letter of either case to its kind
func KindFromLetter(ch byte) Kind {
	switch ch {
	case 'P', 'p':
		return Pawn
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'R', 'r':
		return Rook
	case 'Q', 'q':
		return Queen
	case 'K', 'k':
		return King
	default:
		return NoKind
	}
}

// Piece is a square code: upper case letters are white, lower case black,
// Empty marks a vacant square.
type Piece byte

const Empty Piece = ' '

const (
	WhitePawn   Piece = 'P'
	WhiteKnight Piece = 'N'
	WhiteBishop Piece = 'B'
	WhiteRook   Piece = 'R'
	WhiteQueen  Piece = 'Q'
	WhiteKing   Piece = 'K'
	BlackPawn   Piece = 'p'
	BlackKnight Piece = 'n'
	BlackBishop Piece = 'b'
	BlackRook   Piece = 'r'
	BlackQueen  Piece = 'q'
	BlackKing   Piece = 'k'
)

// NewPiece builds the code for a kind and color. NoKind yields Empty.
func NewPiece(k Kind, c Color) Piece {
	l := k.letter()
	if l == 0 {
		return Empty
	}
	if c == Black {
		l += 'a' - 'A'
	}
	return Piece(l)
}

func (p Piece) IsEmpty() bool {
	return p == Empty
}

// Kind returns NoKind for Empty and for any unrecognized code
func (p Piece) Kind() Kind {
	return KindFromLetter(byte(p))
}

// Valid reports whether p is Empty or a recognized piece code
func (p Piece) Valid() bool {
	return p == Empty || p.Kind() != NoKind
}

// Color is only meaningful for non-empty pieces
func (p Piece) Color() Color {
	if p >= 'a' && p <= 'z' {
		return Black
	}
	return White
}

func (p Piece) Is(k Kind, c Color) bool {
	return !p.IsEmpty() && p.Kind() == k && p.Color() == c
}

func (p Piece) String() string {
	return string(rune(p))
}

// MarshalText encodes Empty as an empty string
func (p Piece) MarshalText() ([]byte, error) {
	if p.IsEmpty() || p == 0 {
		return []byte{}, nil
	}
	return []byte{byte(p)}, nil
}

func (p *Piece) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = Empty
		return nil
	}
	if len(text) != 1 || KindFromLetter(text[0]) == NoKind {
		return fmt.Errorf("%w: piece %q", ErrInvalidBoard, text)
	}
	*p = Piece(text[0])
	return nil
}
