package rules_test

import (
	"testing"

	"chessrules/internal/rules"
	"chessrules/internal/testutil"
)

func TestPathFree(t *testing.T) {
	g := gameFromFEN(t, "4k3/8/8/8/1p6/8/8/R3K2R w KQ - 0 1", nil)

	tests := []struct {
		name     string
		from, to string
		dir      rules.Direction
		want     bool
	}{
		{"rank between king and rook", "e1", "h1", rules.Horizontal, true},
		{"rank endpoints ignored", "a1", "e1", rules.Horizontal, true},
		{"file clear", "a1", "a8", rules.Vertical, true},
		{"diagonal clear", "c1", "h6", rules.Diagonal, true},
		{"diagonal through b4", "a5", "d2", rules.Diagonal, false},
		{"adjacent squares", "e1", "f1", rules.Horizontal, true},
		{"knight jump", "b1", "c3", rules.LShape, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.Equal(t, g.PathFree(sq(t, tt.from), sq(t, tt.to), tt.dir), tt.want)
		})
	}
}

func TestPathFreeReportsBadDirection(t *testing.T) {
	rec := &recorder{}
	g := rules.New(rules.StandardSnapshot(), rec)

	testutil.False(t, g.PathFree(sq(t, "e3"), sq(t, "e6"), rules.Horizontal))
	testutil.False(t, g.PathFree(sq(t, "a3"), sq(t, "h3"), rules.Vertical))
	testutil.False(t, g.PathFree(sq(t, "a3"), sq(t, "b5"), rules.Diagonal))
	testutil.False(t, g.PathFree(sq(t, "a3"), sq(t, "b5"), rules.Direction(9)))
	testutil.Equal(t, len(rec.msgs), 4)
}

func TestUnderAttack(t *testing.T) {
	// black king e8 checked by the rook on e1 and the knight on d6
	g := gameFromFEN(t, "4k3/8/3N4/8/8/8/8/4R1K1 b - - 0 1", nil)

	report := g.UnderAttack(sq(t, "e8"), rules.Black, nil)
	testutil.True(t, report.Attacked)
	testutil.Equal(t, report.Attackers, []rules.Attacker{
		{Square: sq(t, "e1"), Direction: rules.Vertical},
		{Square: sq(t, "d6"), Direction: rules.LShape},
	})
}

func TestUnderAttackPieceRules(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		square   string
		defender rules.Color
		want     bool
	}{
		{"white pawn attacks up", "4k3/8/8/8/8/3P4/8/4K3 w - - 0 1", "e4", rules.Black, true},
		{"white pawn does not attack down", "4k3/8/8/8/8/3P4/8/4K3 w - - 0 1", "c2", rules.Black, false},
		{"white pawn does not attack ahead", "4k3/8/8/8/8/3P4/8/4K3 w - - 0 1", "d4", rules.Black, false},
		{"black pawn attacks down", "4k3/8/3p4/8/8/8/8/4K3 w - - 0 1", "c5", rules.White, true},
		{"black pawn does not attack up", "4k3/8/3p4/8/8/8/8/4K3 w - - 0 1", "c7", rules.White, false},
		{"king adjacent", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "d7", rules.White, true},
		{"king two away", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "e6", rules.White, false},
		{"rook blocked", "4k3/8/8/8/4p3/8/8/4R1K1 w - - 0 1", "e6", rules.Black, false},
		{"bishop on diagonal", "4k3/8/8/8/8/8/8/B3K3 w - - 0 1", "h8", rules.Black, true},
		{"bishop not on file", "4k3/8/8/8/8/8/8/B3K3 w - - 0 1", "a8", rules.Black, false},
		{"own pawn blocks bishop", "4k3/8/8/8/8/8/1P6/B3K3 w - - 0 1", "h8", rules.Black, false},
		{"knight jumps", "4k3/8/8/8/8/8/PPP5/1N5K w - - 0 1", "d2", rules.Black, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gameFromFEN(t, tt.fen, nil)
			testutil.Equal(t, g.UnderAttack(sq(t, tt.square), tt.defender, nil).Attacked, tt.want)
		})
	}
}

func TestUnderAttackOverlay(t *testing.T) {
	// bishop on e2 shields the king from the rook on e8
	g := gameFromFEN(t, "4r1k1/8/8/8/8/8/4B3/4K3 w - - 0 1", nil)
	e1 := sq(t, "e1")
	testutil.False(t, g.UnderAttack(e1, rules.White, nil).Attacked)

	away := &rules.Overlay{Piece: rules.WhiteBishop, From: sq(t, "e2"), To: sq(t, "d3")}
	testutil.True(t, g.UnderAttack(e1, rules.White, away).Attacked)

	// the bishop stays put on the board itself
	testutil.Equal(t, g.PieceAt(sq(t, "e2")), rules.WhiteBishop)

	// a piece dropped into the line blocks it
	block := &rules.Overlay{Piece: rules.WhiteBishop, From: sq(t, "e2"), To: sq(t, "e4")}
	testutil.False(t, g.UnderAttack(e1, rules.White, block).Attacked)

	// an en passant victim reads as empty
	ep := fromFEN(t, "8/8/8/KPp4r/8/8/8/4k3 w - c6 0 1")
	eg := rules.New(ep, nil)
	victim := sq(t, "c5")
	capture := &rules.Overlay{Piece: rules.WhitePawn, From: sq(t, "b5"), To: sq(t, "c6"), Captured: &victim}
	testutil.True(t, eg.UnderAttack(sq(t, "a5"), rules.White, capture).Attacked)
}

func TestIsReachable(t *testing.T) {
	g := gameFromFEN(t, "4k3/8/8/8/8/8/4P3/R3K1N1 w - - 0 1", nil)

	tests := []struct {
		square string
		want   bool
	}{
		{"e3", true},  // pawn single step
		{"e4", true},  // pawn double step
		{"d3", false}, // pawns do not slide sideways onto empty squares
		{"a7", true},  // rook along the file
		{"f3", true},  // knight
		{"h3", true},  // knight
		{"f2", false}, // only the king reaches it
		{"c1", true},  // rook along the rank
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			testutil.Equal(t, g.IsReachable(sq(t, tt.square), rules.White), tt.want)
		})
	}
}

func TestInCheckOverlayMovesKing(t *testing.T) {
	g := gameFromFEN(t, "4k3/8/8/8/8/8/8/r3K3 w - - 0 1", nil)
	e1 := sq(t, "e1")
	testutil.True(t, g.InCheck(rules.White, nil))

	// stepping along the rank stays in the line once e1 reads as empty
	testutil.True(t, g.InCheck(rules.White, &rules.Overlay{Piece: rules.WhiteKing, From: e1, To: sq(t, "f1")}))
	testutil.False(t, g.InCheck(rules.White, &rules.Overlay{Piece: rules.WhiteKing, From: e1, To: sq(t, "e2")}))
}
