package rules_test

import (
	"strings"
	"testing"

	"github.com/Oliverans/GooseEngineMG/goosemg"
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"

	"chessrules/internal/rules"
	"chessrules/internal/testutil"
)

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

// corpus of positions covering castling, en passant, promotion and pins
var corpus = []string{
	startFEN,
	kiwipeteFEN,
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	"8/8/8/KPp4r/8/8/8/4k3 w - c6 0 1",
	"r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1",
	"4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1",
	"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
	"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
}

func legalUCI(g *rules.Game) []string {
	var out []string
	for _, m := range g.LegalMoves() {
		out = append(out, uci(m))
	}
	slices.Sort(out)
	return out
}

func gooseUCI(t *testing.T, fen string) []string {
	t.Helper()
	b, err := goosemg.ParseFEN(fen)
	testutil.NoError(t, err)
	var out []string
	for _, m := range b.GenerateLegalMoves() {
		out = append(out, strings.ToLower(m.String()))
	}
	slices.Sort(out)
	return out
}

func dragontoothUCI(fen string) []string {
	b := dragontoothmg.ParseFen(fen)
	moves := b.GenerateLegalMoves()
	out := make([]string, 0, len(moves))
	for i := range moves {
		out = append(out, strings.ToLower(moves[i].String()))
	}
	slices.Sort(out)
	return out
}

func TestLegalMovesMatchGoose(t *testing.T) {
	for _, fen := range corpus {
		t.Run(fen, func(t *testing.T) {
			got := legalUCI(gameFromFEN(t, fen, nil))
			testutil.Equal(t, got, gooseUCI(t, fen))
		})
	}
}

func TestLegalMovesMatchDragontooth(t *testing.T) {
	for _, fen := range corpus {
		t.Run(fen, func(t *testing.T) {
			got := legalUCI(gameFromFEN(t, fen, nil))
			testutil.Equal(t, got, dragontoothUCI(fen))
		})
	}
}

func TestUnderAttackMatchesGoose(t *testing.T) {
	for _, fen := range corpus {
		t.Run(fen, func(t *testing.T) {
			g := gameFromFEN(t, fen, nil)
			b, err := goosemg.ParseFEN(fen)
			testutil.NoError(t, err)

			for row := 0; row < 8; row++ {
				for col := 0; col < 8; col++ {
					p := rules.Position{Row: row, Col: col}
					for _, defender := range []rules.Color{rules.White, rules.Black} {
						// squares holding the attacker's own pieces are not asked about
						if pc := g.PieceAt(p); !pc.IsEmpty() && pc.Color() != defender {
							continue
						}
						by := goosemg.White
						if defender == rules.White {
							by = goosemg.Black
						}
						want := b.IsSquareAttacked(goosemg.Square(row*8+col), by)
						testutil.Equalf(t, g.UnderAttack(p, defender, nil).Attacked, want, "%s defended by %s", p, defender)
					}
				}
			}
		})
	}
}

func TestTerminalStatesMatchGoose(t *testing.T) {
	for _, fen := range corpus {
		t.Run(fen, func(t *testing.T) {
			b, err := goosemg.ParseFEN(fen)
			testutil.NoError(t, err)
			testutil.Equal(t, gameFromFEN(t, fen, nil).IsCheckMate(), b.InCheckmate())
			testutil.Equal(t, gameFromFEN(t, fen, nil).IsStaleMate(), b.InStalemate())
		})
	}
}

func perft(g *rules.Game, depth int) uint64 {
	moves := g.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		child := rules.New(g.Snapshot(), nil)
		child.MovePiece(m.From, m.To, m.Outcome, m.Promotion.Kind())
		n += perft(child, depth-1)
	}
	return n
}

func TestPerft(t *testing.T) {
	tests := []struct {
		fen    string
		counts []uint64
	}{
		{startFEN, []uint64{20, 400, 8902}},
		{kiwipeteFEN, []uint64{48, 2039}},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812}},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264}},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486}},
		{"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", []uint64{46, 2079}},
	}
	for _, tt := range tests {
		t.Run(tt.fen, func(t *testing.T) {
			for i, want := range tt.counts {
				depth := i + 1
				if testing.Short() && depth > 2 {
					break
				}
				testutil.Equalf(t, perft(gameFromFEN(t, tt.fen, nil), depth), want, "depth %d", depth)
			}
		})
	}
}

func TestPerftMatchesGoose(t *testing.T) {
	if testing.Short() {
		t.Skip("deep perft")
	}
	for _, fen := range corpus[:6] {
		t.Run(fen, func(t *testing.T) {
			b, err := goosemg.ParseFEN(fen)
			testutil.NoError(t, err)
			testutil.Equal(t, perft(gameFromFEN(t, fen, nil), 2), goosemg.Perft(b, 2))
		})
	}
}

func TestFENHelpersRoundTrip(t *testing.T) {
	for _, fen := range corpus {
		s := fromFEN(t, fen)
		got := toFEN(s)
		// halfmove clocks are not tracked
		want := strings.Fields(fen)
		want[4] = "0"
		testutil.Equal(t, got, strings.Join(want, " "))
	}
}
