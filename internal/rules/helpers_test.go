package rules_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"chessrules/internal/rules"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// sq turns "e4" into a Position
func sq(t testing.TB, s string) rules.Position {
	t.Helper()
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		t.Fatalf("bad square %q", s)
	}
	return rules.Position{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}
}

// fromFEN builds a snapshot from FEN text. The en passant field becomes the
// last move; the side to move and move number become the round.
func fromFEN(t testing.TB, fen string) rules.Snapshot {
	t.Helper()
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		t.Fatalf("fen %q: want at least 4 fields", fen)
	}

	b := rules.EmptyBoard()
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		t.Fatalf("fen %q: want 8 ranks", fen)
	}
	for i, rank := range ranks {
		row, col := 7-i, 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			b[row][col] = rules.Piece(ch)
			col++
		}
	}

	s := rules.Snapshot{Board: b}
	side := 0
	if parts[1] == "b" {
		side = 1
	}
	full := 1
	if len(parts) >= 6 {
		n, err := strconv.Atoi(parts[5])
		if err != nil {
			t.Fatalf("fen %q: move number: %v", fen, err)
		}
		full = n
	}
	s.Round = 2*(full-1) + side

	s.Castling = rules.CastlingRights{
		WhiteKingSide:  strings.Contains(parts[2], "K"),
		WhiteQueenSide: strings.Contains(parts[2], "Q"),
		BlackKingSide:  strings.Contains(parts[2], "k"),
		BlackQueenSide: strings.Contains(parts[2], "q"),
	}

	if parts[3] != "-" {
		ep := sq(t, parts[3])
		if ep.Row == 2 {
			s.LastFrom, s.LastTo = rules.Position{Row: 1, Col: ep.Col}, rules.Position{Row: 3, Col: ep.Col}
		} else {
			s.LastFrom, s.LastTo = rules.Position{Row: 6, Col: ep.Col}, rules.Position{Row: 4, Col: ep.Col}
		}
	}
	return s
}

// toFEN is the inverse of fromFEN
func toFEN(s rules.Snapshot) string {
	var sb strings.Builder
	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			pc := s.Board[row][col]
			if pc.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(byte(pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if s.Round%2 == 1 {
		side = "b"
	}

	castle := ""
	if s.Castling.WhiteKingSide {
		castle += "K"
	}
	if s.Castling.WhiteQueenSide {
		castle += "Q"
	}
	if s.Castling.BlackKingSide {
		castle += "k"
	}
	if s.Castling.BlackQueenSide {
		castle += "q"
	}
	if castle == "" {
		castle = "-"
	}

	ep := "-"
	from, to := s.LastFrom, s.LastTo
	dr := to.Row - from.Row
	if (dr == 2 || dr == -2) && from.Col == to.Col && s.Board[to.Row][to.Col].Kind() == rules.Pawn {
		ep = rules.Position{Row: (from.Row + to.Row) / 2, Col: to.Col}.String()
	}

	return fmt.Sprintf("%s %s %s %s 0 %d", sb.String(), side, castle, ep, s.Round/2+1)
}

func gameFromFEN(t testing.TB, fen string, r rules.Reporter) *rules.Game {
	t.Helper()
	return rules.New(fromFEN(t, fen), r)
}

// uci renders a move as coordinate text, "e7e8q" for promotions
func uci(m rules.Move) string {
	s := m.From.String() + m.To.String()
	if !m.Promotion.IsEmpty() {
		s += strings.ToLower(m.Promotion.String())
	}
	return s
}

// recorder keeps every diagnostic it receives
type recorder struct {
	msgs []string
}

func (r *recorder) Report(msg string) {
	r.msgs = append(r.msgs, msg)
}

func valid(t testing.TB, g *rules.Game, from, to string) bool {
	t.Helper()
	_, ok := g.IsMoveValid(sq(t, from), sq(t, to))
	return ok
}

func play(t testing.TB, g *rules.Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if _, err := g.Play(sq(t, mv[:2]), sq(t, mv[2:4]), rules.Queen); err != nil {
			t.Fatalf("play %s: %v", mv, err)
		}
	}
}
