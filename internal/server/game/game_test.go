package game

import (
	"testing"

	"chessrules/internal/rules"
	"chessrules/internal/server/core"
	"chessrules/internal/testutil"
)

func newGame() *Game {
	white := core.NewPlayer(core.PlayerConfig{Name: "w"}, core.ColorWhite, "")
	black := core.NewPlayer(core.PlayerConfig{Name: "b"}, core.ColorBlack, "")
	return New(rules.StandardSnapshot(), white, black)
}

// advance plays from/to on the current snapshot and records it
func advance(t *testing.T, g *Game, from, to rules.Position, text string) {
	t.Helper()
	eng := g.Engine(nil)
	if _, err := eng.Play(from, to, rules.NoKind); err != nil {
		t.Fatalf("play %s: %v", text, err)
	}
	g.AddSnapshot(eng.Snapshot(), text, core.StateOngoing)
}

func TestNewGame(t *testing.T) {
	g := newGame()
	testutil.Equal(t, g.NextTurnColor(), core.ColorWhite)
	testutil.Equal(t, g.NextPlayer().Name, "w")
	testutil.Equal(t, g.State(), core.StateOngoing)
	testutil.Equal(t, g.Moves(), []string{})
	testutil.Equal(t, g.InitialSnapshot(), rules.StandardSnapshot())
}

func TestAddSnapshotAndUndo(t *testing.T) {
	g := newGame()
	advance(t, g, rules.Position{Row: 1, Col: 4}, rules.Position{Row: 3, Col: 4}, "e2e4")
	g.SetState(core.StateCheck)
	advance(t, g, rules.Position{Row: 6, Col: 4}, rules.Position{Row: 4, Col: 4}, "e7e5")

	testutil.Equal(t, g.Moves(), []string{"e2e4", "e7e5"})
	testutil.Equal(t, g.NextTurnColor(), core.ColorWhite)
	testutil.Equal(t, g.CurrentSnapshot().Round, 2)

	testutil.NoError(t, g.UndoMoves(1))
	testutil.Equal(t, g.Moves(), []string{"e2e4"})
	testutil.Equal(t, g.NextTurnColor(), core.ColorBlack)
	// state recorded with the entry comes back
	testutil.Equal(t, g.State(), core.StateCheck)
	testutil.True(t, g.LastResult() == nil)
}

func TestUndoErrors(t *testing.T) {
	g := newGame()
	err := g.UndoMoves(0)
	testutil.True(t, err != nil)
	testutil.Contains(t, err.Error(), "invalid undo count")

	err = g.UndoMoves(1)
	testutil.True(t, err != nil)
	testutil.Contains(t, err.Error(), "only 0 moves available")
}

func TestEngineIsIndependent(t *testing.T) {
	g := newGame()
	eng := g.Engine(nil)
	_, err := eng.Play(rules.Position{Row: 1, Col: 3}, rules.Position{Row: 3, Col: 3}, rules.NoKind)
	testutil.NoError(t, err)

	// nothing recorded until AddSnapshot
	testutil.Equal(t, g.CurrentSnapshot(), rules.StandardSnapshot())
}

func TestUpdatePlayers(t *testing.T) {
	g := newGame()
	white := core.NewPlayer(core.PlayerConfig{Name: "alice", Claim: true}, core.ColorWhite, "user-1")
	black := core.NewPlayer(core.PlayerConfig{Name: "bob"}, core.ColorBlack, "user-1")
	g.UpdatePlayers(white, black)

	testutil.Equal(t, g.GetPlayer(core.ColorWhite).UserID, "user-1")
	testutil.Equal(t, g.GetPlayer(core.ColorBlack).UserID, "")
	testutil.True(t, g.NextPlayer().CanMove("user-1"))
	testutil.False(t, g.NextPlayer().CanMove("user-2"))
}

func TestControls(t *testing.T) {
	open := newGame()
	testutil.True(t, open.Controls(""))
	testutil.True(t, open.Controls("anyone"))

	claimed := core.PlayerConfig{Claim: true}
	g := New(rules.StandardSnapshot(),
		core.NewPlayer(claimed, core.ColorWhite, "alice"),
		core.NewPlayer(core.PlayerConfig{}, core.ColorBlack, ""))
	testutil.True(t, g.Controls("alice"))
	testutil.False(t, g.Controls("mallory"))
	testutil.False(t, g.Controls(""))
}
