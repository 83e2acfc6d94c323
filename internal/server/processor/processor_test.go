package processor

import (
	"sync"
	"testing"
	"time"

	"chessrules/internal/rules"
	"chessrules/internal/server/core"
	"chessrules/internal/server/service"
	"chessrules/internal/testutil"
)

func newProcessor(t *testing.T) *Processor {
	t.Helper()
	svc := service.New(nil, []byte("secret"))
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return New(svc)
}

func createGame(t *testing.T, p *Processor, req core.CreateGameRequest) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand(req))
	testutil.Truef(t, resp.Success, "create failed: %+v", resp.Error)
	return resp.Data.(core.GameResponse)
}

func move(p *Processor, gameID, text string) ProcessorResponse {
	return p.Execute(NewMakeMoveCommand(gameID, core.MoveRequest{Move: text}))
}

func mustMove(t *testing.T, p *Processor, gameID string, moves ...string) core.GameResponse {
	t.Helper()
	var gr core.GameResponse
	for _, mv := range moves {
		resp := move(p, gameID, mv)
		testutil.Truef(t, resp.Success, "move %s: %+v", mv, resp.Error)
		gr = resp.Data.(core.GameResponse)
	}
	return gr
}

func TestCreateGame(t *testing.T) {
	p := newProcessor(t)
	gr := createGame(t, p, core.CreateGameRequest{White: core.PlayerConfig{Name: "alice"}})

	testutil.True(t, gr.GameID != "")
	testutil.Equal(t, gr.Turn, "w")
	testutil.Equal(t, gr.State, "ongoing")
	testutil.Equal(t, gr.Moves, []string{})
	testutil.Equal(t, gr.Position, rules.StandardSnapshot())
	testutil.Equal(t, gr.Players.White.Name, "alice")
	testutil.Equal(t, gr.Players.Black.Color, core.ColorBlack)
}

func TestCreateGameFromPosition(t *testing.T) {
	p := newProcessor(t)

	// black to move and already mated
	board, err := rules.ParseBoard([]string{
		"Q...K...",
		".R......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"k.......",
	})
	testutil.NoError(t, err)
	pos := rules.Snapshot{Board: board, Round: 1}

	gr := createGame(t, p, core.CreateGameRequest{Position: &pos})
	testutil.Equal(t, gr.Turn, "b")
	testutil.Equal(t, gr.State, "white wins")

	resp := move(p, gr.GameID, "a8b8")
	testutil.False(t, resp.Success)
	testutil.Equal(t, resp.Error.Code, core.ErrGameOver)
}

func TestCreateGameRejectsBadPosition(t *testing.T) {
	p := newProcessor(t)
	pos := rules.StandardSnapshot()
	pos.Board[0][4] = rules.Empty

	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Position: &pos}))
	testutil.False(t, resp.Success)
	testutil.Equal(t, resp.Error.Code, core.ErrInvalidBoard)
	testutil.Contains(t, resp.Error.Details, "king")
}

func TestMakeMove(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID

	gr := mustMove(t, p, id, "E2-E4")
	testutil.Equal(t, gr.Moves, []string{"e2e4"})
	testutil.Equal(t, gr.Turn, "b")
	testutil.Equal(t, gr.LastMove.Move, "e2e4")
	testutil.Equal(t, gr.LastMove.PlayerColor, "w")
	testutil.Equal(t, gr.LastMove.Special, "")
	testutil.Equal(t, gr.Position.Board[3][4], rules.WhitePawn)
}

func TestMakeMoveRejections(t *testing.T) {
	tests := []struct {
		name    string
		move    string
		code    string
		details string
	}{
		{"bad syntax", "e2", core.ErrInvalidMove, "invalid move syntax"},
		{"empty square", "e4e5", core.ErrInvalidMove, "no piece on e4"},
		{"wrong side", "e7e5", core.ErrInvalidMove, "white's turn"},
		{"pawn jumps three", "e2e5", core.ErrInvalidMove, "cannot make that move"},
		{"bad promotion letter", "e2e4k", core.ErrInvalidMove, "promotion piece"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProcessor(t)
			id := createGame(t, p, core.CreateGameRequest{}).GameID

			resp := move(p, id, tt.move)
			testutil.False(t, resp.Success)
			testutil.Equal(t, resp.Error.Code, tt.code)
			testutil.Contains(t, resp.Error.Details, tt.details)

			// the position is untouched
			g := p.Execute(NewGetGameCommand(id)).Data.(core.GameResponse)
			testutil.Equal(t, g.Moves, []string{})
		})
	}
}

func TestMakeMoveReportsEngineDiagnostics(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID

	// bishop moved but the king side knight still blocks
	mustMove(t, p, id, "e2e4", "e7e5", "f1c4", "b8c6")
	resp := move(p, id, "e1g1")
	testutil.False(t, resp.Success)
	testutil.Equal(t, resp.Error.Code, core.ErrInvalidMove)
	testutil.True(t, resp.Error.Details != "")
}

func TestCheckAndMate(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID

	gr := mustMove(t, p, id, "e2e4", "f7f6", "d2d4", "g7g5")
	testutil.Equal(t, gr.State, "ongoing")

	gr = mustMove(t, p, id, "d1h5")
	testutil.Equal(t, gr.State, "white wins")

	resp := move(p, id, "a7a6")
	testutil.False(t, resp.Success)
	testutil.Equal(t, resp.Error.Code, core.ErrGameOver)

	legal := p.Execute(NewLegalMovesCommand(id)).Data.(core.LegalMovesResponse)
	testutil.Equal(t, legal.Moves, []string{})
}

func TestCheckState(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID

	gr := mustMove(t, p, id, "e2e4", "f7f6", "d1h5")
	testutil.Equal(t, gr.State, "check")
	testutil.Equal(t, gr.Turn, "b")
}

func TestSpecialMoves(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID

	gr := mustMove(t, p, id, "e2e4", "a7a6", "e4e5", "d7d5", "e5d6")
	testutil.Equal(t, gr.LastMove.Special, "en passant")
	testutil.Equal(t, gr.LastMove.Captured, "black pawn")
	testutil.Equal(t, gr.Position.Board[4][3], rules.Empty)

	gr = mustMove(t, p, id, "a6a5", "g1f3", "a5a4", "f1e2", "a4a3", "e1g1")
	testutil.Equal(t, gr.LastMove.Special, "castling")
	testutil.Equal(t, gr.Position.Board[0][5], rules.WhiteRook)

	gr = mustMove(t, p, id, "a3b2", "d6c7", "b2a1n")
	testutil.Equal(t, gr.LastMove.Move, "b2a1n")
	testutil.Equal(t, gr.LastMove.Special, "promotion")
	testutil.Equal(t, gr.Position.Board[0][0], rules.BlackKnight)
}

func TestClaimedSides(t *testing.T) {
	p := newProcessor(t)
	resp := p.Execute(Command{
		Type:   CmdCreateGame,
		UserID: "user-1",
		Args:   core.CreateGameRequest{White: core.PlayerConfig{Claim: true}},
	})
	testutil.True(t, resp.Success)
	gr := resp.Data.(core.GameResponse)
	testutil.Equal(t, gr.Players.White.UserID, "user-1")
	testutil.Equal(t, gr.Players.Black.UserID, "")

	// anonymous and other users cannot move for white
	testutil.Equal(t, move(p, gr.GameID, "e2e4").Error.Code, core.ErrNotYourTurn)
	other := p.Execute(Command{Type: CmdMakeMove, UserID: "user-2", GameID: gr.GameID, Args: core.MoveRequest{Move: "e2e4"}})
	testutil.Equal(t, other.Error.Code, core.ErrNotYourTurn)

	own := p.Execute(Command{Type: CmdMakeMove, UserID: "user-1", GameID: gr.GameID, Args: core.MoveRequest{Move: "e2e4"}})
	testutil.True(t, own.Success)

	// black is open to anyone
	testutil.True(t, move(p, gr.GameID, "e7e5").Success)
}

// as runs cmd on behalf of userID
func as(p *Processor, userID string, cmd Command) ProcessorResponse {
	cmd.UserID = userID
	return p.Execute(cmd)
}

func TestBoundGameNeedsOwner(t *testing.T) {
	p := newProcessor(t)
	claim := core.PlayerConfig{Claim: true}
	gr := as(p, "alice", NewCreateGameCommand(core.CreateGameRequest{White: claim, Black: claim})).Data.(core.GameResponse)
	id := gr.GameID
	testutil.True(t, as(p, "alice", NewMakeMoveCommand(id, core.MoveRequest{Move: "e2e4"})).Success)

	steal := NewConfigurePlayersCommand(id, core.ConfigurePlayersRequest{White: claim, Black: claim})
	tests := []struct {
		name string
		cmd  Command
	}{
		{"reconfigure", steal},
		{"undo", NewUndoMoveCommand(id, core.UndoRequest{Count: 1})},
		{"resign", NewResignCommand(id, core.ResignRequest{Color: "b"})},
		{"delete", NewDeleteGameCommand(id)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, caller := range []string{"", "mallory"} {
				resp := as(p, caller, tt.cmd)
				testutil.False(t, resp.Success)
				testutil.Equal(t, resp.Error.Code, core.ErrForbidden)
			}
		})
	}

	// nothing changed hands
	resp := as(p, "mallory", NewMakeMoveCommand(id, core.MoveRequest{Move: "e7e5"}))
	testutil.Equal(t, resp.Error.Code, core.ErrNotYourTurn)
	g := p.Execute(NewGetGameCommand(id)).Data.(core.GameResponse)
	testutil.Equal(t, g.Moves, []string{"e2e4"})
	testutil.Equal(t, g.Players.Black.UserID, "alice")

	// the owner keeps full control
	testutil.True(t, as(p, "alice", NewUndoMoveCommand(id, core.UndoRequest{Count: 1})).Success)
	testutil.True(t, as(p, "alice", steal).Success)
	testutil.True(t, as(p, "alice", NewDeleteGameCommand(id)).Success)
}

func TestResign(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID
	mustMove(t, p, id, "e2e4")

	resp := p.Execute(NewResignCommand(id, core.ResignRequest{Color: "w"}))
	testutil.True(t, resp.Success)
	testutil.Equal(t, resp.Data.(core.GameResponse).State, "black wins")

	testutil.Equal(t, move(p, id, "e7e5").Error.Code, core.ErrGameOver)
	resp = p.Execute(NewResignCommand(id, core.ResignRequest{Color: "b"}))
	testutil.Equal(t, resp.Error.Code, core.ErrGameOver)

	resp = p.Execute(NewResignCommand(id, core.ResignRequest{Color: "x"}))
	testutil.Equal(t, resp.Error.Code, core.ErrInvalidRequest)
}

func TestResignBoundSide(t *testing.T) {
	p := newProcessor(t)
	gr := as(p, "alice", NewCreateGameCommand(core.CreateGameRequest{White: core.PlayerConfig{Claim: true}})).Data.(core.GameResponse)

	// the open side can resign by anyone, the bound one only by its owner
	testutil.Equal(t, as(p, "bob", NewResignCommand(gr.GameID, core.ResignRequest{Color: "w"})).Error.Code, core.ErrForbidden)
	resp := as(p, "alice", NewResignCommand(gr.GameID, core.ResignRequest{Color: "w"}))
	testutil.True(t, resp.Success)
	testutil.Equal(t, resp.Data.(core.GameResponse).State, "black wins")
}

// Run with -race: reads run alongside moves on the same game.
func TestReadsConcurrentWithMoves(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			p.Execute(NewGetGameCommand(id))
			p.Execute(NewLegalMovesCommand(id))
			p.Execute(NewGetBoardCommand(id))
		}
	}()
	for i := 0; i < 20; i++ {
		mustMove(t, p, id, "g1f3", "g8f6", "f3g1", "f6g8")
	}
	wg.Wait()

	g := p.Execute(NewGetGameCommand(id)).Data.(core.GameResponse)
	testutil.Equal(t, len(g.Moves), 80)
}

func TestConfigurePlayers(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID

	resp := p.Execute(NewConfigurePlayersCommand(id, core.ConfigurePlayersRequest{
		White: core.PlayerConfig{Name: "w"},
		Black: core.PlayerConfig{Name: "b"},
	}))
	testutil.True(t, resp.Success)
	gr := resp.Data.(core.GameResponse)
	testutil.Equal(t, gr.Players.White.Name, "w")
	testutil.Equal(t, gr.Players.Black.Name, "b")
}

func TestUndo(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID
	mustMove(t, p, id, "e2e4", "e7e5", "g1f3")

	resp := p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 2}))
	testutil.True(t, resp.Success)
	gr := resp.Data.(core.GameResponse)
	testutil.Equal(t, gr.Moves, []string{"e2e4"})
	testutil.Equal(t, gr.Turn, "b")
	testutil.True(t, gr.LastMove == nil)

	resp = p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 5}))
	testutil.False(t, resp.Success)
	testutil.Equal(t, resp.Error.Code, core.ErrInvalidRequest)
}

func TestUndoReopensFinishedGame(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID
	mustMove(t, p, id, "f2f3", "e7e5", "g2g4", "d8h4")

	resp := p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 1}))
	testutil.True(t, resp.Success)
	testutil.Equal(t, resp.Data.(core.GameResponse).State, "ongoing")
	testutil.True(t, move(p, id, "d8h4").Success)
}

func TestBoardAndLegalMoves(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID

	board := p.Execute(NewGetBoardCommand(id)).Data.(core.BoardResponse)
	testutil.Equal(t, board.Rows[0], "RNBQKBNR")
	testutil.Equal(t, board.Rows[3], "........")
	testutil.Equal(t, board.Rows[7], "rnbqkbnr")
	testutil.True(t, board.Board != "")

	legal := p.Execute(NewLegalMovesCommand(id)).Data.(core.LegalMovesResponse)
	testutil.Equal(t, legal.Turn, "w")
	testutil.Equal(t, len(legal.Moves), 20)
	testutil.Equal(t, legal.Moves[0], "a2a3")
	testutil.Equal(t, legal.Moves[19], "h2h4")
}

func TestDeleteAndUnknownGame(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{}).GameID

	testutil.True(t, p.Execute(NewDeleteGameCommand(id)).Success)
	for _, cmd := range []Command{
		NewGetGameCommand(id),
		NewDeleteGameCommand(id),
		NewGetBoardCommand(id),
		NewLegalMovesCommand(id),
		NewMakeMoveCommand(id, core.MoveRequest{Move: "e2e4"}),
		NewUndoMoveCommand(id, core.UndoRequest{Count: 1}),
		NewResignCommand(id, core.ResignRequest{Color: "w"}),
		NewConfigurePlayersCommand(id, core.ConfigurePlayersRequest{}),
	} {
		resp := p.Execute(cmd)
		testutil.False(t, resp.Success)
		testutil.Equal(t, resp.Error.Code, core.ErrGameNotFound)
	}
}

func TestUnknownCommand(t *testing.T) {
	p := newProcessor(t)
	resp := p.Execute(Command{Type: CommandType(99)})
	testutil.False(t, resp.Success)
	testutil.Equal(t, resp.Error.Code, core.ErrInvalidRequest)
}
