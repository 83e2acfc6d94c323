// FILE: internal/server/processor/processor.go
package processor

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/exp/slices"

	"chessrules/internal/notation"
	"chessrules/internal/rules"
	"chessrules/internal/server/core"
	"chessrules/internal/server/game"
	"chessrules/internal/server/service"
)

// Processor executes commands against the service, using the rules engine
// for every legality and end-of-game decision
type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdConfigurePlayers:
		return p.handleConfigurePlayers(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdResign:
		return p.handleResign(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// diagnostics logs engine reports under the game id and keeps them for the reply
type diagnostics struct {
	gameID string
	msgs   []string
}

func (d *diagnostics) Report(msg string) {
	log.Printf("[rules] game %s: %s", d.gameID, msg)
	d.msgs = append(d.msgs, msg)
}

func (d *diagnostics) String() string {
	return strings.Join(d.msgs, "; ")
}

// handleCreateGame creates a game from the standard setup or a supplied position
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	gameID := p.svc.GenerateGameID()

	initial := rules.StandardSnapshot()
	if args.Position != nil {
		if err := args.Position.Validate(); err != nil {
			return p.errorDetails("invalid starting position", core.ErrInvalidBoard, err.Error())
		}
		initial = *args.Position
	}

	diag := &diagnostics{gameID: gameID}
	eng := rules.New(initial, diag)
	state := core.StateFromStatus(eng.Status(), core.ColorOf(eng.CurrentTurn()))

	whitePlayer := core.NewPlayer(args.White, core.ColorWhite, cmd.UserID)
	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack, cmd.UserID)

	if err := p.svc.CreateGame(gameID, whitePlayer, blackPlayer, initial, state); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}
	return p.gameResponse(gameID)
}

// handleConfigurePlayers replaces both players. Once a side is bound to an
// account only a bound caller may do this.
func (p *Processor) handleConfigurePlayers(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ConfigurePlayersRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	unlock, err := p.svc.LockGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	defer unlock()

	if resp, ok := p.requireControl(cmd); !ok {
		return resp
	}

	whitePlayer := core.NewPlayer(args.White, core.ColorWhite, cmd.UserID)
	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack, cmd.UserID)
	if err := p.svc.UpdatePlayers(cmd.GameID, whitePlayer, blackPlayer); err != nil {
		return p.serviceError(err)
	}
	return p.gameResponse(cmd.GameID)
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	return p.gameResponse(cmd.GameID)
}

// moveContext is what a move needs from the session, copied out under the
// registry read lock
type moveContext struct {
	state  core.State
	mover  core.Color
	player *core.Player
	snap   rules.Snapshot
}

// handleMakeMove validates a move with the engine, applies it and
// re-evaluates the position for the side now to move
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	unlock, err := p.svc.LockGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	defer unlock()

	var mc moveContext
	err = p.svc.View(cmd.GameID, func(g *game.Game) {
		mc = moveContext{
			state:  g.State(),
			mover:  g.NextTurnColor(),
			player: g.NextPlayer(),
			snap:   g.CurrentSnapshot(),
		}
	})
	if err != nil {
		return p.serviceError(err)
	}

	if mc.state.IsOver() {
		return p.errorResponse(fmt.Sprintf("game is over: %s", mc.state), core.ErrGameOver)
	}
	if !mc.player.CanMove(cmd.UserID) {
		return p.errorResponse("side to move belongs to another user", core.ErrNotYourTurn)
	}

	from, to, promote, err := notation.ParseMove(args.Move)
	if err != nil {
		return p.errorDetails("invalid move format", core.ErrInvalidMove, err.Error())
	}

	diag := &diagnostics{gameID: cmd.GameID}
	eng := rules.New(mc.snap, diag)
	out, ok := eng.IsMoveValid(from, to)
	if !ok {
		return p.errorDetails("illegal move", core.ErrInvalidMove, explainRejection(eng, from, diag))
	}

	m := eng.MovePiece(from, to, out, promote)
	text := notation.FormatMove(m)
	state := core.StateFromStatus(eng.Status(), core.ColorOf(eng.CurrentTurn()))

	result := &game.MoveResult{
		Move:        text,
		PlayerColor: mc.mover,
		GameState:   state,
		Captured:    m.Captured,
		Kind:        m.Outcome.Kind,
		Promotion:   m.Promotion,
	}
	if err := p.svc.ApplyMove(cmd.GameID, text, eng.Snapshot(), state, result); err != nil {
		return p.serviceError(err)
	}
	return p.gameResponse(cmd.GameID)
}

// explainRejection prefers the engine's own diagnostics and falls back to
// the checks the engine rejects silently
func explainRejection(eng *rules.Game, from rules.Position, diag *diagnostics) string {
	if len(diag.msgs) > 0 {
		return diag.String()
	}
	pc := eng.PieceAt(from)
	switch {
	case pc.IsEmpty():
		return fmt.Sprintf("no piece on %s", from)
	case pc.Color() != eng.CurrentTurn():
		return fmt.Sprintf("%s on %s cannot move on %s's turn", rules.Describe(pc), from, eng.CurrentTurn())
	default:
		return fmt.Sprintf("%s on %s cannot make that move", rules.Describe(pc), from)
	}
}

// handleResign ends the game in favour of the other side. A bound side can
// only be resigned by its own account.
func (p *Processor) handleResign(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ResignRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	color, ok := core.ParseColor(args.Color)
	if !ok {
		return p.errorDetails("invalid color", core.ErrInvalidRequest, args.Color)
	}

	unlock, err := p.svc.LockGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	defer unlock()

	var state core.State
	var player *core.Player
	err = p.svc.View(cmd.GameID, func(g *game.Game) {
		state, player = g.State(), g.GetPlayer(color)
	})
	if err != nil {
		return p.serviceError(err)
	}
	if state.IsOver() {
		return p.errorResponse(fmt.Sprintf("game is over: %s", state), core.ErrGameOver)
	}
	if !player.CanMove(cmd.UserID) {
		return p.errorResponse("side belongs to another user", core.ErrForbidden)
	}

	if err := p.svc.UpdateGameState(cmd.GameID, core.WinFor(core.OppositeColor(color))); err != nil {
		return p.serviceError(err)
	}
	return p.gameResponse(cmd.GameID)
}

// handleUndoMove reverts one or more moves
func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok {
		args = req
	}

	unlock, err := p.svc.LockGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	defer unlock()

	if resp, ok := p.requireControl(cmd); !ok {
		return resp
	}

	if err := p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return p.serviceError(err)
		}
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}
	return p.gameResponse(cmd.GameID)
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	unlock, err := p.svc.LockGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	defer unlock()

	if resp, ok := p.requireControl(cmd); !ok {
		return resp
	}
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true}
}

// requireControl checks that the caller may manage the game. Callers hold
// the game lock.
func (p *Processor) requireControl(cmd Command) (ProcessorResponse, bool) {
	allowed := false
	if err := p.svc.View(cmd.GameID, func(g *game.Game) { allowed = g.Controls(cmd.UserID) }); err != nil {
		return p.serviceError(err), false
	}
	if !allowed {
		return p.errorResponse("game is bound to other users", core.ErrForbidden), false
	}
	return ProcessorResponse{}, true
}

// handleGetBoard returns the board rows and a text diagram
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	var b rules.Board
	if err := p.svc.View(cmd.GameID, func(g *game.Game) { b = g.CurrentSnapshot().Board }); err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Rows:  b.Rows(),
			Board: b.String(),
		},
	}
}

// handleLegalMoves lists every legal move for the side to move, sorted
func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	var (
		over bool
		turn core.Color
		snap rules.Snapshot
	)
	err := p.svc.View(cmd.GameID, func(g *game.Game) {
		over, turn, snap = g.State().IsOver(), g.NextTurnColor(), g.CurrentSnapshot()
	})
	if err != nil {
		return p.serviceError(err)
	}

	moves := []string{}
	if !over {
		eng := rules.New(snap, &diagnostics{gameID: cmd.GameID})
		for _, m := range eng.LegalMoves() {
			moves = append(moves, notation.FormatMove(m))
		}
		slices.Sort(moves)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.LegalMovesResponse{
			GameID: cmd.GameID,
			Turn:   turn.String(),
			Moves:  moves,
		},
	}
}

// gameResponse reads the game under the registry lock and renders it
func (p *Processor) gameResponse(gameID string) ProcessorResponse {
	var resp core.GameResponse
	if err := p.svc.View(gameID, func(g *game.Game) { resp = buildGameResponse(gameID, g) }); err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

// buildGameResponse constructs standard game response
func buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	resp := core.GameResponse{
		GameID:   gameID,
		Position: g.CurrentSnapshot(),
		Turn:     g.NextTurnColor().String(),
		State:    g.State().String(),
		Moves:    g.Moves(),
		Players: core.PlayersResponse{
			White: g.GetPlayer(core.ColorWhite),
			Black: g.GetPlayer(core.ColorBlack),
		},
	}

	if result := g.LastResult(); result != nil {
		info := &core.MoveInfo{
			Move:        result.Move,
			PlayerColor: result.PlayerColor.String(),
		}
		if !result.Captured.IsEmpty() {
			info.Captured = rules.Describe(result.Captured)
		}
		switch {
		case !result.Promotion.IsEmpty():
			info.Special = "promotion"
		case result.Kind == rules.MoveCastling || result.Kind == rules.MoveEnPassant:
			info.Special = result.Kind.String()
		}
		resp.LastMove = info
	}
	return resp
}

func (p *Processor) serviceError(err error) ProcessorResponse {
	if errors.Is(err, service.ErrGameNotFound) {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return p.errorResponse(err.Error(), core.ErrInternalError)
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return p.errorDetails(message, code, "")
}

func (p *Processor) errorDetails(message, code, details string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error:   message,
			Code:    code,
			Details: details,
		},
	}
}
