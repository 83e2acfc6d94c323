// FILE: internal/client/commands/game.go
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/client/api"
	"chessrules/internal/client/display"
)

func (r *Registry) registerGameCommands() {
	for _, cmd := range []*Command{
		{Name: "new", ShortName: "n", Description: "Create a new game", Usage: "new", Handler: r.newGameHandler},
		{Name: "join", ShortName: "j", Description: "Join/set current game ID", Usage: "join <gameId>", Handler: r.joinGameHandler},
		{Name: "players", ShortName: "a", Description: "Rename or claim sides", Usage: "players", Handler: r.playersHandler},
		{Name: "move", ShortName: "m", Description: "Make a move", Usage: "move <e2e4|e7e8q|E2-E4>", Handler: r.moveHandler},
		{Name: "legal", ShortName: "g", Description: "List legal moves", Usage: "legal", Handler: r.legalHandler},
		{Name: "undo", ShortName: "u", Description: "Undo moves", Usage: "undo [count]", Handler: r.undoHandler},
		{Name: "show", ShortName: "h", Description: "Show board and game state", Usage: "show", Handler: r.showBoardHandler},
		{Name: "state", ShortName: "s", Description: "Show raw game JSON", Usage: "state", Handler: r.gameStateHandler},
		{Name: "delete", ShortName: "d", Description: "Delete a game", Usage: "delete [gameId]", Handler: r.deleteGameHandler},
		{Name: "poll", ShortName: "p", Description: "Long-poll for game updates", Usage: "poll", Handler: r.pollHandler},
	} {
		cmd.Group = "Game"
		r.Register(cmd)
	}
}

// askPlayer prompts for one side's name and, when logged in, whether to claim it
func (r *Registry) askPlayer(s Session, side string) api.PlayerConfig {
	cfg := api.PlayerConfig{Name: r.ask(side+" player name [none]: ", "")}
	if s.GetAuthToken() != "" {
		cfg.Claim = strings.HasPrefix(strings.ToLower(r.ask("Claim "+side+" for yourself (y/n) [n]: ", "n")), "y")
	}
	return cfg
}

func (r *Registry) newGameHandler(s Session, args []string) error {
	r.printf("\n%sCreating new game...%s\n", display.Cyan, display.Reset)

	req := &api.CreateGameRequest{
		White: r.askPlayer(s, "White"),
		Black: r.askPlayer(s, "Black"),
	}
	resp, err := s.GetClient().CreateGame(req)
	if err != nil {
		return err
	}

	s.SetCurrentGame(resp.GameID)
	s.SetGameState(resp)

	r.printf("%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	return nil
}

func (r *Registry) joinGameHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	resp, err := s.GetClient().GetGame(args[0])
	if err != nil {
		return err
	}
	s.SetCurrentGame(args[0])
	s.SetGameState(resp)

	r.printf("%sJoined game: %s%s\n", display.Green, args[0], display.Reset)
	r.printf("Turn: %s | State: %s | Moves: %d\n", display.ColorForTurn(resp.Turn), resp.State, len(resp.Moves))
	return nil
}

func (r *Registry) playersHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}
	resp, err := s.GetClient().ConfigurePlayers(gameID, r.askPlayer(s, "White"), r.askPlayer(s, "Black"))
	if err != nil {
		return err
	}
	s.SetGameState(resp)
	r.printf("%sPlayers updated%s\n", display.Green, display.Reset)
	return nil
}

func (r *Registry) moveHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <e2e4|e7e8q>")
	}
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().MakeMove(gameID, args[0])
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	r.printf("%sMove accepted: %s%s", display.Green, resp.LastMove.Move, display.Reset)
	if resp.LastMove.Special != "" {
		r.printf(" (%s)", resp.LastMove.Special)
	}
	if resp.LastMove.Captured != "" {
		r.printf(" takes %s", resp.LastMove.Captured)
	}
	r.printf("\n")
	if resp.State != "ongoing" {
		r.printf("%s%s%s\n", display.Magenta, strings.ToUpper(resp.State), display.Reset)
	}
	return nil
}

func (r *Registry) legalHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().LegalMoves(gameID)
	if err != nil {
		return err
	}
	if len(resp.Moves) == 0 {
		r.printf("%sNo legal moves for %s%s\n", display.Yellow, display.ColorForTurn(resp.Turn), display.Reset)
		return nil
	}
	r.printf("%d legal moves for %s:\n", len(resp.Moves), display.ColorForTurn(resp.Turn))
	for i := 0; i < len(resp.Moves); i += 8 {
		end := min(i+8, len(resp.Moves))
		r.printf("  %s\n", strings.Join(resp.Moves[i:end], " "))
	}
	return nil
}

func (r *Registry) undoHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		if count, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	resp, err := s.GetClient().UndoMoves(gameID, count)
	if err != nil {
		return err
	}
	s.SetGameState(resp)
	r.printf("%sUndid %d move(s)%s\n", display.Green, count, display.Reset)
	return nil
}

func (r *Registry) showBoardHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient()
	game, err := c.GetGame(gameID)
	if err != nil {
		return err
	}
	s.SetGameState(game)

	r.printf("\n%s", display.FormatBoard(game.Position.Board.Rows()))
	r.printf("\nTurn: %s | State: %s | Moves: %d\n",
		display.ColorForTurn(game.Turn), game.State, len(game.Moves))
	if len(game.Moves) > 0 {
		r.printf("History: %s\n", display.FormatHistory(game.Moves))
	}
	if game.LastMove != nil {
		r.printf("Last move: %s by %s\n", game.LastMove.Move, display.ColorForTurn(game.LastMove.PlayerColor))
	}
	return nil
}

func (r *Registry) gameStateHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	r.printf("%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(resp)
	return nil
}

func (r *Registry) deleteGameHandler(s Session, args []string) error {
	gameID := s.GetCurrentGame()
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := s.GetClient().DeleteGame(gameID); err != nil {
		return err
	}
	if gameID == s.GetCurrentGame() {
		s.SetCurrentGame("")
	}

	r.printf("%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func (r *Registry) pollHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	moveCount := s.GetLastMoveCount()
	r.printf("%sLong-polling for updates (move count: %d, up to 25 seconds)...%s\n",
		display.Cyan, moveCount, display.Reset)

	resp, err := s.GetClient().GetGameWithPoll(gameID, moveCount)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	if len(resp.Moves) != moveCount {
		r.printf("%sGame updated: %d move(s)%s\n", display.Green, len(resp.Moves), display.Reset)
		if resp.LastMove != nil {
			r.printf("Last move: %s\n", resp.LastMove.Move)
		}
	} else {
		r.printf("%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
	}
	return nil
}
