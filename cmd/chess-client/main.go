// FILE: cmd/chess-client/main.go
// Package main implements an interactive terminal client for the chess server API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"chessrules/internal/client/commands"
	"chessrules/internal/client/display"
	"chessrules/internal/client/session"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Server base URL")
	history := flag.String("history", ".chess_history", "Readline history file")
	flag.Parse()

	s := session.New(*apiURL)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sChess Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "x" {
			break
		}

		s.Verbose = strings.HasSuffix(line, " -v")
		line = strings.TrimSuffix(line, " -v")

		registry.Execute(line)
	}
}

// buildPrompt shows user, game and turn context, marking the turn with '*'
// when the user holds the side to move
func buildPrompt(s *session.Session) string {
	var parts []string
	if s.Username != "" {
		parts = append(parts, display.Magenta+s.Username+display.Reset)
	}
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, display.White+id+display.Reset)
	}
	if s.CurrentGameState != nil && s.PlayerColor != "" {
		parts = append(parts, display.ColorForTurn(s.PlayerColor))
	}

	prompt := "chess"
	if len(parts) > 0 {
		prompt += display.Yellow + " [" + display.Reset + strings.Join(parts, display.Yellow+" - "+display.Reset) + display.Yellow + "]"
	}

	if g := s.CurrentGameState; g != nil {
		marker := ""
		if g.Turn == s.PlayerColor {
			marker = "*"
		}
		prompt += fmt.Sprintf(" - Turn:%s%s", display.ColorForTurn(g.Turn), marker)
		if g.State != "ongoing" {
			prompt += " (" + g.State + ")"
		}
	}

	return display.Prompt(prompt)
}
