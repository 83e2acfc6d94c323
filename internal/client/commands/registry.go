// FILE: internal/client/commands/registry.go
package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"chessrules/internal/client/api"
	"chessrules/internal/client/display"
)

// Session is the client state the commands read and update
type Session interface {
	GetAPIBaseURL() string
	SetAPIBaseURL(string)
	GetCurrentGame() string
	SetCurrentGame(string)
	GetCurrentUser() string
	SetCurrentUser(string)
	GetAuthToken() string
	SetAuthToken(string)
	GetUsername() string
	SetUsername(string)
	GetLastMoveCount() int
	SetLastMoveCount(int)
	GetClient() *api.Client
	IsVerbose() bool
	GetGameState() *api.GameResponse
	SetGameState(*api.GameResponse)
	GetPlayerColor() string
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Group       string
	Description string
	Usage       string
	Handler     func(Session, []string) error
}

// Registry resolves command names and runs their handlers
type Registry struct {
	session  Session
	commands map[string]*Command
	input    *bufio.Scanner
	out      io.Writer
}

func NewRegistry(session Session) *Registry {
	return NewRegistryIO(session, os.Stdin, os.Stdout)
}

// NewRegistryIO reads interactive answers from in and writes to out
func NewRegistryIO(session Session, in io.Reader, out io.Writer) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
		input:    bufio.NewScanner(in),
		out:      out,
	}

	r.registerGameCommands()
	r.registerAuthCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Group:       "Utility",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})
	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

func (r *Registry) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// ask prints a prompt and returns the trimmed answer, or def when empty
func (r *Registry) ask(prompt, def string) string {
	r.printf("%s%s%s", display.Yellow, prompt, display.Reset)
	if !r.input.Scan() {
		return def
	}
	if answer := strings.TrimSpace(r.input.Text()); answer != "" {
		return answer
	}
	return def
}

func (r *Registry) Execute(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	cmd, exists := r.commands[parts[0]]
	if !exists {
		r.printf("%sUnknown command: %s%s\n", display.Red, parts[0], display.Reset)
		r.printf("Type 'help' for available commands\n")
		return
	}

	r.session.GetClient().SetVerbose(r.session.IsVerbose())

	if err := cmd.Handler(r.session, parts[1:]); err != nil {
		r.printf("%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
}

func (r *Registry) helpHandler(s Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		r.printf("\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			r.printf("Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		r.printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	groups := map[string][]*Command{}
	for name, cmd := range r.commands {
		if name == cmd.Name {
			groups[cmd.Group] = append(groups[cmd.Group], cmd)
		}
	}

	r.printf("\n%sAvailable Commands:%s\n", display.Cyan, display.Reset)
	for _, group := range []string{"Game", "Auth", "Utility"} {
		cmds := groups[group]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
		r.printf("\n%s%s Commands:%s\n", display.Yellow, group, display.Reset)
		for _, cmd := range cmds {
			r.printf("  [%s%s%s] %-10s %s\n", display.Cyan, cmd.ShortName, display.Reset, cmd.Name, cmd.Description)
		}
	}

	r.printf("\nType 'help <command>' for detailed usage\n")
	r.printf("Add '-v' to any command for verbose output\n")
	return nil
}

// requireGame returns the current game id or an error naming how to set one
func requireGame(s Session) (string, error) {
	gameID := s.GetCurrentGame()
	if gameID == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}
	return gameID, nil
}
