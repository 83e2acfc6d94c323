// FILE: cmd/chess-server/cli/cli.go
// Package cli implements the "db" subcommands of the server binary:
// database setup, game history queries and offline user administration.
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"chessrules/internal/rules"
	"chessrules/internal/server/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
	"golang.org/x/term"
)

const minPasswordLength = 8

// out is where command results go
var out io.Writer = os.Stdout

// Run is the entry point for the CLI mini-app
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, moves, user")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "query":
		return runQuery(args[1:])
	case "moves":
		return runMoves(args[1:])
	case "user":
		if len(args) < 2 {
			return fmt.Errorf("user subcommand required: add, delete, set-password, set-hash, list")
		}
		return runUser(args[1], args[2:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// newFlags returns a flag set with the common -path flag
func newFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	return fs, path
}

func openStore(path string) (*storage.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path required")
	}
	store, err := storage.NewStore(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	fs, path := newFlags("init")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	fmt.Fprintf(out, "Database initialized at: %s\n", *path)
	return nil
}

func runDelete(args []string) error {
	fs, path := newFlags("delete")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}
	fmt.Fprintf(out, "Database deleted: %s\n", *path)
	return nil
}

func runQuery(args []string) error {
	fs, path := newFlags("query")
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	userID := fs.String("userId", "", "User ID bound to either side (optional, * for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *userID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tWhite\tBlack\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			g.GameID,
			sideLabel(g.WhiteName, g.WhiteUserID),
			sideLabel(g.BlackName, g.BlackUserID),
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

func sideLabel(name, userID string) string {
	if name == "" {
		name = "(anonymous)"
	}
	if userID != "" {
		name += " [" + short(userID) + "]"
	}
	return name
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// runMoves prints a game's recorded moves and the final position
func runMoves(args []string) error {
	fs, path := newFlags("moves")
	gameID := fs.String("gameId", "", "Game ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, "")
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(games) == 0 {
		return fmt.Errorf("game not found: %s", *gameID)
	}
	moves, err := store.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSide\tMove\tState\tTime")
	for _, m := range moves {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			m.MoveNumber, m.PlayerColor, m.MoveText, m.State,
			m.MoveTimeUTC.Format("15:04:05"))
	}
	w.Flush()

	last := games[0].InitialPosition
	if len(moves) > 0 {
		last = moves[len(moves)-1].Position
	}
	var snap rules.Snapshot
	if err := json.Unmarshal([]byte(last), &snap); err != nil {
		return fmt.Errorf("corrupt position record: %w", err)
	}
	fmt.Fprintf(out, "\n%s\n", snap.Board)
	return nil
}

func runUser(subcommand string, args []string) error {
	switch subcommand {
	case "add":
		return runUserAdd(args)
	case "delete":
		return runUserDelete(args)
	case "set-password":
		return runUserSetPassword(args)
	case "set-hash":
		return runUserSetHash(args)
	case "list":
		return runUserList(args)
	default:
		return fmt.Errorf("unknown user subcommand: %s", subcommand)
	}
}

// readPassword takes the flag value, or prompts without echo when interactive
func readPassword(flagValue string, interactive bool, prompt string) (string, error) {
	if interactive {
		if flagValue != "" {
			return "", fmt.Errorf("cannot use -interactive with -password")
		}
		fmt.Fprint(out, prompt)
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		flagValue = string(pw)
	}
	if flagValue == "" {
		return "", fmt.Errorf("password required: use -password or -interactive")
	}
	if len(flagValue) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return flagValue, nil
}

func runUserAdd(args []string) error {
	fs, path := newFlags("user add")
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "Email address (optional)")
	password := fs.String("password", "", "Password")
	hash := fs.String("hash", "", "Pre-computed PHC password hash")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("username required")
	}

	var passwordHash string
	if *hash != "" {
		if *password != "" || *interactive {
			return fmt.Errorf("cannot combine -hash with -password or -interactive")
		}
		if err := auth.ValidatePHCHashFormat(*hash); err != nil {
			return fmt.Errorf("invalid hash format: %w", err)
		}
		passwordHash = *hash
	} else {
		pw, err := readPassword(*password, *interactive, "Enter password: ")
		if err != nil {
			return err
		}
		if passwordHash, err = auth.HashPassword(pw); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	record := storage.UserRecord{
		UserID:       uuid.New().String(),
		Username:     strings.ToLower(*username),
		Email:        strings.ToLower(*email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(record); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(out, "User created: %s (%s)\n", record.Username, record.UserID)
	return nil
}

func runUserDelete(args []string) error {
	fs, path := newFlags("user delete")
	username := fs.String("username", "", "Username to delete")
	userID := fs.String("id", "", "User ID to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*username == "") == (*userID == "") {
		return fmt.Errorf("exactly one of -username or -id required")
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	targetID := *userID
	if targetID == "" {
		user, err := store.GetUserByUsername(*username)
		if err != nil {
			return fmt.Errorf("user not found: %s", *username)
		}
		targetID = user.UserID
	}

	if err := store.DeleteUserByID(targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	fmt.Fprintf(out, "User deleted: %s\n", targetID)
	return nil
}

func runUserSetPassword(args []string) error {
	fs, path := newFlags("user set-password")
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "New password")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("username required")
	}

	pw, err := readPassword(*password, *interactive, "Enter new password: ")
	if err != nil {
		return err
	}
	passwordHash, err := auth.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return setHash(*path, *username, passwordHash)
}

func runUserSetHash(args []string) error {
	fs, path := newFlags("user set-hash")
	username := fs.String("username", "", "Username (required)")
	hash := fs.String("hash", "", "PHC password hash (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *hash == "" {
		return fmt.Errorf("username and hash required")
	}
	if err := auth.ValidatePHCHashFormat(*hash); err != nil {
		return fmt.Errorf("invalid hash format: %w", err)
	}
	return setHash(*path, *username, *hash)
}

func setHash(path, username, hash string) error {
	store, err := openStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := store.GetUserByUsername(username)
	if err != nil {
		return fmt.Errorf("user not found: %s", username)
	}
	if err := store.UpdateUserPassword(user.UserID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	fmt.Fprintf(out, "Password updated for user: %s\n", username)
	return nil
}

func runUserList(args []string) error {
	fs, path := newFlags("user list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "User ID\tUsername\tEmail\tCreated\tLast Login")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, u := range users {
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		email := u.Email
		if email == "" {
			email = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.UserID, u.Username, email,
			u.CreatedAt.Format("2006-01-02 15:04"), lastLogin)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal users: %d\n", len(users))
	return nil
}
