// FILE: internal/client/commands/auth.go
package commands

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"chessrules/internal/client/display"
)

func (r *Registry) registerAuthCommands() {
	for _, cmd := range []*Command{
		{Name: "register", ShortName: "r", Description: "Register a new user", Usage: "register", Handler: r.registerHandler},
		{Name: "login", ShortName: "l", Description: "Login with credentials", Usage: "login", Handler: r.loginHandler},
		{Name: "logout", ShortName: "o", Description: "End the session and clear authentication", Usage: "logout", Handler: r.logoutHandler},
		{Name: "whoami", ShortName: "i", Description: "Show current user", Usage: "whoami", Handler: r.whoamiHandler},
		{Name: "user", ShortName: "e", Description: "Set user ID manually", Usage: "user <userId>", Handler: r.setUserHandler},
	} {
		cmd.Group = "Auth"
		r.Register(cmd)
	}
}

// readPassword reads without echo on a terminal and falls back to a plain line otherwise
func (r *Registry) readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return r.ask(prompt, ""), nil
	}
	r.printf("%s%s%s", display.Yellow, prompt, display.Reset)
	password, err := term.ReadPassword(fd)
	r.printf("\n")
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// signIn stores the authenticated identity in the session and client
func (r *Registry) signIn(s Session, token, userID, username string) {
	s.SetAuthToken(token)
	s.SetCurrentUser(userID)
	s.SetUsername(username)
	s.GetClient().SetToken(token)
	if g := s.GetGameState(); g != nil {
		s.SetGameState(g)
	}
}

func (r *Registry) registerHandler(s Session, args []string) error {
	username := r.ask("Username: ", "")
	password, err := r.readPassword("Password: ")
	if err != nil {
		return err
	}
	email := r.ask("Email (optional): ", "")

	resp, err := s.GetClient().Register(username, password, email)
	if err != nil {
		return err
	}
	r.signIn(s, resp.Token, resp.UserID, resp.Username)

	r.printf("%sRegistered successfully%s\n", display.Green, display.Reset)
	r.printf("User ID: %s\n", resp.UserID)
	r.printf("Username: %s\n", resp.Username)
	return nil
}

func (r *Registry) loginHandler(s Session, args []string) error {
	identifier := r.ask("Username or Email: ", "")
	password, err := r.readPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := s.GetClient().Login(identifier, password)
	if err != nil {
		return err
	}
	r.signIn(s, resp.Token, resp.UserID, resp.Username)

	r.printf("%sLogged in successfully%s\n", display.Green, display.Reset)
	r.printf("User ID: %s\n", resp.UserID)
	r.printf("Username: %s\n", resp.Username)
	return nil
}

func (r *Registry) logoutHandler(s Session, args []string) error {
	if s.GetAuthToken() != "" {
		if err := s.GetClient().Logout(); err != nil {
			r.printf("%sServer logout failed: %s%s\n", display.Yellow, err, display.Reset)
		}
	}
	r.signIn(s, "", "", "")

	r.printf("%sLogged out%s\n", display.Green, display.Reset)
	return nil
}

func (r *Registry) whoamiHandler(s Session, args []string) error {
	if s.GetAuthToken() == "" {
		r.printf("%sNot authenticated%s\n", display.Yellow, display.Reset)
		return nil
	}

	user, err := s.GetClient().GetCurrentUser()
	if err != nil {
		return err
	}

	r.printf("%sCurrent User:%s\n", display.Cyan, display.Reset)
	r.printf("  User ID:  %s\n", user.UserID)
	r.printf("  Username: %s\n", user.Username)
	if user.Email != "" {
		r.printf("  Email:    %s\n", user.Email)
	}
	r.printf("  Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func (r *Registry) setUserHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: user <userId>")
	}

	s.SetCurrentUser(args[0])
	if g := s.GetGameState(); g != nil {
		s.SetGameState(g)
	}
	r.printf("%sUser ID set to: %s%s\n", display.Cyan, args[0], display.Reset)
	r.printf("This does not authenticate; it only marks which side you hold\n")
	return nil
}
