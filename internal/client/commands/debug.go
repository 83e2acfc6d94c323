// FILE: internal/client/commands/debug.go
package commands

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"chessrules/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	for _, cmd := range []*Command{
		{Name: "health", ShortName: ".", Description: "Check server health", Usage: "health", Handler: r.healthHandler},
		{Name: "url", ShortName: "/", Description: "Set API base URL", Usage: "url [apiUrl]", Handler: r.urlHandler},
		{Name: "raw", ShortName: ":", Description: "Send raw API request", Usage: "raw <method> <path> [json-body]", Handler: r.rawRequestHandler},
		{Name: "clear", ShortName: "-", Description: "Clear screen", Usage: "clear", Handler: r.clearHandler},
	} {
		cmd.Group = "Utility"
		r.Register(cmd)
	}
}

func (r *Registry) healthHandler(s Session, args []string) error {
	resp, err := s.GetClient().Health()
	if err != nil {
		return err
	}

	r.printf("%sServer Health:%s\n", display.Cyan, display.Reset)
	r.printf("  Status:  %s\n", resp.Status)
	r.printf("  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	r.printf("  Games:   %d\n", resp.Games)
	if resp.Storage != "" {
		r.printf("  Storage: %s\n", resp.Storage)
	}
	return nil
}

func (r *Registry) urlHandler(s Session, args []string) error {
	if len(args) == 0 {
		r.printf("Current API URL: %s\n", s.GetAPIBaseURL())
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	s.SetAPIBaseURL(url)
	s.GetClient().SetBaseURL(url)

	r.printf("%sAPI URL set to: %s%s\n", display.Cyan, url, display.Reset)
	return nil
}

func (r *Registry) rawRequestHandler(s Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}
	return s.GetClient().RawRequest(strings.ToUpper(args[0]), args[1], body)
}

func (r *Registry) clearHandler(s Session, args []string) error {
	cmd := exec.Command("clear")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}
