// FILE: internal/client/api/client.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"chessrules/internal/client/display"
	"chessrules/internal/server/core"
)

// Client talks to the server API and echoes every exchange to Out
type Client struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second, // above the server's long-poll wait
		},
		Out: os.Stdout,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) SetToken(token string) {
	c.AuthToken = token
}

func (c *Client) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Client) printJSON(label string, data []byte) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		c.printf("%s%s:%s\n%s\n", display.Cyan, label, display.Reset, data)
		return
	}
	pretty, _ := json.MarshalIndent(v, "", "  ")
	c.printf("%s%s:%s\n%s\n", display.Cyan, label, display.Reset, pretty)
}

func (c *Client) doRequest(method, path string, body any, result any) error {
	var bodyReader io.Reader
	var bodyData []byte
	if body != nil {
		var err error
		if bodyData, err = json.Marshal(body); err != nil {
			return err
		}
		bodyReader = bytes.NewReader(bodyData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	c.printf("\n%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	if len(bodyData) > 0 {
		if c.Verbose {
			c.printJSON("Request Body", bodyData)
		} else {
			c.printf("%s%s%s\n", display.Blue, bodyData, display.Reset)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.printf("%s[ERROR] %s%s\n", display.Red, err.Error(), display.Reset)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	c.printf("%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)
	if c.Verbose && len(respBody) > 0 {
		c.printJSON("Response Body", respBody)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Code != "" {
			if !c.Verbose {
				c.printf("%sError: %s (%s)%s\n", display.Red, errResp.Error, errResp.Code, display.Reset)
				if errResp.Details != "" {
					c.printf("%sDetails: %s%s\n", display.Red, errResp.Details, display.Reset)
				}
			}
			return &StatusError{Status: resp.StatusCode, Response: errResp}
		}
		if !c.Verbose {
			c.printf("%s%s%s\n", display.Red, respBody, display.Reset)
		}
		return &StatusError{Status: resp.StatusCode}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			c.printf("%sResponse parse error: %s%s\n", display.Red, err.Error(), display.Reset)
			return err
		}
	}
	return nil
}

// StatusError is returned for any response with status 400 or above
type StatusError struct {
	Status   int
	Response ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Response.Code != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Response.Code)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req *CreateGameRequest) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", req, &resp)
	return &resp, err
}

func (c *Client) ConfigurePlayers(gameID string, white, black PlayerConfig) (*GameResponse, error) {
	var resp GameResponse
	req := &core.ConfigurePlayersRequest{White: white, Black: black}
	err := c.doRequest(http.MethodPut, "/api/v1/games/"+gameID+"/players", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID, nil, &resp)
	return &resp, err
}

// GetGameWithPoll blocks until the game's move count differs from moveCount
// or the server's wait expires
func (c *Client) GetGameWithPoll(gameID string, moveCount int) (*GameResponse, error) {
	var resp GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&moveCount=%d", gameID, moveCount)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, "/api/v1/games/"+gameID, nil, nil)
}

func (c *Client) MakeMove(gameID string, move string) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/moves", &MoveRequest{Move: move}, &resp)
	return &resp, err
}

func (c *Client) LegalMoves(gameID string) (*LegalMovesResponse, error) {
	var resp LegalMovesResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID+"/moves/legal", nil, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/undo", &UndoRequest{Count: count}, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*BoardResponse, error) {
	var resp BoardResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID+"/board", nil, &resp)
	return &resp, err
}

func (c *Client) Register(username, password, email string) (*AuthResponse, error) {
	var resp AuthResponse
	req := &RegisterRequest{Username: username, Password: password, Email: email}
	err := c.doRequest(http.MethodPost, "/api/v1/auth/register", req, &resp)
	return &resp, err
}

func (c *Client) Login(identifier, password string) (*AuthResponse, error) {
	var resp AuthResponse
	req := &LoginRequest{Identifier: identifier, Password: password}
	err := c.doRequest(http.MethodPost, "/api/v1/auth/login", req, &resp)
	return &resp, err
}

func (c *Client) Logout() error {
	return c.doRequest(http.MethodPost, "/api/v1/auth/logout", nil, nil)
}

func (c *Client) GetCurrentUser() (*UserResponse, error) {
	var resp UserResponse
	err := c.doRequest(http.MethodGet, "/api/v1/auth/me", nil, &resp)
	return &resp, err
}

// RawRequest sends body as JSON when it parses, else as a JSON string
func (c *Client) RawRequest(method, path string, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			bodyData = body
		}
	}
	return c.doRequest(method, path, bodyData, nil)
}
