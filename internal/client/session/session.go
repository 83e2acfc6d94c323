// FILE: internal/client/session/session.go
// Package session holds the client's mutable state between commands
package session

import (
	"chessrules/internal/client/api"
)

type Session struct {
	APIBaseURL       string
	Client           *api.Client
	Verbose          bool
	AuthToken        string
	CurrentUser      string
	Username         string
	CurrentGame      string
	CurrentGameState *api.GameResponse
	LastMoveCount    int
	PlayerColor      string // "w", "b" or empty when the user holds no side
}

func New(baseURL string) *Session {
	return &Session{
		APIBaseURL: baseURL,
		Client:     api.New(baseURL),
	}
}

func (s *Session) GetAPIBaseURL() string { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(url string) { s.APIBaseURL = url }
func (s *Session) GetCurrentGame() string { return s.CurrentGame }
func (s *Session) GetCurrentUser() string { return s.CurrentUser }
func (s *Session) SetCurrentUser(id string) { s.CurrentUser = id }
func (s *Session) GetAuthToken() string { return s.AuthToken }
func (s *Session) SetAuthToken(token string) { s.AuthToken = token }
func (s *Session) GetUsername() string { return s.Username }
func (s *Session) SetUsername(name string) { s.Username = name }
func (s *Session) GetLastMoveCount() int { return s.LastMoveCount }
func (s *Session) SetLastMoveCount(n int) { s.LastMoveCount = n }
func (s *Session) GetClient() *api.Client { return s.Client }
func (s *Session) IsVerbose() bool { return s.Verbose }
func (s *Session) GetGameState() *api.GameResponse { return s.CurrentGameState }
func (s *Session) GetPlayerColor() string { return s.PlayerColor }
func (s *Session) SetPlayerColor(c string) { s.PlayerColor = c }

// SetCurrentGame switches games and forgets the old game's state
func (s *Session) SetCurrentGame(id string) {
	if id != s.CurrentGame {
		s.CurrentGameState = nil
		s.LastMoveCount = 0
		s.PlayerColor = ""
	}
	s.CurrentGame = id
}

// SetGameState records the latest game view and the side held by the user
func (s *Session) SetGameState(g *api.GameResponse) {
	s.CurrentGameState = g
	if g == nil {
		return
	}
	s.LastMoveCount = len(g.Moves)
	s.PlayerColor = ""
	if s.CurrentUser == "" {
		return
	}
	if p := g.Players.White; p != nil && p.UserID == s.CurrentUser {
		s.PlayerColor = "w"
	} else if p := g.Players.Black; p != nil && p.UserID == s.CurrentUser {
		s.PlayerColor = "b"
	}
}
