// FILE: internal/server/core/player.go
package core

import (
	"github.com/google/uuid"

	"chessrules/internal/rules"
)

// Player occupies one side of a game. UserID is set when the side is bound
// to an account; only that account may then move for it.
type Player struct {
	ID     string `json:"id"`
	Color  Color  `json:"color"`
	Name   string `json:"name,omitempty"`
	UserID string `json:"userId,omitempty"`
}

// PlayerConfig for API requests
type PlayerConfig struct {
	Name  string `json:"name,omitempty" validate:"omitempty,max=40"`
	Claim bool   `json:"claim,omitempty"` // bind the side to the authenticated caller
}

type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

// NewPlayer creates a Player from PlayerConfig. userID is only bound when
// the config claims the side.
func NewPlayer(config PlayerConfig, color Color, userID string) *Player {
	player := &Player{
		ID:    uuid.New().String(),
		Color: color,
		Name:  config.Name,
	}
	if config.Claim {
		player.UserID = userID
	}
	return player
}

// CanMove reports whether userID may move for this player
func (p *Player) CanMove(userID string) bool {
	return p.UserID == "" || p.UserID == userID
}

type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "w"
	case ColorBlack:
		return "b"
	default:
		return "-"
	}
}

// ParseColor accepts "w" or "b"
func ParseColor(s string) (Color, bool) {
	switch s {
	case "w":
		return ColorWhite, true
	case "b":
		return ColorBlack, true
	}
	return 0, false
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ColorOf converts an engine colour
func ColorOf(c rules.Color) Color {
	if c == rules.White {
		return ColorWhite
	}
	return ColorBlack
}
