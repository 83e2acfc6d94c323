// FILE: internal/server/core/api.go
package core

import "chessrules/internal/rules"

// Request types

type CreateGameRequest struct {
	White PlayerConfig `json:"white"`
	Black PlayerConfig `json:"black"`
	// Position starts the game from a custom snapshot instead of the standard setup
	Position *rules.Snapshot `json:"position,omitempty"`
}

type ConfigurePlayersRequest struct {
	White PlayerConfig `json:"white"`
	Black PlayerConfig `json:"black"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=4,max=7"` // "e2e4", "e7e8q" or "E7-E8=Q"
}

// ResignRequest names the side that gives up
type ResignRequest struct {
	Color string `json:"color" validate:"required,oneof=w b"`
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

// Response types

type GameResponse struct {
	GameID   string          `json:"gameId"`
	Position rules.Snapshot  `json:"position"`
	Turn     string          `json:"turn"`  // "w" or "b"
	State    string          `json:"state"` // "ongoing", "check", "white wins", ...
	Moves    []string        `json:"moves"`
	Players  PlayersResponse `json:"players"`
	LastMove *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Captured    string `json:"captured,omitempty"`
	Special     string `json:"special,omitempty"` // "castling", "en passant", "promotion"
}

type BoardResponse struct {
	Rows  []string `json:"rows"`  // rank 1 first, '.' for empty
	Board string   `json:"board"` // ASCII diagram
}

type LegalMovesResponse struct {
	GameID string   `json:"gameId"`
	Turn   string   `json:"turn"`
	Moves  []string `json:"moves"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
