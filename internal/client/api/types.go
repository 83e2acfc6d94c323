// FILE: internal/client/api/types.go
package api

import (
	"time"

	"chessrules/internal/server/core"
)

// Game payloads are shared with the server
type (
	PlayerConfig       = core.PlayerConfig
	CreateGameRequest  = core.CreateGameRequest
	MoveRequest        = core.MoveRequest
	UndoRequest        = core.UndoRequest
	GameResponse       = core.GameResponse
	BoardResponse      = core.BoardResponse
	LegalMovesResponse = core.LegalMovesResponse
	ErrorResponse      = core.ErrorResponse
)

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage,omitempty"`
	Games   int    `json:"games"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
