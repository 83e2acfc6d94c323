// FILE: internal/server/http/auth.go
package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"chessrules/internal/server/core"
	"chessrules/internal/server/service"
	"chessrules/internal/server/storage"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=40,username"`
	Email    string `json:"email" validate:"omitempty,max=255,email"`
	Password string `json:"password" validate:"required,min=8,max=128,password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"` // username or email
	Password   string `json:"password" validate:"required,max=128"`
}

// AuthResponse carries a fresh token; any older token of the user stops working
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

func fail(c *fiber.Ctx, status int, code, msg, details string) error {
	return c.Status(status).JSON(core.ErrorResponse{Error: msg, Code: code, Details: details})
}

// authBody parses and validates an auth payload. Auth routes sit outside the
// game validation middleware. On false the error response is already sent.
func authBody[T any](c *fiber.Ctx) (*T, bool) {
	req := new(T)
	if err := c.BodyParser(req); err != nil {
		_ = fail(c, fiber.StatusBadRequest, core.ErrInvalidRequest, "invalid request body", err.Error())
		return nil, false
	}
	if err := validate.Struct(req); err != nil {
		_ = fail(c, fiber.StatusBadRequest, core.ErrInvalidRequest, "validation failed", describeValidation(err))
		return nil, false
	}
	return req, true
}

// issueToken opens a session for user and answers with its token
func (h *HTTPHandler) issueToken(c *fiber.Ctx, status int, user *service.User) error {
	token, err := h.svc.GenerateUserToken(user.UserID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, core.ErrInternalError, "failed to generate token", "")
	}
	return c.Status(status).JSON(AuthResponse{
		Token:     token,
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(service.SessionTTL),
	})
}

// RegisterHandler creates an account and signs the new user in.
// Usernames and emails are stored lower case.
func (h *HTTPHandler) RegisterHandler(c *fiber.Ctx) error {
	req, ok := authBody[RegisterRequest](c)
	if !ok {
		return nil
	}

	user, err := h.svc.CreateUser(strings.ToLower(req.Username), strings.ToLower(req.Email), req.Password)
	switch {
	case errors.Is(err, storage.ErrUserExists):
		return fail(c, fiber.StatusConflict, core.ErrInvalidRequest, "user already exists", "username or email already taken")
	case errors.Is(err, service.ErrStorageDisabled):
		return storageDisabled(c)
	case err != nil:
		return fail(c, fiber.StatusInternalServerError, core.ErrInternalError, "failed to create user", "")
	}
	return h.issueToken(c, fiber.StatusCreated, user)
}

// LoginHandler answers unknown users and wrong passwords the same way
func (h *HTTPHandler) LoginHandler(c *fiber.Ctx) error {
	req, ok := authBody[LoginRequest](c)
	if !ok {
		return nil
	}

	user, err := h.svc.AuthenticateUser(strings.ToLower(req.Identifier), req.Password)
	switch {
	case errors.Is(err, service.ErrStorageDisabled):
		return storageDisabled(c)
	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, core.ErrUnauthorized, "invalid credentials", "")
	case err != nil:
		return fail(c, fiber.StatusInternalServerError, core.ErrInternalError, "login failed", "")
	}
	return h.issueToken(c, fiber.StatusOK, user)
}

func (h *HTTPHandler) GetCurrentUserHandler(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return fail(c, fiber.StatusUnauthorized, core.ErrUnauthorized, "unauthorized", "")
	}

	user, err := h.svc.GetUserByID(userID)
	if err != nil {
		return fail(c, fiber.StatusNotFound, core.ErrInvalidRequest, "user not found", "")
	}
	return c.JSON(UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// LogoutHandler ends the caller's session so its tokens stop validating
func (h *HTTPHandler) LogoutHandler(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	err := h.svc.Logout(userID)
	switch {
	case errors.Is(err, service.ErrStorageDisabled):
		return storageDisabled(c)
	case err != nil:
		return fail(c, fiber.StatusInternalServerError, core.ErrInternalError, "logout failed", "")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func storageDisabled(c *fiber.Ctx) error {
	return fail(c, fiber.StatusServiceUnavailable, core.ErrInternalError, "accounts unavailable", "server runs without storage")
}
