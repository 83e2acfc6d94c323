// FILE: internal/server/http/handler.go
package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"chessrules/internal/server/core"
	"chessrules/internal/server/processor"
	"chessrules/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler translates HTTP requests into processor commands
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second, // longer than the long-poll wait
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	validateToken := svc.ValidateToken

	auth := api.Group("/auth")
	auth.Post("/register", perMinuteLimiter(5, "registrations"), h.RegisterHandler)
	auth.Post("/login", perMinuteLimiter(10, "login attempts"), h.LoginHandler)
	auth.Get("/me", AuthRequired(validateToken), h.GetCurrentUserHandler)
	auth.Post("/logout", AuthRequired(validateToken), h.LogoutHandler)

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:          maxReq,
		Expiration:   1 * time.Second,
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	// Optional auth binds the caller to claimed sides and checks them on moves
	api.Post("/games", OptionalAuth(validateToken), h.CreateGame)
	api.Put("/games/:gameId/players", OptionalAuth(validateToken), h.ConfigurePlayers)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", OptionalAuth(validateToken), h.DeleteGame)
	api.Post("/games/:gameId/moves", OptionalAuth(validateToken), h.MakeMove)
	api.Get("/games/:gameId/moves/legal", h.GetLegalMoves)
	api.Post("/games/:gameId/undo", OptionalAuth(validateToken), h.UndoMove)
	api.Post("/games/:gameId/resign", OptionalAuth(validateToken), h.Resign)
	api.Get("/games/:gameId/board", h.GetBoard)

	return app
}

// perMinuteLimiter limits an auth route per client IP
func perMinuteLimiter(max int, what string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d %s per minute allowed", max, what),
			})
		},
	})
}

// clientKey prefers the first X-Forwarded-For hop over the socket address
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	return c.IP()
}

// contentTypeValidator ensures POST and PUT requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		contentType := c.Get("Content-Type")
		if contentType != "application/json" && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrNotYourTurn, core.ErrForbidden:
		return fiber.StatusForbidden
	case core.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case core.ErrGameOver:
		return fiber.StatusConflict
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// reply writes a processor response, using status on success
func reply(c *fiber.Ctx, resp processor.ProcessorResponse, status int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(status)
	}
	return c.Status(status).JSON(resp.Data)
}

// gameIDParam returns the route's game id, or false after answering 400
func gameIDParam(c *fiber.Ctx) (string, bool) {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		_ = c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
		return "", false
	}
	return gameID, true
}

// validatedBody fetches the request parsed by validationMiddleware, or
// false after answering 500
func validatedBody[T any](c *fiber.Ctx) (T, bool) {
	var zero T
	if validated, ok := c.Locals("validated").(bool); !ok || !validated {
		_ = fail(c, fiber.StatusInternalServerError, core.ErrInternalError, "validation bypass detected", "")
		return zero, false
	}
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		_ = fail(c, fiber.StatusInternalServerError, core.ErrInternalError, "validation data missing", "")
		return zero, false
	}
	return *body, true
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
		"games":   len(h.svc.ListGames()),
	})
}

// CreateGame starts a game from the standard setup or a supplied position
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return nil
	}

	cmd := processor.NewCreateGameCommand(req)
	cmd.UserID, _ = c.Locals("userID").(string)
	return reply(c, h.proc.Execute(cmd), fiber.StatusCreated)
}

// ConfigurePlayers replaces both players mid-game
func (h *HTTPHandler) ConfigurePlayers(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.ConfigurePlayersRequest](c)
	if !ok {
		return nil
	}

	cmd := processor.NewConfigurePlayersCommand(gameID, req)
	cmd.UserID, _ = c.Locals("userID").(string)
	return reply(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// GetGame returns the game. With wait=true and a moveCount matching the
// current one, it blocks until the game changes, the wait times out or the
// client goes away.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}

	if c.Query("wait", "false") != "true" {
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	ctx := c.Context()
	notify, changed, err := h.svc.WaitForMove(ctx, gameID, moveCount)
	if err != nil {
		return fail(c, fiber.StatusNotFound, core.ErrGameNotFound, "game not found", "")
	}
	if !changed {
		select {
		case <-notify:
			// changed, finished, timed out, deleted or shutting down
		case <-ctx.Done():
			return nil
		}
	}
	return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
}

// MakeMove submits a move in coordinate notation
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.MoveRequest](c)
	if !ok {
		return nil
	}

	cmd := processor.NewMakeMoveCommand(gameID, req)
	cmd.UserID, _ = c.Locals("userID").(string)
	return reply(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// GetLegalMoves lists the moves available to the side to move
func (h *HTTPHandler) GetLegalMoves(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	return reply(c, h.proc.Execute(processor.NewLegalMovesCommand(gameID)), fiber.StatusOK)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.UndoRequest](c)
	if !ok {
		return nil
	}
	cmd := processor.NewUndoMoveCommand(gameID, req)
	cmd.UserID, _ = c.Locals("userID").(string)
	return reply(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// Resign ends the game with the named side losing
func (h *HTTPHandler) Resign(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.ResignRequest](c)
	if !ok {
		return nil
	}

	cmd := processor.NewResignCommand(gameID, req)
	cmd.UserID, _ = c.Locals("userID").(string)
	return reply(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// DeleteGame removes a game from memory and storage
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	cmd := processor.NewDeleteGameCommand(gameID)
	cmd.UserID, _ = c.Locals("userID").(string)
	return reply(c, h.proc.Execute(cmd), fiber.StatusNoContent)
}

// GetBoard returns the board rows and an ASCII diagram
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	return reply(c, h.proc.Execute(processor.NewGetBoardCommand(gameID)), fiber.StatusOK)
}
