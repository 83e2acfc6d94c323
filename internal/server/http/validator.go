// FILE: internal/server/http/validator.go
package http

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"chessrules/internal/server/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	validate      = newValidator()
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// newValidator adds the account tags: username (letters, digits and
// underscore) and password (at least one letter and one digit)
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var letter, digit bool
		for _, r := range fl.Field().String() {
			letter = letter || unicode.IsLetter(r)
			digit = digit || unicode.IsDigit(r)
		}
		return letter && digit
	})
	return v
}

// requestFor picks the body type of a mutating game route, nil if the
// route takes no body
func requestFor(method, path string) any {
	switch {
	case method == fiber.MethodPost && strings.HasSuffix(path, "/games"):
		return &core.CreateGameRequest{}
	case method == fiber.MethodPut && strings.HasSuffix(path, "/players"):
		return &core.ConfigurePlayersRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/moves"):
		return &core.MoveRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/undo"):
		return &core.UndoRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/resign"):
		return &core.ResignRequest{}
	}
	return nil
}

// validationMiddleware parses and validates request bodies before handlers
// see them. Handlers read the result from Locals("validatedBody").
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	req := requestFor(method, c.Path())
	if req == nil {
		return c.Next()
	}

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	c.Locals("validatedBody", req)
	c.Locals("validated", true)
	return c.Next()
}

// describeValidation renders validator errors as one readable line
func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var details []string
	for _, fe := range errs {
		unit := ""
		if fe.Type().Kind() == reflect.String {
			unit = " characters"
		}
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s%s", fe.Field(), fe.Param(), unit))
		case "max":
			details = append(details, fmt.Sprintf("%s must be at most %s%s", fe.Field(), fe.Param(), unit))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "username":
			details = append(details, fmt.Sprintf("%s may contain only letters, digits and underscore", fe.Field()))
		case "password":
			details = append(details, fmt.Sprintf("%s must contain at least one letter and one number", fe.Field()))
		default:
			details = append(details, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(details, "; ")
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
