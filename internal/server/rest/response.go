package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/vidhub/internal/server/apierr"
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope of every successful reply.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the envelope of every failed reply.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	message := "Internal server error"
	details := []string{}

	var fe *fiber.Error
	if ae, ok := apierr.As(err); ok {
		status, message = ae.StatusCode, ae.Message
		if len(ae.Errors) > 0 {
			details = ae.Errors
		}
	} else if errors.As(err, &fe) {
		status, message = fe.Code, fe.Message
	}

	ctx := c.UserContext()
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "path", c.Path(), "status", status, "error", err)
	} else {
		s.logger.Debug(ctx, "request rejected", "path", c.Path(), "status", status, "error", err)
	}

	return c.Status(status).JSON(ErrorResponse{
		StatusCode: status,
		Data:       nil,
		Message:    message,
		Success:    false,
		Errors:     details,
	})
}
