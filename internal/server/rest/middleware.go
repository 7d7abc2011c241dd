package rest

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/logging"
	"github.com/dmitrijs2005/vidhub/internal/server/apierr"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

type ctxKey string

const principalKey ctxKey = "principal"

// principalFrom returns the authenticated user stored by the auth guard.
func principalFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(principalKey).(*models.User)
	return u, ok && u != nil
}

// principal is the user behind a guarded request. Routes without the
// guard get nil.
func principal(c *fiber.Ctx) *models.User {
	u, _ := principalFrom(c.UserContext())
	return u
}

// accessToken reads the token from the access cookie, falling back to the
// Authorization header.
func accessToken(c *fiber.Ctx) string {
	if t := c.Cookies(common.AccessTokenCookieName); t != "" {
		return t
	}
	h := c.Get(common.AuthorizationHeader)
	return strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix))
}

// authGuard rejects requests without a valid access token and attaches the
// resolved user to the request. Every failure is a 401.
func (s *Server) authGuard(c *fiber.Ctx) error {
	token := accessToken(c)
	if token == "" {
		return apierr.Unauthorized("Unauthorized request")
	}

	claims, err := s.verifier.VerifyAccess(token)
	if err != nil {
		if ae, ok := apierr.As(err); ok && ae.StatusCode == fiber.StatusUnauthorized {
			return ae
		}
		return apierr.Unauthorized("Invalid Access Token").WithCause(err)
	}

	user, err := s.principals.GetByID(c.UserContext(), claims.UserID)
	if err != nil || user == nil {
		return apierr.Unauthorized("Invalid Access Token").WithCause(err)
	}

	ctx := context.WithValue(c.UserContext(), principalKey, user)
	c.SetUserContext(logging.ContextWith(ctx, "user_id", user.ID))
	return c.Next()
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		c.SetUserContext(logging.ContextWith(c.UserContext(), "request_id", rid))
	}

	err := c.Next()
	if err != nil {
		// Render now so the logged status is the one the client sees.
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(c.UserContext(), "HTTP Request",
		"method", c.Method(),
		"path", c.Path(),
		"ip", c.IP(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start),
	)
	return nil
}

// jsonBodyLimit caps non-multipart bodies at limit bytes. Multipart uploads
// are bounded by the app-wide BodyLimit instead.
func jsonBodyLimit(limit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limit <= 0 {
			return c.Next()
		}
		ct := strings.ToLower(c.Get(fiber.HeaderContentType))
		if strings.HasPrefix(ct, fiber.MIMEMultipartForm) {
			return c.Next()
		}
		if len(c.Body()) > limit {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Request body too large")
		}
		return c.Next()
	}
}
