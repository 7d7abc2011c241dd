package rest

import (
	"time"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) tokenCookie(name, value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.cookieSecure,
		SameSite: s.cookieSameSite,
	}
}

func (s *Server) setTokenCookies(c *fiber.Ctx, pair *services.TokenPair) {
	c.Cookie(s.tokenCookie(common.AccessTokenCookieName, pair.AccessToken))
	c.Cookie(s.tokenCookie(common.RefreshTokenCookieName, pair.RefreshToken))
}

func (s *Server) clearTokenCookies(c *fiber.Ctx) {
	for _, name := range []string{common.AccessTokenCookieName, common.RefreshTokenCookieName} {
		ck := s.tokenCookie(name, "")
		ck.Expires = time.Unix(0, 0)
		c.Cookie(ck)
	}
}
