package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/filex"
	"github.com/dmitrijs2005/vidhub/internal/server/apierr"
	"github.com/dmitrijs2005/vidhub/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
}

type tokensData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginData struct {
	User         any    `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// parseBody decodes an optional request body. An empty body leaves dst as is.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return apierr.BadRequest("Invalid request body").WithCause(err)
	}
	return nil
}

// stageFile saves the first file of the multipart field into the upload
// directory. A missing file yields an empty path.
func (s *Server) stageFile(c *fiber.Ctx, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return "", nil
	}
	path := filex.StagingPath(s.uploadDir, fh.Filename)
	if err := c.SaveFile(fh, path); err != nil {
		return "", apierr.Internal("Error while saving uploaded file").WithCause(err)
	}
	return path, nil
}

func (s *Server) healthz(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, fiber.Map{"status": "ok"}, "OK")
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	avatar, err := s.stageFile(c, "avatar")
	if err != nil {
		return err
	}
	cover, err := s.stageFile(c, "coverImage")
	if err != nil {
		_ = filex.RemoveQuietly(avatar)
		return err
	}

	user, err := s.accounts.Register(c.UserContext(), services.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		AvatarPath:     avatar,
		CoverImagePath: cover,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, user, "User registered Successfully")
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := s.accounts.Login(c.UserContext(), services.LoginInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	s.setTokenCookies(c, res.Tokens)
	return respond(c, http.StatusOK, loginData{
		User:         res.User,
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	}, "User logged In Successfully")
}

func (s *Server) logout(c *fiber.Ctx) error {
	if err := s.accounts.Logout(c.UserContext(), principal(c).ID); err != nil {
		return err
	}
	s.clearTokenCookies(c)
	return respond(c, http.StatusOK, fiber.Map{}, "User logged Out")
}

func (s *Server) refreshToken(c *fiber.Ctx) error {
	token := c.Cookies(common.RefreshTokenCookieName)
	if token == "" {
		var req refreshRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		token = req.RefreshToken
	}

	pair, err := s.accounts.Refresh(c.UserContext(), strings.TrimSpace(token))
	if err != nil {
		return err
	}

	s.setTokenCookies(c, pair)
	return respond(c, http.StatusOK, tokensData{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

func (s *Server) changePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := s.accounts.ChangePassword(c.UserContext(), principal(c).ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{}, "Password changed successfully")
}

func (s *Server) currentUser(c *fiber.Ctx) error {
	user, err := s.accounts.CurrentUser(c.UserContext(), principal(c).ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "User fetched successfully")
}

func (s *Server) updateAccount(c *fiber.Ctx) error {
	var req updateAccountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := s.accounts.UpdateProfile(c.UserContext(), principal(c).ID, req.FullName, req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Account details updated successfully")
}

func (s *Server) updateAvatar(c *fiber.Ctx) error {
	path, err := s.stageFile(c, "avatar")
	if err != nil {
		return err
	}
	user, err := s.accounts.UpdateAvatar(c.UserContext(), principal(c).ID, path)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Avatar image updated successfully")
}

func (s *Server) updateCoverImage(c *fiber.Ctx) error {
	path, err := s.stageFile(c, "coverImage")
	if err != nil {
		return err
	}
	user, err := s.accounts.UpdateCoverImage(c.UserContext(), principal(c).ID, path)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Cover image updated successfully")
}

func (s *Server) channelProfile(c *fiber.Ctx) error {
	profile, err := s.channels.ChannelProfile(c.UserContext(), principal(c).ID, c.Params("username"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile, "User channel fetched successfully")
}

func (s *Server) watchHistory(c *fiber.Ctx) error {
	history, err := s.channels.WatchHistory(c.UserContext(), principal(c).ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, history, "Watch history fetched successfully")
}
