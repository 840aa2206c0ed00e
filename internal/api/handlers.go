package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"news_feed/internal/service"
)

type signupRequest struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Preferences []string `json:"preferences"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type preferencesRequest struct {
	Preferences []string `json:"preferences" validate:"required"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func (s *Server) signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.auth.Signup(c.Request().Context(), service.SignupInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Preferences: req.Preferences,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := s.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

func (s *Server) getPreferences(c echo.Context) error {
	prefs, err := s.prefs.Get(c.Request().Context(), claimsFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

func (s *Server) updatePreferences(c echo.Context) error {
	var req preferencesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	prefs, err := s.prefs.Update(c.Request().Context(), claimsFrom(c).UserID, req.Preferences)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

// getNews builds the feed from the caller's stored preferences.
func (s *Server) getNews(c echo.Context) error {
	ctx := c.Request().Context()

	prefs, err := s.prefs.Get(ctx, claimsFrom(c).UserID)
	if err != nil {
		return err
	}

	feed, err := s.feed.GetNews(ctx, prefs.Preferences)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feed)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
