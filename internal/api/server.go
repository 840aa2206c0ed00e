package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"news_feed/internal/domain"
	"news_feed/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, in service.SignupInput) (*domain.PublicUser, error)
	Login(ctx context.Context, email, password string) (string, error)
	Verify(token string) (*domain.Claims, error)
}

type PreferenceService interface {
	Get(ctx context.Context, userID int64) (*domain.Preferences, error)
	Update(ctx context.Context, userID int64, prefs []string) (*domain.Preferences, error)
}

type FeedService interface {
	GetNews(ctx context.Context, preferences []string) (*domain.Feed, error)
}

type Config struct {
	// LoginRateLimit is requests per second per client IP on /users/login.
	// Zero disables the limiter.
	LoginRateLimit float64
}

type Server struct {
	echo   *echo.Echo
	auth   AuthService
	prefs  PreferenceService
	feed   FeedService
	logger *slog.Logger
}

func New(auth AuthService, prefs PreferenceService, feed FeedService, logger *slog.Logger, cfg Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	s := &Server{
		echo:   e,
		auth:   auth,
		prefs:  prefs,
		feed:   feed,
		logger: logger.With("component", "api"),
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	e.GET("/health", s.health)

	users := e.Group("/users")
	users.POST("/signup", s.signup)
	if cfg.LoginRateLimit > 0 {
		users.POST("/login", s.login, loginLimiter(cfg.LoginRateLimit))
	} else {
		users.POST("/login", s.login)
	}
	users.GET("/preferences", s.getPreferences, s.requireAuth)
	users.PUT("/preferences", s.updatePreferences, s.requireAuth)

	e.GET("/news", s.getNews, s.requireAuth)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func loginLimiter(rps float64) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(rps),
			Burst: max(1, int(rps)),
		}),
	})
}

// handleError writes {"message": ...} with a status derived from the error kind.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, errorResponse{Message: msg})
	}
	if werr != nil {
		s.logger.Error("failed to write error response", "error", werr)
	}
}

func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			return he.Code, m
		}
		return he.Code, http.StatusText(he.Code)
	}

	msg := domain.MessageOf(err)
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest, msg
	case domain.KindAuth:
		return http.StatusUnauthorized, msg
	case domain.KindNotFound:
		return http.StatusNotFound, msg
	case domain.KindConflict:
		return http.StatusConflict, msg
	default:
		return http.StatusInternalServerError, msg
	}
}
