package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"news_feed/internal/config"
	"news_feed/internal/domain"
)

type SignupInput struct {
	Name        string
	Email       string
	Password    string
	Preferences []string
}

type tokenClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users     UserStore
	publisher Publisher
	logger    *slog.Logger
	secret    []byte
	expiry    time.Duration
	cost      int
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users UserStore, publisher Publisher, logger *slog.Logger, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:     users,
		publisher: publisher,
		logger:    logger.With("component", "auth"),
		secret:    []byte(cfg.JWTSecret),
		expiry:    cfg.TokenExpiry,
		cost:      cfg.BcryptCost,
		now:       time.Now,
	}
}

// Signup registers a new user and returns its public view. The password is
// hashed before anything is written.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.PublicUser, error) {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, passthrough("find user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.NewValidationError("password is too long")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Preferences:  domain.ClonePreferences(in.Preferences),
	})
	if err != nil {
		return nil, passthrough("create user", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID)

	publish(ctx, s.publisher, s.logger, domain.UserEvent{
		Action:      domain.ActionSignedUp,
		UserID:      user.ID,
		Email:       user.Email,
		Preferences: domain.ClonePreferences(user.Preferences),
		Timestamp:   s.now().UTC(),
	})

	return user.Public(), nil
}

// Login checks credentials and issues a signed token. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", passthrough("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("password mismatch", "user_id", user.ID)
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify validates signature and expiry and returns the token's claims.
func (s *AuthService) Verify(token string) (*domain.Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Claims{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *AuthService) issue(user *domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
