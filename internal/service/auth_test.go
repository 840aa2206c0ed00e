package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"news_feed/internal/config"
	"news_feed/internal/domain"
	"news_feed/internal/service/mocks"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	users     *mocks.MockUserStore
	publisher *mocks.MockPublisher

	service *AuthService
	cfg     config.AuthConfig
	now     time.Time
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.users = mocks.NewMockUserStore(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.cfg = config.AuthConfig{
		JWTSecret:   "test-secret",
		TokenExpiry: 24 * time.Hour,
		BcryptCost:  bcrypt.MinCost,
	}
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewAuthService(s.users, s.publisher, logger, s.cfg)
	s.service.now = func() time.Time { return s.now }
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	return string(h)
}

func (s *AuthServiceTestSuite) TestSignup_Success() {
	ctx := context.Background()

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, domain.ErrUserNotFound)
	s.users.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) (*domain.User, error) {
			s.Equal("A", u.Name)
			s.NotEqual("secret1", u.PasswordHash)
			s.NoError(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
			created := u.Clone()
			created.ID = 1
			created.CreatedAt = s.now
			return created, nil
		},
	)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, e domain.UserEvent) error {
			s.Equal(domain.ActionSignedUp, e.Action)
			s.Equal(int64(1), e.UserID)
			s.Equal([]string{"space"}, e.Preferences)
			return nil
		},
	)

	user, err := s.service.Signup(ctx, SignupInput{
		Name:        "A",
		Email:       "a@x.com",
		Password:    "secret1",
		Preferences: []string{"space"},
	})

	s.NoError(err)
	s.Equal(int64(1), user.ID)
	s.Equal("a@x.com", user.Email)
	s.Equal([]string{"space"}, user.Preferences)
}

func (s *AuthServiceTestSuite) TestSignup_EmailTaken() {
	ctx := context.Background()

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(&domain.User{ID: 1, Email: "a@x.com"}, nil)

	_, err := s.service.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	s.ErrorIs(err, domain.ErrUserExists)
}

func (s *AuthServiceTestSuite) TestSignup_RaceLostAtCreate() {
	ctx := context.Background()

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, domain.ErrUserNotFound)
	s.users.EXPECT().Create(ctx, gomock.Any()).Return(nil, domain.ErrUserExists)

	_, err := s.service.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	s.ErrorIs(err, domain.ErrUserExists)
	s.Equal(domain.KindConflict, domain.KindOf(err))
}

func (s *AuthServiceTestSuite) TestSignup_PasswordTooLong() {
	ctx := context.Background()

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, domain.ErrUserNotFound)

	long := make([]byte, 80)
	for i := range long {
		long[i] = 'p'
	}

	_, err := s.service.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: string(long)})

	s.Error(err)
	s.Equal(domain.KindValidation, domain.KindOf(err))
}

func (s *AuthServiceTestSuite) TestSignup_StoreFailure() {
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, storeErr)

	_, err := s.service.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	s.ErrorIs(err, storeErr)
	s.Equal(domain.KindInternal, domain.KindOf(err))
}

func (s *AuthServiceTestSuite) TestSignup_PublisherFailureIgnored() {
	ctx := context.Background()

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, domain.ErrUserNotFound)
	s.users.EXPECT().Create(ctx, gomock.Any()).Return(&domain.User{ID: 1, Email: "a@x.com"}, nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("broker down"))

	user, err := s.service.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	s.NoError(err)
	s.Equal(int64(1), user.ID)
	s.NotNil(user.Preferences)
}

func (s *AuthServiceTestSuite) TestSignup_PublisherNil() {
	ctx := context.Background()
	s.service.publisher = nil

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, domain.ErrUserNotFound)
	s.users.EXPECT().Create(ctx, gomock.Any()).Return(&domain.User{ID: 1, Email: "a@x.com"}, nil)

	_, err := s.service.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestLogin_IssuesVerifiableToken() {
	ctx := context.Background()

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(&domain.User{
		ID:           7,
		Email:        "a@x.com",
		PasswordHash: s.hash("secret1"),
	}, nil)

	token, err := s.service.Login(ctx, "a@x.com", "secret1")
	s.Require().NoError(err)
	s.NotEmpty(token)

	claims, err := s.service.Verify(token)
	s.Require().NoError(err)
	s.Equal(int64(7), claims.UserID)
	s.Equal("a@x.com", claims.Email)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(&domain.User{
		ID:           7,
		Email:        "a@x.com",
		PasswordHash: s.hash("secret1"),
	}, nil)

	_, err := s.service.Login(ctx, "a@x.com", "wrong")

	s.ErrorIs(err, domain.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmailSameError() {
	ctx := context.Background()

	s.users.EXPECT().FindByEmail(ctx, "nobody@x.com").Return(nil, domain.ErrUserNotFound)

	_, err := s.service.Login(ctx, "nobody@x.com", "secret1")

	s.ErrorIs(err, domain.ErrInvalidCredentials)
	s.Equal("invalid credentials", domain.MessageOf(err))
}

func (s *AuthServiceTestSuite) TestVerify_Expiry() {
	ctx := context.Background()

	s.users.EXPECT().FindByEmail(ctx, "a@x.com").Return(&domain.User{
		ID:           7,
		Email:        "a@x.com",
		PasswordHash: s.hash("secret1"),
	}, nil)

	token, err := s.service.Login(ctx, "a@x.com", "secret1")
	s.Require().NoError(err)

	issued := s.now

	s.now = issued.Add(24*time.Hour - time.Second)
	_, err = s.service.Verify(token)
	s.NoError(err)

	s.now = issued.Add(24*time.Hour + time.Second)
	_, err = s.service.Verify(token)
	s.ErrorIs(err, domain.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestVerify_Rejects() {
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Hour)),
		},
	})
	otherSecret, err := foreign.SignedString([]byte("other-secret"))
	s.Require().NoError(err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{UserID: 1}).
		SignedString([]byte(s.cfg.JWTSecret))
	s.Require().NoError(err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"empty":        "",
		"other secret": otherSecret,
		"no expiry":    noExpiry,
		"alg none":     unsigned,
	} {
		_, err := s.service.Verify(token)
		s.ErrorIs(err, domain.ErrInvalidCredentials, name)
	}
}
