package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/token"
	"github.com/jrsteele09/kitshop-gateway/users"
	"github.com/rs/zerolog/log"
)

// TokenTypeBearer is reported to clients alongside every issued session token
const TokenTypeBearer = "bearer"

// RegisterRequest carries the fields accepted when a local account is created
type RegisterRequest struct {
	Login       string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	APIAccessID *int64 `json:"api_access_id,omitempty"`
}

// LoginResult is returned on a successful login
type LoginResult struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// Service handles local account registration, login and bearer token authentication
type Service struct {
	users     users.UserRepo
	tokens    *token.Manager
	validator *Validator
	nowTime   func() time.Time
	dummyHash string
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(userRepo users.UserRepo, tokens *token.Manager, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "[NewService] users repo is required")
	}
	if tokens == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "[NewService] token manager is required")
	}

	// Compared against when the login is unknown so both failure paths cost one bcrypt check.
	dummyHash, err := users.HashPassword("kitshop-gateway-unknown-user")
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] HashPassword")
	}

	s := &Service{
		users:     userRepo,
		tokens:    tokens,
		validator: NewValidator(),
		nowTime:   time.Now,
		dummyHash: dummyHash,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Register creates a local account with a bcrypt-hashed password
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.User, error) {
	req.Login = strings.TrimSpace(req.Login)
	if err := s.validator.ValidateRegistration(req); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidRequest, err.Error())
	}

	hash, err := users.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] HashPassword")
	}

	user := &users.User{
		Login:        req.Login,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		APIAccessID:  req.APIAccessID,
		CreatedAt:    s.nowTime().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] Create")
	}

	log.Info().Int64("user_id", user.ID).Str("login", user.Login).Msg("user registered")
	return user, nil
}

// Login checks the credentials and issues a session token. An unknown login and a wrong
// password both return errors.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	if err := s.validator.ValidateUserCredentials(login, password); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, errors.ErrUserNotFound) {
		users.CheckPasswordHash(password, s.dummyHash)
		log.Debug().Str("login", login).Msg("login rejected: unknown user")
		return nil, errors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] GetByLogin")
	}

	if !user.CheckPassword(password) {
		log.Debug().Int64("user_id", user.ID).Msg("login rejected: password mismatch")
		return nil, errors.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] Issue")
	}

	return &LoginResult{
		Token:     signed,
		TokenType: TokenTypeBearer,
		ExpiresIn: int64(token.SessionTokenExpiry / time.Second),
	}, nil
}

// Authenticate returns the user id carried by a valid session token
func (s *Service) Authenticate(rawToken string) (int64, bool) {
	if err := s.validator.ValidateAccessToken(rawToken); err != nil {
		return 0, false
	}
	identity, ok := s.tokens.Verify(rawToken)
	if !ok {
		return 0, false
	}
	return identity.UserID, true
}

// CurrentUser resolves the account behind a valid session token
func (s *Service) CurrentUser(ctx context.Context, rawToken string) (*users.User, error) {
	userID, ok := s.Authenticate(rawToken)
	if !ok {
		return nil, errors.ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, errors.ErrUserNotFound) {
		return nil, errors.ErrInvalidToken
	}
	return user, err
}
