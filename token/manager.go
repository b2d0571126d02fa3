package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// The algorithm and expiry are part of the token wire format; changing either
// invalidates every outstanding session token.
var SigningMethod = jwt.SigningMethodHS256

const SessionTokenExpiry = 60 * 24 * time.Hour

// Manager issues and verifies session tokens. It holds no per-token state.
type Manager struct {
	signer  Signer
	nowFunc func() time.Time
	logger  zerolog.Logger
}

type ManagerOption func(*Manager)

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer:  signer,
		nowFunc: time.Now,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Issue creates a session token for userID that expires SessionTokenExpiry from now
func (m *Manager) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "user id must be positive, got %d", userID)
	}

	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(m.nowFunc().UTC().Add(SessionTokenExpiry)),
		},
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "Manager.Issue Sign")
	}
	return signed, nil
}

// Inspect parses and validates rawToken, reporting the specific failure reason
func (m *Manager) Inspect(rawToken string) Verification {
	if strings.TrimSpace(rawToken) == "" {
		return invalid(ReasonMalformed)
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.nowFunc),
	)
	if err != nil {
		return invalid(reasonFor(err))
	}
	if !token.Valid {
		return invalid(ReasonMalformed)
	}
	if claims.UserID <= 0 {
		return invalid(ReasonMissingUser)
	}
	return valid(claims)
}

// Verify returns the bearer's identity, or false for any malformed, forged or
// expired token. The failure reason is logged but not exposed.
func (m *Manager) Verify(rawToken string) (*Identity, bool) {
	result := m.Inspect(rawToken)
	if !result.Valid {
		m.logger.Debug().Str("reason", string(result.Reason)).Msg("session token rejected")
		return nil, false
	}
	return &Identity{UserID: result.Claims.UserID}, true
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, errors.ErrConfiguration):
		return ReasonSecretUnavailable
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonSignature
	default:
		return ReasonMalformed
	}
}
