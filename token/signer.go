package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer is an interface for signing and verifying JWT tokens
type Signer interface {
	// Sign creates a signed JWT token from claims
	Sign(claims jwt.Claims) (string, error)

	// GetVerificationKey returns the key used to verify a parsed token
	GetVerificationKey(token *jwt.Token) (any, error)

	// GetSigningMethod returns the JWT signing method used
	GetSigningMethod() jwt.SigningMethod
}

// HMACSigner implements Signer using symmetric HMAC-SHA256. The key is fetched from
// the secret source on each call, so a rotated secret invalidates outstanding tokens.
type HMACSigner struct {
	secrets SecretSource
}

var _ Signer = (*HMACSigner)(nil)

// NewHMACSigner creates a new HMAC signer backed by the given secret source
func NewHMACSigner(secrets SecretSource) *HMACSigner {
	return &HMACSigner{
		secrets: secrets,
	}
}

func (h *HMACSigner) Sign(claims jwt.Claims) (string, error) {
	secret, err := h.secrets.Secret()
	if err != nil {
		return "", err
	}
	signedToken, err := jwt.NewWithClaims(h.GetSigningMethod(), claims).SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signedToken, nil
}

func (h *HMACSigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	secret, err := h.secrets.Secret()
	if err != nil {
		return nil, err
	}
	return []byte(secret), nil
}

func (h *HMACSigner) GetSigningMethod() jwt.SigningMethod {
	return SigningMethod
}
