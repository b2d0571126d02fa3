package token

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the claim set carried by a session token: {"user_id": 42, "exp": 1735689600}.
// Only ExpiresAt of the registered claims is ever populated.
type SessionClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Identity is what a verified session token proves about its bearer
type Identity struct {
	UserID int64 `json:"user_id"`
}

// Reason records why a token failed verification. It is for logs only and is
// never returned to callers of Verify.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonMalformed         Reason = "malformed"
	ReasonSignature         Reason = "signature"
	ReasonExpired           Reason = "expired"
	ReasonMissingUser       Reason = "missing_user"
	ReasonSecretUnavailable Reason = "secret_unavailable"
)

// Verification is the tagged outcome of inspecting a session token
type Verification struct {
	Valid  bool
	Claims *SessionClaims
	Reason Reason
}

func valid(claims *SessionClaims) Verification {
	return Verification{Valid: true, Claims: claims}
}

func invalid(reason Reason) Verification {
	return Verification{Valid: false, Reason: reason}
}
