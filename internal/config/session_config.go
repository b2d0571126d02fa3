package config

type SessionConfig interface {
	GetSessionSecretEnvVar() string
}

// SessionSecretEnvVar holds the HMAC secret for session tokens. It is read live on
// every sign/verify so the value can be rotated without a restart.
const SessionSecretEnvVar = "JWT_SECRET_KEY"

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionSecretEnvVar() string {
	return SessionSecretEnvVar
}
