package config

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	DatabaseConfig
	VendorConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Session
	Database
	Vendor
}

func New() Config {
	return mainConfig{}
}
