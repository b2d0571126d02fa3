package config

import (
	"fmt"
	"net/url"
)

type DatabaseConfig interface {
	GetDatabaseURL() string
}

type Database struct{}

var _ DatabaseConfig = Database{}

// GetDatabaseURL returns DB_URL when set, otherwise assembles a postgres URL from the
// POSTGRES_* variables. An empty string means no database is configured.
func (Database) GetDatabaseURL() string {
	if dbURL := GetEnv("DB_URL", ""); dbURL != "" {
		return dbURL
	}

	host := GetEnv("POSTGRES_HOST", "")
	if host == "" {
		return ""
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(GetEnv("POSTGRES_USER", "postgres"), GetEnv("POSTGRES_PASSWORD", "")),
		Host:     fmt.Sprintf("%s:%s", host, GetEnv("POSTGRES_PORT", "5432")),
		Path:     "/" + GetEnv("POSTGRES_DB", "postgres"),
		RawQuery: "sslmode=" + GetEnv("POSTGRES_SSLMODE", "disable"),
	}
	return u.String()
}
