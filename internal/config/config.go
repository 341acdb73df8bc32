package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	StorageConfig
	TokenConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetLogFormat() string
}

// ClientConfig covers how the CLI reaches the REST backend.
type ClientConfig interface {
	GetAPIURL() string
	GetRequestTimeout() time.Duration
}

// StorageConfig selects where the session snapshot is persisted.
type StorageConfig interface {
	GetStoreKind() string
	GetStorePath() string
}

// TokenConfig is used by the demo backend when issuing tokens.
type TokenConfig interface {
	GetIssuer() string
	GetJWTSecret() string
	GetRefreshTokenLength() int
	GetDefaultAccessTokenExpiry() time.Duration
	GetDefaultRefreshTokenExpiry() time.Duration
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	Settings
}

// New returns the built-in defaults overlaid with the process environment.
// Config files are not read; use Load for that.
func New() Config {
	s := Defaults()
	_ = s.applyEnv()
	return mainConfig{Settings: s}
}

// FromSettings wraps already resolved settings without reading anything.
func FromSettings(s Settings) Config {
	return mainConfig{Settings: s}
}
