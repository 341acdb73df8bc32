package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	configFileEnvVar = "QLPT_CONFIG"
	appDirName       = "qlpt"

	EnvDev  = "DEV"
	EnvProd = "PROD"

	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Settings is the flat set of values behind every getter. Fields are filled
// from defaults, then an optional YAML file, then the environment.
type Settings struct {
	Env       string `env:"ENV" yaml:"env"`
	AppName   string `env:"APP_NAME" yaml:"app_name"`
	Port      string `env:"PORT" yaml:"port"`
	LogLevel  string `env:"QLPT_LOG_LEVEL" yaml:"log_level"`
	LogFormat string `env:"QLPT_LOG_FORMAT" yaml:"log_format"`

	APIURL  string        `env:"QLPT_API_URL" yaml:"api_url"`
	Timeout time.Duration `env:"QLPT_TIMEOUT" yaml:"timeout"`

	StoreKind string `env:"QLPT_STORE" yaml:"store"`
	StorePath string `env:"QLPT_STORE_PATH" yaml:"store_path"`

	Issuer             string        `env:"QLPT_ISSUER" yaml:"issuer"`
	JWTSecret          string        `env:"QLPT_JWT_SECRET" yaml:"jwt_secret"`
	AccessTTL          time.Duration `env:"QLPT_ACCESS_TTL" yaml:"access_ttl"`
	RefreshTTL         time.Duration `env:"QLPT_REFRESH_TTL" yaml:"refresh_ttl"`
	RefreshTokenLength int           `env:"QLPT_REFRESH_TOKEN_LENGTH" yaml:"refresh_token_length"`

	AllowedOrigins []string `env:"QLPT_ALLOWED_ORIGINS" envSeparator:"," yaml:"allowed_origins"`
}

func Defaults() Settings {
	return Settings{
		Env:                EnvDev,
		AppName:            "QLPT",
		Port:               "8000",
		LogLevel:           "info",
		LogFormat:          "console",
		APIURL:             "http://localhost:8000",
		Timeout:            15 * time.Second,
		StoreKind:          StoreFile,
		Issuer:             "qlpt-demo",
		JWTSecret:          "qlpt-demo-secret-change-me",
		AccessTTL:          5 * time.Minute,
		RefreshTTL:         7 * 24 * time.Hour,
		RefreshTokenLength: 32,
		AllowedOrigins:     []string{"http://localhost:5173"},
	}
}

func (s *Settings) applyEnv() error {
	if err := env.Parse(s); err != nil {
		return fmt.Errorf("[config] parse environment: %w", err)
	}
	return nil
}

func (s Settings) validate() error {
	switch s.StoreKind {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("[config] unknown store %q (want %s, %s or %s)", s.StoreKind, StoreFile, StoreSQLite, StoreMemory)
	}
	if strings.TrimSpace(s.APIURL) == "" {
		return fmt.Errorf("[config] api url must not be empty")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("[config] timeout must be positive")
	}
	if s.AccessTTL <= 0 || s.RefreshTTL <= 0 {
		return fmt.Errorf("[config] token lifetimes must be positive")
	}
	return nil
}

var _ EnvConfig = mainConfig{}
var _ ClientConfig = mainConfig{}
var _ StorageConfig = mainConfig{}
var _ TokenConfig = mainConfig{}

func (c mainConfig) GetPort() string {
	port := c.Port
	if port == "" {
		port = "8000"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (c mainConfig) GetAppName() string {
	return c.AppName
}

func (c mainConfig) GetEnv() string {
	if c.Env == "" {
		return EnvDev
	}
	return c.Env
}

func (c mainConfig) GetLogLevel() string {
	return c.LogLevel
}

func (c mainConfig) GetLogFormat() string {
	return c.LogFormat
}

func (c mainConfig) GetAPIURL() string {
	return strings.TrimRight(c.APIURL, "/")
}

func (c mainConfig) GetRequestTimeout() time.Duration {
	return c.Timeout
}

func (c mainConfig) GetStoreKind() string {
	return c.StoreKind
}

// GetStorePath falls back to a per-user location whose file name depends on
// the store kind.
func (c mainConfig) GetStorePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	name := "session.json"
	if c.StoreKind == StoreSQLite {
		name = "session.db"
	}
	return filepath.Join(userConfigDir(), name)
}

func (c mainConfig) GetIssuer() string {
	return c.Issuer
}

func (c mainConfig) GetJWTSecret() string {
	return c.JWTSecret
}

func (c mainConfig) GetRefreshTokenLength() int {
	if c.RefreshTokenLength <= 0 {
		return 32 // 32 bytes = 256 bits
	}
	return c.RefreshTokenLength
}

func (c mainConfig) GetDefaultAccessTokenExpiry() time.Duration {
	return c.AccessTTL
}

func (c mainConfig) GetDefaultRefreshTokenExpiry() time.Duration {
	return c.RefreshTTL
}

func userConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(dir, appDirName)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
