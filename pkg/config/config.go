package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var Empty = new(Config)

type Config struct {
	AppEnv         string  `envconfig:"APP_ENV" default:"local"`
	Port           int     `envconfig:"PORT" default:"8080"`
	SentryDSN      string  `envconfig:"SENTRY_DSN"`
	AllowOrigins   string  `envconfig:"ALLOW_ORIGINS" default:"*"`
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	HTTPTimeoutSec int     `envconfig:"HTTP_TIMEOUT_SECONDS" default:"15"`

	DB struct {
		Driver    string `envconfig:"DB_DRIVER" default:"postgres"`
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	DynamoDB struct {
		Region       string `envconfig:"DDB_REGION"`
		Endpoint     string `envconfig:"DDB_ENDPOINT"`
		AccessKey    string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey    string `envconfig:"DDB_SECRET_KEY"`
		SessionToken string `envconfig:"DDB_SESSION_TOKEN"`
		MoviesTable  string `envconfig:"DDB_MOVIES_TABLE" default:"movies"`
		QueriesTable string `envconfig:"DDB_QUERIES_TABLE" default:"queries"`
		UsersTable   string `envconfig:"DDB_USERS_TABLE" default:"users"`
	}
	Auth struct {
		JWTSecret          string `envconfig:"AUTH_JWT_SECRET"`
		TokenTTL           int    `envconfig:"AUTH_TOKEN_TTL" default:"3600"`
		RefreshTTL         int    `envconfig:"AUTH_REFRESH_TTL" default:"604800"`
		AdminEmails        string `envconfig:"AUTH_ADMIN_EMAILS"`
		GoogleClientID     string `envconfig:"AUTH_GOOGLE_CLIENT_ID"`
		GoogleClientSecret string `envconfig:"AUTH_GOOGLE_CLIENT_SECRET"`
		GoogleRedirectURL  string `envconfig:"AUTH_GOOGLE_REDIRECT_URL"`
	}
	Netzkino struct {
		BaseURL string `envconfig:"NETZKINO_BASE_URL" default:"https://api.netzkino.de.simplecache.net/capi-2.0a"`
		Env     string `envconfig:"NETZKINO_ENV" default:"www"`
	}
	TMDB struct {
		BaseURL      string `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
		ImageBaseURL string `envconfig:"TMDB_IMAGE_BASE_URL" default:"https://image.tmdb.org/t/p/original"`
		APIKey       string `envconfig:"TMDB_API_KEY"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}

// Origins splits ALLOW_ORIGINS on commas, dropping blanks.
func (c *Config) Origins() []string {
	return splitList(c.AllowOrigins)
}

func (c *Config) AdminEmails() []string {
	return splitList(c.Auth.AdminEmails)
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTL) * time.Second
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTTL) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
