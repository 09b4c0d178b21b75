package main

import (
	"flag"
	"fmt"
	"kino/pkg/config"
	"kino/pkg/jwt"
	"log/slog"
	"os"
	"time"
)

func main() {
	var (
		subject string
		ttl     time.Duration
	)

	flag.StringVar(&subject, "sub", "admin", "Token subject")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to AUTH_TOKEN_TTL)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}
	if ttl <= 0 {
		ttl = cfg.TokenTTL()
	}

	token, err := jwt.NewJWTProvider(cfg.Auth.JWTSecret, ttl, cfg.RefreshTTL()).GenerateAccessToken(subject, jwt.RoleAdmin)
	if err != nil {
		slog.Error("cannot sign admin token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
