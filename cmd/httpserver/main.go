package main

import (
	"context"
	"errors"
	"fmt"
	"kino/auth"
	"kino/dynamodb"
	"kino/httpserver"
	"kino/movie"
	"kino/netzkino"
	"kino/pkg/config"
	kinojwt "kino/pkg/jwt"
	"kino/pkg/metrics"
	"kino/pkg/oauth/google"
	"kino/pkg/sentry"
	"kino/postgres"
	"kino/tmdb"
	"kino/user"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Cannot open store", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}

	server := httpserver.Default(cfg)

	pipeline, err := metrics.NewPipeline(server.Registry)
	if err != nil {
		slog.Error("Cannot register metrics", "error", err)
		os.Exit(1)
	}

	usecase := movie.NewUsecase(movie.Dependencies{
		Content: netzkino.NewClient(netzkino.Config{
			BaseURL: cfg.Netzkino.BaseURL,
			Env:     cfg.Netzkino.Env,
			Timeout: cfg.HTTPTimeout(),
		}),
		Posters: tmdb.NewClient(tmdb.Config{
			BaseURL:      cfg.TMDB.BaseURL,
			ImageBaseURL: cfg.TMDB.ImageBaseURL,
			APIKey:       cfg.TMDB.APIKey,
			Timeout:      cfg.HTTPTimeout(),
		}),
		Movies:  store.movies,
		Queries: store.queries,
	}, movie.WithLogger(logger), movie.WithMetrics(pipeline))

	if err := usecase.Warm(ctx); err != nil {
		slog.Warn("Cannot warm caches", "error", err)
		sentry.Warning(err.Error())
	}
	server.MovieService = usecase
	server.UserService = user.NewUsecase(store.users, usecase)
	server.AuthService = newAuthService(cfg, store.users, logger)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started!", "addr", server.Addr, "db_driver", cfg.DB.Driver)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
		slog.Info("server stopped")
	}
}

type stores struct {
	movies  movie.Repository
	queries movie.QueryRepository
	users   user.Repository
}

func openRepositories(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.DB.Driver {
	case "postgres":
		db, err := postgres.NewConnection(postgres.Options{
			DBName:   cfg.DB.Name,
			DBUser:   cfg.DB.User,
			Password: cfg.DB.Pass,
			Host:     cfg.DB.Host,
			Port:     fmt.Sprintf("%d", cfg.DB.Port),
			SSLMode:  cfg.DB.EnableSSL,
		})
		if err != nil {
			return stores{}, err
		}
		return stores{
			movies:  postgres.NewMovieRepository(db),
			queries: postgres.NewQueryRepository(db),
			users:   postgres.NewUserRepository(db),
		}, nil
	case "dynamodb":
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:       cfg.DynamoDB.Region,
			Endpoint:     cfg.DynamoDB.Endpoint,
			AccessKey:    cfg.DynamoDB.AccessKey,
			SecretKey:    cfg.DynamoDB.SecretKey,
			SessionToken: cfg.DynamoDB.SessionToken,
		})
		if err != nil {
			return stores{}, err
		}
		// local endpoints (dynamodb-local, localstack) start without tables
		if cfg.DynamoDB.Endpoint != "" {
			err := dynamodb.EnsureTables(ctx, client, dynamodb.Tables{
				Movies:  cfg.DynamoDB.MoviesTable,
				Queries: cfg.DynamoDB.QueriesTable,
				Users:   cfg.DynamoDB.UsersTable,
			})
			if err != nil {
				return stores{}, err
			}
		}
		return stores{
			movies:  dynamodb.NewMovieRepository(client, cfg.DynamoDB.MoviesTable),
			queries: dynamodb.NewQueryRepository(client, cfg.DynamoDB.QueriesTable),
			users:   dynamodb.NewUserRepository(client, cfg.DynamoDB.UsersTable),
		}, nil
	default:
		return stores{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
}

func newAuthService(cfg *config.Config, users user.Repository, logger *slog.Logger) *auth.Usecase {
	tokens := kinojwt.NewJWTProvider(cfg.Auth.JWTSecret, cfg.TokenTTL(), cfg.RefreshTTL())

	// a nil *google.Provider must not reach the usecase as a non-nil interface
	var provider auth.GoogleOAuthProvider
	if p := google.NewProvider(google.Config{
		ClientID:     cfg.Auth.GoogleClientID,
		ClientSecret: cfg.Auth.GoogleClientSecret,
		RedirectURL:  cfg.Auth.GoogleRedirectURL,
	}); p != nil {
		provider = p
	} else {
		slog.Warn("Google login disabled: AUTH_GOOGLE_* not set")
	}

	return auth.NewUsecase(users, tokens, provider,
		auth.WithAdminEmails(cfg.AdminEmails()),
		auth.WithLogger(logger),
	)
}
