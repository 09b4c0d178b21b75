package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"kino/movie"
	"kino/netzkino"
	"kino/pkg/config"
	"kino/postgres"
	"kino/tmdb"
	"log/slog"
	"os"
	"strings"
	"time"
)

func main() {
	var (
		csvPath string
		queries string
		daily   bool
		pause   time.Duration
	)

	flag.StringVar(&csvPath, "csv", "", "Path to a csv file with search queries in its first column")
	flag.StringVar(&queries, "queries", "", "Comma separated search queries")
	flag.BoolVar(&daily, "daily", false, "Also fetch today's daily batch")
	flag.DurationVar(&pause, "pause", 500*time.Millisecond, "Pause between upstream searches")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	terms := splitQueries(queries)
	if csvPath != "" {
		fromFile, err := readQueriesFile(csvPath)
		if err != nil {
			slog.Error("failed to read queries", "path", csvPath, "error", err)
			os.Exit(1)
		}
		terms = append(terms, fromFile...)
	}
	if len(terms) == 0 && !daily {
		slog.Error("nothing to seed, pass -queries, -csv or -daily")
		os.Exit(2)
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
		Movies:  postgres.NewMovieRepository(db),
		Queries: postgres.NewQueryRepository(db),
	}, movie.WithLogger(logger))

	ctx := context.Background()
	count, failed := seedQueries(ctx, usecase, terms, pause)
	if daily {
		batch, err := usecase.DailyBatch(ctx, nil)
		if err != nil {
			slog.Error("daily batch failed", "error", err)
			failed++
		} else {
			count += len(batch)
		}
	}

	slog.Info("seed completed", "queries", len(terms), "movies", count, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

type searcher interface {
	SearchByQuery(ctx context.Context, query string) ([]movie.Movie, error)
}

// seedQueries runs every query once and returns the number of movies stored and failed queries.
func seedQueries(ctx context.Context, s searcher, terms []string, pause time.Duration) (int, int) {
	count, failed := 0, 0
	for i, q := range terms {
		if i > 0 && pause > 0 {
			time.Sleep(pause)
		}
		found, err := s.SearchByQuery(ctx, q)
		if err != nil {
			slog.Warn("search failed", "query", q, "error", err)
			failed++
			continue
		}
		slog.Info("query seeded", "query", q, "movies", len(found))
		count += len(found)
	}
	return count, failed
}

func splitQueries(raw string) []string {
	var terms []string
	for _, q := range strings.Split(raw, ",") {
		if q = strings.TrimSpace(q); q != "" {
			terms = append(terms, q)
		}
	}
	return terms
}

func readQueriesFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseQueries(file)
}

// parseQueries reads the first column of every csv record, skipping blanks and '#' comments.
func parseQueries(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	var terms []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return terms, err
		}
		if len(record) == 0 {
			continue
		}
		if q := strings.TrimSpace(record[0]); q != "" {
			terms = append(terms, q)
		}
	}
	return terms, nil
}
