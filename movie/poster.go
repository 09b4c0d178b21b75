package movie

import (
	"context"
	"log/slog"
	"strings"
)

type PosterStatus int

const (
	PosterNotFound PosterStatus = iota
	PosterFound
	PosterTransportFailure
)

func (s PosterStatus) String() string {
	switch s {
	case PosterFound:
		return "found"
	case PosterTransportFailure:
		return "transport_failure"
	default:
		return "not_found"
	}
}

// PosterResult is the outcome of a backdrop lookup. URL is set only when Status is PosterFound.
type PosterResult struct {
	Status PosterStatus
	URL    string
	Detail string
}

func Found(url string) PosterResult {
	return PosterResult{Status: PosterFound, URL: url}
}

func NotFound() PosterResult {
	return PosterResult{Status: PosterNotFound}
}

func TransportFailure(detail string) PosterResult {
	return PosterResult{Status: PosterTransportFailure, Detail: detail}
}

func (r PosterResult) Found() bool {
	return r.Status == PosterFound && r.URL != ""
}

// PosterLookup resolves a backdrop for an IMDb id. A missing backdrop is NotFound, not an error.
type PosterLookup interface {
	LookupPoster(ctx context.Context, imdbID string) (PosterResult, error)
}

// Enricher resolves external poster URLs and never fails.
type Enricher struct {
	lookup PosterLookup
	logger *slog.Logger
}

func NewEnricher(lookup PosterLookup, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{lookup: lookup, logger: logger}
}

func (e *Enricher) Enrich(ctx context.Context, imdbID string) PosterResult {
	if strings.TrimSpace(imdbID) == "" {
		return NotFound()
	}
	res, err := e.lookup.LookupPoster(ctx, imdbID)
	if err != nil {
		e.logger.Warn("poster lookup failed", "imdb_id", imdbID, "error", err)
		return TransportFailure(err.Error())
	}
	if !res.Found() {
		e.logger.Debug("no backdrop found", "imdb_id", imdbID)
		return NotFound()
	}
	return res
}
