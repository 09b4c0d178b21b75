package httpserver

import (
	"kino/movie"
)

// MovieRequest is the admin payload for creating or replacing a movie.
// On update the slug comes from the path.
type MovieRequest struct {
	Slug             string   `json:"slug" validate:"required,max=255,slug"`
	NetzkinoID       int64    `json:"netzkinoId" validate:"gte=0"`
	Title            string   `json:"title" validate:"required,notblank,max=255"`
	Year             string   `json:"year" validate:"omitempty,max=16"`
	Overview         string   `json:"overview" validate:"max=10000"`
	Director         string   `json:"regisseur" validate:"max=255"`
	Stars            string   `json:"stars" validate:"max=1000"`
	ImgNetzkino      string   `json:"imgNetzkino" validate:"omitempty,url"`
	ImgNetzkinoSmall string   `json:"imgNetzkinoSmall" validate:"omitempty,url"`
	ImgImdb          string   `json:"imgImdb" validate:"omitempty,url"`
	Queries          []string `json:"queries" validate:"dive,notblank"`
	DateFetched      []string `json:"dateFetched" validate:"dive,datetime=2006-01-02"`
}

func (r MovieRequest) ToMovie() movie.Movie {
	return movie.Movie{
		ID:                r.Slug,
		ExternalID:        r.NetzkinoID,
		Slug:              r.Slug,
		Title:             r.Title,
		Year:              r.Year,
		Overview:          r.Overview,
		Director:          r.Director,
		Stars:             r.Stars,
		PosterURL:         r.ImgNetzkino,
		PosterURLSmall:    r.ImgNetzkinoSmall,
		PosterURLExternal: r.ImgImdb,
		Queries:           r.Queries,
		DateFetched:       r.DateFetched,
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required,notblank"`
}
