package movie

import (
	"fmt"
	"strings"
)

// Field names a key of the Netzkino custom-field block.
type Field string

const (
	FieldIMDbLink   Field = "IMDb-Link"
	FieldYear       Field = "Jahr"
	FieldDirector   Field = "Regisseur"
	FieldStars      Field = "Stars"
	FieldImage      Field = "featured_img_all"
	FieldImageSmall Field = "featured_img_all_small"
)

var customFieldDefaults = map[Field]string{
	FieldIMDbLink:   "",
	FieldYear:       "0",
	FieldDirector:   "Unknown",
	FieldStars:      "Unknown",
	FieldImage:      "",
	FieldImageSmall: "",
}

// CustomFields is the semi-structured metadata block of a content post.
// A missing key means the upstream did not provide the field.
type CustomFields map[Field]string

// Get returns the trimmed field value or its default when absent or blank.
func (f CustomFields) Get(field Field) string {
	if v := strings.TrimSpace(f[field]); v != "" {
		return v
	}
	return customFieldDefaults[field]
}

// RawPost is one search hit of the content API.
type RawPost struct {
	ID           int64
	Slug         string
	Title        string
	Content      string
	CustomFields CustomFields
}

// Rejection explains why a post did not become a Movie.
type Rejection struct {
	Slug   string
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("movie: post %q rejected: %s", r.Slug, r.Reason)
}

const (
	reasonNoCustomFields = "no_custom_fields"
	reasonNoIMDbID       = "no_imdb_id"
	reasonNoPoster       = "no_poster"
)

// ExtractIMDbID returns the first path segment of link starting with "tt", or "".
func ExtractIMDbID(link string) string {
	if !strings.Contains(link, "tt") {
		return ""
	}
	for _, part := range strings.Split(link, "/") {
		if strings.HasPrefix(part, "tt") {
			return part
		}
	}
	return ""
}

// IMDbID returns the IMDb identifier referenced by the post, or a Rejection.
func (p RawPost) IMDbID() (string, error) {
	if p.CustomFields == nil {
		return "", &Rejection{Slug: p.Slug, Reason: reasonNoCustomFields}
	}
	id := ExtractIMDbID(p.CustomFields.Get(FieldIMDbLink))
	if id == "" {
		return "", &Rejection{Slug: p.Slug, Reason: reasonNoIMDbID}
	}
	return id, nil
}

// Normalize converts a post into a Movie tagged with the query that found it.
// poster is the resolved external backdrop URL and must not be empty.
func Normalize(post RawPost, query string, dateFetched []string, poster string) (Movie, error) {
	if _, err := post.IMDbID(); err != nil {
		return Movie{}, err
	}
	poster = strings.TrimSpace(poster)
	if poster == "" {
		return Movie{}, &Rejection{Slug: post.Slug, Reason: reasonNoPoster}
	}

	days := make([]string, len(dateFetched))
	copy(days, dateFetched)

	slug := strings.TrimSpace(post.Slug)
	return Movie{
		ID:                slug,
		ExternalID:        post.ID,
		Slug:              slug,
		Title:             strings.TrimSpace(post.Title),
		Year:              post.CustomFields.Get(FieldYear),
		Overview:          strings.TrimSpace(post.Content),
		Director:          post.CustomFields.Get(FieldDirector),
		Stars:             post.CustomFields.Get(FieldStars),
		PosterURL:         post.CustomFields.Get(FieldImage),
		PosterURLSmall:    post.CustomFields.Get(FieldImageSmall),
		PosterURLExternal: poster,
		Queries:           []string{query},
		DateFetched:       days,
	}, nil
}
