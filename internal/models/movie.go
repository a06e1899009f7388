package models

import (
	"encoding/json"
	"math"
	"strings"
)

// Movie is a catalog record. The server assigns ID; the client never generates one.
type Movie struct {
	ID             string `json:"_id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	PublishingYear int    `json:"publishingYear" yaml:"publishing_year"`
	PosterPath     string `json:"posterPath,omitempty" yaml:"poster_path,omitempty"`
}

// UnmarshalJSON accepts either "_id" or "id" as the identifier.
func (m *Movie) UnmarshalJSON(data []byte) error {
	type alias Movie
	aux := struct {
		*alias
		AltID string `json:"id"`
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = aux.AltID
	}
	return nil
}

// HasPoster reports whether the server stored a poster for the movie.
func (m Movie) HasPoster() bool {
	return strings.TrimSpace(m.PosterPath) != ""
}

// MoviePage is the response of the paginated list endpoint.
type MoviePage struct {
	Data  []Movie `json:"data"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// TotalPages returns the page count for this page's total and limit.
func (p MoviePage) TotalPages() int {
	return TotalPages(p.Total, p.Limit)
}

// TotalPages returns max(1, ceil(total/limit)). A non-positive limit yields a single page.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// ClampPage reports whether target is a valid page in [1, totalPages].
func ClampPage(target, totalPages int) (int, bool) {
	if target < 1 || target > totalPages {
		return 0, false
	}
	return target, true
}

// PosterURL resolves a poster path against the API base URL.
//
// Absolute http(s) URLs are returned verbatim and an empty path yields "".
func PosterURL(baseURL, posterPath string) string {
	posterPath = strings.TrimSpace(posterPath)
	switch {
	case posterPath == "":
		return ""
	case strings.HasPrefix(posterPath, "http://"), strings.HasPrefix(posterPath, "https://"):
		return posterPath
	}

	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}
	return base + posterPath
}
