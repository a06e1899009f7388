package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// PosterField is the multipart field name of a poster upload.
const PosterField = "poster"

// MovieService is the catalog API client.
type MovieService struct {
	baseURL    string
	httpClient *http.Client
	authClient *http.Client
}

// NewMovieService creates a [MovieService]. Authenticated endpoints draw bearer tokens from
// tokens; unauthenticated endpoints use client directly.
func NewMovieService(baseURL string, client *http.Client, tokens oauth2.TokenSource) *MovieService {
	if client == nil {
		client = http.DefaultClient
	}

	auth := client
	if tokens != nil {
		auth = &http.Client{
			Transport:     &oauth2.Transport{Source: tokens, Base: client.Transport},
			Timeout:       client.Timeout,
			CheckRedirect: client.CheckRedirect,
			Jar:           client.Jar,
		}
	}

	return &MovieService{baseURL: normalizeBaseURL(baseURL), httpClient: client, authClient: auth}
}

// BaseURL returns the API base URL used for requests and poster resolution.
func (s *MovieService) BaseURL() string {
	return s.baseURL
}

// PosterURL resolves a movie's poster path against the base URL.
func (s *MovieService) PosterURL(m models.Movie) string {
	return models.PosterURL(s.baseURL, m.PosterPath)
}

// Register calls POST /auth/register.
func (s *MovieService) Register(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	r, err := jsonRequest(http.MethodPost, "/auth/register", creds)
	if err != nil {
		return nil, err
	}

	var result models.AuthResult
	if err := doRequest(ctx, s.httpClient, s.baseURL, r, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("%w: registration response has no access token", shared.ErrUnexpectedResponse)
	}
	return &result, nil
}

// Movies calls GET /movies?page=&limit=.
func (s *MovieService) Movies(ctx context.Context, page, limit int) (*models.MoviePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var result models.MoviePage
	r := request{method: http.MethodGet, endpoint: "/movies?" + q.Encode()}
	if err := doRequest(ctx, s.authClient, s.baseURL, r, &result); err != nil {
		return nil, err
	}
	if result.Data == nil {
		result.Data = []models.Movie{}
	}
	return &result, nil
}

// Movie calls GET /movies/{id} without credentials.
func (s *MovieService) Movie(ctx context.Context, id string) (*models.Movie, error) {
	var m models.Movie
	r := request{method: http.MethodGet, endpoint: "/movies/" + url.PathEscape(id)}
	if err := doRequest(ctx, s.httpClient, s.baseURL, r, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMovie calls POST /movies and returns the server's record.
func (s *MovieService) CreateMovie(ctx context.Context, in models.MovieInput) (*models.Movie, error) {
	r, err := jsonRequest(http.MethodPost, "/movies", in)
	if err != nil {
		return nil, err
	}

	var m models.Movie
	if err := doRequest(ctx, s.authClient, s.baseURL, r, &m); err != nil {
		return nil, err
	}
	if m.ID == "" {
		return nil, fmt.Errorf("%w: created movie has no id", shared.ErrUnexpectedResponse)
	}
	return &m, nil
}

// UpdateMovie calls PATCH /movies/{id}. The response body is not required.
func (s *MovieService) UpdateMovie(ctx context.Context, id string, in models.MovieInput) error {
	r, err := jsonRequest(http.MethodPatch, "/movies/"+url.PathEscape(id), in)
	if err != nil {
		return err
	}
	return doRequest(ctx, s.authClient, s.baseURL, r, nil)
}

// DeleteMovie calls DELETE /movies/{id}.
func (s *MovieService) DeleteMovie(ctx context.Context, id string) error {
	r := request{method: http.MethodDelete, endpoint: "/movies/" + url.PathEscape(id)}
	return doRequest(ctx, s.authClient, s.baseURL, r, nil)
}

// UploadPoster calls POST /movies/{id}/poster with the file at path in the "poster" field.
func (s *MovieService) UploadPoster(ctx context.Context, id, path string) error {
	body, contentType, err := posterForm(path)
	if err != nil {
		return err
	}

	r := request{
		method:      http.MethodPost,
		endpoint:    "/movies/" + url.PathEscape(id) + "/poster",
		body:        body,
		contentType: contentType,
	}
	return doRequest(ctx, s.authClient, s.baseURL, r, nil)
}

// posterForm builds the multipart body of a poster upload.
func posterForm(path string) (io.Reader, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read poster: %v", shared.ErrInvalidInput, err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, PosterField, filepath.Base(path)))
	h.Set("Content-Type", http.DetectContentType(data))

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
