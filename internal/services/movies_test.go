package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	tu "github.com/desertthunder/reel/internal/testing"
)

func newTestService(api *tu.FakeAPI, token string) *MovieService {
	var tokens oauth2.TokenSource = failingSource{}
	if token != "" {
		tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	}
	return NewMovieService(api.URL, nil, tokens)
}

func TestMovieService(t *testing.T) {
	ctx := context.Background()

	t.Run("Register", func(t *testing.T) {
		api := tu.NewFakeAPI()
		defer api.Close()
		srv := newTestService(api, "")

		res, err := srv.Register(ctx, models.Credentials{Email: "a@b.co", Password: "secret1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.AccessToken != api.Token {
			t.Errorf("expected token %q, got %q", api.Token, res.AccessToken)
		}
		if !strings.Contains(string(res.User), "a@b.co") {
			t.Errorf("expected raw user profile, got %s", res.User)
		}

		_, err = srv.Register(ctx, models.Credentials{Email: "a@b.co", Password: "secret1"})
		if got := Describe(err, FallbackSignUp); got != "Email already registered" {
			t.Errorf("expected server message, got %q", got)
		}
		if reqs := api.Requests(); reqs[0].Authorization != "" {
			t.Errorf("registration must not send credentials, got %q", reqs[0].Authorization)
		}
	})

	t.Run("Movies", func(t *testing.T) {
		api := tu.NewFakeAPI()
		defer api.Close()
		api.Seed(
			models.Movie{ID: "a", Title: "Alien", PublishingYear: 1979},
			models.Movie{ID: "b", Title: "Blade Runner", PublishingYear: 1982},
			models.Movie{ID: "c", Title: "Contact", PublishingYear: 1997},
		)

		page, err := newTestService(api, api.Token).Movies(ctx, 2, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if page.Total != 3 || page.Page != 2 || len(page.Data) != 1 || page.Data[0].ID != "c" {
			t.Errorf("unexpected page: %+v", page)
		}
		if page.TotalPages() != 2 {
			t.Errorf("expected 2 pages, got %d", page.TotalPages())
		}

		reqs := api.Requests()
		if reqs[0].Query != "limit=2&page=2" {
			t.Errorf("expected page and limit query, got %q", reqs[0].Query)
		}
		if reqs[0].Authorization != "Bearer "+api.Token {
			t.Errorf("expected bearer header, got %q", reqs[0].Authorization)
		}
	})

	t.Run("Movies Without Session", func(t *testing.T) {
		api := tu.NewFakeAPI()
		defer api.Close()

		_, err := newTestService(api, "").Movies(ctx, 1, 8)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if len(api.Requests()) != 0 {
			t.Error("expected no request without a token")
		}
	})

	t.Run("Movie Is Unauthenticated", func(t *testing.T) {
		api := tu.NewFakeAPI()
		defer api.Close()
		api.Seed(models.Movie{ID: "x1", Title: "Heat", PublishingYear: 1995})

		m, err := newTestService(api, api.Token).Movie(ctx, "x1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if m.Title != "Heat" {
			t.Errorf("expected Heat, got %q", m.Title)
		}
		if got := api.Requests()[0].Authorization; got != "" {
			t.Errorf("expected no credentials on single movie fetch, got %q", got)
		}

		_, err = newTestService(api, api.Token).Movie(ctx, "missing")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Create Update Delete", func(t *testing.T) {
		api := tu.NewFakeAPI()
		defer api.Close()
		api.QueueIDs("abc123")
		srv := newTestService(api, api.Token)

		m, err := srv.CreateMovie(ctx, models.MovieInput{Title: "Dune", PublishingYear: 2021})
		if err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if m.ID != "abc123" {
			t.Errorf("expected id abc123, got %q", m.ID)
		}

		if err := srv.UpdateMovie(ctx, "abc123", models.MovieInput{Title: "Dune: Part One", PublishingYear: 2021}); err != nil {
			t.Fatalf("failed to update: %v", err)
		}
		if stored, _ := api.Movie("abc123"); stored.Title != "Dune: Part One" {
			t.Errorf("expected updated title, got %q", stored.Title)
		}

		if err := srv.DeleteMovie(ctx, "abc123"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, ok := api.Movie("abc123"); ok {
			t.Error("expected movie to be deleted")
		}

		methods := []string{}
		for _, r := range api.Requests() {
			methods = append(methods, r.Method)
		}
		if strings.Join(methods, ",") != "POST,PATCH,DELETE" {
			t.Errorf("unexpected request sequence %v", methods)
		}
	})

	t.Run("UploadPoster", func(t *testing.T) {
		api := tu.NewFakeAPI()
		defer api.Close()
		api.Seed(models.Movie{ID: "abc123", Title: "Dune", PublishingYear: 2021})
		poster := tu.WritePNG(t, t.TempDir(), "dune.png", 4, 6)

		if err := newTestService(api, api.Token).UploadPoster(ctx, "abc123", poster); err != nil {
			t.Fatalf("failed to upload: %v", err)
		}

		req := api.Requests()[0]
		if req.Path != "/movies/abc123/poster" || req.PosterFilename != "dune.png" {
			t.Errorf("unexpected upload request: %+v", req)
		}
		if !strings.HasPrefix(req.ContentType, "multipart/form-data") {
			t.Errorf("expected multipart body, got %q", req.ContentType)
		}
		if stored, _ := api.Movie("abc123"); !stored.HasPoster() {
			t.Error("expected poster path to be stored")
		}
	})

	t.Run("UploadPoster Missing File", func(t *testing.T) {
		api := tu.NewFakeAPI()
		defer api.Close()

		err := newTestService(api, api.Token).UploadPoster(ctx, "abc123", "/does/not/exist.png")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if len(api.Requests()) != 0 {
			t.Error("expected no request for unreadable file")
		}
	})

	t.Run("Undecodable Success Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}))
		defer server.Close()

		_, err := NewMovieService(server.URL, nil, nil).Movie(ctx, "x1")
		if !errors.Is(err, shared.ErrUnexpectedResponse) {
			t.Errorf("expected ErrUnexpectedResponse, got %v", err)
		}
		if got := Describe(err, FallbackLoadMovie); got != NetworkErrorMessage {
			t.Errorf("expected network message, got %q", got)
		}
	})
}

func TestAPIError(t *testing.T) {
	tc := []struct {
		name string
		body string
		want string
	}{
		{name: "String Message", body: `{"message":"Title is taken"}`, want: "Title is taken"},
		{name: "Array Message", body: `{"message":["title should not be empty","publishingYear must be a number"]}`, want: "title should not be empty, publishingYear must be a number"},
		{name: "No Message", body: `{"error":"Bad Request"}`, want: ""},
		{name: "Not JSON", body: `oops`, want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusBadRequest, Body: io.NopCloser(strings.NewReader(tt.body))}

			apiErr := parseAPIError(resp)
			if apiErr.Message != tt.want {
				t.Errorf("expected message %q, got %q", tt.want, apiErr.Message)
			}
			if !errors.Is(apiErr, shared.ErrAPIRequest) {
				t.Error("expected APIError to wrap ErrAPIRequest")
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want string
	}{
		{name: "Nil", err: nil, want: ""},
		{name: "Validation", err: &models.ValidationError{Message: models.MsgYearOutOfRange}, want: models.MsgYearOutOfRange},
		{name: "Server Message", err: &APIError{Status: 400, Message: "Bad year"}, want: "Bad year"},
		{name: "No Server Message", err: &APIError{Status: 500}, want: FallbackCreateMovie},
		{name: "Network", err: shared.ErrNetwork, want: NetworkErrorMessage},
		{name: "Other", err: errors.New("boom"), want: FallbackCreateMovie},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err, FallbackCreateMovie); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
