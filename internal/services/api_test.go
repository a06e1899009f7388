package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/desertthunder/reel/internal/shared"
	tu "github.com/desertthunder/reel/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", customClient, nil)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL and Nil Client", func(t *testing.T) {
			srv := NewAPIService("", nil, nil)

			if srv.baseURL != DefaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", DefaultBaseURL, srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("JSON Response With Session", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/movies" {
					t.Errorf("expected path '/movies', got %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
					t.Errorf("expected bearer header, got %q", got)
				}
				if r.Header.Get(RequestIDHeader) == "" {
					t.Error("expected request id header")
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"total": 0})
			}))
			defer server.Close()

			tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-1"})
			resp, err := NewAPIService(server.URL, nil, tokens).Get(context.Background(), "movies")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() || !resp.IsJSON || resp.JSONData == nil {
				t.Errorf("expected OK JSON response, got %+v", resp)
			}
		})

		t.Run("Anonymous Without Session", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "" {
					t.Errorf("expected no auth header, got %q", got)
				}
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte("plain text response"))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil, failingSource{}).Get(context.Background(), "/movies")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.OK() || resp.IsJSON {
				t.Errorf("expected non-JSON 401, got %+v", resp)
			}
			if string(resp.Body) != "plain text response" {
				t.Errorf("expected body 'plain text response', got %s", string(resp.Body))
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := NewAPIService("http://example.com", nil, nil).Get(context.Background(), "/test\x00invalid")
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			transport := &tu.StubTransport{Err: errors.New("connection failed")}
			client := &http.Client{Transport: transport}

			_, err := NewAPIService("http://example.com", client, nil).Get(context.Background(), "/test")
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
			if reqs := transport.Requests(); len(reqs) != 1 || reqs[0].Header.Get("Authorization") != "" {
				t.Errorf("expected one anonymous request, got %d", len(reqs))
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: &tu.StubTransport{Response: &http.Response{
					StatusCode: http.StatusOK,
					Body:       tu.UnreadableBody(),
					Header:     http.Header{},
				}},
			}

			_, err := NewAPIService("http://example.com", client, nil).Get(context.Background(), "/test")
			if !errors.Is(err, shared.ErrUnexpectedResponse) {
				t.Errorf("expected ErrUnexpectedResponse, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := NewAPIService(server.URL, nil, nil).Get(ctx, "/test"); err == nil {
				t.Error("expected error for canceled context")
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
			}

			body, _ := io.ReadAll(r.Body)
			var data map[string]string
			if err := json.Unmarshal(body, &data); err != nil || data["email"] != "a@b.co" {
				t.Errorf("unexpected request body %q (%v)", body, err)
			}

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"accessToken":"tok"}`))
		}))
		defer server.Close()

		resp, err := NewAPIService(server.URL, nil, nil).Post(context.Background(), "/auth/register", []byte(`{"email":"a@b.co"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated || !resp.IsJSON {
			t.Errorf("expected 201 JSON response, got %+v", resp)
		}
	})
}

type failingSource struct{}

func (failingSource) Token() (*oauth2.Token, error) { return nil, shared.ErrNotAuthenticated }
