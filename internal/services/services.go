package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

const (
	DefaultBaseURL  = "http://localhost:3000"
	RequestIDHeader = "X-Request-ID"
)

// NetworkErrorMessage is shown for transport failures and unreadable responses.
const NetworkErrorMessage = "Network error. Please try again."

// Per-operation fallbacks used when the server gives no message.
const (
	FallbackSignUp        = "Failed to sign up"
	FallbackLoadMovies    = "Failed to load movies"
	FallbackLoadMovie     = "Failed to load movie"
	FallbackCreateMovie   = "Failed to create movie"
	FallbackUpdateMovie   = "Failed to update movie"
	FallbackDeleteMovie   = "Failed to delete movie"
	FallbackCreatedPoster = "Movie created, but failed to upload poster"
	FallbackUpdatedPoster = "Movie updated, but failed to upload poster"
	FallbackMovieNotFound = "Movie not found"
)

// APIError is a non-2xx response from the catalog API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.Status)
}

func (e *APIError) Unwrap() error {
	return shared.ErrAPIRequest
}

// Is matches [shared.ErrNotFound] for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == shared.ErrNotFound && e.Status == http.StatusNotFound
}

// parseAPIError builds an [APIError] from a failed response, reading "message" as a string or a
// list of strings.
func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || len(body.Message) == 0 {
		return apiErr
	}

	var single string
	if err := json.Unmarshal(body.Message, &single); err == nil {
		apiErr.Message = single
		return apiErr
	}

	var many []string
	if err := json.Unmarshal(body.Message, &many); err == nil {
		apiErr.Message = strings.Join(many, ", ")
	}
	return apiErr
}

// Describe maps err to the text shown to the user.
//
// Validation errors and server messages are shown as-is, transport failures get
// [NetworkErrorMessage] and everything else gets fallback.
func Describe(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}

	if errors.Is(err, shared.ErrNetwork) || errors.Is(err, shared.ErrUnexpectedResponse) {
		return NetworkErrorMessage
	}

	return fallback
}

// request describes one call to the API.
type request struct {
	method      string
	endpoint    string
	body        io.Reader
	contentType string
}

// jsonRequest encodes payload as the body of a request.
func jsonRequest(method, endpoint string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("%w: failed to encode request: %v", shared.ErrInvalidInput, err)
	}
	return request{method: method, endpoint: endpoint, body: bytes.NewReader(data), contentType: "application/json"}, nil
}

// doRequest sends r with client and decodes a 2xx JSON body into result when result is non-nil.
func doRequest(ctx context.Context, client *http.Client, baseURL string, r request, result any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, baseURL+r.endpoint, r.body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, shared.GenerateID())

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return shared.ErrNotAuthenticated
		}
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrUnexpectedResponse, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}

	return nil
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return DefaultBaseURL
	}
	return baseURL
}
