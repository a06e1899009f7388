// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

// BrokenWriter accepts After writes, then fails every write.
type BrokenWriter struct {
	After  int
	writes int
}

func (w *BrokenWriter) Write(p []byte) (int, error) {
	if w.writes >= w.After {
		return 0, errors.New("write failed")
	}
	w.writes++
	return len(p), nil
}

// StubTransport answers every request with the same response or error and keeps the requests it saw.
type StubTransport struct {
	Response *http.Response
	Err      error

	mu       sync.Mutex
	requests []*http.Request
}

func (s *StubTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.mu.Unlock()
	return s.Response, s.Err
}

// Requests returns the requests that reached the transport.
func (s *StubTransport) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// UnreadableBody is a response body whose reads fail.
func UnreadableBody() io.ReadCloser {
	return io.NopCloser(brokenReader{})
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file %s to exist", path)
	}
}

func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file %s to be removed", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
