// Package preview manages poster thumbnails shown while a poster file is being chosen.
//
// A [Scope] owns at most one local thumbnail file at a time. Selecting a new file, clearing the
// selection, showing a remote poster and closing the scope all delete the previous file first.
package preview

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chai2010/webp"
	"github.com/charmbracelet/log"
	"github.com/nfnt/resize"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// MsgNotAnImage is shown when a selected poster cannot be decoded.
const MsgNotAnImage = "Poster must be an image file."

const (
	DefaultMaxSize = 320
	filePrefix     = "reel-preview-"
)

// ErrClosed is returned by [Scope.Select] after [Scope.Close].
var ErrClosed = errors.New("preview scope closed")

// Preview is a displayable poster. Owned previews are backed by a thumbnail file the scope deletes
// on release; remote previews point at the server and are never deleted.
type Preview struct {
	URL    string
	Source string // selected file, or the remote URL
	Path   string // thumbnail file, empty when not owned
	Width  int
	Height int
	Owned  bool
}

// Scope owns the current preview of one screen or command.
type Scope struct {
	dir     string
	maxSize uint
	logger  *log.Logger

	mu      sync.Mutex
	current *Preview
	closed  bool

	trace func(event, path string)
}

// NewScope creates a [Scope] that writes thumbnails into dir (os.TempDir() when empty) bounded to
// maxSize pixels on the longest edge.
func NewScope(dir string, maxSize uint, logger *log.Logger) *Scope {
	if dir == "" {
		dir = os.TempDir()
	}
	if maxSize == 0 {
		maxSize = DefaultMaxSize
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scope{dir: dir, maxSize: maxSize, logger: logger}
}

// Current returns the displayed preview, or nil.
func (s *Scope) Current() *Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Select releases the current preview, then builds a thumbnail of the image at path and returns
// it. An empty path only clears the selection.
func (s *Scope) Select(path string) (*Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	s.releaseLocked()

	if path == "" {
		return nil, nil
	}

	p, err := s.create(path)
	if err != nil {
		return nil, err
	}

	s.current = p
	return p, nil
}

// ShowRemote releases the current preview and displays a server poster without owning it.
// An empty url clears the selection.
func (s *Scope) ShowRemote(remoteURL string) *Preview {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
	if remoteURL == "" || s.closed {
		return nil
	}

	s.current = &Preview{URL: remoteURL, Source: remoteURL}
	return s.current
}

// Close releases the current preview. It is safe to call more than once.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return s.releaseLocked()
}

func (s *Scope) releaseLocked() error {
	p := s.current
	s.current = nil
	if p == nil || !p.Owned {
		return nil
	}

	s.emit("release", p.Path)
	if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove preview", "path", p.Path, "error", err)
		return fmt.Errorf("failed to remove preview: %w", err)
	}
	return nil
}

func (s *Scope) create(path string) (*Preview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open poster: %v", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	img, err := decode(f, path)
	if err != nil {
		return nil, &models.ValidationError{Field: "poster", Message: MsgNotAnImage}
	}

	thumb := resize.Thumbnail(s.maxSize, s.maxSize, img, resize.Lanczos3)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	out := filepath.Join(s.dir, filePrefix+shared.GenerateID()+".jpg")
	w, err := os.OpenFile(out, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create preview: %w", err)
	}

	if err := jpeg.Encode(w, thumb, &jpeg.Options{Quality: 85}); err != nil {
		w.Close()
		os.Remove(out)
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	if err := w.Close(); err != nil {
		os.Remove(out)
		return nil, fmt.Errorf("failed to write preview: %w", err)
	}

	s.emit("create", out)
	s.logger.Debug("preview created", "source", path, "preview", out)

	b := thumb.Bounds()
	return &Preview{
		URL:    FileURL(out),
		Source: path,
		Path:   out,
		Width:  b.Dx(),
		Height: b.Dy(),
		Owned:  true,
	}, nil
}

// decode reads a GIF, JPEG, PNG or WebP image.
func decode(r io.Reader, path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return webp.Decode(r)
	}
	img, _, err := image.Decode(r)
	return img, err
}

func (s *Scope) emit(event, path string) {
	if s.trace != nil {
		s.trace(event, path)
	}
}

// FileURL returns the file:// URL of path.
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
