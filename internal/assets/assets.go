// Package assets serves the site's local images with optional resizing.
package assets

import (
	"bytes"
	"fmt"
	"html"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// MaxWidth caps the ?w= resize parameter.
const MaxWidth = 2400

// Config configures the asset server.
type Config struct {
	// Label is printed on the fallback image when a request does not carry
	// its own ?alt= text.
	Label string
	// CacheEntries bounds the number of resized images kept in memory.
	CacheEntries int
}

type cacheKey struct {
	name  string
	width int
}

type cached struct {
	data        []byte
	contentType string
}

// Server serves files from a filesystem. Images requested with a width are
// resized once and then served from memory. Missing or unreadable images
// are replaced by a labelled SVG placeholder.
type Server struct {
	files fs.FS
	cfg   Config

	mu    sync.Mutex
	cache map[cacheKey]cached
}

// NewServer creates an asset Server over files.
func NewServer(files fs.FS, cfg Config) *Server {
	if cfg.CacheEntries <= 0 {
		cfg.CacheEntries = 64
	}
	return &Server{
		files: files,
		cfg:   cfg,
		cache: make(map[cacheKey]cached),
	}
}

// ErrBadName is returned for names that do not refer to a plain image file.
var ErrBadName = errors.New("invalid asset name")

func validName(name string) bool {
	if name == "" || strings.Contains(name, "/") || !fs.ValidPath(name) {
		return false
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	default:
		return false
	}
}

// Load returns the asset bytes, resized to width when width is positive and
// smaller than the original.
func (s *Server) Load(name string, width int) ([]byte, string, error) {
	if !validName(name) {
		return nil, "", ErrBadName
	}
	key := cacheKey{name: name, width: width}

	s.mu.Lock()
	c, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return c.data, c.contentType, nil
	}

	data, err := fs.ReadFile(s.files, name)
	if err != nil {
		return nil, "", errors.Wrapf(err, "read %q", name)
	}
	contentType := mime.TypeByExtension(path.Ext(name))
	if width > 0 {
		data, err = resize(name, data, width)
		if err != nil {
			return nil, "", err
		}
	}

	s.mu.Lock()
	if len(s.cache) < s.cfg.CacheEntries {
		s.cache[key] = cached{data: data, contentType: contentType}
	}
	s.mu.Unlock()

	return data, contentType, nil
}

func resize(name string, data []byte, width int) ([]byte, error) {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return nil, errors.Wrapf(err, "format of %q", name)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %q", name)
	}
	if img.Bounds().Dx() <= width {
		return data, nil
	}

	out := imaging.Resize(img, width, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, format, imaging.JPEGQuality(80)); err != nil {
		return nil, errors.Wrapf(err, "encode %q", name)
	}
	return buf.Bytes(), nil
}

// ServeHTTP handles GET /assets/{name}.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	width, err := parseWidth(r.URL.Query().Get("w"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, contentType, err := s.Load(name, width)
	if err != nil {
		if errors.Is(err, ErrBadName) {
			http.NotFound(w, r)
			return
		}
		zctx.From(r.Context()).Warn("Asset unavailable, serving fallback",
			zap.String("name", name),
			zap.Error(err),
		)
		label := r.URL.Query().Get("alt")
		if label == "" {
			label = s.cfg.Label
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Asset-Fallback", "1")
		_, _ = w.Write(Fallback(label))
		return
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

func parseWidth(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > MaxWidth {
		return 0, errors.Errorf("width must be between 1 and %d", MaxWidth)
	}
	return n, nil
}

// Fallback renders the placeholder shown in place of a missing image: a
// flame icon above the label text.
func Fallback(label string) []byte {
	return fmt.Appendf(nil, `<svg xmlns="http://www.w3.org/2000/svg" width="320" height="120" viewBox="0 0 320 120">`+
		`<rect width="320" height="120" fill="#1f2937"/>`+
		`<path d="M160 18c6 14 20 22 20 40a20 20 0 0 1-40 0c0-10 6-16 10-22 2 8 6 10 8 10-2-10 0-18 2-28z" fill="#ea580c"/>`+
		`<text x="160" y="104" text-anchor="middle" font-family="sans-serif" font-size="18" font-weight="bold" fill="#ffffff">%s</text>`+
		`</svg>`, html.EscapeString(label))
}
