// Package media validates, resizes and stores uploaded images.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"learnbase/logger"
	"learnbase/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}

const (
	DefaultMaxWidth  = 800
	DefaultQuality   = 85
	DefaultURLPrefix = "/static/images"
	// DefaultMaxPixels bounds width*height before any pixel is decoded.
	DefaultMaxPixels = 40_000_000
)

// ErrTooManyPixels is wrapped by the IngestionError returned for images whose
// header declares more than MaxPixels pixels.
var ErrTooManyPixels = errors.New("image exceeds pixel limit")

// Ingestor stores images under Dir and names them by URLPrefix.
type Ingestor struct {
	Dir       string
	URLPrefix string
	MaxWidth  int
	Quality   int
	MaxPixels int64
	allowed   map[string]bool
}

// Result describes a stored image.
type Result struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Resized  bool   `json:"resized"`
}

func NewIngestor(dir, urlPrefix string, allowedExtensions []string, maxWidth, quality int) *Ingestor {
	if len(allowedExtensions) == 0 {
		allowedExtensions = DefaultAllowedExtensions
	}
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	if urlPrefix == "" {
		urlPrefix = DefaultURLPrefix
	}
	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = true
	}
	return &Ingestor{
		Dir:       dir,
		URLPrefix: strings.TrimRight(urlPrefix, "/"),
		MaxWidth:  maxWidth,
		Quality:   quality,
		MaxPixels: DefaultMaxPixels,
		allowed:   allowed,
	}
}

// Extension returns the lowercased text after the last dot of filename, or ""
// when it has none.
func Extension(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	i := strings.LastIndex(base, ".")
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// Allowed reports whether filename carries an accepted image extension.
func (in *Ingestor) Allowed(filename string) bool {
	return in.allowed[Extension(filename)]
}

// Validate rejects a missing file name or a disallowed extension. It touches
// nothing on disk.
func (in *Ingestor) Validate(filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("%w: no selected file", models.ErrInvalidUpload)
	}
	if !in.Allowed(filename) {
		return "", fmt.Errorf("%w: file type %q not allowed", models.ErrInvalidUpload, Extension(filename))
	}
	return Extension(filename), nil
}

// Ingest decodes the upload, shrinks it to MaxWidth when wider, and writes it
// under a random name. The claimed filename only contributes its extension.
// Dimensions are read from the header first, so an image over MaxPixels is
// refused before its pixels are decoded.
func (in *Ingestor) Ingest(r io.Reader, filename string) (Result, error) {
	ext, err := in.Validate(filename)
	if err != nil {
		return Result{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, &models.IngestionError{Op: "read", Err: err}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, &models.IngestionError{Op: "decode", Err: err}
	}
	if in.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > in.MaxPixels {
		logger.Warn("Ingest: Rejected %dx%d image %q", cfg.Width, cfg.Height, filename)
		return Result{}, &models.IngestionError{
			Op:  "decode",
			Err: fmt.Errorf("%w: %dx%d is over %d", ErrTooManyPixels, cfg.Width, cfg.Height, in.MaxPixels),
		}
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, &models.IngestionError{Op: "decode", Err: err}
	}

	resized := false
	bounds := img.Bounds()
	if bounds.Dx() > in.MaxWidth {
		height := int(float64(bounds.Dy()) * (float64(in.MaxWidth) / float64(bounds.Dx())))
		if height < 1 {
			height = 1
		}
		img = imaging.Resize(img, in.MaxWidth, height, imaging.Lanczos)
		resized = true
	}

	if err := os.MkdirAll(in.Dir, 0755); err != nil {
		return Result{}, &models.IngestionError{Op: "mkdir", Err: err}
	}

	name, err := in.write(img, data, ext, resized)
	if err != nil {
		return Result{}, err
	}
	b := img.Bounds()
	logger.Info("Ingest: Stored image %s (%dx%d, resized=%t)", name, b.Dx(), b.Dy(), resized)
	return Result{
		Filename: name,
		URL:      in.URLPrefix + "/" + name,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Resized:  resized,
	}, nil
}

// write persists img and returns the stored file name. WebP has no encoder
// here: an untouched WebP keeps its original bytes, a resized one becomes PNG.
func (in *Ingestor) write(img image.Image, original []byte, ext string, resized bool) (string, error) {
	if ext == "webp" {
		if !resized {
			name := uuid.NewString() + ".webp"
			if err := os.WriteFile(filepath.Join(in.Dir, name), original, 0644); err != nil {
				return "", &models.IngestionError{Op: "write", Err: err}
			}
			return name, nil
		}
		ext = "png"
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", &models.IngestionError{Op: "encode", Err: err}
	}
	name := uuid.NewString() + "." + ext
	path := filepath.Join(in.Dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", &models.IngestionError{Op: "write", Err: err}
	}
	if err := imaging.Encode(f, img, format, imaging.JPEGQuality(in.Quality)); err != nil {
		f.Close()
		return "", &models.IngestionError{Op: "encode", Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &models.IngestionError{Op: "write", Err: err}
	}
	return name, nil
}
