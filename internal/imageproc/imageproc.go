// Package imageproc normalizes admin image uploads before they are forwarded
// to the parts API: the image is decoded, auto-oriented, shrunk to fit the
// configured bounds and re-encoded.
package imageproc

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/ports"
)

// Options bound the accepted and produced images.
type Options struct {
	MaxBytes    int64
	MaxWidth    int
	MaxHeight   int
	JPEGQuality int
}

// DefaultOptions returns the limits used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxBytes:    5 << 20,
		MaxWidth:    1600,
		MaxHeight:   1600,
		JPEGQuality: 85,
	}
}

// Processor normalizes uploads.
type Processor struct {
	opts Options
}

// New returns a Processor; zero fields of opts take their defaults.
func New(opts Options) *Processor {
	d := DefaultOptions()
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = d.MaxBytes
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = d.MaxWidth
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = d.MaxHeight
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = d.JPEGQuality
	}
	return &Processor{opts: opts}
}

// Normalize validates and re-encodes u. PNG uploads stay PNG so transparency
// survives; everything else becomes JPEG. Failures are validation errors
// tied to the upload's field.
func (p *Processor) Normalize(u ports.Upload) (ports.Upload, error) {
	if int64(len(u.Data)) > p.opts.MaxBytes {
		return ports.Upload{}, apperrors.ValidationField(u.Field,
			fmt.Sprintf("Image must be smaller than %d MB.", p.opts.MaxBytes>>20))
	}
	if len(u.Data) == 0 {
		return ports.Upload{}, apperrors.ValidationField(u.Field, "Image file is empty.")
	}

	img, err := imaging.Decode(bytes.NewReader(u.Data), imaging.AutoOrientation(true))
	if err != nil {
		return ports.Upload{}, apperrors.ValidationField(u.Field, "Upload a valid image (jpg, png, gif, bmp or tiff).")
	}

	b := img.Bounds()
	if b.Dx() > p.opts.MaxWidth || b.Dy() > p.opts.MaxHeight {
		img = imaging.Fit(img, p.opts.MaxWidth, p.opts.MaxHeight, imaging.Lanczos)
	}

	format, ext, contentType := imaging.JPEG, ".jpg", "image/jpeg"
	if f, ferr := imaging.FormatFromFilename(u.Filename); ferr == nil && f == imaging.PNG {
		format, ext, contentType = imaging.PNG, ".png", "image/png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(p.opts.JPEGQuality)); err != nil {
		return ports.Upload{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode image")
	}

	return ports.Upload{
		Field:       u.Field,
		Filename:    renameExt(u.Filename, ext),
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}

func renameExt(name, ext string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "upload"
	}
	return base + ext
}
