package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func decodeConfig(t *testing.T, data []byte) (image.Config, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg, format
}

func TestNormalize_ShrinksLargeImages(t *testing.T) {
	p := New(Options{MaxWidth: 400, MaxHeight: 400})

	out, err := p.Normalize(ports.Upload{Field: "image", Filename: "banner.jpeg", Data: encoded(t, 1200, 600, imaging.JPEG)})
	require.NoError(t, err)

	cfg, format := decodeConfig(t, out.Data)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
	assert.Equal(t, "banner.jpg", out.Filename)
	assert.Equal(t, "image/jpeg", out.ContentType)
	assert.Equal(t, "image", out.Field)
}

func TestNormalize_KeepsSmallPNG(t *testing.T) {
	p := New(Options{})

	out, err := p.Normalize(ports.Upload{Field: "image", Filename: "logo.PNG", Data: encoded(t, 64, 32, imaging.PNG)})
	require.NoError(t, err)

	cfg, format := decodeConfig(t, out.Data)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, "logo.png", out.Filename)
}

func TestNormalize_ConvertsGIFToJPEG(t *testing.T) {
	out, err := New(Options{}).Normalize(ports.Upload{Field: "image", Filename: "a.gif", Data: encoded(t, 10, 10, imaging.GIF)})
	require.NoError(t, err)

	_, format := decodeConfig(t, out.Data)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, "a.jpg", out.Filename)
}

func TestNormalize_Rejects(t *testing.T) {
	p := New(Options{MaxBytes: 1 << 20})

	_, err := p.Normalize(ports.Upload{Field: "image", Filename: "notes.txt", Data: []byte("hello")})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "image", apperrors.GetField(err))

	_, err = p.Normalize(ports.Upload{Field: "image", Filename: "big.jpg", Data: make([]byte, 2<<20)})
	assert.True(t, apperrors.IsValidation(err))

	_, err = p.Normalize(ports.Upload{Field: "image", Filename: "empty.jpg"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRenameExt(t *testing.T) {
	assert.Equal(t, "photo.jpg", renameExt("photo.webp", ".jpg"))
	assert.Equal(t, "upload.png", renameExt("", ".png"))
	assert.Equal(t, "x.jpg", renameExt("dir/x.bmp", ".jpg"))
}
