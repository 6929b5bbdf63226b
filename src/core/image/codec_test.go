package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/samadjamali123/FloraGuard/src/core/analysis"
)

// makePNG renders a solid-color PNG of the given size for test uploads.
func makePNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestCanonicalizeProducesJPEG(t *testing.T) {
	source := makePNG(t, 64, 48, color.NRGBA{R: 30, G: 160, B: 60, A: 255})

	canonical, err := Canonicalize(source, QualityBackend)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	if canonical.Width != 64 || canonical.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", canonical.Width, canonical.Height)
	}

	decoded, format, err := image.Decode(bytes.NewReader(canonical.Data))
	if err != nil {
		t.Fatalf("canonical output does not decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if decoded.Bounds().Dx() != 64 || decoded.Bounds().Dy() != 48 {
		t.Errorf("decoded dimensions = %v, want 64x48", decoded.Bounds())
	}
}

func TestCanonicalizeFlattensTransparency(t *testing.T) {
	// A fully transparent PNG must composite to white, not black.
	source := makePNG(t, 8, 8, color.NRGBA{A: 0})

	canonical, err := Canonicalize(source, QualityBackend)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(canonical.Data))
	if err != nil {
		t.Fatalf("canonical output does not decode: %v", err)
	}

	r, g, b, _ := decoded.At(4, 4).RGBA()
	// JPEG is lossy; near-white is enough.
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel composited to %v, want near-white", decoded.At(4, 4))
	}
}

func TestCanonicalizeCapsDimensions(t *testing.T) {
	source := makePNG(t, 2000, 1000, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	canonical, err := Canonicalize(source, QualityBackend)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	if canonical.Width != 1600 {
		t.Errorf("Width = %d, want longest side capped at 1600", canonical.Width)
	}
	if canonical.Height != 800 {
		t.Errorf("Height = %d, want aspect ratio preserved (800)", canonical.Height)
	}
}

func TestCanonicalizeRejectsBadInput(t *testing.T) {
	t.Run("empty payload", func(t *testing.T) {
		_, err := Canonicalize(nil, QualityBackend)
		if !errors.Is(err, analysis.ErrEmptyPayload) {
			t.Errorf("error = %v, want ErrEmptyPayload", err)
		}
	})

	t.Run("non-image bytes", func(t *testing.T) {
		_, err := Canonicalize([]byte("definitely not an image"), QualityBackend)
		if !errors.Is(err, analysis.ErrUnsupportedMediaType) {
			t.Errorf("error = %v, want ErrUnsupportedMediaType", err)
		}
	})
}

func TestBase64Roundtrip(t *testing.T) {
	original := []byte{0x00, 0x01, 0xFF, 0xD8, 0x7F, 0x80}

	encoded, err := EncodeBase64(original)
	if err != nil {
		t.Fatalf("EncodeBase64 failed: %v", err)
	}

	decoded, err := DecodeBase64(encoded)
	if err != nil {
		t.Fatalf("DecodeBase64 failed: %v", err)
	}

	if !bytes.Equal(decoded, original) {
		t.Errorf("roundtrip mismatch: got %v, want %v", decoded, original)
	}
}

func TestBase64EmptyInputs(t *testing.T) {
	if _, err := EncodeBase64(nil); !errors.Is(err, analysis.ErrEmptyPayload) {
		t.Errorf("EncodeBase64(nil) error = %v, want ErrEmptyPayload", err)
	}
	if _, err := DecodeBase64(""); !errors.Is(err, analysis.ErrEmptyPayload) {
		t.Errorf("DecodeBase64(\"\") error = %v, want ErrEmptyPayload", err)
	}
}

func TestDataURIPrefix(t *testing.T) {
	source := makePNG(t, 4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	canonical, err := Canonicalize(source, QualityInline)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	uri, err := DataURI(canonical)
	if err != nil {
		t.Fatalf("DataURI failed: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("DataURI = %.40q..., want jpeg data-URI prefix", uri)
	}
}
