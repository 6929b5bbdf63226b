package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/samadjamali123/FloraGuard/src/core/analysis"

	"github.com/nfnt/resize"
)

// Fixed re-encoding qualities. Backend submissions keep more detail; inline
// model payloads are squeezed a little harder to stay well inside request
// body limits. Neither is user-configurable.
const (
	QualityBackend = 90
	QualityInline  = 85

	// maxCanonicalEdge caps the longest side before re-encoding; the
	// classifiers gain nothing from more pixels than this.
	maxCanonicalEdge = 1600
)

// Canonicalize decodes any supported image, flattens it to 3-channel RGB
// (alpha composited over white), caps its dimensions and re-encodes it as
// JPEG at the given quality. Deterministic in format and channel count, but
// not guaranteed byte-identical across encoder versions.
func Canonicalize(data []byte, quality int) (*CanonicalImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no image bytes provided", analysis.ErrEmptyPayload)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrUnsupportedMediaType, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() > maxCanonicalEdge || bounds.Dy() > maxCanonicalEdge {
		src = resize.Thumbnail(maxCanonicalEdge, maxCanonicalEdge, src, resize.Lanczos3)
		bounds = src.Bounds()
	}

	// Composite over white so transparency from PNG/WEBP uploads does not
	// turn black in the JPEG.
	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode canonical image: %v", err)
	}

	return &CanonicalImage{
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// EncodeBase64 converts raw bytes to the text-safe transport encoding.
// Encoding requires a non-empty payload.
func EncodeBase64(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: no image bytes provided", analysis.ErrEmptyPayload)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeBase64 reverses EncodeBase64 exactly: DecodeBase64(EncodeBase64(b))
// yields b for every non-empty b.
func DecodeBase64(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: base64 payload cannot be empty", analysis.ErrEmptyPayload)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %v", err)
	}
	return data, nil
}

// DataURI wraps a canonical image as an inline data URI for multimodal
// requests.
func DataURI(img *CanonicalImage) (string, error) {
	encoded, err := EncodeBase64(img.Data)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + encoded, nil
}
