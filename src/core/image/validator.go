package image

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/samadjamali123/FloraGuard/src/configs"
	"github.com/samadjamali123/FloraGuard/src/core/analysis"
	"github.com/samadjamali123/FloraGuard/src/core/utils"

	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WEBP decoder
)

// Validator is the pure upload gate: it rejects bad payloads and has no side
// effects on success. Check order is user-facing contract: emptiness before
// size, size before content type, so the most fundamental problem is reported
// first.
type Validator struct {
	config *configs.UploadConfig
	logger *utils.Logger
}

func NewValidator(config *configs.UploadConfig, logger *utils.Logger) *Validator {
	return &Validator{
		config: config,
		logger: logger,
	}
}

// Magic-number signatures for the supported formats. JPEG only needs the first
// two bytes; WEBP needs the RIFF header plus a further check at offset 8.
var imageSignatures = map[string][]byte{
	"jpeg": {0xFF, 0xD8},
	"jpg":  {0xFF, 0xD8},
	"png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"webp": {0x52, 0x49, 0x46, 0x46},
}

// ValidateUpload runs the full gate over an uploaded file. Returns nil when
// the payload may enter the analysis pipeline.
func (v *Validator) ValidateUpload(img UploadedImage) error {
	if len(img.Data) == 0 {
		return fmt.Errorf("%w: uploaded file is empty", analysis.ErrEmptyPayload)
	}

	if int64(len(img.Data)) > v.config.MaxFileSize {
		return fmt.Errorf("%w: file exceeds maximum size of %d MB",
			analysis.ErrPayloadTooLarge, v.config.MaxFileSize/(1024*1024))
	}

	contentType := normalizeContentType(img.ContentType)
	if !v.isTypeAllowed(contentType) {
		return fmt.Errorf("%w: %s", analysis.ErrUnsupportedMediaType, img.ContentType)
	}

	result := v.deepValidate(img.Data)
	if !result.IsValid {
		return result.Err
	}

	v.logger.Debug("upload validated", map[string]interface{}{
		"filename": img.Filename,
		"format":   result.Format,
		"width":    result.Width,
		"height":   result.Height,
		"size":     result.FileSize,
	})
	return nil
}

// deepValidate probes the actual bytes: decoding is the authoritative check,
// the signature table only informs the log when the declared type lied.
func (v *Validator) deepValidate(data []byte) ValidationResult {
	result := ValidationResult{FileSize: int64(len(data))}

	config, actualFormat, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if format, ok := v.matchSignature(data); ok {
			v.logger.Warn("file header matches a known format but decoding failed", map[string]interface{}{
				"header_format": format,
			})
		}
		result.Err = fmt.Errorf("%w: payload is not a decodable image", analysis.ErrUnsupportedMediaType)
		return result
	}

	if config.Width > v.config.MaxWidth || config.Height > v.config.MaxHeight {
		result.Err = fmt.Errorf("%w: image dimensions %dx%d exceed maximum %dx%d",
			analysis.ErrPayloadTooLarge, config.Width, config.Height, v.config.MaxWidth, v.config.MaxHeight)
		return result
	}

	totalPixels := int64(config.Width) * int64(config.Height)
	if totalPixels > v.config.MaxPixels {
		result.Err = fmt.Errorf("%w: image has %d pixels, maximum is %d",
			analysis.ErrPayloadTooLarge, totalPixels, v.config.MaxPixels)
		return result
	}

	result.IsValid = true
	result.Format = actualFormat
	result.Width = config.Width
	result.Height = config.Height
	return result
}

func (v *Validator) matchSignature(data []byte) (string, bool) {
	for format, signature := range imageSignatures {
		if !bytes.HasPrefix(data, signature) {
			continue
		}
		if format == "webp" {
			if len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")) {
				return format, true
			}
			continue
		}
		return format, true
	}
	return "", false
}

func (v *Validator) isTypeAllowed(contentType string) bool {
	for _, allowed := range v.config.AllowedTypes {
		if strings.ToLower(allowed) == contentType {
			return true
		}
	}
	return false
}

// normalizeContentType lowercases and strips parameters such as charset.
func normalizeContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
