package detection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/samadjamali123/FloraGuard/src/configs"
	"github.com/samadjamali123/FloraGuard/src/core/analysis"
	"github.com/samadjamali123/FloraGuard/src/core/auth"
	"github.com/samadjamali123/FloraGuard/src/core/image"
	"github.com/samadjamali123/FloraGuard/src/core/providers/detector"
	"github.com/samadjamali123/FloraGuard/src/core/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultDetectionService is the programmatic upload surface: one multipart
// file field in, one normalized detection record out. The pipeline per
// request is strictly sequential: validate, canonicalize, encode, detect,
// normalize.
type DefaultDetectionService struct {
	config    *configs.Config
	logger    *utils.Logger
	validator *image.Validator
	detectors *detector.Cache
	authToken *auth.AuthToken
}

func NewDefaultDetectionService(config *configs.Config, logger *utils.Logger, detectors *detector.Cache) *DefaultDetectionService {
	service := &DefaultDetectionService{
		config:    config,
		logger:    logger,
		validator: image.NewValidator(&config.Upload, logger),
		detectors: detectors,
	}

	if config.Server.Auth.Enabled {
		service.authToken = auth.NewAuthToken(config.Server.Auth.Token)
	}

	return service
}

// Start registers the detection routes.
func (s *DefaultDetectionService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	apiGroup.GET("", s.handleGet)
	apiGroup.POST("/disease-detection-file", s.handlePost)
	apiGroup.OPTIONS("/disease-detection-file", s.handleOptions)

	s.logger.Info("detection HTTP routes registered")
	return nil
}

func (s *DefaultDetectionService) handleOptions(c *gin.Context) {
	s.addCORSHeaders(c)
	c.Status(http.StatusOK)
}

// handleGet answers with service information, mirroring the API root.
func (s *DefaultDetectionService) handleGet(c *gin.Context) {
	s.addCORSHeaders(c)
	c.JSON(http.StatusOK, ServiceInfo{
		Message: "Leaf Disease Detection API",
		Version: "1.0.0",
		Endpoints: map[string]string{
			"disease_detection_file": "/api/disease-detection-file (POST, file upload)",
		},
	})
}

// handlePost runs one analysis request end to end.
func (s *DefaultDetectionService) handlePost(c *gin.Context) {
	s.addCORSHeaders(c)
	requestID := uuid.NewString()
	log := s.logger.WithTag("detection")

	if s.authToken != nil {
		if err := s.verifyAuth(c); err != nil {
			log.Warn("request rejected: bad credentials", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "invalid or expired token"})
			return
		}
	}

	upload, err := s.readUpload(c)
	if err != nil {
		s.respondError(c, requestID, err)
		return
	}

	log.Info("received image file for disease detection", map[string]interface{}{
		"request_id": requestID,
		"filename":   upload.Filename,
		"size":       len(upload.Data),
	})

	result, err := s.analyze(c.Request.Context(), upload)
	if err != nil {
		s.respondError(c, requestID, err)
		return
	}

	log.Info("disease detection completed", map[string]interface{}{
		"request_id": requestID,
		"status":     result.Status,
		"confidence": result.Confidence,
	})
	c.JSON(http.StatusOK, result)
}

// analyze is the core pipeline behind the endpoint. A failure at any stage
// discards all partial state; no partial record is ever returned.
func (s *DefaultDetectionService) analyze(ctx context.Context, upload image.UploadedImage) (*analysis.DetectionResult, error) {
	if err := s.validator.ValidateUpload(upload); err != nil {
		return nil, err
	}

	canonical, err := image.Canonicalize(upload.Data, image.QualityBackend)
	if err != nil {
		return nil, err
	}

	payload, err := image.EncodeBase64(canonical.Data)
	if err != nil {
		return nil, err
	}

	return s.detectors.Get().Analyze(ctx, payload)
}

// readUpload pulls the single multipart file field out of the request. The
// reader is capped just above the configured maximum so an oversized body is
// reported as too large instead of truncated silently.
func (s *DefaultDetectionService) readUpload(c *gin.Context) (image.UploadedImage, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return image.UploadedImage{}, fmt.Errorf("%w: missing image file: %v", analysis.ErrEmptyPayload, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.config.Upload.MaxFileSize+1))
	if err != nil {
		return image.UploadedImage{}, fmt.Errorf("failed to read uploaded file: %v", err)
	}

	return image.UploadedImage{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}, nil
}

func (s *DefaultDetectionService) verifyAuth(c *gin.Context) error {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return fmt.Errorf("missing bearer token")
	}

	isValid, clientID, err := s.authToken.VerifyToken(authHeader[7:])
	if err != nil || !isValid {
		return fmt.Errorf("token verification failed: %v", err)
	}

	c.Set("client_id", clientID)
	return nil
}

// respondError maps the error taxonomy onto HTTP status codes. Anything
// outside the taxonomy is logged in full and reported as a generic internal
// error without leaking internals.
func (s *DefaultDetectionService) respondError(c *gin.Context, requestID string, err error) {
	log := s.logger.WithTag("detection")

	var status int
	detail := err.Error()

	switch {
	case errors.Is(err, analysis.ErrEmptyPayload):
		status = http.StatusBadRequest
	case errors.Is(err, analysis.ErrPayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, analysis.ErrUnsupportedMediaType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, analysis.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, analysis.ErrMissingCredential),
		errors.Is(err, analysis.ErrMalformedModelResponse):
		status = http.StatusInternalServerError
	default:
		status = http.StatusInternalServerError
		detail = "Internal server error"
		log.Error("unexpected failure during disease detection", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}

	if status != http.StatusInternalServerError || detail != "Internal server error" {
		log.Warn("analysis request failed", map[string]interface{}{
			"request_id": requestID,
			"status":     status,
			"error":      err.Error(),
		})
	}

	c.JSON(status, ErrorResponse{Detail: detail})
}

func (s *DefaultDetectionService) addCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Headers", "content-type, authorization")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}
