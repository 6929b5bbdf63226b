package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/samadjamali123/FloraGuard/src/configs"
	"github.com/samadjamali123/FloraGuard/src/core/analysis"
	"github.com/samadjamali123/FloraGuard/src/core/explain"
	"github.com/samadjamali123/FloraGuard/src/core/image"
	"github.com/samadjamali123/FloraGuard/src/core/providers/detector"
	"github.com/samadjamali123/FloraGuard/src/core/providers/vlllm"
	"github.com/samadjamali123/FloraGuard/src/core/utils"

	"github.com/gin-gonic/gin"
)

// Analysis modes offered on the page. The remote API path goes through the
// cached detector client; the direct path talks to the vision model in
// process.
const (
	ModeAPI    = "api"
	ModeDirect = "direct"
)

const sessionCookie = "floraguard_session"

// DefaultDashboardService serves the interactive browser surface: an upload
// page, an analyze action and a JSON view of the latest result. Each browser
// session keeps exactly one result, replaced wholesale on the next successful
// analysis.
type DefaultDashboardService struct {
	config       *configs.Config
	logger       *utils.Logger
	validator    *image.Validator
	detectors    *detector.Cache
	vision       *vlllm.Provider
	enricher     *explain.Enricher
	explanations *explain.SessionCache
	sessions     *SessionStore
}

func NewDefaultDashboardService(
	config *configs.Config,
	logger *utils.Logger,
	detectors *detector.Cache,
	vision *vlllm.Provider,
	enricher *explain.Enricher,
) *DefaultDashboardService {
	return &DefaultDashboardService{
		config:       config,
		logger:       logger,
		validator:    image.NewValidator(&config.Upload, logger),
		detectors:    detectors,
		vision:       vision,
		enricher:     enricher,
		explanations: explain.NewSessionCache(),
		sessions:     NewSessionStore(),
	}
}

// Start registers the dashboard routes on the engine root.
func (s *DefaultDashboardService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	engine.SetHTMLTemplate(template.Must(template.New("dashboard").Parse(dashboardHTML)))

	engine.GET("/", s.handleIndex)
	engine.POST("/dashboard/analyze", s.handleAnalyze)
	engine.GET("/dashboard/result", s.handleResult)

	s.logger.Info("dashboard HTTP routes registered")
	return nil
}

// pageData is the template view model.
type pageData struct {
	Result       *analysis.DetectionResult
	Explanation  *string
	InvalidImage bool
	Error        string
	Mode         string
	Endpoint     string
	DirectReady  bool
}

func (s *DefaultDashboardService) handleIndex(c *gin.Context) {
	session := s.resolveSession(c)

	data := pageData{
		Result:      session.Result,
		Explanation: session.Explanation,
		Error:       session.LastError,
		Mode:        session.Mode,
		Endpoint:    s.detectors.Get().BaseURL(),
		DirectReady: s.vision != nil,
	}
	if session.Result != nil && session.Result.DiseaseType == analysis.TypeInvalidImage {
		data.InvalidImage = true
	}

	c.HTML(http.StatusOK, "dashboard", data)
}

// handleAnalyze runs one analysis for the browser session. A failure keeps
// the previous result intact and surfaces only an error banner.
func (s *DefaultDashboardService) handleAnalyze(c *gin.Context) {
	session := s.resolveSession(c)
	log := s.logger.WithTag("dashboard")

	mode := c.PostForm("mode")
	if mode != ModeDirect {
		mode = ModeAPI
	}

	result, err := s.analyze(c.Request.Context(), c, mode)
	if err != nil {
		s.sessions.RecordFailure(session.ID, mode, s.errorMessage(err))
		log.Warn("dashboard analysis failed", map[string]interface{}{
			"session_id": session.ID,
			"mode":       mode,
			"error":      err.Error(),
		})
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	explanation := s.resolveExplanation(c.Request.Context(), session.ID, result)
	s.sessions.RecordResult(session.ID, mode, result, explanation)

	log.Info("dashboard analysis completed", map[string]interface{}{
		"session_id": session.ID,
		"mode":       mode,
		"status":     result.Status,
	})
	c.Redirect(http.StatusSeeOther, "/")
}

// handleResult exposes the session's latest result as JSON.
func (s *DefaultDashboardService) handleResult(c *gin.Context) {
	session := s.resolveSession(c)
	if session.Result == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "no analysis result yet"})
		return
	}

	response := gin.H{"result": session.Result}
	if session.Explanation != nil {
		response["explanation"] = *session.Explanation
	}
	c.JSON(http.StatusOK, response)
}

// analyze reads the uploaded file and runs the selected path. The inline
// encoding quality is slightly lower than the backend one to keep direct
// model payloads small.
func (s *DefaultDashboardService) analyze(ctx context.Context, c *gin.Context, mode string) (*analysis.DetectionResult, error) {
	upload, err := s.readUpload(c)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpload(upload); err != nil {
		return nil, err
	}

	quality := image.QualityBackend
	if mode == ModeDirect {
		quality = image.QualityInline
	}

	canonical, err := image.Canonicalize(upload.Data, quality)
	if err != nil {
		return nil, err
	}

	if mode == ModeDirect {
		if s.vision == nil {
			return nil, fmt.Errorf("%w: no vision model configured", analysis.ErrMissingCredential)
		}
		return s.vision.Analyze(ctx, canonical)
	}

	payload, err := image.EncodeBase64(canonical.Data)
	if err != nil {
		return nil, err
	}
	return s.detectors.Get().Analyze(ctx, payload)
}

// resolveExplanation attaches a disease explanation when the result names a
// real disease. Invalid-image verdicts and nameless results get none.
func (s *DefaultDashboardService) resolveExplanation(ctx context.Context, sessionID string, result *analysis.DetectionResult) *string {
	name := result.Name()
	if name == "" || result.DiseaseType == analysis.TypeInvalidImage {
		return nil
	}
	return s.explanations.Resolve(ctx, sessionID, s.enricher, name, result.Symptoms, result.PossibleCauses)
}

func (s *DefaultDashboardService) readUpload(c *gin.Context) (image.UploadedImage, error) {
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

// resolveSession finds the browser session by cookie or starts a new one.
// The returned value is a snapshot; writes go through the store.
func (s *DefaultDashboardService) resolveSession(c *gin.Context) Session {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if session, ok := s.sessions.Get(id); ok {
			return session
		}
	}

	session := s.sessions.Create()
	c.SetCookie(sessionCookie, session.ID, 0, "/", "", false, true)
	return session
}

// errorMessage turns taxonomy errors into banner text fit for the page. Only
// user-correctable failures carry detail; everything else stays generic and
// is logged server side.
func (s *DefaultDashboardService) errorMessage(err error) string {
	switch {
	case errors.Is(err, analysis.ErrEmptyPayload):
		return "Please choose an image file before analyzing."
	case errors.Is(err, analysis.ErrPayloadTooLarge):
		return "The image is too large. Please upload a smaller photo."
	case errors.Is(err, analysis.ErrUnsupportedMediaType):
		return "Unsupported file type. Please upload a JPEG, PNG or WebP image."
	case errors.Is(err, analysis.ErrUpstreamUnavailable):
		return "The detection service is currently unreachable. Please try again in a moment."
	case errors.Is(err, analysis.ErrMissingCredential):
		return "Direct AI analysis is not configured on this server."
	case errors.Is(err, analysis.ErrMalformedModelResponse):
		return "The model returned an unusable answer. Please try again."
	default:
		s.logger.Error("unexpected dashboard failure", map[string]interface{}{
			"error": err.Error(),
		})
		return "Something went wrong while analyzing the image. Please try again."
	}
}
