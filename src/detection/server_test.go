package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/samadjamali123/FloraGuard/src/configs"
	"github.com/samadjamali123/FloraGuard/src/core/analysis"
	"github.com/samadjamali123/FloraGuard/src/core/auth"
	"github.com/samadjamali123/FloraGuard/src/core/providers/detector"
	"github.com/samadjamali123/FloraGuard/src/core/utils"

	"github.com/gin-gonic/gin"
)

func testLogger(t *testing.T) *utils.Logger {
	t.Helper()
	cfg := &configs.Config{}
	cfg.Log.LogDir = t.TempDir()
	cfg.Log.LogFile = "test.log"
	logger, err := utils.NewLogger(cfg)
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 40, G: 140, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

// multipartUpload builds a request body with one file part carrying an
// explicit content type.
func multipartUpload(t *testing.T, fieldName, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write multipart data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func newTestRouter(t *testing.T, config *configs.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := testLogger(t)
	service := NewDefaultDetectionService(config, logger, detector.NewCache(&config.Detector, logger))

	router := gin.New()
	apiGroup := router.Group("/api")
	if err := service.Start(context.Background(), router, apiGroup); err != nil {
		t.Fatalf("failed to start detection service: %v", err)
	}
	return router
}

func testConfig(backendURL string) *configs.Config {
	config := &configs.Config{}
	config.ApplyDefaults()
	config.Detector.OverrideURL = backendURL
	return config
}

func TestServiceInfo(t *testing.T) {
	router := newTestRouter(t, testConfig("http://unused.test"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var info ServiceInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if info.Message != "Leaf Disease Detection API" {
		t.Errorf("Message = %q", info.Message)
	}
}

func TestDetectionHappyPath(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/disease-detection" {
			t.Errorf("backend path = %q, want /disease-detection", r.URL.Path)
		}
		var req struct {
			Base64ImageString string `json:"base64_image_string"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("backend received invalid JSON: %v", err)
		}
		if req.Base64ImageString == "" {
			t.Error("backend received an empty image payload")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"disease_detected": true,
			"disease_name": "Late Blight",
			"disease_type": "fungal",
			"severity": "severe",
			"confidence": 91,
			"symptoms": ["water-soaked spots"],
			"possible_causes": ["Phytophthora infestans"],
			"treatment": ["destroy infected plants"]
		}`))
	}))
	defer backend.Close()

	router := newTestRouter(t, testConfig(backend.URL))

	body, contentType := multipartUpload(t, "file", "leaf.png", "image/png", makePNG(t, 64, 64))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/disease-detection-file", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var result analysis.DetectionResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not a detection result: %v", err)
	}
	if result.Name() != "Late Blight" {
		t.Errorf("disease_name = %q, want Late Blight", result.Name())
	}
	if result.Status != analysis.StatusInfected {
		t.Errorf("status = %q, want %q", result.Status, analysis.StatusInfected)
	}
	if result.Source != analysis.SourceRemoteAPI {
		t.Errorf("source = %q, want %q", result.Source, analysis.SourceRemoteAPI)
	}
}

func TestDetectionRejections(t *testing.T) {
	tests := []struct {
		name           string
		prepare        func(t *testing.T, config *configs.Config) (*bytes.Buffer, string)
		expectedStatus int
	}{
		{
			name: "missing file field",
			prepare: func(t *testing.T, config *configs.Config) (*bytes.Buffer, string) {
				body := &bytes.Buffer{}
				writer := multipart.NewWriter(body)
				writer.WriteField("note", "no file here")
				writer.Close()
				return body, writer.FormDataContentType()
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "oversized file",
			prepare: func(t *testing.T, config *configs.Config) (*bytes.Buffer, string) {
				config.Upload.MaxFileSize = 64
				return multipartUpload(t, "file", "leaf.png", "image/png", makePNG(t, 32, 32))
			},
			expectedStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name: "disallowed content type",
			prepare: func(t *testing.T, config *configs.Config) (*bytes.Buffer, string) {
				return multipartUpload(t, "file", "leaf.gif", "image/gif", makePNG(t, 32, 32))
			},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name: "mislabeled text bytes",
			prepare: func(t *testing.T, config *configs.Config) (*bytes.Buffer, string) {
				return multipartUpload(t, "file", "fake.png", "image/png", []byte("not an image at all"))
			},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig("http://unused.test")
			body, contentType := tt.prepare(t, config)
			router := newTestRouter(t, config)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/disease-detection-file", body)
			req.Header.Set("Content-Type", contentType)
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d, body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}

			var errResp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("error response is not valid JSON: %v", err)
			}
			if errResp.Detail == "" {
				t.Error("error response has no detail")
			}
		})
	}
}

func TestDetectionAuth(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"disease_detected": false, "confidence": 97}`))
	}))
	defer backend.Close()

	config := testConfig(backend.URL)
	config.Server.Auth.Enabled = true
	config.Server.Auth.Token = "test-secret"
	router := newTestRouter(t, config)

	t.Run("missing token is rejected", func(t *testing.T) {
		body, contentType := multipartUpload(t, "file", "leaf.png", "image/png", makePNG(t, 32, 32))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/disease-detection-file", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("valid token is accepted", func(t *testing.T) {
		token, err := auth.NewAuthToken("test-secret").GenerateToken("test-client")
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		body, contentType := multipartUpload(t, "file", "leaf.png", "image/png", makePNG(t, 32, 32))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/disease-detection-file", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200, body: %s", w.Code, w.Body.String())
		}
	})
}

func TestDetectionBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	router := newTestRouter(t, testConfig(backend.URL))

	body, contentType := multipartUpload(t, "file", "leaf.png", "image/png", makePNG(t, 32, 32))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/disease-detection-file", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502, body: %s", w.Code, w.Body.String())
	}
}
