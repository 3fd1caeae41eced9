package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/paperforge/paperforge/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return body
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *LoggerConfig
		status     int
	}{
		{"access log enabled", &LoggerConfig{AccessLog: true}, http.StatusOK},
		{"access log disabled", &LoggerConfig{AccessLog: false}, http.StatusOK},
		{"nil config", nil, http.StatusOK},
		{"client error logged", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Logger(tt.cfg))
			router.GET("/papers", func(c *gin.Context) {
				c.JSON(tt.status, gin.H{"papers": []string{}})
			})

			if w := serve(router, "GET", "/papers", nil); w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/papers", func(c *gin.Context) {
		panic("boom")
	})

	w := serve(router, "GET", "/papers", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decodeBody(t, w)
	if code, _ := body["code"].(string); code != string(errors.ErrCodeInternal) {
		t.Errorf("code = %v, want %s", body["code"], errors.ErrCodeInternal)
	}
}

func TestCORS(t *testing.T) {
	allowed := []string{"http://localhost:3000", "https://institute.example.com"}

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantHeader  string
	}{
		{"allowed origin", "GET", "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"second allowed origin", "GET", "https://institute.example.com", http.StatusOK, "https://institute.example.com"},
		{"unknown origin gets no header", "GET", "http://evil.example.com", http.StatusOK, ""},
		{"preflight allowed", "OPTIONS", "http://localhost:3000", http.StatusNoContent, "http://localhost:3000"},
		{"preflight rejected", "OPTIONS", "http://evil.example.com", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(allowed))
			router.GET("/papers", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"papers": []string{}})
			})

			w := serve(router, tt.method, "/papers", map[string]string{"Origin": tt.origin})
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestRequestID_Generated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/papers", func(c *gin.Context) {
		if _, exists := c.Get("request_id"); !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "request_id missing"})
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(router, "GET", "/papers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestRequestID_FromHeader(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/papers", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(router, "GET", "/papers", map[string]string{"X-Request-ID": "req-abc-123"})
	if got := w.Header().Get("X-Request-ID"); got != "req-abc-123" {
		t.Errorf("X-Request-ID = %q, want req-abc-123", got)
	}
}

func TestErrorHandler_AppError(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler(true))
	router.GET("/papers", func(c *gin.Context) {
		c.Error(errors.New(errors.ErrCodeValidation, "validation error").
			WithDetails("field 'title' is required"))
		c.Abort()
	})

	w := serve(router, "GET", "/papers", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody(t, w)
	if code, _ := body["code"].(string); code != string(errors.ErrCodeValidation) {
		t.Errorf("code = %v, want %s", body["code"], errors.ErrCodeValidation)
	}
	if _, ok := body["details"]; !ok {
		t.Error("details missing in debug mode")
	}
}

func TestErrorHandler_HidesInternalMessages(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler(false))
	router.GET("/papers", func(c *gin.Context) {
		c.Error(errors.New(errors.ErrCodeInternal, "chrome exec path leaked"))
		c.Abort()
	})

	w := serve(router, "GET", "/papers", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decodeBody(t, w)
	if msg, _ := body["message"].(string); msg == "chrome exec path leaked" {
		t.Error("internal message must be hidden outside debug mode")
	}
	if _, ok := body["details"]; ok {
		t.Error("details must be omitted outside debug mode")
	}
}
