package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/paperforge/paperforge/internal/chrome"
	"github.com/paperforge/paperforge/internal/export"
	"github.com/paperforge/paperforge/internal/imaging"
	"github.com/paperforge/paperforge/internal/layout"
	"github.com/paperforge/paperforge/internal/measure"
	"github.com/paperforge/paperforge/internal/model"
	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/internal/store"
	"github.com/paperforge/paperforge/pkg/errors"
)

// staticHeights measures with static estimates, no browser needed
type staticHeights struct{}

func (staticHeights) Heights(_ context.Context, paper *model.Paper, settings model.ExportSettings) (layout.HeightMap, error) {
	return layout.MeasureHeights(measure.NewStaticMeasurer(), paper.Sections, settings), nil
}

// failingHeights always fails, forcing the static fallback path
type failingHeights struct{}

func (failingHeights) Heights(_ context.Context, _ *model.Paper, _ model.ExportSettings) (layout.HeightMap, error) {
	return layout.HeightMap{}, errors.New(errors.ErrCodeChromeMissing, "no browser")
}

func testPaper() model.Paper {
	return model.Paper{
		Title:   "Midterm Examination",
		Subject: "Physics",
		Sections: []model.Section{
			{
				ID:         "sec-1",
				Title:      "Section A",
				TotalMarks: 20,
				Duration:   30,
				Questions: []model.Question{
					{QuestionID: "q1", Question: model.RichText{Content: "<p>Define velocity.</p>"}, QuestionOrder: 0},
					{QuestionID: "q2", Question: model.RichText{Content: "<p>State Newton's first law.</p>"}, QuestionOrder: 1},
				},
			},
		},
	}
}

func testRenderer() *render.Renderer {
	return render.NewRenderer(imaging.NewResolver())
}

func chromeOpts() chrome.Options {
	return chrome.DefaultOptions()
}

func newTestRouter() (*gin.Engine, store.Store) {
	gin.SetMode(gin.TestMode)
	s := store.NewStore()
	r := gin.New()

	papers := NewPaperHandler(s.Papers())
	settings := NewSettingsHandler(s.Settings())
	preview := NewPreviewHandler(s.Papers(), s.Settings(), testRenderer(), staticHeights{})

	r.POST("/papers", papers.LoadPaper)
	r.GET("/papers", papers.ListPapers)
	r.GET("/papers/:id", papers.GetPaper)
	r.DELETE("/papers/:id", papers.DeletePaper)
	r.GET("/settings", settings.GetSettings)
	r.PATCH("/settings", settings.UpdateSettings)
	r.POST("/settings/reset", settings.ResetSettings)
	r.GET("/papers/:id/preview", preview.Preview)
	r.GET("/papers/:id/preview.html", preview.PreviewHTML)

	return r, s
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, _ := http.NewRequest("POST", path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoadPaper(t *testing.T) {
	r, _ := newTestRouter()

	w := postJSON(t, r, "/papers", testPaper())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["id"] == "" {
		t.Error("Expected generated paper ID")
	}
	if n, _ := resp["questions"].(float64); n != 2 {
		t.Errorf("Expected 2 questions, got %v", resp["questions"])
	}
}

func TestLoadPaper_Invalid(t *testing.T) {
	r, _ := newTestRouter()

	w := postJSON(t, r, "/papers", model.Paper{Title: "No sections"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	w = postJSON(t, r, "/papers", model.Paper{Sections: testPaper().Sections})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing title, got %d", w.Code)
	}
}

func TestGetPaper_NotFound(t *testing.T) {
	r, _ := newTestRouter()

	req, _ := http.NewRequest("GET", "/papers/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestListPapers(t *testing.T) {
	r, s := newTestRouter()
	s.Papers().Put(testPaper())

	req, _ := http.NewRequest("GET", "/papers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp struct {
		Papers []map[string]any `json:"papers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Papers) != 1 {
		t.Errorf("Expected 1 paper, got %d", len(resp.Papers))
	}
}

func TestUpdateSettings_MergesPartialPatch(t *testing.T) {
	r, s := newTestRouter()

	w := postJSONMethod(t, r, "PATCH", "/settings", map[string]any{"columns_per_page": 3})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	got := s.Settings().Get()
	if got.ColumnsPerPage != 3 {
		t.Errorf("Expected 3 columns, got %d", got.ColumnsPerPage)
	}
	// Untouched fields keep their defaults
	if got.QuestionPaperSets != model.DefaultExportSettings().QuestionPaperSets {
		t.Errorf("Expected untouched question_paper_sets, got %d", got.QuestionPaperSets)
	}
}

func TestUpdateSettings_RejectsOutOfRange(t *testing.T) {
	r, s := newTestRouter()

	w := postJSONMethod(t, r, "PATCH", "/settings", map[string]any{"columns_per_page": 7})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	// Store must not have been touched
	if got := s.Settings().Get(); got.ColumnsPerPage != model.DefaultExportSettings().ColumnsPerPage {
		t.Errorf("Settings mutated by rejected patch: %d columns", got.ColumnsPerPage)
	}
}

func TestResetSettings(t *testing.T) {
	r, s := newTestRouter()
	cols := 3
	s.Settings().Merge(model.SettingsPatch{ColumnsPerPage: &cols})

	req, _ := http.NewRequest("POST", "/settings/reset", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := s.Settings().Get(); got.ColumnsPerPage != model.DefaultExportSettings().ColumnsPerPage {
		t.Errorf("Expected default columns after reset, got %d", got.ColumnsPerPage)
	}
}

func TestPreview(t *testing.T) {
	r, s := newTestRouter()
	id := s.Papers().Put(testPaper())

	req, _ := http.NewRequest("GET", "/papers/"+id+"/preview", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Pages int    `json:"pages"`
		HTML  string `json:"html"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Pages < 1 {
		t.Errorf("Expected at least one page, got %d", resp.Pages)
	}
	if !strings.Contains(resp.HTML, "Midterm Examination") {
		t.Error("Expected preview HTML to contain the paper title")
	}
}

func TestPreviewHTML(t *testing.T) {
	r, s := newTestRouter()
	id := s.Papers().Put(testPaper())

	req, _ := http.NewRequest("GET", "/papers/"+id+"/preview.html", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected text/html content type, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "class=\"page\"") {
		t.Error("Expected rendered page markup")
	}
}

func TestPreview_FallsBackToStaticMeasurement(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := store.NewStore()
	id := s.Papers().Put(testPaper())

	preview := NewPreviewHandler(s.Papers(), s.Settings(), testRenderer(), failingHeights{})
	r := gin.New()
	r.GET("/papers/:id/preview", preview.Preview)

	req, _ := http.NewRequest("GET", "/papers/"+id+"/preview", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 via static fallback, got %d: %s", w.Code, w.Body.String())
	}
}

func TestExportStatus_Idle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := store.NewStore()
	manager := export.NewManager(export.NewExporter(t.TempDir(), chromeOpts()))
	h := NewExportHandler(s.Papers(), s.Settings(), manager, testRenderer(), staticHeights{}, t.TempDir())

	r := gin.New()
	r.GET("/export/status", h.ExportStatus)

	req, _ := http.NewRequest("GET", "/export/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["state"] != string(export.StateIdle) {
		t.Errorf("Expected idle state, got %v", resp["state"])
	}
}

func TestCancelExport_NoJob(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := store.NewStore()
	manager := export.NewManager(export.NewExporter(t.TempDir(), chromeOpts()))
	h := NewExportHandler(s.Papers(), s.Settings(), manager, testRenderer(), staticHeights{}, t.TempDir())

	r := gin.New()
	r.POST("/export/cancel", h.CancelExport)

	req, _ := http.NewRequest("POST", "/export/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestStartExport_PaperNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := store.NewStore()
	manager := export.NewManager(export.NewExporter(t.TempDir(), chromeOpts()))
	h := NewExportHandler(s.Papers(), s.Settings(), manager, testRenderer(), staticHeights{}, t.TempDir())

	r := gin.New()
	r.POST("/papers/:id/export", h.StartExport)

	w := postJSON(t, r, "/papers/missing/export", StartExportRequest{})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDownloadExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := store.NewStore()
	outDir := t.TempDir()
	manager := export.NewManager(export.NewExporter(outDir, chromeOpts()))
	h := NewExportHandler(s.Papers(), s.Settings(), manager, testRenderer(), staticHeights{}, outDir)

	if err := os.WriteFile(filepath.Join(outDir, "Paper.pdf"), []byte("%PDF-1.4 test"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r := gin.New()
	r.GET("/export/download/:filename", h.DownloadExport)

	req, _ := http.NewRequest("GET", "/export/download/Paper.pdf", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("Expected PDF payload")
	}
}

func TestDownloadExport_PathTraversal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := store.NewStore()
	manager := export.NewManager(export.NewExporter(t.TempDir(), chromeOpts()))
	h := NewExportHandler(s.Papers(), s.Settings(), manager, testRenderer(), staticHeights{}, t.TempDir())

	r := gin.New()
	r.GET("/export/download/:filename", h.DownloadExport)

	for _, name := range []string{"..%2Fsecret.pdf", "a\x00b.pdf", "."} {
		req, err := http.NewRequest("GET", "/export/download/"+name, nil)
		if err != nil {
			// names like "a\x00b.pdf" are not parseable as a URL string;
			// set the raw path directly instead
			req = httptest.NewRequest("GET", "/export/download/x", nil)
			req.URL.Path = "/export/download/" + name
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			t.Errorf("Expected rejection for %q, got 200", name)
		}
	}
}

func TestValidateFilename(t *testing.T) {
	valid := []string{"Paper.pdf", "Paper A.pdf", "export-2.pdf"}
	for _, name := range valid {
		if !validateFilename(name) {
			t.Errorf("Expected %q to be valid", name)
		}
	}
	invalid := []string{"", "../Paper.pdf", "a/b.pdf", "a\\b.pdf", "a\x00.pdf", ".", ".."}
	for _, name := range invalid {
		if validateFilename(name) {
			t.Errorf("Expected %q to be rejected", name)
		}
	}
}

func postJSONMethod(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, _ := http.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
