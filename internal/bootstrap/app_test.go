package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quickai-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *App {
	t.Helper()
	app, err := Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		PublicBaseURL:   "http://localhost:8080",
		CORSAllowOrigin: []string{"http://localhost:5173"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return app
}

func TestBuildFallsBackToMemory(t *testing.T) {
	app := buildTestApp(t)
	if app.DB != nil {
		t.Error("expected nil DB without DATABASE_URL")
	}
	if app.Router == nil || app.AIHandler == nil || app.CreationsHandler == nil {
		t.Fatal("router or handlers not wired")
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := buildTestApp(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestMetricsEndpointIsPublic(t *testing.T) {
	app := buildTestApp(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "operation_started_total") {
		t.Errorf("metrics body missing counters: %s", w.Body.String()[:min(200, w.Body.Len())])
	}
}

func TestGuestIdentityFlowsToCredits(t *testing.T) {
	app := buildTestApp(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
	req.Header.Set("X-Guest-Id", "g1")
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Content struct {
			Tier    string         `json:"tier"`
			Credits map[string]int `json:"credits"`
		} `json:"content"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Content.Tier != "free" {
		t.Errorf("tier = %q, want free", resp.Content.Tier)
	}
	if resp.Content.Credits["article"] != 5 || resp.Content.Credits["removal"] != 3 {
		t.Errorf("credits = %v", resp.Content.Credits)
	}
}

func TestUnconfiguredProviderFailsCleanly(t *testing.T) {
	app := buildTestApp(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/generate-article", strings.NewReader(`{"prompt":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "g1")
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"success":false`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAnonymousRequestRejected(t *testing.T) {
	app := buildTestApp(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/creations", nil)
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}
