package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/procurement"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository/memory"
	"github.com/andresuchdata/toastshop/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewSeeded(time.Now())
	notifier := service.NewLogNotifier(zerolog.Nop(), false)
	procurementSvc := service.NewProcurementService(store, nil, notifier, procurement.DefaultOptions())

	return NewRouter(&Services{
		SimulationService:  service.NewSimulationService(store, nil),
		ProcurementService: procurementSvc,
		ExportService:      service.NewExportService(procurementSvc, nil, notifier),
		DefaultShopID:      memory.DemoShopID,
	}, []string{"*"})
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetSimulation(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/simulation", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res domain.FinancialResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.UnitsSoldPerDay != 120 {
		t.Fatalf("expected 120 units/day, got %v", res.UnitsSoldPerDay)
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulation?shop_id=ghost", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown shop, got %d", w.Code)
	}
}

func TestPostSimulationNeverPaysBack(t *testing.T) {
	r := newTestRouter(t)

	body := `{"fixed_costs":{"rent":500},"equipment_assets":[{"name":"oven","purchase_price":1000,"quantity":1,"lifespan_days":100}],"traffic":{"open_hours":0}}`
	w := do(t, r, http.MethodPost, "/api/v1/simulation", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if v, ok := raw["payback_days"]; !ok || v != nil {
		t.Fatalf("expected payback_days null, got %v", v)
	}

	var res domain.FinancialResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.NeverRecoups() {
		t.Fatalf("expected never-recoups after round trip, got %v", res.PaybackDays)
	}

	w = do(t, r, http.MethodPost, "/api/v1/simulation", `{"fixed_costs":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestNeedsAndPlan(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/procurement/needs", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var needs struct {
		Items []domain.NeededItem `json:"items"`
		Total int                 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &needs); err != nil {
		t.Fatalf("decode needs: %v", err)
	}
	if needs.Total != 4 {
		t.Fatalf("expected 4 needed items, got %d", needs.Total)
	}

	w = do(t, r, http.MethodPost, "/api/v1/procurement/plan", `{"overrides":{"inv-chocolate":"sup-online"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Plan   domain.Plan          `json:"plan"`
		Routes []*domain.RouteGroup `json:"routes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if _, ok := resp.Plan.RouteGroups["sup-online"]; !ok {
		t.Fatalf("expected override to create an online route")
	}
	if len(resp.Routes) != len(resp.Plan.RouteOrder) {
		t.Fatalf("routes and route order disagree")
	}

	w = do(t, r, http.MethodPost, "/api/v1/procurement/plan", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected empty body to plan the default shop, got %d", w.Code)
	}
}

func TestOverrideEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPut, "/api/v1/procurement/overrides/inv-butter", `{"supplier_id":"sup-market"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPut, "/api/v1/procurement/overrides/inv-butter", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without supplier_id, got %d", w.Code)
	}

	w = do(t, r, http.MethodPut, "/api/v1/procurement/overrides/inv-butter", `{"supplier_id":"ghost"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown supplier, got %d", w.Code)
	}

	w = do(t, r, http.MethodDelete, "/api/v1/procurement/overrides/inv-butter", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = do(t, r, http.MethodDelete, "/api/v1/procurement/overrides/inv-butter", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/procurement/plan/export?format=csv", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %s", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Supplier,Item")) {
		t.Fatalf("expected csv header in body")
	}

	w = do(t, r, http.MethodGet, "/api/v1/procurement/plan/export?format=pdf", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/v1/procurement/plan/export?upload=true", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when storage is disabled, got %d", w.Code)
	}
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	if all || len(origins) != 2 {
		t.Fatalf("unexpected origins %v all=%v", origins, all)
	}
	if _, all = normalizeAllowedOrigins([]string{"*"}); !all {
		t.Fatalf("expected wildcard to allow all")
	}
}
