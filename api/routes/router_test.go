package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kaiwenhsu/posify-backend/internal/promotions"
	"github.com/kaiwenhsu/posify-backend/internal/quotes"
	pkgAuth "github.com/kaiwenhsu/posify-backend/pkg/auth"
	"github.com/kaiwenhsu/posify-backend/pkg/config"
	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	"github.com/kaiwenhsu/posify-backend/pkg/enums"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubPromotionsService struct{}

func (stubPromotionsService) Create(ctx context.Context, params promotions.CreateParams) (*models.Promotion, error) {
	return &models.Promotion{ID: uuid.New(), Name: params.Name, Type: params.Type}, nil
}

func (stubPromotionsService) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	return &models.Promotion{ID: id, Name: "週年慶 9 折", Type: "percentage"}, nil
}

func (stubPromotionsService) List(ctx context.Context, params promotions.ListParams) (*promotions.ListResult, error) {
	return &promotions.ListResult{Items: []models.Promotion{}}, nil
}

func (stubPromotionsService) Update(ctx context.Context, id uuid.UUID, params promotions.UpdateParams) (*models.Promotion, error) {
	return &models.Promotion{ID: id}, nil
}

func (stubPromotionsService) Archive(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubPromotionsService) ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	return nil, nil
}

func (stubPromotionsService) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type stubQuotesService struct{}

func (stubQuotesService) Preview(ctx context.Context, params quotes.QuoteParams) (*quotes.Quote, error) {
	return &quotes.Quote{Subtotal: 1000, Total: 1000}, nil
}

func newTestRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "posify", ExpirationMinutes: 60}
	cfg := &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: jwtCfg,
	}
	router := NewRouter(RouterParams{
		Config:     cfg,
		Logger:     nil,
		DB:         stubPinger{},
		Cache:      stubPinger{},
		Promotions: stubPromotionsService{},
		Quotes:     stubQuotesService{},
		Registry:   prometheus.NewRegistry(),
	})
	return router, jwtCfg
}

func bearerToken(t *testing.T, cfg config.JWTConfig, role enums.StaffRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestQuotePreviewNeedsNoAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":1,"unit_price":100}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPromotionRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/promotions/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestPromotionReadsAllowCashier(t *testing.T) {
	router, jwtCfg := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/promotions/", nil)
	req.Header.Set("Authorization", bearerToken(t, jwtCfg, enums.StaffRoleCashier))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPromotionWritesRequireManager(t *testing.T) {
	router, jwtCfg := newTestRouter(t)

	body := `{"name":"買一送一","type":"buy_x_get_y","discount_kind":"percentage","discount_value":100}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtCfg, enums.StaffRoleCashier))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/promotions/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtCfg, enums.StaffRoleManager))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}
