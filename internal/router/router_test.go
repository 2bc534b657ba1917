package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cotizador/internal/config"
	"cotizador/internal/dto"
	"cotizador/internal/infra"
	"cotizador/internal/middleware"
	"cotizador/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "router-test-secret"

type stack struct {
	engine *gin.Engine
	rdb    *redis.Client
	token  string
}

func testConfig(erpURL string) *config.Config {
	return &config.Config{
		Env:                    "test",
		StoreNamespace:         "cotizador-test",
		JWTSecret:              jwtSecret,
		DefaultExchangeRate:    17.25,
		DefaultTaxRate:         0.16,
		DefaultMarginPct:       15,
		DeliveryLongThreshold:  100,
		DeliveryMidThreshold:   40,
		ERPAPIURL:              erpURL,
		ERPProductsBasePath:    "/api/erp/products",
		CatalogCacheTTLSeconds: 60,
	}
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	erp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/erp/products/by-ean/7501031311309/branch/MTY" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"code":"CBL-12","ean":"7501031311309","description":"Cable THW 12 AWG",
			"stock":"0","unit":"M","currency":"USD","averageCost":"90.50","lastCost":"92"}]`))
	}))
	t.Cleanup(erp.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := testConfig(erp.URL)
	engine := New(cfg, infra.NewMemoryStore(), rdb,
		infra.NewERPClient(cfg.ERPAPIURL, cfg.ERPProductsBasePath), infra.NewFXClient(""))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.JWTClaims{
		UserID: "u-7", DisplayName: "Laura Treviño", BranchID: "MTY", BranchName: "Monterrey",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	return &stack{engine: engine, rdb: rdb, token: token}
}

func (s *stack) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	s := newStack(t)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/draft", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"queue":"connected"`)
}

// TestRouter_QuoteLifecycle drives a seller from catalog search to ERP order
// and checks the async jobs land on their queues.
func TestRouter_QuoteLifecycle(t *testing.T) {
	s := newStack(t)

	w := s.do(t, http.MethodGet, "/v1/catalog/search?ean=7501031311309", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var found dto.CatalogSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Len(t, found.Data, 1)
	item := found.Data[0]
	assert.Equal(t, "92", item.CostAmount.String())

	w = s.do(t, http.MethodPost, "/v1/draft/lines", dto.AddLineRequest{
		Code: item.Code, EAN: item.EAN, Description: item.Description, Unit: item.Unit,
		CostAmount: item.CostAmount, CostCurrency: string(item.CostCurrency), Stock: item.Stock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/v1/draft/client", dto.SetClientRequest{ClientID: "cl_001"}).Code)

	w = s.do(t, http.MethodPost, "/v1/draft/save", dto.SaveDraftRequest{Status: "QUOTED"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var saved dto.SaveDraftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	assert.Equal(t, int64(1), s.rdb.LLen(context.Background(), worker.QueueQuoteEmail).Val())

	w = s.do(t, http.MethodPost, "/v1/quotes/"+saved.QuoteID+"/order", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	raw, err := s.rdb.RPop(context.Background(), worker.QueueERPExport).Result()
	require.NoError(t, err)
	var job worker.Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, worker.JobERPExport, job.Type)
	assert.JSONEq(t, `{"quote_id":"`+saved.QuoteID+`"}`, string(job.Payload))
}

func TestDraftSettingsFromConfig(t *testing.T) {
	settings := DraftSettings(testConfig(""))
	assert.Equal(t, "17.25", settings.DefaultExchangeRate.String())
	assert.Equal(t, "0.16", settings.DefaultTaxRate.String())
	assert.Equal(t, "15", settings.DefaultMarginPct.String())
	assert.Equal(t, "100", settings.Delivery.LongThreshold.String())
	assert.Equal(t, "40", settings.Delivery.MidThreshold.String())
}
