package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cotizador/internal/dto"
	"cotizador/internal/infra"
	"cotizador/internal/middleware"
	"cotizador/internal/model"
	"cotizador/internal/pricing"
	"cotizador/internal/repository"
	"cotizador/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Stubs ─────────────────────────────────────────────────────────────────────

type fakeFX struct {
	quote *infra.FXQuote
	err   error
}

func (f *fakeFX) Latest(context.Context) (*infra.FXQuote, error) { return f.quote, f.err }

type fakeCatalog struct {
	items      []model.CatalogItem
	err        error
	lastBranch string
}

func (f *fakeCatalog) Search(_ context.Context, _, branch string) ([]model.CatalogItem, error) {
	f.lastBranch = branch
	return f.items, f.err
}

// ── Fixture ───────────────────────────────────────────────────────────────────

var seller = middleware.JWTClaims{UserID: "u-7", DisplayName: "Laura Treviño", BranchID: "MTY", BranchName: "Monterrey"}

type testEnv struct {
	r       *gin.Engine
	fx      *fakeFX
	catalog *fakeCatalog
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	store := infra.NewMemoryStore()
	keys := repository.NewKeys("test")
	quotes := service.NewQuoteService(repository.NewQuoteRepository(store, keys), repository.NewOrderRequestRepository(store, keys), nil, service.DefaultDraftSettings())
	clients := service.NewClientService(repository.NewClientRepository(store, keys))
	env := &testEnv{fx: &fakeFX{}, catalog: &fakeCatalog{}}

	draftH := NewDraftHandler(service.NewDraftRegistry(service.DefaultDraftSettings()), quotes, clients, env.fx)
	quotesH := NewQuotesHandler(quotes)
	catalogH := NewCatalogHandler(env.catalog)
	clientsH := NewClientsHandler(clients)

	r := gin.New()
	r.Use(middleware.ErrorHandler(), func(c *gin.Context) {
		claims := seller
		c.Set(middleware.ClaimsKey, &claims)
		c.Next()
	})
	r.GET("/health", Health(store, nil, infra.NewCircuitBreaker(infra.DefaultBreakerConfig("erp"))))
	r.GET("/v1/draft", draftH.Get)
	r.DELETE("/v1/draft", draftH.Clear)
	r.PUT("/v1/draft/currency", draftH.SetCurrency)
	r.PUT("/v1/draft/exchange-rate", draftH.SetExchangeRate)
	r.POST("/v1/draft/exchange-rate/refresh", draftH.RefreshExchangeRate)
	r.PUT("/v1/draft/client", draftH.SetClient)
	r.POST("/v1/draft/lines", draftH.AddLine)
	r.PATCH("/v1/draft/lines/:lineId", draftH.UpdateLine)
	r.DELETE("/v1/draft/lines/:lineId", draftH.RemoveLine)
	r.POST("/v1/draft/extraction", draftH.ApplyExtraction)
	r.POST("/v1/draft/save", draftH.Save)
	r.GET("/v1/quotes", quotesH.List)
	r.GET("/v1/quotes/:id", quotesH.Get)
	r.PATCH("/v1/quotes/:id/status", quotesH.UpdateStatus)
	r.POST("/v1/quotes/:id/order", quotesH.GenerateOrder)
	r.POST("/v1/quotes/:id/edit", draftH.EditQuote)
	r.GET("/v1/orders", quotesH.ListOrders)
	r.GET("/v1/catalog/search", catalogH.Search)
	r.GET("/v1/clients", clientsH.List)
	r.GET("/v1/clients/:id", clientsH.Get)
	r.POST("/v1/clients", clientsH.Create)
	r.PUT("/v1/clients/:id", clientsH.Update)
	r.DELETE("/v1/clients/:id", clientsH.Delete)
	env.r = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var usdCable = dto.AddLineRequest{
	Code: "CBL-12", EAN: "7501031311309", Description: "Cable THW 12 AWG", Unit: "M",
	CostAmount: dec("92"), CostCurrency: "USD",
}

// addedLine adds usdCable to the draft and returns its line id.
func (e *testEnv) addedLine(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/v1/draft/lines", usdCable)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	d := decode[dto.DraftResponse](t, w)
	require.Len(t, d.Items, 1)
	return d.Items[0].ID
}

// savedQuote builds a draft for the seeded client and saves it with status.
func (e *testEnv) savedQuote(t *testing.T, status string) string {
	t.Helper()
	e.addedLine(t)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/v1/draft/client", dto.SetClientRequest{ClientID: "cl_001"}).Code)
	w := e.do(t, http.MethodPost, "/v1/draft/save", dto.SaveDraftRequest{Status: status})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.SaveDraftResponse](t, w).QuoteID
}

// ── Draft ─────────────────────────────────────────────────────────────────────

func TestDraft_StartsAttributedToSeller(t *testing.T) {
	env := newEnv(t)
	d := decode[dto.DraftResponse](t, env.do(t, http.MethodGet, "/v1/draft", nil))

	assert.Equal(t, "u-7", d.CreatedByUserID)
	assert.Equal(t, "Monterrey", d.BranchName)
	assert.Equal(t, model.CurrencyMXN, d.Currency)
	assert.True(t, dec("17.25").Equal(d.ExchangeRate))
	assert.Empty(t, d.Items)
	assert.Equal(t, []string{"1-2 weeks", "2-4 weeks", "4-6 weeks"}, d.DeliveryOptions)
}

func TestDraft_AddAndEditLine(t *testing.T) {
	env := newEnv(t)
	lineID := env.addedLine(t)

	d := decode[dto.DraftResponse](t, env.do(t, http.MethodGet, "/v1/draft", nil))
	line := d.Items[0]
	assert.True(t, dec("1825.05").Equal(line.UnitPrice), line.UnitPrice.String())
	assert.Equal(t, "4-6 weeks", line.DeliveryTimeLabel)

	w := env.do(t, http.MethodPatch, "/v1/draft/lines/"+lineID, map[string]any{"quantity": 3.7})
	require.Equal(t, http.StatusOK, w.Code)
	d = decode[dto.DraftResponse](t, w)
	assert.Equal(t, 3, d.Items[0].Quantity)
	assert.True(t, dec("5475.15").Equal(d.Subtotal), d.Subtotal.String())
	assert.True(t, dec("876.02").Equal(d.Tax), d.Tax.String())
	assert.True(t, dec("6351.17").Equal(d.Total), d.Total.String())

	w = env.do(t, http.MethodPatch, "/v1/draft/lines/"+lineID, map[string]any{"unit_price": "2000"})
	require.Equal(t, http.StatusOK, w.Code)
	d = decode[dto.DraftResponse](t, w)
	assert.True(t, dec("26.023945").Equal(d.Items[0].MarginPercent), d.Items[0].MarginPercent.String())
	assert.True(t, dec("2000").Equal(d.Items[0].UnitPrice))
}

func TestDraft_UpdateLineErrors(t *testing.T) {
	env := newEnv(t)
	lineID := env.addedLine(t)

	w := env.do(t, http.MethodPatch, "/v1/draft/lines/"+lineID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/v1/draft/lines/missing", map[string]any{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/v1/draft/lines/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/v1/draft/lines/"+lineID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.DraftResponse](t, w).Items)
}

func TestDraft_CurrencyAndRate(t *testing.T) {
	env := newEnv(t)
	env.addedLine(t)

	w := env.do(t, http.MethodPut, "/v1/draft/currency", dto.SetCurrencyRequest{Currency: "EUR"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"currency":"oneof"`)

	w = env.do(t, http.MethodPut, "/v1/draft/currency", dto.SetCurrencyRequest{Currency: "USD"})
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[dto.DraftResponse](t, w)
	assert.True(t, dec("105.80").Equal(d.Items[0].UnitPrice), d.Items[0].UnitPrice.String())

	w = env.do(t, http.MethodPut, "/v1/draft/exchange-rate", map[string]any{"exchange_rate": "-3"})
	require.Equal(t, http.StatusOK, w.Code)
	d = decode[dto.DraftResponse](t, w)
	assert.True(t, dec("17.25").Equal(d.ExchangeRate))
	assert.Equal(t, "manual", d.ExchangeRateSource)
}

func TestDraft_RefreshExchangeRate(t *testing.T) {
	env := newEnv(t)

	env.fx.quote = &infra.FXQuote{Rate: dec("18.1042"), Date: "2026-03-02"}
	w := env.do(t, http.MethodPost, "/v1/draft/exchange-rate/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[dto.DraftResponse](t, w)
	assert.True(t, dec("18.1042").Equal(d.ExchangeRate))
	assert.Equal(t, "api", d.ExchangeRateSource)
	assert.Equal(t, "2026-03-02", d.ExchangeRateDate)

	env.fx.quote, env.fx.err = nil, errors.New("fx: provider returned 500")
	assert.Equal(t, http.StatusBadGateway, env.do(t, http.MethodPost, "/v1/draft/exchange-rate/refresh", nil).Code)

	env.fx.err = infra.ErrFXNotConfigured
	assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodPost, "/v1/draft/exchange-rate/refresh", nil).Code)
}

func TestDraft_SetClient(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, http.MethodPut, "/v1/draft/client", dto.SetClientRequest{ClientID: "cl_404"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/v1/draft/client", dto.SetClientRequest{ClientID: "cl_002"})
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[dto.DraftResponse](t, w)
	require.NotNil(t, d.Client)
	assert.Equal(t, "Aceros Industriales Monterrey", d.Client.CompanyName)

	w = env.do(t, http.MethodPut, "/v1/draft/client", dto.SetClientRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[dto.DraftResponse](t, w).Client)
}

func TestDraft_Extraction(t *testing.T) {
	env := newEnv(t)
	env.addedLine(t)

	qty := 4.9
	unit := "pza"
	body := dto.ExtractionRequest{Items: []model.ExtractedItem{
		{DescriptionOriginal: "tubo conduit 3/4", Quantity: &qty, UnitNormalized: &unit, RequiresReview: true},
		{DescriptionOriginal: "codo 90"},
	}}
	w := env.do(t, http.MethodPost, "/v1/draft/extraction", body)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[dto.DraftResponse](t, w)
	require.Len(t, d.Items, 2)
	assert.Equal(t, 4, d.Items[0].Quantity)
	assert.Equal(t, "pza", d.Items[0].UnitOfMeasure)
	assert.True(t, d.Items[0].SourceRequiresReview)
	assert.False(t, d.Items[0].RequiresReview)
	assert.True(t, d.Items[1].RequiresReview)
	assert.True(t, d.Total.IsZero())
}

func TestDraft_SaveRequiresClientAndLines(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, http.MethodPost, "/v1/draft/save", dto.SaveDraftRequest{Status: "DRAFT"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"detail":"Selecciona un cliente antes de guardar la cotización."}`, w.Body.String())

	env.do(t, http.MethodPut, "/v1/draft/client", dto.SetClientRequest{ClientID: "cl_001"})
	w = env.do(t, http.MethodPost, "/v1/draft/save", dto.SaveDraftRequest{Status: "DRAFT"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"detail":"Agrega al menos una partida antes de guardar la cotización."}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/v1/draft/save", dto.SaveDraftRequest{Status: "CANCELLED"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDraft_SaveRestartsDraftAndEditUpdatesQuote(t *testing.T) {
	env := newEnv(t)
	before := decode[dto.DraftResponse](t, env.do(t, http.MethodGet, "/v1/draft", nil))
	first := env.savedQuote(t, "DRAFT")
	assert.Regexp(t, `^COT-\d+$`, first)

	d := decode[dto.DraftResponse](t, env.do(t, http.MethodGet, "/v1/draft", nil))
	assert.NotEqual(t, before.ID, d.ID)
	assert.Empty(t, d.Items)
	assert.Nil(t, d.Client)
	assert.Empty(t, d.SavedQuoteID)
	assert.Equal(t, "u-7", d.CreatedByUserID)
	assert.Equal(t, "Monterrey", d.BranchName)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/v1/quotes/"+first+"/edit", nil).Code)
	w := env.do(t, http.MethodPost, "/v1/draft/save", dto.SaveDraftRequest{Status: "PENDING"})
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode[dto.SaveDraftResponse](t, w)
	assert.Equal(t, first, second.QuoteID)
	assert.Equal(t, first[len("COT-"):], second.QuoteNumber)

	list := decode[dto.QuoteListResponse](t, env.do(t, http.MethodGet, "/v1/quotes", nil))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, model.StatusPending, list.Data[0].Status)
}

func TestDraft_HugeQuantityIsCapped(t *testing.T) {
	env := newEnv(t)
	lineID := env.addedLine(t)

	w := env.do(t, http.MethodPatch, "/v1/draft/lines/"+lineID, map[string]any{"quantity": 1e19})
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[dto.DraftResponse](t, w)
	assert.Equal(t, pricing.MaxQuantity, d.Items[0].Quantity)
	assert.True(t, d.Total.IsPositive(), d.Total.String())
}

// ── Quotes ────────────────────────────────────────────────────────────────────

func TestQuotes_ListAndGet(t *testing.T) {
	env := newEnv(t)
	id := env.savedQuote(t, "QUOTED")

	w := env.do(t, http.MethodGet, "/v1/quotes?page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.QuoteListResponse](t, w)
	require.Len(t, list.Data, 1)
	item := list.Data[0]
	assert.Equal(t, id, item.QuoteID)
	assert.Equal(t, "Juan Garza", item.ClientName)
	assert.Equal(t, "Laura Treviño", item.CreatedByName)
	assert.Equal(t, []string{"edit", "cancel", "generate_order"}, item.AllowedActions)
	assert.True(t, dec("2117.06").Equal(item.Total), item.Total.String())
	assert.Equal(t, 5, list.Limit)

	assert.Equal(t, http.StatusUnprocessableEntity, env.do(t, http.MethodGet, "/v1/quotes?limit=500", nil).Code)

	w = env.do(t, http.MethodGet, "/v1/quotes/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	q := decode[dto.QuoteResponse](t, w)
	assert.Equal(t, model.StatusQuoted, q.Status)
	assert.Equal(t, model.ExportPending, q.ERPExportState)
	assert.Len(t, q.Items, 1)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/v1/quotes/COT-1", nil).Code)
}

func TestQuotes_StatusMachine(t *testing.T) {
	env := newEnv(t)
	id := env.savedQuote(t, "PENDING")

	w := env.do(t, http.MethodPost, "/v1/quotes/"+id+"/order", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"ok":false,"message":"Solo se puede generar pedido para cotizaciones cotizadas."}`, w.Body.String())

	w = env.do(t, http.MethodPatch, "/v1/quotes/"+id+"/status", dto.UpdateStatusRequest{Status: "QUOTED"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"message":"Cotización marcada como cotizada."}`, w.Body.String())

	w = env.do(t, http.MethodPatch, "/v1/quotes/"+id+"/status", dto.UpdateStatusRequest{Status: "QUOTED"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/v1/quotes/"+id+"/order", nil)
	require.Equal(t, http.StatusOK, w.Code)
	q := decode[dto.QuoteResponse](t, env.do(t, http.MethodGet, "/v1/quotes/"+id, nil))
	assert.Equal(t, model.StatusQuoted, q.Status)
	assert.Equal(t, model.ExportExported, q.ERPExportState)

	orders := decode[[]dto.OrderRequestResponse](t, env.do(t, http.MethodGet, "/v1/orders", nil))
	require.Len(t, orders, 1)
	assert.Equal(t, id, orders[0].QuoteID)

	w = env.do(t, http.MethodPatch, "/v1/quotes/"+id+"/status", dto.UpdateStatusRequest{Status: "CANCELLED"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPatch, "/v1/quotes/"+id+"/status", dto.UpdateStatusRequest{Status: "CANCELLED"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"ok":false,"message":"La cotización ya está cancelada."}`, w.Body.String())

	w = env.do(t, http.MethodPatch, "/v1/quotes/"+id+"/status", dto.UpdateStatusRequest{Status: "DRAFT"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestQuotes_MissingQuote(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, http.MethodPatch, "/v1/quotes/COT-9/status", dto.UpdateStatusRequest{Status: "CANCELLED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"ok":false,"message":"No se encontró la cotización."}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/v1/quotes/COT-9/order", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/v1/quotes/COT-9/edit", nil).Code)
}

func TestQuotes_EditLoadsSavedQuoteIntoDraft(t *testing.T) {
	env := newEnv(t)
	id := env.savedQuote(t, "QUOTED")
	env.do(t, http.MethodDelete, "/v1/draft", nil)

	w := env.do(t, http.MethodPost, "/v1/quotes/"+id+"/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[dto.DraftResponse](t, w)
	assert.Equal(t, id, d.SavedQuoteID)
	require.Len(t, d.Items, 1)
	assert.True(t, dec("1825.05").Equal(d.Items[0].UnitPrice))
	require.NotNil(t, d.Client)
	assert.Equal(t, "cl_001", d.Client.ID)

	d = decode[dto.DraftResponse](t, env.do(t, http.MethodGet, "/v1/draft", nil))
	assert.Equal(t, id, d.SavedQuoteID)
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func TestCatalog_Search(t *testing.T) {
	env := newEnv(t)
	env.catalog.items = []model.CatalogItem{{Code: "CBL-12", EAN: "7501031311309", Description: "Cable", Unit: "M"}}

	w := env.do(t, http.MethodGet, "/v1/catalog/search?ean=7501031311309", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.CatalogSearchResponse](t, w).Data, 1)
	assert.Equal(t, "MTY", env.catalog.lastBranch)

	env.do(t, http.MethodGet, "/v1/catalog/search?ean=7501031311309&branch=GDL", nil)
	assert.Equal(t, "GDL", env.catalog.lastBranch)

	assert.Equal(t, http.StatusUnprocessableEntity, env.do(t, http.MethodGet, "/v1/catalog/search", nil).Code)

	env.catalog.err = errors.New("erp: status 500")
	assert.Equal(t, http.StatusBadGateway, env.do(t, http.MethodGet, "/v1/catalog/search?ean=1", nil).Code)

	env.catalog.err = infra.ErrCircuitOpen
	assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodGet, "/v1/catalog/search?ean=1", nil).Code)
}

// ── Clients ───────────────────────────────────────────────────────────────────

func TestClients_CRUD(t *testing.T) {
	env := newEnv(t)

	seeded := decode[[]model.Client](t, env.do(t, http.MethodGet, "/v1/clients", nil))
	assert.Len(t, seeded, 2)

	w := env.do(t, http.MethodPost, "/v1/clients", dto.ClientRequest{Name: "Pedro", Email: "no-es-correo"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"email"`)

	w = env.do(t, http.MethodPost, "/v1/clients", dto.ClientRequest{Name: " Pedro ", Email: "Pedro@Obra.MX", RFC: "peps800101xx1"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[model.Client](t, w)
	assert.Equal(t, "Pedro", created.Name)
	assert.Equal(t, "pedro@obra.mx", created.Email)
	assert.Equal(t, "PEPS800101XX1", created.RFC)
	assert.Equal(t, "u-7", created.CreatedByUserID)

	w = env.do(t, http.MethodPut, "/v1/clients/"+created.ID, dto.ClientRequest{Name: "Pedro", Lastname: "Salinas"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pedro Salinas", func() string { c := decode[model.Client](t, w); return c.FullName() }())

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/v1/clients/cl_x", dto.ClientRequest{Name: "X"}).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/v1/clients/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/v1/clients/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/v1/clients/"+created.ID, nil).Code)
}

// ── Health ────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := newEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"store":"connected","queue":"disabled","circuits":{"erp":"closed"}}`, w.Body.String())
}
