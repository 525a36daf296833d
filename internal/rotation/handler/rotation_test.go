package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/handler"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/repository"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/logger"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/testutil"
)

type fakeProvider struct {
	lots []repository.LotSnapshot
	err  error
}

func (p *fakeProvider) FetchExpiringLots(_ context.Context) ([]repository.LotSnapshot, error) {
	return p.lots, p.err
}

type fakeSink struct{ err error }

func (s *fakeSink) EnqueueCriticalAlerts(_ context.Context, _ []service.ExpiryAlert) error {
	return s.err
}

type fakeAcknowledger struct {
	got []service.RotationSuggestion
	err error
}

func (a *fakeAcknowledger) AcknowledgeAction(_ context.Context, suggestion service.RotationSuggestion) error {
	a.got = append(a.got, suggestion)
	return a.err
}

type fakeStockLister struct {
	products []repository.ProductStock
	err      error
}

func (l *fakeStockLister) ListProductStock(_ context.Context) ([]repository.ProductStock, error) {
	return l.products, l.err
}

func newTestRouter(provider *fakeProvider, ack *fakeAcknowledger, lister *fakeStockLister) chi.Router {
	log := logger.New("handler-test", "development")
	svc := service.NewRotationService(provider, &fakeSink{}, ack, nil, log)
	advisor := service.NewRestockAdvisor(lister, log)
	h := handler.NewRotationHandler(svc, advisor, log)

	r := chi.NewRouter()
	r.Route("/api/v1/rotation", func(r chi.Router) {
		r.Get("/", h.GetReport)
		r.Post("/refresh", h.Refresh)
		r.Post("/actions", h.ExecuteAction)
		r.Get("/restock", h.GetRestock)
	})

	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRotationHandler_GetReportBeforeFirstRefresh(t *testing.T) {
	router := newTestRouter(&fakeProvider{}, &fakeAcknowledger{}, &fakeStockLister{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rotation", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "idle", data["status"])
	assert.Nil(t, data["report"])
}

func TestRotationHandler_RefreshReturnsReport(t *testing.T) {
	provider := &fakeProvider{lots: []repository.LotSnapshot{{
		LotID:             "lot-1",
		ProductID:         "prod-1",
		ProductName:       "Gomitas Clásicas",
		UnitCost:          testutil.MustDecimal("10"),
		LocationID:        "loc-1",
		LocationName:      "Bodega Central",
		QuantityAvailable: 20,
	}}}
	router := newTestRouter(provider, &fakeAcknowledger{}, &fakeStockLister{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rotation/refresh", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ready", data["status"])
	require.NotNil(t, data["report"])
}

func TestRotationHandler_RefreshFetchErrorIsBadGateway(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	router := newTestRouter(provider, &fakeAcknowledger{}, &fakeStockLister{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rotation/refresh", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestRotationHandler_ExecuteActionSuccess(t *testing.T) {
	ack := &fakeAcknowledger{}
	router := newTestRouter(&fakeProvider{}, ack, &fakeStockLister{})

	payload := `{
		"product_id": "prod-1",
		"product_name": "Gomitas Clásicas",
		"action": "discount",
		"priority": "high",
		"quantity": 30,
		"expiry_date": "2025-06-06",
		"financial_impact": 300
	}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rotation/actions", strings.NewReader(payload)))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, ack.got, 1)
	assert.Equal(t, service.ActionDiscount, ack.got[0].Action)
	assert.Equal(t, 30, ack.got[0].Quantity)
}

func TestRotationHandler_ExecuteActionRejectsUnknownAction(t *testing.T) {
	ack := &fakeAcknowledger{}
	router := newTestRouter(&fakeProvider{}, ack, &fakeStockLister{})

	payload := `{
		"product_id": "prod-1",
		"product_name": "Gomitas Clásicas",
		"action": "liquidate",
		"priority": "high"
	}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rotation/actions", strings.NewReader(payload)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ack.got)
}

func TestRotationHandler_ExecuteActionRejectsInvalidJSON(t *testing.T) {
	router := newTestRouter(&fakeProvider{}, &fakeAcknowledger{}, &fakeStockLister{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rotation/actions", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRotationHandler_ExecuteActionRejectsBadExpiryDate(t *testing.T) {
	router := newTestRouter(&fakeProvider{}, &fakeAcknowledger{}, &fakeStockLister{})

	payload := `{
		"product_id": "prod-1",
		"product_name": "Gomitas Clásicas",
		"action": "transfer",
		"priority": "medium",
		"expiry_date": "06/06/2025"
	}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rotation/actions", strings.NewReader(payload)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRotationHandler_ExecuteActionAckFailureIsBadGateway(t *testing.T) {
	ack := &fakeAcknowledger{err: errors.New("broker down")}
	router := newTestRouter(&fakeProvider{}, ack, &fakeStockLister{})

	payload := `{
		"product_id": "prod-1",
		"product_name": "Gomitas Clásicas",
		"action": "dispose",
		"priority": "high"
	}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rotation/actions", strings.NewReader(payload)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRotationHandler_GetRestock(t *testing.T) {
	lister := &fakeStockLister{products: []repository.ProductStock{{
		ProductID:     "prod-1",
		ProductName:   "Gomitas Clásicas",
		SKU:           "GC-001",
		MinStockUnits: 100,
		UnitsPerBatch: 24,
		UnitCost:      testutil.MustDecimal("2.50"),
		CurrentStock:  30,
	}}}
	router := newTestRouter(&fakeProvider{}, &fakeAcknowledger{}, lister)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rotation/restock", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "prod-1", first["product_id"])
	assert.Equal(t, float64(192), first["suggested_units"])
}

func TestRotationHandler_GetRestockRepositoryError(t *testing.T) {
	lister := &fakeStockLister{err: errors.New("connection refused")}
	router := newTestRouter(&fakeProvider{}, &fakeAcknowledger{}, lister)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rotation/restock", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
