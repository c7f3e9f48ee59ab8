package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"merchandising-engine/internal/analytics"
	"merchandising-engine/internal/promotion"
	apperrors "merchandising-engine/pkg/errors"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fakePromotions implements only what the tests exercise; other methods panic
// through the nil embedded interface.
type fakePromotions struct {
	PromotionService

	flashAt    *time.Time
	flashLimit int
	cart       []int64
	plan       promotion.PromotionPlan
	planID     int64
	featured   promotion.FeaturedInput
	saleQty    int
	saleAt     time.Time
	err        error
}

func (f *fakePromotions) FlashSales(_ context.Context, ref *time.Time, limit int) ([]promotion.PromotedProduct, error) {
	f.flashAt, f.flashLimit = ref, limit
	if f.err != nil {
		return nil, f.err
	}
	return []promotion.PromotedProduct{{
		Product:        promotion.Product{ID: 1, Name: "Kettle", Price: decimal.RequireFromString("50")},
		EffectivePrice: decimal.RequireFromString("35"),
	}}, nil
}

func (f *fakePromotions) YouMayAlsoLike(_ context.Context, cart []int64, _ int) ([]promotion.Product, error) {
	f.cart = cart
	return []promotion.Product{}, nil
}

func (f *fakePromotions) SuggestionsAfterPurchase(_ context.Context, orderID int64, _ int) ([]promotion.Product, error) {
	return nil, apperrors.NotFound("order", orderID)
}

func (f *fakePromotions) SetFeatured(_ context.Context, in promotion.FeaturedInput, uow promotion.UnitOfWork) error {
	if uow != nil {
		return errors.New("handlers must run in own-transaction mode")
	}
	f.featured = in
	return f.err
}

func (f *fakePromotions) ApplyPlan(_ context.Context, productID int64, plan promotion.PromotionPlan) error {
	f.planID, f.plan = productID, plan
	return f.err
}

func (f *fakePromotions) RecordProductSale(_ context.Context, _ int64, qty int, at time.Time, _ promotion.UnitOfWork) error {
	if qty <= 0 {
		return &apperrors.ErrInvalidState{Message: "sale quantity must be positive"}
	}
	f.saleQty, f.saleAt = qty, at
	return nil
}

type fakeAnalytics struct {
	AnalyticsService

	start, end time.Time
	target     float64
}

func (f *fakeAnalytics) TopProducts(_ context.Context, start, end time.Time, _ int) ([]analytics.TopProduct, error) {
	f.start, f.end = start, end
	return []analytics.TopProduct{{ProductID: 4, Name: "Mug", Category: "Kitchen", Price: decimal.RequireFromString("9.5"), UnitsSold: 3, Revenue: decimal.RequireFromString("28.5")}}, nil
}

func (f *fakeAnalytics) FulfillmentMetrics(_ context.Context, start, end time.Time, target float64) (*analytics.FulfillmentMetrics, error) {
	f.start, f.end, f.target = start, end, target
	return &analytics.FulfillmentMetrics{DeliveredOrders: 2, TargetHours: target}, nil
}

func newTestServer(p *fakePromotions, a *fakeAnalytics) *http.ServeMux {
	h := NewHandler(p, a, zap.NewNop())
	h.now = func() time.Time { return fixedNow }
	mux := http.NewServeMux()
	h.Routes(mux)
	return mux
}

func do(mux *http.ServeMux, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestGetFlashSales(t *testing.T) {
	p := &fakePromotions{}
	mux := newTestServer(p, &fakeAnalytics{})

	rec := do(mux, http.MethodGet, "/v1/promotions/flash-sales?limit=5&at=2026-03-10T09:30:00Z", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 5, p.flashLimit)
	require.NotNil(t, p.flashAt)
	assert.True(t, p.flashAt.Equal(time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)))

	var out []promotion.PromotedProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.True(t, out[0].EffectivePrice.Equal(decimal.RequireFromString("35")))
}

func TestGetFlashSales_BadQuery(t *testing.T) {
	mux := newTestServer(&fakePromotions{}, &fakeAnalytics{})

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/v1/promotions/flash-sales?limit=ten", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/v1/promotions/flash-sales?at=yesterday", nil).Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"store failure", apperrors.Store("flash sale items", errors.New("connection reset")), http.StatusInternalServerError},
		{"invalid state", &apperrors.ErrInvalidState{Message: "bad window"}, http.StatusBadRequest},
		{"not found", apperrors.NotFound("flash sale", 9), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestServer(&fakePromotions{err: tt.err}, &fakeAnalytics{})
			rec := do(mux, http.MethodGet, "/v1/promotions/flash-sales", nil)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "connection reset")
			}
		})
	}
}

func TestGetAlsoLike_ParsesCart(t *testing.T) {
	p := &fakePromotions{}
	mux := newTestServer(p, &fakeAnalytics{})

	rec := do(mux, http.MethodGet, "/v1/recommendations/also-like?product_ids=3,%201,2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{3, 1, 2}, p.cart)

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/v1/recommendations/also-like", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/v1/recommendations/also-like?product_ids=1,x", nil).Code)
}

func TestGetOrderSuggestions_NotFound(t *testing.T) {
	mux := newTestServer(&fakePromotions{}, &fakeAnalytics{})

	rec := do(mux, http.MethodGet, "/v1/orders/77/suggestions", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetFeatured_UsesPathID(t *testing.T) {
	p := &fakePromotions{}
	mux := newTestServer(p, &fakeAnalytics{})

	rec := do(mux, http.MethodPut, "/v1/admin/products/42/featured", promotion.FeaturedInput{ProductID: 1, IsFeatured: true, Position: 3})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(42), p.featured.ProductID)
	assert.Equal(t, 3, p.featured.Position)

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPut, "/v1/admin/products/abc/featured", promotion.FeaturedInput{}).Code)
}

func TestApplyPlan(t *testing.T) {
	p := &fakePromotions{}
	mux := newTestServer(p, &fakeAnalytics{})

	plan := promotion.PromotionPlan{
		Featured:        &promotion.FeaturedInput{IsFeatured: true, Position: 1},
		ClearFlashSales: true,
	}
	rec := do(mux, http.MethodPut, "/v1/admin/products/8/promotions", plan)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(8), p.planID)
	require.NotNil(t, p.plan.Featured)
	assert.True(t, p.plan.ClearFlashSales)
	assert.Nil(t, p.plan.DailyDeal)

	req := httptest.NewRequest(http.MethodPut, "/v1/admin/products/8/promotions", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordSale(t *testing.T) {
	p := &fakePromotions{}
	mux := newTestServer(p, &fakeAnalytics{})

	rec := do(mux, http.MethodPost, "/v1/admin/products/5/sales", SaleRequest{Quantity: 2})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 2, p.saleQty)
	assert.True(t, p.saleAt.Equal(fixedNow))

	rec = do(mux, http.MethodPost, "/v1/admin/products/5/sales", SaleRequest{Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTopProducts_DefaultRangeAndXLSX(t *testing.T) {
	a := &fakeAnalytics{}
	mux := newTestServer(&fakePromotions{}, a)

	rec := do(mux, http.MethodGet, "/v1/analytics/top-products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, a.end.Equal(fixedNow))
	assert.True(t, a.start.Equal(fixedNow.AddDate(0, 0, -defaultReportDays)))

	rec = do(mux, http.MethodGet, "/v1/analytics/top-products?start=2026-02-01&end=2026-02-28&format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "top_products.xlsx")
	assert.True(t, a.start.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))

	file, err := xlsx.OpenBinary(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Equal(t, "Mug", file.Sheets[0].Rows[1].Cells[2].String())
}

func TestGetFulfillment_Target(t *testing.T) {
	a := &fakeAnalytics{}
	mux := newTestServer(&fakePromotions{}, a)

	rec := do(mux, http.MethodGet, "/v1/analytics/fulfillment?target_hours=24", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 24.0, a.target)

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/v1/analytics/fulfillment?target_hours=soon", nil).Code)
}

func TestUnknownMethod(t *testing.T) {
	mux := newTestServer(&fakePromotions{}, &fakeAnalytics{})

	rec := do(mux, http.MethodPost, "/v1/promotions/flash-sales", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
