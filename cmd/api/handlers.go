package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"merchandising-engine/internal/analytics"
	"merchandising-engine/internal/promotion"
	apperrors "merchandising-engine/pkg/errors"
)

const (
	defaultNewArrivalsDays = 30
	defaultTrendingDays    = 7
	defaultReportDays      = 30
	xlsxContentType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// PromotionService is the promotion surface the handlers need.
type PromotionService interface {
	FlashSales(ctx context.Context, ref *time.Time, limit int) ([]promotion.PromotedProduct, error)
	DailyDeals(ctx context.Context, date time.Time, limit int) ([]promotion.DailyDealView, error)
	Trending(ctx context.Context, from, to time.Time, limit int) ([]promotion.Product, error)
	NewArrivals(ctx context.Context, window time.Duration, limit int) ([]promotion.Product, error)
	RelatedProducts(ctx context.Context, productID int64, limit int) ([]promotion.Product, error)
	YouMayAlsoLike(ctx context.Context, cart []int64, limit int) ([]promotion.Product, error)
	SuggestionsAfterPurchase(ctx context.Context, orderID int64, limit int) ([]promotion.Product, error)
	RecentlyBought(ctx context.Context, userID string, limit int) ([]promotion.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]promotion.Product, error)

	SetFeatured(ctx context.Context, in promotion.FeaturedInput, uow promotion.UnitOfWork) error
	RemoveFeatured(ctx context.Context, productID int64, uow promotion.UnitOfWork) error
	SetDailyDeal(ctx context.Context, in promotion.DailyDealInput, uow promotion.UnitOfWork) (*promotion.DailyDeal, error)
	RemoveDailyDeal(ctx context.Context, productID int64, date *time.Time, uow promotion.UnitOfWork) error
	AddOrUpdateFlashSaleItem(ctx context.Context, in promotion.FlashSaleItemInput, uow promotion.UnitOfWork) (*promotion.FlashSaleItem, error)
	RemoveProductFromAnyFlashSale(ctx context.Context, productID int64, uow promotion.UnitOfWork) error
	SyncFlashSaleFields(ctx context.Context, productID int64, uow promotion.UnitOfWork) error
	ApplyPlan(ctx context.Context, productID int64, plan promotion.PromotionPlan) error
	RecordProductView(ctx context.Context, productID int64, at time.Time, uow promotion.UnitOfWork) error
	RecordProductSale(ctx context.Context, productID int64, qty int, at time.Time, uow promotion.UnitOfWork) error
}

// AnalyticsService is the reporting surface the handlers need.
type AnalyticsService interface {
	OrdersAnalytics(ctx context.Context, start, end time.Time) (*analytics.OrdersAnalytics, error)
	RevenueAndOrdersSeries(ctx context.Context, start, end time.Time) (*analytics.TimeSeries, error)
	TopCustomers(ctx context.Context, start, end time.Time, limit int) ([]analytics.TopCustomer, error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]analytics.TopProduct, error)
	OrderStatusCounts(ctx context.Context, start, end *time.Time) (map[analytics.OrderStatus]int, error)
	FulfillmentMetrics(ctx context.Context, start, end time.Time, targetHours float64) (*analytics.FulfillmentMetrics, error)
}

type Handler struct {
	promotions PromotionService
	analytics  AnalyticsService
	logger     *zap.Logger
	now        func() time.Time
}

func NewHandler(promotions PromotionService, reports AnalyticsService, logger *zap.Logger) *Handler {
	return &Handler{promotions: promotions, analytics: reports, logger: logger, now: time.Now}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	// Storefront
	mux.HandleFunc("GET /v1/promotions/flash-sales", h.GetFlashSales)
	mux.HandleFunc("GET /v1/promotions/daily-deals", h.GetDailyDeals)
	mux.HandleFunc("GET /v1/products/trending", h.GetTrending)
	mux.HandleFunc("GET /v1/products/new-arrivals", h.GetNewArrivals)
	mux.HandleFunc("GET /v1/products/featured", h.GetFeatured)
	mux.HandleFunc("GET /v1/products/{id}/related", h.GetRelated)
	mux.HandleFunc("POST /v1/products/{id}/views", h.RecordView)
	mux.HandleFunc("GET /v1/recommendations/also-like", h.GetAlsoLike)
	mux.HandleFunc("GET /v1/orders/{id}/suggestions", h.GetOrderSuggestions)
	mux.HandleFunc("GET /v1/users/{id}/recently-bought", h.GetRecentlyBought)

	// Admin
	mux.HandleFunc("PUT /v1/admin/products/{id}/featured", h.SetFeatured)
	mux.HandleFunc("DELETE /v1/admin/products/{id}/featured", h.RemoveFeatured)
	mux.HandleFunc("PUT /v1/admin/products/{id}/daily-deal", h.SetDailyDeal)
	mux.HandleFunc("DELETE /v1/admin/products/{id}/daily-deal", h.RemoveDailyDeal)
	mux.HandleFunc("PUT /v1/admin/products/{id}/flash-sale", h.SetFlashSaleItem)
	mux.HandleFunc("DELETE /v1/admin/products/{id}/flash-sale", h.RemoveFlashSaleItems)
	mux.HandleFunc("POST /v1/admin/products/{id}/flash-sale/sync", h.SyncFlashSale)
	mux.HandleFunc("PUT /v1/admin/products/{id}/promotions", h.ApplyPlan)
	mux.HandleFunc("POST /v1/admin/products/{id}/sales", h.RecordSale)

	// Analytics
	mux.HandleFunc("GET /v1/analytics/orders", h.GetOrdersAnalytics)
	mux.HandleFunc("GET /v1/analytics/series", h.GetSeries)
	mux.HandleFunc("GET /v1/analytics/top-customers", h.GetTopCustomers)
	mux.HandleFunc("GET /v1/analytics/top-products", h.GetTopProducts)
	mux.HandleFunc("GET /v1/analytics/status-counts", h.GetStatusCounts)
	mux.HandleFunc("GET /v1/analytics/fulfillment", h.GetFulfillment)
}

// --- Storefront Handlers ---

// GetFlashSales godoc
// @Summary      Flash Sale Listing
// @Description  Products in a running flash sale, best priority first. Falls back to products flagged as on flash sale.
// @Tags         Storefront
// @Produce      json
// @Param        at     query     string  false  "Reference time (RFC3339), defaults to now"
// @Param        limit  query     int     false  "Max items (default 20)"
// @Success      200  {array}   promotion.PromotedProduct
// @Failure      400  {string}  string "Invalid query"
// @Router       /v1/promotions/flash-sales [get]
func (h *Handler) GetFlashSales(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	at, err := queryTime(r, "at")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.promotions.FlashSales(r.Context(), at, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetDailyDeals godoc
// @Summary      Daily Deals
// @Description  Deals scheduled for the given day, curated or synthetic from flagged products.
// @Tags         Storefront
// @Produce      json
// @Param        date   query     string  false  "Day (YYYY-MM-DD), defaults to today"
// @Param        limit  query     int     false  "Max items (default 5)"
// @Success      200  {array}   promotion.DailyDealView
// @Router       /v1/promotions/daily-deals [get]
func (h *Handler) GetDailyDeals(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := queryTime(r, "date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	day := h.now()
	if date != nil {
		day = *date
	}

	list, err := h.promotions.DailyDeals(r.Context(), day, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetTrending godoc
// @Summary      Trending Products
// @Description  Products ranked by weighted views and sales over the date range (default last 7 days).
// @Tags         Storefront
// @Produce      json
// @Param        from   query     string  false  "Start day (YYYY-MM-DD)"
// @Param        to     query     string  false  "End day (YYYY-MM-DD)"
// @Param        limit  query     int     false  "Max items (default 20)"
// @Success      200  {array}   promotion.Product
// @Router       /v1/products/trending [get]
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	from, to, err := h.queryRange(r, defaultTrendingDays)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.promotions.Trending(r.Context(), from, to, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetNewArrivals godoc
// @Summary      New Arrivals
// @Description  Active products created in the last N days, newest first.
// @Tags         Storefront
// @Produce      json
// @Param        days   query     int  false  "Window in days (default 30)"
// @Param        limit  query     int  false  "Max items (default 20)"
// @Success      200  {array}   promotion.Product
// @Router       /v1/products/new-arrivals [get]
func (h *Handler) GetNewArrivals(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	days, err := queryInt(r, "days", defaultNewArrivalsDays)
	if err != nil || days < 0 {
		http.Error(w, "invalid days", http.StatusBadRequest)
		return
	}

	list, err := h.promotions.NewArrivals(r.Context(), time.Duration(days)*24*time.Hour, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetFeatured godoc
// @Summary      Featured Products
// @Description  Curated featured products in position order, or best sellers flagged as featured.
// @Tags         Storefront
// @Produce      json
// @Param        limit  query     int  false  "Max items (default 20)"
// @Success      200  {array}   promotion.Product
// @Router       /v1/products/featured [get]
func (h *Handler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.promotions.FeaturedProducts(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetRelated godoc
// @Summary      Related Products
// @Description  Active products sharing categories and tags with the product.
// @Tags         Storefront
// @Produce      json
// @Param        id     path      int  true   "Product ID"
// @Param        limit  query     int  false  "Max items (default 10)"
// @Success      200  {array}   promotion.Product
// @Router       /v1/products/{id}/related [get]
func (h *Handler) GetRelated(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.promotions.RelatedProducts(r.Context(), id, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// RecordView godoc
// @Summary      Track Product View
// @Description  Counts a product page view towards today's trending stats.
// @Tags         Storefront
// @Param        id   path      int  true  "Product ID"
// @Success      204  "No Content"
// @Router       /v1/products/{id}/views [post]
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.promotions.RecordProductView(r.Context(), id, h.now(), nil); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAlsoLike godoc
// @Summary      You May Also Like
// @Description  Products most often bought together with the cart's products.
// @Tags         Storefront
// @Produce      json
// @Param        product_ids  query     string  true   "Comma separated product IDs"
// @Param        limit        query     int     false  "Max items (default 12)"
// @Success      200  {array}   promotion.Product
// @Failure      400  {string}  string "Invalid product_ids"
// @Router       /v1/recommendations/also-like [get]
func (h *Handler) GetAlsoLike(w http.ResponseWriter, r *http.Request) {
	cart, err := queryIDs(r, "product_ids")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.promotions.YouMayAlsoLike(r.Context(), cart, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetOrderSuggestions godoc
// @Summary      Post-purchase Suggestions
// @Description  Co-purchase suggestions using the order's contents as the cart.
// @Tags         Storefront
// @Produce      json
// @Param        id     path      int  true   "Order ID"
// @Param        limit  query     int  false  "Max items (default 12)"
// @Success      200  {array}   promotion.Product
// @Failure      404  {string}  string "Order not found"
// @Router       /v1/orders/{id}/suggestions [get]
func (h *Handler) GetOrderSuggestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.promotions.SuggestionsAfterPurchase(r.Context(), id, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetRecentlyBought godoc
// @Summary      Recently Bought
// @Description  Products the user bought, most recent purchase first.
// @Tags         Storefront
// @Produce      json
// @Param        id     path      string  true   "User ID"
// @Param        limit  query     int     false  "Max items (default 20)"
// @Success      200  {array}   promotion.Product
// @Router       /v1/users/{id}/recently-bought [get]
func (h *Handler) GetRecentlyBought(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.promotions.RecentlyBought(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// --- Admin Handlers ---

// SetFeatured godoc
// @Summary      Feature Product
// @Description  Creates or updates the product's featured entry, or removes it when is_featured is false.
// @Tags         Admin
// @Accept       json
// @Param        id       path  int                      true  "Product ID"
// @Param        request  body  promotion.FeaturedInput  true  "Featured entry"
// @Success      204  "No Content"
// @Router       /v1/admin/products/{id}/featured [put]
func (h *Handler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in promotion.FeaturedInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.ProductID = id

	if err := h.promotions.SetFeatured(r.Context(), in, nil); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFeatured godoc
// @Summary      Unfeature Product
// @Tags         Admin
// @Param        id   path  int  true  "Product ID"
// @Success      204  "No Content"
// @Router       /v1/admin/products/{id}/featured [delete]
func (h *Handler) RemoveFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.promotions.RemoveFeatured(r.Context(), id, nil); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDailyDeal godoc
// @Summary      Schedule Daily Deal
// @Description  Creates or updates the product's deal for the day (today when date is omitted).
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id       path  int                       true  "Product ID"
// @Param        request  body  promotion.DailyDealInput  true  "Deal"
// @Success      200  {object}  promotion.DailyDeal
// @Router       /v1/admin/products/{id}/daily-deal [put]
func (h *Handler) SetDailyDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in promotion.DailyDealInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.ProductID = id

	deal, err := h.promotions.SetDailyDeal(r.Context(), in, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

// RemoveDailyDeal godoc
// @Summary      Remove Daily Deal
// @Tags         Admin
// @Param        id    path   int     true   "Product ID"
// @Param        date  query  string  false  "Day (YYYY-MM-DD), defaults to today"
// @Success      204  "No Content"
// @Router       /v1/admin/products/{id}/daily-deal [delete]
func (h *Handler) RemoveDailyDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	date, err := queryTime(r, "date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.promotions.RemoveDailyDeal(r.Context(), id, date, nil); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetFlashSaleItem godoc
// @Summary      Add Product To Flash Sale
// @Description  Adds or updates the product's item in the given sale, a sale matching the window, or today's sale.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id       path  int                           true  "Product ID"
// @Param        request  body  promotion.FlashSaleItemInput  true  "Flash sale item"
// @Success      200  {object}  promotion.FlashSaleItem
// @Failure      404  {string}  string "Flash sale not found"
// @Router       /v1/admin/products/{id}/flash-sale [put]
func (h *Handler) SetFlashSaleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in promotion.FlashSaleItemInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.ProductID = id

	item, err := h.promotions.AddOrUpdateFlashSaleItem(r.Context(), in, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// RemoveFlashSaleItems godoc
// @Summary      Remove Product From Flash Sales
// @Tags         Admin
// @Param        id   path  int  true  "Product ID"
// @Success      204  "No Content"
// @Router       /v1/admin/products/{id}/flash-sale [delete]
func (h *Handler) RemoveFlashSaleItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.promotions.RemoveProductFromAnyFlashSale(r.Context(), id, nil); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncFlashSale godoc
// @Summary      Resync Flash Sale Fields
// @Description  Recomputes the product's denormalized flash sale fields from its best remaining item.
// @Tags         Admin
// @Param        id   path  int  true  "Product ID"
// @Success      204  "No Content"
// @Router       /v1/admin/products/{id}/flash-sale/sync [post]
func (h *Handler) SyncFlashSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.promotions.SyncFlashSaleFields(r.Context(), id, nil); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyPlan godoc
// @Summary      Apply Promotion Plan
// @Description  Applies featured, daily deal and flash sale changes for the product in one transaction.
// @Tags         Admin
// @Accept       json
// @Param        id       path  int                      true  "Product ID"
// @Param        request  body  promotion.PromotionPlan  true  "Plan"
// @Success      204  "No Content"
// @Router       /v1/admin/products/{id}/promotions [put]
func (h *Handler) ApplyPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var plan promotion.PromotionPlan
	if !decodeBody(w, r, &plan) {
		return
	}

	if err := h.promotions.ApplyPlan(r.Context(), id, plan); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type SaleRequest struct {
	Quantity int        `json:"quantity"`
	At       *time.Time `json:"at,omitempty"`
}

// RecordSale godoc
// @Summary      Track Product Sale
// @Description  Counts units sold towards the day's trending stats.
// @Tags         Admin
// @Accept       json
// @Param        id       path  int          true  "Product ID"
// @Param        request  body  SaleRequest  true  "Sale"
// @Success      204  "No Content"
// @Failure      400  {string}  string "Invalid quantity"
// @Router       /v1/admin/products/{id}/sales [post]
func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req SaleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	at := h.now()
	if req.At != nil {
		at = *req.At
	}

	if err := h.promotions.RecordProductSale(r.Context(), id, req.Quantity, at, nil); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Analytics Handlers ---

// GetOrdersAnalytics godoc
// @Summary      Orders Dashboard
// @Description  Order counts, revenue and trends against the previous period of equal length.
// @Tags         Analytics
// @Produce      json
// @Param        start  query     string  false  "Start day (YYYY-MM-DD), default 30 days ago"
// @Param        end    query     string  false  "End day (YYYY-MM-DD), default today"
// @Success      200  {object}  analytics.OrdersAnalytics
// @Router       /v1/analytics/orders [get]
func (h *Handler) GetOrdersAnalytics(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.reportRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.analytics.OrdersAnalytics(r.Context(), start, end)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetSeries godoc
// @Summary      Revenue And Orders Series
// @Description  Dense revenue/orders time series; granularity follows the range length.
// @Tags         Analytics
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start   query     string  false  "Start day (YYYY-MM-DD)"
// @Param        end     query     string  false  "End day (YYYY-MM-DD)"
// @Param        format  query     string  false  "json (default) or xlsx"
// @Success      200  {object}  analytics.TimeSeries
// @Router       /v1/analytics/series [get]
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.reportRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	series, err := h.analytics.RevenueAndOrdersSeries(r.Context(), start, end)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if wantsXLSX(r) {
		h.writeXLSX(w, "revenue_and_orders.xlsx", func(out io.Writer) error {
			return analytics.ExportSeries(out, series)
		})
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// GetTopCustomers godoc
// @Summary      Top Customers
// @Description  Customers ranked by delivered spend in the range.
// @Tags         Analytics
// @Produce      json
// @Param        start  query     string  false  "Start day (YYYY-MM-DD)"
// @Param        end    query     string  false  "End day (YYYY-MM-DD)"
// @Param        limit  query     int     false  "Max rows (default 10)"
// @Success      200  {array}   analytics.TopCustomer
// @Router       /v1/analytics/top-customers [get]
func (h *Handler) GetTopCustomers(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.reportRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.analytics.TopCustomers(r.Context(), start, end, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetTopProducts godoc
// @Summary      Top Products
// @Description  Products ranked by delivered revenue in the range.
// @Tags         Analytics
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start   query     string  false  "Start day (YYYY-MM-DD)"
// @Param        end     query     string  false  "End day (YYYY-MM-DD)"
// @Param        limit   query     int     false  "Max rows (default 10)"
// @Param        format  query     string  false  "json (default) or xlsx"
// @Success      200  {array}   analytics.TopProduct
// @Router       /v1/analytics/top-products [get]
func (h *Handler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.reportRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.analytics.TopProducts(r.Context(), start, end, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if wantsXLSX(r) {
		h.writeXLSX(w, "top_products.xlsx", func(out io.Writer) error {
			return analytics.ExportTopProducts(out, list)
		})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetStatusCounts godoc
// @Summary      Order Status Counts
// @Description  Number of orders per status; open bounds cover all history.
// @Tags         Analytics
// @Produce      json
// @Param        start  query     string  false  "Start day (YYYY-MM-DD)"
// @Param        end    query     string  false  "End day (YYYY-MM-DD)"
// @Success      200  {object}  map[string]int
// @Router       /v1/analytics/status-counts [get]
func (h *Handler) GetStatusCounts(w http.ResponseWriter, r *http.Request) {
	start, err := queryTime(r, "start")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	end, err := queryTime(r, "end")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	counts, err := h.analytics.OrderStatusCounts(r.Context(), start, end)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// GetFulfillment godoc
// @Summary      Fulfillment Metrics
// @Description  Average order to delivery time and share delivered within the target.
// @Tags         Analytics
// @Produce      json
// @Param        start         query     string  false  "Start day (YYYY-MM-DD)"
// @Param        end           query     string  false  "End day (YYYY-MM-DD)"
// @Param        target_hours  query     number  false  "Target hours (default 48)"
// @Success      200  {object}  analytics.FulfillmentMetrics
// @Router       /v1/analytics/fulfillment [get]
func (h *Handler) GetFulfillment(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.reportRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	target := 0.0
	if s := r.URL.Query().Get("target_hours"); s != "" {
		target, err = strconv.ParseFloat(s, 64)
		if err != nil {
			http.Error(w, "invalid target_hours", http.StatusBadRequest)
			return
		}
	}

	metrics, err := h.analytics.FulfillmentMetrics(r.Context(), start, end, target)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var notFound *apperrors.ErrNotFound
	var invalid *apperrors.ErrInvalidState
	switch {
	case errors.As(err, &notFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &invalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("Request failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeXLSX(w http.ResponseWriter, filename string, write func(io.Writer) error) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := write(w); err != nil {
		h.logger.Error("Failed to write spreadsheet", zap.String("file", filename), zap.Error(err))
	}
}

func wantsXLSX(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "xlsx")
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func queryIDs(r *http.Request, key string) ([]int64, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, fmt.Errorf("%s is required", key)
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s", key)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// queryTime accepts RFC3339 timestamps or plain YYYY-MM-DD days (UTC).
func queryTime(r *http.Request, key string) (*time.Time, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &t, nil
}

// queryRange reads start/end (or from/to) defaulting to the last days days.
func (h *Handler) queryRange(r *http.Request, days int) (time.Time, time.Time, error) {
	end := h.now().UTC()
	start := end.AddDate(0, 0, -days)

	for _, k := range []string{"from", "start"} {
		t, err := queryTime(r, k)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if t != nil {
			start = *t
		}
	}
	for _, k := range []string{"to", "end"} {
		t, err := queryTime(r, k)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if t != nil {
			end = *t
		}
	}
	return start, end, nil
}

func (h *Handler) reportRange(r *http.Request) (time.Time, time.Time, error) {
	return h.queryRange(r, defaultReportDays)
}
