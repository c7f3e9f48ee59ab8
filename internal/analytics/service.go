package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "merchandising-engine/pkg/errors"
)

const (
	defaultTopLimit    = 10
	defaultTargetHours = 48
)

// Service computes order statistics over explicit date ranges. Results are
// always read live from the store.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

type periodTotals struct {
	placed    []Order
	delivered []Order

	orders    int
	revenue   decimal.Decimal
	fulfilled int
	pending   int
	returned  int
	sales     decimal.Decimal
	units     int
}

func (s *Service) loadPeriod(ctx context.Context, w window) (*periodTotals, error) {
	placed, err := s.store.OrdersPlacedBetween(ctx, w.start, w.end)
	if err != nil {
		return nil, apperrors.Store("orders placed", err)
	}
	delivered, err := s.store.OrdersDeliveredBetween(ctx, w.start, w.end)
	if err != nil {
		return nil, apperrors.Store("orders delivered", err)
	}

	t := &periodTotals{placed: placed, delivered: delivered}
	for _, o := range placed {
		t.orders++
		t.revenue = t.revenue.Add(o.Total)
		switch o.Status {
		case StatusDelivered, StatusShipped:
			t.fulfilled++
		case StatusPending, StatusProcessing:
			t.pending++
		case StatusReturned:
			t.returned++
		}
	}
	for _, o := range delivered {
		if o.Status != StatusDelivered {
			continue
		}
		t.sales = t.sales.Add(o.Total)
		t.units += o.Units
	}
	return t, nil
}

// OrdersAnalytics compares [start, end] against the equal-length period right
// before it.
func (s *Service) OrdersAnalytics(ctx context.Context, start, end time.Time) (*OrdersAnalytics, error) {
	w := newWindow(start, end)

	cur, err := s.loadPeriod(ctx, w)
	if err != nil {
		return nil, err
	}
	prev, err := s.loadPeriod(ctx, w.previous())
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Computed orders analytics",
		zap.Time("start", w.start),
		zap.Time("end", w.end),
		zap.Int("orders", cur.orders))

	prevOrders, curOrders := decimal.NewFromInt(int64(prev.orders)), decimal.NewFromInt(int64(cur.orders))

	return &OrdersAnalytics{
		TotalOrders:     cur.orders,
		TotalRevenue:    cur.revenue,
		FulfilledOrders: cur.fulfilled,
		PendingOrders:   cur.pending,
		ReturnedOrders:  cur.returned,
		TotalSales:      cur.sales,
		UnitsSold:       cur.units,

		TotalOrdersTrend:     countTrend(prev.orders, cur.orders),
		TotalRevenueTrend:    moneyTrend(prev.revenue, cur.revenue),
		FulfilledOrdersTrend: countTrend(prev.fulfilled, cur.fulfilled),
		PendingOrdersTrend:   countTrend(prev.pending, cur.pending),
		ReturnedOrdersTrend:  countTrend(prev.returned, cur.returned),
		TotalSalesTrend:      moneyTrend(prev.sales, cur.sales),
		UnitsSoldTrend:       countTrend(prev.units, cur.units),

		RevenueChangePercent: percentChange(prev.revenue, cur.revenue),
		OrdersChangePercent:  percentChange(prevOrders, curOrders),
		SalesChangePercent:   percentChange(prev.sales, cur.sales),

		RevenueAndOrdersSeries: buildSeries(w, cur.placed, cur.delivered),
	}, nil
}

func (s *Service) RevenueAndOrdersSeries(ctx context.Context, start, end time.Time) (*TimeSeries, error) {
	w := newWindow(start, end)

	placed, err := s.store.OrdersPlacedBetween(ctx, w.start, w.end)
	if err != nil {
		return nil, apperrors.Store("orders placed", err)
	}
	delivered, err := s.store.OrdersDeliveredBetween(ctx, w.start, w.end)
	if err != nil {
		return nil, apperrors.Store("orders delivered", err)
	}
	return buildSeries(w, placed, delivered), nil
}

// TopCustomers ranks customers by what they spent on orders delivered in the window.
func (s *Service) TopCustomers(ctx context.Context, start, end time.Time, limit int) ([]TopCustomer, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	w := newWindow(start, end)

	orders, err := s.store.OrdersDeliveredBetween(ctx, w.start, w.end)
	if err != nil {
		return nil, apperrors.Store("top customers", err)
	}

	byUser := make(map[string]*TopCustomer)
	for _, o := range orders {
		if o.Status != StatusDelivered {
			continue
		}
		c, ok := byUser[o.UserID]
		if !ok {
			c = &TopCustomer{UserID: o.UserID}
			byUser[o.UserID] = c
		}
		c.Orders++
		c.TotalSpent = c.TotalSpent.Add(o.Total)
	}

	ranked := make([]TopCustomer, 0, len(byUser))
	for _, c := range byUser {
		ranked = append(ranked, *c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if cmp := ranked[i].TotalSpent.Cmp(ranked[j].TotalSpent); cmp != 0 {
			return cmp > 0
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if len(ranked) == 0 {
		return ranked, nil
	}

	ids := make([]string, len(ranked))
	for i, c := range ranked {
		ids[i] = c.UserID
	}
	profiles, err := s.store.CustomerProfiles(ctx, ids)
	if err != nil {
		return nil, apperrors.Store("customer profiles", err)
	}
	for i := range ranked {
		if p, ok := profiles[ranked[i].UserID]; ok {
			ranked[i].Name = p.Name
			ranked[i].Email = p.Email
		}
	}
	return ranked, nil
}

// TopProducts ranks products by revenue from items of orders delivered in the window.
func (s *Service) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	w := newWindow(start, end)

	items, err := s.store.DeliveredItemsBetween(ctx, w.start, w.end)
	if err != nil {
		return nil, apperrors.Store("top products", err)
	}

	byProduct := make(map[int64]*TopProduct)
	for _, li := range items {
		p, ok := byProduct[li.ProductID]
		if !ok {
			p = &TopProduct{
				ProductID: li.ProductID,
				Name:      li.ProductName,
				Category:  li.Category,
				Price:     li.ListPrice,
			}
			byProduct[li.ProductID] = p
		}
		if p.Category == "" {
			p.Category = li.Category
		}
		p.UnitsSold += li.Quantity
		p.Revenue = p.Revenue.Add(li.Total())
	}

	ranked := make([]TopProduct, 0, len(byProduct))
	for _, p := range byProduct {
		ranked = append(ranked, *p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if cmp := ranked[i].Revenue.Cmp(ranked[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		if ranked[i].UnitsSold != ranked[j].UnitsSold {
			return ranked[i].UnitsSold > ranked[j].UnitsSold
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// OrderStatusCounts counts orders placed in the range per status. A nil bound
// is open; every status is present in the result.
func (s *Service) OrderStatusCounts(ctx context.Context, start, end *time.Time) (map[OrderStatus]int, error) {
	from := time.Unix(0, 0).UTC()
	to := s.now().UTC()
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	w := newWindow(from, to)

	orders, err := s.store.OrdersPlacedBetween(ctx, w.start, w.end)
	if err != nil {
		return nil, apperrors.Store("order status counts", err)
	}

	counts := make(map[OrderStatus]int, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts, nil
}

// FulfillmentMetrics measures order-to-delivery time for orders delivered in the window.
func (s *Service) FulfillmentMetrics(ctx context.Context, start, end time.Time, targetHours float64) (*FulfillmentMetrics, error) {
	if targetHours < 0 {
		return nil, &apperrors.ErrInvalidState{Message: "target hours must not be negative"}
	}
	if targetHours == 0 {
		targetHours = defaultTargetHours
	}
	w := newWindow(start, end)

	orders, err := s.store.OrdersDeliveredBetween(ctx, w.start, w.end)
	if err != nil {
		return nil, apperrors.Store("fulfillment metrics", err)
	}

	m := &FulfillmentMetrics{TargetHours: targetHours}
	var totalHours float64
	var within int
	for _, o := range orders {
		if o.Status != StatusDelivered || o.DeliveredDate == nil {
			continue
		}
		hours := o.DeliveredDate.Sub(o.OrderDate).Hours()
		if hours < 0 {
			hours = 0
		}
		m.DeliveredOrders++
		totalHours += hours
		if hours <= targetHours {
			within++
		}
	}
	if m.DeliveredOrders == 0 {
		return m, nil
	}

	n := float64(m.DeliveredOrders)
	m.AvgProcessingHours = decimal.NewFromFloat(totalHours / n).Round(1).InexactFloat64()
	m.WithinTargetPercent = decimal.NewFromFloat(float64(within) * 100 / n).Round(1).InexactFloat64()
	return m, nil
}
