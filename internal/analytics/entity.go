package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusReturned   OrderStatus = "RETURNED"
)

// Statuses lists every order status in lifecycle order.
var Statuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned,
}

// Order is an order header with its line totals already summed.
type Order struct {
	ID            int64
	UserID        string
	Status        OrderStatus
	OrderDate     time.Time
	DeliveredDate *time.Time
	Total         decimal.Decimal
	Units         int
}

// LineItem is one item of a delivered order.
type LineItem struct {
	OrderID       int64
	UserID        string
	DeliveredDate time.Time
	ProductID     int64
	ProductName   string
	Category      string
	ListPrice     decimal.Decimal
	Quantity      int
	UnitPrice     decimal.Decimal
}

func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Customer struct {
	UserID string
	Name   string
	Email  string
}

// Store is the read surface over orders used by the aggregator.
type Store interface {
	// OrdersPlacedBetween returns orders of any status whose order date is in [from, to).
	OrdersPlacedBetween(ctx context.Context, from, to time.Time) ([]Order, error)
	// OrdersDeliveredBetween returns DELIVERED orders whose delivered date is in [from, to).
	OrdersDeliveredBetween(ctx context.Context, from, to time.Time) ([]Order, error)
	DeliveredItemsBetween(ctx context.Context, from, to time.Time) ([]LineItem, error)
	CustomerProfiles(ctx context.Context, userIDs []string) (map[string]Customer, error)
}

// --- Reports ---

type OrdersAnalytics struct {
	TotalOrders     int             `json:"total_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	FulfilledOrders int             `json:"fulfilled_orders"`
	PendingOrders   int             `json:"pending_orders"`
	ReturnedOrders  int             `json:"returned_orders"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	UnitsSold       int             `json:"units_sold"`

	TotalOrdersTrend     string `json:"total_orders_trend"`
	TotalRevenueTrend    string `json:"total_revenue_trend"`
	FulfilledOrdersTrend string `json:"fulfilled_orders_trend"`
	PendingOrdersTrend   string `json:"pending_orders_trend"`
	ReturnedOrdersTrend  string `json:"returned_orders_trend"`
	TotalSalesTrend      string `json:"total_sales_trend"`
	UnitsSoldTrend       string `json:"units_sold_trend"`

	RevenueChangePercent float64 `json:"revenue_change_percent"`
	OrdersChangePercent  float64 `json:"orders_change_percent"`
	SalesChangePercent   float64 `json:"sales_change_percent"`

	RevenueAndOrdersSeries *TimeSeries `json:"revenue_and_orders_series"`
}

type Granularity string

const (
	Hourly  Granularity = "hourly"
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

type TimeSeries struct {
	Granularity Granularity `json:"granularity"`
	Labels      []string    `json:"labels"`
	Series      []Series    `json:"series"`
}

type TopCustomer struct {
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Orders     int             `json:"orders"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

type TopProduct struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type FulfillmentMetrics struct {
	DeliveredOrders     int     `json:"delivered_orders"`
	TargetHours         float64 `json:"target_hours"`
	AvgProcessingHours  float64 `json:"avg_processing_hours"`
	WithinTargetPercent float64 `json:"within_target_percent"`
}
