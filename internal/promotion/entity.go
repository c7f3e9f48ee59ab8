package promotion

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	StockQuantity   int              `json:"stock_quantity"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	IsFeatured      bool             `json:"is_featured"`
	IsDailyDeal     bool             `json:"is_daily_deal"`
	DailyDealPrice  *decimal.Decimal `json:"daily_deal_price,omitempty"`
	IsFlashSale     bool             `json:"is_flash_sale"`
	FlashSalePrice  *decimal.Decimal `json:"flash_sale_price,omitempty"`
	FlashSaleStart  *time.Time       `json:"flash_sale_start,omitempty"`
	FlashSaleEnd    *time.Time       `json:"flash_sale_end,omitempty"`
	ViewsCount      int              `json:"views_count"`
	TotalSalesCount int              `json:"total_sales_count"`
}

// InStock reports whether the product can be surfaced by stock-gated listings.
func (p *Product) InStock() bool {
	return p.IsActive && p.StockQuantity > 0
}

type FeaturedProduct struct {
	ID        int64      `json:"id"`
	ProductID int64      `json:"product_id"`
	Position  int        `json:"position"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// ActiveAt reports whether the optional window contains t. A nil bound is open.
func (f *FeaturedProduct) ActiveAt(t time.Time) bool {
	if f.StartDate != nil && f.StartDate.After(t) {
		return false
	}
	if f.EndDate != nil && f.EndDate.Before(t) {
		return false
	}
	return true
}

type DailyDeal struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"product_id"`
	Date      time.Time        `json:"date"`
	Priority  int              `json:"priority"`
	DealPrice *decimal.Decimal `json:"deal_price,omitempty"`
	StartAt   *time.Time       `json:"start_at,omitempty"`
	EndAt     *time.Time       `json:"end_at,omitempty"`
}

type FlashSale struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// Contains reports whether t lies inside [StartAt, EndAt].
func (s *FlashSale) Contains(t time.Time) bool {
	return !t.Before(s.StartAt) && !t.After(s.EndAt)
}

type FlashSaleItem struct {
	ID          int64           `json:"id"`
	FlashSaleID int64           `json:"flash_sale_id"`
	ProductID   int64           `json:"product_id"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Priority    int             `json:"priority"`
}

// --- Read models ---

// PromotedProduct is a product surfaced by a promotion listing with the price it sells at.
type PromotedProduct struct {
	Product        Product         `json:"product"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Priority       int             `json:"priority"`
}

// Discount is the amount taken off the list price.
func (p PromotedProduct) Discount() decimal.Decimal {
	return p.Product.Price.Sub(p.EffectivePrice)
}

type DailyDealView struct {
	ProductID int64           `json:"product_id"`
	Product   Product         `json:"product"`
	DealPrice decimal.Decimal `json:"deal_price"`
	Date      time.Time       `json:"date"`
	StartAt   time.Time       `json:"start_at"`
	EndAt     time.Time       `json:"end_at"`
	Priority  int             `json:"priority"`
}

// FlashSaleCandidate is an item of a running sale joined with its product.
type FlashSaleCandidate struct {
	Item    FlashSaleItem
	Sale    FlashSale
	Product Product
}

type DailyDealRow struct {
	Deal    DailyDeal
	Product Product
}

type FeaturedRow struct {
	Featured FeaturedProduct
	Product  Product
}

type StatTotal struct {
	ProductID int64
	Views     int
	Sales     int
}

type RelatedCandidate struct {
	Product         Product
	CategoryMatches int
	TagMatches      int
}

type CoPurchase struct {
	ProductID int64
	Count     int
}

type PurchaseRecency struct {
	ProductID  int64
	LastBought time.Time
}

// Presence records which promotion detail rows exist for a product.
type Presence struct {
	Featured  bool
	DailyDeal bool
	FlashSale bool
}

// ProductFlags is the denormalized promotion state written back onto a product row.
// Flash fields are written only when SetFlashFields is true.
type ProductFlags struct {
	IsFeatured     bool
	IsDailyDeal    bool
	IsFlashSale    bool
	SetFlashFields bool
	FlashSalePrice *decimal.Decimal
	FlashSaleStart *time.Time
	FlashSaleEnd   *time.Time
}

// ProductFilter narrows ProductsByIDs.
type ProductFilter int

const (
	AnyProduct ProductFilter = iota
	ActiveOnly
	ActiveInStock
)

type Flag string

const (
	FlagFeatured  Flag = "is_featured"
	FlagDailyDeal Flag = "is_daily_deal"
	FlagFlashSale Flag = "is_flash_sale"
)

// Queries is the query/update surface over the promotion tables.
// It is implemented both by the store itself and by a unit of work bound to a transaction.
type Queries interface {
	// Read paths
	ActiveFlashSaleItems(ctx context.Context, at time.Time) ([]FlashSaleCandidate, error)
	FlaggedProducts(ctx context.Context, flag Flag) ([]Product, error)
	HasDailyDeals(ctx context.Context) (bool, error)
	DailyDealsOn(ctx context.Context, day time.Time) ([]DailyDealRow, error)
	StatTotals(ctx context.Context, from, to time.Time) ([]StatTotal, error)
	ProductsByIDs(ctx context.Context, ids []int64, filter ProductFilter) ([]Product, error)
	ProductsCreatedSince(ctx context.Context, cutoff time.Time, limit int) ([]Product, error)
	RelatedCandidates(ctx context.Context, productID int64) ([]RelatedCandidate, error)
	CoPurchaseCounts(ctx context.Context, productIDs []int64) ([]CoPurchase, error)
	OrderProductIDs(ctx context.Context, orderID int64) ([]int64, bool, error)
	PurchaseRecency(ctx context.Context, userID string) ([]PurchaseRecency, error)
	HasFeaturedProducts(ctx context.Context) (bool, error)
	FeaturedRows(ctx context.Context) ([]FeaturedRow, error)

	// Featured
	SaveFeatured(ctx context.Context, f *FeaturedProduct) error
	DeleteFeatured(ctx context.Context, productID int64) error

	// Daily deals
	UpsertDailyDeal(ctx context.Context, d *DailyDeal) error
	DeleteDailyDeal(ctx context.Context, productID int64, day time.Time) error

	// Flash sales
	FlashSaleByID(ctx context.Context, id int64) (*FlashSale, error)
	FlashSaleByWindow(ctx context.Context, start, end time.Time) (*FlashSale, error)
	FlashSaleActiveAt(ctx context.Context, at time.Time) (*FlashSale, error)
	CreateFlashSale(ctx context.Context, s *FlashSale) error
	UpsertFlashSaleItem(ctx context.Context, item *FlashSaleItem) error
	DeleteFlashSaleItems(ctx context.Context, productID int64) error
	BestFlashSaleItem(ctx context.Context, productID int64) (*FlashSaleCandidate, error)

	// Derived flags
	PromotionPresence(ctx context.Context, productID int64) (Presence, error)
	UpdateProductFlags(ctx context.Context, productID int64, flags ProductFlags) error

	// Daily stats
	RecordStat(ctx context.Context, productID int64, day time.Time, views, sales int) error
}

// UnitOfWork is a Queries bound to an open transaction.
type UnitOfWork interface {
	Queries
	Commit() error
	Rollback() error
}

// Store (PostgreSQL - Persistence)
type Store interface {
	Queries
	Begin(ctx context.Context) (UnitOfWork, error)
}

// Cache (Redis or in-process - Hot Path). Keys passed in are already versioned.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Version(ctx context.Context) (string, error)
	Bump(ctx context.Context) (string, error)
}
