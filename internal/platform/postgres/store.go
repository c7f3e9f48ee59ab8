package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"merchandising-engine/internal/promotion"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds every statement; it runs against the pool or a transaction.
type queries struct {
	db     dbtx
	logger *zap.Logger
}

type Store struct {
	*queries
	pool *sql.DB
}

func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		queries: &queries{db: db, logger: logger},
		pool:    db,
	}
}

// Tx is a unit of work bound to one *sql.Tx.
type Tx struct {
	*queries
	tx *sql.Tx
}

// BeginTx opens a transaction that callers may hand to promotion admin operations
// and use for their own statements through SQL().
func (s *Store) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := s.pool.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{queries: &queries{db: tx, logger: s.logger}, tx: tx}, nil
}

func (s *Store) Begin(ctx context.Context) (promotion.UnitOfWork, error) {
	return s.BeginTx(ctx)
}

func (t *Tx) SQL() *sql.Tx {
	return t.tx
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback is a no-op once the transaction has been committed.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return err
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

const productColumns = `p.id, p.name, p.price, p.stock_quantity, p.is_active, p.created_at,
	p.is_featured, p.is_daily_deal, p.daily_deal_price, p.is_flash_sale, p.flash_sale_price,
	p.flash_sale_start, p.flash_sale_end, p.views_count, p.total_sales_count`

// scanProduct reads productColumns followed by any extra destinations.
func scanProduct(sc scanner, extra ...any) (promotion.Product, error) {
	var p promotion.Product
	var dailyDealPrice, flashSalePrice decimal.NullDecimal
	var flashStart, flashEnd sql.NullTime

	dest := []any{
		&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.IsActive, &p.CreatedAt,
		&p.IsFeatured, &p.IsDailyDeal, &dailyDealPrice, &p.IsFlashSale, &flashSalePrice,
		&flashStart, &flashEnd, &p.ViewsCount, &p.TotalSalesCount,
	}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return p, err
	}

	p.DailyDealPrice = decimalPtr(dailyDealPrice)
	p.FlashSalePrice = decimalPtr(flashSalePrice)
	p.FlashSaleStart = timePtr(flashStart)
	p.FlashSaleEnd = timePtr(flashEnd)
	return p, nil
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (q *queries) queryProducts(ctx context.Context, query string, args ...any) ([]promotion.Product, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []promotion.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (q *queries) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
