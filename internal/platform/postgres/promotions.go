package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"merchandising-engine/internal/promotion"
)

func (q *queries) ActiveFlashSaleItems(ctx context.Context, at time.Time) ([]promotion.FlashSaleCandidate, error) {
	query := `
		SELECT ` + productColumns + `,
			fi.id, fi.flash_sale_id, fi.product_id, fi.sale_price, fi.priority,
			fs.id, fs.name, fs.start_at, fs.end_at
		FROM flash_sale_items fi
		JOIN flash_sales fs ON fs.id = fi.flash_sale_id
		JOIN products p ON p.id = fi.product_id
		WHERE fs.start_at <= $1 AND fs.end_at >= $1
			AND p.is_active AND p.stock_quantity > 0`

	rows, err := q.db.QueryContext(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("failed to query active flash sale items: %w", err)
	}
	defer rows.Close()

	var result []promotion.FlashSaleCandidate
	for rows.Next() {
		var c promotion.FlashSaleCandidate
		p, err := scanProduct(rows,
			&c.Item.ID, &c.Item.FlashSaleID, &c.Item.ProductID, &c.Item.SalePrice, &c.Item.Priority,
			&c.Sale.ID, &c.Sale.Name, &c.Sale.StartAt, &c.Sale.EndAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flash sale item: %w", err)
		}
		c.Product = p
		result = append(result, c)
	}
	return result, rows.Err()
}

func (q *queries) FlaggedProducts(ctx context.Context, flag promotion.Flag) ([]promotion.Product, error) {
	switch flag {
	case promotion.FlagFeatured, promotion.FlagDailyDeal, promotion.FlagFlashSale:
	default:
		return nil, fmt.Errorf("unknown product flag %q", flag)
	}

	query := `SELECT ` + productColumns + ` FROM products p WHERE p.is_active AND p.` + string(flag)
	products, err := q.queryProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s products: %w", flag, err)
	}
	return products, nil
}

func (q *queries) HasDailyDeals(ctx context.Context) (bool, error) {
	return q.exists(ctx, `SELECT EXISTS (SELECT 1 FROM daily_deals)`)
}

func (q *queries) DailyDealsOn(ctx context.Context, day time.Time) ([]promotion.DailyDealRow, error) {
	query := `
		SELECT ` + productColumns + `,
			d.id, d.product_id, d.date, d.priority, d.deal_price, d.start_at, d.end_at
		FROM daily_deals d
		JOIN products p ON p.id = d.product_id
		WHERE d.date = $1 AND p.is_active AND p.stock_quantity > 0
		ORDER BY d.priority, p.id`

	rows, err := q.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily deals: %w", err)
	}
	defer rows.Close()

	var result []promotion.DailyDealRow
	for rows.Next() {
		var r promotion.DailyDealRow
		var dealPrice decimal.NullDecimal
		var startAt, endAt sql.NullTime
		p, err := scanProduct(rows,
			&r.Deal.ID, &r.Deal.ProductID, &r.Deal.Date, &r.Deal.Priority, &dealPrice, &startAt, &endAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily deal: %w", err)
		}
		r.Product = p
		r.Deal.Date = r.Deal.Date.UTC()
		r.Deal.DealPrice = decimalPtr(dealPrice)
		r.Deal.StartAt = timePtr(startAt)
		r.Deal.EndAt = timePtr(endAt)
		result = append(result, r)
	}
	return result, rows.Err()
}

func (q *queries) StatTotals(ctx context.Context, from, to time.Time) ([]promotion.StatTotal, error) {
	query := `
		SELECT product_id, COALESCE(SUM(views), 0), COALESCE(SUM(sales), 0)
		FROM product_daily_stats
		WHERE date BETWEEN $1 AND $2
		GROUP BY product_id`

	rows, err := q.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query stat totals: %w", err)
	}
	defer rows.Close()

	var result []promotion.StatTotal
	for rows.Next() {
		var s promotion.StatTotal
		if err := rows.Scan(&s.ProductID, &s.Views, &s.Sales); err != nil {
			return nil, fmt.Errorf("failed to scan stat total: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (q *queries) ProductsByIDs(ctx context.Context, ids []int64, filter promotion.ProductFilter) ([]promotion.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = ANY($1)`
	switch filter {
	case promotion.ActiveOnly:
		query += ` AND p.is_active`
	case promotion.ActiveInStock:
		query += ` AND p.is_active AND p.stock_quantity > 0`
	}

	products, err := q.queryProducts(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query products by id: %w", err)
	}
	return products, nil
}

func (q *queries) ProductsCreatedSince(ctx context.Context, cutoff time.Time, limit int) ([]promotion.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.is_active AND p.created_at >= $1
		ORDER BY p.created_at DESC, p.id
		LIMIT $2`

	products, err := q.queryProducts(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query new arrivals: %w", err)
	}
	return products, nil
}

func (q *queries) RelatedCandidates(ctx context.Context, productID int64) ([]promotion.RelatedCandidate, error) {
	query := `
		SELECT * FROM (
			SELECT ` + productColumns + `,
				(SELECT COUNT(*) FROM product_categories pc
					WHERE pc.product_id = p.id
					AND pc.category_id IN (SELECT category_id FROM product_categories WHERE product_id = $1)) AS category_matches,
				(SELECT COUNT(*) FROM product_tags pt
					WHERE pt.product_id = p.id
					AND pt.tag_id IN (SELECT tag_id FROM product_tags WHERE product_id = $1)) AS tag_matches
			FROM products p
			WHERE p.id <> $1 AND p.is_active
		) c
		WHERE c.category_matches > 0 OR c.tag_matches > 0`

	rows, err := q.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query related candidates: %w", err)
	}
	defer rows.Close()

	var result []promotion.RelatedCandidate
	for rows.Next() {
		var c promotion.RelatedCandidate
		p, err := scanProduct(rows, &c.CategoryMatches, &c.TagMatches)
		if err != nil {
			return nil, fmt.Errorf("failed to scan related candidate: %w", err)
		}
		c.Product = p
		result = append(result, c)
	}
	return result, rows.Err()
}

func (q *queries) CoPurchaseCounts(ctx context.Context, productIDs []int64) ([]promotion.CoPurchase, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT oi.product_id, COUNT(*)
		FROM order_items oi
		WHERE oi.order_id IN (SELECT DISTINCT order_id FROM order_items WHERE product_id = ANY($1))
			AND NOT (oi.product_id = ANY($1))
		GROUP BY oi.product_id`

	rows, err := q.db.QueryContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query co-purchases: %w", err)
	}
	defer rows.Close()

	var result []promotion.CoPurchase
	for rows.Next() {
		var c promotion.CoPurchase
		if err := rows.Scan(&c.ProductID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan co-purchase: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (q *queries) OrderProductIDs(ctx context.Context, orderID int64) ([]int64, bool, error) {
	found, err := q.exists(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up order %d: %w", orderID, err)
	}
	if !found {
		return nil, false, nil
	}

	rows, err := q.db.QueryContext(ctx, `SELECT product_id FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, false, err
		}
		ids = append(ids, id)
	}
	return ids, true, rows.Err()
}

func (q *queries) PurchaseRecency(ctx context.Context, userID string) ([]promotion.PurchaseRecency, error) {
	query := `
		SELECT oi.product_id, MAX(o.order_date)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = $1
		GROUP BY oi.product_id`

	rows, err := q.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase history: %w", err)
	}
	defer rows.Close()

	var result []promotion.PurchaseRecency
	for rows.Next() {
		var r promotion.PurchaseRecency
		if err := rows.Scan(&r.ProductID, &r.LastBought); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (q *queries) HasFeaturedProducts(ctx context.Context) (bool, error) {
	return q.exists(ctx, `SELECT EXISTS (SELECT 1 FROM featured_products)`)
}

func (q *queries) FeaturedRows(ctx context.Context) ([]promotion.FeaturedRow, error) {
	query := `
		SELECT ` + productColumns + `,
			f.id, f.product_id, f.position, f.start_date, f.end_date
		FROM featured_products f
		JOIN products p ON p.id = f.product_id`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query featured products: %w", err)
	}
	defer rows.Close()

	var result []promotion.FeaturedRow
	for rows.Next() {
		var r promotion.FeaturedRow
		var start, end sql.NullTime
		p, err := scanProduct(rows, &r.Featured.ID, &r.Featured.ProductID, &r.Featured.Position, &start, &end)
		if err != nil {
			return nil, fmt.Errorf("failed to scan featured product: %w", err)
		}
		r.Product = p
		r.Featured.StartDate = timePtr(start)
		r.Featured.EndDate = timePtr(end)
		result = append(result, r)
	}
	return result, rows.Err()
}

// SaveFeatured upserts the product's single featured row; concurrent saves for
// the same product resolve last-write-wins.
func (q *queries) SaveFeatured(ctx context.Context, f *promotion.FeaturedProduct) error {
	query := `
		INSERT INTO featured_products (product_id, position, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id) DO UPDATE SET
			position = EXCLUDED.position,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date
		RETURNING id`

	err := q.db.QueryRowContext(ctx, query,
		f.ProductID, f.Position, nullTime(f.StartDate), nullTime(f.EndDate),
	).Scan(&f.ID)
	if err != nil {
		q.logger.Error("Failed to save featured product", zap.Int64("product_id", f.ProductID), zap.Error(err))
		return fmt.Errorf("failed to save featured product: %w", err)
	}
	return nil
}

func (q *queries) DeleteFeatured(ctx context.Context, productID int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM featured_products WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to delete featured product: %w", err)
	}
	return nil
}

func (q *queries) UpsertDailyDeal(ctx context.Context, d *promotion.DailyDeal) error {
	query := `
		INSERT INTO daily_deals (product_id, date, priority, deal_price, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, date) DO UPDATE SET
			priority = EXCLUDED.priority,
			deal_price = EXCLUDED.deal_price,
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at
		RETURNING id`

	err := q.db.QueryRowContext(ctx, query,
		d.ProductID, d.Date, d.Priority, nullDecimal(d.DealPrice), nullTime(d.StartAt), nullTime(d.EndAt),
	).Scan(&d.ID)
	if err != nil {
		q.logger.Error("Failed to upsert daily deal", zap.Int64("product_id", d.ProductID), zap.Error(err))
		return fmt.Errorf("failed to upsert daily deal: %w", err)
	}
	return nil
}

func (q *queries) DeleteDailyDeal(ctx context.Context, productID int64, day time.Time) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM daily_deals WHERE product_id = $1 AND date = $2`, productID, day)
	if err != nil {
		return fmt.Errorf("failed to delete daily deal: %w", err)
	}
	return nil
}

const flashSaleColumns = `id, name, start_at, end_at`

func (q *queries) flashSale(ctx context.Context, where string, args ...any) (*promotion.FlashSale, error) {
	var s promotion.FlashSale
	err := q.db.QueryRowContext(ctx,
		`SELECT `+flashSaleColumns+` FROM flash_sales WHERE `+where+` ORDER BY start_at, id LIMIT 1`, args...,
	).Scan(&s.ID, &s.Name, &s.StartAt, &s.EndAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query flash sale: %w", err)
	}
	s.StartAt = s.StartAt.UTC()
	s.EndAt = s.EndAt.UTC()
	return &s, nil
}

func (q *queries) FlashSaleByID(ctx context.Context, id int64) (*promotion.FlashSale, error) {
	return q.flashSale(ctx, `id = $1`, id)
}

func (q *queries) FlashSaleByWindow(ctx context.Context, start, end time.Time) (*promotion.FlashSale, error) {
	return q.flashSale(ctx, `start_at = $1 AND end_at = $2`, start, end)
}

func (q *queries) FlashSaleActiveAt(ctx context.Context, at time.Time) (*promotion.FlashSale, error) {
	return q.flashSale(ctx, `start_at <= $1 AND end_at >= $1`, at)
}

func (q *queries) CreateFlashSale(ctx context.Context, s *promotion.FlashSale) error {
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO flash_sales (name, start_at, end_at) VALUES ($1, $2, $3) RETURNING id`,
		s.Name, s.StartAt, s.EndAt,
	).Scan(&s.ID)
	if err != nil {
		q.logger.Error("Failed to create flash sale", zap.String("name", s.Name), zap.Error(err))
		return fmt.Errorf("failed to create flash sale: %w", err)
	}
	return nil
}

func (q *queries) UpsertFlashSaleItem(ctx context.Context, item *promotion.FlashSaleItem) error {
	query := `
		INSERT INTO flash_sale_items (flash_sale_id, product_id, sale_price, priority)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (flash_sale_id, product_id) DO UPDATE SET
			sale_price = EXCLUDED.sale_price,
			priority = EXCLUDED.priority
		RETURNING id`

	err := q.db.QueryRowContext(ctx, query,
		item.FlashSaleID, item.ProductID, item.SalePrice, item.Priority,
	).Scan(&item.ID)
	if err != nil {
		q.logger.Error("Failed to upsert flash sale item",
			zap.Int64("flash_sale_id", item.FlashSaleID),
			zap.Int64("product_id", item.ProductID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert flash sale item: %w", err)
	}
	return nil
}

func (q *queries) DeleteFlashSaleItems(ctx context.Context, productID int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM flash_sale_items WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to delete flash sale items: %w", err)
	}
	return nil
}

func (q *queries) BestFlashSaleItem(ctx context.Context, productID int64) (*promotion.FlashSaleCandidate, error) {
	query := `
		SELECT fi.id, fi.flash_sale_id, fi.product_id, fi.sale_price, fi.priority,
			fs.id, fs.name, fs.start_at, fs.end_at
		FROM flash_sale_items fi
		JOIN flash_sales fs ON fs.id = fi.flash_sale_id
		WHERE fi.product_id = $1
		ORDER BY fi.priority, fi.sale_price, fi.id
		LIMIT 1`

	var c promotion.FlashSaleCandidate
	err := q.db.QueryRowContext(ctx, query, productID).Scan(
		&c.Item.ID, &c.Item.FlashSaleID, &c.Item.ProductID, &c.Item.SalePrice, &c.Item.Priority,
		&c.Sale.ID, &c.Sale.Name, &c.Sale.StartAt, &c.Sale.EndAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query best flash sale item: %w", err)
	}
	c.Sale.StartAt = c.Sale.StartAt.UTC()
	c.Sale.EndAt = c.Sale.EndAt.UTC()
	return &c, nil
}

func (q *queries) PromotionPresence(ctx context.Context, productID int64) (promotion.Presence, error) {
	var p promotion.Presence
	err := q.db.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM featured_products WHERE product_id = $1),
			EXISTS (SELECT 1 FROM daily_deals WHERE product_id = $1),
			EXISTS (SELECT 1 FROM flash_sale_items WHERE product_id = $1)`,
		productID,
	).Scan(&p.Featured, &p.DailyDeal, &p.FlashSale)
	if err != nil {
		return p, fmt.Errorf("failed to query promotion presence: %w", err)
	}
	return p, nil
}

func (q *queries) UpdateProductFlags(ctx context.Context, productID int64, flags promotion.ProductFlags) error {
	query := `
		UPDATE products SET
			is_featured = $2,
			is_daily_deal = $3,
			is_flash_sale = $4,
			flash_sale_price = CASE WHEN $5::boolean THEN $6::numeric ELSE flash_sale_price END,
			flash_sale_start = CASE WHEN $5::boolean THEN $7::timestamptz ELSE flash_sale_start END,
			flash_sale_end = CASE WHEN $5::boolean THEN $8::timestamptz ELSE flash_sale_end END,
			updated_at = NOW()
		WHERE id = $1`

	_, err := q.db.ExecContext(ctx, query,
		productID, flags.IsFeatured, flags.IsDailyDeal, flags.IsFlashSale, flags.SetFlashFields,
		nullDecimal(flags.FlashSalePrice), nullTime(flags.FlashSaleStart), nullTime(flags.FlashSaleEnd),
	)
	if err != nil {
		q.logger.Error("Failed to update product flags", zap.Int64("product_id", productID), zap.Error(err))
		return fmt.Errorf("failed to update product flags: %w", err)
	}
	return nil
}

// RecordStat adds to the product's counters and to its row for the given day.
func (q *queries) RecordStat(ctx context.Context, productID int64, day time.Time, views, sales int) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO product_daily_stats (product_id, date, views, sales)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, date) DO UPDATE SET
			views = product_daily_stats.views + EXCLUDED.views,
			sales = product_daily_stats.sales + EXCLUDED.sales`,
		productID, day, views, sales,
	)
	if err != nil {
		return fmt.Errorf("failed to record daily stat: %w", err)
	}

	_, err = q.db.ExecContext(ctx, `
		UPDATE products SET
			views_count = views_count + $2,
			total_sales_count = total_sales_count + $3
		WHERE id = $1`,
		productID, views, sales,
	)
	if err != nil {
		return fmt.Errorf("failed to update product counters: %w", err)
	}
	return nil
}
