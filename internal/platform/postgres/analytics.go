package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"merchandising-engine/internal/analytics"
)

const orderTotalsQuery = `
	SELECT o.id, o.user_id, o.status, o.order_date, o.delivered_date,
		COALESCE(SUM(oi.quantity * oi.unit_price), 0),
		COALESCE(SUM(oi.quantity), 0)
	FROM orders o
	LEFT JOIN order_items oi ON oi.order_id = o.id
	WHERE %s
	GROUP BY o.id`

func (q *queries) orderTotals(ctx context.Context, where string, args ...any) ([]analytics.Order, error) {
	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(orderTotalsQuery, where), args...)
	if err != nil {
		q.logger.Error("Failed to query orders", zap.Error(err))
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []analytics.Order
	for rows.Next() {
		var o analytics.Order
		var delivered sql.NullTime
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.OrderDate, &delivered, &o.Total, &o.Units); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.OrderDate = o.OrderDate.UTC()
		o.DeliveredDate = timePtr(delivered)
		result = append(result, o)
	}
	return result, rows.Err()
}

func (q *queries) OrdersPlacedBetween(ctx context.Context, from, to time.Time) ([]analytics.Order, error) {
	return q.orderTotals(ctx, `o.order_date >= $1 AND o.order_date < $2`, from, to)
}

func (q *queries) OrdersDeliveredBetween(ctx context.Context, from, to time.Time) ([]analytics.Order, error) {
	return q.orderTotals(ctx,
		`o.status = $1 AND o.delivered_date >= $2 AND o.delivered_date < $3`,
		string(analytics.StatusDelivered), from, to,
	)
}

func (q *queries) DeliveredItemsBetween(ctx context.Context, from, to time.Time) ([]analytics.LineItem, error) {
	query := `
		SELECT o.id, o.user_id, o.delivered_date, oi.product_id, p.name, p.price,
			COALESCE((
				SELECT c.name FROM product_categories pc
				JOIN categories c ON c.id = pc.category_id
				WHERE pc.product_id = p.id
				ORDER BY pc.category_id
				LIMIT 1
			), ''),
			oi.quantity, oi.unit_price
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status = $1 AND o.delivered_date >= $2 AND o.delivered_date < $3`

	rows, err := q.db.QueryContext(ctx, query, string(analytics.StatusDelivered), from, to)
	if err != nil {
		q.logger.Error("Failed to query delivered items", zap.Error(err))
		return nil, fmt.Errorf("failed to query delivered items: %w", err)
	}
	defer rows.Close()

	var result []analytics.LineItem
	for rows.Next() {
		var li analytics.LineItem
		err := rows.Scan(
			&li.OrderID, &li.UserID, &li.DeliveredDate, &li.ProductID, &li.ProductName, &li.ListPrice,
			&li.Category, &li.Quantity, &li.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivered item: %w", err)
		}
		li.DeliveredDate = li.DeliveredDate.UTC()
		result = append(result, li)
	}
	return result, rows.Err()
}

func (q *queries) CustomerProfiles(ctx context.Context, userIDs []string) (map[string]analytics.Customer, error) {
	result := make(map[string]analytics.Customer, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(email, '') FROM customers WHERE id = ANY($1)`,
		pq.Array(userIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c analytics.Customer
		if err := rows.Scan(&c.UserID, &c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		result[c.UserID] = c
	}
	return result, rows.Err()
}
