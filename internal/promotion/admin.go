package promotion

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "merchandising-engine/pkg/errors"
)

type FeaturedInput struct {
	ProductID  int64      `json:"product_id"`
	IsFeatured bool       `json:"is_featured"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Position   int        `json:"position"`
}

type DailyDealInput struct {
	ProductID int64            `json:"product_id"`
	DealPrice *decimal.Decimal `json:"deal_price,omitempty"`
	Date      *time.Time       `json:"date,omitempty"` // today when nil
	Priority  int              `json:"priority"`
	StartAt   *time.Time       `json:"start_at,omitempty"`
	EndAt     *time.Time       `json:"end_at,omitempty"`
}

type FlashSaleItemInput struct {
	FlashSaleID *int64          `json:"flash_sale_id,omitempty"`
	ProductID   int64           `json:"product_id"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Priority    int             `json:"priority"`
	SaleStart   *time.Time      `json:"sale_start,omitempty"`
	SaleEnd     *time.Time      `json:"sale_end,omitempty"`
	SaleName    string          `json:"sale_name,omitempty"`
}

// inUnitOfWork runs fn against external when the caller supplied one: no commit,
// no rollback, no invalidation. Otherwise it owns a fresh transaction, commits it
// and, when invalidate is non-nil, invalidates the cache after the commit succeeds.
func (s *Service) inUnitOfWork(ctx context.Context, external UnitOfWork, op string, fn func(q UnitOfWork) error, invalidate []string) error {
	if external != nil {
		return fn(external)
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return apperrors.Store(op, err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := uow.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back promotion update", zap.String("op", op), zap.Error(rbErr))
		}
	}()

	if err := fn(uow); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return apperrors.Store(op, err)
	}
	committed = true

	if invalidate != nil {
		s.invalidate(ctx, invalidate...)
	}
	return nil
}

// PromotionPlan is a set of promotion changes for one product applied in a single
// transaction. Nil sections are left untouched.
type PromotionPlan struct {
	Featured        *FeaturedInput      `json:"featured,omitempty"`
	DailyDeal       *DailyDealInput     `json:"daily_deal,omitempty"`
	FlashSale       *FlashSaleItemInput `json:"flash_sale,omitempty"`
	ClearFlashSales bool                `json:"clear_flash_sales,omitempty"`
}

// ApplyPlan composes the admin operations of plan into one unit of work and
// invalidates once after the commit.
func (s *Service) ApplyPlan(ctx context.Context, productID int64, plan PromotionPlan) error {
	return s.inUnitOfWork(ctx, nil, "apply promotion plan", func(uow UnitOfWork) error {
		if plan.Featured != nil {
			in := *plan.Featured
			in.ProductID = productID
			if err := s.SetFeatured(ctx, in, uow); err != nil {
				return err
			}
		}
		if plan.DailyDeal != nil {
			in := *plan.DailyDeal
			in.ProductID = productID
			if _, err := s.SetDailyDeal(ctx, in, uow); err != nil {
				return err
			}
		}
		if plan.ClearFlashSales {
			if err := s.RemoveProductFromAnyFlashSale(ctx, productID, uow); err != nil {
				return err
			}
		}
		if plan.FlashSale != nil {
			in := *plan.FlashSale
			in.ProductID = productID
			if _, err := s.AddOrUpdateFlashSaleItem(ctx, in, uow); err != nil {
				return err
			}
		}
		return nil
	}, productCacheKeys(productID))
}

// InvalidateProduct is for callers that composed admin operations into their own
// transaction and have committed it.
func (s *Service) InvalidateProduct(ctx context.Context, productID int64) {
	s.invalidate(ctx, productCacheKeys(productID)...)
}

// syncPromotionFlags rewrites the product's denormalized flags from detail-row
// presence. flash carries the resolved sale window and price when an item was just
// written; flash fields are cleared once no items remain.
func syncPromotionFlags(ctx context.Context, q Queries, productID int64, flash *FlashSaleCandidate) error {
	presence, err := q.PromotionPresence(ctx, productID)
	if err != nil {
		return apperrors.Store("promotion presence", err)
	}

	flags := ProductFlags{
		IsFeatured:  presence.Featured,
		IsDailyDeal: presence.DailyDeal,
		IsFlashSale: presence.FlashSale,
	}
	switch {
	case !presence.FlashSale:
		flags.SetFlashFields = true
	case flash != nil:
		price := flash.Item.SalePrice
		start, end := flash.Sale.StartAt, flash.Sale.EndAt
		flags.SetFlashFields = true
		flags.FlashSalePrice = &price
		flags.FlashSaleStart = &start
		flags.FlashSaleEnd = &end
	}

	if err := q.UpdateProductFlags(ctx, productID, flags); err != nil {
		return apperrors.Store("update product flags", err)
	}
	return nil
}

// SetFeatured upserts or removes the product's feature entry.
func (s *Service) SetFeatured(ctx context.Context, in FeaturedInput, uow UnitOfWork) error {
	return s.inUnitOfWork(ctx, uow, "set featured", func(q UnitOfWork) error {
		if in.IsFeatured {
			fp := &FeaturedProduct{
				ProductID: in.ProductID,
				Position:  in.Position,
				StartDate: in.StartDate,
				EndDate:   in.EndDate,
			}
			if err := q.SaveFeatured(ctx, fp); err != nil {
				return apperrors.Store("save featured", err)
			}
		} else if err := q.DeleteFeatured(ctx, in.ProductID); err != nil {
			return apperrors.Store("delete featured", err)
		}
		return syncPromotionFlags(ctx, q, in.ProductID, nil)
	}, productCacheKeys(in.ProductID))
}

func (s *Service) RemoveFeatured(ctx context.Context, productID int64, uow UnitOfWork) error {
	return s.SetFeatured(ctx, FeaturedInput{ProductID: productID}, uow)
}

// SetDailyDeal upserts the (product, date) deal and returns the persisted row.
func (s *Service) SetDailyDeal(ctx context.Context, in DailyDealInput, uow UnitOfWork) (*DailyDeal, error) {
	day := dateOnly(s.now())
	if in.Date != nil {
		day = dateOnly(*in.Date)
	}
	start, end := dayBounds(day)
	if in.StartAt != nil {
		start = in.StartAt.UTC()
	}
	if in.EndAt != nil {
		end = in.EndAt.UTC()
	}

	deal := &DailyDeal{
		ProductID: in.ProductID,
		Date:      day,
		Priority:  in.Priority,
		DealPrice: in.DealPrice,
		StartAt:   &start,
		EndAt:     &end,
	}

	err := s.inUnitOfWork(ctx, uow, "set daily deal", func(q UnitOfWork) error {
		if err := q.UpsertDailyDeal(ctx, deal); err != nil {
			return apperrors.Store("upsert daily deal", err)
		}
		return syncPromotionFlags(ctx, q, in.ProductID, nil)
	}, productCacheKeys(in.ProductID))
	if err != nil {
		return nil, err
	}
	return deal, nil
}

// RemoveDailyDeal deletes the deal for date (today when nil). The product flag is
// cleared only once no deal remains on any date.
func (s *Service) RemoveDailyDeal(ctx context.Context, productID int64, date *time.Time, uow UnitOfWork) error {
	day := dateOnly(s.now())
	if date != nil {
		day = dateOnly(*date)
	}

	return s.inUnitOfWork(ctx, uow, "remove daily deal", func(q UnitOfWork) error {
		if err := q.DeleteDailyDeal(ctx, productID, day); err != nil {
			return apperrors.Store("delete daily deal", err)
		}
		return syncPromotionFlags(ctx, q, productID, nil)
	}, productCacheKeys(productID))
}

// AddOrUpdateFlashSaleItem places the product into the resolved sale at salePrice.
func (s *Service) AddOrUpdateFlashSaleItem(ctx context.Context, in FlashSaleItemInput, uow UnitOfWork) (*FlashSaleItem, error) {
	item := &FlashSaleItem{
		ProductID: in.ProductID,
		SalePrice: in.SalePrice,
		Priority:  in.Priority,
	}

	err := s.inUnitOfWork(ctx, uow, "add flash sale item", func(q UnitOfWork) error {
		sale, err := s.resolveFlashSale(ctx, q, in)
		if err != nil {
			return err
		}

		item.FlashSaleID = sale.ID
		if err := q.UpsertFlashSaleItem(ctx, item); err != nil {
			return apperrors.Store("upsert flash sale item", err)
		}
		return syncPromotionFlags(ctx, q, in.ProductID, &FlashSaleCandidate{Item: *item, Sale: *sale})
	}, productCacheKeys(in.ProductID))
	if err != nil {
		return nil, err
	}
	return item, nil
}

// resolveFlashSale finds the target sale by explicit ID, then exact window, then
// the sale running now, creating one when the last two come up empty.
func (s *Service) resolveFlashSale(ctx context.Context, q Queries, in FlashSaleItemInput) (*FlashSale, error) {
	if in.FlashSaleID != nil {
		sale, err := q.FlashSaleByID(ctx, *in.FlashSaleID)
		if err != nil {
			return nil, apperrors.Store("flash sale by id", err)
		}
		if sale == nil {
			return nil, apperrors.NotFound("flash_sale", *in.FlashSaleID)
		}
		return sale, nil
	}

	if in.SaleStart != nil && in.SaleEnd != nil {
		start, end := in.SaleStart.UTC(), in.SaleEnd.UTC()
		sale, err := q.FlashSaleByWindow(ctx, start, end)
		if err != nil {
			return nil, apperrors.Store("flash sale by window", err)
		}
		if sale != nil {
			return sale, nil
		}
		name := in.SaleName
		if name == "" {
			name = fmt.Sprintf("Flash Sale (%s – %s)", start.Format("2006-01-02"), end.Format("2006-01-02"))
		}
		return s.createFlashSale(ctx, q, name, start, end)
	}

	now := s.now().UTC()
	sale, err := q.FlashSaleActiveAt(ctx, now)
	if err != nil {
		return nil, apperrors.Store("flash sale active", err)
	}
	if sale != nil {
		return sale, nil
	}
	start, end := dayBounds(now)
	return s.createFlashSale(ctx, q, fmt.Sprintf("Today's Flash Sale (%s)", now.Format("2006-01-02")), start, end)
}

func (s *Service) createFlashSale(ctx context.Context, q Queries, name string, start, end time.Time) (*FlashSale, error) {
	sale := &FlashSale{Name: name, StartAt: start, EndAt: end}
	if err := q.CreateFlashSale(ctx, sale); err != nil {
		return nil, apperrors.Store("create flash sale", err)
	}
	s.logger.Info("Created flash sale", zap.Int64("flash_sale_id", sale.ID), zap.String("name", name))
	return sale, nil
}

// RemoveProductFromAnyFlashSale deletes every flash sale item of the product and clears its flash fields.
func (s *Service) RemoveProductFromAnyFlashSale(ctx context.Context, productID int64, uow UnitOfWork) error {
	return s.inUnitOfWork(ctx, uow, "remove flash sale items", func(q UnitOfWork) error {
		if err := q.DeleteFlashSaleItems(ctx, productID); err != nil {
			return apperrors.Store("delete flash sale items", err)
		}
		return syncPromotionFlags(ctx, q, productID, nil)
	}, productCacheKeys(productID))
}

// SyncFlashSaleFields recomputes the product's denormalized flash fields from its
// best remaining item.
func (s *Service) SyncFlashSaleFields(ctx context.Context, productID int64, uow UnitOfWork) error {
	return s.inUnitOfWork(ctx, uow, "sync flash sale fields", func(q UnitOfWork) error {
		best, err := q.BestFlashSaleItem(ctx, productID)
		if err != nil {
			return apperrors.Store("best flash sale item", err)
		}
		return syncPromotionFlags(ctx, q, productID, best)
	}, productCacheKeys(productID))
}

// RecordProductView counts a product page view towards today's trending stats.
func (s *Service) RecordProductView(ctx context.Context, productID int64, at time.Time, uow UnitOfWork) error {
	return s.recordStat(ctx, productID, at, 1, 0, uow)
}

// RecordProductSale counts qty units sold towards the day's trending stats.
func (s *Service) RecordProductSale(ctx context.Context, productID int64, qty int, at time.Time, uow UnitOfWork) error {
	if qty <= 0 {
		return &apperrors.ErrInvalidState{Message: "sale quantity must be positive"}
	}
	return s.recordStat(ctx, productID, at, 0, qty, uow)
}

func (s *Service) recordStat(ctx context.Context, productID int64, at time.Time, views, sales int, uow UnitOfWork) error {
	day := dateOnly(at)
	return s.inUnitOfWork(ctx, uow, "record stat", func(q UnitOfWork) error {
		return apperrors.Store("record stat", q.RecordStat(ctx, productID, day, views, sales))
	}, nil)
}
