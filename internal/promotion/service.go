package promotion

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "merchandising-engine/pkg/errors"
)

const (
	DefaultFlashSaleLimit   = 20
	DefaultDailyDealLimit   = 5
	DefaultTrendingLimit    = 20
	DefaultNewArrivalsLimit = 20
	DefaultRelatedLimit     = 10
	DefaultAlsoLikeLimit    = 12
	DefaultRecentLimit      = 20
	DefaultFeaturedLimit    = 20
)

type Service struct {
	store  Store // Postgres
	cache  Cache // Redis / in-process
	ttl    TTLs
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock used for "now" defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTTLs(ttl TTLs) Option {
	return func(s *Service) { s.ttl = ttl }
}

func NewService(store Store, cache Cache, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		cache:  cache,
		ttl:    DefaultTTLs(),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func orDefault(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

// FlashSales returns products in a running flash sale at ref (now when nil).
func (s *Service) FlashSales(ctx context.Context, ref *time.Time, limit int) ([]PromotedProduct, error) {
	limit = orDefault(limit, DefaultFlashSaleLimit)
	at := s.now().UTC()
	if ref != nil {
		at = ref.UTC()
	}

	return cached(ctx, s, flashSalesKey(at, limit), func() ([]PromotedProduct, time.Duration, error) {
		items, err := s.store.ActiveFlashSaleItems(ctx, at)
		if err != nil {
			return nil, 0, apperrors.Store("flash sale items", err)
		}
		if len(items) > 0 {
			return rankFlashSaleItems(items, limit), s.ttl.FlashSales, nil
		}

		flagged, err := s.store.FlaggedProducts(ctx, FlagFlashSale)
		if err != nil {
			return nil, 0, apperrors.Store("flash sale fallback", err)
		}
		return rankFlaggedFlashSales(flagged, at, limit), s.ttl.FlashSales, nil
	})
}

// DailyDeals returns the deals for date's calendar day.
func (s *Service) DailyDeals(ctx context.Context, date time.Time, limit int) ([]DailyDealView, error) {
	limit = orDefault(limit, DefaultDailyDealLimit)
	day := dateOnly(date)

	return cached(ctx, s, dailyDealsKey(day, limit), func() ([]DailyDealView, time.Duration, error) {
		curated, err := s.store.HasDailyDeals(ctx)
		if err != nil {
			return nil, 0, apperrors.Store("daily deals exist", err)
		}
		if curated {
			rows, err := s.store.DailyDealsOn(ctx, day)
			if err != nil {
				return nil, 0, apperrors.Store("daily deals", err)
			}
			return dailyDealViews(rows, limit), s.ttl.DailyDeals, nil
		}

		flagged, err := s.store.FlaggedProducts(ctx, FlagDailyDeal)
		if err != nil {
			return nil, 0, apperrors.Store("daily deal fallback", err)
		}
		return fallbackDailyDealViews(flagged, day, limit), s.ttl.DailyDealsFallback, nil
	})
}

// Trending ranks products by weighted daily stats in [from, to].
func (s *Service) Trending(ctx context.Context, from, to time.Time, limit int) ([]Product, error) {
	limit = orDefault(limit, DefaultTrendingLimit)
	from, to = dateOnly(from), dateOnly(to)

	return cached(ctx, s, trendingKey(from, to, limit), func() ([]Product, time.Duration, error) {
		stats, err := s.store.StatTotals(ctx, from, to)
		if err != nil {
			return nil, 0, apperrors.Store("trending stats", err)
		}
		if len(stats) == 0 {
			return []Product{}, s.ttl.Trending, nil
		}

		ids := rankTrending(stats, limit)
		products, err := s.store.ProductsByIDs(ctx, ids, ActiveOnly)
		if err != nil {
			return nil, 0, apperrors.Store("trending products", err)
		}
		return orderByIDs(ids, products), s.ttl.Trending, nil
	})
}

// NewArrivals returns active products created within window of now.
func (s *Service) NewArrivals(ctx context.Context, window time.Duration, limit int) ([]Product, error) {
	limit = orDefault(limit, DefaultNewArrivalsLimit)
	cutoff := s.now().UTC().Add(-window)

	products, err := s.store.ProductsCreatedSince(ctx, cutoff, limit)
	if err != nil {
		return nil, apperrors.Store("new arrivals", err)
	}
	return products, nil
}

// RelatedProducts scores other active products by shared categories and tags.
func (s *Service) RelatedProducts(ctx context.Context, productID int64, limit int) ([]Product, error) {
	limit = orDefault(limit, DefaultRelatedLimit)

	candidates, err := s.store.RelatedCandidates(ctx, productID)
	if err != nil {
		return nil, apperrors.Store("related products", err)
	}
	return rankRelated(candidates, productID, limit), nil
}

// YouMayAlsoLike ranks products bought in the same orders as cart.
func (s *Service) YouMayAlsoLike(ctx context.Context, cart []int64, limit int) ([]Product, error) {
	if len(cart) == 0 {
		return []Product{}, nil
	}
	limit = orDefault(limit, DefaultAlsoLikeLimit)

	return cached(ctx, s, alsoLikeKey(cart, limit), func() ([]Product, time.Duration, error) {
		counts, err := s.store.CoPurchaseCounts(ctx, cart)
		if err != nil {
			return nil, 0, apperrors.Store("co-purchase counts", err)
		}
		ids := rankCoPurchase(counts, cart, limit)
		if len(ids) == 0 {
			return []Product{}, s.ttl.AlsoLike, nil
		}

		products, err := s.store.ProductsByIDs(ctx, ids, ActiveInStock)
		if err != nil {
			return nil, 0, apperrors.Store("co-purchase products", err)
		}
		return truncate(orderByIDs(ids, products), limit), s.ttl.AlsoLike, nil
	})
}

// SuggestionsAfterPurchase runs co-purchase scoring with the order's own contents as the cart.
func (s *Service) SuggestionsAfterPurchase(ctx context.Context, orderID int64, limit int) ([]Product, error) {
	ids, found, err := s.store.OrderProductIDs(ctx, orderID)
	if err != nil {
		return nil, apperrors.Store("order items", err)
	}
	if !found {
		return nil, apperrors.NotFound("order", orderID)
	}
	return s.YouMayAlsoLike(ctx, ids, limit)
}

// RecentlyBought lists the user's purchased products, most recent first.
func (s *Service) RecentlyBought(ctx context.Context, userID string, limit int) ([]Product, error) {
	if userID == "" {
		return []Product{}, nil
	}
	limit = orDefault(limit, DefaultRecentLimit)

	rows, err := s.store.PurchaseRecency(ctx, userID)
	if err != nil {
		return nil, apperrors.Store("purchase recency", err)
	}
	ids := rankRecency(rows, limit)
	if len(ids) == 0 {
		return []Product{}, nil
	}

	products, err := s.store.ProductsByIDs(ctx, ids, AnyProduct)
	if err != nil {
		return nil, apperrors.Store("recent products", err)
	}
	return orderByIDs(ids, products), nil
}

// FeaturedProducts returns curated features in position order, or best sellers flagged as featured.
func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	limit = orDefault(limit, DefaultFeaturedLimit)

	return cached(ctx, s, featuredKey(limit), func() ([]Product, time.Duration, error) {
		curated, err := s.store.HasFeaturedProducts(ctx)
		if err != nil {
			return nil, 0, apperrors.Store("featured exist", err)
		}
		if curated {
			rows, err := s.store.FeaturedRows(ctx)
			if err != nil {
				return nil, 0, apperrors.Store("featured products", err)
			}
			return rankFeatured(rows, s.now().UTC(), limit), s.ttl.Featured, nil
		}

		flagged, err := s.store.FlaggedProducts(ctx, FlagFeatured)
		if err != nil {
			return nil, 0, apperrors.Store("featured fallback", err)
		}
		return fallbackFeatured(flagged, limit), 0, nil
	})
}
