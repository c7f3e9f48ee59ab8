package promotion

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "merchandising-engine/pkg/errors"
)

// TTLs bounds how long each listing may be served from cache without an explicit bump.
type TTLs struct {
	FlashSales         time.Duration
	DailyDeals         time.Duration
	DailyDealsFallback time.Duration
	Trending           time.Duration
	Featured           time.Duration
	AlsoLike           time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		FlashSales:         5 * time.Minute,
		DailyDeals:         5 * time.Minute,
		DailyDealsFallback: 3 * time.Minute,
		Trending:           5 * time.Minute,
		Featured:           10 * time.Minute,
		AlsoLike:           5 * time.Minute,
	}
}

// Cache key bases. The version suffix is appended by versionedKey.
func flashSalesKey(at time.Time, limit int) string {
	return fmt.Sprintf("flashsales:%s:%d", at.UTC().Format("200601021504"), limit)
}

func dailyDealsKey(day time.Time, limit int) string {
	return fmt.Sprintf("dailydeals:%s:%d", day.Format("20060102"), limit)
}

func trendingKey(from, to time.Time, limit int) string {
	return fmt.Sprintf("trending:%s:%s:%d", from.Format("20060102"), to.Format("20060102"), limit)
}

func featuredKey(limit int) string {
	return fmt.Sprintf("featured:list:%d", limit)
}

func alsoLikeKey(productIDs []int64, limit int) string {
	sorted := append([]int64(nil), productIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("also:%s:%d", strings.Join(parts, "-"), limit)
}

// Per-product keys written unversioned by the product catalog. Invalidation
// deletes them by name; the bump cannot reach them.
func productDetailsKey(productID int64) string {
	return fmt.Sprintf("product:%d:details", productID)
}

func productRecommendationsKey(productID int64) string {
	return fmt.Sprintf("product:%d:recommendations", productID)
}

func productCacheKeys(productID int64) []string {
	return []string{productDetailsKey(productID), productRecommendationsKey(productID)}
}

func (s *Service) versionedKey(ctx context.Context, base string) (string, error) {
	version, err := s.cache.Version(ctx)
	if err != nil {
		return "", apperrors.Store("cache version", err)
	}
	return base + ":v" + version, nil
}

// cached runs the read-through protocol. compute returns the ttl to cache with; a
// non-positive ttl leaves the result uncached.
func cached[T any](ctx context.Context, s *Service, base string, compute func() (T, time.Duration, error)) (T, error) {
	var zero T

	key, err := s.versionedKey(ctx, base)
	if err != nil {
		return zero, err
	}

	var hit T
	ok, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		return zero, apperrors.Store("cache get", err)
	}
	if ok {
		return hit, nil
	}

	value, ttl, err := compute()
	if err != nil {
		return zero, err
	}
	if ttl > 0 {
		if err := s.cache.Set(ctx, key, value, ttl); err != nil {
			s.logger.Warn("Failed to cache listing", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

// invalidate bumps the version token, which orphans every versioned listing, then
// deletes the given unversioned keys. It runs strictly after a successful commit,
// so failures are logged rather than returned.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if _, err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("Failed to bump cache version", zap.Error(err))
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Failed to remove cache keys", zap.Strings("keys", keys), zap.Error(err))
	}
}
