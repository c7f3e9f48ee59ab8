package promotion

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	trendingSalesWeight   = 5
	relatedCategoryWeight = 3
	coPurchaseOverfetch   = 3
)

var syntheticDealRate = decimal.RequireFromString("0.8")

// effectivePrice clamps a promotional price into (0, list price]. A missing or
// non-positive promo price sells at list price.
func effectivePrice(list decimal.Decimal, promo *decimal.Decimal) decimal.Decimal {
	if promo == nil || !promo.IsPositive() || promo.GreaterThan(list) {
		return list
	}
	return *promo
}

// rankFlashSaleItems keeps the best item per product (lowest priority, then lowest
// sale price) and orders the survivors by priority, then by discount descending.
func rankFlashSaleItems(candidates []FlashSaleCandidate, limit int) []PromotedProduct {
	best := make(map[int64]FlashSaleCandidate, len(candidates))
	for _, c := range candidates {
		cur, ok := best[c.Product.ID]
		if !ok || betterItem(c.Item, cur.Item) {
			best[c.Product.ID] = c
		}
	}

	out := make([]PromotedProduct, 0, len(best))
	for _, c := range best {
		price := c.Item.SalePrice
		out = append(out, PromotedProduct{
			Product:        c.Product,
			EffectivePrice: effectivePrice(c.Product.Price, &price),
			Priority:       c.Item.Priority,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if cmp := a.Discount().Cmp(b.Discount()); cmp != 0 {
			return cmp > 0
		}
		return a.Product.ID < b.Product.ID
	})
	return truncate(out, limit)
}

func betterItem(a, b FlashSaleItem) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if cmp := a.SalePrice.Cmp(b.SalePrice); cmp != 0 {
		return cmp < 0
	}
	return a.ID < b.ID
}

// rankFlaggedFlashSales is the cold-start branch over denormalized product fields.
func rankFlaggedFlashSales(products []Product, at time.Time, limit int) []PromotedProduct {
	out := make([]PromotedProduct, 0, len(products))
	for _, p := range products {
		if !p.IsFlashSale || !p.InStock() || p.FlashSaleStart == nil || p.FlashSaleEnd == nil {
			continue
		}
		if p.FlashSaleStart.After(at) || p.FlashSaleEnd.Before(at) {
			continue
		}
		out = append(out, PromotedProduct{
			Product:        p,
			EffectivePrice: effectivePrice(p.Price, p.FlashSalePrice),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Discount().Cmp(out[j].Discount()); cmp != 0 {
			return cmp > 0
		}
		return out[i].Product.ID < out[j].Product.ID
	})
	return truncate(out, limit)
}

func dailyDealViews(rows []DailyDealRow, limit int) []DailyDealView {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Deal.Priority != rows[j].Deal.Priority {
			return rows[i].Deal.Priority < rows[j].Deal.Priority
		}
		return rows[i].Product.ID < rows[j].Product.ID
	})

	out := make([]DailyDealView, 0, len(rows))
	for _, r := range rows {
		if !r.Product.InStock() {
			continue
		}
		day := dateOnly(r.Deal.Date)
		start, end := dayBounds(day)
		if r.Deal.StartAt != nil {
			start = *r.Deal.StartAt
		}
		if r.Deal.EndAt != nil {
			end = *r.Deal.EndAt
		}
		price := r.Product.Price
		if r.Deal.DealPrice != nil {
			price = *r.Deal.DealPrice
		}
		out = append(out, DailyDealView{
			ProductID: r.Product.ID,
			Product:   r.Product,
			DealPrice: price,
			Date:      day,
			StartAt:   start,
			EndAt:     end,
			Priority:  r.Deal.Priority,
		})
	}
	return truncate(out, limit)
}

func fallbackDailyDealViews(products []Product, day time.Time, limit int) []DailyDealView {
	ranked := make([]Product, 0, len(products))
	for _, p := range products {
		if p.IsDailyDeal && p.InStock() {
			ranked = append(ranked, p)
		}
	}
	sortBySales(ranked)
	ranked = truncate(ranked, limit)

	start, end := dayBounds(day)
	out := make([]DailyDealView, len(ranked))
	for i, p := range ranked {
		price := p.Price.Mul(syntheticDealRate).Ceil()
		if p.DailyDealPrice != nil {
			price = *p.DailyDealPrice
		}
		out[i] = DailyDealView{
			ProductID: p.ID,
			Product:   p,
			DealPrice: price,
			Date:      day,
			StartAt:   start,
			EndAt:     end,
		}
	}
	return out
}

func trendingScore(s StatTotal) int {
	return s.Sales*trendingSalesWeight + s.Views
}

// rankTrending returns product IDs by score descending.
func rankTrending(stats []StatTotal, limit int) []int64 {
	sorted := append([]StatTotal(nil), stats...)
	sort.Slice(sorted, func(i, j int) bool {
		si, sj := trendingScore(sorted[i]), trendingScore(sorted[j])
		if si != sj {
			return si > sj
		}
		return sorted[i].ProductID < sorted[j].ProductID
	})
	sorted = truncate(sorted, limit)

	ids := make([]int64, len(sorted))
	for i, s := range sorted {
		ids[i] = s.ProductID
	}
	return ids
}

func relatedScore(c RelatedCandidate) int {
	return c.CategoryMatches*relatedCategoryWeight + c.TagMatches
}

func rankRelated(candidates []RelatedCandidate, exclude int64, limit int) []Product {
	kept := make([]RelatedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Product.ID == exclude || !c.Product.IsActive || relatedScore(c) <= 0 {
			continue
		}
		kept = append(kept, c)
	}
	sort.Slice(kept, func(i, j int) bool {
		si, sj := relatedScore(kept[i]), relatedScore(kept[j])
		if si != sj {
			return si > sj
		}
		if kept[i].Product.TotalSalesCount != kept[j].Product.TotalSalesCount {
			return kept[i].Product.TotalSalesCount > kept[j].Product.TotalSalesCount
		}
		return kept[i].Product.ID < kept[j].Product.ID
	})
	kept = truncate(kept, limit)

	out := make([]Product, len(kept))
	for i, c := range kept {
		out[i] = c.Product
	}
	return out
}

// rankCoPurchase orders co-occurring products by count and over-fetches so the
// stock filter applied afterwards can still fill the page.
func rankCoPurchase(counts []CoPurchase, cart []int64, limit int) []int64 {
	inCart := make(map[int64]bool, len(cart))
	for _, id := range cart {
		inCart[id] = true
	}
	kept := make([]CoPurchase, 0, len(counts))
	for _, c := range counts {
		if !inCart[c.ProductID] {
			kept = append(kept, c)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Count != kept[j].Count {
			return kept[i].Count > kept[j].Count
		}
		return kept[i].ProductID < kept[j].ProductID
	})
	kept = truncate(kept, limit*coPurchaseOverfetch)

	ids := make([]int64, len(kept))
	for i, c := range kept {
		ids[i] = c.ProductID
	}
	return ids
}

func rankRecency(rows []PurchaseRecency, limit int) []int64 {
	sorted := append([]PurchaseRecency(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].LastBought.Equal(sorted[j].LastBought) {
			return sorted[i].LastBought.After(sorted[j].LastBought)
		}
		return sorted[i].ProductID < sorted[j].ProductID
	})
	sorted = truncate(sorted, limit)

	ids := make([]int64, len(sorted))
	for i, r := range sorted {
		ids[i] = r.ProductID
	}
	return ids
}

func rankFeatured(rows []FeaturedRow, at time.Time, limit int) []Product {
	kept := make([]FeaturedRow, 0, len(rows))
	for _, r := range rows {
		if r.Featured.ActiveAt(at) {
			kept = append(kept, r)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Featured.Position != kept[j].Featured.Position {
			return kept[i].Featured.Position < kept[j].Featured.Position
		}
		return kept[i].Product.ID < kept[j].Product.ID
	})
	kept = truncate(kept, limit)

	out := make([]Product, len(kept))
	for i, r := range kept {
		out[i] = r.Product
	}
	return out
}

func fallbackFeatured(products []Product, limit int) []Product {
	kept := make([]Product, 0, len(products))
	for _, p := range products {
		if p.IsActive && p.IsFeatured {
			kept = append(kept, p)
		}
	}
	sortBySales(kept)
	return truncate(kept, limit)
}

// orderByIDs resolves ids against products, preserving ids order and dropping misses.
func orderByIDs(ids []int64, products []Product) []Product {
	byID := make(map[int64]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func sortBySales(products []Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].TotalSalesCount != products[j].TotalSalesCount {
			return products[i].TotalSalesCount > products[j].TotalSalesCount
		}
		return products[i].ID < products[j].ID
	})
}

func truncate[T any](s []T, limit int) []T {
	if limit >= 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayBounds returns the first and last second of day.
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := dateOnly(day)
	return start, start.AddDate(0, 0, 1).Add(-time.Second)
}
