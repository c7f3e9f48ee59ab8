package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"merchandising-engine/internal/platform/memcache"
	apperrors "merchandising-engine/pkg/errors"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memStore, *memcache.Cache) {
	t.Helper()
	store := newMemStore()
	cache := memcache.New()
	svc := NewService(store, cache, zap.NewNop(), WithClock(func() time.Time { return testNow }))
	return svc, store, cache
}

func ids(products []Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFlashSales_EffectivePrice(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	store.addProduct(Product{ID: 1, Name: "A", Price: money("100"), StockQuantity: 5, IsActive: true})
	store.addSale(FlashSale{ID: 10, Name: "Spring", StartAt: testNow.Add(-time.Hour), EndAt: testNow.Add(time.Hour)})
	store.addItem(FlashSaleItem{ID: 100, FlashSaleID: 10, ProductID: 1, SalePrice: money("80"), Priority: 1})

	got, err := svc.FlashSales(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].Product.ID)
	assert.True(t, got[0].EffectivePrice.Equal(money("80")), got[0].EffectivePrice.String())
}

func TestFlashSales_OnlySellableWithNonNegativeDiscount(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	store.addSale(FlashSale{ID: 10, StartAt: testNow.Add(-time.Hour), EndAt: testNow.Add(time.Hour)})
	store.addSale(FlashSale{ID: 11, StartAt: testNow.Add(-time.Hour), EndAt: testNow.Add(2 * time.Hour)})
	store.addSale(FlashSale{ID: 12, StartAt: testNow.Add(time.Hour), EndAt: testNow.Add(2 * time.Hour)})

	store.addProduct(Product{ID: 1, Price: money("100"), StockQuantity: 5, IsActive: true})
	store.addProduct(Product{ID: 2, Price: money("50"), StockQuantity: 0, IsActive: true})
	store.addProduct(Product{ID: 3, Price: money("50"), StockQuantity: 9, IsActive: false})
	store.addProduct(Product{ID: 4, Price: money("40"), StockQuantity: 3, IsActive: true})
	store.addProduct(Product{ID: 5, Price: money("30"), StockQuantity: 3, IsActive: true})

	store.addItem(FlashSaleItem{ID: 1, FlashSaleID: 10, ProductID: 1, SalePrice: money("90"), Priority: 2})
	store.addItem(FlashSaleItem{ID: 2, FlashSaleID: 11, ProductID: 1, SalePrice: money("70"), Priority: 1})
	store.addItem(FlashSaleItem{ID: 3, FlashSaleID: 10, ProductID: 2, SalePrice: money("10"), Priority: 1})
	store.addItem(FlashSaleItem{ID: 4, FlashSaleID: 10, ProductID: 3, SalePrice: money("10"), Priority: 1})
	// sale price above list is clamped to list
	store.addItem(FlashSaleItem{ID: 5, FlashSaleID: 10, ProductID: 4, SalePrice: money("45"), Priority: 1})
	// not started yet
	store.addItem(FlashSaleItem{ID: 6, FlashSaleID: 12, ProductID: 5, SalePrice: money("5"), Priority: 1})

	got, err := svc.FlashSales(ctx, nil, 0)
	require.NoError(t, err)

	require.Len(t, got, 2)
	for _, p := range got {
		assert.False(t, p.Discount().IsNegative(), "product %d", p.Product.ID)
		assert.True(t, p.Product.IsActive)
		assert.Greater(t, p.Product.StockQuantity, 0)
	}
	// product 1 resolves to its priority-1 item; priority then discount ordering
	assert.Equal(t, int64(1), got[0].Product.ID)
	assert.True(t, got[0].EffectivePrice.Equal(money("70")))
	assert.Equal(t, int64(4), got[1].Product.ID)
	assert.True(t, got[1].EffectivePrice.Equal(money("40")))
}

func TestFlashSales_FallbackToProductFlags(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	start, end := testNow.Add(-time.Hour), testNow.Add(time.Hour)
	expired := testNow.Add(-time.Minute)
	store.addProduct(Product{
		ID: 1, Price: money("20"), StockQuantity: 1, IsActive: true,
		IsFlashSale: true, FlashSalePrice: moneyPtr("15"), FlashSaleStart: &start, FlashSaleEnd: &end,
	})
	store.addProduct(Product{
		ID: 2, Price: money("20"), StockQuantity: 1, IsActive: true,
		IsFlashSale: true, FlashSalePrice: moneyPtr("5"), FlashSaleStart: &start, FlashSaleEnd: &expired,
	})

	got, err := svc.FlashSales(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].Product.ID)
	assert.True(t, got[0].EffectivePrice.Equal(money("15")))
	assert.Equal(t, 1, store.count("FlaggedProducts"))
}

func TestFlashSales_CacheAndInvalidation(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	store.addProduct(Product{ID: 1, Price: money("100"), StockQuantity: 5, IsActive: true})
	store.addProduct(Product{ID: 2, Price: money("60"), StockQuantity: 5, IsActive: true})
	store.addSale(FlashSale{ID: 10, StartAt: testNow.Add(-time.Hour), EndAt: testNow.Add(time.Hour)})
	store.addItem(FlashSaleItem{ID: 100, FlashSaleID: 10, ProductID: 1, SalePrice: money("80"), Priority: 1})

	first, err := svc.FlashSales(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	again, err := svc.FlashSales(ctx, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, store.count("ActiveFlashSaleItems"))
	assert.Equal(t, ids([]Product{first[0].Product}), ids([]Product{again[0].Product}))
	assert.True(t, again[0].EffectivePrice.Equal(money("80")))

	saleID := int64(10)
	_, err = svc.AddOrUpdateFlashSaleItem(ctx, FlashSaleItemInput{
		FlashSaleID: &saleID, ProductID: 2, SalePrice: money("30"), Priority: 1,
	}, nil)
	require.NoError(t, err)

	after, err := svc.FlashSales(ctx, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, store.count("ActiveFlashSaleItems"))
	require.Len(t, after, 2)
	assert.Equal(t, int64(2), after[0].Product.ID)
}

func TestDailyDeals_PriorityOrder(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	day := dateOnly(testNow)

	for id := int64(1); id <= 4; id++ {
		store.addProduct(Product{ID: id, Price: money("50"), StockQuantity: 3, IsActive: true})
	}
	store.addProduct(Product{ID: 5, Price: money("50"), StockQuantity: 0, IsActive: true})

	set := func(productID int64, priority int, price *string) {
		in := DailyDealInput{ProductID: productID, Priority: priority}
		if price != nil {
			in.DealPrice = moneyPtr(*price)
		}
		_, err := svc.SetDailyDeal(ctx, in, nil)
		require.NoError(t, err)
	}
	price := "35"
	set(3, 2, nil)
	set(1, 5, nil)
	set(2, 1, &price)
	set(4, 1, nil)
	set(5, 0, nil)

	got, err := svc.DailyDeals(ctx, testNow, 10)
	require.NoError(t, err)
	require.Len(t, got, 4)

	var order []int64
	for _, d := range got {
		order = append(order, d.ProductID)
		assert.Equal(t, day, d.Date)
	}
	assert.Equal(t, []int64{2, 4, 3, 1}, order)
	assert.True(t, got[0].DealPrice.Equal(money("35")))
	assert.True(t, got[1].DealPrice.Equal(money("50")))
	assert.Equal(t, day, got[0].StartAt)
	assert.Equal(t, day.Add(24*time.Hour-time.Second), got[0].EndAt)

	limited, err := svc.DailyDeals(ctx, testNow, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDailyDeals_FallbackSyntheticPrice(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	store.addProduct(Product{ID: 1, Price: money("99.99"), StockQuantity: 3, IsActive: true, IsDailyDeal: true, TotalSalesCount: 4})
	store.addProduct(Product{ID: 2, Price: money("10"), StockQuantity: 3, IsActive: true, IsDailyDeal: true, DailyDealPrice: moneyPtr("7.5"), TotalSalesCount: 9})
	store.addProduct(Product{ID: 3, Price: money("10"), StockQuantity: 3, IsActive: true})

	got, err := svc.DailyDeals(ctx, testNow, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(2), got[0].ProductID)
	assert.True(t, got[0].DealPrice.Equal(money("7.5")))
	assert.Equal(t, int64(1), got[1].ProductID)
	assert.True(t, got[1].DealPrice.Equal(money("80")), got[1].DealPrice.String())
}

func TestTrending(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	store.addProduct(Product{ID: 1, IsActive: true})
	store.addProduct(Product{ID: 2, IsActive: true})
	store.addProduct(Product{ID: 3, IsActive: false})
	store.addProduct(Product{ID: 4, IsActive: true})

	day := testNow.AddDate(0, 0, -1)
	require.NoError(t, svc.RecordProductSale(ctx, 1, 2, day, nil)) // 10
	for i := 0; i < 12; i++ {
		require.NoError(t, svc.RecordProductView(ctx, 2, day, nil)) // 12
	}
	require.NoError(t, svc.RecordProductSale(ctx, 3, 5, day, nil)) // 25, inactive
	require.NoError(t, svc.RecordProductView(ctx, 4, testNow.AddDate(0, 0, -30), nil))

	got, err := svc.Trending(ctx, testNow.AddDate(0, 0, -7), testNow, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(got))

	assert.Equal(t, 2, store.product(1).TotalSalesCount)
	assert.Equal(t, 12, store.product(2).ViewsCount)
}

func TestNewArrivals(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	store.addProduct(Product{ID: 1, IsActive: true, CreatedAt: testNow.AddDate(0, 0, -2)})
	store.addProduct(Product{ID: 2, IsActive: true, CreatedAt: testNow.AddDate(0, 0, -1)})
	store.addProduct(Product{ID: 3, IsActive: true, CreatedAt: testNow.AddDate(0, 0, -40)})
	store.addProduct(Product{ID: 4, IsActive: false, CreatedAt: testNow.AddDate(0, 0, -1)})

	got, err := svc.NewArrivals(ctx, 30*24*time.Hour, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(got))
}

func TestRelatedProducts(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	for id := int64(1); id <= 5; id++ {
		store.addProduct(Product{ID: id, IsActive: true, TotalSalesCount: int(id)})
	}
	store.st.categories[1] = []int64{100, 101}
	store.st.tags[1] = []int64{7, 8}

	store.st.categories[2] = []int64{100} // 3
	store.st.tags[3] = []int64{7, 8}      // 2
	store.st.categories[4] = []int64{101} // 3, more sales than 2
	store.st.tags[5] = []int64{9}         // 0
	store.st.categories[5] = []int64{200} // 0

	got, err := svc.RelatedProducts(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 3}, ids(got))
}

func TestYouMayAlsoLike_CoPurchase(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	const a, b, c, d = 1, 2, 3, 4
	for _, id := range []int64{a, b, c, d} {
		store.addProduct(Product{ID: id, IsActive: true, StockQuantity: 1})
	}
	store.addOrder(1, "u1", testNow, a, b)
	store.addOrder(2, "u2", testNow, a, c)
	store.addOrder(3, "u3", testNow, a, c)
	store.addOrder(4, "u4", testNow, d)

	got, err := svc.YouMayAlsoLike(ctx, []int64{a}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{c, b}, ids(got))

	empty, err := svc.YouMayAlsoLike(ctx, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}

func TestYouMayAlsoLike_CountsLineItems(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	const a, b, c = 1, 2, 3
	for _, id := range []int64{a, b, c} {
		store.addProduct(Product{ID: id, IsActive: true, StockQuantity: 1})
	}
	// b sits on two lines of one order, c on one line in each of two orders
	store.addOrder(1, "u1", testNow, a, b, b, b)
	store.addOrder(2, "u2", testNow, a, c)
	store.addOrder(3, "u3", testNow, a, c)

	got, err := svc.YouMayAlsoLike(ctx, []int64{a}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{b, c}, ids(got))
}

func TestYouMayAlsoLike_PermutationSharesCacheEntry(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	for id := int64(1); id <= 3; id++ {
		store.addProduct(Product{ID: id, IsActive: true, StockQuantity: 1})
	}
	store.addOrder(1, "u1", testNow, 1, 2, 3)

	first, err := svc.YouMayAlsoLike(ctx, []int64{1, 2}, 5)
	require.NoError(t, err)
	second, err := svc.YouMayAlsoLike(ctx, []int64{2, 1}, 5)
	require.NoError(t, err)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, 1, store.count("CoPurchaseCounts"))
}

func TestYouMayAlsoLike_FiltersAfterRanking(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	store.addProduct(Product{ID: 1, IsActive: true, StockQuantity: 1})
	store.addProduct(Product{ID: 2, IsActive: true, StockQuantity: 0})
	store.addProduct(Product{ID: 3, IsActive: true, StockQuantity: 4})
	store.addProduct(Product{ID: 4, IsActive: true, StockQuantity: 4})
	store.addOrder(1, "u", testNow, 1, 2, 3, 4)
	store.addOrder(2, "u", testNow, 1, 2, 3)
	store.addOrder(3, "u", testNow, 1, 2)

	got, err := svc.YouMayAlsoLike(ctx, []int64{1}, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestSuggestionsAfterPurchase(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	for id := int64(1); id <= 3; id++ {
		store.addProduct(Product{ID: id, IsActive: true, StockQuantity: 1})
	}
	store.addOrder(1, "u1", testNow, 1, 2)
	store.addOrder(2, "u2", testNow, 1, 3)

	got, err := svc.SuggestionsAfterPurchase(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(got))

	_, err = svc.SuggestionsAfterPurchase(ctx, 404, 0)
	var notFound *apperrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "order", notFound.Resource)
}

func TestRecentlyBought(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	for id := int64(1); id <= 3; id++ {
		store.addProduct(Product{ID: id, IsActive: id != 3})
	}
	store.addOrder(1, "u1", testNow.AddDate(0, 0, -3), 1, 2)
	store.addOrder(2, "u1", testNow.AddDate(0, 0, -1), 3)
	store.addOrder(3, "u1", testNow, 1)
	store.addOrder(4, "u2", testNow, 2)

	got, err := svc.RecentlyBought(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 2}, ids(got))

	anon, err := svc.RecentlyBought(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, anon)
}

func TestFeaturedProducts(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	for id := int64(1); id <= 4; id++ {
		store.addProduct(Product{ID: id, IsActive: true})
	}
	future := testNow.Add(24 * time.Hour)
	require.NoError(t, svc.SetFeatured(ctx, FeaturedInput{ProductID: 1, IsFeatured: true, Position: 3}, nil))
	require.NoError(t, svc.SetFeatured(ctx, FeaturedInput{ProductID: 2, IsFeatured: true, Position: 1}, nil))
	require.NoError(t, svc.SetFeatured(ctx, FeaturedInput{ProductID: 3, IsFeatured: true, Position: 2, StartDate: &future}, nil))

	got, err := svc.FeaturedProducts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(got))

	_, err = svc.FeaturedProducts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, store.count("FeaturedRows"))
}

func TestFeaturedProducts_FallbackIsNotCached(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	store.addProduct(Product{ID: 1, IsActive: true, IsFeatured: true, TotalSalesCount: 1})
	store.addProduct(Product{ID: 2, IsActive: true, IsFeatured: true, TotalSalesCount: 8})
	store.addProduct(Product{ID: 3, IsActive: true})

	for i := 0; i < 2; i++ {
		got, err := svc.FeaturedProducts(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 1}, ids(got))
	}
	assert.Equal(t, 2, store.count("FlaggedProducts"))
}

func TestReadPaths_PropagateStoreFailure(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	store.failOnCall("ActiveFlashSaleItems")
	store.failOnCall("HasFeaturedProducts")
	store.failOnCall("ProductsCreatedSince")

	var storeErr *apperrors.ErrStoreFailure

	got, err := svc.FlashSales(ctx, nil, 0)
	require.ErrorAs(t, err, &storeErr)
	assert.ErrorIs(t, err, errInjected)
	assert.Nil(t, got)

	_, err = svc.FeaturedProducts(ctx, 0)
	assert.ErrorAs(t, err, &storeErr)

	_, err = svc.NewArrivals(ctx, time.Hour, 0)
	assert.ErrorAs(t, err, &storeErr)
}
