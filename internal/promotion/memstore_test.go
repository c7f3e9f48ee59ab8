package promotion

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var errInjected = errors.New("injected store failure")

type dealKey struct {
	productID int64
	day       time.Time
}

type itemKey struct {
	saleID    int64
	productID int64
}

type memOrder struct {
	userID   string
	placedAt time.Time
	items    []int64
}

// memState is the full table set; transactions work on a deep copy.
type memState struct {
	products   map[int64]Product
	featured   map[int64]FeaturedProduct
	deals      map[dealKey]DailyDeal
	sales      map[int64]FlashSale
	items      map[itemKey]FlashSaleItem
	stats      map[dealKey]StatTotal
	categories map[int64][]int64
	tags       map[int64][]int64
	orders     map[int64]memOrder
	nextID     int64
}

func newMemState() *memState {
	return &memState{
		products:   map[int64]Product{},
		featured:   map[int64]FeaturedProduct{},
		deals:      map[dealKey]DailyDeal{},
		sales:      map[int64]FlashSale{},
		items:      map[itemKey]FlashSaleItem{},
		stats:      map[dealKey]StatTotal{},
		categories: map[int64][]int64{},
		tags:       map[int64][]int64{},
		orders:     map[int64]memOrder{},
		nextID:     1000,
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *memState) clone() *memState {
	return &memState{
		products:   cloneMap(st.products),
		featured:   cloneMap(st.featured),
		deals:      cloneMap(st.deals),
		sales:      cloneMap(st.sales),
		items:      cloneMap(st.items),
		stats:      cloneMap(st.stats),
		categories: st.categories,
		tags:       st.tags,
		orders:     st.orders,
		nextID:     st.nextID,
	}
}

func (st *memState) id() int64 {
	st.nextID++
	return st.nextID
}

// memQueries implements Queries over a memState and counts calls per method.
type memQueries struct {
	st     *memState
	calls  map[string]int
	failOn map[string]bool
	mu     *sync.Mutex
}

func (q *memQueries) hit(method string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls[method]++
	if q.failOn[method] {
		return errInjected
	}
	return nil
}

type memStore struct {
	memQueries
	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{memQueries: memQueries{
		st:     newMemState(),
		calls:  map[string]int{},
		failOn: map[string]bool{},
		mu:     &sync.Mutex{},
	}}
}

func (s *memStore) count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *memStore) failOnCall(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[method] = true
}

func (s *memStore) Begin(_ context.Context) (UnitOfWork, error) {
	if err := s.hit("Begin"); err != nil {
		return nil, err
	}
	return &memTx{
		memQueries: memQueries{st: s.st.clone(), calls: s.calls, failOn: s.failOn, mu: s.mu},
		parent:     s,
	}, nil
}

type memTx struct {
	memQueries
	parent *memStore
	done   bool
}

func (t *memTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	if err := t.hit("Commit"); err != nil {
		return err
	}
	t.done = true
	t.parent.st = t.st
	t.parent.commits++
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.parent.rollbacks++
	return nil
}

// --- fixtures ---

func (s *memStore) addProduct(p Product) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	s.st.products[p.ID] = p
}

func (s *memStore) addSale(sale FlashSale) {
	s.st.sales[sale.ID] = sale
}

func (s *memStore) addItem(item FlashSaleItem) {
	s.st.items[itemKey{item.FlashSaleID, item.ProductID}] = item
}

func (s *memStore) addOrder(id int64, userID string, at time.Time, productIDs ...int64) {
	s.st.orders[id] = memOrder{userID: userID, placedAt: at, items: productIDs}
}

func (s *memStore) product(id int64) Product {
	return s.st.products[id]
}

// --- Queries ---

func sortedProducts(m map[int64]Product, keep func(Product) bool) []Product {
	var out []Product
	for _, p := range m {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (q *memQueries) ActiveFlashSaleItems(_ context.Context, at time.Time) ([]FlashSaleCandidate, error) {
	if err := q.hit("ActiveFlashSaleItems"); err != nil {
		return nil, err
	}
	var out []FlashSaleCandidate
	for _, item := range q.st.items {
		sale, ok := q.st.sales[item.FlashSaleID]
		if !ok || !sale.Contains(at) {
			continue
		}
		p, ok := q.st.products[item.ProductID]
		if !ok || !p.InStock() {
			continue
		}
		out = append(out, FlashSaleCandidate{Item: item, Sale: sale, Product: p})
	}
	return out, nil
}

func (q *memQueries) FlaggedProducts(_ context.Context, flag Flag) ([]Product, error) {
	if err := q.hit("FlaggedProducts"); err != nil {
		return nil, err
	}
	return sortedProducts(q.st.products, func(p Product) bool {
		if !p.IsActive {
			return false
		}
		switch flag {
		case FlagFeatured:
			return p.IsFeatured
		case FlagDailyDeal:
			return p.IsDailyDeal
		default:
			return p.IsFlashSale
		}
	}), nil
}

func (q *memQueries) HasDailyDeals(_ context.Context) (bool, error) {
	if err := q.hit("HasDailyDeals"); err != nil {
		return false, err
	}
	return len(q.st.deals) > 0, nil
}

func (q *memQueries) DailyDealsOn(_ context.Context, day time.Time) ([]DailyDealRow, error) {
	if err := q.hit("DailyDealsOn"); err != nil {
		return nil, err
	}
	var out []DailyDealRow
	for k, d := range q.st.deals {
		if !k.day.Equal(day) {
			continue
		}
		p, ok := q.st.products[d.ProductID]
		if !ok || !p.InStock() {
			continue
		}
		out = append(out, DailyDealRow{Deal: d, Product: p})
	}
	return out, nil
}

func (q *memQueries) StatTotals(_ context.Context, from, to time.Time) ([]StatTotal, error) {
	if err := q.hit("StatTotals"); err != nil {
		return nil, err
	}
	totals := map[int64]*StatTotal{}
	for k, s := range q.st.stats {
		if k.day.Before(from) || k.day.After(to) {
			continue
		}
		t, ok := totals[k.productID]
		if !ok {
			t = &StatTotal{ProductID: k.productID}
			totals[k.productID] = t
		}
		t.Views += s.Views
		t.Sales += s.Sales
	}
	out := make([]StatTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	return out, nil
}

func (q *memQueries) ProductsByIDs(_ context.Context, ids []int64, filter ProductFilter) ([]Product, error) {
	if err := q.hit("ProductsByIDs"); err != nil {
		return nil, err
	}
	var out []Product
	for _, id := range ids {
		p, ok := q.st.products[id]
		if !ok {
			continue
		}
		if filter == ActiveOnly && !p.IsActive {
			continue
		}
		if filter == ActiveInStock && !p.InStock() {
			continue
		}
		out = append(out, p)
	}
	// storage order, not request order
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (q *memQueries) ProductsCreatedSince(_ context.Context, cutoff time.Time, limit int) ([]Product, error) {
	if err := q.hit("ProductsCreatedSince"); err != nil {
		return nil, err
	}
	out := sortedProducts(q.st.products, func(p Product) bool {
		return p.IsActive && !p.CreatedAt.Before(cutoff)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func overlap(a, b []int64) int {
	set := map[int64]bool{}
	for _, x := range a {
		set[x] = true
	}
	n := 0
	for _, y := range b {
		if set[y] {
			n++
		}
	}
	return n
}

func (q *memQueries) RelatedCandidates(_ context.Context, productID int64) ([]RelatedCandidate, error) {
	if err := q.hit("RelatedCandidates"); err != nil {
		return nil, err
	}
	var out []RelatedCandidate
	for _, p := range sortedProducts(q.st.products, func(p Product) bool { return p.IsActive && p.ID != productID }) {
		c := RelatedCandidate{
			Product:         p,
			CategoryMatches: overlap(q.st.categories[productID], q.st.categories[p.ID]),
			TagMatches:      overlap(q.st.tags[productID], q.st.tags[p.ID]),
		}
		if c.CategoryMatches > 0 || c.TagMatches > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

func (q *memQueries) CoPurchaseCounts(_ context.Context, productIDs []int64) ([]CoPurchase, error) {
	if err := q.hit("CoPurchaseCounts"); err != nil {
		return nil, err
	}
	counts := map[int64]int{}
	for _, o := range q.st.orders {
		if overlap(productIDs, o.items) == 0 {
			continue
		}
		for _, id := range o.items {
			if overlap(productIDs, []int64{id}) > 0 {
				continue
			}
			counts[id]++
		}
	}
	out := make([]CoPurchase, 0, len(counts))
	for id, n := range counts {
		out = append(out, CoPurchase{ProductID: id, Count: n})
	}
	return out, nil
}

func (q *memQueries) OrderProductIDs(_ context.Context, orderID int64) ([]int64, bool, error) {
	if err := q.hit("OrderProductIDs"); err != nil {
		return nil, false, err
	}
	o, ok := q.st.orders[orderID]
	if !ok {
		return nil, false, nil
	}
	return append([]int64(nil), o.items...), true, nil
}

func (q *memQueries) PurchaseRecency(_ context.Context, userID string) ([]PurchaseRecency, error) {
	if err := q.hit("PurchaseRecency"); err != nil {
		return nil, err
	}
	last := map[int64]time.Time{}
	for _, o := range q.st.orders {
		if o.userID != userID {
			continue
		}
		for _, id := range o.items {
			if o.placedAt.After(last[id]) {
				last[id] = o.placedAt
			}
		}
	}
	out := make([]PurchaseRecency, 0, len(last))
	for id, at := range last {
		out = append(out, PurchaseRecency{ProductID: id, LastBought: at})
	}
	return out, nil
}

func (q *memQueries) HasFeaturedProducts(_ context.Context) (bool, error) {
	if err := q.hit("HasFeaturedProducts"); err != nil {
		return false, err
	}
	return len(q.st.featured) > 0, nil
}

func (q *memQueries) FeaturedRows(_ context.Context) ([]FeaturedRow, error) {
	if err := q.hit("FeaturedRows"); err != nil {
		return nil, err
	}
	var out []FeaturedRow
	for pid, f := range q.st.featured {
		if p, ok := q.st.products[pid]; ok {
			out = append(out, FeaturedRow{Featured: f, Product: p})
		}
	}
	return out, nil
}

func (q *memQueries) SaveFeatured(_ context.Context, f *FeaturedProduct) error {
	if err := q.hit("SaveFeatured"); err != nil {
		return err
	}
	if cur, ok := q.st.featured[f.ProductID]; ok {
		f.ID = cur.ID
	} else {
		f.ID = q.st.id()
	}
	q.st.featured[f.ProductID] = *f
	return nil
}

func (q *memQueries) DeleteFeatured(_ context.Context, productID int64) error {
	if err := q.hit("DeleteFeatured"); err != nil {
		return err
	}
	delete(q.st.featured, productID)
	return nil
}

func (q *memQueries) UpsertDailyDeal(_ context.Context, d *DailyDeal) error {
	if err := q.hit("UpsertDailyDeal"); err != nil {
		return err
	}
	k := dealKey{d.ProductID, d.Date}
	if cur, ok := q.st.deals[k]; ok {
		d.ID = cur.ID
	} else {
		d.ID = q.st.id()
	}
	q.st.deals[k] = *d
	return nil
}

func (q *memQueries) DeleteDailyDeal(_ context.Context, productID int64, day time.Time) error {
	if err := q.hit("DeleteDailyDeal"); err != nil {
		return err
	}
	delete(q.st.deals, dealKey{productID, day})
	return nil
}

func (q *memQueries) FlashSaleByID(_ context.Context, id int64) (*FlashSale, error) {
	if err := q.hit("FlashSaleByID"); err != nil {
		return nil, err
	}
	s, ok := q.st.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (q *memQueries) firstSale(match func(FlashSale) bool) *FlashSale {
	var best *FlashSale
	for _, s := range q.st.sales {
		if !match(s) {
			continue
		}
		if best == nil || s.StartAt.Before(best.StartAt) || (s.StartAt.Equal(best.StartAt) && s.ID < best.ID) {
			s := s
			best = &s
		}
	}
	return best
}

func (q *memQueries) FlashSaleByWindow(_ context.Context, start, end time.Time) (*FlashSale, error) {
	if err := q.hit("FlashSaleByWindow"); err != nil {
		return nil, err
	}
	return q.firstSale(func(s FlashSale) bool { return s.StartAt.Equal(start) && s.EndAt.Equal(end) }), nil
}

func (q *memQueries) FlashSaleActiveAt(_ context.Context, at time.Time) (*FlashSale, error) {
	if err := q.hit("FlashSaleActiveAt"); err != nil {
		return nil, err
	}
	return q.firstSale(func(s FlashSale) bool { return s.Contains(at) }), nil
}

func (q *memQueries) CreateFlashSale(_ context.Context, s *FlashSale) error {
	if err := q.hit("CreateFlashSale"); err != nil {
		return err
	}
	s.ID = q.st.id()
	q.st.sales[s.ID] = *s
	return nil
}

func (q *memQueries) UpsertFlashSaleItem(_ context.Context, item *FlashSaleItem) error {
	if err := q.hit("UpsertFlashSaleItem"); err != nil {
		return err
	}
	k := itemKey{item.FlashSaleID, item.ProductID}
	if cur, ok := q.st.items[k]; ok {
		item.ID = cur.ID
	} else {
		item.ID = q.st.id()
	}
	q.st.items[k] = *item
	return nil
}

func (q *memQueries) DeleteFlashSaleItems(_ context.Context, productID int64) error {
	if err := q.hit("DeleteFlashSaleItems"); err != nil {
		return err
	}
	for k := range q.st.items {
		if k.productID == productID {
			delete(q.st.items, k)
		}
	}
	return nil
}

func (q *memQueries) BestFlashSaleItem(_ context.Context, productID int64) (*FlashSaleCandidate, error) {
	if err := q.hit("BestFlashSaleItem"); err != nil {
		return nil, err
	}
	var best *FlashSaleCandidate
	for k, item := range q.st.items {
		if k.productID != productID {
			continue
		}
		if best == nil || betterItem(item, best.Item) {
			best = &FlashSaleCandidate{Item: item, Sale: q.st.sales[item.FlashSaleID]}
		}
	}
	return best, nil
}

func (q *memQueries) PromotionPresence(_ context.Context, productID int64) (Presence, error) {
	if err := q.hit("PromotionPresence"); err != nil {
		return Presence{}, err
	}
	var p Presence
	_, p.Featured = q.st.featured[productID]
	for k := range q.st.deals {
		if k.productID == productID {
			p.DailyDeal = true
		}
	}
	for k := range q.st.items {
		if k.productID == productID {
			p.FlashSale = true
		}
	}
	return p, nil
}

func (q *memQueries) UpdateProductFlags(_ context.Context, productID int64, flags ProductFlags) error {
	if err := q.hit("UpdateProductFlags"); err != nil {
		return err
	}
	p, ok := q.st.products[productID]
	if !ok {
		return nil
	}
	p.IsFeatured = flags.IsFeatured
	p.IsDailyDeal = flags.IsDailyDeal
	p.IsFlashSale = flags.IsFlashSale
	if flags.SetFlashFields {
		p.FlashSalePrice = flags.FlashSalePrice
		p.FlashSaleStart = flags.FlashSaleStart
		p.FlashSaleEnd = flags.FlashSaleEnd
	}
	q.st.products[productID] = p
	return nil
}

func (q *memQueries) RecordStat(_ context.Context, productID int64, day time.Time, views, sales int) error {
	if err := q.hit("RecordStat"); err != nil {
		return err
	}
	k := dealKey{productID, day}
	s := q.st.stats[k]
	s.ProductID = productID
	s.Views += views
	s.Sales += sales
	q.st.stats[k] = s

	if p, ok := q.st.products[productID]; ok {
		p.ViewsCount += views
		p.TotalSalesCount += sales
		q.st.products[productID] = p
	}
	return nil
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}
