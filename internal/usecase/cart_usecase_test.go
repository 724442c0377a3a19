package usecase

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlot struct {
	data     map[string]string
	readErr  error
	writeErr error
	writes   int
}

func newFakeSlot() *fakeSlot {
	return &fakeSlot{data: map[string]string{}}
}

func (f *fakeSlot) Read(_ context.Context, key string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeSlot) Write(_ context.Context, key string, value string) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.data[key] = value
	return nil
}

type recordingPresenter struct {
	shown    []string
	notified []string
}

func (p *recordingPresenter) Show(_ context.Context, id string)    { p.shown = append(p.shown, id) }
func (p *recordingPresenter) Hide(context.Context, string)         {}
func (p *recordingPresenter) Notify(_ context.Context, msg string) { p.notified = append(p.notified, msg) }

func testSettings() CartSettings {
	return CartSettings{Key: "cart", DefaultColor: "default", Pricing: domain.DefaultPricing()}
}

func newTestStore(slot SlotRepository) (*CartStore, *recordingPresenter) {
	p := &recordingPresenter{}
	s := NewCartStore("s1", slot, p, testSettings(), logger.NewNopLogger())
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return s, p
}

func addReq(id int64, price string, qty int, color string) *AddItemReq {
	return NewAddItemReq(domain.NewNumericID(id), "Headphones", decimal.RequireFromString(price), "img.jpg", qty, color)
}

func TestInitializeAbsentSlotGivesEmptyCart(t *testing.T) {
	s, _ := newTestStore(newFakeSlot())

	var events []*ChangeEvent
	s.Subscribe(ObserverFunc(func(_ context.Context, ev *ChangeEvent) { events = append(events, ev) }))
	s.Initialize(context.Background())

	assert.Empty(t, s.Items())
	require.Len(t, events, 1)
	assert.Equal(t, OpInitialize, events[0].Operation)
	assert.Equal(t, 0, events[0].Totals.ItemCount)
}

func TestInitializeCorruptSlotGivesEmptyCart(t *testing.T) {
	for _, raw := range []string{"not json", `{"id":1}`, `[{"id":1,"price":"9.99","quantity":1}]`, `[{"price":1,"quantity":1}]`} {
		slot := newFakeSlot()
		slot.data["cart"] = raw
		s, _ := newTestStore(slot)

		s.Initialize(context.Background())

		assert.Empty(t, s.Items(), raw)
	}
}

func TestInitializeReadErrorGivesEmptyCart(t *testing.T) {
	slot := newFakeSlot()
	slot.readErr = errors.New("boom")
	s, _ := newTestStore(slot)

	s.Initialize(context.Background())

	assert.Empty(t, s.Items())
}

func TestInitializeLoadsStoredItems(t *testing.T) {
	slot := newFakeSlot()
	slot.data["cart"] = `[{"id":1,"name":"A","price":10,"image":"a.jpg","quantity":2,"color":"black"},{"id":"x","price":1.5,"quantity":1}]`
	s, _ := newTestStore(slot)

	s.Initialize(context.Background())

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "default", items[1].Color)
	assert.True(t, items[1].ID.Equal(domain.NewStringID("x")))
}

func TestAddMergesAndPersists(t *testing.T) {
	slot := newFakeSlot()
	s, p := newTestStore(slot)
	ctx := context.Background()
	s.Initialize(ctx)

	require.NoError(t, s.Add(ctx, addReq(1, "10", 2, "black")))
	require.NoError(t, s.Add(ctx, addReq(1, "10", 3, "black")))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, []string{DialogAddedToCart, DialogAddedToCart}, p.shown)

	reloaded, _ := newTestStore(slot)
	reloaded.Initialize(ctx)
	require.Len(t, reloaded.Items(), 1)
	assert.Equal(t, 5, reloaded.Items()[0].Quantity)
}

func TestAddColorVariantsStaySeparate(t *testing.T) {
	s, _ := newTestStore(newFakeSlot())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, addReq(1, "10", 1, "black")))
	require.NoError(t, s.Add(ctx, addReq(1, "10", 1, "white")))

	assert.Len(t, s.Items(), 2)
	assert.Equal(t, 2, s.Totals().ItemCount)
}

func TestAddWithoutIDGeneratesUniqueIDs(t *testing.T) {
	s, _ := newTestStore(newFakeSlot())
	ctx := context.Background()

	req := NewAddItemReq(domain.ItemID{}, "Watch", decimal.NewFromInt(199), "", 1, "")
	require.NoError(t, s.Add(ctx, req))
	require.NoError(t, s.Add(ctx, req))

	items := s.Items()
	require.Len(t, items, 2)
	assert.False(t, items[0].ID.Equal(items[1].ID))
	assert.Equal(t, "default", items[0].Color)
	assert.Equal(t, "1700000000000", items[0].ID.String())
	assert.Equal(t, "1700000000001", items[1].ID.String())
}

func TestAddNonPositiveQuantityIsNoop(t *testing.T) {
	slot := newFakeSlot()
	s, p := newTestStore(slot)

	require.NoError(t, s.Add(context.Background(), addReq(1, "10", 0, "black")))

	assert.Empty(t, s.Items())
	assert.Zero(t, slot.writes)
	assert.Empty(t, p.shown)
}

func TestRemoveDropsAllColors(t *testing.T) {
	s, _ := newTestStore(newFakeSlot())
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, addReq(1, "10", 1, "black")))
	require.NoError(t, s.Add(ctx, addReq(1, "10", 1, "white")))
	require.NoError(t, s.Add(ctx, addReq(2, "5", 1, "black")))

	require.NoError(t, s.Remove(ctx, domain.NewNumericID(1)))

	items := s.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].ID.Equal(domain.NewNumericID(2)))
}

func TestRemoveUnknownIDStillCommits(t *testing.T) {
	slot := newFakeSlot()
	s, _ := newTestStore(slot)

	var ops []Operation
	s.Subscribe(ObserverFunc(func(_ context.Context, ev *ChangeEvent) { ops = append(ops, ev.Operation) }))

	require.NoError(t, s.Remove(context.Background(), domain.NewNumericID(42)))

	assert.Equal(t, 1, slot.writes)
	assert.Equal(t, []Operation{OpRemove}, ops)
	assert.Equal(t, "[]", slot.data["cart"])
}

func TestUpdateQuantity(t *testing.T) {
	slot := newFakeSlot()
	s, _ := newTestStore(slot)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, addReq(1, "10", 1, "black")))

	require.NoError(t, s.UpdateQuantity(ctx, domain.NewNumericID(1), 4))
	it, ok := s.Find(domain.NewNumericID(1))
	require.True(t, ok)
	assert.Equal(t, 4, it.Quantity)

	writes := slot.writes
	require.NoError(t, s.UpdateQuantity(ctx, domain.NewNumericID(99), 3))
	assert.Equal(t, writes, slot.writes)

	require.NoError(t, s.UpdateQuantity(ctx, domain.NewNumericID(1), 0))
	assert.Empty(t, s.Items())
}

func TestClearEmptiesCart(t *testing.T) {
	slot := newFakeSlot()
	s, _ := newTestStore(slot)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, addReq(1, "10", 1, "black")))

	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Items())
	assert.Equal(t, "[]", slot.data["cart"])
}

func TestWriteFailureKeepsMemoryStateAndNotifies(t *testing.T) {
	slot := newFakeSlot()
	slot.writeErr = errors.New("quota exceeded")
	s, _ := newTestStore(slot)

	notified := 0
	s.Subscribe(ObserverFunc(func(context.Context, *ChangeEvent) { notified++ }))

	err := s.Add(context.Background(), addReq(1, "10", 1, "black"))

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrSlotUnavailable)
	assert.Len(t, s.Items(), 1)
	assert.Equal(t, 1, notified)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s, _ := newTestStore(newFakeSlot())
	ctx := context.Background()

	calls := 0
	unsubscribe := s.Subscribe(ObserverFunc(func(context.Context, *ChangeEvent) { calls++ }))
	require.NoError(t, s.Add(ctx, addReq(1, "10", 1, "black")))
	unsubscribe()
	require.NoError(t, s.Add(ctx, addReq(2, "10", 1, "black")))

	assert.Equal(t, 1, calls)
}

func TestChangeEventCarriesTotals(t *testing.T) {
	s, _ := newTestStore(newFakeSlot())

	var last *ChangeEvent
	s.Subscribe(ObserverFunc(func(_ context.Context, ev *ChangeEvent) { last = ev }))
	require.NoError(t, s.Add(context.Background(), addReq(1, "13", 2, "black")))

	require.NotNil(t, last)
	assert.Equal(t, "s1", last.SessionID)
	assert.Equal(t, "26.00", domain.FormatMoney(last.Totals.Subtotal))
	assert.True(t, last.Totals.Shipping.IsZero())
	assert.Equal(t, "28.08", domain.FormatMoney(last.Totals.Total))
}

func TestCheckout(t *testing.T) {
	s, p := newTestStore(newFakeSlot())
	ctx := context.Background()

	res := s.Checkout(ctx)
	assert.False(t, res.Accepted)
	assert.Empty(t, p.shown)

	require.NoError(t, s.Add(ctx, addReq(1, "10", 1, "black")))
	p.shown = nil

	res = s.Checkout(ctx)
	assert.True(t, res.Accepted)
	assert.Contains(t, res.Message, "Redirecting to checkout page...")
	assert.Equal(t, []string{DialogCheckout}, p.shown)
	assert.Len(t, s.Items(), 1)
}

func TestCartServiceScopesSessions(t *testing.T) {
	slot := newFakeSlot()
	svc := NewCartService(slot, testSettings(), logger.NewNopLogger())
	ctx := context.Background()

	a := svc.Open(ctx, NewOpenCartReq("a", nil))
	require.NoError(t, a.Add(ctx, addReq(1, "10", 1, "black")))

	b := svc.Open(ctx, NewOpenCartReq("b", nil))
	assert.Empty(t, b.Items())

	again := svc.Open(ctx, NewOpenCartReq("a", nil))
	assert.Len(t, again.Items(), 1)
	assert.Contains(t, slot.data, "session:a:cart")
}

func TestCartServiceNotifiesObserversOnOpen(t *testing.T) {
	var ops []Operation
	appObserver := ObserverFunc(func(_ context.Context, ev *ChangeEvent) { ops = append(ops, ev.Operation) })
	svc := NewCartService(newFakeSlot(), testSettings(), logger.NewNopLogger(), appObserver)

	var pageOps []Operation
	pageObserver := ObserverFunc(func(_ context.Context, ev *ChangeEvent) { pageOps = append(pageOps, ev.Operation) })
	svc.Open(context.Background(), NewOpenCartReq("a", nil, pageObserver))

	assert.Equal(t, []Operation{OpInitialize}, ops)
	assert.Equal(t, []Operation{OpInitialize}, pageOps)
}

func TestAddRejectsQuantityAboveMax(t *testing.T) {
	slot := newFakeSlot()
	s, _ := newTestStore(slot)
	ctx := context.Background()
	s.Initialize(ctx)

	require.NoError(t, s.Add(ctx, addReq(1, "1", 1, "black")))
	err := s.Add(ctx, addReq(2, "1", domain.MaxQuantity+1, "black"))
	assert.ErrorIs(t, err, e.ErrQuantityTooLarge)
	assert.Len(t, s.Items(), 1)

	err = s.UpdateQuantity(ctx, domain.NewNumericID(1), domain.MaxQuantity+1)
	assert.ErrorIs(t, err, e.ErrQuantityTooLarge)
	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestLargeQuantitiesSurviveReload(t *testing.T) {
	slot := newFakeSlot()
	s, _ := newTestStore(slot)
	ctx := context.Background()
	s.Initialize(ctx)

	require.NoError(t, s.Add(ctx, addReq(1, "1", 1, "black")))
	require.NoError(t, s.Add(ctx, addReq(2, "1", domain.MaxQuantity, "black")))
	require.NoError(t, s.Add(ctx, addReq(2, "1", 2, "black")))
	assert.Equal(t, domain.MaxQuantity, s.Items()[1].Quantity)

	reloaded, _ := newTestStore(slot)
	reloaded.Initialize(ctx)
	require.Len(t, reloaded.Items(), 2)
	assert.Equal(t, 1+domain.MaxQuantity, reloaded.Totals().ItemCount)
}

func TestResolveIDKeepsStoredIDType(t *testing.T) {
	s, _ := newTestStore(newFakeSlot())
	ctx := context.Background()
	s.Initialize(ctx)

	req := NewAddItemReq(domain.NewStringID("42"), "Case", decimal.RequireFromString("5"), "", 1, "")
	require.NoError(t, s.Add(ctx, req))

	id, err := s.ResolveID("42")
	require.NoError(t, err)
	assert.True(t, id.Equal(domain.NewStringID("42")))

	require.NoError(t, s.Remove(ctx, id))
	assert.Empty(t, s.Items())

	id, err = s.ResolveID("7")
	require.NoError(t, err)
	assert.True(t, id.Equal(domain.NewNumericID(7)))

	_, err = s.ResolveID(" ")
	assert.ErrorIs(t, err, e.ErrInvalidItemID)
}

func TestRandomOperationSequencesKeepItemCount(t *testing.T) {
	colors := []string{"black", "white"}

	for seed := int64(1); seed <= 20; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		slot := newFakeSlot()
		s, _ := newTestStore(slot)
		ctx := context.Background()
		s.Initialize(ctx)

		for step := 0; step < 200; step++ {
			id := domain.NewNumericID(int64(rnd.Intn(5) + 1))

			switch op := rnd.Intn(10); {
			case op < 5:
				req := NewAddItemReq(id, "item", decimal.RequireFromString("1.25"), "", rnd.Intn(5), colors[rnd.Intn(len(colors))])
				require.NoError(t, s.Add(ctx, req))
			case op < 7:
				require.NoError(t, s.Remove(ctx, id))
			case op < 9:
				require.NoError(t, s.UpdateQuantity(ctx, id, rnd.Intn(8)-2))
			default:
				require.NoError(t, s.Clear(ctx))
			}

			sum := 0
			seen := map[string]bool{}
			for _, item := range s.Items() {
				require.GreaterOrEqual(t, item.Quantity, 1, "seed %d step %d", seed, step)
				key := item.ID.String() + "/" + item.Color
				require.False(t, seen[key], "duplicate %s at seed %d step %d", key, seed, step)
				seen[key] = true
				sum += item.Quantity
			}
			require.Equal(t, sum, s.Totals().ItemCount, "seed %d step %d", seed, step)
		}

		reloaded, _ := newTestStore(slot)
		reloaded.Initialize(ctx)
		assert.Equal(t, s.Totals().ItemCount, reloaded.Totals().ItemCount, "seed %d", seed)
		assert.True(t, s.Totals().Total.Equal(reloaded.Totals().Total), "seed %d", seed)
	}
}
