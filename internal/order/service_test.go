package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greengrocer-backend/internal/cart"
	"greengrocer-backend/internal/domain"
	"greengrocer-backend/internal/store"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	store *store.MemoryStore
	hook  *logtest.Hook
	ids   map[string]string
}

func setupService(t *testing.T) fixture {
	t.Helper()
	s := store.NewMemoryStore()
	logger, hook := logtest.NewNullLogger()

	ids := make(map[string]string)
	for name, price := range map[string]int64{"A": 50, "B": 30} {
		p, err := s.CreateProduct(context.Background(), domain.Product{Name: name, Price: decimal.NewFromInt(price), Category: "Fruit"})
		require.NoError(t, err)
		ids[name] = p.ID
	}

	svc := NewService(s, s, DefaultConfig(), logger, WithClock(func() time.Time { return fixedNow }))
	return fixture{svc: svc, store: s, hook: hook, ids: ids}
}

func customer() Customer {
	return Customer{Name: "Jo Bloggs", Email: "jo@example.com", Address: "1 Market Street"}
}

func TestPlace_ComputesTotalWithDeliveryCharge(t *testing.T) {
	f := setupService(t)

	o, err := f.svc.Place(context.Background(), PlaceRequest{
		Owner:    "user-1",
		Customer: customer(),
		Items: []cart.Entry{
			{ProductID: f.ids["A"], Quantity: 2},
			{ProductID: f.ids["B"], Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.True(t, decimal.NewFromInt(142).Equal(o.TotalPrice), "total %s", o.TotalPrice)
	require.Len(t, o.Items, 2)
	assert.True(t, decimal.NewFromInt(50).Equal(o.Items[0].PricePerUnit))
	assert.True(t, decimal.NewFromInt(30).Equal(o.Items[1].PricePerUnit))
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, fixedNow, o.CreatedAt)
	assert.Equal(t, fixedNow, o.UpdatedAt)
	assert.Equal(t, fixedNow.Add(10*time.Minute), o.EstimatedDelivery)
	assert.Equal(t, domain.DefaultLocation, o.CurrentLocation)

	stored, found, err := f.svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, decimal.NewFromInt(142).Equal(stored.TotalPrice))
}

func TestPlace_PriceSnapshotSurvivesCatalogEdit(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	o, err := f.svc.Place(ctx, PlaceRequest{Customer: customer(), Items: []cart.Entry{{ProductID: f.ids["A"], Quantity: 2}}})
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(75)
	_, err = f.store.UpdateProduct(ctx, f.ids["A"], store.ProductPatch{Price: &newPrice})
	require.NoError(t, err)

	stored, _, err := f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(stored.Items[0].PricePerUnit))
	assert.True(t, decimal.NewFromInt(112).Equal(stored.TotalPrice))
}

func TestPlace_AnonymousOwner(t *testing.T) {
	f := setupService(t)

	o, err := f.svc.Place(context.Background(), PlaceRequest{Customer: customer(), Items: []cart.Entry{{ProductID: f.ids["B"], Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, domain.AnonymousOwner, o.UserID)
}

func TestPlace_DropsMissingProductsAndLogs(t *testing.T) {
	f := setupService(t)

	o, err := f.svc.Place(context.Background(), PlaceRequest{
		Customer: customer(),
		Items: []cart.Entry{
			{ProductID: "deleted", Quantity: 3},
			{ProductID: f.ids["B"], Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.True(t, decimal.NewFromInt(72).Equal(o.TotalPrice))

	var warned bool
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["product_id"] == "deleted" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestPlace_OnlyMissingProductsIsRefused(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, PlaceRequest{Customer: customer(), Items: []cart.Entry{{ProductID: "gone", Quantity: 1}}})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	all, err := f.svc.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPlace_EmptyCartIsRefused(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.Place(context.Background(), PlaceRequest{Customer: customer()})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPlace_MergesDuplicateEntries(t *testing.T) {
	f := setupService(t)

	o, err := f.svc.Place(context.Background(), PlaceRequest{
		Customer: customer(),
		Items: []cart.Entry{
			{ProductID: f.ids["A"], Quantity: 1},
			{ProductID: f.ids["A"], Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 3, o.Items[0].Quantity)
}

func TestPlace_Validation(t *testing.T) {
	f := setupService(t)
	items := []cart.Entry{{ProductID: f.ids["A"], Quantity: 1}}

	tests := []struct {
		name  string
		req   PlaceRequest
		field string
	}{
		{"missing name", PlaceRequest{Customer: Customer{Email: "a@b.co", Address: "x"}, Items: items}, "name"},
		{"missing email", PlaceRequest{Customer: Customer{Name: "a", Address: "x"}, Items: items}, "email"},
		{"bad email", PlaceRequest{Customer: Customer{Name: "a", Email: "nope", Address: "x"}, Items: items}, "email"},
		{"missing address", PlaceRequest{Customer: Customer{Name: "a", Email: "a@b.co", Address: "  "}, Items: items}, "address"},
		{"zero quantity", PlaceRequest{Customer: customer(), Items: []cart.Entry{{ProductID: f.ids["A"]}}}, "items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Place(context.Background(), tt.req)
			require.True(t, IsValidation(err), "got %v", err)
			var v *ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.field, v.Field)
		})
	}

	all, _ := f.svc.All(context.Background())
	assert.Empty(t, all)
}

type failingOrders struct {
	store.OrderStore
	err error
}

func (f failingOrders) CreateOrder(context.Context, domain.Order) (string, error) {
	return "", f.err
}

type failingCatalog struct{ err error }

func (f failingCatalog) ListProducts(context.Context) ([]domain.Product, error) {
	return nil, f.err
}

func TestPlace_PersistenceErrorPropagates(t *testing.T) {
	f := setupService(t)
	boom := errors.New("store unavailable")
	svc := NewService(f.store, failingOrders{OrderStore: f.store, err: boom}, DefaultConfig(), logrus.New())

	_, err := svc.Place(context.Background(), PlaceRequest{Customer: customer(), Items: []cart.Entry{{ProductID: f.ids["A"], Quantity: 1}}})
	assert.ErrorIs(t, err, boom)
}

func TestPlace_CatalogErrorPropagates(t *testing.T) {
	f := setupService(t)
	boom := errors.New("catalog unavailable")
	svc := NewService(failingCatalog{err: boom}, f.store, DefaultConfig(), logrus.New())

	_, err := svc.Place(context.Background(), PlaceRequest{Customer: customer(), Items: []cart.Entry{{ProductID: f.ids["A"], Quantity: 1}}})
	assert.ErrorIs(t, err, boom)
}

func placeOne(t *testing.T, f fixture) domain.Order {
	t.Helper()
	o, err := f.svc.Place(context.Background(), PlaceRequest{Customer: customer(), Items: []cart.Entry{{ProductID: f.ids["A"], Quantity: 1}}})
	require.NoError(t, err)
	return o
}

func TestSetStatus_ShippedProgress(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	o := placeOne(t, f)

	_, err := f.svc.SetStatus(ctx, o.ID, domain.StatusShipped, nil)
	require.NoError(t, err)

	tr, found, err := f.svc.Track(ctx, o.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.StatusShipped, tr.Order.Status)
	assert.Equal(t, 2, tr.Progress.Index)
	assert.InDelta(t, 2.0/3.0, tr.Progress.Fraction, 1e-9)
}

func TestSetStatus_AnyTransitionIsAllowed(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	o := placeOne(t, f)

	_, err := f.svc.SetStatus(ctx, o.ID, domain.StatusDelivered, nil)
	require.NoError(t, err)

	tr, _, err := f.svc.Track(ctx, o.ID)
	require.NoError(t, err)
	for _, step := range tr.Progress.Steps {
		assert.True(t, step.Completed, step.Status)
	}

	back, err := f.svc.SetStatus(ctx, o.ID, domain.StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, back.Status)

	var warned bool
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "order status moved backwards" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestSetStatus_SameStatusBumpsTimestamp(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	o := placeOne(t, f)

	later := fixedNow.Add(time.Hour)
	f.svc.now = func() time.Time { return later }

	updated, err := f.svc.SetStatus(ctx, o.ID, domain.StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, later, updated.UpdatedAt)

	stored, _, _ := f.svc.Get(ctx, o.ID)
	assert.Equal(t, later, stored.UpdatedAt)
	assert.Equal(t, fixedNow, stored.CreatedAt)
}

func TestSetStatus_WithLocation(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	o := placeOne(t, f)

	loc := domain.Location{Lat: 51.5, Lng: -0.12}
	_, err := f.svc.SetStatus(ctx, o.ID, domain.StatusShipped, &loc)
	require.NoError(t, err)

	stored, _, _ := f.svc.Get(ctx, o.ID)
	assert.Equal(t, loc, stored.CurrentLocation)
	assert.True(t, decimal.NewFromInt(62).Equal(stored.TotalPrice))
}

func TestSetStatus_Errors(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	o := placeOne(t, f)

	_, err := f.svc.SetStatus(ctx, "missing", domain.StatusShipped, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.svc.SetStatus(ctx, o.ID, domain.Status("lost"), nil)
	assert.True(t, IsValidation(err))
}

func TestGet_UnknownIsAbsent(t *testing.T) {
	f := setupService(t)

	o, found, err := f.svc.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, domain.Order{}, o)

	_, found, err = f.svc.Track(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestByOwner(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, PlaceRequest{Owner: "u1", Customer: customer(), Items: []cart.Entry{{ProductID: f.ids["A"], Quantity: 1}}})
	require.NoError(t, err)
	placeOne(t, f)

	mine, err := f.svc.ByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
