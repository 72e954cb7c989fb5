package gormdb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Config{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func seedSweet(t *testing.T, s *Store, name, category string, price float64, qty int) *domain.Sweet {
	t.Helper()
	now := time.Now().UTC()
	sw, err := s.Sweets.Create(context.Background(), &domain.Sweet{
		Name: name, Category: category, Price: price, Quantity: qty, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return sw
}

func fptr(v float64) *float64 { return &v }

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestAuthRepository_CreateAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.Users.Create(ctx, &domain.User{Email: "a@b.com", PasswordHash: "h", Role: domain.RoleUser, CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = s.Users.Create(ctx, &domain.User{Email: "a@b.com", PasswordHash: "h2", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	found, err := s.Users.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, "h", found.PasswordHash)

	_, err = s.Users.FindByEmail(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSweetRepository_CreateDuplicateName(t *testing.T) {
	s := newTestStore(t)
	seedSweet(t, s, "Laddu", "Indian", 30, 5)

	_, err := s.Sweets.Create(context.Background(), &domain.Sweet{Name: "Laddu", Category: "Other", Price: 1})
	assert.ErrorIs(t, err, domain.ErrSweetExists)
}

func TestSweetRepository_Search(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedSweet(t, s, "Gulab Jamun", "Indian", 50, 3)
	seedSweet(t, s, "Laddu", "Indian", 30, 5)
	seedSweet(t, s, "Chocolate Bar", "Chocolate", 20, 10)
	seedSweet(t, s, "100% Cocoa", "Chocolate", 80, 1)

	tests := []struct {
		name   string
		filter domain.SweetFilter
		want   []string
	}{
		{"all ordered by name", domain.SweetFilter{}, []string{"100% Cocoa", "Chocolate Bar", "Gulab Jamun", "Laddu"}},
		{"name any case", domain.SweetFilter{Name: "JAMUN"}, []string{"Gulab Jamun"}},
		{"percent is literal", domain.SweetFilter{Name: "%"}, []string{"100% Cocoa"}},
		{"category", domain.SweetFilter{Category: "Indian"}, []string{"Gulab Jamun", "Laddu"}},
		{"price range inclusive", domain.SweetFilter{MinPrice: fptr(20), MaxPrice: fptr(30)}, []string{"Chocolate Bar", "Laddu"}},
		{"no match", domain.SweetFilter{Name: "halwa"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Sweets.Search(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, sw := range got {
				names = append(names, sw.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSweetRepository_Update(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	laddu := seedSweet(t, s, "Laddu", "Indian", 30, 5)
	seedSweet(t, s, "Barfi", "Indian", 40, 2)

	price := 35.5
	updated, err := s.Sweets.Update(ctx, laddu.ID, domain.SweetPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 35.5, updated.Price)
	assert.Equal(t, "Laddu", updated.Name)
	assert.Equal(t, 5, updated.Quantity)

	taken := "Barfi"
	_, err = s.Sweets.Update(ctx, laddu.ID, domain.SweetPatch{Name: &taken})
	assert.ErrorIs(t, err, domain.ErrSweetExists)

	_, err = s.Sweets.Update(ctx, "missing", domain.SweetPatch{Price: &price})
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestSweetRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sw := seedSweet(t, s, "Laddu", "Indian", 30, 5)

	require.NoError(t, s.Sweets.Delete(ctx, sw.ID))
	assert.ErrorIs(t, s.Sweets.Delete(ctx, sw.ID), domain.ErrSweetNotFound)

	_, err := s.Sweets.FindByID(ctx, sw.ID)
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestSweetRepository_DecrementStopsAtZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sw := seedSweet(t, s, "Laddu", "Indian", 30, 3)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		oos  int
		errs []error
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Sweets.Decrement(ctx, sw.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrOutOfStock):
				oos++
			default:
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, 3, ok)
	assert.Equal(t, 5, oos)

	current, err := s.Sweets.FindByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.Quantity)

	_, err = s.Sweets.Decrement(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestSweetRepository_Increment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sw := seedSweet(t, s, "Laddu", "Indian", 30, 0)

	got, err := s.Sweets.Increment(ctx, sw.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	_, err = s.Sweets.Increment(ctx, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestStockEventRepository_ListBySweet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Events.Insert(ctx, &domain.StockEvent{SweetID: "s1", Kind: domain.StockRestocked, Delta: 5, Quantity: 5, Actor: "admin@x.com", At: base}))
	require.NoError(t, s.Events.Insert(ctx, &domain.StockEvent{SweetID: "s1", Kind: domain.StockPurchased, Delta: -1, Quantity: 4, Actor: "u@x.com", At: base.Add(time.Minute)}))
	require.NoError(t, s.Events.Insert(ctx, &domain.StockEvent{SweetID: "s2", Kind: domain.StockPurchased, Delta: -1, Quantity: 0, Actor: "u@x.com", At: base}))

	events, err := s.Events.ListBySweet(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.StockPurchased, events[0].Kind)
	assert.Equal(t, 4, events[0].Quantity)
	assert.Equal(t, domain.StockRestocked, events[1].Kind)
}

func TestStore_Ping(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
