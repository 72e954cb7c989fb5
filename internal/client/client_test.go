package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := NewMemoryStore()
	return New(srv.URL, store, WithHTTPClient(srv.Client())), store
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_LoginStoresSessionAndAdminAllowed(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "root@shop.com", body["email"])
		writeJSON(w, http.StatusOK, map[string]string{"token": "abc", "email": "root@shop.com", "role": "admin"})
	})

	s, err := c.Login(context.Background(), " root@shop.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "abc", Role: RoleAdmin}, s)

	stored, _ := store.Get()
	assert.Equal(t, s, stored)

	d, err := NewGuard(store).Check(context.Background(), RequiresAdmin)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
}

func TestClient_LoginFailureKeepsExistingSession(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "wrong email or password"})
	})
	require.NoError(t, store.Set("old", RoleUser))

	_, err := c.Login(context.Background(), "a@b.com", "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)

	s, _ := store.Get()
	assert.Equal(t, "old", s.Token)
}

func TestClient_LoginValidation(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&calls, 1) })

	_, err := c.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = c.Register(context.Background(), "a@b.com", "", "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_PurchaseRefusesEmptyStockLocally(t *testing.T) {
	var calls int32
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&calls, 1) })
	require.NoError(t, store.Set("tok", RoleUser))

	_, err := c.Purchase(context.Background(), Sweet{ID: "s1", Name: "Laddu", Quantity: 0}, "")
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Zero(t, atomic.LoadInt32(&calls), "no request may reach the server")
}

func TestClient_PurchaseConflictIsOutOfStock(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sweets/s1/purchase", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		writeJSON(w, http.StatusConflict, map[string]string{"error": "out of stock"})
	})
	require.NoError(t, store.Set("tok", RoleUser))

	_, err := c.Purchase(context.Background(), Sweet{ID: "s1", Quantity: 1}, "key-1")
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestClient_PurchaseSuccess(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, Sweet{ID: "s1", Name: "Laddu", Quantity: 2})
	})
	require.NoError(t, store.Set("tok", RoleUser))

	s, err := c.Purchase(context.Background(), Sweet{ID: "s1", Quantity: 3}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Quantity)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token revoked"})
	})
	require.NoError(t, store.Set("tok", RoleAdmin))

	_, err := c.List(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	s, _ := store.Get()
	assert.Equal(t, Session{}, s)
}

func TestClient_LogoutClearsEvenWhenServerFails(t *testing.T) {
	var calls int32
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.NoError(t, store.Set("tok", RoleUser))

	require.NoError(t, c.Logout(context.Background()))
	s, _ := store.Get()
	assert.False(t, s.Authenticated())
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// logged out: nothing to revoke
	require.NoError(t, c.Logout(context.Background()))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClient_SearchUsesBuiltPath(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "category=Indian&min_price=50", r.URL.RawQuery)
		writeJSON(w, http.StatusOK, []Sweet{{ID: "s1", Category: "Indian", Price: 60}})
	})
	require.NoError(t, store.Set("tok", RoleUser))

	got, err := c.Search(context.Background(), Filter{Category: "Indian", MinPrice: price(50)})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestClient_AdminCalls(t *testing.T) {
	var seen []string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		switch r.Method {
		case http.MethodPut:
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]any{"price": 12.5}, body)
			writeJSON(w, http.StatusOK, Sweet{ID: "s1", Price: 12.5})
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]string{"message": "sweet deleted"})
		default:
			writeJSON(w, http.StatusOK, Sweet{ID: "s1", Quantity: 10})
		}
	})
	require.NoError(t, store.Set("tok", RoleAdmin))
	ctx := context.Background()

	p := 12.5
	_, err := c.Update(ctx, "s1", SweetUpdate{Price: &p})
	require.NoError(t, err)
	got, err := c.Restock(ctx, "s1", 5)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	require.NoError(t, c.Delete(ctx, "s1"))

	assert.Equal(t, []string{
		"PUT /api/sweets/s1",
		"POST /api/sweets/s1/restock?quantity=5",
		"DELETE /api/sweets/s1",
	}, seen)
}

func TestClient_LocalValidationBlocksRequests(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&calls, 1) })
	ctx := context.Background()

	_, err := c.Update(ctx, "s1", SweetUpdate{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = c.Restock(ctx, "s1", 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = c.Create(ctx, NewSweet{Name: "Laddu", Price: 10})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, c.Delete(ctx, ""), ErrValidation)

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_CreateDuplicateIsConflict(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "sweet already exists"})
	})
	require.NoError(t, store.Set("tok", RoleAdmin))

	_, err := c.Create(context.Background(), NewSweet{Name: "Laddu", Category: "Indian", Price: 10, Quantity: 1})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestClient_UpdateBlankNameNotSent(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	require.NoError(t, store.Set("tok", RoleAdmin))

	blankName, blankCategory := "   ", ""
	_, err := c.Update(context.Background(), "s1", SweetUpdate{Name: &blankName})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = c.Update(context.Background(), "s1", SweetUpdate{Category: &blankCategory})
	assert.ErrorIs(t, err, ErrValidation)
}
