package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_Table(t *testing.T) {
	states := map[string]Session{
		"no credential":   {},
		"stale role only": {Role: RoleAdmin},
		"user":            {Token: "t", Role: RoleUser},
		"admin":           {Token: "t", Role: RoleAdmin},
		"no role":         {Token: "t"},
	}
	want := map[Access]map[string]Decision{
		Public: {"no credential": Allow, "stale role only": Allow, "user": Allow, "admin": Allow, "no role": Allow},
		RequiresAuth: {"no credential": RedirectLogin, "stale role only": RedirectLogin, "user": Allow, "admin": Allow,
			"no role": Allow},
		RequiresAdmin: {"no credential": RedirectLogin, "stale role only": RedirectLogin, "user": RedirectHome,
			"admin": Allow, "no role": RedirectHome},
	}

	for access, row := range want {
		for state, expected := range row {
			t.Run(access.String()+"/"+state, func(t *testing.T) {
				assert.Equal(t, expected, Decide(access, states[state]))
			})
		}
	}
}

type fakeVerifier struct {
	claims Claims
	err    error
	calls  int
}

func (f *fakeVerifier) Me(context.Context) (Claims, error) {
	f.calls++
	return f.claims, f.err
}

func TestGuard_RereadsStoreEachCheck(t *testing.T) {
	store := NewMemoryStore()
	g := NewGuard(store)
	ctx := context.Background()

	d, err := g.Check(ctx, RequiresAdmin)
	require.NoError(t, err)
	assert.Equal(t, RedirectLogin, d)

	require.NoError(t, store.Set("abc", RoleAdmin))
	d, err = g.Check(ctx, RequiresAdmin)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
}

func TestGuard_PublicSkipsVerifier(t *testing.T) {
	v := &fakeVerifier{err: ErrUnauthorized}
	d, err := NewGuard(NewMemoryStore(), WithVerifier(v)).Check(context.Background(), Public)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
	assert.Zero(t, v.calls)
}

func TestGuard_VerifierRejectsCredential(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("expired", RoleAdmin))

	v := &fakeVerifier{err: &APIError{Status: 401, kind: ErrUnauthorized}}
	d, err := NewGuard(store, WithVerifier(v)).Check(context.Background(), RequiresAuth)
	require.NoError(t, err)
	assert.Equal(t, RedirectLogin, d)

	s, _ := store.Get()
	assert.False(t, s.Authenticated(), "rejected session must be cleared")
}

func TestGuard_ServerRoleReplacesStoredRole(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("tok", RoleAdmin))

	v := &fakeVerifier{claims: Claims{Email: "a@b.com", Role: RoleUser}}
	d, err := NewGuard(store, WithVerifier(v)).Check(context.Background(), RequiresAdmin)
	require.NoError(t, err)
	assert.Equal(t, RedirectHome, d)

	s, _ := store.Get()
	assert.Equal(t, Session{Token: "tok", Role: RoleUser}, s)
}

func TestGuard_VerifierPromotesRole(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("tok", RoleUser))

	v := &fakeVerifier{claims: Claims{Role: RoleAdmin}}
	d, err := NewGuard(store, WithVerifier(v)).Check(context.Background(), RequiresAdmin)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
}

func TestGuard_VerifierUnreachable(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("tok", RoleAdmin))

	v := &fakeVerifier{err: errors.Join(ErrNetwork, errors.New("dial tcp: refused"))}
	_, err := NewGuard(store, WithVerifier(v)).Check(context.Background(), RequiresAuth)
	assert.ErrorIs(t, err, ErrNetwork)

	s, _ := store.Get()
	assert.True(t, s.Authenticated(), "network failures keep the session")
}
