package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetshop/sweet-shop/internal/client"
)

// fakeAPI is a tiny in-memory stand-in for the Sweet Shop backend.
type fakeAPI struct {
	*httptest.Server

	mu        sync.Mutex
	roles     map[string]string // token -> role
	sweets    map[string]*client.Sweet
	purchases int
	queries   []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		roles: map[string]string{"tok-user": client.RoleUser, "tok-admin": client.RoleAdmin},
		sweets: map[string]*client.Sweet{
			"s1": {ID: "s1", Name: "Laddu", Category: "Indian", Price: 30, Quantity: 2},
			"s2": {ID: "s2", Name: "Barfi", Category: "Indian", Price: 40, Quantity: 0},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body["email"] {
		case "admin@shop.com":
			writeJSON(w, http.StatusOK, map[string]string{"token": "tok-admin", "email": body["email"], "role": "admin"})
		case "user@shop.com":
			writeJSON(w, http.StatusOK, map[string]string{"token": "tok-user", "email": body["email"], "role": "user"})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "wrong email or password"})
		}
	})
	mux.HandleFunc("POST /api/auth/logout", f.authed(func(w http.ResponseWriter, r *http.Request, token string) {
		f.mu.Lock()
		delete(f.roles, token)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/auth/me", f.authed(func(w http.ResponseWriter, r *http.Request, token string) {
		f.mu.Lock()
		role := f.roles[token]
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"email": "someone@shop.com", "role": role})
	}))
	mux.HandleFunc("GET /api/sweets", f.authed(func(w http.ResponseWriter, r *http.Request, _ string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, []client.Sweet{*f.sweets["s2"], *f.sweets["s1"]})
	}))
	mux.HandleFunc("GET /api/sweets/search", f.authed(func(w http.ResponseWriter, r *http.Request, _ string) {
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.RawQuery)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, []client.Sweet{})
	}))
	mux.HandleFunc("GET /api/sweets/{id}", f.authed(func(w http.ResponseWriter, r *http.Request, _ string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		s, ok := f.sweets[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sweet not found"})
			return
		}
		writeJSON(w, http.StatusOK, s)
	}))
	mux.HandleFunc("POST /api/sweets/{id}/purchase", f.authed(func(w http.ResponseWriter, r *http.Request, _ string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.purchases++
		s := f.sweets[r.PathValue("id")]
		if s.Quantity == 0 {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "out of stock"})
			return
		}
		s.Quantity--
		writeJSON(w, http.StatusOK, s)
	}))
	mux.HandleFunc("POST /api/sweets", f.authed(func(w http.ResponseWriter, r *http.Request, _ string) {
		var in client.NewSweet
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusCreated, client.Sweet{ID: "s3", Name: in.Name, Category: in.Category, Price: in.Price, Quantity: in.Quantity})
	}))

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

// authed rejects requests whose bearer token is unknown.
func (f *fakeAPI) authed(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		_, ok := f.roles[token]
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next(w, r, token)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type harness struct {
	api     *fakeAPI
	session string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return &harness{api: newFakeAPI(t), session: filepath.Join(home, ".sweetshop", "session.json")}
}

func (h *harness) run(args ...string) (string, error) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--server", h.api.URL, "--session-file", h.session}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) stored(t *testing.T) client.Session {
	t.Helper()
	s, err := client.NewFileStore(h.session).Get()
	require.NoError(t, err)
	return s
}

func TestCLI_GuardWithoutSession(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("list")
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.EqualError(t, err, `login required: run "sweetshop login"`)

	_, err = h.run("restock", "s1", "--quantity", "5")
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestCLI_LoginThenBrowse(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", "user@shop.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as user@shop.com (user)")
	assert.Equal(t, client.Session{Token: "tok-user", Role: client.RoleUser}, h.stored(t))

	out, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Laddu")
	assert.Contains(t, out, "sold out")

	_, err = h.run("add", "--name", "Halwa", "--category", "Indian", "--price", "12")
	assert.ErrorIs(t, err, ErrAdminRequired)
}

func TestCLI_AdminAdds(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("login", "--email", "admin@shop.com", "--password", "pw")
	require.NoError(t, err)

	out, err := h.run("add", "--name", "Halwa", "--category", "Indian", "--price", "12", "--quantity", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Halwa")
	assert.Contains(t, out, "12.00")
}

func TestCLI_PurchaseSoldOutSendsNothing(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("login", "--email", "user@shop.com", "--password", "pw")
	require.NoError(t, err)

	_, err = h.run("purchase", "s2")
	assert.ErrorIs(t, err, client.ErrOutOfStock)
	assert.Zero(t, h.api.purchases)

	out, err := h.run("purchase", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "purchased 1 x Laddu, 1 left")
	assert.Equal(t, 1, h.api.purchases)
}

func TestCLI_StaleAdminRoleIsCorrected(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, client.NewFileStore(h.session).Set("tok-user", client.RoleAdmin))

	_, err := h.run("add", "--name", "Halwa", "--category", "Indian", "--price", "12")
	assert.ErrorIs(t, err, ErrAdminRequired)
	assert.Equal(t, client.RoleUser, h.stored(t).Role)
}

func TestCLI_RevokedTokenClearsSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, client.NewFileStore(h.session).Set("tok-gone", client.RoleUser))

	_, err := h.run("list")
	assert.ErrorIs(t, err, ErrLoginRequired)

	_, statErr := os.Stat(h.session)
	assert.True(t, os.IsNotExist(statErr), "session file should be removed")
}

func TestCLI_Logout(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("login", "--email", "user@shop.com", "--password", "pw")
	require.NoError(t, err)

	out, err := h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")
	assert.False(t, h.stored(t).Authenticated())

	// the server no longer accepts the token either
	h.api.mu.Lock()
	_, ok := h.api.roles["tok-user"]
	h.api.mu.Unlock()
	assert.False(t, ok)
}

func TestCLI_SearchFlags(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("login", "--email", "user@shop.com", "--password", "pw")
	require.NoError(t, err)

	out, err := h.run("search", "--category", "Indian", "--min-price", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "no sweets found")

	_, err = h.run("search")
	require.NoError(t, err)

	assert.Equal(t, []string{"category=Indian&min_price=50", ""}, h.api.queries)
}

func TestCLI_WrongPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("login", "--email", "nobody@shop.com", "--password", "pw")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, h.stored(t).Authenticated())
}
