// Package client is the Sweet Shop API client: a persisted session, a
// bearer-token dispatcher, a route guard and typed catalog calls.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Sweet is a catalog item as returned by the API.
type Sweet struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Purchasable reports whether at least one unit is in stock.
func (s Sweet) Purchasable() bool { return s.Quantity > 0 }

// NewSweet carries the fields of a catalog addition.
type NewSweet struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"image_url,omitempty"`
}

// SweetUpdate is a partial update; nil fields are not sent.
type SweetUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	ImageURL *string  `json:"image_url,omitempty"`
}

func (u SweetUpdate) empty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.Quantity == nil && u.ImageURL == nil
}

type StockEvent struct {
	SweetID  string `json:"sweet_id"`
	Kind     string `json:"kind"`
	Delta    int    `json:"delta"`
	Quantity int    `json:"quantity"`
	Actor    string `json:"actor"`
	At       string `json:"at"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claims are the server's view of the current credential.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Client performs Sweet Shop API calls. Login and Logout are the only
// operations that write the session; any 401 on an authenticated call
// clears it.
type Client struct {
	dispatcher *Dispatcher
	store      Store
	log        zerolog.Logger
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	log        zerolog.Logger
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

func New(baseURL string, store Store, opts ...Option) *Client {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		dispatcher: NewDispatcher(baseURL, store, o.httpClient, o.log),
		store:      store,
		log:        o.log,
	}
}

// Store exposes the session store the client writes to.
func (c *Client) Store() Store { return c.store }

// do runs r and drops the session when an authenticated call comes back 401.
func (c *Client) do(ctx context.Context, r Request) error {
	err := c.dispatcher.Do(ctx, r)
	if errors.Is(err, ErrUnauthorized) {
		if session, _ := c.store.Get(); session.Authenticated() {
			c.log.Info().Str("path", r.Path).Msg("credential rejected, clearing session")
			if cerr := c.store.Clear(); cerr != nil {
				c.log.Warn().Err(cerr).Msg("session clear failed")
			}
		}
	}
	return err
}

func (c *Client) Register(ctx context.Context, email, password, adminKey string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, validationError("email and password are required")
	}

	body := map[string]string{"email": email, "password": password}
	if adminKey != "" {
		body["admin_key"] = adminKey
	}

	var u User
	err := c.dispatcher.Do(ctx, Request{Method: http.MethodPost, Path: "/api/auth/register", Body: body, Out: &u})
	return u, err
}

// Login authenticates and stores the returned credential and role.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, validationError("email and password are required")
	}

	var resp loginResponse
	err := c.dispatcher.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   map[string]string{"email": email, "password": password},
		Out:    &resp,
	})
	if err != nil {
		return Session{}, err
	}
	if resp.Token == "" {
		return Session{}, fmt.Errorf("login: server returned no token")
	}

	role := resp.Role
	if role == "" {
		role = RoleUser
	}
	if err := c.store.Set(resp.Token, role); err != nil {
		return Session{}, err
	}
	c.log.Info().Str("email", email).Str("role", role).Msg("logged in")
	return Session{Token: resp.Token, Role: role}, nil
}

// Logout asks the server to revoke the credential, then clears the session
// whatever the server answered.
func (c *Client) Logout(ctx context.Context) error {
	session, _ := c.store.Get()
	if session.Authenticated() {
		if err := c.dispatcher.Do(ctx, Request{Method: http.MethodPost, Path: "/api/auth/logout"}); err != nil {
			c.log.Warn().Err(err).Msg("server logout failed")
		}
	}
	return c.store.Clear()
}

// Me returns the server-issued claims for the current credential.
func (c *Client) Me(ctx context.Context) (Claims, error) {
	var claims Claims
	err := c.do(ctx, Request{Method: http.MethodGet, Path: "/api/auth/me", Out: &claims})
	return claims, err
}

func (c *Client) List(ctx context.Context) ([]Sweet, error) {
	var out []Sweet
	err := c.do(ctx, Request{Method: http.MethodGet, Path: "/api/sweets", Out: &out})
	return out, err
}

func (c *Client) Search(ctx context.Context, f Filter) ([]Sweet, error) {
	var out []Sweet
	err := c.do(ctx, Request{Method: http.MethodGet, Path: BuildSearchPath(f), Out: &out})
	return out, err
}

func (c *Client) Get(ctx context.Context, id string) (Sweet, error) {
	if id == "" {
		return Sweet{}, validationError("id is required")
	}
	var s Sweet
	err := c.do(ctx, Request{Method: http.MethodGet, Path: sweetPath(id), Out: &s})
	return s, err
}

// Purchase buys one unit of item. An item showing zero stock is refused
// without contacting the server.
func (c *Client) Purchase(ctx context.Context, item Sweet, idempotencyKey string) (Sweet, error) {
	if item.ID == "" {
		return Sweet{}, validationError("id is required")
	}
	if !item.Purchasable() {
		return Sweet{}, fmt.Errorf("%w: %s", ErrOutOfStock, item.Name)
	}

	var s Sweet
	r := Request{Method: http.MethodPost, Path: sweetPath(item.ID) + "/purchase", Out: &s}
	if idempotencyKey != "" {
		r.Header = http.Header{"Idempotency-Key": []string{idempotencyKey}}
	}

	err := c.do(ctx, r)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		apiErr.kind = ErrOutOfStock
	}
	if err != nil {
		return Sweet{}, err
	}
	return s, nil
}

func (c *Client) Create(ctx context.Context, in NewSweet) (Sweet, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	switch {
	case in.Name == "":
		return Sweet{}, validationError("name is required")
	case in.Category == "":
		return Sweet{}, validationError("category is required")
	case in.Price <= 0:
		return Sweet{}, validationError("price must be positive")
	case in.Quantity < 0:
		return Sweet{}, validationError("quantity must not be negative")
	}

	var s Sweet
	err := c.do(ctx, Request{Method: http.MethodPost, Path: "/api/sweets", Body: in, Out: &s})
	return s, err
}

func (c *Client) Update(ctx context.Context, id string, u SweetUpdate) (Sweet, error) {
	if id == "" {
		return Sweet{}, validationError("id is required")
	}
	if u.empty() {
		return Sweet{}, validationError("nothing to update")
	}
	if blank(u.Name) || blank(u.Category) {
		return Sweet{}, validationError("name and category must not be blank")
	}

	var s Sweet
	err := c.do(ctx, Request{Method: http.MethodPut, Path: sweetPath(id), Body: u, Out: &s})
	return s, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return validationError("id is required")
	}
	return c.do(ctx, Request{Method: http.MethodDelete, Path: sweetPath(id)})
}

func (c *Client) Restock(ctx context.Context, id string, quantity int) (Sweet, error) {
	if id == "" {
		return Sweet{}, validationError("id is required")
	}
	if quantity <= 0 {
		return Sweet{}, validationError("quantity must be positive")
	}

	var s Sweet
	path := sweetPath(id) + "/restock?quantity=" + strconv.Itoa(quantity)
	err := c.do(ctx, Request{Method: http.MethodPost, Path: path, Out: &s})
	return s, err
}

func (c *Client) History(ctx context.Context, id string) ([]StockEvent, error) {
	if id == "" {
		return nil, validationError("id is required")
	}
	var out []StockEvent
	err := c.do(ctx, Request{Method: http.MethodGet, Path: sweetPath(id) + "/history", Out: &out})
	return out, err
}

func blank(v *string) bool {
	return v != nil && strings.TrimSpace(*v) == ""
}

func sweetPath(id string) string {
	return "/api/sweets/" + url.PathEscape(id)
}
