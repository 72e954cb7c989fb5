package client

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Access is the level a view requires.
type Access int

const (
	Public Access = iota
	RequiresAuth
	RequiresAdmin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case RequiresAuth:
		return "auth"
	case RequiresAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a navigation check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "login"
	case RedirectHome:
		return "home"
	default:
		return "unknown"
	}
}

// Decide is the pure access table.
func Decide(access Access, s Session) Decision {
	switch access {
	case Public:
		return Allow
	case RequiresAuth:
		if !s.Authenticated() {
			return RedirectLogin
		}
		return Allow
	case RequiresAdmin:
		if !s.Authenticated() {
			return RedirectLogin
		}
		if s.EffectiveRole() != RoleAdmin {
			return RedirectHome
		}
		return Allow
	default:
		return RedirectLogin
	}
}

// ClaimsVerifier asks the server who the current credential belongs to.
type ClaimsVerifier interface {
	Me(ctx context.Context) (Claims, error)
}

// Guard evaluates access on every navigation by re-reading the store.
type Guard struct {
	store    Store
	verifier ClaimsVerifier
	log      zerolog.Logger
}

type GuardOption func(*Guard)

// WithVerifier makes the guard revalidate credentials against the server and
// adopt the server-issued role.
func WithVerifier(v ClaimsVerifier) GuardOption {
	return func(g *Guard) { g.verifier = v }
}

func WithGuardLogger(log zerolog.Logger) GuardOption {
	return func(g *Guard) { g.log = log }
}

func NewGuard(store Store, opts ...GuardOption) *Guard {
	g := &Guard{store: store, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check decides whether a view with the given access may be entered.
// An error is returned only when revalidation could not reach a verdict.
func (g *Guard) Check(ctx context.Context, access Access) (Decision, error) {
	if access == Public {
		return Allow, nil
	}

	session, err := g.store.Get()
	if err != nil {
		g.log.Warn().Err(err).Msg("session unreadable, treating as logged out")
		session = Session{}
	}
	if !session.Authenticated() || g.verifier == nil {
		return Decide(access, session), nil
	}

	claims, err := g.verifier.Me(ctx)
	if errors.Is(err, ErrUnauthorized) {
		if err := g.store.Clear(); err != nil {
			g.log.Warn().Err(err).Msg("clearing rejected session failed")
		}
		return RedirectLogin, nil
	}
	if err != nil {
		return RedirectLogin, err
	}

	if claims.Role != session.Role {
		g.log.Debug().Str("stored", session.Role).Str("server", claims.Role).Msg("role refreshed from server")
		session.Role = claims.Role
		if err := g.store.Set(session.Token, session.Role); err != nil {
			g.log.Warn().Err(err).Msg("persisting refreshed role failed")
		}
	}
	return Decide(access, session), nil
}
