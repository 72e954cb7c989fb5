package ports

import (
	"context"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

// SweetRepository defines persistence operations for catalog items.
type SweetRepository interface {
	// Create returns domain.ErrSweetExists when the name is already used.
	Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error)
	FindByID(ctx context.Context, id string) (*domain.Sweet, error)
	// Search returns every sweet matching filter, ordered by name.
	Search(ctx context.Context, filter domain.SweetFilter) ([]*domain.Sweet, error)
	Update(ctx context.Context, id string, patch domain.SweetPatch) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	// Decrement removes one unit only when quantity > 0. It returns
	// domain.ErrOutOfStock when there is nothing left.
	Decrement(ctx context.Context, id string) (*domain.Sweet, error)
	Increment(ctx context.Context, id string, quantity int) (*domain.Sweet, error)
}

// StockEventRepository persists the stock ledger.
type StockEventRepository interface {
	Insert(ctx context.Context, event *domain.StockEvent) error
	ListBySweet(ctx context.Context, sweetID string) ([]*domain.StockEvent, error)
}

// PurchaseDeduper remembers purchase idempotency keys.
type PurchaseDeduper interface {
	// Claim records key and reports whether it was seen before.
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets key so a failed attempt can be retried.
	Release(ctx context.Context, key string) error
}
