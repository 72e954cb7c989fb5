package ports

import (
	"context"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

// CreateSweetInput carries the fields of a new catalog item.
type CreateSweetInput struct {
	Name     string
	Category string
	Price    float64
	Quantity int
	ImageURL string
}

// PurchaseInput identifies a single-unit purchase.
type PurchaseInput struct {
	SweetID        string
	Actor          string
	IdempotencyKey string // optional
}

// SweetService defines catalog use cases.
type SweetService interface {
	Create(ctx context.Context, in CreateSweetInput) (*domain.Sweet, error)
	Get(ctx context.Context, id string) (*domain.Sweet, error)
	List(ctx context.Context) ([]*domain.Sweet, error)
	Search(ctx context.Context, filter domain.SweetFilter) ([]*domain.Sweet, error)
	Update(ctx context.Context, id string, patch domain.SweetPatch) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	Purchase(ctx context.Context, in PurchaseInput) (*domain.Sweet, error)
	Restock(ctx context.Context, id string, quantity int, actor string) (*domain.Sweet, error)
	History(ctx context.Context, id string) ([]*domain.StockEvent, error)
}

// StockEventSink accepts stock movements for asynchronous recording.
type StockEventSink interface {
	Enqueue(event domain.StockEvent)
}

// StockEventService records a single stock movement.
type StockEventService interface {
	Record(ctx context.Context, event domain.StockEvent) error
}
