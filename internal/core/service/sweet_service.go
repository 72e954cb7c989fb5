package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop/internal/api/metrics"
	"github.com/sweetshop/sweet-shop/internal/core/domain"
	"github.com/sweetshop/sweet-shop/internal/core/ports"
)

type SweetService struct {
	repo   ports.SweetRepository
	ledger ports.StockEventRepository
	dedup  ports.PurchaseDeduper
	sink   ports.StockEventSink
	logger zerolog.Logger
}

func NewSweetService(
	repo ports.SweetRepository,
	ledger ports.StockEventRepository,
	dedup ports.PurchaseDeduper,
	sink ports.StockEventSink,
	logger zerolog.Logger,
) *SweetService {
	return &SweetService{repo: repo, ledger: ledger, dedup: dedup, sink: sink, logger: logger}
}

// Create adds a sweet to the catalog. Names are unique.
func (s *SweetService) Create(ctx context.Context, in ports.CreateSweetInput) (*domain.Sweet, error) {
	now := time.Now().UTC()
	sweet := &domain.Sweet{
		Name:      in.Name,
		Category:  in.Category,
		Price:     in.Price,
		Quantity:  in.Quantity,
		ImageURL:  strings.TrimSpace(in.ImageURL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := sweet.Normalize(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, sweet)
	if err != nil {
		return nil, err
	}

	metrics.SweetsCreatedTotal.WithLabelValues(created.Category).Inc()
	s.logger.Info().Str("sweet_id", created.ID).Str("name", created.Name).Msg("sweet created")
	return created, nil
}

func (s *SweetService) Get(ctx context.Context, id string) (*domain.Sweet, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SweetService) List(ctx context.Context) ([]*domain.Sweet, error) {
	return s.repo.Search(ctx, domain.SweetFilter{})
}

func (s *SweetService) Search(ctx context.Context, filter domain.SweetFilter) ([]*domain.Sweet, error) {
	return s.repo.Search(ctx, filter)
}

// Update applies a partial change. An empty patch returns the current item.
func (s *SweetService) Update(ctx context.Context, id string, patch domain.SweetPatch) (*domain.Sweet, error) {
	if err := patch.Normalize(); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return s.repo.FindByID(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("sweet_id", id).Msg("sweet updated")
	return updated, nil
}

func (s *SweetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.StockLevel.DeleteLabelValues(id)
	s.logger.Info().Str("sweet_id", id).Msg("sweet deleted")
	return nil
}

// Purchase removes a single unit. A repeated idempotency key returns the
// current item without touching stock; the key of a failed attempt is released.
func (s *SweetService) Purchase(ctx context.Context, in ports.PurchaseInput) (*domain.Sweet, error) {
	var claimed string
	if in.IdempotencyKey != "" && s.dedup != nil {
		key := purchaseKey(in)
		seen, err := s.dedup.Claim(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("sweet_id", in.SweetID).Msg("dedup check failed, processing anyway")
		case seen:
			metrics.PurchaseDedupTotal.WithLabelValues("hit").Inc()
			s.logger.Debug().Str("sweet_id", in.SweetID).Str("idempotency_key", in.IdempotencyKey).Msg("duplicate purchase skipped")
			return s.repo.FindByID(ctx, in.SweetID)
		default:
			metrics.PurchaseDedupTotal.WithLabelValues("miss").Inc()
			claimed = key
		}
	}

	sweet, err := s.repo.Decrement(ctx, in.SweetID)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(resultLabel(err)).Inc()
		s.release(ctx, claimed)
		return nil, err
	}

	metrics.PurchasesTotal.WithLabelValues("success").Inc()
	s.emit(domain.StockEvent{
		SweetID:  sweet.ID,
		Kind:     domain.StockPurchased,
		Delta:    -1,
		Quantity: sweet.Quantity,
		Actor:    in.Actor,
		At:       time.Now().UTC(),
	})
	return sweet, nil
}

// Restock adds quantity units to an existing sweet.
func (s *SweetService) Restock(ctx context.Context, id string, quantity int, actor string) (*domain.Sweet, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	sweet, err := s.repo.Increment(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	metrics.RestockedUnitsTotal.Add(float64(quantity))
	s.emit(domain.StockEvent{
		SweetID:  sweet.ID,
		Kind:     domain.StockRestocked,
		Delta:    quantity,
		Quantity: sweet.Quantity,
		Actor:    actor,
		At:       time.Now().UTC(),
	})
	s.logger.Info().Str("sweet_id", id).Int("quantity", quantity).Msg("sweet restocked")
	return sweet, nil
}

// History returns the stock ledger of a sweet, newest first.
func (s *SweetService) History(ctx context.Context, id string) ([]*domain.StockEvent, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.ledger.ListBySweet(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return events, nil
}

// release frees an idempotency key whose purchase failed, so the client can
// retry with the same key.
func (s *SweetService) release(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.dedup.Release(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dedup release failed")
	}
}

func (s *SweetService) emit(event domain.StockEvent) {
	if s.sink == nil {
		return
	}
	s.sink.Enqueue(event)
}

func purchaseKey(in ports.PurchaseInput) string {
	return in.Actor + ":" + in.SweetID + ":" + in.IdempotencyKey
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, domain.ErrSweetNotFound):
		return "not_found"
	default:
		return "error"
	}
}
