package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop/internal/api/metrics"
	"github.com/sweetshop/sweet-shop/internal/core/domain"
	"github.com/sweetshop/sweet-shop/internal/core/ports"
)

type stockEventService struct {
	ledger ports.StockEventRepository
	log    zerolog.Logger
}

// NewStockEventService returns a StockEventService that writes to the ledger.
func NewStockEventService(ledger ports.StockEventRepository, log zerolog.Logger) ports.StockEventService {
	return &stockEventService{ledger: ledger, log: log}
}

// Record persists a single stock movement and updates the stock gauge.
func (s *stockEventService) Record(ctx context.Context, event domain.StockEvent) error {
	if event.SweetID == "" {
		metrics.StockEventsErrorsTotal.WithLabelValues("missing_sweet").Inc()
		return fmt.Errorf("record stock event: %w", domain.ErrSweetNotFound)
	}

	if err := s.ledger.Insert(ctx, &event); err != nil {
		metrics.StockEventsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("record stock event: %w", err)
	}

	metrics.StockEventsRecordedTotal.WithLabelValues(string(event.Kind)).Inc()
	metrics.StockLevel.WithLabelValues(event.SweetID).Set(float64(event.Quantity))

	s.log.Debug().
		Str("sweet_id", event.SweetID).
		Str("kind", string(event.Kind)).
		Int("delta", event.Delta).
		Str("actor", event.Actor).
		Msg("stock event recorded")
	return nil
}
