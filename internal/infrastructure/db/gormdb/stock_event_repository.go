package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

type StockEventRepository struct {
	db *gorm.DB
}

func (r *StockEventRepository) Insert(ctx context.Context, e *domain.StockEvent) error {
	return r.db.WithContext(ctx).Create(&stockEventModel{
		SweetID:  e.SweetID,
		Kind:     string(e.Kind),
		Delta:    e.Delta,
		Quantity: e.Quantity,
		Actor:    e.Actor,
		At:       e.At.UTC(),
	}).Error
}

// ListBySweet returns the ledger of one sweet, newest first.
func (r *StockEventRepository) ListBySweet(ctx context.Context, sweetID string) ([]*domain.StockEvent, error) {
	var rows []stockEventModel
	err := r.db.WithContext(ctx).
		Where("sweet_id = ?", sweetID).
		Order("at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*domain.StockEvent, 0, len(rows))
	for _, m := range rows {
		out = append(out, &domain.StockEvent{
			SweetID:  m.SweetID,
			Kind:     domain.StockEventKind(m.Kind),
			Delta:    m.Delta,
			Quantity: m.Quantity,
			Actor:    m.Actor,
			At:       m.At,
		})
	}
	return out, nil
}
