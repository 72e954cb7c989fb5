package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

func TestStockEventService_Record(t *testing.T) {
	ledger := &stubLedger{}
	svc := NewStockEventService(ledger, zerolog.Nop())

	ev := domain.StockEvent{
		SweetID:  "s1",
		Kind:     domain.StockPurchased,
		Delta:    -1,
		Quantity: 9,
		Actor:    "u@example.com",
		At:       time.Now().UTC(),
	}
	if err := svc.Record(context.Background(), ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(ledger.events) != 1 || ledger.events[0].Quantity != 9 {
		t.Fatalf("expected event to be persisted, got %+v", ledger.events)
	}
}

func TestStockEventService_Record_MissingSweet(t *testing.T) {
	ledger := &stubLedger{}
	svc := NewStockEventService(ledger, zerolog.Nop())

	err := svc.Record(context.Background(), domain.StockEvent{Kind: domain.StockRestocked})
	if !errors.Is(err, domain.ErrSweetNotFound) {
		t.Fatalf("expected ErrSweetNotFound, got %v", err)
	}
	if len(ledger.events) != 0 {
		t.Fatalf("nothing should be persisted")
	}
}

func TestStockEventService_Record_InsertFails(t *testing.T) {
	boom := errors.New("insert failed")
	svc := NewStockEventService(&stubLedger{err: boom}, zerolog.Nop())

	err := svc.Record(context.Background(), domain.StockEvent{SweetID: "s1", Kind: domain.StockRestocked, Delta: 2})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
}
