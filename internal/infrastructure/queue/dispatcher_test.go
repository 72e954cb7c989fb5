package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.StockEvent
}

func (s *recordingService) Record(_ context.Context, e domain.StockEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingService) snapshot() []domain.StockEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.StockEvent, len(s.events))
	copy(out, s.events)
	return out
}

func TestDispatcher_PreservesPerSweetOrder(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(3, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 1; i <= 50; i++ {
		d.Enqueue(domain.StockEvent{SweetID: "a", Quantity: i})
		d.Enqueue(domain.StockEvent{SweetID: "b", Quantity: i})
	}

	cancel()
	d.Wait()

	last := map[string]int{}
	for _, e := range svc.snapshot() {
		if e.Quantity <= last[e.SweetID] {
			t.Fatalf("out of order for %s: %d after %d", e.SweetID, e.Quantity, last[e.SweetID])
		}
		last[e.SweetID] = e.Quantity
	}
	if last["a"] != 50 || last["b"] != 50 {
		t.Fatalf("expected all events recorded, got %+v", last)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("sweet-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("sweet-42"); got != first {
			t.Fatalf("shard index changed: %d vs %d", got, first)
		}
	}
}

func TestDispatcher_ProcessesWhileRunning(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(2, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.StockEvent{SweetID: "x", Kind: domain.StockRestocked, Delta: 5})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(svc.snapshot()) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("event was not processed")
}
