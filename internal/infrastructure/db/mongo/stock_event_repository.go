package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

const collectionStockEvents = "stock_events"

// StockEventRepository implements ports.StockEventRepository using MongoDB.
type StockEventRepository struct {
	col *mongo.Collection
}

func NewStockEventRepository(db *mongo.Database) *StockEventRepository {
	return &StockEventRepository{col: db.Collection(collectionStockEvents)}
}

type mongoStockEvent struct {
	SweetID     string    `bson:"sweet_id"`
	Kind        string    `bson:"kind"`
	Delta       int       `bson:"delta"`
	Quantity    int       `bson:"quantity"`
	Actor       string    `bson:"actor"`
	At          time.Time `bson:"at"`
	ProcessedAt time.Time `bson:"processed_at"`
}

// Insert persists a stock movement to the ledger collection.
func (r *StockEventRepository) Insert(ctx context.Context, e *domain.StockEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, mongoStockEvent{
		SweetID:     e.SweetID,
		Kind:        string(e.Kind),
		Delta:       e.Delta,
		Quantity:    e.Quantity,
		Actor:       e.Actor,
		At:          e.At.UTC(),
		ProcessedAt: time.Now().UTC(),
	})
	return err
}

// ListBySweet returns the ledger of one sweet, newest first.
func (r *StockEventRepository) ListBySweet(ctx context.Context, sweetID string) ([]*domain.StockEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"sweet_id": sweetID}, options.Find().SetSort(bson.D{{Key: "at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*domain.StockEvent, 0)
	for cur.Next(ctx) {
		var m mongoStockEvent
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &domain.StockEvent{
			SweetID:  m.SweetID,
			Kind:     domain.StockEventKind(m.Kind),
			Delta:    m.Delta,
			Quantity: m.Quantity,
			Actor:    m.Actor,
			At:       m.At,
		})
	}
	return out, cur.Err()
}

func (r *StockEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sweet_id", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
