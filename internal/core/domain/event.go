package domain

import "time"

// StockEventKind identifies what changed a sweet's stock level.
type StockEventKind string

const (
	StockPurchased StockEventKind = "purchase"
	StockRestocked StockEventKind = "restock"
)

// StockEvent is a ledger entry for a single stock movement.
type StockEvent struct {
	SweetID  string         `json:"sweet_id"`
	Kind     StockEventKind `json:"kind"`
	Delta    int            `json:"delta"`
	Quantity int            `json:"quantity"` // stock level after the movement
	Actor    string         `json:"actor"`
	At       time.Time      `json:"at"`
}
