package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
	"github.com/sweetshop/sweet-shop-api/internal/core/ports"
)

const ledgerCollection = "stock_events"

// LedgerRepository implements ports.LedgerRepository using MongoDB.
type LedgerRepository struct {
	coll *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) ports.LedgerRepository {
	return &LedgerRepository{coll: db.Collection(ledgerCollection)}
}

// InsertEvent appends a stock mutation to the audit collection.
func (r *LedgerRepository) InsertEvent(ctx context.Context, event *domain.StockEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"sweet_id":    event.SweetID,
		"kind":        string(event.Kind),
		"quantity":    event.Quantity,
		"actor":       event.Actor,
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
