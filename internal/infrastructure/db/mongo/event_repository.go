package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

const collectionStopEvents = "stop_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	shipments *mongo.Collection
	events    *mongo.Collection
	now       func() time.Time
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		shipments: db.Collection(collectionShipments),
		events:    db.Collection(collectionStopEvents),
		now:       time.Now,
	}
}

// UpdateStopStatus sets the status of one transit stop in place. The filter
// requires the indexed stop to exist so a stale index cannot grow the array.
func (r *EventRepository) UpdateStopStatus(
	ctx context.Context,
	trackingNumber string,
	index int,
	status domain.StopStatus,
	ts time.Time,
) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	path := fmt.Sprintf("transit_stops.%d", index)
	filter := bson.M{
		"tracking_number": trackingNumber,
		path:              bson.M{"$exists": true},
	}
	update := bson.M{
		"$set": bson.M{
			path + ".status": string(status),
			"updated_at":     ts.UTC(),
		},
	}

	res, err := r.shipments.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}

// InsertEvent persists a stop event to the stop_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.StopEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"tracking_number": event.TrackingNumber,
		"stop_index":      event.StopIndex,
		"status":          string(event.Status),
		"timestamp":       event.Timestamp.UTC(),
		"source":          event.Source,
		"processed_at":    r.now().UTC(),
	}

	_, err := r.events.InsertOne(ctx, doc)
	return err
}

func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tracking_number", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("tracking_timeline"),
	})
	return err
}
