package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// DocumentCollection maps a document kind to its collection.
func DocumentCollection(kind domain.DocumentKind) string {
	switch kind {
	case domain.KindBill:
		return "bills"
	case domain.KindBilty:
		return "bilties"
	case domain.KindQuotation:
		return "quotations"
	case domain.KindReceipt:
		return "receipts"
	}
	return "documents"
}

// DocumentRepository stores one document kind. The collection is chosen from
// the kind reported by T.
type DocumentRepository[T any, PT domain.DocumentPtr[T]] struct {
	col *mongo.Collection
}

func NewDocumentRepository[T any, PT domain.DocumentPtr[T]](db *mongo.Database) *DocumentRepository[T, PT] {
	var zero T
	return &DocumentRepository[T, PT]{col: db.Collection(DocumentCollection(PT(&zero).Kind()))}
}

func (r *DocumentRepository[T, PT]) Create(ctx context.Context, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	PT(doc).Meta().ID = ""
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return documentWriteError(err)
	}
	PT(doc).Meta().ID = insertedHex(res)
	return nil
}

func (r *DocumentRepository[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Update replaces the stored body, keeping _id.
func (r *DocumentRepository[T, PT]) Update(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	oid, err := objectID(meta.ID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := meta.ID
	meta.ID = ""
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	meta.ID = id
	if err != nil {
		return documentWriteError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository[T, PT]) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// List returns the newest documents first.
func (r *DocumentRepository[T, PT]) List(ctx context.Context, page, limit int) ([]*T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items := make([]*T, 0, limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *DocumentRepository[T, PT]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

// documentWriteError maps a unique-number violation to its domain error.
func documentWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDocumentNumberExists
	}
	return err
}
