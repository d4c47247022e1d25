package storefront_repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	internal "storefront-service/internal"
)

// -------------------------------------------------------------------
// dtypes
// -------------------------------------------------------------------

// DataRepo_Store
// generic document-store collaborator over a Mongo database handle.
// A nil handle means the store was never configured; every operation
// then fails with ErrStoreUnavailable.
type DataRepo_Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *DataRepo_Store {
	return &DataRepo_Store{
		db: db,
	}
}

// -------------------------------------------------------------------

// -------------------------------------------------------------------
// handling requests
// -------------------------------------------------------------------

// counting documents in a collection
func (dr *DataRepo_Store) Count_Documents(ctx context.Context, collection string) (int64, error) {
	if dr.db == nil {
		return 0, internal.ErrStoreUnavailable
	}
	return dr.db.Collection(collection).CountDocuments(ctx, bson.M{})
}

// inserting a single document; the store assigns the identifier and the
// creation/update stamps
func (dr *DataRepo_Store) Insert_Document(ctx context.Context, collection string, doc map[string]any) (string, error) {
	if dr.db == nil {
		return "", internal.ErrStoreUnavailable
	}

	stamped := make(map[string]any, len(doc)+2)
	for k, v := range doc {
		stamped[k] = v
	}
	now := time.Now().UTC()
	stamped["created_at"] = now
	stamped["updated_at"] = now

	res, err := dr.db.Collection(collection).InsertOne(ctx, stamped)
	if err != nil {
		return "", err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}

// retrieving all documents in a collection, unfiltered, store order
func (dr *DataRepo_Store) Find_Documents(ctx context.Context, collection string) ([]map[string]any, error) {
	if dr.db == nil {
		return nil, internal.ErrStoreUnavailable
	}

	cursor, err := dr.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []map[string]any
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		docs = append(docs, normalize(raw))
	}

	return docs, cursor.Err()
}

// listing collection names, used by the diagnostics endpoint
func (dr *DataRepo_Store) List_Collections(ctx context.Context) ([]string, error) {
	if dr.db == nil {
		return nil, internal.ErrStoreUnavailable
	}
	return dr.db.ListCollectionNames(ctx, bson.M{})
}

// checking store connectivity
func (dr *DataRepo_Store) Ping(ctx context.Context) error {
	if dr.db == nil {
		return internal.ErrStoreUnavailable
	}
	return dr.db.Client().Ping(ctx, nil)
}

// -------------------------------------------------------------------

// normalize converts driver types to transport-friendly values: object ids
// become hex strings, stored dates become time.Time.
func normalize(raw bson.M) map[string]any {
	doc := make(map[string]any, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case primitive.ObjectID:
			doc[k] = val.Hex()
		case primitive.DateTime:
			doc[k] = val.Time().UTC()
		case primitive.A:
			doc[k] = []any(val)
		default:
			doc[k] = v
		}
	}
	return doc
}
