// Package docstore holds thin helpers over a MongoDB collection: list every
// document and insert one document built from a field map.
//
// Both helpers delegate to the driver and return its errors unchanged.
package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection captures the subset of *mongo.Collection used here.
type Collection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

var _ Collection = (*mongo.Collection)(nil)

var ErrNilCollection = errors.New("docstore: nil collection")

// ListAll returns a cursor over every document in natural order.
// The caller owns the cursor and must Close it.
func ListAll(ctx context.Context, coll Collection) (*mongo.Cursor, error) {
	if coll == nil {
		return nil, ErrNilCollection
	}
	return coll.Find(ctx, bson.D{})
}

// Insert adds one document holding exactly fields and returns its _id as
// assigned by the server or driver.
func Insert(ctx context.Context, coll Collection, fields map[string]any) (any, error) {
	if coll == nil {
		return nil, ErrNilCollection
	}
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}
