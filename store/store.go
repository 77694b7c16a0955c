// Package store persists users, blogs and authors in MongoDB.
package store

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cppla/blogapi/utils"
)

const (
	UsersCollection   = "users"
	BlogsCollection   = "blogs"
	AuthorsCollection = "authors"
)

var (
	// ErrParentNotFound is the cause of a NotFound for the document owning an embedded array.
	ErrParentNotFound = errors.New("parent not found")
	// ErrEntityNotFound is the cause of a NotFound for a top-level document or an embedded element.
	ErrEntityNotFound = errors.New("entity not found")
)

// toObjectID parses a hex id from a path. Invalid ids are reported as !ok and
// callers treat them as "no such document".
func toObjectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func notFound(kind, id string, cause error) error {
	return utils.NewNotFoundError("%s with id %s not found!", kind, id).WithCause(cause)
}

// wrapWriteErr turns duplicate keys into Conflict and validation failures into BadRequest.
func wrapWriteErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewConflictError("Duplicate key").WithCause(err)
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			// DocumentValidationFailure
			if e.Code == 121 {
				return utils.NewBadRequestError("Document failed validation").WithCause(err)
			}
		}
	}
	return errors.Wrap(err, msg)
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// EnsureIndexes creates the lookup indexes used by the stores. Email is indexed
// but not unique; registration checks for duplicates itself.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "googleId", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "likeHistory._id", Value: 1}}},
		},
		BlogsCollection: {
			{Keys: bson.D{{Key: "comments._id", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		AuthorsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes on %s", coll)
		}
	}
	return nil
}
