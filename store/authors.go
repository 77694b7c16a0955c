package store

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cppla/blogapi/models"
)

// Authors stores blog authors.
type Authors struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewAuthors binds the author store to db.
func NewAuthors(db *mongo.Database) *Authors {
	return &Authors{coll: db.Collection(AuthorsCollection), now: time.Now}
}

func authorNotFound(id string) error {
	return notFound("Author", id, ErrEntityNotFound)
}

// Create inserts an author and returns its id.
func (s *Authors) Create(ctx context.Context, a models.Author) (string, error) {
	a.ID = primitive.NilObjectID
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	res, err := s.coll.InsertOne(ctx, a)
	if err != nil {
		return "", wrapWriteErr(err, "insert author")
	}
	return hexOf(res.InsertedID), nil
}

// List returns all authors.
func (s *Authors) List(ctx context.Context) ([]models.Author, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "find authors")
	}
	authors := []models.Author{}
	if err := cur.All(ctx, &authors); err != nil {
		return nil, errors.Wrap(err, "decode authors")
	}
	return authors, nil
}

// FindByID returns the author with id.
func (s *Authors) FindByID(ctx context.Context, id string) (*models.Author, error) {
	oid, ok := toObjectID(id)
	if !ok {
		return nil, authorNotFound(id)
	}
	a := new(models.Author)
	err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, authorNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find author")
	}
	return a, nil
}

// Update applies a partial update and returns the new document.
func (s *Authors) Update(ctx context.Context, id string, upd models.AuthorUpdate) (*models.Author, error) {
	oid, ok := toObjectID(id)
	if !ok {
		return nil, authorNotFound(id)
	}
	set := bson.M{"updatedAt": s.now()}
	for key, v := range map[string]*string{
		"firstName":   upd.FirstName,
		"lastName":    upd.LastName,
		"email":       upd.Email,
		"dateOfBirth": upd.DateOfBirth,
		"avatar":      upd.Avatar,
	} {
		if v != nil {
			set[key] = *v
		}
	}

	a := new(models.Author)
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, authorNotFound(id)
	}
	if err != nil {
		return nil, wrapWriteErr(err, "update author")
	}
	return a, nil
}

// Delete removes the author with id. Blogs keep the dangling reference.
func (s *Authors) Delete(ctx context.Context, id string) error {
	oid, ok := toObjectID(id)
	if !ok {
		return authorNotFound(id)
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "delete author")
	}
	if res.DeletedCount == 0 {
		return authorNotFound(id)
	}
	return nil
}
