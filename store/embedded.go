package store

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Element is implemented by pointers to embedded array elements.
type Element[C any] interface {
	*C
	EmbeddedID() primitive.ObjectID
	SetEmbeddedID(primitive.ObjectID)
}

// Embedded edits an array of C stored in field of parent documents P.
// Every mutation is a single atomic update of one parent document.
type Embedded[P any, C any, PC Element[C]] struct {
	coll       *mongo.Collection
	field      string
	items      func(*P) []C
	parentKind string
	childKind  string
	now        func() time.Time
}

// NewEmbedded binds an editor to coll. parentKind and childKind name the types in
// NotFound messages, e.g. "Blog" and "Comment".
func NewEmbedded[P any, C any, PC Element[C]](coll *mongo.Collection, field, parentKind, childKind string, items func(*P) []C) *Embedded[P, C, PC] {
	return &Embedded[P, C, PC]{
		coll:       coll,
		field:      field,
		items:      items,
		parentKind: parentKind,
		childKind:  childKind,
		now:        time.Now,
	}
}

func (e *Embedded[P, C, PC]) parentNotFound(id string) error {
	return notFound(e.parentKind, id, ErrParentNotFound)
}

func (e *Embedded[P, C, PC]) childNotFound(id string) error {
	return notFound(e.childKind, id, ErrEntityNotFound)
}

// Append assigns child an id when it has none, pushes it and returns the updated parent.
func (e *Embedded[P, C, PC]) Append(ctx context.Context, parentID string, child PC) (*P, error) {
	oid, ok := toObjectID(parentID)
	if !ok {
		return nil, e.parentNotFound(parentID)
	}
	if child.EmbeddedID().IsZero() {
		child.SetEmbeddedID(primitive.NewObjectID())
	}

	update := bson.M{
		"$push": bson.M{e.field: child},
		"$set":  bson.M{"updatedAt": e.now()},
	}
	parent := new(P)
	err := e.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, afterUpdate()).Decode(parent)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, e.parentNotFound(parentID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "push %s", e.field)
	}
	return parent, nil
}

// List returns the embedded array of a parent, never nil.
func (e *Embedded[P, C, PC]) List(ctx context.Context, parentID string) ([]C, error) {
	parent, err := e.parent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	items := e.items(parent)
	if items == nil {
		items = []C{}
	}
	return items, nil
}

// FindByID scans the parent's array for the element whose id matches childID.
func (e *Embedded[P, C, PC]) FindByID(ctx context.Context, parentID, childID string) (*C, error) {
	parent, err := e.parent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	items := e.items(parent)
	for i := range items {
		if PC(&items[i]).EmbeddedID().Hex() == childID {
			return &items[i], nil
		}
	}
	return nil, e.childNotFound(childID)
}

// Replace overwrites the element with childID in whichever parent holds it, keeping
// its id and array position.
func (e *Embedded[P, C, PC]) Replace(ctx context.Context, childID string, child PC) (*P, error) {
	oid, ok := toObjectID(childID)
	if !ok {
		return nil, e.childNotFound(childID)
	}
	child.SetEmbeddedID(oid)

	filter := bson.M{e.field + "._id": oid}
	update := bson.M{"$set": bson.M{
		e.field + ".$": child,
		"updatedAt":    e.now(),
	}}
	parent := new(P)
	err := e.coll.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(parent)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, e.childNotFound(childID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "replace %s element", e.field)
	}
	return parent, nil
}

// Remove pulls the element with childID from the parent. A missing element is not an
// error: the parent is returned as is. Only a missing parent yields NotFound.
func (e *Embedded[P, C, PC]) Remove(ctx context.Context, parentID, childID string) (*P, error) {
	oid, ok := toObjectID(parentID)
	if !ok {
		return nil, e.parentNotFound(parentID)
	}
	coid, ok := toObjectID(childID)
	if !ok {
		// cannot match any stored element
		return e.parent(ctx, parentID)
	}

	update := bson.M{"$pull": bson.M{e.field: bson.M{"_id": coid}}}
	parent := new(P)
	err := e.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, afterUpdate()).Decode(parent)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, e.parentNotFound(parentID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "pull %s", e.field)
	}
	return parent, nil
}

func (e *Embedded[P, C, PC]) parent(ctx context.Context, parentID string) (*P, error) {
	oid, ok := toObjectID(parentID)
	if !ok {
		return nil, e.parentNotFound(parentID)
	}
	parent := new(P)
	err := e.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(parent)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, e.parentNotFound(parentID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", e.parentKind)
	}
	return parent, nil
}
