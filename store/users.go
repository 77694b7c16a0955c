package store

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

// GoogleProfile is the subset of a Google account used to find or create a user.
type GoogleProfile struct {
	ID         string
	Email      string
	GivenName  string
	FamilyName string
}

// Users is the credential store and user repository.
type Users struct {
	coll  *mongo.Collection
	blogs *mongo.Collection
	cost  int
	now   func() time.Time
	likes *Embedded[models.User, models.LikeEntry, *models.LikeEntry]
}

// NewUsers binds the users store to db. cost is the bcrypt work factor.
func NewUsers(db *mongo.Database, cost int) *Users {
	coll := db.Collection(UsersCollection)
	return &Users{
		coll:  coll,
		blogs: db.Collection(BlogsCollection),
		cost:  cost,
		now:   time.Now,
		likes: NewEmbedded[models.User, models.LikeEntry](coll, "likeHistory", "User", "Like history entry",
			func(u *models.User) []models.LikeEntry { return u.LikeHistory }),
	}
}

// Register persists a new user with a hashed password and returns its id.
func (s *Users) Register(ctx context.Context, u models.User) (string, error) {
	u.Email = strings.TrimSpace(u.Email)
	err := s.coll.FindOne(ctx, bson.M{"email": u.Email}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return "", utils.NewConflictError("Email already in use")
	case !errors.Is(err, mongo.ErrNoDocuments):
		return "", errors.Wrap(err, "lookup email")
	}

	if u.Password != "" {
		if u.Password, err = utils.HashPassword(u.Password, s.cost); err != nil {
			return "", err
		}
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !u.Role.Valid() {
		return "", utils.NewBadRequestError("Role must be User or Admin")
	}
	if u.LikeHistory == nil {
		u.LikeHistory = []models.LikeEntry{}
	}
	u.ID = primitive.NilObjectID
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt

	res, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		return "", wrapWriteErr(err, "insert user")
	}
	return hexOf(res.InsertedID), nil
}

// VerifyCredentials returns the user matching email and password. A nil user with a
// nil error means the credentials did not match.
func (s *Users) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	u := new(models.User)
	err := s.coll.FindOne(ctx, bson.M{"email": strings.TrimSpace(email)}).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user by email")
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, nil
	}
	return u, nil
}

// List returns every user.
func (s *Users) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return users, nil
}

// FindByID returns the user with id.
func (s *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, ok := toObjectID(id)
	if !ok {
		return nil, notFound("User", id, ErrEntityNotFound)
	}
	u := new(models.User)
	err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("User", id, ErrEntityNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return u, nil
}

// Update applies a partial update. A new password is hashed before storage; other
// fields never touch the stored hash.
func (s *Users) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	oid, ok := toObjectID(id)
	if !ok {
		return nil, notFound("User", id, ErrEntityNotFound)
	}

	set := bson.M{"updatedAt": s.now()}
	if upd.FirstName != nil {
		set["firstName"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["lastName"] = *upd.LastName
	}
	if upd.Email != nil {
		set["email"] = strings.TrimSpace(*upd.Email)
	}
	if upd.Address != nil {
		set["address"] = upd.Address
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, utils.NewBadRequestError("Role must be User or Admin")
		}
		set["role"] = *upd.Role
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return nil, utils.NewBadRequestError("Password must not be empty")
		}
		hash, err := utils.HashPassword(*upd.Password, s.cost)
		if err != nil {
			return nil, err
		}
		set["password"] = hash
	}

	u := new(models.User)
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("User", id, ErrEntityNotFound)
	}
	if err != nil {
		return nil, wrapWriteErr(err, "update user")
	}
	return u, nil
}

// Delete removes the user with id.
func (s *Users) Delete(ctx context.Context, id string) error {
	oid, ok := toObjectID(id)
	if !ok {
		return notFound("User", id, ErrEntityNotFound)
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	if res.DeletedCount == 0 {
		return notFound("User", id, ErrEntityNotFound)
	}
	return nil
}

// FindOrCreateGoogle resolves a Google account to a user: by google id, then by email
// (linking the google id), else a new password-less user.
func (s *Users) FindOrCreateGoogle(ctx context.Context, p GoogleProfile) (*models.User, error) {
	u := new(models.User)
	err := s.coll.FindOne(ctx, bson.M{"googleId": p.ID}).Decode(u)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrap(err, "find user by google id")
	}

	if p.Email != "" {
		update := bson.M{"$set": bson.M{"googleId": p.ID, "updatedAt": s.now()}}
		err = s.coll.FindOneAndUpdate(ctx, bson.M{"email": p.Email}, update, afterUpdate()).Decode(u)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrap(err, "link google id")
		}
	}

	*u = models.User{
		FirstName:   p.GivenName,
		LastName:    p.FamilyName,
		Email:       p.Email,
		Role:        models.RoleUser,
		GoogleID:    p.ID,
		LikeHistory: []models.LikeEntry{},
		CreatedAt:   s.now(),
	}
	u.UpdatedAt = u.CreatedAt
	res, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		return nil, wrapWriteErr(err, "insert google user")
	}
	u.ID, _ = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// AddLike snapshots the title and category of blogID into the user's like history.
//
// This is two round trips: the blog is read first and the user written after, so a
// blog edited in between is recorded with its old title. The entry is a snapshot
// and is never refreshed anyway.
func (s *Users) AddLike(ctx context.Context, userID, blogID string) (*models.User, error) {
	boid, ok := toObjectID(blogID)
	if !ok {
		return nil, notFound("Blog", blogID, ErrEntityNotFound)
	}
	blog := new(models.Blog)
	opts := options.FindOne().SetProjection(bson.M{"_id": 0, "title": 1, "category": 1})
	err := s.blogs.FindOne(ctx, bson.M{"_id": boid}, opts).Decode(blog)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("Blog", blogID, ErrEntityNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find liked blog")
	}

	entry := new(models.LikeEntry)
	if err := copier.Copy(entry, blog); err != nil {
		return nil, errors.Wrap(err, "snapshot blog")
	}
	entry.LikeDate = s.now()
	return s.likes.Append(ctx, userID, entry)
}

// Likes returns the like history of a user.
func (s *Users) Likes(ctx context.Context, userID string) ([]models.LikeEntry, error) {
	return s.likes.List(ctx, userID)
}

// Like returns a single like history entry.
func (s *Users) Like(ctx context.Context, userID, entryID string) (*models.LikeEntry, error) {
	return s.likes.FindByID(ctx, userID, entryID)
}

// RemoveLike pulls a like history entry; a missing entry is not an error.
func (s *Users) RemoveLike(ctx context.Context, userID, entryID string) (*models.User, error) {
	return s.likes.Remove(ctx, userID, entryID)
}

func hexOf(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}
