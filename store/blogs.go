package store

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

// Blogs stores blog posts and their embedded comments.
type Blogs struct {
	coll     *mongo.Collection
	authors  *mongo.Collection
	now      func() time.Time
	comments *Embedded[models.Blog, models.Comment, *models.Comment]
}

// NewBlogs binds the blog store to db.
func NewBlogs(db *mongo.Database) *Blogs {
	coll := db.Collection(BlogsCollection)
	return &Blogs{
		coll:    coll,
		authors: db.Collection(AuthorsCollection),
		now:     time.Now,
		comments: NewEmbedded[models.Blog, models.Comment](coll, "comments", "Blog", "Comment",
			func(b *models.Blog) []models.Comment { return b.Comments }),
	}
}

func blogNotFound(id string) error {
	return notFound("Blog", id, ErrEntityNotFound)
}

// render sanitizes given content, or renders it from the markdown text.
func render(b *models.Blog) {
	switch {
	case b.Content != "":
		b.Content = utils.Sanitize(b.Content)
	case b.Text != "":
		b.Content = utils.RenderMarkdown(b.Text)
	}
}

// Create inserts a blog and returns its id.
func (s *Blogs) Create(ctx context.Context, b models.Blog) (string, error) {
	b.ID = primitive.NilObjectID
	render(&b)
	if b.Author == nil {
		b.Author = []primitive.ObjectID{}
	}
	if b.Comments == nil {
		b.Comments = []models.Comment{}
	}
	for i := range b.Comments {
		if b.Comments[i].ID.IsZero() {
			b.Comments[i].ID = primitive.NewObjectID()
		}
	}
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt

	res, err := s.coll.InsertOne(ctx, b)
	if err != nil {
		return "", wrapWriteErr(err, "insert blog")
	}
	return hexOf(res.InsertedID), nil
}

// List returns all blogs with their author summaries.
func (s *Blogs) List(ctx context.Context) ([]models.Blog, error) {
	blogs, err := s.find(ctx, bson.M{}, options.Find())
	if err != nil {
		return nil, err
	}
	if err := s.Populate(ctx, blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// FindByID returns one blog with its author summaries.
func (s *Blogs) FindByID(ctx context.Context, id string) (*models.Blog, error) {
	oid, ok := toObjectID(id)
	if !ok {
		return nil, blogNotFound(id)
	}
	b := new(models.Blog)
	err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, blogNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find blog")
	}

	one := []models.Blog{*b}
	if err := s.Populate(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Update applies a partial update and returns the new document.
func (s *Blogs) Update(ctx context.Context, id string, upd models.BlogUpdate) (*models.Blog, error) {
	oid, ok := toObjectID(id)
	if !ok {
		return nil, blogNotFound(id)
	}

	set := bson.M{"updatedAt": s.now()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.ReadTime != nil {
		set["readTime"] = *upd.ReadTime
	}
	if upd.Author != nil {
		set["author"] = upd.Author
	}
	if upd.Content != nil {
		set["content"] = utils.Sanitize(*upd.Content)
	}
	if upd.Text != nil {
		set["text"] = *upd.Text
		if upd.Content == nil {
			set["content"] = utils.RenderMarkdown(*upd.Text)
		}
	}

	b := new(models.Blog)
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, blogNotFound(id)
	}
	if err != nil {
		return nil, wrapWriteErr(err, "update blog")
	}
	return b, nil
}

// Delete removes the blog with id together with its comments.
func (s *Blogs) Delete(ctx context.Context, id string) error {
	oid, ok := toObjectID(id)
	if !ok {
		return blogNotFound(id)
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "delete blog")
	}
	if res.DeletedCount == 0 {
		return blogNotFound(id)
	}
	return nil
}

// Page runs a listing query and returns one page plus the total matching count.
// The count ignores limit and skip.
func (s *Blogs) Page(ctx context.Context, q Query) ([]models.Blog, int64, error) {
	total, err := s.coll.CountDocuments(ctx, q.Criteria)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count blogs")
	}

	opts := options.Find().SetLimit(q.Limit).SetSkip(q.Skip)
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}
	blogs, err := s.find(ctx, q.Criteria, opts)
	if err != nil {
		return nil, 0, err
	}
	if err := s.Populate(ctx, blogs); err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

// Populate resolves the author ids of blogs into summaries with one extra query.
// Ids without a matching author are skipped.
func (s *Blogs) Populate(ctx context.Context, blogs []models.Blog) error {
	seen := map[primitive.ObjectID]struct{}{}
	ids := bson.A{}
	for _, b := range blogs {
		for _, id := range b.Author {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	opts := options.Find().SetProjection(bson.M{"firstName": 1, "lastName": 1})
	cur, err := s.authors.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return errors.Wrap(err, "find blog authors")
	}
	var found []models.AuthorSummary
	if err := cur.All(ctx, &found); err != nil {
		return errors.Wrap(err, "decode blog authors")
	}
	byID := make(map[primitive.ObjectID]models.AuthorSummary, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	for i := range blogs {
		blogs[i].Authors = []models.AuthorSummary{}
		for _, id := range blogs[i].Author {
			if a, ok := byID[id]; ok {
				blogs[i].Authors = append(blogs[i].Authors, a)
			}
		}
	}
	return nil
}

func (s *Blogs) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Blog, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find blogs")
	}
	blogs := []models.Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, errors.Wrap(err, "decode blogs")
	}
	return blogs, nil
}

// AddComment appends a comment to a blog and returns the blog.
func (s *Blogs) AddComment(ctx context.Context, blogID string, c *models.Comment) (*models.Blog, error) {
	c.Comment = utils.StripTags(c.Comment)
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	return s.comments.Append(ctx, blogID, c)
}

// Comments lists the comments of a blog.
func (s *Blogs) Comments(ctx context.Context, blogID string) ([]models.Comment, error) {
	return s.comments.List(ctx, blogID)
}

// Comment returns one comment of a blog.
func (s *Blogs) Comment(ctx context.Context, blogID, commentID string) (*models.Comment, error) {
	return s.comments.FindByID(ctx, blogID, commentID)
}

// ReplaceComment overwrites the comment with commentID in whichever blog holds it.
func (s *Blogs) ReplaceComment(ctx context.Context, commentID string, c *models.Comment) (*models.Blog, error) {
	c.Comment = utils.StripTags(c.Comment)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	c.UpdatedAt = s.now()
	return s.comments.Replace(ctx, commentID, c)
}

// RemoveComment pulls a comment from a blog; a missing comment is not an error.
func (s *Blogs) RemoveComment(ctx context.Context, blogID, commentID string) (*models.Blog, error) {
	return s.comments.Remove(ctx, blogID, commentID)
}
