package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadTime is the estimated reading time of a blog, e.g. {5, "minutes"}.
type ReadTime struct {
	Value float64 `bson:"value" json:"value" binding:"required"`
	Unit  string  `bson:"unit" json:"unit" binding:"required"`
}

// Blog is a blog post. Authors are weak references into the authors collection;
// comments are embedded and only exist inside their blog.
type Blog struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title     string               `bson:"title" json:"title"`
	Text      string               `bson:"text" json:"text"`
	Category  string               `bson:"category" json:"category"`
	ReadTime  ReadTime             `bson:"readTime" json:"readTime"`
	Author    []primitive.ObjectID `bson:"author" json:"author"`
	Content   string               `bson:"content,omitempty" json:"content,omitempty"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`

	// Authors is filled by population on read endpoints, never persisted.
	Authors []AuthorSummary `bson:"-" json:"authors,omitempty"`
}

// Comment is a reader comment embedded in a blog.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Author    string             `bson:"author,omitempty" json:"author,omitempty"`
	Comment   string             `bson:"comment" json:"comment"`
	Rate      int                `bson:"rate,omitempty" json:"rate,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EmbeddedID returns the generated identifier of the comment.
func (c *Comment) EmbeddedID() primitive.ObjectID { return c.ID }

// SetEmbeddedID assigns the generated identifier of the comment.
func (c *Comment) SetEmbeddedID(id primitive.ObjectID) { c.ID = id }

// BlogUpdate is a partial update of a blog; nil fields are left untouched.
type BlogUpdate struct {
	Title    *string              `json:"title"`
	Text     *string              `json:"text"`
	Category *string              `json:"category"`
	ReadTime *ReadTime            `json:"readTime"`
	Author   []primitive.ObjectID `json:"author"`
	Content  *string              `json:"content"`
}
