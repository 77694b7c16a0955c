package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role gates admin-only routes.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a blog reader account. Passwords are stored as bcrypt hashes only and never
// leave the store: Password, CreatedAt and UpdatedAt are excluded from JSON.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"`
	Role        Role               `bson:"role" json:"role"`
	GoogleID    string             `bson:"googleId,omitempty" json:"googleId,omitempty"`
	Address     *Address           `bson:"address,omitempty" json:"address,omitempty"`
	LikeHistory []LikeEntry        `bson:"likeHistory" json:"likeHistory"`
	CreatedAt   time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"-"`
}

// Address is the optional postal address of a user.
type Address struct {
	Street string `bson:"street,omitempty" json:"street,omitempty"`
	Number int    `bson:"number,omitempty" json:"number,omitempty"`
}

// LikeEntry is a snapshot of a liked blog taken when the like happened.
// It is not kept in sync with the blog afterwards.
type LikeEntry struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Title    string             `bson:"title" json:"title"`
	Category string             `bson:"category" json:"category"`
	LikeDate time.Time          `bson:"likeDate" json:"likeDate"`
}

// EmbeddedID returns the generated identifier of the entry.
func (e *LikeEntry) EmbeddedID() primitive.ObjectID { return e.ID }

// SetEmbeddedID assigns the generated identifier of the entry.
func (e *LikeEntry) SetEmbeddedID(id primitive.ObjectID) { e.ID = id }

// UserUpdate is a partial update of a user; nil fields are left untouched.
type UserUpdate struct {
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Email     *string  `json:"email"`
	Password  *string  `json:"password"`
	Role      *Role    `json:"role"`
	Address   *Address `json:"address"`
}
