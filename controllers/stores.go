package controllers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/store"
	"github.com/cppla/blogapi/utils"
)

// UserStore is the user persistence used by the user endpoints.
type UserStore interface {
	Register(ctx context.Context, u models.User) (string, error)
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
	FindOrCreateGoogle(ctx context.Context, p store.GoogleProfile) (*models.User, error)
	AddLike(ctx context.Context, userID, blogID string) (*models.User, error)
	Likes(ctx context.Context, userID string) ([]models.LikeEntry, error)
	Like(ctx context.Context, userID, entryID string) (*models.LikeEntry, error)
	RemoveLike(ctx context.Context, userID, entryID string) (*models.User, error)
}

// BlogStore is the blog persistence used by the blog and comment endpoints.
type BlogStore interface {
	Create(ctx context.Context, b models.Blog) (string, error)
	List(ctx context.Context) ([]models.Blog, error)
	FindByID(ctx context.Context, id string) (*models.Blog, error)
	Update(ctx context.Context, id string, upd models.BlogUpdate) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
	Page(ctx context.Context, q store.Query) ([]models.Blog, int64, error)
	AddComment(ctx context.Context, blogID string, c *models.Comment) (*models.Blog, error)
	Comments(ctx context.Context, blogID string) ([]models.Comment, error)
	Comment(ctx context.Context, blogID, commentID string) (*models.Comment, error)
	ReplaceComment(ctx context.Context, commentID string, c *models.Comment) (*models.Blog, error)
	RemoveComment(ctx context.Context, blogID, commentID string) (*models.Blog, error)
}

// AuthorStore is the author persistence used by the author endpoints.
type AuthorStore interface {
	Create(ctx context.Context, a models.Author) (string, error)
	List(ctx context.Context) ([]models.Author, error)
	FindByID(ctx context.Context, id string) (*models.Author, error)
	Update(ctx context.Context, id string, upd models.AuthorUpdate) (*models.Author, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ UserStore   = (*store.Users)(nil)
	_ BlogStore   = (*store.Blogs)(nil)
	_ AuthorStore = (*store.Authors)(nil)
)

// bindJSON decodes and validates the body, failing the request with 400 otherwise.
func bindJSON(ctx *gin.Context, v interface{}) bool {
	if err := ctx.ShouldBindJSON(v); err != nil {
		utils.Fail(ctx, utils.NewBadRequestError("%s", err.Error()).WithCause(err))
		return false
	}
	return true
}
