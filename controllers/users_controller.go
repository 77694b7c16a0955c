package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"

	"github.com/cppla/blogapi/middleware"
	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

// UsersController handles registration, login, user administration and like history.
type UsersController struct {
	users  UserStore
	tokens *utils.TokenService
}

// NewUsersController creates a UsersController.
func NewUsersController(users UserStore, tokens *utils.TokenService) *UsersController {
	return &UsersController{users: users, tokens: tokens}
}

type registerRequest struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email" binding:"required,email"`
	Password  string          `json:"password" binding:"required"`
	Address   *models.Address `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type likeRequest struct {
	BlogID string `json:"blogId" binding:"required"`
}

// Register creates an account with role User and answers with its id.
func (c *UsersController) Register(ctx *gin.Context) {
	var req registerRequest
	if !bindJSON(ctx, &req) {
		return
	}

	var u models.User
	if err := copier.Copy(&u, &req); err != nil {
		utils.Fail(ctx, utils.NewInternalError(err))
		return
	}
	u.Role = models.RoleUser

	id, err := c.users.Register(ctx.Request.Context(), u)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, id)
}

// Login exchanges email and password for an access token.
func (c *UsersController) Login(ctx *gin.Context) {
	var req loginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	u, err := c.users.VerifyCredentials(ctx.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	if u == nil {
		utils.Fail(ctx, utils.NewUnauthorizedError("Credentials are not OK!"))
		return
	}

	token, err := c.tokens.Issue(utils.Identity{ID: u.ID.Hex(), Role: u.Role})
	if err != nil {
		utils.Fail(ctx, utils.NewInternalError(err))
		return
	}
	utils.Success(ctx, gin.H{"accessToken": token})
}

// List returns every user.
func (c *UsersController) List(ctx *gin.Context) {
	users, err := c.users.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, users)
}

// Me returns the profile of the caller.
func (c *UsersController) Me(ctx *gin.Context) {
	id, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Fail(ctx, utils.NewUnauthorizedError("Please provide credentials"))
		return
	}
	u, err := c.users.FindByID(ctx.Request.Context(), id.ID)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, u)
}

// Get returns one user.
func (c *UsersController) Get(ctx *gin.Context) {
	u, err := c.users.FindByID(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, u)
}

// Update applies a partial update; a password in the body is re-hashed.
func (c *UsersController) Update(ctx *gin.Context) {
	var upd models.UserUpdate
	if !bindJSON(ctx, &upd) {
		return
	}
	u, err := c.users.Update(ctx.Request.Context(), ctx.Param("userId"), upd)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, u)
}

// Delete removes a user.
func (c *UsersController) Delete(ctx *gin.Context) {
	if err := c.users.Delete(ctx.Request.Context(), ctx.Param("userId")); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.NoContent(ctx)
}

// AddLike records a snapshot of a blog in the user's like history.
func (c *UsersController) AddLike(ctx *gin.Context) {
	var req likeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	u, err := c.users.AddLike(ctx.Request.Context(), ctx.Param("userId"), req.BlogID)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, u)
}

// Likes lists the like history of a user.
func (c *UsersController) Likes(ctx *gin.Context) {
	likes, err := c.users.Likes(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, likes)
}

// Like returns one like history entry.
func (c *UsersController) Like(ctx *gin.Context) {
	like, err := c.users.Like(ctx.Request.Context(), ctx.Param("userId"), ctx.Param("entryId"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, like)
}

// RemoveLike pulls an entry from the like history and returns the user.
func (c *UsersController) RemoveLike(ctx *gin.Context) {
	u, err := c.users.RemoveLike(ctx.Request.Context(), ctx.Param("userId"), ctx.Param("entryId"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, u)
}
