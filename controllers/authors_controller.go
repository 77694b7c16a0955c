package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

// AuthorsController handles blog authors.
type AuthorsController struct {
	authors AuthorStore
}

// NewAuthorsController creates an AuthorsController.
func NewAuthorsController(authors AuthorStore) *AuthorsController {
	return &AuthorsController{authors: authors}
}

type authorRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	DateOfBirth string `json:"dateOfBirth"`
	Avatar      string `json:"avatar"`
}

// Create inserts an author and answers with its id.
func (c *AuthorsController) Create(ctx *gin.Context) {
	var req authorRequest
	if !bindJSON(ctx, &req) {
		return
	}
	var a models.Author
	if err := copier.Copy(&a, &req); err != nil {
		utils.Fail(ctx, utils.NewInternalError(err))
		return
	}
	id, err := c.authors.Create(ctx.Request.Context(), a)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, id)
}

// List returns all authors.
func (c *AuthorsController) List(ctx *gin.Context) {
	authors, err := c.authors.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, authors)
}

// Get returns one author.
func (c *AuthorsController) Get(ctx *gin.Context) {
	a, err := c.authors.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, a)
}

// Update applies a partial update to an author.
func (c *AuthorsController) Update(ctx *gin.Context) {
	var upd models.AuthorUpdate
	if !bindJSON(ctx, &upd) {
		return
	}
	a, err := c.authors.Update(ctx.Request.Context(), ctx.Param("id"), upd)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, a)
}

// Delete removes an author.
func (c *AuthorsController) Delete(ctx *gin.Context) {
	if err := c.authors.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.NoContent(ctx)
}
