package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

// BlogsController handles blog posts and their comments.
type BlogsController struct {
	blogs BlogStore
}

// NewBlogsController creates a BlogsController.
func NewBlogsController(blogs BlogStore) *BlogsController {
	return &BlogsController{blogs: blogs}
}

type blogRequest struct {
	Title    string               `json:"title" binding:"required"`
	Text     string               `json:"text"`
	Category string               `json:"category" binding:"required"`
	ReadTime *models.ReadTime     `json:"readTime" binding:"required"`
	Author   []primitive.ObjectID `json:"author"`
	Content  string               `json:"content"`
}

type commentRequest struct {
	Author  string `json:"author"`
	Comment string `json:"comment" binding:"required"`
	Rate    int    `json:"rate" binding:"omitempty,min=1,max=5"`
}

// Create inserts a blog and answers with its id.
func (c *BlogsController) Create(ctx *gin.Context) {
	var req blogRequest
	if !bindJSON(ctx, &req) {
		return
	}
	var b models.Blog
	if err := copier.Copy(&b, &req); err != nil {
		utils.Fail(ctx, utils.NewInternalError(err))
		return
	}
	b.ReadTime = *req.ReadTime

	id, err := c.blogs.Create(ctx.Request.Context(), b)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, id)
}

// List returns all blogs with author summaries.
func (c *BlogsController) List(ctx *gin.Context) {
	blogs, err := c.blogs.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, blogs)
}

// Get returns one blog with author summaries.
func (c *BlogsController) Get(ctx *gin.Context) {
	b, err := c.blogs.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, b)
}

// Update applies a partial update.
func (c *BlogsController) Update(ctx *gin.Context) {
	var upd models.BlogUpdate
	if !bindJSON(ctx, &upd) {
		return
	}
	b, err := c.blogs.Update(ctx.Request.Context(), ctx.Param("id"), upd)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, b)
}

// Delete removes a blog.
func (c *BlogsController) Delete(ctx *gin.Context) {
	if err := c.blogs.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.NoContent(ctx)
}

// Comments lists the comments of a blog, [] when there are none.
func (c *BlogsController) Comments(ctx *gin.Context) {
	comments, err := c.blogs.Comments(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, comments)
}

// Comment returns one comment.
func (c *BlogsController) Comment(ctx *gin.Context) {
	comment, err := c.blogs.Comment(ctx.Request.Context(), ctx.Param("id"), ctx.Param("commentId"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, comment)
}

// AddComment appends a comment and returns the blog.
func (c *BlogsController) AddComment(ctx *gin.Context) {
	comment, ok := bindComment(ctx)
	if !ok {
		return
	}
	b, err := c.blogs.AddComment(ctx.Request.Context(), ctx.Param("id"), comment)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, b)
}

// ReplaceComment overwrites a comment wherever it lives and returns its blog.
func (c *BlogsController) ReplaceComment(ctx *gin.Context) {
	comment, ok := bindComment(ctx)
	if !ok {
		return
	}
	b, err := c.blogs.ReplaceComment(ctx.Request.Context(), ctx.Param("commentId"), comment)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, b)
}

// RemoveComment pulls a comment and returns the blog.
func (c *BlogsController) RemoveComment(ctx *gin.Context) {
	b, err := c.blogs.RemoveComment(ctx.Request.Context(), ctx.Param("id"), ctx.Param("commentId"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, b)
}

func bindComment(ctx *gin.Context) (*models.Comment, bool) {
	var req commentRequest
	if !bindJSON(ctx, &req) {
		return nil, false
	}
	return &models.Comment{Author: req.Author, Comment: req.Comment, Rate: req.Rate}, true
}
