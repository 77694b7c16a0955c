package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/store"
	"github.com/cppla/blogapi/utils"
)

// ListingController serves the paged, filterable blog listing.
type ListingController struct {
	blogs   BlogStore
	baseURL string
}

// NewListingController creates a ListingController; baseURL prefixes navigation links.
func NewListingController(blogs BlogStore, baseURL string) *ListingController {
	return &ListingController{blogs: blogs, baseURL: strings.TrimRight(baseURL, "/")}
}

type pageResponse struct {
	Links      store.Links   `json:"links"`
	Total      int64         `json:"total"`
	TotalPages int64         `json:"totalPages"`
	Blogs      []models.Blog `json:"blogs"`
}

// Page translates the query string into a store query and returns one page.
func (c *ListingController) Page(ctx *gin.Context) {
	q, err := store.ParseQuery(ctx.Request.URL.RawQuery)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	blogs, total, err := c.blogs.Page(ctx.Request.Context(), q)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, pageResponse{
		Links:      q.Links(c.baseURL+ctx.Request.URL.Path, total),
		Total:      total,
		TotalPages: q.TotalPages(total),
		Blogs:      blogs,
	})
}
