package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/wordpress"
)

func (h *Handler) ListBlogs(c *gin.Context) {
	opts := wordpress.ListPostsOptions{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	opts.Page, _ = strconv.Atoi(c.Query("page"))
	opts.PerPage, _ = strconv.Atoi(c.Query("per_page"))

	posts, err := h.blogs.List(c.Request.Context(), c.Query("website_url"), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BlogListResponse{Blogs: posts, Total: len(posts)})
}

func (h *Handler) CreateBlog(c *gin.Context) {
	var req models.BlogCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	post, err := h.blogs.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func blogID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		detail(c, http.StatusBadRequest, fmt.Sprintf("invalid blog id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

func (h *Handler) UpdateBlog(c *gin.Context) {
	id, ok := blogID(c)
	if !ok {
		return
	}
	var req models.BlogUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	post, err := h.blogs.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeleteBlog trashes a post; ?force=true deletes it permanently.
func (h *Handler) DeleteBlog(c *gin.Context) {
	id, ok := blogID(c)
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(c.Query("force"))

	if err := h.blogs.Delete(c.Request.Context(), id, c.Query("website_url"), force); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WebsiteResponse{
		Success: true,
		Message: fmt.Sprintf("Blog post %d deleted successfully", id),
	})
}
