package blog

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/pkg"
)

// Handler serves the post interaction and comment moderation API.
type Handler struct {
	svc domain.BlogService
}

// NewHandler creates a Handler backed by svc.
func NewHandler(svc domain.BlogService) *Handler {
	return &Handler{svc: svc}
}

// BySlug handles GET /api/v1/posts/slug/:slug.
func (h *Handler) BySlug(c *gin.Context) {
	post, err := h.svc.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, post)
}

// Comments handles GET /api/v1/posts/:id/comments.
func (h *Handler) Comments(c *gin.Context) {
	comments, err := h.svc.ApprovedComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, toPublicComments(comments))
}

// AddComment handles POST /api/v1/posts/:id/comments.
func (h *Handler) AddComment(c *gin.Context) {
	var req CommentRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), c.Param("id"), &domain.Comment{
		Name:    req.Name,
		Email:   req.Email,
		Website: req.Website,
		Body:    req.Comment,
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, toPublicComment(*comment))
}

// Like handles POST /api/v1/posts/:id/like.
func (h *Handler) Like(c *gin.Context) {
	var req LikeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	res, err := h.svc.ToggleLike(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, res)
}

// Share handles POST /api/v1/posts/:id/share.
func (h *Handler) Share(c *gin.Context) {
	res, err := h.svc.Share(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, res)
}

// ListComments handles GET /api/v1/admin/comments.
func (h *Handler) ListComments(c *gin.Context) {
	req := pkg.ParsePageRequest(c)
	// Translate the API's camelCase filter to the column name.
	if postID, ok := req.Filter["postId"]; ok {
		delete(req.Filter, "postId")
		req.Filter["post_id"] = postID
	}
	result, err := h.svc.ListComments(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// ModerateComment handles PATCH /api/v1/admin/comments/:id.
func (h *Handler) ModerateComment(c *gin.Context) {
	var req ModerateRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	comment, err := h.svc.ModerateComment(c.Request.Context(), c.Param("id"), *req.Approved)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, comment)
}

// DeleteComment handles DELETE /api/v1/admin/comments/:id.
func (h *Handler) DeleteComment(c *gin.Context) {
	if strings.TrimSpace(c.Param("id")) == "" {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "id is required", nil))
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}
