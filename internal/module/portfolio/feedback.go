package portfolio

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/pkg"
)

// FeedbackRequest is the public feedback form.
type FeedbackRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=200"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Rating  int    `json:"rating" form:"rating" binding:"required,min=1,max=5"`
	Message string `json:"message" form:"message" binding:"required,max=5000"`
}

// FeedbackHandler accepts visitor feedback. Submissions wait for approval.
type FeedbackHandler struct {
	svc domain.CollectionService[domain.Feedback]
}

// NewFeedbackHandler creates a FeedbackHandler.
func NewFeedbackHandler(svc domain.CollectionService[domain.Feedback]) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Submit handles POST /api/v1/feedback.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req FeedbackRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	fb, err := h.svc.Create(c.Request.Context(), &domain.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Rating:  req.Rating,
		Message: req.Message,
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, gin.H{"id": fb.ID, "approved": fb.Approved})
}
