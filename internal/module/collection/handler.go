package collection

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/pkg"
)

// Handler serves the REST API of one collection.
type Handler[T any] struct {
	svc domain.CollectionService[T]
}

// NewHandler creates a Handler backed by svc.
func NewHandler[T any](svc domain.CollectionService[T]) *Handler[T] {
	return &Handler[T]{svc: svc}
}

// List handles GET /admin/{collection}.
func (h *Handler[T]) List(c *gin.Context) {
	h.list(c, false)
}

// PublicList handles GET /{collection}; hidden entities are left out.
func (h *Handler[T]) PublicList(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler[T]) list(c *gin.Context, visibleOnly bool) {
	req := pkg.ParsePageRequest(c)
	req.VisibleOnly = visibleOnly

	result, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Get handles GET /admin/{collection}/:id.
func (h *Handler[T]) Get(c *gin.Context) {
	h.get(c, false)
}

// PublicGet handles GET /{collection}/:id.
func (h *Handler[T]) PublicGet(c *gin.Context) {
	h.get(c, true)
}

func (h *Handler[T]) get(c *gin.Context, visibleOnly bool) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	entity, err := h.svc.Get(c.Request.Context(), id, visibleOnly)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, entity)
}

// Create handles POST /admin/{collection}.
func (h *Handler[T]) Create(c *gin.Context) {
	entity := new(T)
	if !pkg.BindAndValidate(c, entity) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), entity)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, created)
}

// Update handles PUT /admin/{collection}/:id.
func (h *Handler[T]) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	entity := new(T)
	if !pkg.BindAndValidate(c, entity) {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), id, entity)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, updated)
}

// SetFlag handles PATCH /admin/{collection}/:id/flags.
func (h *Handler[T]) SetFlag(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.FlagRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	updated, err := h.svc.SetFlag(c.Request.Context(), id, req.Flag, *req.Value)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, updated)
}

// Delete handles DELETE /admin/{collection}/:id.
func (h *Handler[T]) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// Reorder handles PUT /admin/{collection}/order.
func (h *Handler[T]) Reorder(c *gin.Context) {
	var req domain.ReorderRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), req.OrderedIDs); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, req)
}

// paramID reads the :id path parameter, replying 400 when it is blank.
func paramID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "id is required", nil))
		return "", false
	}
	return id, true
}
