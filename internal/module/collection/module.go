package collection

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/folio/internal/domain"
)

// Module registers the routes of one collection.
type Module[T any] struct {
	def     Definition[T]
	svc     domain.CollectionService[T]
	handler *Handler[T]
}

// New wires repository, service and handler for the entity type T.
func New[T any, P domain.OrderedPtr[T]](db *gorm.DB, def Definition[T]) *Module[T] {
	repo := NewRepository[T, P](db, def)
	return NewModule(def, NewService[T, P](repo, def))
}

// NewModule creates a Module around an existing service, which lets a caller
// decorate the generic service with collection-specific behaviour.
// Panics if svc is nil or the definition has no name.
func NewModule[T any](def Definition[T], svc domain.CollectionService[T]) *Module[T] {
	if svc == nil {
		panic("collection.NewModule: service must not be nil")
	}
	if def.Name == "" {
		panic("collection.NewModule: definition name must not be empty")
	}
	return &Module[T]{def: def, svc: svc, handler: NewHandler(svc)}
}

// Service returns the module's service.
func (m *Module[T]) Service() domain.CollectionService[T] {
	return m.svc
}

// Handler returns the module's REST handler.
func (m *Module[T]) Handler() *Handler[T] {
	return m.handler
}

// RegisterRoutes registers the public read routes (when the collection has
// a public column) and the admin CRUD, flag and reorder routes.
func (m *Module[T]) RegisterRoutes(api, admin, _ *gin.RouterGroup) {
	path := "/" + m.def.Name

	if m.def.PublicColumn != "" && api != nil {
		api.GET(path, m.handler.PublicList)
		api.GET(path+"/:id", m.handler.PublicGet)
	}

	if admin == nil {
		return
	}
	g := admin.Group(path)
	g.GET("", m.handler.List)
	g.POST("", m.handler.Create)
	g.PUT("/order", m.handler.Reorder)
	g.GET("/:id", m.handler.Get)
	g.PUT("/:id", m.handler.Update)
	g.PATCH("/:id/flags", m.handler.SetFlag)
	g.DELETE("/:id", m.handler.Delete)
}
