package blog

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/module/collection"
)

// Module registers the post collection and the reader interaction routes.
type Module struct {
	posts   *collection.Module[domain.BlogPost]
	svc     domain.BlogService
	handler *Handler
}

// NewModule wires the blog repositories, service and handlers against db.
func NewModule(db *gorm.DB) *Module {
	postRepo := collection.NewRepository[domain.BlogPost](db, Posts)
	svc := NewService(collection.NewService[domain.BlogPost](postRepo, Posts), NewRepository(db))
	return &Module{
		posts:   collection.NewModule[domain.BlogPost](Posts, svc),
		svc:     svc,
		handler: NewHandler(svc),
	}
}

// Service returns the blog service.
func (m *Module) Service() domain.BlogService {
	return m.svc
}

// Models lists the entities this module persists, for migrations.
func Models() []any {
	return []any{&domain.BlogPost{}, &domain.Comment{}, &domain.PostLike{}}
}

// RegisterRoutes registers the post collection plus likes, shares, comments
// and comment moderation.
func (m *Module) RegisterRoutes(api, admin, pages *gin.RouterGroup) {
	m.posts.RegisterRoutes(api, admin, pages)

	api.GET("/posts/slug/:slug", m.handler.BySlug)
	api.GET("/posts/:id/comments", m.handler.Comments)
	api.POST("/posts/:id/comments", m.handler.AddComment)
	api.POST("/posts/:id/like", m.handler.Like)
	api.POST("/posts/:id/share", m.handler.Share)

	admin.GET("/comments", m.handler.ListComments)
	admin.PATCH("/comments/:id", m.handler.ModerateComment)
	admin.DELETE("/comments/:id", m.handler.DeleteComment)
}
