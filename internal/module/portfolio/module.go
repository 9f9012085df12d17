package portfolio

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/module/collection"
)

// Module bundles the portfolio collections.
type Module struct {
	Projects     *collection.Module[domain.Project]
	Education    *collection.Module[domain.Education]
	Experience   *collection.Module[domain.Experience]
	Skills       *collection.Module[domain.Skill]
	Gallery      *collection.Module[domain.GalleryImage]
	Testimonials *collection.Module[domain.Testimonial]
	Feedback     *collection.Module[domain.Feedback]

	feedback *FeedbackHandler
}

// NewModule wires every portfolio collection against db.
func NewModule(db *gorm.DB) *Module {
	m := &Module{
		Projects:     collection.New[domain.Project](db, Projects),
		Education:    collection.New[domain.Education](db, Education),
		Experience:   collection.New[domain.Experience](db, Experience),
		Skills:       collection.New[domain.Skill](db, Skills),
		Gallery:      collection.New[domain.GalleryImage](db, Gallery),
		Testimonials: collection.New[domain.Testimonial](db, Testimonials),
		Feedback:     collection.New[domain.Feedback](db, Feedback),
	}
	m.feedback = NewFeedbackHandler(m.Feedback.Service())
	return m
}

// Models lists the entities this module persists, for migrations.
func Models() []any {
	return []any{
		&domain.Project{},
		&domain.Education{},
		&domain.Experience{},
		&domain.Skill{},
		&domain.GalleryImage{},
		&domain.Testimonial{},
		&domain.Feedback{},
	}
}

// RegisterRoutes registers the routes of every portfolio collection and the
// public feedback form.
func (m *Module) RegisterRoutes(api, admin, pages *gin.RouterGroup) {
	m.Projects.RegisterRoutes(api, admin, pages)
	m.Education.RegisterRoutes(api, admin, pages)
	m.Experience.RegisterRoutes(api, admin, pages)
	m.Skills.RegisterRoutes(api, admin, pages)
	m.Gallery.RegisterRoutes(api, admin, pages)
	m.Testimonials.RegisterRoutes(api, admin, pages)
	m.Feedback.RegisterRoutes(api, admin, pages)

	api.POST("/feedback", m.feedback.Submit)
}
