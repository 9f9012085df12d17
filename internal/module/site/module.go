// Package site renders the public pages: home, blog, project details,
// gallery and contact.
package site

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/folio/internal/config"
	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/module/contact"
)

// Deps are the services the pages read from.
type Deps struct {
	Site         config.SiteConfig
	Projects     domain.CollectionService[domain.Project]
	Education    domain.CollectionService[domain.Education]
	Experience   domain.CollectionService[domain.Experience]
	Skills       domain.CollectionService[domain.Skill]
	Gallery      domain.CollectionService[domain.GalleryImage]
	Testimonials domain.CollectionService[domain.Testimonial]
	Feedback     domain.CollectionService[domain.Feedback]
	Blog         domain.BlogService
	Contact      *contact.Service
}

// Module serves the public site.
type Module struct {
	d Deps
}

func NewModule(d Deps) *Module {
	return &Module{d: d}
}

// RegisterRoutes registers the HTML pages. Forms post back to the page group
// so they pass through the CSRF check.
func (m *Module) RegisterRoutes(_, _, pages *gin.RouterGroup) {
	pages.GET("/", m.home)
	pages.POST("/feedback", m.submitFeedback)

	pages.GET("/blog", m.blogList)
	pages.GET("/blog/:slug", m.blogPost)
	pages.POST("/blog/:slug/comments", m.submitComment)

	pages.GET("/projects/:id", m.project)
	pages.GET("/gallery", m.gallery)

	pages.GET("/contact", m.contactPage)
	pages.POST("/contact", m.submitContact)
}
