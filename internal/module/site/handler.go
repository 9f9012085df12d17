package site

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/interact"
	"github.com/simp-lee/folio/internal/middleware"
	"github.com/simp-lee/folio/internal/module/blog"
	"github.com/simp-lee/folio/internal/module/contact"
	"github.com/simp-lee/folio/internal/module/portfolio"
	"github.com/simp-lee/folio/internal/pkg"
)

const (
	homeSectionSize = 6
	recentPosts     = 3
)

// page returns the data every template expects.
func (m *Module) page(c *gin.Context, data gin.H) gin.H {
	data["Site"] = m.d.Site
	data["CSRFToken"] = middleware.GetCSRFToken(c)
	data["Path"] = c.Request.URL.Path
	return data
}

func (m *Module) home(c *gin.Context) {
	ctx := c.Request.Context()
	size := domain.PageRequest{PageSize: homeSectionSize}

	featured := size
	featured.Filter = map[string]string{"featured": "true"}
	posts := domain.PageRequest{PageSize: recentPosts, Sort: "published_at:desc"}

	c.HTML(http.StatusOK, "site/home.html", m.page(c, gin.H{
		"Projects":      loadSection(ctx, "projects", m.d.Projects, featured),
		"Experience":    loadSection(ctx, "experience", m.d.Experience, domain.PageRequest{PageSize: 50}),
		"Education":     loadSection(ctx, "education", m.d.Education, domain.PageRequest{PageSize: 50}),
		"Skills":        loadSection(ctx, "skills", m.d.Skills, domain.PageRequest{PageSize: 100}),
		"Testimonials":  loadSection(ctx, "testimonials", m.d.Testimonials, size),
		"Feedback":      loadSection(ctx, "feedback", m.d.Feedback, size),
		"Posts":         loadSection[domain.BlogPost](ctx, "posts", m.d.Blog, posts),
		"FeedbackFlash": c.Query("feedback"),
	}))
}

func (m *Module) submitFeedback(c *gin.Context) {
	var req portfolio.FeedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, "/?feedback=invalid#feedback")
		return
	}
	_, err := m.d.Feedback.Create(c.Request.Context(), &domain.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Rating:  req.Rating,
		Message: req.Message,
	})
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "store feedback failed", slog.Any("error", err))
		c.Redirect(http.StatusSeeOther, "/?feedback=failed#feedback")
		return
	}
	c.Redirect(http.StatusSeeOther, "/?feedback=thanks#feedback")
}

func (m *Module) blogList(c *gin.Context) {
	req := pkg.ParsePageRequest(c)
	if req.Sort == "" || req.Sort == "sort_order:asc" {
		req.Sort = "published_at:desc"
	}
	req.VisibleOnly = true

	res, err := m.d.Blog.List(c.Request.Context(), req)
	if err != nil {
		m.renderStatus(c, domain.HTTPStatusCode(err))
		return
	}
	c.HTML(http.StatusOK, "site/blog_list.html", m.page(c, gin.H{
		"Posts":      res.Items,
		"Pagination": res,
		"BaseURL":    "/blog",
	}))
}

// commentForm is what the comment form shows after a failed submission.
type commentForm struct {
	Values blog.CommentRequest
	Errors map[string]string
	Error  string
}

func (m *Module) blogPost(c *gin.Context) {
	m.renderPost(c, http.StatusOK, commentForm{})
}

func (m *Module) renderPost(c *gin.Context, status int, form commentForm) {
	ctx := c.Request.Context()
	post, err := m.d.Blog.GetPublishedBySlug(ctx, c.Param("slug"))
	if err != nil {
		m.renderStatus(c, domain.HTTPStatusCode(err))
		return
	}

	comments := loadList(ctx, "comments", func(ctx context.Context) ([]domain.Comment, error) {
		return m.d.Blog.ApprovedComments(ctx, post.ID)
	})
	pageURL := m.absoluteURL("/blog/" + post.Slug)
	c.HTML(status, "site/blog_post.html", m.page(c, gin.H{
		"Post":         post,
		"Comments":     comments,
		"Share":        interact.ShareLinks(pageURL, post.Title, post.Excerpt),
		"PageURL":      pageURL,
		"CommentForm":  form,
		"CommentFlash": c.Query("comment"),
	}))
}

func (m *Module) submitComment(c *gin.Context) {
	ctx := c.Request.Context()
	var req blog.CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		form := commentForm{Values: req, Errors: pkg.FieldErrors(err, &req)}
		if form.Errors == nil {
			form.Error = "Please check the form and try again."
		}
		m.renderPost(c, http.StatusBadRequest, form)
		return
	}

	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	post, err := m.d.Blog.GetPublishedBySlug(ctx, slug)
	if err != nil {
		m.renderStatus(c, domain.HTTPStatusCode(err))
		return
	}
	_, err = m.d.Blog.AddComment(ctx, post.ID, &domain.Comment{
		Name:    req.Name,
		Email:   req.Email,
		Website: req.Website,
		Body:    req.Comment,
	})
	if err != nil {
		m.renderPost(c, http.StatusOK, commentForm{
			Values: req,
			Error:  safePageErrorMessage(err, "Your comment could not be saved, please try again."),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/blog/"+url.PathEscape(post.Slug)+"?comment=pending#comments")
}

func (m *Module) project(c *gin.Context) {
	p, err := m.d.Projects.Get(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		m.renderStatus(c, domain.HTTPStatusCode(err))
		return
	}
	pageURL := m.absoluteURL("/projects/" + p.ID)
	c.HTML(http.StatusOK, "site/project.html", m.page(c, gin.H{
		"Project": p,
		"Share":   interact.ShareLinks(pageURL, p.Title, p.Description),
		"PageURL": pageURL,
	}))
}

func (m *Module) gallery(c *gin.Context) {
	req := pkg.ParsePageRequest(c)
	req.VisibleOnly = true

	res, err := m.d.Gallery.List(c.Request.Context(), req)
	if err != nil {
		m.renderStatus(c, domain.HTTPStatusCode(err))
		return
	}
	c.HTML(http.StatusOK, "site/gallery.html", m.page(c, gin.H{
		"Images":     res.Items,
		"Pagination": res,
		"BaseURL":    "/gallery",
		"Category":   req.Filter["category"],
	}))
}

// contactForm is the state of the contact page.
type contactForm struct {
	Values contact.Request
	Errors map[string]string
	Error  string
	Sent   bool
}

func (m *Module) contactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "site/contact.html", m.page(c, gin.H{
		"Form": contactForm{Sent: c.Query("sent") == "1"},
	}))
}

func (m *Module) submitContact(c *gin.Context) {
	var req contact.Request
	if err := c.ShouldBind(&req); err != nil {
		form := contactForm{Values: req, Errors: pkg.FieldErrors(err, &req)}
		if form.Errors == nil {
			form.Error = "Please check the form and try again."
		}
		c.HTML(http.StatusBadRequest, "site/contact.html", m.page(c, gin.H{"Form": form}))
		return
	}
	if _, err := m.d.Contact.Submit(c.Request.Context(), &req); err != nil {
		c.HTML(http.StatusOK, "site/contact.html", m.page(c, gin.H{"Form": contactForm{
			Values: req,
			Error:  safePageErrorMessage(err, "Your message could not be sent, please try again."),
		}}))
		return
	}
	c.Redirect(http.StatusSeeOther, "/contact?sent=1")
}

func (m *Module) renderStatus(c *gin.Context, code int) {
	tmpl := "errors/500.html"
	switch code {
	case http.StatusNotFound:
		tmpl = "errors/404.html"
	case http.StatusBadRequest:
		tmpl = "errors/400.html"
	default:
		code = http.StatusInternalServerError
	}
	c.HTML(code, tmpl, gin.H{"Site": m.d.Site})
}

func (m *Module) absoluteURL(path string) string {
	return strings.TrimRight(m.d.Site.BaseURL, "/") + path
}

// safePageErrorMessage returns the message of user-facing errors only.
func safePageErrorMessage(err error, fallback string) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		switch appErr.Code {
		case domain.CodeNotFound, domain.CodeAlreadyExists, domain.CodeValidation:
			return appErr.Message
		}
	}
	return fallback
}
