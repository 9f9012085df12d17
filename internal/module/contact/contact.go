// Package contact stores messages from the contact form and notifies the
// site owner.
package contact

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/module/collection"
	"github.com/simp-lee/folio/internal/pkg"
)

// Messages is the admin-only inbox. Messages never have public routes.
var Messages = collection.Definition[domain.ContactMessage]{
	Name:          "messages",
	Singular:      "message",
	FilterFields:  []string{"is_read", "email"},
	SearchColumns: []string{"name", "email", "subject", "message"},
	Flags:         map[string]string{"read": "is_read"},
	ReadOnly:      []string{"is_read"},
	Normalize: func(m *domain.ContactMessage) {
		m.Name = strings.TrimSpace(m.Name)
		m.Email = strings.ToLower(strings.TrimSpace(m.Email))
		m.Subject = strings.TrimSpace(m.Subject)
		m.Message = strings.TrimSpace(m.Message)
	},
}

// Request is the public contact form.
type Request struct {
	Name    string `json:"name" form:"name" binding:"required,max=200"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Subject string `json:"subject" form:"subject" binding:"max=300"`
	Message string `json:"message" form:"message" binding:"required,max=5000"`
}

// Service accepts contact form submissions.
type Service struct {
	messages domain.CollectionService[domain.ContactMessage]
	notifier domain.ContactNotifier
}

// NewService creates a Service. A nil notifier disables notifications.
func NewService(messages domain.CollectionService[domain.ContactMessage], notifier domain.ContactNotifier) *Service {
	return &Service{messages: messages, notifier: notifier}
}

// Submit stores the message as unread and notifies the owner. A failed
// notification is logged; the stored message is what counts.
func (s *Service) Submit(ctx context.Context, req *Request) (*domain.ContactMessage, error) {
	msg, err := s.messages.Create(ctx, &domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyContact(ctx, msg); err != nil {
			slog.WarnContext(ctx, "contact notification failed",
				slog.String("message_id", msg.ID),
				slog.Any("error", err),
			)
		}
	}
	return msg, nil
}

// Module wires the inbox collection and the public form.
type Module struct {
	inbox *collection.Module[domain.ContactMessage]
	svc   *Service
}

// NewModule creates the contact module.
func NewModule(db *gorm.DB, notifier domain.ContactNotifier) *Module {
	inbox := collection.New[domain.ContactMessage](db, Messages)
	return &Module{inbox: inbox, svc: NewService(inbox.Service(), notifier)}
}

// Service returns the submission service, used by the site pages.
func (m *Module) Service() *Service {
	return m.svc
}

// Models lists the entities this module persists, for migrations.
func Models() []any {
	return []any{&domain.ContactMessage{}}
}

// RegisterRoutes registers the admin inbox and POST /contact.
func (m *Module) RegisterRoutes(api, admin, pages *gin.RouterGroup) {
	m.inbox.RegisterRoutes(api, admin, pages)
	api.POST("/contact", m.submit)
}

func (m *Module) submit(c *gin.Context) {
	var req Request
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	msg, err := m.svc.Submit(c.Request.Context(), &req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, gin.H{"id": msg.ID})
}
