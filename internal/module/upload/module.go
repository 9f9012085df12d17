package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/folio/internal/config"
	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/pkg"
)

// Module exposes POST /admin/uploads and, for local storage, serves the
// stored files.
type Module struct {
	store Storage
	svc   *Service
}

// NewModule creates the upload module around store.
func NewModule(store Storage, cfg config.StorageConfig) *Module {
	return &Module{
		store: store,
		svc: NewService(store, Options{
			MaxBytes:    int64(cfg.MaxUploadMB) << 20,
			ResizeWidth: cfg.Local.ResizeWidth,
			JPEGQuality: cfg.Local.JPEGQuality,
		}),
	}
}

// Service returns the upload service.
func (m *Module) Service() *Service {
	return m.svc
}

// RegisterRoutes registers the admin upload endpoint.
func (m *Module) RegisterRoutes(_, admin, pages *gin.RouterGroup) {
	admin.POST("/uploads", m.upload)
	if local, ok := m.store.(*LocalStorage); ok {
		pages.Static(local.URLPrefix, local.Dir)
	}
}

func (m *Module) upload(c *gin.Context) {
	// Leave room for the multipart envelope around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, m.svc.opts.MaxBytes+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			pkg.Error(c, m.svc.tooLarge())
			return
		}
		pkg.Error(c, domain.NewValidationError(map[string]string{"file": "required"}))
		return
	}
	if header.Size > m.svc.opts.MaxBytes {
		pkg.Error(c, m.svc.tooLarge())
		return
	}

	f, err := header.Open()
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "could not open upload", err))
		return
	}
	defer f.Close()

	res, err := m.svc.Upload(c.Request.Context(), f)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, res)
}
