// Package dialog implements the admin create/edit form and the delete
// confirmation gate on top of a remote collection.
package dialog

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/pkg"
	"github.com/simp-lee/folio/internal/toast"
)

// ErrNotOpen is returned when submitting a form that is not open.
var ErrNotOpen = errors.New("dialog: form is not open")

// Store creates and updates entities remotely.
type Store[T any] interface {
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id string, entity *T) (*T, error)
}

// Mode is what a Form is doing.
type Mode int

const (
	Closed Mode = iota
	Creating
	Editing
)

// Config configures a Form.
type Config[T any] struct {
	Store    Store[T]
	Uploader Uploader
	Notifier toast.Notifier
	// Defaults fills a new entity in create mode.
	Defaults func() T
}

// Form edits one entity. It validates with the same binding tags the server
// uses before anything is sent.
type Form[T domain.Ordered] struct {
	cfg   Config[T]
	files []*FileField[T]

	mode   Mode
	id     string
	values T
	errs   map[string]string
}

// NewForm creates a closed form.
func NewForm[T domain.Ordered](cfg Config[T]) *Form[T] {
	return &Form[T]{cfg: cfg}
}

// AddFile binds a file field to the string field returned by target.
func (f *Form[T]) AddFile(name string, target func(*T) *string) *FileField[T] {
	ff := &FileField[T]{name: name, target: target}
	f.files = append(f.files, ff)
	return ff
}

// Open starts create mode for a nil entity and edit mode otherwise. In edit
// mode the form works on a copy of entity.
func (f *Form[T]) Open(entity *T) {
	f.errs = nil
	for _, ff := range f.files {
		ff.Clear()
	}
	if entity == nil {
		var zero T
		if f.cfg.Defaults != nil {
			zero = f.cfg.Defaults()
		}
		f.mode, f.id, f.values = Creating, "", zero
		return
	}
	f.mode, f.id, f.values = Editing, (*entity).GetID(), *entity
}

// Close abandons the form.
func (f *Form[T]) Close() {
	f.mode = Closed
	f.errs = nil
	for _, ff := range f.files {
		ff.Clear()
	}
}

func (f *Form[T]) Mode() Mode { return f.mode }

// Values returns the working copy for editing.
func (f *Form[T]) Values() *T { return &f.values }

// Errors returns the field errors of the last submit.
func (f *Form[T]) Errors() map[string]string { return f.errs }

// Validate checks the working copy. A file field with a selected file counts
// as filled.
func (f *Form[T]) Validate() map[string]string {
	candidate := f.values
	for _, ff := range f.files {
		if ff.Pending() {
			*ff.target(&candidate) = ff.Preview()
		}
	}
	if err := validate().Struct(&candidate); err != nil {
		if fields := pkg.FieldErrors(err, &candidate); fields != nil {
			return fields
		}
		return map[string]string{"form": err.Error()}
	}
	return nil
}

// Submit validates, uploads selected files, then creates or updates. The form
// closes only on success; on failure the values stay for another attempt.
func (f *Form[T]) Submit(ctx context.Context) (*T, error) {
	if f.mode == Closed {
		return nil, ErrNotOpen
	}
	if fields := f.Validate(); fields != nil {
		f.errs = fields
		return nil, domain.NewValidationError(fields)
	}
	f.errs = nil

	for _, ff := range f.files {
		if !ff.Pending() {
			continue
		}
		if err := ff.Upload(ctx, f.cfg.Uploader, &f.values); err != nil {
			toast.Send(ctx, f.cfg.Notifier, "Upload failed: "+toast.Message(err))
			return nil, err
		}
	}

	payload := f.values
	var (
		saved *T
		err   error
	)
	if f.mode == Editing {
		saved, err = f.cfg.Store.Update(ctx, f.id, &payload)
	} else {
		saved, err = f.cfg.Store.Create(ctx, &payload)
	}
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
			f.errs = appErr.Fields
		}
		slog.DebugContext(ctx, "form submit failed", slog.Any("error", err))
		toast.Send(ctx, f.cfg.Notifier, "Could not save: "+toast.Message(err))
		return nil, err
	}

	f.mode = Closed
	toast.Send(ctx, f.cfg.Notifier, "Saved")
	return saved, nil
}

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := domain.RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
})
