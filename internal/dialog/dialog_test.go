package dialog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/toast"
)

type call struct {
	method string
	id     string
	entity any
}

type fakeStore[T any] struct {
	calls []call
	err   error
}

func (s *fakeStore[T]) Create(_ context.Context, entity *T) (*T, error) {
	s.calls = append(s.calls, call{method: "create", entity: *entity})
	if s.err != nil {
		return nil, s.err
	}
	out := *entity
	return &out, nil
}

func (s *fakeStore[T]) Update(_ context.Context, id string, entity *T) (*T, error) {
	s.calls = append(s.calls, call{method: "update", id: id, entity: *entity})
	if s.err != nil {
		return nil, s.err
	}
	out := *entity
	return &out, nil
}

type fakeUploader struct {
	mu      sync.Mutex
	names   []string
	url     string
	err     error
	started chan struct{}
	release chan struct{}
}

func (u *fakeUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	u.mu.Lock()
	u.names = append(u.names, filename)
	u.mu.Unlock()
	if u.started != nil {
		close(u.started)
	}
	if u.release != nil {
		<-u.release
	}
	return u.url, u.err
}

type notes struct{ messages []string }

func (n *notes) Notify(_ context.Context, m string) { n.messages = append(n.messages, m) }

func tempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))
	return path
}

func TestForm_EmptyInstitutionBlocksCreate(t *testing.T) {
	store := &fakeStore[domain.Education]{}
	form := NewForm(Config[domain.Education]{Store: store})

	form.Open(nil)
	*form.Values() = domain.Education{Institution: "", Degree: "BSc", StartDate: "2019-09"}
	_, err := form.Submit(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, "required", form.Errors()["institution"])
	assert.Empty(t, store.calls)
	assert.Equal(t, Creating, form.Mode())
}

func TestForm_RequiredFieldsGate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*domain.Project)
		field string
	}{
		{"missing title", func(p *domain.Project) { p.Title = "" }, "title"},
		{"missing description", func(p *domain.Project) { p.Description = "" }, "description"},
		{"bad url", func(p *domain.Project) { p.LiveURL = "not a url" }, "liveUrl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore[domain.Project]{}
			form := NewForm(Config[domain.Project]{Store: store})
			form.Open(&domain.Project{Title: "Folio", Description: "site"})
			tt.edit(form.Values())

			_, err := form.Submit(context.Background())
			require.Error(t, err)
			assert.Contains(t, form.Errors(), tt.field)
			assert.Empty(t, store.calls)
		})
	}
}

func TestForm_EditRoundTrip(t *testing.T) {
	original := domain.Project{
		Title:       "Folio",
		Description: "portfolio site",
		Content:     "long text",
		Category:    "web",
		Tags:        []string{"go", "gin"},
		GithubURL:   "https://github.com/simp-lee/folio",
		Featured:    true,
		Visible:     true,
	}
	original.ID = "p-1"
	original.Order = 4

	store := &fakeStore[domain.Project]{}
	form := NewForm(Config[domain.Project]{Store: store})
	form.Open(&original)
	assert.Equal(t, Editing, form.Mode())

	saved, err := form.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, store.calls, 1)
	assert.Equal(t, "update", store.calls[0].method)
	assert.Equal(t, "p-1", store.calls[0].id)
	assert.Equal(t, original, store.calls[0].entity)
	assert.Equal(t, original, *saved)
	assert.Equal(t, Closed, form.Mode())
}

func TestForm_CreateUsesDefaults(t *testing.T) {
	store := &fakeStore[domain.Skill]{}
	n := &notes{}
	form := NewForm(Config[domain.Skill]{
		Store:    store,
		Notifier: n,
		Defaults: func() domain.Skill { return domain.Skill{Visible: true, Level: 50, Icon: domain.IconCode} },
	})

	form.Open(nil)
	form.Values().Name = "Go"
	form.Values().Category = "languages"
	_, err := form.Submit(context.Background())

	require.NoError(t, err)
	require.Len(t, store.calls, 1)
	got := store.calls[0].entity.(domain.Skill)
	assert.Equal(t, "create", store.calls[0].method)
	assert.True(t, got.Visible)
	assert.Equal(t, 50, got.Level)
	assert.Equal(t, []string{"Saved"}, n.messages)
}

func TestForm_RemoteFailureKeepsValues(t *testing.T) {
	store := &fakeStore[domain.Project]{err: &domain.AppError{
		Code: domain.CodeValidation, Message: "validation error", Fields: map[string]string{"title": "max=200"},
	}}
	n := &notes{}
	form := NewForm(Config[domain.Project]{Store: store, Notifier: n})
	form.Open(nil)
	form.Values().Title = "Folio"
	form.Values().Description = "site"

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, Creating, form.Mode())
	assert.Equal(t, "Folio", form.Values().Title)
	assert.Equal(t, map[string]string{"title": "max=200"}, form.Errors())
	assert.Equal(t, []string{"Could not save: validation error"}, n.messages)

	store.err = nil
	_, err = form.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.calls, 2)
}

func TestForm_SubmitClosed(t *testing.T) {
	form := NewForm(Config[domain.Project]{Store: &fakeStore[domain.Project]{}})
	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestFileField_PreviewThenServerURL(t *testing.T) {
	up := &fakeUploader{url: "/uploads/2026/04/cover.png", started: make(chan struct{}), release: make(chan struct{})}
	store := &fakeStore[domain.Project]{}
	form := NewForm(Config[domain.Project]{Store: store, Uploader: up})
	image := form.AddFile("image", func(p *domain.Project) *string { return &p.ImageURL })

	form.Open(nil)
	form.Values().Title = "Folio"
	form.Values().Description = "site"
	require.NoError(t, image.Select(tempImage(t)))

	preview := image.Preview()
	assert.True(t, strings.HasPrefix(preview, "file://"))
	assert.Equal(t, preview, image.Display(form.Values()), "preview shows before any upload")

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()
	<-up.started
	assert.Empty(t, store.calls, "entity waits for the upload")
	close(up.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"cover.png"}, up.names)
	require.Len(t, store.calls, 1)
	assert.Equal(t, "/uploads/2026/04/cover.png", store.calls[0].entity.(domain.Project).ImageURL)
	assert.False(t, image.Pending())
	assert.Empty(t, image.Preview())
}

func TestFileField_UploadErrorClearsPreview(t *testing.T) {
	up := &fakeUploader{err: domain.NewAppError(domain.CodeValidation, "validation error", nil)}
	store := &fakeStore[domain.GalleryImage]{}
	n := &notes{}
	form := NewForm(Config[domain.GalleryImage]{Store: store, Uploader: up, Notifier: n})
	image := form.AddFile("image", func(g *domain.GalleryImage) *string { return &g.ImageURL })

	form.Open(nil)
	form.Values().Title = "Sunset"
	require.NoError(t, image.Select(tempImage(t)))
	assert.Nil(t, form.Validate(), "a selected file satisfies a required URL")

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.calls)
	assert.Empty(t, image.Preview())
	assert.Empty(t, form.Values().ImageURL)
	assert.Equal(t, Creating, form.Mode())
	assert.Equal(t, []string{"Upload failed: validation error"}, n.messages)

	_, err = form.Submit(context.Background())
	assert.True(t, domain.IsValidation(err), "image is required again once the selection is gone")
}

func TestFileField_SelectMissingFile(t *testing.T) {
	form := NewForm(Config[domain.Project]{})
	image := form.AddFile("image", func(p *domain.Project) *string { return &p.ImageURL })

	assert.Error(t, image.Select(filepath.Join(t.TempDir(), "nope.png")))
	assert.Error(t, image.Select(t.TempDir()))
	assert.False(t, image.Pending())
}

type fakeDeleter struct {
	ids []string
	err error
}

func (d *fakeDeleter) Delete(_ context.Context, id string) error {
	d.ids = append(d.ids, id)
	return d.err
}

func project(id, title string) domain.Project {
	p := domain.Project{Title: title}
	p.ID = id
	return p
}

func TestDeleteGate_NothingBeforeConfirm(t *testing.T) {
	remote := &fakeDeleter{}
	gate := NewDeleteGate(remote, nil, func(p domain.Project) string { return p.Title })
	list := []domain.Project{project("1", "One"), project("2", "Two")}

	gate.Request(list[1])
	assert.Equal(t, `Delete "Two"? This cannot be undone.`, gate.Prompt())
	assert.Empty(t, remote.ids)

	gate.Cancel()
	_, ok := gate.Pending()
	assert.False(t, ok)
	got, err := gate.Confirm(context.Background(), list)
	assert.ErrorIs(t, err, ErrNoTarget)
	assert.Equal(t, list, got)
	assert.Empty(t, remote.ids)
}

func TestDeleteGate_Confirm(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
		want    []string
		note    string
	}{
		{"deleted", nil, false, []string{"1"}, "Deleted"},
		{"already gone", domain.NewAppError(domain.CodeNotFound, "project not found", nil), false, []string{"1"}, "Deleted"},
		{"server failure", errors.New("boom"), true, []string{"1", "2"}, "Could not delete: something went wrong, please try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeDeleter{err: tt.err}
			n := &notes{}
			gate := NewDeleteGate[domain.Project](remote, n, nil)
			list := []domain.Project{project("1", "One"), project("2", "Two")}

			gate.Request(list[1])
			assert.Equal(t, `Delete "2"? This cannot be undone.`, gate.Prompt())
			got, err := gate.Confirm(context.Background(), list)

			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, []string{"2"}, remote.ids)
			ids := make([]string, len(got))
			for i, p := range got {
				ids[i] = p.ID
			}
			assert.Equal(t, tt.want, ids)
			assert.Len(t, list, 2, "caller's list is not modified")
			assert.Equal(t, []string{tt.note}, n.messages)
			_, pending := gate.Pending()
			assert.Equal(t, tt.wantErr, pending)
		})
	}
}

var _ toast.Notifier = (*notes)(nil)
