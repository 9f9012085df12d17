package dialog

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// FileField is an image or document field of a form. Selecting a file shows
// a local preview at once; the entity field only changes when the upload
// succeeds.
type FileField[T any] struct {
	name    string
	target  func(*T) *string
	path    string
	preview string
}

func (ff *FileField[T]) Name() string { return ff.name }

// Select picks a local file. It fails when the file cannot be read.
func (ff *FileField[T]) Select(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("select %s: %w", ff.name, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("select %s: %w", ff.name, err)
	}
	if info.IsDir() {
		return fmt.Errorf("select %s: %s is a directory", ff.name, path)
	}
	ff.path = abs
	ff.preview = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	return nil
}

// Pending reports whether a selected file still has to be uploaded.
func (ff *FileField[T]) Pending() bool { return ff.path != "" }

// Preview returns the local preview URL, or "" with nothing selected.
func (ff *FileField[T]) Preview() string { return ff.preview }

// Display returns what the form shows for the field: the preview while a file
// is pending, the stored URL otherwise.
func (ff *FileField[T]) Display(values *T) string {
	if ff.preview != "" {
		return ff.preview
	}
	return *ff.target(values)
}

// Clear drops the selection and its preview.
func (ff *FileField[T]) Clear() {
	ff.path, ff.preview = "", ""
}

// Upload sends the selected file and writes the returned URL into values.
// The selection is consumed either way.
func (ff *FileField[T]) Upload(ctx context.Context, up Uploader, values *T) error {
	if !ff.Pending() {
		return nil
	}
	defer ff.Clear()
	if up == nil {
		return fmt.Errorf("upload %s: no uploader configured", ff.name)
	}

	f, err := os.Open(ff.path)
	if err != nil {
		return fmt.Errorf("upload %s: %w", ff.name, err)
	}
	defer f.Close()

	u, err := up.Upload(ctx, filepath.Base(ff.path), f)
	if err != nil {
		return err
	}
	*ff.target(values) = u
	return nil
}
