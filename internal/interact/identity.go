// Package interact holds the reader-side interactions with a post: a
// persistent pseudo-user identity, likes, comments, share links and copying
// the page link.
package interact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Identity is an opaque pseudo-user ID stored in a file. Anyone can reset or
// copy it, so it only deduplicates likes on a best-effort basis.
type Identity struct {
	path string

	mu sync.Mutex
	id string
}

// NewIdentity keeps the ID in the file at path.
func NewIdentity(path string) *Identity {
	return &Identity{path: path}
}

// DefaultIdentityPath is the per-user location of the ID file.
func DefaultIdentityPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "folio", "visitor-id"), nil
}

// ID returns the stored ID, creating and saving a new one on first use or
// when the file holds something that is not a UUID.
func (i *Identity) ID() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.id != "" {
		return i.id, nil
	}

	data, err := os.ReadFile(i.path)
	switch {
	case err == nil:
		if id, perr := uuid.Parse(strings.TrimSpace(string(data))); perr == nil {
			i.id = id.String()
			return i.id, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read identity: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(i.path), 0o700); err != nil {
		return "", fmt.Errorf("save identity: %w", err)
	}
	if err := os.WriteFile(i.path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("save identity: %w", err)
	}
	i.id = id
	return id, nil
}
