package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/xid"
	"github.com/spf13/afero"
)

// Store writes validated cover images into a single storage directory.
//
// WHY afero.Fs AND NOT os DIRECTLY?
// The filesystem is injected, so tests run against afero.NewMemMapFs() with
// no temp-dir setup, and the production wiring passes a BasePathFs rooted at
// the upload directory. A BasePathFs also acts as a jail: even a sanitizer
// bug can't write outside its root.
//
// COLLISION POLICY (rename-on-conflict):
// Two users uploading "cover.png" is an everyday event, not an error, and
// silently overwriting would corrupt the first user's review. When the
// sanitized name already exists, the new file is stored as
// "cover-<xid>.png" and THAT name is what the review row references.
type Store struct {
	fs afero.Fs
}

// NewStore creates a Store over the given filesystem. Callers pass a
// filesystem already rooted at the upload directory.
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// Save writes the uploaded content under the sanitized form of
// originalName and returns the name actually used, which differs from the
// sanitized name only when a collision forced a rename.
//
// The write is not atomic with anything else — the review service decides
// ordering (it writes the file first, then the database row).
func (s *Store) Save(originalName string, content io.Reader) (string, error) {
	f, name, err := s.createExclusive(Sanitize(originalName))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		// Best effort: don't leave a truncated file behind.
		s.fs.Remove(name)
		return "", fmt.Errorf("upload: writing %q: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("upload: closing %q: %w", name, err)
	}

	return name, nil
}

// createExclusive opens name with O_EXCL so the existence check and the
// create are a single filesystem operation. A check-then-create pair would
// let two concurrent uploads of the same name both pass the check, with the
// second truncating the first. On conflict the file is created once more
// under an xid-suffixed name; xid values are unique per process, so a second
// conflict is not expected and is returned as an error.
func (s *Store) createExclusive(name string) (afero.File, string, error) {
	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		name = withSuffix(name, xid.New().String())
		f, err = s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return nil, "", fmt.Errorf("upload: creating %q: %w", name, err)
	}
	return f, name, nil
}

// withSuffix inserts "-suffix" before the extension:
// "cover.png" + "abc" → "cover-abc.png".
func withSuffix(name, suffix string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name + "-" + suffix
	}
	return name[:i] + "-" + suffix + name[i:]
}
