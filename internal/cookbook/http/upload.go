package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/cookbook/pkg/idx"
)

// photoFieldName is the multipart field recipe forms attach their photo under.
const photoFieldName = "photo"

// maxUploadBytes caps the in-memory portion of a multipart parse.
const maxUploadBytes = 10 << 20 // 10 MiB

// savePhotoUpload stores the optional photo from a multipart form under dir
// and returns the generated filename, or "" when no file was attached.
//
// Filenames are ULID-prefixed: unlike a timestamp prefix, two uploads in the
// same millisecond still get distinct names.
func savePhotoUpload(r *http.Request, dir string) (string, error) {
	file, header, err := r.FormFile(photoFieldName)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := idx.New().String() + "-" + sanitizeFilename(header.Filename)
	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return name, nil
}

// sanitizeFilename strips any path components and characters that have no
// business in a servable filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)

	if name == "" || name == "." || name == ".." {
		return "photo"
	}
	return name
}
