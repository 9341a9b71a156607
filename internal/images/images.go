// Package images stores uploaded profile pictures as fixed-size
// thumbnails under random file names.
package images

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const thumbnailSize = 125

// Store saves profile pictures into a directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SavePicture decodes the upload, shrinks it to fit 125x125 and writes it
// under a random name keeping the original extension. Returns the stored
// file name.
func (s *Store) SavePicture(src io.Reader, originalName string) (string, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode picture: %w", err)
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	ext := strings.ToLower(filepath.Ext(originalName))
	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext
	path := filepath.Join(s.dir, name)

	if err := imaging.Save(thumb, path); err != nil {
		return "", fmt.Errorf("save picture: %w", err)
	}
	return name, nil
}

// Dir returns the directory pictures are stored in.
func (s *Store) Dir() string {
	return s.dir
}
