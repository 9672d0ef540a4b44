package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// MaxFileSize is the upload ceiling for a single screenshot.
const MaxFileSize = 5 * 1024 * 1024 // 5MB

// AllowedTypes are the accepted upload content types.
var AllowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ScreenshotStore persists uploaded screenshot files under a single root
// directory. Records refer to stored files by relative path only.
type ScreenshotStore struct {
	root string
}

// NewScreenshotStore creates the store, making sure the root directory exists.
func NewScreenshotStore(root string) (*ScreenshotStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshots directory: %w", err)
	}
	return &ScreenshotStore{root: root}, nil
}

// Root returns the store's directory, for static file serving.
func (s *ScreenshotStore) Root() string {
	return s.root
}

// Sanitize maps a name component to the safe character set.
func Sanitize(component string) string {
	return unsafeChars.ReplaceAllString(component, "_")
}

// Save writes data under a name derived from base, appending an incrementing
// suffix until the name does not collide with an existing file. Returns the
// final filename.
func (s *ScreenshotStore) Save(base string, data []byte) (string, error) {
	filename := base + ".png"
	path := filepath.Join(s.root, filename)

	for counter := 2; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		filename = fmt.Sprintf("%s_%d.png", base, counter)
		path = filepath.Join(s.root, filename)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot file: %w", err)
	}
	return filename, nil
}

// Remove deletes a stored file. A file that is already gone is not an error;
// the caller still wants the metadata cleaned up.
func (s *ScreenshotStore) Remove(filename string) error {
	path := filepath.Join(s.root, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete screenshot file: %w", err)
	}
	return nil
}

// Exists reports whether a stored file is present.
func (s *ScreenshotStore) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.Base(filename)))
	return err == nil
}
