package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sherryumlah/geoPhoto/geophoto/domain"
)

var _ domain.Camera = (*FileCamera)(nil)

// FileCamera implements domain.Camera by ingesting a staged source image into
// the app-private photo directory under a fresh uuid filename. The staged
// source is the device integration point: the REST capture endpoint stages
// the uploaded image, the CLI stages a local file.
type FileCamera struct {
	storageDir string

	mu     sync.Mutex
	source string
}

func NewFileCamera(storageDir string) *FileCamera {
	return &FileCamera{storageDir: storageDir}
}

// Stage queues the next image the camera will "take".
func (c *FileCamera) Stage(path string) {
	c.mu.Lock()
	c.source = path
	c.mu.Unlock()
}

func (c *FileCamera) RequestPermission(context.Context) (bool, error) {
	// The storage directory is app-private; there is no OS gate to pass
	return true, nil
}

// Ready reports whether an image is staged.
func (c *FileCamera) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source != ""
}

// Capture consumes the staged image, writes it into the app-private photo
// directory, and returns the locator of the new file.
func (c *FileCamera) Capture(context.Context) (string, error) {
	c.mu.Lock()
	source := c.source
	c.source = ""
	c.mu.Unlock()

	if source == "" {
		return "", domain.ErrCameraNotReady
	}

	content, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read staged image: %w", err)
	}

	if err := os.MkdirAll(c.storageDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create photo directory: %w", err)
	}

	ext := filepath.Ext(source)
	if ext == "" {
		ext = ".jpg"
	}

	dest := filepath.Join(c.storageDir, uuid.New().String()+ext)
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write captured image: %w", err)
	}

	return PathToURI(dest), nil
}
