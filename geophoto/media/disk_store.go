package media

import (
	"context"
	"fmt"
	"os"

	"github.com/sherryumlah/geoPhoto/geophoto/domain"
)

var _ domain.FileStore = (*DiskStore)(nil)

// DiskStore implements domain.FileStore over the local filesystem for
// file:// locators.
type DiskStore struct{}

func NewDiskStore() *DiskStore {
	return &DiskStore{}
}

func (s *DiskStore) Exists(_ context.Context, uri string) (bool, error) {
	path, err := URIToPath(uri)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}

// Remove deletes the file behind uri. A file that is already gone is not an
// error; removal is idempotent.
func (s *DiskStore) Remove(_ context.Context, uri string) error {
	path, err := URIToPath(uri)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
