package media

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sherryumlah/geoPhoto/geophoto/domain"
)

var _ domain.MediaLibrary = (*Library)(nil)

// Library implements domain.MediaLibrary as a directory tree: albums are
// subdirectories of the root, assets are files, and an asset's identity is
// its filename. Capture writes uuid-based filenames, so filenames are unique
// across the whole tree and stay stable when an asset is filed into an album.
//
// The root directory is shared with whatever else manages the device's
// pictures, so files can appear and disappear underneath us at any time.
type Library struct {
	root string
}

func NewLibrary(root string) *Library {
	return &Library{root: root}
}

// RequestPermission probes whether the library root is writable, standing in
// for the OS-level media permission gate.
func (l *Library) RequestPermission(context.Context) (bool, error) {
	if err := os.MkdirAll(l.root, 0755); err != nil {
		if os.IsPermission(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create library root: %w", err)
	}

	probe, err := os.CreateTemp(l.root, ".probe-*")
	if err != nil {
		if os.IsPermission(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to probe library root: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return true, nil
}

// CreateAsset copies the file behind uri into the library root as a new,
// unfiled asset.
func (l *Library) CreateAsset(_ context.Context, uri string) (*domain.MediaAsset, error) {
	src, err := URIToPath(uri)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read source image: %w", err)
	}

	if err := os.MkdirAll(l.root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create library root: %w", err)
	}

	filename := filepath.Base(src)
	dest := filepath.Join(l.root, filename)

	if err := os.WriteFile(dest, content, 0644); err != nil {
		return nil, fmt.Errorf("failed to write asset: %w", err)
	}

	return &domain.MediaAsset{
		ID:       filename,
		URI:      PathToURI(dest),
		Filename: filename,
	}, nil
}

// FindAlbum returns the named album, or nil if it does not exist.
func (l *Library) FindAlbum(_ context.Context, name string) (*domain.Album, error) {
	info, err := os.Stat(filepath.Join(l.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up album: %w", err)
	}

	if !info.IsDir() {
		return nil, nil
	}

	return &domain.Album{ID: name, Name: name}, nil
}

// CreateAlbum creates the named album seeded with the given asset.
func (l *Library) CreateAlbum(ctx context.Context, name string, seed *domain.MediaAsset) (*domain.Album, error) {
	dir := filepath.Join(l.root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	album := &domain.Album{ID: name, Name: name}

	if seed != nil {
		if err := l.AddToAlbum(ctx, seed, album); err != nil {
			return nil, err
		}
	}

	return album, nil
}

// AddToAlbum files an unfiled asset into an album. The asset keeps its
// filename, and with it its identity.
func (l *Library) AddToAlbum(_ context.Context, asset *domain.MediaAsset, album *domain.Album) error {
	src := filepath.Join(l.root, asset.Filename)
	dest := filepath.Join(l.root, album.Name, asset.Filename)

	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("failed to file asset into album: %w", err)
	}

	asset.URI = PathToURI(dest)
	return nil
}

// ListAssets returns the assets filed in an album.
func (l *Library) ListAssets(_ context.Context, album *domain.Album) ([]*domain.MediaAsset, error) {
	dir := filepath.Join(l.root, album.Name)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list album: %w", err)
	}

	assets := make([]*domain.MediaAsset, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		assets = append(assets, &domain.MediaAsset{
			ID:       entry.Name(),
			URI:      PathToURI(filepath.Join(dir, entry.Name())),
			Filename: entry.Name(),
		})
	}

	return assets, nil
}

// DeleteAssets removes the named assets wherever they live in the tree.
// Assets that no longer exist are skipped, not errors.
func (l *Library) DeleteAssets(_ context.Context, ids []string) error {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	return filepath.WalkDir(l.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if entry.IsDir() || !wanted[entry.Name()] {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete asset %s: %w", entry.Name(), err)
		}
		return nil
	})
}
