package domain

import "context"

// Camera is the device capture collaborator. Capture returns the locator of
// the newly written app-private image file.
type Camera interface {
	RequestPermission(ctx context.Context) (bool, error)
	Ready() bool
	Capture(ctx context.Context) (string, error)
}

// MediaAsset is an entry in the external media store. The store is managed
// outside this application and independently mutable, so holding an asset is
// never proof the underlying file still exists.
type MediaAsset struct {
	ID       string
	URI      string
	Filename string
}

// Album is a named grouping inside the external media store.
type Album struct {
	ID   string
	Name string
}

// MediaLibrary is the external media store collaborator. Every operation is
// best-effort and independently fallible.
type MediaLibrary interface {
	RequestPermission(ctx context.Context) (bool, error)

	// CreateAsset registers the file at uri as a new library asset.
	CreateAsset(ctx context.Context, uri string) (*MediaAsset, error)

	// FindAlbum returns the album with the given name, or nil if absent.
	FindAlbum(ctx context.Context, name string) (*Album, error)

	// CreateAlbum creates a named album seeded with the given asset.
	CreateAlbum(ctx context.Context, name string, seed *MediaAsset) (*Album, error)

	AddToAlbum(ctx context.Context, asset *MediaAsset, album *Album) error
	ListAssets(ctx context.Context, album *Album) ([]*MediaAsset, error)
	DeleteAssets(ctx context.Context, ids []string) error
}

// FileStore abstracts existence checks and removal of app-private files
// addressed by file:// locators.
type FileStore interface {
	Exists(ctx context.Context, uri string) (bool, error)
	Remove(ctx context.Context, uri string) error
}
