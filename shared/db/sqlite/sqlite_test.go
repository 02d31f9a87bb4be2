package sqlite

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewSQLiteConfig_Default(t *testing.T) {
	os.Unsetenv("SQLITE_DB_PATH")

	cfg := NewSQLiteConfig()
	if cfg.Path != defaultPath {
		t.Errorf("Path = %q, want %q", cfg.Path, defaultPath)
	}
}

func TestNewSQLiteConfig_FromEnv(t *testing.T) {
	t.Setenv("SQLITE_DB_PATH", "/tmp/custom.db")

	cfg := NewSQLiteConfig()
	if cfg.Path != "/tmp/custom.db" {
		t.Errorf("Path = %q, want %q", cfg.Path, "/tmp/custom.db")
	}
}

func TestSQLiteDB_ConnectAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: path})

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if database.DB() == nil {
		t.Fatal("DB() returned nil after Connect")
	}

	// Migrations should have run
	var count int
	err := database.DB().QueryRow("SELECT COUNT(*) FROM geo_photos").Scan(&count)
	if err != nil {
		t.Fatalf("geo_photos table not usable: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty table, got %d rows", count)
	}

	if err := database.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if database.DB() != nil {
		t.Error("DB() should return nil after Close")
	}
}

func TestSQLiteDB_DoubleConnect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: path})

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer database.Close()

	if err := database.Connect(); err == nil {
		t.Error("second Connect should fail")
	}
}

func TestSQLiteDB_CloseWithoutConnect(t *testing.T) {
	database := NewSQLiteDB(&SQLiteConfig{Path: "unused.db"})

	if err := database.Close(); err != nil {
		t.Errorf("Close on unconnected database failed: %v", err)
	}
}

func TestSQLiteDB_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	_, err := database.DB().Exec(
		"INSERT INTO geo_photos (uri, taken_at) VALUES (?, ?)",
		"file:///photos/a.jpg", "2026-01-02T15:04:05Z",
	)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := database.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := reopened.Connect(); err != nil {
		t.Fatalf("reopen Connect failed: %v", err)
	}
	defer reopened.Close()

	var count int
	if err := reopened.DB().QueryRow("SELECT COUNT(*) FROM geo_photos").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row after reopen, got %d", count)
	}
}
