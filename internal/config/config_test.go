package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/scrose/mle-api/internal/blob"
	"github.com/scrose/mle-api/pkg/schema"
)

func TestOpenStoreMemoryDriver(t *testing.T) {
	t.Setenv("EXPLORER_STORAGE_DRIVER", "memory")
	s, err := OpenStore(schema.MustDefault())
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer func() { _ = s.Close() }()
}

func TestOpenStoreSQLiteDriver(t *testing.T) {
	t.Setenv("EXPLORER_STORAGE_DRIVER", "sqlite")
	t.Setenv("EXPLORER_SQLITE_PATH", filepath.Join(t.TempDir(), "explorer.db"))
	s, err := OpenStore(schema.MustDefault())
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer func() { _ = s.Close() }()
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	t.Setenv("EXPLORER_STORAGE_DRIVER", "tape")
	if _, err := OpenStore(schema.MustDefault()); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestOpenBlobStoreDrivers(t *testing.T) {
	t.Setenv("EXPLORER_BLOB_DRIVER", "memory")
	s, err := OpenBlobStore(context.Background())
	if err != nil {
		t.Fatalf("open memory blob store: %v", err)
	}
	if s.Driver() != blob.DriverMemory {
		t.Fatalf("driver = %s", s.Driver())
	}

	t.Setenv("EXPLORER_BLOB_DRIVER", "fs")
	t.Setenv("EXPLORER_BLOB_FS_ROOT", t.TempDir())
	s, err = OpenBlobStore(context.Background())
	if err != nil {
		t.Fatalf("open fs blob store: %v", err)
	}
	if s.Driver() != blob.DriverFilesystem {
		t.Fatalf("driver = %s", s.Driver())
	}

	t.Setenv("EXPLORER_BLOB_DRIVER", "carrier-pigeon")
	if _, err := OpenBlobStore(context.Background()); err == nil {
		t.Fatalf("expected unknown blob driver error")
	}
}
