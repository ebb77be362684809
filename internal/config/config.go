// Package config selects concrete backends from environment variables so
// binaries and tests share one wiring path.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/scrose/mle-api/internal/blob"
	"github.com/scrose/mle-api/internal/infra/persistence/memory"
	"github.com/scrose/mle-api/internal/infra/persistence/postgres"
	"github.com/scrose/mle-api/internal/infra/persistence/sqlite"
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenStore selects a node store using environment variables. Defaults to
// sqlite when unset.
//
//	EXPLORER_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	EXPLORER_SQLITE_PATH: path to sqlite file (default ./explorer.db)
//	EXPLORER_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenStore(registry *schema.Registry) (nodes.Store, error) {
	driver := os.Getenv("EXPLORER_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("EXPLORER_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("EXPLORER_POSTGRES_DSN"), registry)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// OpenBlobStore selects a blob.Store implementation using environment
// variables.
//
//	EXPLORER_BLOB_DRIVER: fs|s3|memory (default fs)
//	EXPLORER_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	EXPLORER_S3_BUCKET, EXPLORER_S3_REGION, EXPLORER_S3_ENDPOINT,
//	EXPLORER_S3_ACCESS_KEY_ID, EXPLORER_S3_SECRET_ACCESS_KEY,
//	EXPLORER_S3_PATH_STYLE: S3 settings when driver=s3
func OpenBlobStore(ctx context.Context) (blob.Store, error) {
	driver := os.Getenv("EXPLORER_BLOB_DRIVER")
	if driver == "" {
		driver = string(blob.DriverFilesystem)
	}
	switch blob.Driver(driver) {
	case blob.DriverFilesystem:
		root := os.Getenv("EXPLORER_BLOB_FS_ROOT")
		if root == "" {
			root = "./blobdata"
		}
		return blob.NewFSStore(root)
	case blob.DriverS3:
		return blob.NewS3Store(ctx, blob.S3Config{
			Region:          os.Getenv("EXPLORER_S3_REGION"),
			Bucket:          os.Getenv("EXPLORER_S3_BUCKET"),
			Endpoint:        os.Getenv("EXPLORER_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("EXPLORER_S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("EXPLORER_S3_SECRET_ACCESS_KEY"),
			PathStyle:       os.Getenv("EXPLORER_S3_PATH_STYLE") == "true",
		})
	case blob.DriverMemory:
		return blob.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
