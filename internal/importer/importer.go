// Package importer is the file-ingestion boundary. It receives a fully
// validated owner node and entity type, stores payloads in the blob store
// under the owner's derived filesystem path, and hands back descriptors the
// engine folds into the entity's attributes. The engine never manages
// temporary files or MIME validation itself.
package importer

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/scrose/mle-api/internal/blob"
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// Upload is one inbound file payload.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// FileDescriptor describes one stored file.
type FileDescriptor struct {
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size_bytes"`
	Checksum    string `json:"checksum,omitempty"`
}

// Result carries the stored descriptors plus extracted metadata for the
// engine to fold into entity attributes.
type Result struct {
	Files    []FileDescriptor
	Metadata map[string]any
}

// Importer ingests uploads on behalf of a validated owner/entity pair.
type Importer interface {
	Import(ctx context.Context, owner nodes.Node, t schema.Type, uploads []Upload) (Result, error)
}

// BlobImporter stores uploads through a blob.Store.
type BlobImporter struct {
	store    blob.Store
	registry *schema.Registry
	log      nodes.Logger
}

// NewBlobImporter constructs an importer over the given blob store.
func NewBlobImporter(store blob.Store, registry *schema.Registry, log nodes.Logger) *BlobImporter {
	if log == nil {
		log = nodes.NopLogger{}
	}
	return &BlobImporter{store: store, registry: registry, log: log}
}

// Import stores each upload under the owner's filesystem path prefixed by
// the entity type's filesystem root. Files already stored are removed on a
// later failure so a failed import leaves no partial file set; cleanup
// failures are logged, never escalated.
func (b *BlobImporter) Import(ctx context.Context, owner nodes.Node, t schema.Type, uploads []Upload) (Result, error) {
	if len(uploads) == 0 {
		return Result{}, nil
	}
	root, _ := b.registry.FilesystemRoot(t)
	base := path.Join(root, owner.FSPath)

	res := Result{Metadata: map[string]any{
		"owner_id":   owner.ID,
		"owner_type": string(owner.Type),
		"fs_path":    owner.FSPath,
	}}
	for _, up := range uploads {
		if up.Filename == "" {
			b.cleanup(ctx, res.Files)
			return Result{}, fmt.Errorf("upload with empty filename for owner %d", owner.ID)
		}
		key := path.Join(base, up.Filename)
		info, err := b.store.Put(ctx, key, up.Body, blob.PutOptions{
			ContentType: up.ContentType,
			Metadata: map[string]string{
				"owner_id":   strconv.FormatInt(owner.ID, 10),
				"owner_type": string(owner.Type),
			},
		})
		if err != nil {
			b.cleanup(ctx, res.Files)
			return Result{}, fmt.Errorf("store %s: %w", key, err)
		}
		res.Files = append(res.Files, FileDescriptor{
			Key:         info.Key,
			Filename:    up.Filename,
			ContentType: info.ContentType,
			Size:        info.Size,
			Checksum:    info.ETag,
		})
	}
	return res, nil
}

func (b *BlobImporter) cleanup(ctx context.Context, stored []FileDescriptor) {
	for _, fd := range stored {
		if _, err := b.store.Delete(ctx, fd.Key); err != nil {
			b.log.Warn("cleanup of partial import failed", "key", fd.Key, "error", err)
		}
	}
}
