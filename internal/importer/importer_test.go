package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/scrose/mle-api/internal/blob"
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

func testOwner() nodes.Node {
	return nodes.Node{
		ID:     42,
		Type:   schema.TypeModernVisits,
		FSPath: "surveyors/bridgland/1915/test/2003-08-01",
	}
}

func TestImportStoresUnderOwnerPath(t *testing.T) {
	store := blob.NewMemoryStore()
	imp := NewBlobImporter(store, schema.MustDefault(), nil)
	ctx := context.Background()

	res, err := imp.Import(ctx, testOwner(), schema.TypeCaptureImages, []Upload{
		{Filename: "img-001.tif", ContentType: "image/tiff", Body: strings.NewReader("scan")},
		{Filename: "img-002.tif", ContentType: "image/tiff", Body: strings.NewReader("scan2")},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("stored files = %d", len(res.Files))
	}
	wantKey := "versions/surveyors/bridgland/1915/test/2003-08-01/img-001.tif"
	if res.Files[0].Key != wantKey {
		t.Fatalf("key = %q, want %q", res.Files[0].Key, wantKey)
	}
	if res.Files[0].Checksum == "" || res.Files[0].Size != 4 {
		t.Fatalf("descriptor = %+v", res.Files[0])
	}
	if res.Metadata["owner_id"] != int64(42) || res.Metadata["owner_type"] != "modern_visits" {
		t.Fatalf("metadata = %v", res.Metadata)
	}

	info, err := store.Head(ctx, wantKey)
	if err != nil {
		t.Fatalf("head stored object: %v", err)
	}
	if info.Metadata["owner_id"] != "42" {
		t.Fatalf("object metadata = %v", info.Metadata)
	}
}

func TestImportEmptyUploads(t *testing.T) {
	imp := NewBlobImporter(blob.NewMemoryStore(), schema.MustDefault(), nil)
	res, err := imp.Import(context.Background(), testOwner(), schema.TypeCaptureImages, nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.Files) != 0 || res.Metadata != nil {
		t.Fatalf("empty import result = %+v", res)
	}
}

func TestImportCleansUpOnFailure(t *testing.T) {
	store := blob.NewMemoryStore()
	imp := NewBlobImporter(store, schema.MustDefault(), nil)
	ctx := context.Background()

	_, err := imp.Import(ctx, testOwner(), schema.TypeCaptureImages, []Upload{
		{Filename: "img-001.tif", Body: strings.NewReader("scan")},
		{Filename: "", Body: strings.NewReader("bad")},
	})
	if err == nil {
		t.Fatalf("expected failure on empty filename")
	}
	infos, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("partial import left %d objects", len(infos))
	}
}
