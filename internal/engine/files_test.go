package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/scrose/mle-api/internal/blob"
	"github.com/scrose/mle-api/internal/importer"
	"github.com/scrose/mle-api/internal/jobs"
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

type captureQueue struct {
	enqueued []jobs.ImageJob
}

func (q *captureQueue) Enqueue(_ context.Context, job jobs.ImageJob) (jobs.ImageJob, error) {
	job.ID = "test-job"
	q.enqueued = append(q.enqueued, job)
	return job, nil
}

func TestCreateWithFiles(t *testing.T) {
	store := blob.NewMemoryStore()
	registry := schema.MustDefault()
	queue := &captureQueue{}
	e, _ := newTestEngine(t,
		WithImporter(importer.NewBlobImporter(store, registry, nil)),
		WithJobQueue(queue),
	)
	_, _, season := seedHierarchy(t, e)
	station := mustCreate(t, e, schema.TypeStations, &season.ID, map[string]any{"name": "TEST"})
	visit := mustCreate(t, e, schema.TypeModernVisits, &station.ID, map[string]any{"date": "2003-08-01"})
	capture := mustCreate(t, e, schema.TypeModernCaptures, &visit.ID, map[string]any{"fn_photo_reference": "MC-001"})

	ctx := context.Background()
	image, err := e.Create(ctx, CreateRequest{
		Type:    schema.TypeCaptureImages,
		OwnerID: &capture.ID,
		Data:    map[string]any{"image": "img-001.tif", "image_state": "raw"},
		Files: []importer.Upload{
			{Filename: "img-001.tif", ContentType: "image/tiff", Body: strings.NewReader("scan")},
		},
	})
	if err != nil {
		t.Fatalf("create capture image: %v", err)
	}

	// The payload landed under the type's filesystem root joined with the
	// owner's path.
	wantPrefix := "versions/" + capture.FSPath + "/"
	infos, err := store.List(ctx, wantPrefix)
	if err != nil {
		t.Fatalf("list stored files: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("stored objects under %q = %d, want 1", wantPrefix, len(infos))
	}

	// One image job per stored file, enqueued only after commit.
	if len(queue.enqueued) != 1 {
		t.Fatalf("enqueued jobs = %d, want 1", len(queue.enqueued))
	}
	if queue.enqueued[0].NodeID != image.ID || queue.enqueued[0].Key != infos[0].Key {
		t.Fatalf("job = %+v", queue.enqueued[0])
	}
}

func TestCreateWithFilesRequiresImporter(t *testing.T) {
	e, _ := newTestEngine(t)
	_, _, season := seedHierarchy(t, e)
	_, err := e.Create(context.Background(), CreateRequest{
		Type:    schema.TypeMetadataFiles,
		OwnerID: &season.ID,
		Files:   []importer.Upload{{Filename: "notes.pdf", Body: strings.NewReader("x")}},
	})
	if nodes.KindOf(err) != nodes.KindInvalidRequest {
		t.Fatalf("create with files but no importer: %v", err)
	}
}
