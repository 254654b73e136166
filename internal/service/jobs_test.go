package service

import (
	"context"
	"testing"
	"time"

	"github.com/brandkit/logodex/internal/domain"
)

func waitForBatch(t *testing.T, svc *BatchService, batchID string) *domain.BatchIngestionJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job := svc.GetBatch(batchID)
		if job != nil && job.Status == domain.IngestionCompleted {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("batch %s did not complete in time", batchID)
	return nil
}

func TestCreateBatchProcessesAllItems(t *testing.T) {
	store := newFakeVectorStore()
	ingest := newTestIngestService(t, store, &fakeEmbedder{}, nil, nil)
	svc := NewBatchService(ingest, NewJobStore(), nil, nil)

	requests := []IngestRequest{
		{SVG: testSVG, Name: "one"},
		{SVG: testSVG, Name: "two"},
		{SVG: testSVG, Name: "three"},
	}

	batch := svc.CreateBatch(context.Background(), requests)
	if batch.ID == "" {
		t.Fatal("expected a batch ID")
	}
	if batch.Total != 3 || len(batch.Jobs) != 3 {
		t.Fatalf("batch snapshot has %d/%d items, want 3", batch.Total, len(batch.Jobs))
	}

	final := waitForBatch(t, svc, batch.ID)

	if final.Completed != 3 || final.Failed != 0 {
		t.Errorf("completed=%d failed=%d, want 3/0", final.Completed, final.Failed)
	}
	if final.CompletedAt == "" {
		t.Error("expected a completion timestamp")
	}
	for i, item := range final.Jobs {
		if item.Status != domain.IngestionCompleted {
			t.Errorf("item %d status = %s, want completed", i, item.Status)
		}
		if item.LogoID == "" {
			t.Errorf("item %d has no logo ID", i)
		}
	}
	if count, _ := store.Count(context.Background()); count != 3 {
		t.Errorf("store holds %d logos, want 3", count)
	}
}

func TestCreateBatchRecordsItemFailures(t *testing.T) {
	store := newFakeVectorStore()
	ingest := newTestIngestService(t, store, &fakeEmbedder{}, nil, nil)
	svc := NewBatchService(ingest, NewJobStore(), nil, nil)

	requests := []IngestRequest{
		{SVG: testSVG},
		{SVG: "not an svg at all"},
		{SVG: testSVG},
	}

	batch := svc.CreateBatch(context.Background(), requests)
	final := waitForBatch(t, svc, batch.ID)

	if final.Completed != 2 || final.Failed != 1 {
		t.Fatalf("completed=%d failed=%d, want 2/1", final.Completed, final.Failed)
	}
	if final.Status != domain.IngestionCompleted {
		t.Errorf("batch status = %s, want completed even with item failures", final.Status)
	}
	failed := final.Jobs[1]
	if failed.Status != domain.IngestionFailed || failed.Error == "" {
		t.Errorf("item 1 should have failed with an error, got %+v", failed)
	}
	if failed.LogoID != "" {
		t.Errorf("failed item must not carry a logo ID, got %q", failed.LogoID)
	}
}

func TestGetBatchUnknown(t *testing.T) {
	svc := NewBatchService(nil, NewJobStore(), nil, nil)
	if job := svc.GetBatch("no-such-batch"); job != nil {
		t.Errorf("expected nil for an unknown batch, got %+v", job)
	}
}

func TestGetBatchReturnsCopy(t *testing.T) {
	store := NewJobStore()
	store.Put(&domain.BatchIngestionJob{
		ID:     "b1",
		Status: domain.IngestionProcessing,
		Total:  1,
		Jobs:   []domain.IngestionJob{{ID: "j1", Status: domain.IngestionPending}},
	})

	snapshot := store.Get("b1")
	snapshot.Status = domain.IngestionFailed
	snapshot.Jobs[0].Status = domain.IngestionFailed

	fresh := store.Get("b1")
	if fresh.Status != domain.IngestionProcessing {
		t.Error("mutating a snapshot changed the stored batch")
	}
	if fresh.Jobs[0].Status != domain.IngestionPending {
		t.Error("mutating a snapshot's items changed the stored batch")
	}
}

func TestListBatchesNewestFirst(t *testing.T) {
	store := NewJobStore()
	store.Put(&domain.BatchIngestionJob{ID: "old", CreatedAt: "2026-08-27T10:00:00Z"})
	store.Put(&domain.BatchIngestionJob{ID: "new", CreatedAt: "2026-08-27T12:00:00Z"})
	store.Put(&domain.BatchIngestionJob{ID: "mid", CreatedAt: "2026-08-27T11:00:00Z"})

	svc := NewBatchService(nil, store, nil, nil)
	jobs := svc.ListBatches(2)

	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != "new" || jobs[1].ID != "mid" {
		t.Errorf("unexpected order: %s, %s", jobs[0].ID, jobs[1].ID)
	}
}
