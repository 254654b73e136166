package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brandkit/logodex/internal/audit"
	"github.com/brandkit/logodex/internal/domain"
	"github.com/brandkit/logodex/internal/logger"
	"github.com/brandkit/logodex/internal/repository"
)

// JobStore tracks in-flight batch ingestion jobs. It is an explicitly
// owned, injected store so each test gets an isolated instance; the
// database keeps the durable history, this holds the live state.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.BatchIngestionJob
}

// NewJobStore creates an empty job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*domain.BatchIngestionJob)}
}

// Put stores a batch job.
func (s *JobStore) Put(job *domain.BatchIngestionJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// Get returns a copy of a batch job, or nil when unknown. Copying keeps
// callers isolated from concurrent mutation by the batch processor.
func (s *JobStore) Get(batchID string) *domain.BatchIngestionJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[batchID]
	if !ok {
		return nil
	}
	return copyBatchJob(job)
}

// List returns up to limit jobs, newest first.
func (s *JobStore) List(limit int) []*domain.BatchIngestionJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*domain.BatchIngestionJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, copyBatchJob(job))
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt > jobs[j].CreatedAt
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs
}

// update mutates a stored job under the store lock.
func (s *JobStore) update(batchID string, fn func(*domain.BatchIngestionJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[batchID]; ok {
		fn(job)
	}
}

func copyBatchJob(job *domain.BatchIngestionJob) *domain.BatchIngestionJob {
	cp := *job
	cp.Jobs = make([]domain.IngestionJob, len(job.Jobs))
	copy(cp.Jobs, job.Jobs)
	return &cp
}

// BatchService runs batch ingestion jobs: sequential processing of each
// logo with per-item status tracking and a persisted history record.
type BatchService struct {
	ingest  *IngestService
	store   *JobStore
	history *repository.JobRepository
	trail   *audit.Trail
}

// NewBatchService creates a batch service. history may be nil to disable
// durable job records.
func NewBatchService(ingest *IngestService, store *JobStore, history *repository.JobRepository, trail *audit.Trail) *BatchService {
	return &BatchService{
		ingest:  ingest,
		store:   store,
		history: history,
		trail:   trail,
	}
}

// CreateBatch registers a batch job and starts processing it in the
// background. The returned job snapshot is in pending state with one
// pending item per request.
func (b *BatchService) CreateBatch(ctx context.Context, requests []IngestRequest) *domain.BatchIngestionJob {
	now := time.Now().UTC().Format(time.RFC3339)
	batch := &domain.BatchIngestionJob{
		ID:        uuid.New().String(),
		Status:    domain.IngestionPending,
		Total:     len(requests),
		Jobs:      make([]domain.IngestionJob, len(requests)),
		CreatedAt: now,
	}
	for i := range batch.Jobs {
		batch.Jobs[i] = domain.IngestionJob{
			ID:        uuid.New().String(),
			Status:    domain.IngestionPending,
			CreatedAt: now,
		}
	}
	b.store.Put(batch)

	b.trail.Record(ctx, audit.Entry{
		Action:       audit.ActionBatchStarted,
		ResourceID:   batch.ID,
		ResourceType: "batch",
		Details:      fmt.Sprintf("total: %d", batch.Total),
		Success:      true,
	})
	b.persistRecord(ctx, batch)

	// Detach from the request context: the batch outlives the HTTP call.
	bgCtx := logger.SetBatchID(context.Background(), batch.ID)
	go b.processBatch(bgCtx, batch.ID, requests)

	return copyBatchJob(batch)
}

// GetBatch returns a snapshot of a batch job, or nil when unknown.
func (b *BatchService) GetBatch(batchID string) *domain.BatchIngestionJob {
	return b.store.Get(batchID)
}

// ListBatches returns recent batch jobs, newest first.
func (b *BatchService) ListBatches(limit int) []*domain.BatchIngestionJob {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return b.store.List(limit)
}

// ListHistory returns durable batch job records across restarts, newest
// first. Returns an empty slice when persistence is disabled.
func (b *BatchService) ListHistory(ctx context.Context, limit int) ([]domain.BatchJobRecord, error) {
	if b.history == nil {
		return []domain.BatchJobRecord{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return b.history.ListRecent(ctx, limit)
}

// processBatch works through the batch sequentially. Each item moves
// pending -> processing -> completed|failed; the batch completes only after
// every item has terminated.
func (b *BatchService) processBatch(ctx context.Context, batchID string, requests []IngestRequest) {
	b.store.update(batchID, func(job *domain.BatchIngestionJob) {
		job.Status = domain.IngestionProcessing
	})
	if snapshot := b.store.Get(batchID); snapshot != nil {
		b.persistRecord(ctx, snapshot)
	}

	for i, req := range requests {
		b.store.update(batchID, func(job *domain.BatchIngestionJob) {
			job.Jobs[i].Status = domain.IngestionProcessing
		})

		result := b.ingest.IngestLogo(ctx, req)

		completedAt := time.Now().UTC().Format(time.RFC3339)
		b.store.update(batchID, func(job *domain.BatchIngestionJob) {
			item := &job.Jobs[i]
			item.CompletedAt = completedAt
			if result.Success {
				item.Status = domain.IngestionCompleted
				item.LogoID = result.LogoID
				job.Completed++
			} else {
				item.Status = domain.IngestionFailed
				item.Error = result.Error
				job.Failed++
			}
		})
	}

	completedAt := time.Now().UTC().Format(time.RFC3339)
	b.store.update(batchID, func(job *domain.BatchIngestionJob) {
		job.Status = domain.IngestionCompleted
		job.CompletedAt = completedAt
	})

	final := b.store.Get(batchID)
	if final != nil {
		b.trail.Record(ctx, audit.Entry{
			Action:       audit.ActionBatchCompleted,
			ResourceID:   batchID,
			ResourceType: "batch",
			Details:      fmt.Sprintf("completed: %d, failed: %d", final.Completed, final.Failed),
			Success:      true,
		})
		b.persistRecord(ctx, final)
	}
}

// persistRecord mirrors the batch state into the durable history table.
// Persistence failures are logged, never propagated.
func (b *BatchService) persistRecord(ctx context.Context, batch *domain.BatchIngestionJob) {
	if b.history == nil {
		return
	}

	record := &domain.BatchJobRecord{
		ID:        batch.ID,
		Status:    string(batch.Status),
		Total:     batch.Total,
		Completed: batch.Completed,
		Failed:    batch.Failed,
	}
	if batch.CompletedAt != "" {
		if t, err := time.Parse(time.RFC3339, batch.CompletedAt); err == nil {
			record.CompletedAt = &t
		}
	}

	existing, err := b.history.GetByID(ctx, batch.ID)
	if err != nil {
		logger.CtxWarn(ctx, "failed to load batch record %s: %v", batch.ID, err)
		return
	}
	if batch.Status != domain.IngestionPending {
		if existing != nil && existing.StartedAt != nil {
			record.StartedAt = existing.StartedAt
		} else {
			now := time.Now().UTC()
			record.StartedAt = &now
		}
	}
	if existing == nil {
		err = b.history.Create(ctx, record)
	} else {
		record.CreatedAt = existing.CreatedAt
		err = b.history.Update(ctx, record)
	}
	if err != nil {
		logger.CtxWarn(ctx, "failed to persist batch record %s: %v", batch.ID, err)
	}
}
