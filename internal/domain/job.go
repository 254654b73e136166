package domain

// IngestionStatus represents the processing status of an ingestion job.
// Values include IngestionPending, IngestionProcessing, IngestionCompleted,
// and IngestionFailed.
type IngestionStatus string

const (
	IngestionPending    IngestionStatus = "pending"
	IngestionProcessing IngestionStatus = "processing"
	IngestionCompleted  IngestionStatus = "completed"
	IngestionFailed     IngestionStatus = "failed"
)

// IngestionJob tracks a single logo within a batch.
// Each job transitions pending -> processing -> completed|failed.
type IngestionJob struct {
	ID          string          `json:"id"`
	Status      IngestionStatus `json:"status"`
	LogoID      string          `json:"logo_id,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   string          `json:"created_at"`
	CompletedAt string          `json:"completed_at,omitempty"`
}

// BatchIngestionJob aggregates an ordered sequence of per-item jobs.
// The batch transitions to completed only after every item terminates.
// Batch records are process-local bookkeeping held in a JobStore.
type BatchIngestionJob struct {
	ID          string          `json:"id"`
	Status      IngestionStatus `json:"status"`
	Total       int             `json:"total"`
	Completed   int             `json:"completed"`
	Failed      int             `json:"failed"`
	Jobs        []IngestionJob  `json:"jobs"`
	CreatedAt   string          `json:"created_at"`
	CompletedAt string          `json:"completed_at,omitempty"`
}
