package domain

import "time"

// AuditRecord is the persisted form of an audit event. The audit log is
// also emitted as structured log output; the table is the durable trail.
type AuditRecord struct {
	ID           string    `gorm:"type:text;primaryKey" json:"id"`
	Action       string    `gorm:"type:text;not null;index:idx_audit_action" json:"action"`
	ResourceID   string    `gorm:"type:text;index:idx_audit_resource" json:"resource_id,omitempty"`
	ResourceType string    `gorm:"type:text;default:logo" json:"resource_type"`
	Details      string    `gorm:"type:text" json:"details,omitempty"`
	Success      bool      `gorm:"default:true" json:"success"`
	Error        string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for AuditRecord.
func (AuditRecord) TableName() string {
	return "audit_log"
}

// BatchJobRecord is the durable history row for a batch ingestion job.
// The live job state (including per-item jobs) stays in the in-memory
// JobStore; this record survives restarts for reporting.
type BatchJobRecord struct {
	ID          string     `gorm:"type:text;primaryKey" json:"id"`
	Status      string     `gorm:"type:text;default:pending;index:idx_batch_jobs_status" json:"status"`
	Total       int        `gorm:"default:0" json:"total"`
	Completed   int        `gorm:"default:0" json:"completed"`
	Failed      int        `gorm:"default:0" json:"failed"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for BatchJobRecord.
func (BatchJobRecord) TableName() string {
	return "batch_jobs"
}
