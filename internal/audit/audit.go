// Package audit records every mutating operation as a structured log line
// and a durable database row. Audit writes are best-effort: a failed write
// is logged but never fails the operation being audited.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brandkit/logodex/internal/domain"
	"github.com/brandkit/logodex/internal/logger"
	"github.com/brandkit/logodex/internal/repository"
)

// Action identifies the kind of operation being audited.
type Action string

const (
	ActionLogoIngested   Action = "logo_ingested"
	ActionLogoUpdated    Action = "logo_updated"
	ActionLogoDeleted    Action = "logo_deleted"
	ActionBatchStarted   Action = "batch_started"
	ActionBatchCompleted Action = "batch_completed"
	ActionSVGSanitized   Action = "svg_sanitized"
	ActionRAGQueried     Action = "rag_queried"
)

// Entry describes a single auditable event.
type Entry struct {
	Action       Action
	ResourceID   string
	ResourceType string
	Details      string
	Success      bool
	Error        string
}

// Trail emits audit entries. A nil repository disables persistence, leaving
// log emission only; tests typically construct a Trail this way.
type Trail struct {
	repo *repository.AuditRepository
}

// NewTrail creates an audit trail backed by the given repository.
func NewTrail(repo *repository.AuditRepository) *Trail {
	return &Trail{repo: repo}
}

// Record emits an audit entry to the structured log and, when persistence
// is configured, to the audit_log table.
func (t *Trail) Record(ctx context.Context, entry Entry) {
	resourceType := entry.ResourceType
	if resourceType == "" {
		resourceType = "logo"
	}

	fields := logger.Fields{
		"audit_action":  string(entry.Action),
		"resource_id":   entry.ResourceID,
		"resource_type": resourceType,
		"success":       entry.Success,
	}
	if entry.Error != "" {
		fields["error"] = entry.Error
	}
	if entry.Success {
		logger.With(fields).Info(ctx, "audit: %s", entry.Action)
	} else {
		logger.With(fields).Warn(ctx, "audit: %s", entry.Action)
	}

	if t == nil || t.repo == nil {
		return
	}

	record := &domain.AuditRecord{
		ID:           uuid.New().String(),
		Action:       string(entry.Action),
		ResourceID:   entry.ResourceID,
		ResourceType: resourceType,
		Details:      entry.Details,
		Success:      entry.Success,
		Error:        entry.Error,
		CreatedAt:    time.Now().UTC(),
	}
	if err := t.repo.Create(ctx, record); err != nil {
		logger.CtxWarn(ctx, "failed to persist audit record for %s: %v", entry.Action, err)
	}
}

// Success records a successful action.
func (t *Trail) Success(ctx context.Context, action Action, resourceID string) {
	t.Record(ctx, Entry{Action: action, ResourceID: resourceID, Success: true})
}

// Failure records a failed action with its error message.
func (t *Trail) Failure(ctx context.Context, action Action, resourceID string, err error) {
	entry := Entry{Action: action, ResourceID: resourceID, Success: false}
	if err != nil {
		entry.Error = err.Error()
	}
	t.Record(ctx, entry)
}
