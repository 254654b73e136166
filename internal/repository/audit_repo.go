package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brandkit/logodex/internal/domain"
)

// AuditRepository persists audit records for mutating operations.
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *AuditRepository: repository instance bound to db.
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - record: audit record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *AuditRepository) Create(ctx context.Context, record *domain.AuditRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListRecent returns the most recent audit records, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.AuditRecord: matching records.
//   - error: non-nil if the query fails.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	var records []domain.AuditRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// ListByResource returns audit records for a single resource, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - resourceID: resource to look up.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.AuditRecord: matching records.
//   - error: non-nil if the query fails.
func (r *AuditRepository) ListByResource(ctx context.Context, resourceID string, limit int) ([]domain.AuditRecord, error) {
	var records []domain.AuditRecord
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
