package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/brandkit/logodex/internal/domain"
)

// JobRepository persists batch ingestion job history. The live in-flight
// state is tracked in memory; these rows survive restarts for reporting.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *JobRepository: repository instance bound to db.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new batch job record.
func (r *JobRepository) Create(ctx context.Context, record *domain.BatchJobRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Update saves the current state of a batch job record.
func (r *JobRepository) Update(ctx context.Context, record *domain.BatchJobRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// GetByID retrieves a batch job record by ID. Returns nil without error
// when no record exists.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.BatchJobRecord, error) {
	var record domain.BatchJobRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListRecent returns the most recent batch job records, newest first.
func (r *JobRepository) ListRecent(ctx context.Context, limit int) ([]domain.BatchJobRecord, error) {
	var records []domain.BatchJobRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
