package repository

import (
	"context"
	"fmt"

	"github.com/PromptWall/promptwall/pkg/domain/audit"
	"github.com/PromptWall/promptwall/pkg/domain/threat"
	"gorm.io/gorm"
)

// AuditRecordRepository persists audit records in postgres.
type AuditRecordRepository struct {
	db *gorm.DB
}

func NewAuditRecordRepository(db *gorm.DB) *AuditRecordRepository {
	return &AuditRecordRepository{db: db}
}

func (r *AuditRecordRepository) Append(ctx context.Context, record *audit.Record) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

func (r *AuditRecordRepository) Tail(ctx context.Context, limit int) ([]audit.Record, error) {
	return r.tail(ctx, limit, nil)
}

func (r *AuditRecordRepository) TailFlagged(ctx context.Context, limit int) ([]audit.Record, error) {
	flagged := []threat.Severity{threat.SeverityHigh, threat.SeverityCritical}
	return r.tail(ctx, limit, flagged)
}

func (r *AuditRecordRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&audit.Record{}).Error; err != nil {
		return fmt.Errorf("failed to clear audit records: %w", err)
	}
	return nil
}

func (r *AuditRecordRepository) tail(ctx context.Context, limit int, severities []threat.Severity) ([]audit.Record, error) {
	query := r.db.WithContext(ctx).Model(&audit.Record{}).Order("timestamp desc")
	if len(severities) > 0 {
		query = query.Where("severity IN ?", severities)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []audit.Record
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read audit tail: %w", err)
	}

	// The query reads newest-first; callers expect arrival order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
