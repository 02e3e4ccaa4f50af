package db

import (
	"context"
	"fmt"

	"inventaris_admin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

func (r *Repo) RecordLoanEvent(ctx context.Context, ev *models.LoanEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if err := r.DB.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("insert loan event: %w", err)
	}
	return nil
}

type LoanEventsResult struct {
	Events []models.LoanEvent `json:"events"`
	Total  int64              `json:"total"`
}

// ListLoanEvents pages the audit trail of one loan, newest first.
func (r *Repo) ListLoanEvents(ctx context.Context, loanRef string, page, size int) (LoanEventsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.LoanEvent{}).Where("loan_ref = ?", loanRef)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return LoanEventsResult{}, err
	}

	var evs []models.LoanEvent
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&evs).Error; err != nil {
		return LoanEventsResult{}, err
	}
	return LoanEventsResult{Events: evs, Total: total}, nil
}
