// Package report aggregates the dashboard counters.
package report

import (
	"context"

	"inventaris_admin/models"
	"inventaris_admin/session"
)

type ItemLister interface {
	List(ctx context.Context, sess *session.Session) ([]models.Item, error)
}

type LoanLister interface {
	List(ctx context.Context, sess *session.Session) ([]models.Loan, error)
	History(ctx context.Context, sess *session.Session) ([]models.Loan, error)
}

type Summary struct {
	TotalItems  int `json:"totalItems"`
	ActiveLoans int `json:"activeLoans"`
	Returned    int `json:"returned"`
	Lost        int `json:"lost"`
}

type Dashboard struct {
	items ItemLister
	loans LoanLister
}

func NewDashboard(items ItemLister, loans LoanLister) *Dashboard {
	return &Dashboard{items: items, loans: loans}
}

// Summary counts items, open loans, and returned/lost loans from the history.
func (d *Dashboard) Summary(ctx context.Context, sess *session.Session) (*Summary, error) {
	items, err := d.items.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	active, err := d.loans.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	history, err := d.loans.History(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &Summary{
		TotalItems:  len(items),
		ActiveLoans: CountStatus(active, models.StatusBorrowed),
		Returned:    CountStatus(history, models.StatusReturned),
		Lost:        CountStatus(history, models.StatusLost),
	}, nil
}

func CountStatus(ls []models.Loan, st models.Status) int {
	n := 0
	for _, l := range ls {
		if l.Status == st {
			n++
		}
	}
	return n
}
