// Package loan is the loan lifecycle: validation, creation, edits and status changes.
//
// Status changes are unrestricted: any of borrowed, lost and returned may follow
// any other. Operators correct statuses by hand, so there is no terminal state.
package loan

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"inventaris_admin/gateway"
	"inventaris_admin/models"
	"inventaris_admin/session"

	"github.com/google/uuid"
)

type Gateway interface {
	ListLoans(ctx context.Context, token string) ([]models.Loan, error)
	LoanHistory(ctx context.Context, token string) ([]models.Loan, error)
	CreateLoan(ctx context.Context, token string, f gateway.LoanForm) (*models.Loan, error)
	UpdateLoan(ctx context.Context, token, ref string, f gateway.LoanForm) (*models.Loan, error)
	UpdateLoanStatus(ctx context.Context, token, ref string, st models.Status) (*models.Loan, error)
}

// Items is the selectable item set; *inventory.Reference implements it.
type Items interface {
	List(ctx context.Context, sess *session.Session) ([]models.Item, error)
	Contains(clientID string, itemID int64) (ok, known bool)
}

// Recorder appends to the audit trail. Optional.
type Recorder interface {
	RecordLoanEvent(ctx context.Context, ev *models.LoanEvent) error
}

type Service struct {
	gw    Gateway
	items Items
	auth  session.Checker
	rec   Recorder
	log   *slog.Logger
}

func New(gw Gateway, items Items, auth session.Checker, rec Recorder, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{gw: gw, items: items, auth: auth, rec: rec, log: log}
}

// AllowedStatuses lists the statuses a loan in current may be moved to.
func AllowedStatuses(current models.Status) []models.Status { return models.Statuses() }

func (s *Service) List(ctx context.Context, sess *session.Session) ([]models.Loan, error) {
	if err := session.Require(s.auth, sess); err != nil {
		return nil, err
	}
	ls, err := s.gw.ListLoans(ctx, sess.Token)
	if err != nil {
		return nil, translate(err, ErrGatewayRejected)
	}
	return ls, nil
}

// History is the reporting view (/loan-history).
func (s *Service) History(ctx context.Context, sess *session.Session) ([]models.Loan, error) {
	if err := session.Require(s.auth, sess); err != nil {
		return nil, err
	}
	ls, err := s.gw.LoanHistory(ctx, sess.Token)
	if err != nil {
		return nil, translate(err, ErrGatewayRejected)
	}
	return ls, nil
}

// Create validates req and submits it. The new loan starts out borrowed.
func (s *Service) Create(ctx context.Context, sess *session.Session, req Request) (*models.Loan, error) {
	if err := session.Require(s.auth, sess); err != nil {
		return nil, err
	}
	if err := s.check(ctx, sess, req); err != nil {
		return nil, err
	}

	l, err := s.gw.CreateLoan(ctx, sess.Token, req.form())
	if err != nil {
		return nil, translate(err, ErrGatewayRejected)
	}
	if l == nil {
		return nil, fmt.Errorf("%w: create returned no loan", ErrGatewayUnavailable)
	}
	s.record(ctx, sess, models.LoanActionCreate, l.Ref(), l.Status)
	return l, nil
}

// Edit replaces the descriptive fields of a loan. Status is not touched.
func (s *Service) Edit(ctx context.Context, sess *session.Session, ref string, req Request) (*models.Loan, error) {
	if err := session.Require(s.auth, sess); err != nil {
		return nil, err
	}
	if ref == "" {
		return nil, ErrUnknownLoan
	}
	if err := s.check(ctx, sess, req); err != nil {
		return nil, err
	}

	l, err := s.gw.UpdateLoan(ctx, sess.Token, ref, req.form())
	if err != nil {
		return nil, translate(err, ErrUnknownLoan)
	}
	if l == nil {
		l, err = s.reread(ctx, sess.Token, ref)
	}
	var st models.Status
	if l != nil {
		st = l.Status
	}
	s.record(ctx, sess, models.LoanActionEdit, ref, st)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ChangeStatus moves a loan to newStatus, whatever its current status.
func (s *Service) ChangeStatus(ctx context.Context, sess *session.Session, ref, newStatus string) (*models.Loan, error) {
	if err := session.Require(s.auth, sess); err != nil {
		return nil, err
	}
	st, err := models.ParseStatus(newStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	if ref == "" {
		return nil, ErrUnknownLoan
	}

	l, err := s.gw.UpdateLoanStatus(ctx, sess.Token, ref, st)
	if err != nil {
		return nil, translate(err, ErrUnknownLoan)
	}
	s.record(ctx, sess, models.LoanActionStatus, ref, st)
	if l == nil {
		return s.reread(ctx, sess.Token, ref)
	}
	return l, nil
}

// reread looks a loan up after upstream acknowledged a write without a body.
func (s *Service) reread(ctx context.Context, token, ref string) (*models.Loan, error) {
	for _, list := range []func(context.Context, string) ([]models.Loan, error){s.gw.ListLoans, s.gw.LoanHistory} {
		ls, err := list(ctx, token)
		if err != nil {
			return nil, translate(err, ErrGatewayUnavailable)
		}
		for i := range ls {
			if ls[i].UUID == ref || (ls[i].ID != 0 && strconv.FormatInt(ls[i].ID, 10) == ref) {
				return &ls[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: loan %s missing after write", ErrGatewayUnavailable, ref)
}

// check runs field validation before any upstream call. A client that never
// listed items gets its list pulled once the other checks pass.
func (s *Service) check(ctx context.Context, sess *session.Session, req Request) error {
	failed := req.failures()
	ok, known := s.items.Contains(sess.ClientID, req.ItemID)
	if known && !ok {
		addItemFailure(failed)
	}
	if err := firstFailure(failed); err != nil {
		return err
	}
	if known {
		return nil
	}

	if _, err := s.items.List(ctx, sess); err != nil {
		return translate(err, ErrGatewayRejected)
	}
	if ok, _ := s.items.Contains(sess.ClientID, req.ItemID); !ok {
		return &MissingFieldError{Field: FieldItemID, Reason: reasonUnlisted}
	}
	return nil
}

const reasonUnlisted = "item is not in the item list"

func addItemFailure(failed map[string]string) {
	if _, ok := failed[FieldItemID]; !ok {
		failed[FieldItemID] = reasonUnlisted
	}
}

func (s *Service) record(ctx context.Context, sess *session.Session, action, ref string, st models.Status) {
	if s.rec == nil {
		return
	}
	ev := &models.LoanEvent{
		ID:        uuid.NewString(),
		LoanRef:   ref,
		Action:    action,
		Status:    string(st),
		ActorID:   sess.Profile.ID,
		ActorName: sess.Profile.DisplayName(),
	}
	if err := s.rec.RecordLoanEvent(ctx, ev); err != nil {
		s.log.Warn("record loan event", "loan", ref, "action", action, "err", err)
	}
}
