package circsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Dendup1234/Koha-lite/model"
	loanrepo "github.com/Dendup1234/Koha-lite/repository/loan"
	"github.com/Dendup1234/Koha-lite/util/apperr"
	"github.com/Dendup1234/Koha-lite/util/database"
)

type LoanRepo interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	Insert(ctx context.Context, tx *sql.Tx, patronID, itemID int64, issuedAt, dueAt time.Time) (*model.Loan, error)
	Get(ctx context.Context, id int64) (*model.Loan, error)
	GetDetailForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, id int64, returnedAt time.Time) error
	Renew(ctx context.Context, tx *sql.Tx, id int64, newDueAt time.Time) error
	ListByPatron(ctx context.Context, patronID int64) ([]model.Loan, error)
	ListOverdue(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]loanrepo.Detail, error)
}

type ItemRepo interface {
	FindByRef(ctx context.Context, ref string) (*model.Item, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ItemStatus) error
}

type PatronRepo interface {
	FindByRef(ctx context.Context, ref string) (*model.Patron, error)
}

type PolicyResolver interface {
	Resolve(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error)
}

type FineAssessor interface {
	AssessOverdue(ctx context.Context, tx *sql.Tx, loan *model.Loan, p *model.Policy, asOf time.Time) (*model.Fine, error)
}

type Service interface {
	// Checkout issues an available item to an active patron under the
	// policy for the (patron category, item type) pair.
	Checkout(ctx context.Context, patronRef, itemRef string) (*model.Loan, error)

	// Checkin closes an active loan, freezes its overdue fine at the
	// return time and frees the item. Idempotent on a closed loan.
	Checkin(ctx context.Context, loanID int64) (*model.Loan, error)

	// Renew extends the due date by one policy period from the current
	// due date and bumps the renewal count.
	Renew(ctx context.Context, loanID int64) (*model.Loan, error)

	Loan(ctx context.Context, loanID int64) (*model.Loan, error)
	PatronLoans(ctx context.Context, patronID int64) ([]model.Loan, error)
}

type service struct {
	loans    LoanRepo
	items    ItemRepo
	patrons  PatronRepo
	policies PolicyResolver
	fines    FineAssessor
	now      func() time.Time
}

// New builds the circulation service. now is injectable so tests run on a
// fixed clock; pass nil for the wall clock.
func New(loans LoanRepo, items ItemRepo, patrons PatronRepo, policies PolicyResolver, fines FineAssessor, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		loans:    loans,
		items:    items,
		patrons:  patrons,
		policies: policies,
		fines:    fines,
		now:      now,
	}
}

func (s *service) Checkout(ctx context.Context, patronRef, itemRef string) (*model.Loan, error) {
	p, err := s.patrons.FindByRef(ctx, patronRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("patron")
	}
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, apperr.PatronInactive()
	}

	it, err := s.items.FindByRef(ctx, itemRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("item")
	}
	if err != nil {
		return nil, err
	}
	if it.Status != model.ItemAvailable {
		return nil, apperr.ItemNotAvailable(string(it.Status))
	}

	pol, err := s.policies.Resolve(ctx, p.CategoryCode, it.ItemTypeCode)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now()
	dueAt := issuedAt.AddDate(0, 0, pol.LoanDays)

	var loan *model.Loan
	err = s.loans.InTx(ctx, func(tx *sql.Tx) error {
		cur, err := s.items.GetForUpdate(ctx, tx, it.ID)
		if err != nil {
			return err
		}
		if cur.Status != model.ItemAvailable {
			return apperr.ItemNotAvailable(string(cur.Status))
		}
		l, err := s.loans.Insert(ctx, tx, p.ID, it.ID, issuedAt, dueAt)
		if err != nil {
			return mapCheckoutConflict(err)
		}
		if err := s.items.SetStatus(ctx, tx, it.ID, model.ItemIssued); err != nil {
			return err
		}
		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// mapCheckoutConflict turns a unique violation on the one-active-loan-per-item
// index into ItemNotAvailable: the item was issued by a racing checkout.
func mapCheckoutConflict(err error) error {
	if cn, ok := database.UniqueViolation(err); ok && strings.Contains(cn, "loans_one_active_per_item") {
		return apperr.ItemNotAvailable(string(model.ItemIssued))
	}
	return err
}

func (s *service) Checkin(ctx context.Context, loanID int64) (*model.Loan, error) {
	var out *model.Loan
	err := s.loans.InTx(ctx, func(tx *sql.Tx) error {
		d, err := s.loans.GetDetailForUpdate(ctx, tx, loanID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("loan")
		}
		if err != nil {
			return err
		}
		if !d.IsActive() {
			// Already returned.
			out = &d.Loan
			return nil
		}

		returnedAt := s.now()
		pol, err := s.policies.Resolve(ctx, d.PatronCategoryCode, d.ItemTypeCode)
		if err != nil {
			return err
		}
		// The fine freezes at the actual return time; nothing accrues past
		// it. Assessed before return_date is set so the write still sees an
		// outstanding loan.
		if _, err := s.fines.AssessOverdue(ctx, tx, &d.Loan, pol, returnedAt); err != nil {
			return err
		}

		if err := s.loans.MarkReturned(ctx, tx, d.ID, returnedAt); err != nil {
			return err
		}
		d.ReturnDate = &returnedAt

		if err := s.items.SetStatus(ctx, tx, d.ItemID, model.ItemAvailable); err != nil {
			return err
		}
		out = &d.Loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Renew(ctx context.Context, loanID int64) (*model.Loan, error) {
	var out *model.Loan
	err := s.loans.InTx(ctx, func(tx *sql.Tx) error {
		d, err := s.loans.GetDetailForUpdate(ctx, tx, loanID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("loan")
		}
		if err != nil {
			return err
		}
		if !d.IsActive() {
			return apperr.LoanNotActive()
		}

		pol, err := s.policies.Resolve(ctx, d.PatronCategoryCode, d.ItemTypeCode)
		if err != nil {
			return err
		}
		if !pol.RenewalAllowed {
			return apperr.RenewalNotAllowed()
		}
		if d.RenewalCount >= pol.MaxRenewals {
			return apperr.RenewalLimitReached(pol.MaxRenewals)
		}

		now := s.now()
		// Capture what has accrued against the current due date before
		// extending it; the ledger never lowers a stored amount, so the
		// pre-renewal accrual survives the extension.
		if _, err := s.fines.AssessOverdue(ctx, tx, &d.Loan, pol, now); err != nil {
			return err
		}

		newDueAt := d.DueAt.AddDate(0, 0, pol.LoanDays)
		if err := s.loans.Renew(ctx, tx, d.ID, newDueAt); err != nil {
			return err
		}
		d.DueAt = newDueAt
		d.RenewalCount++

		if _, err := s.fines.AssessOverdue(ctx, tx, &d.Loan, pol, now); err != nil {
			return err
		}
		out = &d.Loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Loan(ctx context.Context, loanID int64) (*model.Loan, error) {
	l, err := s.loans.Get(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("loan")
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) PatronLoans(ctx context.Context, patronID int64) ([]model.Loan, error) {
	return s.loans.ListByPatron(ctx, patronID)
}
