package finesvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dendup1234/Koha-lite/model"
	"github.com/Dendup1234/Koha-lite/util/apperr"
)

type Repo interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	UpsertOverdue(ctx context.Context, tx *sql.Tx, loan *model.Loan, amount decimal.Decimal) (*model.Fine, error)
	Get(ctx context.Context, id int64) (*model.Fine, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Fine, error)
	SetPaidAmount(ctx context.Context, tx *sql.Tx, id int64, paid decimal.Decimal) error
	ListByPatron(ctx context.Context, patronID int64) ([]model.Fine, error)
}

type Service interface {
	// AssessOverdue creates or raises the loan's OVERDUE fine as of asOf,
	// inside the caller's transaction. Returns nil when nothing is owed.
	AssessOverdue(ctx context.Context, tx *sql.Tx, loan *model.Loan, p *model.Policy, asOf time.Time) (*model.Fine, error)

	// Pay records a payment against a fine. Overpayment is capped at the
	// assessed amount, never rejected.
	Pay(ctx context.Context, fineID int64, amount decimal.Decimal) (*model.Fine, error)

	Get(ctx context.Context, id int64) (*model.Fine, error)
	ListByPatron(ctx context.Context, patronID int64) ([]model.Fine, error)
}

type service struct {
	r Repo
}

func New(r Repo) Service { return &service{r: r} }

func (s *service) AssessOverdue(ctx context.Context, tx *sql.Tx, loan *model.Loan, p *model.Policy, asOf time.Time) (*model.Fine, error) {
	amount := OverdueAmount(p, loan.DueAt, asOf)
	if !amount.IsPositive() {
		// Nothing owed; an existing fine is left untouched.
		return nil, nil
	}
	f, err := s.r.UpsertOverdue(ctx, tx, loan, amount)
	if errors.Is(err, sql.ErrNoRows) {
		// The loan was returned by a concurrent check-in; its fine is frozen.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Pay(ctx context.Context, fineID int64, amount decimal.Decimal) (*model.Fine, error) {
	if amount.IsNegative() {
		return nil, apperr.InvalidPayment()
	}

	var out *model.Fine
	err := s.r.InTx(ctx, func(tx *sql.Tx) error {
		f, err := s.r.GetForUpdate(ctx, tx, fineID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("fine")
		}
		if err != nil {
			return err
		}

		paid := f.PaidAmount.Add(amount)
		if paid.GreaterThan(f.Amount) {
			paid = f.Amount
		}
		if err := s.r.SetPaidAmount(ctx, tx, f.ID, paid); err != nil {
			return err
		}
		f.PaidAmount = paid
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Fine, error) {
	f, err := s.r.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("fine")
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) ListByPatron(ctx context.Context, patronID int64) ([]model.Fine, error) {
	return s.r.ListByPatron(ctx, patronID)
}
