package circsvc_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Dendup1234/Koha-lite/model"
	loanrepo "github.com/Dendup1234/Koha-lite/repository/loan"
	circsvc "github.com/Dendup1234/Koha-lite/service/circulation"
	"github.com/Dendup1234/Koha-lite/util/apperr"
)

// --- mocks ---

type loansMock struct {
	insertFn       func(ctx context.Context, tx *sql.Tx, patronID, itemID int64, issuedAt, dueAt time.Time) (*model.Loan, error)
	getFn          func(ctx context.Context, id int64) (*model.Loan, error)
	detailFn       func(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error)
	markReturnedFn func(ctx context.Context, tx *sql.Tx, id int64, returnedAt time.Time) error
	renewFn        func(ctx context.Context, tx *sql.Tx, id int64, newDueAt time.Time) error
	listByPatronFn func(ctx context.Context, patronID int64) ([]model.Loan, error)
	listOverdueFn  func(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]loanrepo.Detail, error)
}

var _ circsvc.LoanRepo = (*loansMock)(nil)

func (m *loansMock) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error { return fn(nil) }

func (m *loansMock) Insert(ctx context.Context, tx *sql.Tx, patronID, itemID int64, issuedAt, dueAt time.Time) (*model.Loan, error) {
	return m.insertFn(ctx, tx, patronID, itemID, issuedAt, dueAt)
}

func (m *loansMock) Get(ctx context.Context, id int64) (*model.Loan, error) {
	return m.getFn(ctx, id)
}

func (m *loansMock) GetDetailForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error) {
	return m.detailFn(ctx, tx, id)
}

func (m *loansMock) MarkReturned(ctx context.Context, tx *sql.Tx, id int64, returnedAt time.Time) error {
	if m.markReturnedFn == nil {
		return nil
	}
	return m.markReturnedFn(ctx, tx, id, returnedAt)
}

func (m *loansMock) Renew(ctx context.Context, tx *sql.Tx, id int64, newDueAt time.Time) error {
	if m.renewFn == nil {
		return nil
	}
	return m.renewFn(ctx, tx, id, newDueAt)
}

func (m *loansMock) ListByPatron(ctx context.Context, patronID int64) ([]model.Loan, error) {
	return m.listByPatronFn(ctx, patronID)
}

func (m *loansMock) ListOverdue(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]loanrepo.Detail, error) {
	return m.listOverdueFn(ctx, tx, asOf)
}

type itemsMock struct {
	findFn         func(ctx context.Context, ref string) (*model.Item, error)
	getForUpdateFn func(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error)
	statusWrites   []model.ItemStatus
}

var _ circsvc.ItemRepo = (*itemsMock)(nil)

func (m *itemsMock) FindByRef(ctx context.Context, ref string) (*model.Item, error) {
	return m.findFn(ctx, ref)
}

func (m *itemsMock) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error) {
	return m.getForUpdateFn(ctx, tx, id)
}

func (m *itemsMock) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ItemStatus) error {
	m.statusWrites = append(m.statusWrites, status)
	return nil
}

type patronsMock struct {
	findFn func(ctx context.Context, ref string) (*model.Patron, error)
}

var _ circsvc.PatronRepo = (*patronsMock)(nil)

func (m *patronsMock) FindByRef(ctx context.Context, ref string) (*model.Patron, error) {
	return m.findFn(ctx, ref)
}

type policiesMock struct {
	resolveFn func(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error)
}

var _ circsvc.PolicyResolver = (*policiesMock)(nil)

func (m *policiesMock) Resolve(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error) {
	return m.resolveFn(ctx, categoryCode, itemTypeCode)
}

type assessCall struct {
	dueAt time.Time
	asOf  time.Time
}

type finesMock struct {
	calls []assessCall
	ret   *model.Fine
}

var _ circsvc.FineAssessor = (*finesMock)(nil)

func (m *finesMock) AssessOverdue(ctx context.Context, tx *sql.Tx, loan *model.Loan, p *model.Policy, asOf time.Time) (*model.Fine, error) {
	m.calls = append(m.calls, assessCall{dueAt: loan.DueAt, asOf: asOf})
	return m.ret, nil
}

// --- fixtures ---

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return t0 }

func adultBookPolicy() *model.Policy {
	return &model.Policy{
		ID:                 1,
		PatronCategoryCode: "ADULT",
		ItemTypeCode:       "BOOK",
		LoanDays:           7,
		DailyFineRate:      decimal.RequireFromString("1.50"),
		FineCap:            decimal.RequireFromString("50.00"),
		RenewalAllowed:     true,
		MaxRenewals:        2,
	}
}

func activePatron() *model.Patron {
	return &model.Patron{ID: 1, CardNumber: "C-100", CategoryCode: "ADULT", IsActive: true}
}

func availableItem() *model.Item {
	return &model.Item{ID: 2, AccessionNumber: "A-200", ItemTypeCode: "BOOK", Status: model.ItemAvailable}
}

func activeDetail() *loanrepo.Detail {
	return &loanrepo.Detail{
		Loan: model.Loan{
			ID:       3,
			PatronID: 1,
			ItemID:   2,
			IssuedAt: t0.AddDate(0, 0, -10),
			DueAt:    t0.AddDate(0, 0, -3),
		},
		PatronCategoryCode: "ADULT",
		ItemTypeCode:       "BOOK",
		ItemStatus:         model.ItemIssued,
	}
}

func newService(loans *loansMock, items *itemsMock, patrons *patronsMock, fines *finesMock) circsvc.Service {
	policies := &policiesMock{
		resolveFn: func(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error) {
			return adultBookPolicy(), nil
		},
	}
	return circsvc.New(loans, items, patrons, policies, fines, fixedNow)
}

// --- checkout ---

func TestCheckout_Success(t *testing.T) {
	loans := &loansMock{
		insertFn: func(ctx context.Context, tx *sql.Tx, patronID, itemID int64, issuedAt, dueAt time.Time) (*model.Loan, error) {
			return &model.Loan{ID: 3, PatronID: patronID, ItemID: itemID, IssuedAt: issuedAt, DueAt: dueAt}, nil
		},
	}
	items := &itemsMock{
		findFn: func(ctx context.Context, ref string) (*model.Item, error) { return availableItem(), nil },
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error) {
			return availableItem(), nil
		},
	}
	patrons := &patronsMock{
		findFn: func(ctx context.Context, ref string) (*model.Patron, error) { return activePatron(), nil },
	}
	s := newService(loans, items, patrons, &finesMock{})

	loan, err := s.Checkout(context.Background(), "C-100", "A-200")
	require.NoError(t, err)
	require.Equal(t, t0, loan.IssuedAt)
	require.Equal(t, t0.AddDate(0, 0, 7), loan.DueAt)
	require.Equal(t, 0, loan.RenewalCount)
	require.True(t, loan.IsActive())
	require.Equal(t, []model.ItemStatus{model.ItemIssued}, items.statusWrites)
}

func TestCheckout_PatronInactive(t *testing.T) {
	patrons := &patronsMock{
		findFn: func(ctx context.Context, ref string) (*model.Patron, error) {
			p := activePatron()
			p.IsActive = false
			return p, nil
		},
	}
	s := newService(&loansMock{}, &itemsMock{}, patrons, &finesMock{})

	_, err := s.Checkout(context.Background(), "C-100", "A-200")
	require.Equal(t, apperr.CodePatronInactive, apperr.CodeOf(err))
}

func TestCheckout_ItemNotAvailable(t *testing.T) {
	items := &itemsMock{
		findFn: func(ctx context.Context, ref string) (*model.Item, error) {
			it := availableItem()
			it.Status = model.ItemIssued
			return it, nil
		},
	}
	patrons := &patronsMock{
		findFn: func(ctx context.Context, ref string) (*model.Patron, error) { return activePatron(), nil },
	}
	s := newService(&loansMock{}, items, patrons, &finesMock{})

	_, err := s.Checkout(context.Background(), "C-100", "A-200")
	require.Equal(t, apperr.CodeItemNotAvailable, apperr.CodeOf(err))
	require.Equal(t, "ISSUED", apperr.Get(err).Status)
}

func TestCheckout_PatronMissing(t *testing.T) {
	patrons := &patronsMock{
		findFn: func(ctx context.Context, ref string) (*model.Patron, error) { return nil, sql.ErrNoRows },
	}
	s := newService(&loansMock{}, &itemsMock{}, patrons, &finesMock{})

	_, err := s.Checkout(context.Background(), "nobody", "A-200")
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCheckout_NoPolicyCreatesNoLoan(t *testing.T) {
	inserted := false
	loans := &loansMock{
		insertFn: func(ctx context.Context, tx *sql.Tx, patronID, itemID int64, issuedAt, dueAt time.Time) (*model.Loan, error) {
			inserted = true
			return nil, nil
		},
	}
	items := &itemsMock{
		findFn: func(ctx context.Context, ref string) (*model.Item, error) { return availableItem(), nil },
	}
	patrons := &patronsMock{
		findFn: func(ctx context.Context, ref string) (*model.Patron, error) { return activePatron(), nil },
	}
	policies := &policiesMock{
		resolveFn: func(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error) {
			return nil, apperr.PolicyNotFound(categoryCode, itemTypeCode)
		},
	}
	s := circsvc.New(loans, items, patrons, policies, &finesMock{}, fixedNow)

	_, err := s.Checkout(context.Background(), "C-100", "A-200")
	require.Equal(t, apperr.CodePolicyNotFound, apperr.CodeOf(err))
	require.Equal(t, "ADULT", apperr.Get(err).Category)
	require.Equal(t, "BOOK", apperr.Get(err).ItemType)
	require.False(t, inserted)
	require.Empty(t, items.statusWrites)
}

func TestCheckout_RacingCheckoutMapsToItemNotAvailable(t *testing.T) {
	// The availability pre-check passed, but another checkout slipped in:
	// the partial unique index rejects the insert with 23505.
	loans := &loansMock{
		insertFn: func(ctx context.Context, tx *sql.Tx, patronID, itemID int64, issuedAt, dueAt time.Time) (*model.Loan, error) {
			return nil, &pgconn.PgError{Code: "23505", ConstraintName: "loans_one_active_per_item"}
		},
	}
	items := &itemsMock{
		findFn: func(ctx context.Context, ref string) (*model.Item, error) { return availableItem(), nil },
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error) {
			return availableItem(), nil
		},
	}
	patrons := &patronsMock{
		findFn: func(ctx context.Context, ref string) (*model.Patron, error) { return activePatron(), nil },
	}
	s := newService(loans, items, patrons, &finesMock{})

	_, err := s.Checkout(context.Background(), "C-100", "A-200")
	require.Equal(t, apperr.CodeItemNotAvailable, apperr.CodeOf(err))
}

// --- checkin ---

func TestCheckin_ClosesLoanAndFreesItem(t *testing.T) {
	var returnedAt time.Time
	loans := &loansMock{
		detailFn: func(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error) {
			return activeDetail(), nil
		},
		markReturnedFn: func(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error {
			returnedAt = at
			return nil
		},
	}
	items := &itemsMock{}
	fines := &finesMock{}
	s := newService(loans, items, &patronsMock{}, fines)

	loan, err := s.Checkin(context.Background(), 3)
	require.NoError(t, err)
	require.False(t, loan.IsActive())
	require.Equal(t, t0, *loan.ReturnDate)
	require.Equal(t, t0, returnedAt)
	require.Equal(t, []model.ItemStatus{model.ItemAvailable}, items.statusWrites)

	// The fine freezes at the actual return time, against the loan's due date.
	require.Len(t, fines.calls, 1)
	require.Equal(t, t0, fines.calls[0].asOf)
	require.Equal(t, activeDetail().DueAt, fines.calls[0].dueAt)
}

func TestCheckin_Idempotent(t *testing.T) {
	closed := activeDetail()
	ret := t0.AddDate(0, 0, -1)
	closed.ReturnDate = &ret

	marked := false
	loans := &loansMock{
		detailFn: func(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error) {
			return closed, nil
		},
		markReturnedFn: func(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error {
			marked = true
			return nil
		},
	}
	items := &itemsMock{}
	fines := &finesMock{}
	s := newService(loans, items, &patronsMock{}, fines)

	first, err := s.Checkin(context.Background(), 3)
	require.NoError(t, err)
	second, err := s.Checkin(context.Background(), 3)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, ret, *second.ReturnDate)
	require.False(t, marked)
	require.Empty(t, fines.calls)
	require.Empty(t, items.statusWrites)
}

func TestCheckin_LoanMissing(t *testing.T) {
	loans := &loansMock{
		detailFn: func(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := newService(loans, &itemsMock{}, &patronsMock{}, &finesMock{})

	_, err := s.Checkin(context.Background(), 99)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

// --- renew ---

func TestRenew_ExtendsFromCurrentDueDate(t *testing.T) {
	// Three days overdue at renewal time: the new due date compounds from
	// the old one, not from now.
	d := activeDetail()
	oldDue := d.DueAt

	var renewedTo time.Time
	loans := &loansMock{
		detailFn: func(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error) { return d, nil },
		renewFn: func(ctx context.Context, tx *sql.Tx, id int64, newDueAt time.Time) error {
			renewedTo = newDueAt
			return nil
		},
	}
	fines := &finesMock{}
	s := newService(loans, &itemsMock{}, &patronsMock{}, fines)

	loan, err := s.Renew(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, oldDue.AddDate(0, 0, 7), loan.DueAt)
	require.Equal(t, oldDue.AddDate(0, 0, 7), renewedTo)
	require.Equal(t, 1, loan.RenewalCount)

	// Accrual is captured against the old due date before the extension,
	// then recomputed against the new one.
	require.Len(t, fines.calls, 2)
	require.Equal(t, oldDue, fines.calls[0].dueAt)
	require.Equal(t, t0, fines.calls[0].asOf)
	require.Equal(t, oldDue.AddDate(0, 0, 7), fines.calls[1].dueAt)
	require.Equal(t, t0, fines.calls[1].asOf)
}

func TestRenew_LimitReached(t *testing.T) {
	d := activeDetail()
	d.RenewalCount = 2

	loans := &loansMock{
		detailFn: func(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error) { return d, nil },
	}
	s := newService(loans, &itemsMock{}, &patronsMock{}, &finesMock{})

	_, err := s.Renew(context.Background(), 3)
	require.Equal(t, apperr.CodeRenewalLimitReached, apperr.CodeOf(err))
	require.Equal(t, 2, apperr.Get(err).Max)
}

func TestRenew_NotAllowedByPolicy(t *testing.T) {
	loans := &loansMock{
		detailFn: func(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error) {
			return activeDetail(), nil
		},
	}
	policies := &policiesMock{
		resolveFn: func(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error) {
			p := adultBookPolicy()
			p.RenewalAllowed = false
			return p, nil
		},
	}
	s := circsvc.New(loans, &itemsMock{}, &patronsMock{}, policies, &finesMock{}, fixedNow)

	_, err := s.Renew(context.Background(), 3)
	require.Equal(t, apperr.CodeRenewalNotAllowed, apperr.CodeOf(err))
}

func TestRenew_ClosedLoan(t *testing.T) {
	d := activeDetail()
	ret := t0.AddDate(0, 0, -1)
	d.ReturnDate = &ret

	loans := &loansMock{
		detailFn: func(ctx context.Context, tx *sql.Tx, id int64) (*loanrepo.Detail, error) { return d, nil },
	}
	s := newService(loans, &itemsMock{}, &patronsMock{}, &finesMock{})

	_, err := s.Renew(context.Background(), 3)
	require.Equal(t, apperr.CodeLoanNotActive, apperr.CodeOf(err))
}
