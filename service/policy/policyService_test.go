package policysvc_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Dendup1234/Koha-lite/model"
	policysvc "github.com/Dendup1234/Koha-lite/service/policy"
	"github.com/Dendup1234/Koha-lite/util/apperr"
)

type repoMock struct {
	findByPairFn func(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error)
	createFn     func(ctx context.Context, p *model.Policy) (int64, error)
	updateFn     func(ctx context.Context, p *model.Policy) error
	deleteFn     func(ctx context.Context, id int64) error
	getFn        func(ctx context.Context, id int64) (*model.Policy, error)
	listFn       func(ctx context.Context) ([]model.Policy, error)
}

var _ policysvc.Repo = (*repoMock)(nil)

func (m *repoMock) FindByPair(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error) {
	return m.findByPairFn(ctx, categoryCode, itemTypeCode)
}

func (m *repoMock) Create(ctx context.Context, p *model.Policy) (int64, error) {
	return m.createFn(ctx, p)
}

func (m *repoMock) Update(ctx context.Context, p *model.Policy) error { return m.updateFn(ctx, p) }
func (m *repoMock) Delete(ctx context.Context, id int64) error        { return m.deleteFn(ctx, id) }

func (m *repoMock) Get(ctx context.Context, id int64) (*model.Policy, error) {
	return m.getFn(ctx, id)
}

func (m *repoMock) List(ctx context.Context) ([]model.Policy, error) { return m.listFn(ctx) }

func validPolicy() *model.Policy {
	return &model.Policy{
		PatronCategoryCode: "ADULT",
		ItemTypeCode:       "BOOK",
		LoanDays:           7,
		DailyFineRate:      decimal.RequireFromString("1.50"),
		FineCap:            decimal.RequireFromString("50.00"),
		RenewalAllowed:     true,
		MaxRenewals:        2,
	}
}

func TestResolve_Found(t *testing.T) {
	m := &repoMock{
		findByPairFn: func(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error) {
			require.Equal(t, "ADULT", categoryCode)
			require.Equal(t, "BOOK", itemTypeCode)
			return validPolicy(), nil
		},
	}
	s := policysvc.New(m)

	p, err := s.Resolve(context.Background(), "ADULT", "BOOK")
	require.NoError(t, err)
	require.Equal(t, 7, p.LoanDays)
}

func TestResolve_MissingPairIsConfigurationError(t *testing.T) {
	m := &repoMock{
		findByPairFn: func(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := policysvc.New(m)

	_, err := s.Resolve(context.Background(), "CHILD", "DVD")
	require.Equal(t, apperr.CodePolicyNotFound, apperr.CodeOf(err))
	require.Equal(t, "CHILD", apperr.Get(err).Category)
	require.Equal(t, "DVD", apperr.Get(err).ItemType)
}

func TestCreate_DuplicatePair(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, p *model.Policy) (int64, error) {
			return 0, &pgconn.PgError{Code: "23505", ConstraintName: "policies_category_item_type_key"}
		},
	}
	s := policysvc.New(m)

	_, err := s.Create(context.Background(), validPolicy())
	require.Equal(t, apperr.CodeDuplicate, apperr.CodeOf(err))
}

func TestCreate_Validation(t *testing.T) {
	called := false
	m := &repoMock{
		createFn: func(ctx context.Context, p *model.Policy) (int64, error) {
			called = true
			return 1, nil
		},
	}
	s := policysvc.New(m)

	cases := []struct {
		name   string
		mutate func(p *model.Policy)
		want   string
	}{
		{"zero loan days", func(p *model.Policy) { p.LoanDays = 0 }, "loan_days must be > 0"},
		{"negative rate", func(p *model.Policy) { p.DailyFineRate = decimal.RequireFromString("-1") }, "daily_fine_rate must be >= 0"},
		{"negative cap", func(p *model.Policy) { p.FineCap = decimal.RequireFromString("-1") }, "fine_cap must be >= 0"},
		{"negative renewals", func(p *model.Policy) { p.MaxRenewals = -1 }, "max_renewals must be >= 0"},
		{"missing category", func(p *model.Policy) { p.PatronCategoryCode = "" }, "patron_category_code is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPolicy()
			tc.mutate(p)
			_, err := s.Create(context.Background(), p)
			require.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
			require.EqualError(t, err, tc.want)
		})
	}
	require.False(t, called)
}

func TestCreate_AssignsID(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, p *model.Policy) (int64, error) { return 42, nil },
	}
	s := policysvc.New(m)

	p, err := s.Create(context.Background(), validPolicy())
	require.NoError(t, err)
	require.EqualValues(t, 42, p.ID)
}

func TestGet_Found(t *testing.T) {
	m := &repoMock{
		getFn: func(ctx context.Context, id int64) (*model.Policy, error) {
			p := validPolicy()
			p.ID = id
			return p, nil
		},
	}
	s := policysvc.New(m)

	p, err := s.Get(context.Background(), 5)
	require.NoError(t, err)
	require.EqualValues(t, 5, p.ID)
}

func TestGet_Missing(t *testing.T) {
	m := &repoMock{
		getFn: func(ctx context.Context, id int64) (*model.Policy, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := policysvc.New(m)

	_, err := s.Get(context.Background(), 99)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDelete_Missing(t *testing.T) {
	m := &repoMock{
		deleteFn: func(ctx context.Context, id int64) error { return sql.ErrNoRows },
	}
	s := policysvc.New(m)

	err := s.Delete(context.Background(), 99)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
