package policyrepo

import (
	"context"
	"database/sql"

	"github.com/Dendup1234/Koha-lite/model"
)

type Repo interface {
	FindByPair(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error)
	Create(ctx context.Context, p *model.Policy) (int64, error)
	Update(ctx context.Context, p *model.Policy) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Policy, error)
	List(ctx context.Context) ([]model.Policy, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const policyCols = `id, patron_category_code, item_type_code, loan_days, daily_fine_rate, fine_cap, renewal_allowed, max_renewals`

func (r *repo) FindByPair(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error) {
	const q = `
		SELECT ` + policyCols + `
		FROM policies
		WHERE patron_category_code = $1
		AND item_type_code = $2`
	return scanPolicy(r.db.QueryRowContext(ctx, q, categoryCode, itemTypeCode))
}

func (r *repo) Create(ctx context.Context, p *model.Policy) (int64, error) {
	const q = `
		INSERT INTO policies (patron_category_code, item_type_code, loan_days, daily_fine_rate, fine_cap, renewal_allowed, max_renewals)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		p.PatronCategoryCode, p.ItemTypeCode, p.LoanDays, p.DailyFineRate, p.FineCap, p.RenewalAllowed, p.MaxRenewals,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) Update(ctx context.Context, p *model.Policy) error {
	const q = `
		UPDATE policies
		SET patron_category_code = $2,
			item_type_code = $3,
			loan_days = $4,
			daily_fine_rate = $5,
			fine_cap = $6,
			renewal_allowed = $7,
			max_renewals = $8
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q,
		p.ID, p.PatronCategoryCode, p.ItemTypeCode, p.LoanDays, p.DailyFineRate, p.FineCap, p.RenewalAllowed, p.MaxRenewals,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM policies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Policy, error) {
	const q = `SELECT ` + policyCols + ` FROM policies WHERE id = $1`
	return scanPolicy(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) List(ctx context.Context) ([]model.Policy, error) {
	const q = `SELECT ` + policyCols + ` FROM policies ORDER BY patron_category_code, item_type_code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Policy
	for rows.Next() {
		var p model.Policy
		if err := rows.Scan(&p.ID, &p.PatronCategoryCode, &p.ItemTypeCode, &p.LoanDays, &p.DailyFineRate, &p.FineCap, &p.RenewalAllowed, &p.MaxRenewals); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (*model.Policy, error) {
	var p model.Policy
	err := row.Scan(&p.ID, &p.PatronCategoryCode, &p.ItemTypeCode, &p.LoanDays, &p.DailyFineRate, &p.FineCap, &p.RenewalAllowed, &p.MaxRenewals)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
