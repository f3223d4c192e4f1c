// repository/fine/repo.go
package finerepo

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/Dendup1234/Koha-lite/model"
)

type Repo interface {
	// InTx runs fn inside one transaction; any error rolls everything back.
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// UpsertOverdue creates the single OVERDUE fine for a loan or raises
	// its amount. The stored amount never decreases, so concurrent
	// recomputation for the same instant converges instead of flapping.
	// A loan that is no longer outstanding is left untouched; the write
	// reports sql.ErrNoRows.
	UpsertOverdue(ctx context.Context, tx *sql.Tx, loan *model.Loan, amount decimal.Decimal) (*model.Fine, error)

	Get(ctx context.Context, id int64) (*model.Fine, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Fine, error)
	SetPaidAmount(ctx context.Context, tx *sql.Tx, id int64, paid decimal.Decimal) error
	ListByPatron(ctx context.Context, patronID int64) ([]model.Fine, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const fineCols = `id, loan_id, patron_id, item_id, fine_type, amount, paid_amount, created_at, updated_at`

func (r *repo) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repo) UpsertOverdue(ctx context.Context, tx *sql.Tx, loan *model.Loan, amount decimal.Decimal) (*model.Fine, error) {
	// Sourcing the insert from the loans row keeps a sweep whose overdue
	// snapshot predates a concurrent check-in from touching a fine the
	// check-in already froze.
	const q = `
		INSERT INTO fines (loan_id, patron_id, item_id, fine_type, amount, paid_amount)
		SELECT l.id, l.patron_id, l.item_id, $2, $3, 0
		FROM loans l
		WHERE l.id = $1
		AND l.return_date IS NULL
		ON CONFLICT (loan_id, fine_type) DO UPDATE
		SET amount = GREATEST(fines.amount, EXCLUDED.amount),
			updated_at = NOW()
		RETURNING ` + fineCols
	return scanFine(tx.QueryRowContext(ctx, q, loan.ID, model.FineOverdue, amount))
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Fine, error) {
	const q = `SELECT ` + fineCols + ` FROM fines WHERE id = $1`
	return scanFine(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Fine, error) {
	const q = `SELECT ` + fineCols + ` FROM fines WHERE id = $1 FOR UPDATE`
	return scanFine(tx.QueryRowContext(ctx, q, id))
}

func (r *repo) SetPaidAmount(ctx context.Context, tx *sql.Tx, id int64, paid decimal.Decimal) error {
	const q = `
		UPDATE fines
		SET paid_amount = $2,
			updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, paid)
	return err
}

func (r *repo) ListByPatron(ctx context.Context, patronID int64) ([]model.Fine, error) {
	const q = `
		SELECT ` + fineCols + `
		FROM fines
		WHERE patron_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, patronID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Fine
	for rows.Next() {
		var f model.Fine
		if err := rows.Scan(&f.ID, &f.LoanID, &f.PatronID, &f.ItemID, &f.Type, &f.Amount, &f.PaidAmount, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFine(row rowScanner) (*model.Fine, error) {
	var f model.Fine
	err := row.Scan(&f.ID, &f.LoanID, &f.PatronID, &f.ItemID, &f.Type, &f.Amount, &f.PaidAmount, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
