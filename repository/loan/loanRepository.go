// repository/loan/repo.go
package loanrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dendup1234/Koha-lite/model"
)

// Detail is a loan joined with the codes the circulation rules key on.
type Detail struct {
	model.Loan
	PatronCategoryCode string
	ItemTypeCode       string
	ItemStatus         model.ItemStatus
}

type Repo interface {
	// InTx runs fn inside one transaction; any error rolls everything back.
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error

	Insert(ctx context.Context, tx *sql.Tx, patronID, itemID int64, issuedAt, dueAt time.Time) (*model.Loan, error)
	Get(ctx context.Context, id int64) (*model.Loan, error)
	GetDetailForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*Detail, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, id int64, returnedAt time.Time) error
	Renew(ctx context.Context, tx *sql.Tx, id int64, newDueAt time.Time) error
	ListByPatron(ctx context.Context, patronID int64) ([]model.Loan, error)
	ListOverdue(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]Detail, error)
}

type repo struct {
	db *sql.DB
}

func New(db *sql.DB) Repo { return &repo{db: db} }

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

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, patronID, itemID int64, issuedAt, dueAt time.Time) (*model.Loan, error) {
	// The partial unique index loans_one_active_per_item makes a second
	// concurrent insert for the same item fail with 23505.
	const q = `
		INSERT INTO loans (patron_id, item_id, issued_at, due_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	l := &model.Loan{
		PatronID: patronID,
		ItemID:   itemID,
		IssuedAt: issuedAt,
		DueAt:    dueAt,
	}
	if err := tx.QueryRowContext(ctx, q, patronID, itemID, issuedAt, dueAt).Scan(&l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Loan, error) {
	const q = `
		SELECT id, patron_id, item_id, issued_at, due_at, return_date, renewal_count
		FROM loans
		WHERE id = $1`
	var l model.Loan
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID, &l.PatronID, &l.ItemID, &l.IssuedAt, &l.DueAt, &l.ReturnDate, &l.RenewalCount,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repo) GetDetailForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*Detail, error) {
	const q = `
		SELECT l.id, l.patron_id, l.item_id, l.issued_at, l.due_at, l.return_date, l.renewal_count,
		       p.category_code, i.item_type_code, i.status
		FROM loans l
		JOIN patrons p ON p.id = l.patron_id
		JOIN items i   ON i.id = l.item_id
		WHERE l.id = $1
		FOR UPDATE OF l`
	var d Detail
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.PatronID, &d.ItemID, &d.IssuedAt, &d.DueAt, &d.ReturnDate, &d.RenewalCount,
		&d.PatronCategoryCode, &d.ItemTypeCode, &d.ItemStatus,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repo) MarkReturned(ctx context.Context, tx *sql.Tx, id int64, returnedAt time.Time) error {
	const q = `
		UPDATE loans
		SET return_date = $2
		WHERE id = $1
		AND return_date IS NULL`
	_, err := tx.ExecContext(ctx, q, id, returnedAt)
	return err
}

func (r *repo) Renew(ctx context.Context, tx *sql.Tx, id int64, newDueAt time.Time) error {
	const q = `
		UPDATE loans
		SET due_at = $2,
			renewal_count = renewal_count + 1
		WHERE id = $1
		AND return_date IS NULL`
	_, err := tx.ExecContext(ctx, q, id, newDueAt)
	return err
}

func (r *repo) ListByPatron(ctx context.Context, patronID int64) ([]model.Loan, error) {
	const q = `
		SELECT id, patron_id, item_id, issued_at, due_at, return_date, renewal_count
		FROM loans
		WHERE patron_id = $1
		ORDER BY issued_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, patronID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Loan
	for rows.Next() {
		var l model.Loan
		if err := rows.Scan(&l.ID, &l.PatronID, &l.ItemID, &l.IssuedAt, &l.DueAt, &l.ReturnDate, &l.RenewalCount); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) ListOverdue(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]Detail, error) {
	const q = `
		SELECT l.id, l.patron_id, l.item_id, l.issued_at, l.due_at, l.return_date, l.renewal_count,
		       p.category_code, i.item_type_code, i.status
		FROM loans l
		JOIN patrons p ON p.id = l.patron_id
		JOIN items i   ON i.id = l.item_id
		WHERE l.return_date IS NULL
		AND l.due_at < $1
		ORDER BY l.id`
	rows, err := tx.QueryContext(ctx, q, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(
			&d.ID, &d.PatronID, &d.ItemID, &d.IssuedAt, &d.DueAt, &d.ReturnDate, &d.RenewalCount,
			&d.PatronCategoryCode, &d.ItemTypeCode, &d.ItemStatus,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
