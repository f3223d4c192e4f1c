package itemrepo

import (
	"context"
	"database/sql"

	"github.com/Dendup1234/Koha-lite/model"
)

type Repo interface {
	Create(ctx context.Context, it *model.Item) (int64, error)
	Update(ctx context.Context, it *model.Item) error
	Get(ctx context.Context, id int64) (*model.Item, error)
	// FindByRef resolves an opaque item reference (accession number) to
	// at most one item.
	FindByRef(ctx context.Context, ref string) (*model.Item, error)
	List(ctx context.Context, q string) ([]model.Item, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ItemStatus) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const itemCols = `id, accession_number, title, item_type_code, branch_code, status`

func (r *repo) Create(ctx context.Context, it *model.Item) (int64, error) {
	const q = `
		INSERT INTO items (accession_number, title, item_type_code, branch_code, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q, it.AccessionNumber, it.Title, it.ItemTypeCode, it.BranchCode, it.Status).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) Update(ctx context.Context, it *model.Item) error {
	const q = `
		UPDATE items
		SET accession_number = $2,
			title = $3,
			item_type_code = $4,
			branch_code = $5,
			status = $6
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, it.ID, it.AccessionNumber, it.Title, it.ItemTypeCode, it.BranchCode, it.Status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Item, error) {
	const q = `SELECT ` + itemCols + ` FROM items WHERE id = $1`
	return scanItem(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) FindByRef(ctx context.Context, ref string) (*model.Item, error) {
	const q = `SELECT ` + itemCols + ` FROM items WHERE accession_number = $1`
	return scanItem(r.db.QueryRowContext(ctx, q, ref))
}

func (r *repo) List(ctx context.Context, search string) ([]model.Item, error) {
	const q = `
		SELECT ` + itemCols + `
		FROM items
		WHERE $1 = '' OR accession_number ILIKE '%' || $1 || '%' OR title ILIKE '%' || $1 || '%'
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.AccessionNumber, &it.Title, &it.ItemTypeCode, &it.BranchCode, &it.Status); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error) {
	const q = `SELECT ` + itemCols + ` FROM items WHERE id = $1 FOR UPDATE`
	return scanItem(tx.QueryRowContext(ctx, q, id))
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ItemStatus) error {
	const q = `UPDATE items SET status = $2 WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	var it model.Item
	err := row.Scan(&it.ID, &it.AccessionNumber, &it.Title, &it.ItemTypeCode, &it.BranchCode, &it.Status)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
