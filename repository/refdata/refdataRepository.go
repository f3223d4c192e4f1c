package refdatarepo

import (
	"context"
	"database/sql"

	"github.com/Dendup1234/Koha-lite/model"
)

// Repo covers the three code/name reference tables owned by the
// administrative module.
type Repo interface {
	CreateBranch(ctx context.Context, b *model.Branch) error
	UpdateBranch(ctx context.Context, b *model.Branch) error
	DeleteBranch(ctx context.Context, code string) error
	ListBranches(ctx context.Context, q string) ([]model.Branch, error)

	CreateItemType(ctx context.Context, t *model.ItemType) error
	UpdateItemType(ctx context.Context, t *model.ItemType) error
	DeleteItemType(ctx context.Context, code string) error
	ListItemTypes(ctx context.Context, q string) ([]model.ItemType, error)

	CreatePatronCategory(ctx context.Context, c *model.PatronCategory) error
	UpdatePatronCategory(ctx context.Context, c *model.PatronCategory) error
	DeletePatronCategory(ctx context.Context, code string) error
	ListPatronCategories(ctx context.Context, q string) ([]model.PatronCategory, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// Branches

func (r *repo) CreateBranch(ctx context.Context, b *model.Branch) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO branches (code, name) VALUES ($1, $2)`, b.Code, b.Name)
	return err
}

func (r *repo) UpdateBranch(ctx context.Context, b *model.Branch) error {
	return execOne(ctx, r.db, `UPDATE branches SET name = $2 WHERE code = $1`, b.Code, b.Name)
}

func (r *repo) DeleteBranch(ctx context.Context, code string) error {
	return execOne(ctx, r.db, `DELETE FROM branches WHERE code = $1`, code)
}

func (r *repo) ListBranches(ctx context.Context, q string) ([]model.Branch, error) {
	rows, err := r.db.QueryContext(ctx, listQ("branches"), q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Branch
	for rows.Next() {
		var b model.Branch
		if err := rows.Scan(&b.Code, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Item types

func (r *repo) CreateItemType(ctx context.Context, t *model.ItemType) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO item_types (code, name) VALUES ($1, $2)`, t.Code, t.Name)
	return err
}

func (r *repo) UpdateItemType(ctx context.Context, t *model.ItemType) error {
	return execOne(ctx, r.db, `UPDATE item_types SET name = $2 WHERE code = $1`, t.Code, t.Name)
}

func (r *repo) DeleteItemType(ctx context.Context, code string) error {
	return execOne(ctx, r.db, `DELETE FROM item_types WHERE code = $1`, code)
}

func (r *repo) ListItemTypes(ctx context.Context, q string) ([]model.ItemType, error) {
	rows, err := r.db.QueryContext(ctx, listQ("item_types"), q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ItemType
	for rows.Next() {
		var t model.ItemType
		if err := rows.Scan(&t.Code, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Patron categories

func (r *repo) CreatePatronCategory(ctx context.Context, c *model.PatronCategory) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO patron_categories (code, name) VALUES ($1, $2)`, c.Code, c.Name)
	return err
}

func (r *repo) UpdatePatronCategory(ctx context.Context, c *model.PatronCategory) error {
	return execOne(ctx, r.db, `UPDATE patron_categories SET name = $2 WHERE code = $1`, c.Code, c.Name)
}

func (r *repo) DeletePatronCategory(ctx context.Context, code string) error {
	return execOne(ctx, r.db, `DELETE FROM patron_categories WHERE code = $1`, code)
}

func (r *repo) ListPatronCategories(ctx context.Context, q string) ([]model.PatronCategory, error) {
	rows, err := r.db.QueryContext(ctx, listQ("patron_categories"), q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PatronCategory
	for rows.Next() {
		var c model.PatronCategory
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func listQ(table string) string {
	return `
		SELECT code, name
		FROM ` + table + `
		WHERE $1 = '' OR code ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%'
		ORDER BY code`
}

func execOne(ctx context.Context, db *sql.DB, q string, args ...any) error {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
