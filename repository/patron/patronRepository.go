package patronrepo

import (
	"context"
	"database/sql"

	"github.com/Dendup1234/Koha-lite/model"
)

type Repo interface {
	Create(ctx context.Context, p *model.Patron) (int64, error)
	Update(ctx context.Context, p *model.Patron) error
	Get(ctx context.Context, id int64) (*model.Patron, error)
	// FindByRef resolves an opaque patron reference (card number, falling
	// back to email) to at most one patron.
	FindByRef(ctx context.Context, ref string) (*model.Patron, error)
	List(ctx context.Context, q string) ([]model.Patron, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const patronCols = `id, card_number, first_name, last_name, email, category_code, is_active, expires_at`

func (r *repo) Create(ctx context.Context, p *model.Patron) (int64, error) {
	const q = `
		INSERT INTO patrons (card_number, first_name, last_name, email, category_code, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		p.CardNumber, p.FirstName, p.LastName, p.Email, p.CategoryCode, p.IsActive, p.ExpiresAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) Update(ctx context.Context, p *model.Patron) error {
	const q = `
		UPDATE patrons
		SET card_number = $2,
			first_name = $3,
			last_name = $4,
			email = $5,
			category_code = $6,
			is_active = $7,
			expires_at = $8
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q,
		p.ID, p.CardNumber, p.FirstName, p.LastName, p.Email, p.CategoryCode, p.IsActive, p.ExpiresAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Patron, error) {
	const q = `SELECT ` + patronCols + ` FROM patrons WHERE id = $1`
	return scanPatron(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) FindByRef(ctx context.Context, ref string) (*model.Patron, error) {
	// card_number is unique and patrons_email_key keeps non-empty emails
	// unique, so the reference resolves to at most one row.
	const q = `
		SELECT ` + patronCols + `
		FROM patrons
		WHERE card_number = $1 OR (email <> '' AND email = $1)
		LIMIT 1`
	return scanPatron(r.db.QueryRowContext(ctx, q, ref))
}

func (r *repo) List(ctx context.Context, search string) ([]model.Patron, error) {
	const q = `
		SELECT ` + patronCols + `
		FROM patrons
		WHERE $1 = ''
		   OR card_number ILIKE '%' || $1 || '%'
		   OR first_name ILIKE '%' || $1 || '%'
		   OR last_name ILIKE '%' || $1 || '%'
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Patron
	for rows.Next() {
		var p model.Patron
		if err := rows.Scan(&p.ID, &p.CardNumber, &p.FirstName, &p.LastName, &p.Email, &p.CategoryCode, &p.IsActive, &p.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatron(row rowScanner) (*model.Patron, error) {
	var p model.Patron
	err := row.Scan(&p.ID, &p.CardNumber, &p.FirstName, &p.LastName, &p.Email, &p.CategoryCode, &p.IsActive, &p.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
