package patronsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Dendup1234/Koha-lite/model"
	"github.com/Dendup1234/Koha-lite/util/apperr"
	"github.com/Dendup1234/Koha-lite/util/database"
)

type Repo interface {
	Create(ctx context.Context, p *model.Patron) (int64, error)
	Update(ctx context.Context, p *model.Patron) error
	Get(ctx context.Context, id int64) (*model.Patron, error)
	List(ctx context.Context, q string) ([]model.Patron, error)
}

type Service interface {
	Create(ctx context.Context, p *model.Patron) (*model.Patron, error)
	Update(ctx context.Context, p *model.Patron) (*model.Patron, error)
	Get(ctx context.Context, id int64) (*model.Patron, error)
	List(ctx context.Context, q string) ([]model.Patron, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r} }

func (s *service) Create(ctx context.Context, p *model.Patron) (*model.Patron, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	id, err := s.r.Create(ctx, p)
	if err != nil {
		return nil, mapDuplicate(err)
	}
	p.ID = id
	return p, nil
}

func (s *service) Update(ctx context.Context, p *model.Patron) (*model.Patron, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	err := s.r.Update(ctx, p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("patron")
	}
	if err != nil {
		return nil, mapDuplicate(err)
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Patron, error) {
	p, err := s.r.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("patron")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context, q string) ([]model.Patron, error) {
	return s.r.List(ctx, q)
}

func validate(p *model.Patron) error {
	switch {
	case p.CardNumber == "":
		return apperr.InvalidInput("card_number is required")
	case p.FirstName == "":
		return apperr.InvalidInput("first_name is required")
	case p.CategoryCode == "":
		return apperr.InvalidInput("category_code is required")
	}
	return nil
}

func mapDuplicate(err error) error {
	cn, ok := database.UniqueViolation(err)
	if !ok {
		return err
	}
	if strings.Contains(cn, "email") {
		return apperr.Duplicate("patron with this email")
	}
	return apperr.Duplicate("patron with this card number")
}
