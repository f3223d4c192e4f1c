package policysvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dendup1234/Koha-lite/model"
	"github.com/Dendup1234/Koha-lite/util/apperr"
	"github.com/Dendup1234/Koha-lite/util/database"
)

type Repo interface {
	FindByPair(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error)
	Create(ctx context.Context, p *model.Policy) (int64, error)
	Update(ctx context.Context, p *model.Policy) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Policy, error)
	List(ctx context.Context) ([]model.Policy, error)
}

type Service interface {
	// Resolve looks up the single policy governing the pair. A missing
	// policy is a configuration error the caller must fix; nothing is
	// retried here.
	Resolve(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error)

	Create(ctx context.Context, p *model.Policy) (*model.Policy, error)
	Update(ctx context.Context, p *model.Policy) (*model.Policy, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Policy, error)
	List(ctx context.Context) ([]model.Policy, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r} }

func (s *service) Resolve(ctx context.Context, categoryCode, itemTypeCode string) (*model.Policy, error) {
	p, err := s.r.FindByPair(ctx, categoryCode, itemTypeCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.PolicyNotFound(categoryCode, itemTypeCode)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Create(ctx context.Context, p *model.Policy) (*model.Policy, error) {
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

func (s *service) Update(ctx context.Context, p *model.Policy) (*model.Policy, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	err := s.r.Update(ctx, p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("policy")
	}
	if err != nil {
		return nil, mapDuplicate(err)
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	err := s.r.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("policy")
	}
	return err
}

func (s *service) Get(ctx context.Context, id int64) (*model.Policy, error) {
	p, err := s.r.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("policy")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context) ([]model.Policy, error) {
	return s.r.List(ctx)
}

func validate(p *model.Policy) error {
	switch {
	case p.PatronCategoryCode == "":
		return apperr.InvalidInput("patron_category_code is required")
	case p.ItemTypeCode == "":
		return apperr.InvalidInput("item_type_code is required")
	case p.LoanDays <= 0:
		return apperr.InvalidInput("loan_days must be > 0")
	case p.DailyFineRate.IsNegative():
		return apperr.InvalidInput("daily_fine_rate must be >= 0")
	case p.FineCap.IsNegative():
		return apperr.InvalidInput("fine_cap must be >= 0")
	case p.MaxRenewals < 0:
		return apperr.InvalidInput("max_renewals must be >= 0")
	}
	return nil
}

func mapDuplicate(err error) error {
	if _, ok := database.UniqueViolation(err); ok {
		return apperr.Duplicate("policy for this category and item type")
	}
	return err
}
