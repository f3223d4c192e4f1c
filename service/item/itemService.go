package itemsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dendup1234/Koha-lite/model"
	"github.com/Dendup1234/Koha-lite/util/apperr"
	"github.com/Dendup1234/Koha-lite/util/database"
)

type Repo interface {
	Create(ctx context.Context, it *model.Item) (int64, error)
	Update(ctx context.Context, it *model.Item) error
	Get(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context, q string) ([]model.Item, error)
}

type Service interface {
	Create(ctx context.Context, it *model.Item) (*model.Item, error)
	// Update is the cataloguing collaborator's surface; this is where an
	// item gets marked LOST, never by circulation itself.
	Update(ctx context.Context, it *model.Item) (*model.Item, error)
	Get(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context, q string) ([]model.Item, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r} }

func (s *service) Create(ctx context.Context, it *model.Item) (*model.Item, error) {
	if it.Status == "" {
		it.Status = model.ItemAvailable
	}
	if err := validate(it); err != nil {
		return nil, err
	}
	id, err := s.r.Create(ctx, it)
	if err != nil {
		return nil, mapDuplicate(err)
	}
	it.ID = id
	return it, nil
}

func (s *service) Update(ctx context.Context, it *model.Item) (*model.Item, error) {
	if err := validate(it); err != nil {
		return nil, err
	}
	err := s.r.Update(ctx, it)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("item")
	}
	if err != nil {
		return nil, mapDuplicate(err)
	}
	return it, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Item, error) {
	it, err := s.r.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("item")
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) List(ctx context.Context, q string) ([]model.Item, error) {
	return s.r.List(ctx, q)
}

func validate(it *model.Item) error {
	switch {
	case it.AccessionNumber == "":
		return apperr.InvalidInput("accession_number is required")
	case it.Title == "":
		return apperr.InvalidInput("title is required")
	case it.ItemTypeCode == "":
		return apperr.InvalidInput("item_type_code is required")
	case it.BranchCode == "":
		return apperr.InvalidInput("branch_code is required")
	}
	switch it.Status {
	case model.ItemAvailable, model.ItemIssued, model.ItemOverdue, model.ItemLost:
	default:
		return apperr.InvalidInput("invalid status")
	}
	return nil
}

func mapDuplicate(err error) error {
	if _, ok := database.UniqueViolation(err); ok {
		return apperr.Duplicate("item with this accession number")
	}
	return err
}
