package refdatasvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dendup1234/Koha-lite/model"
	refdatarepo "github.com/Dendup1234/Koha-lite/repository/refdata"
	"github.com/Dendup1234/Koha-lite/util/apperr"
	"github.com/Dendup1234/Koha-lite/util/database"
)

type Service interface {
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

type service struct{ r refdatarepo.Repo }

func New(r refdatarepo.Repo) Service { return &service{r} }

func (s *service) CreateBranch(ctx context.Context, b *model.Branch) error {
	if err := checkCodeName(b.Code, b.Name); err != nil {
		return err
	}
	return mapErr(s.r.CreateBranch(ctx, b), "branch")
}

func (s *service) UpdateBranch(ctx context.Context, b *model.Branch) error {
	if err := checkCodeName(b.Code, b.Name); err != nil {
		return err
	}
	return mapErr(s.r.UpdateBranch(ctx, b), "branch")
}

func (s *service) DeleteBranch(ctx context.Context, code string) error {
	return mapErr(s.r.DeleteBranch(ctx, code), "branch")
}

func (s *service) ListBranches(ctx context.Context, q string) ([]model.Branch, error) {
	return s.r.ListBranches(ctx, q)
}

func (s *service) CreateItemType(ctx context.Context, t *model.ItemType) error {
	if err := checkCodeName(t.Code, t.Name); err != nil {
		return err
	}
	return mapErr(s.r.CreateItemType(ctx, t), "item type")
}

func (s *service) UpdateItemType(ctx context.Context, t *model.ItemType) error {
	if err := checkCodeName(t.Code, t.Name); err != nil {
		return err
	}
	return mapErr(s.r.UpdateItemType(ctx, t), "item type")
}

func (s *service) DeleteItemType(ctx context.Context, code string) error {
	return mapErr(s.r.DeleteItemType(ctx, code), "item type")
}

func (s *service) ListItemTypes(ctx context.Context, q string) ([]model.ItemType, error) {
	return s.r.ListItemTypes(ctx, q)
}

func (s *service) CreatePatronCategory(ctx context.Context, c *model.PatronCategory) error {
	if err := checkCodeName(c.Code, c.Name); err != nil {
		return err
	}
	return mapErr(s.r.CreatePatronCategory(ctx, c), "patron category")
}

func (s *service) UpdatePatronCategory(ctx context.Context, c *model.PatronCategory) error {
	if err := checkCodeName(c.Code, c.Name); err != nil {
		return err
	}
	return mapErr(s.r.UpdatePatronCategory(ctx, c), "patron category")
}

func (s *service) DeletePatronCategory(ctx context.Context, code string) error {
	return mapErr(s.r.DeletePatronCategory(ctx, code), "patron category")
}

func (s *service) ListPatronCategories(ctx context.Context, q string) ([]model.PatronCategory, error) {
	return s.r.ListPatronCategories(ctx, q)
}

func checkCodeName(code, name string) error {
	if code == "" {
		return apperr.InvalidInput("code is required")
	}
	if name == "" {
		return apperr.InvalidInput("name is required")
	}
	return nil
}

func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(what)
	}
	if _, ok := database.UniqueViolation(err); ok {
		return apperr.Duplicate(what)
	}
	return err
}
