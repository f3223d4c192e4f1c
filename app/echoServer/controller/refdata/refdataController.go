// Thin CRUD over the three code/name reference tables. All three entities
// share the same request shape, so the handlers are generated from small
// closures instead of three copies of the same controller.
package refdata

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dendup1234/Koha-lite/model"
	refdatasvc "github.com/Dendup1234/Koha-lite/service/refdata"
	"github.com/Dendup1234/Koha-lite/util/apperr"
)

type Controller struct {
	Svc refdatasvc.Service
	Log *slog.Logger
}

// Branches

func (h *Controller) ListBranches(c echo.Context) error {
	rows, err := h.Svc.ListBranches(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return h.writeErr(c, "list branches", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (h *Controller) CreateBranch(c echo.Context) error {
	return h.create(c, "create branch", func(ctx context.Context, code, name string) error {
		return h.Svc.CreateBranch(ctx, &model.Branch{Code: code, Name: name})
	})
}

func (h *Controller) UpdateBranch(c echo.Context) error {
	return h.update(c, "update branch", func(ctx context.Context, code, name string) error {
		return h.Svc.UpdateBranch(ctx, &model.Branch{Code: code, Name: name})
	})
}

func (h *Controller) DeleteBranch(c echo.Context) error {
	return h.delete(c, "delete branch", h.Svc.DeleteBranch)
}

// Item types

func (h *Controller) ListItemTypes(c echo.Context) error {
	rows, err := h.Svc.ListItemTypes(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return h.writeErr(c, "list item types", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (h *Controller) CreateItemType(c echo.Context) error {
	return h.create(c, "create item type", func(ctx context.Context, code, name string) error {
		return h.Svc.CreateItemType(ctx, &model.ItemType{Code: code, Name: name})
	})
}

func (h *Controller) UpdateItemType(c echo.Context) error {
	return h.update(c, "update item type", func(ctx context.Context, code, name string) error {
		return h.Svc.UpdateItemType(ctx, &model.ItemType{Code: code, Name: name})
	})
}

func (h *Controller) DeleteItemType(c echo.Context) error {
	return h.delete(c, "delete item type", h.Svc.DeleteItemType)
}

// Patron categories

func (h *Controller) ListPatronCategories(c echo.Context) error {
	rows, err := h.Svc.ListPatronCategories(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return h.writeErr(c, "list patron categories", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (h *Controller) CreatePatronCategory(c echo.Context) error {
	return h.create(c, "create patron category", func(ctx context.Context, code, name string) error {
		return h.Svc.CreatePatronCategory(ctx, &model.PatronCategory{Code: code, Name: name})
	})
}

func (h *Controller) UpdatePatronCategory(c echo.Context) error {
	return h.update(c, "update patron category", func(ctx context.Context, code, name string) error {
		return h.Svc.UpdatePatronCategory(ctx, &model.PatronCategory{Code: code, Name: name})
	})
}

func (h *Controller) DeletePatronCategory(c echo.Context) error {
	return h.delete(c, "delete patron category", h.Svc.DeletePatronCategory)
}

// Shared handler plumbing

func (h *Controller) create(c echo.Context, op string, save func(ctx context.Context, code, name string) error) error {
	var req CodeNameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := save(c.Request().Context(), req.Code, req.Name); err != nil {
		return h.writeErr(c, op, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"code": req.Code, "name": req.Name})
}

func (h *Controller) update(c echo.Context, op string, save func(ctx context.Context, code, name string) error) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid code"})
	}
	var req NameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := save(c.Request().Context(), code, req.Name); err != nil {
		return h.writeErr(c, op, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"code": code, "name": req.Name})
}

func (h *Controller) delete(c echo.Context, op string, del func(ctx context.Context, code string) error) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid code"})
	}
	if err := del(c.Request().Context(), code); err != nil {
		return h.writeErr(c, op, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

func (h *Controller) writeErr(c echo.Context, op string, err error) error {
	switch apperr.CodeOf(err) {
	case apperr.CodeNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case apperr.CodeDuplicate:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	case apperr.CodeInvalidInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	h.Log.Error(op, "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}
