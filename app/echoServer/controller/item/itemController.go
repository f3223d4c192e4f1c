package item

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Dendup1234/Koha-lite/model"
	itemsvc "github.com/Dendup1234/Koha-lite/service/item"
	"github.com/Dendup1234/Koha-lite/util/apperr"
)

type Controller struct {
	Svc itemsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/items?q=
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return h.writeErr(c, "list items", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/items/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	it, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeErr(c, "get item", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": it})
}

// POST /v1/items
func (h *Controller) Create(c echo.Context) error {
	req, ok := h.bind(c)
	if !ok {
		return nil
	}
	it, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return h.writeErr(c, "create item", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": it})
}

// PUT /v1/items/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	req, ok := h.bind(c)
	if !ok {
		return nil
	}
	req.ID = id
	it, err := h.Svc.Update(c.Request().Context(), req)
	if err != nil {
		return h.writeErr(c, "update item", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": it})
}

func (h *Controller) bind(c echo.Context) (*model.Item, bool) {
	var req ItemReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
		return nil, false
	}
	if err := h.V.Struct(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
		return nil, false
	}
	return &model.Item{
		AccessionNumber: req.AccessionNumber,
		Title:           req.Title,
		ItemTypeCode:    req.ItemTypeCode,
		BranchCode:      req.BranchCode,
		Status:          model.ItemStatus(req.Status),
	}, true
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
