package patron

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Dendup1234/Koha-lite/model"
	patronsvc "github.com/Dendup1234/Koha-lite/service/patron"
	"github.com/Dendup1234/Koha-lite/util/apperr"
)

type Controller struct {
	Svc patronsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/patrons?q=
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return h.writeErr(c, "list patrons", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/patrons/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	p, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeErr(c, "get patron", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

// POST /v1/patrons
func (h *Controller) Create(c echo.Context) error {
	req, ok := h.bind(c)
	if !ok {
		return nil
	}
	p, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return h.writeErr(c, "create patron", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": p})
}

// PUT /v1/patrons/:id
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
	p, err := h.Svc.Update(c.Request().Context(), req)
	if err != nil {
		return h.writeErr(c, "update patron", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

func (h *Controller) bind(c echo.Context) (*model.Patron, bool) {
	var req PatronReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
		return nil, false
	}
	if err := h.V.Struct(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
		return nil, false
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &model.Patron{
		CardNumber:   req.CardNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		CategoryCode: req.CategoryCode,
		IsActive:     active,
		ExpiresAt:    req.ExpiresAt,
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
