package policy

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Dendup1234/Koha-lite/model"
	policysvc "github.com/Dendup1234/Koha-lite/service/policy"
	"github.com/Dendup1234/Koha-lite/util/apperr"
)

type Controller struct {
	Svc policysvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/policies
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return h.writeErr(c, "list policies", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/policies/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	p, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeErr(c, "get policy", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

// POST /v1/policies
func (h *Controller) Create(c echo.Context) error {
	req, ok := h.bind(c)
	if !ok {
		return nil
	}
	p, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return h.writeErr(c, "create policy", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": p})
}

// PUT /v1/policies/:id
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
		return h.writeErr(c, "update policy", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

// DELETE /v1/policies/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return h.writeErr(c, "delete policy", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

func (h *Controller) bind(c echo.Context) (*model.Policy, bool) {
	var req PolicyReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
		return nil, false
	}
	if err := h.V.Struct(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
		return nil, false
	}
	return &model.Policy{
		PatronCategoryCode: req.PatronCategoryCode,
		ItemTypeCode:       req.ItemTypeCode,
		LoanDays:           req.LoanDays,
		DailyFineRate:      req.DailyFineRate,
		FineCap:            req.FineCap,
		RenewalAllowed:     req.RenewalAllowed,
		MaxRenewals:        req.MaxRenewals,
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
