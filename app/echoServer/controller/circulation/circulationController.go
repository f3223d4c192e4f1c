package circulation

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	circsvc "github.com/Dendup1234/Koha-lite/service/circulation"
	"github.com/Dendup1234/Koha-lite/util/apperr"
)

type Controller struct {
	Svc circsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/circulation/checkout
func (h *Controller) Checkout(c echo.Context) error {
	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	loan, err := h.Svc.Checkout(c.Request().Context(), req.PatronRef, req.ItemRef)
	if err != nil {
		return h.writeErr(c, "checkout", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": loan})
}

// POST /v1/circulation/checkin
func (h *Controller) Checkin(c echo.Context) error {
	var req CheckinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	loan, err := h.Svc.Checkin(c.Request().Context(), req.LoanID)
	if err != nil {
		return h.writeErr(c, "checkin", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": loan})
}

// POST /v1/circulation/renew
func (h *Controller) Renew(c echo.Context) error {
	var req RenewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	loan, err := h.Svc.Renew(c.Request().Context(), req.LoanID)
	if err != nil {
		return h.writeErr(c, "renew", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": loan})
}

// GET /v1/loans/:id
func (h *Controller) GetLoan(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	loan, err := h.Svc.Loan(c.Request().Context(), id)
	if err != nil {
		return h.writeErr(c, "get loan", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": loan})
}

// GET /v1/patrons/:id/loans
func (h *Controller) PatronLoans(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	loans, err := h.Svc.PatronLoans(c.Request().Context(), id)
	if err != nil {
		return h.writeErr(c, "patron loans", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": loans})
}

func (h *Controller) writeErr(c echo.Context, op string, err error) error {
	ae := apperr.Get(err)
	if ae == nil {
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	body := echo.Map{"code": ae.Code, "message": ae.Error()}
	switch ae.Code {
	case apperr.CodeNotFound:
		return c.JSON(http.StatusNotFound, body)
	case apperr.CodePolicyNotFound:
		body["patron_category_code"] = ae.Category
		body["item_type_code"] = ae.ItemType
		return c.JSON(http.StatusNotFound, body)
	case apperr.CodeItemNotAvailable:
		body["item_status"] = ae.Status
		return c.JSON(http.StatusConflict, body)
	case apperr.CodeLoanNotActive, apperr.CodeRenewalNotAllowed:
		return c.JSON(http.StatusConflict, body)
	case apperr.CodeRenewalLimitReached:
		body["max_renewals"] = ae.Max
		return c.JSON(http.StatusConflict, body)
	case apperr.CodePatronInactive:
		return c.JSON(http.StatusUnprocessableEntity, body)
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
