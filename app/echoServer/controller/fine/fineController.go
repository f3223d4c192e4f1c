package fine

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Dendup1234/Koha-lite/model"
	circsvc "github.com/Dendup1234/Koha-lite/service/circulation"
	finesvc "github.com/Dendup1234/Koha-lite/service/fine"
	"github.com/Dendup1234/Koha-lite/util/apperr"
)

type Controller struct {
	Svc     finesvc.Service
	Sweeper circsvc.Sweeper
	Log     *slog.Logger
}

// GET /v1/fines/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	f, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeErr(c, "get fine", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": fineJSON(f)})
}

// GET /v1/fines?patron_id=
func (h *Controller) ListByPatron(c echo.Context) error {
	pid, err := strconv.ParseInt(c.QueryParam("patron_id"), 10, 64)
	if err != nil || pid <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "patron_id is required"})
	}
	fines, err := h.Svc.ListByPatron(c.Request().Context(), pid)
	if err != nil {
		return h.writeErr(c, "list fines", err)
	}
	out := make([]echo.Map, 0, len(fines))
	for i := range fines {
		out = append(out, fineJSON(&fines[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// POST /v1/fines/:id/payments
func (h *Controller) Pay(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req PayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}

	f, err := h.Svc.Pay(c.Request().Context(), id, req.Amount)
	if err != nil {
		return h.writeErr(c, "pay fine", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": fineJSON(f)})
}

// POST /v1/fines/sweep
func (h *Controller) Sweep(c echo.Context) error {
	var req SweepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	n, err := h.Sweeper.Accrue(c.Request().Context(), asOf)
	if err != nil {
		return h.writeErr(c, "overdue sweep", err)
	}
	h.Log.Info("overdue sweep", "as_of", asOf, "updated", n)
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

func fineJSON(f *model.Fine) echo.Map {
	return echo.Map{
		"id":          f.ID,
		"loan_id":     f.LoanID,
		"patron_id":   f.PatronID,
		"item_id":     f.ItemID,
		"fine_type":   f.Type,
		"amount":      f.Amount,
		"paid_amount": f.PaidAmount,
		"status":      f.Status(),
		"created_at":  f.CreatedAt,
		"updated_at":  f.UpdatedAt,
	}
}

func (h *Controller) writeErr(c echo.Context, op string, err error) error {
	ae := apperr.Get(err)
	if ae == nil {
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	body := echo.Map{"code": ae.Code, "message": ae.Error()}
	switch ae.Code {
	case apperr.CodeNotFound, apperr.CodePolicyNotFound:
		return c.JSON(http.StatusNotFound, body)
	case apperr.CodeInvalidPayment:
		return c.JSON(http.StatusUnprocessableEntity, body)
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
