package finesvc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dendup1234/Koha-lite/model"
)

// OverdueDays returns the number of whole calendar days asOf is past dueAt.
// The difference is taken between calendar dates, not elapsed hours: a loan
// due at 23:59 and returned at 00:01 the next day is 1 day overdue.
func OverdueDays(asOf, dueAt time.Time) int {
	if !asOf.After(dueAt) {
		return 0
	}
	a := asOf.UTC()
	d := dueAt.UTC()
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	dDay := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	days := int(aDay.Sub(dDay) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// OverdueAmount computes the accrued overdue fine for a loan due at dueAt
// under policy p, as of asOf. A positive FineCap bounds the total.
func OverdueAmount(p *model.Policy, dueAt, asOf time.Time) decimal.Decimal {
	days := OverdueDays(asOf, dueAt)
	base := p.DailyFineRate.Mul(decimal.NewFromInt(int64(days)))
	if p.FineCap.IsPositive() && base.GreaterThan(p.FineCap) {
		return p.FineCap
	}
	return base
}
