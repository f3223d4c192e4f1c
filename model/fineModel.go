// model/fine.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type FineType string

const (
	FineOverdue FineType = "OVERDUE"
)

type FineStatus string

const (
	FineUnpaid FineStatus = "UNPAID"
	FinePaid   FineStatus = "PAID"
)

type Fine struct {
	ID         int64           `json:"id"`
	LoanID     int64           `json:"loan_id"`
	PatronID   int64           `json:"patron_id"`
	ItemID     int64           `json:"item_id"`
	Type       FineType        `json:"fine_type"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Status is derived, never stored: a fine is PAID once payments cover it.
func (f *Fine) Status() FineStatus {
	if f.PaidAmount.GreaterThanOrEqual(f.Amount) {
		return FinePaid
	}
	return FineUnpaid
}
