// model/loan.go
package model

import "time"

type Loan struct {
	ID           int64      `json:"id"`
	PatronID     int64      `json:"patron_id"`
	ItemID       int64      `json:"item_id"`
	IssuedAt     time.Time  `json:"issued_at"`
	DueAt        time.Time  `json:"due_at"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	RenewalCount int        `json:"renewal_count"`
}

// IsActive reports whether the loan is still outstanding.
func (l *Loan) IsActive() bool { return l.ReturnDate == nil }

// IsOverdue reports whether the loan is outstanding past its due date.
func (l *Loan) IsOverdue(asOf time.Time) bool {
	return l.IsActive() && asOf.After(l.DueAt)
}
