// model/policy.go
package model

import "github.com/shopspring/decimal"

// Policy is the issuing rule for one (patron category, item type) pair.
// A FineCap of zero means the overdue fine accrues uncapped.
type Policy struct {
	ID                 int64           `json:"id"`
	PatronCategoryCode string          `json:"patron_category_code"`
	ItemTypeCode       string          `json:"item_type_code"`
	LoanDays           int             `json:"loan_days"`
	DailyFineRate      decimal.Decimal `json:"daily_fine_rate"`
	FineCap            decimal.Decimal `json:"fine_cap"`
	RenewalAllowed     bool            `json:"renewal_allowed"`
	MaxRenewals        int             `json:"max_renewals"`
}
