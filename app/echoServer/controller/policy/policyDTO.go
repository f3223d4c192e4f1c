package policy

import "github.com/shopspring/decimal"

type PolicyReq struct {
	PatronCategoryCode string          `json:"patron_category_code" validate:"required"`
	ItemTypeCode       string          `json:"item_type_code" validate:"required"`
	LoanDays           int             `json:"loan_days" validate:"required,gt=0"`
	DailyFineRate      decimal.Decimal `json:"daily_fine_rate"`
	FineCap            decimal.Decimal `json:"fine_cap"`
	RenewalAllowed     bool            `json:"renewal_allowed"`
	MaxRenewals        int             `json:"max_renewals" validate:"gte=0"`
}
