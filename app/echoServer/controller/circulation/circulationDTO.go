package circulation

type CheckoutReq struct {
	// Opaque references resolved to at most one patron/item each.
	PatronRef string `json:"patron_ref" validate:"required"`
	ItemRef   string `json:"item_ref" validate:"required"`
}

type CheckinReq struct {
	LoanID int64 `json:"loan_id" validate:"required,gt=0"`
}

type RenewReq struct {
	LoanID int64 `json:"loan_id" validate:"required,gt=0"`
}
