package item

type ItemReq struct {
	AccessionNumber string `json:"accession_number" validate:"required"`
	Title           string `json:"title" validate:"required"`
	ItemTypeCode    string `json:"item_type_code" validate:"required"`
	BranchCode      string `json:"branch_code" validate:"required"`
	Status          string `json:"status" validate:"omitempty,oneof=AVAILABLE ISSUED OVERDUE LOST"`
}
