// model/item.go
package model

type ItemStatus string

const (
	ItemAvailable ItemStatus = "AVAILABLE"
	ItemIssued    ItemStatus = "ISSUED"
	ItemOverdue   ItemStatus = "OVERDUE"
	ItemLost      ItemStatus = "LOST"
)

type Item struct {
	ID              int64      `json:"id"`
	AccessionNumber string     `json:"accession_number"`
	Title           string     `json:"title"`
	ItemTypeCode    string     `json:"item_type_code"`
	BranchCode      string     `json:"branch_code"`
	Status          ItemStatus `json:"status"`
}
