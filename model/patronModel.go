// model/patron.go
package model

import "time"

type Patron struct {
	ID           int64      `json:"id"`
	CardNumber   string     `json:"card_number"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email,omitempty"`
	CategoryCode string     `json:"category_code"`
	IsActive     bool       `json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}
