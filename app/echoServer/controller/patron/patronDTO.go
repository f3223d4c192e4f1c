package patron

import "time"

type PatronReq struct {
	CardNumber   string     `json:"card_number" validate:"required"`
	FirstName    string     `json:"first_name" validate:"required"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email" validate:"omitempty,email"`
	CategoryCode string     `json:"category_code" validate:"required"`
	IsActive     *bool      `json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at"`
}
