package entity

import "time"

// Customer is the buyer party on an invoice. TaxID and Phone are optional;
// when absent the corresponding XML elements are omitted entirely.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
