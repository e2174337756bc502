package domain

import "time"

// CardCode is one physical code printed on or programmed into a card.
type CardCode struct {
	Format string `json:"format"`
	Number string `json:"number"`
}

// Card is an access card for a rental object.
type Card struct {
	ID               int32      `json:"id"`
	RentalObjectCode string     `json:"rental_object_code"`
	Name             string     `json:"name"`
	Disabled         bool       `json:"disabled"`
	Codes            []CardCode `json:"codes"`
	OwnerContactCode *string    `json:"owner_contact_code,omitempty"`
	CreatedOn        time.Time  `json:"created_on"`
}
