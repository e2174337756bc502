package domain

import "time"

type LeaseStatus string

const (
	LeaseStatusCurrent  LeaseStatus = "CURRENT"
	LeaseStatusUpcoming LeaseStatus = "UPCOMING"
	LeaseStatusEnded    LeaseStatus = "ENDED"
)

// Lease is the rental agreement backing a rental object. Loans may not
// be opened against a lease that has already ended.
type Lease struct {
	ID               int32       `json:"id"`
	RentalObjectCode string      `json:"rental_object_code"`
	ContactCodes     []string    `json:"contact_codes"`
	StartDate        time.Time   `json:"start_date"`
	EndDate          *time.Time  `json:"end_date,omitempty"`
	Status           LeaseStatus `json:"status"`
}

// EndedBy reports whether the lease has ended as of the given time.
func (l *Lease) EndedBy(now time.Time) bool {
	if l.Status == LeaseStatusEnded {
		return true
	}
	return l.EndDate != nil && l.EndDate.Before(now)
}
