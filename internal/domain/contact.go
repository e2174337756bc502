package domain

// Contact is a tenant or maintenance worker keys can be lent to.
// Contacts are owned by the tenant registry; this is the slice the key
// lifecycle needs.
type Contact struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
