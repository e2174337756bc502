package domain

// Notification is an in-portal message for property managers (flex
// batch received, loan never picked up, and similar workflow nudges).
type Notification struct {
	ID         int32             `json:"id"`
	OperatorID int32             `json:"operator_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  string            `json:"created_on"`
}
