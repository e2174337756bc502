package domain

import "time"

type KeyType string

const (
	KeyTypeApartment   KeyType = "APARTMENT"
	KeyTypeCommon      KeyType = "COMMON"
	KeyTypeGarage      KeyType = "GARAGE"
	KeyTypeMailbox     KeyType = "MAILBOX"
	KeyTypeMaintenance KeyType = "MAINTENANCE"
)

// Key is a single physical key. Keys sharing (Name, Type) on a rental
// object form one logical key across flex generations; FlexNumber tells
// the generations apart. A nil FlexNumber means the generation is
// unknown (legacy stock imported without a baseline).
type Key struct {
	ID               int32      `json:"id"`
	RentalObjectCode string     `json:"rental_object_code"`
	Name             string     `json:"name"`
	Type             KeyType    `json:"type"`
	SequenceNumber   int32      `json:"sequence_number"`
	FlexNumber       *int32     `json:"flex_number,omitempty"`
	Disposed         bool       `json:"disposed"`
	DisposedOn       *time.Time `json:"disposed_on,omitempty"`
	KeySystemID      *int32     `json:"key_system_id,omitempty"`
	CreatedOn        time.Time  `json:"created_on"`
}

// FlexGroup identifies one logical key (all generations of it).
type FlexGroup struct {
	Name string  `json:"name"`
	Type KeyType `json:"type"`
}

func (k *Key) Group() FlexGroup {
	return FlexGroup{Name: k.Name, Type: k.Type}
}

// KeySystem is the lock system a key is cut for.
type KeySystem struct {
	ID         int32  `json:"id"`
	SystemCode string `json:"system_code"`
	Caption    string `json:"caption"`
}
