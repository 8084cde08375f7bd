package uuid

import "github.com/google/uuid"

type UUID interface {
	NewUUID() string
}

// DefaultUUID implements the UUID interface with time-ordered version 7 UUIDs,
// so ids sort in creation order.
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new UUID
func (d *DefaultUUID) NewUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
