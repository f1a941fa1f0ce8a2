package entity

import (
	"time"
)

// maxItemNameLength matches the VARCHAR(255) column backing item names.
const maxItemNameLength = 255

// Item represents a named record stored in the database.
type Item struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Validate validates the Item fields.
// The name is required and must fit the backing column.
func (i *Item) Validate() error {
	if i.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if len(i.Name) > maxItemNameLength {
		return &ValidationError{Field: "name", Message: "is too long"}
	}
	return nil
}
