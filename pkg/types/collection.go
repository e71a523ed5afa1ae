package types

import "time"

// Default collection seeded into an empty database.
const (
	DefaultCollectionName        = "Default Collection"
	DefaultCollectionDescription = "Your default collection of diagrams"
)

// Collection is a named grouping that owns zero or more diagrams.
type Collection struct {
	ID          int64     `json:"id"`          // Assigned by storage, never reused.
	Name        string    `json:"name"`        // Required, non-blank.
	Description *string   `json:"description"` // Optional; nil serializes as null.
	CreatedAt   time.Time `json:"created_at"`  // Set once at insert.
	UpdatedAt   time.Time `json:"updated_at"`  // Refreshed on every update.
}

// DescriptionOrEmpty returns the description, or "" when it is unset.
func (c *Collection) DescriptionOrEmpty() string {
	if c.Description == nil {
		return ""
	}
	return *c.Description
}
