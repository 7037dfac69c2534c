package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include Account and Post.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Log is read-and-append access to records that are never changed once written.
type Log[T Model] interface {
	Create(model T) error     // Create inserts a new model into the database
	Get(id string) (T, error) // Get retrieves a model by its ID
}

// Repository defines the interface for data access operations on mutable records.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Log[T]
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

var (
	_ Model = (*Account)(nil)
	_ Model = (*Post)(nil)
)
