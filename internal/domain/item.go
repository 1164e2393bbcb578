package domain

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemUpdate carries the fields of a partial update. A nil field means
// "leave the stored value unchanged".
type ItemUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	InStock     *bool
}
