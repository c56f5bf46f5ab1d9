package models

import (
	"time"
)

// Category groups transactions under a user-chosen label and glyph.
// Categories are partitioned per owner and never shared across owners.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateCategoryRequest struct {
	Name   string `json:"name" validate:"required"`
	Icon   string `json:"icon" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

// UpdateCategoryRequest carries the mutable fields of a category.
// ID, user_id and created_at are immutable after creation.
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon" validate:"required"`
}
