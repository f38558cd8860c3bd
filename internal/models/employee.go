package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a directory record, read-only input to the aggregation
// engine and the directory resolver.
type Employee struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Email      string    `json:"email" db:"email"`
	Name       string    `json:"name" db:"name"`
	Role       string    `json:"role" db:"role"`
	Department string    `json:"department" db:"department"`
	Location   string    `json:"location" db:"location"`
	Guidance   string    `json:"guidance,omitempty" db:"guidance"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
