package dto

import "github.com/google/uuid"

type CreateEmployeeRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Location   string `json:"location" binding:"required"`
	Guidance   string `json:"guidance"`
}

type EmployeeResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	Location   string    `json:"location"`
	Guidance   string    `json:"guidance,omitempty"`
	CreatedAt  string    `json:"created_at"`
}
