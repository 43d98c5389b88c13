package handler

import "github.com/99minutos/users-api/internal/core/domain"

// userRequest holds the attributes that must be present on create and replace.
type userRequest struct {
	Name string `json:"name" validate:"required"`
	Bio  string `json:"bio"  validate:"required"`
}

// Every response shares the {success, data, message} envelope.

type userResponse struct {
	Success bool        `json:"success"`
	Data    domain.User `json:"data"`
}

type userListResponse struct {
	Success bool          `json:"success"`
	Data    []domain.User `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorResponse documents the failure envelope rendered by the HTTP error handler.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"The user with the specified ID does not exist."`
}
