// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// IDResponse contains created entity ID.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse contains operation result.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
