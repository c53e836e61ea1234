package models

// MarkRequest represents the request body for POST /api/mark.
type MarkRequest struct {
	Date   string `json:"date" binding:"required" validate:"required"`
	User   string `json:"user" binding:"required" validate:"required"`
	Status Status `json:"status" binding:"required" validate:"required,oneof=done missed"`
}

// CloseDayRequest represents the request body for POST /api/close-day.
type CloseDayRequest struct {
	Date string `json:"date" binding:"required" validate:"required"`
}

// InitRequest represents the request body for POST /api/init.
// At least one user is required and names must be non-empty.
type InitRequest struct {
	Users []string `json:"users" binding:"required" validate:"required,min=1,dive,required"`
}

// CloseDayResponse is returned by POST /api/close-day.
type CloseDayResponse struct {
	OK      bool `json:"ok"`
	Changed int  `json:"changed"`
}
