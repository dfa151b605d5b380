package models

import "github.com/gofiber/fiber/v2"

// APIResponse is the success envelope returned by every endpoint.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the failure envelope. Data is always null.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Code       string `json:"code,omitempty"`
}

// NewAPIResponse builds a success envelope; success is derived from the status.
func NewAPIResponse(status int, data any, message string) APIResponse {
	if message == "" {
		message = "Success"
	}
	return APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < fiber.StatusBadRequest,
	}
}

// Respond writes a success envelope with the given status.
func Respond(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(NewAPIResponse(status, data, message))
}
