package handler

import (
	"encoding/json"
	"time"
)

// errorResponse is the standard error envelope returned on 401/403/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationErrorResponse documents the 400 body: field name to messages.
type validationErrorResponse map[string][]string

// --- Request / Response types ---

// companyRequest is the body accepted by create and update. Owner accepts any
// JSON value so that clients sending it are not rejected; it is never applied.
type companyRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Website     string          `json:"website"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Owner       json.RawMessage `json:"owner,omitempty" swaggerignore:"true"`
}

type companyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
