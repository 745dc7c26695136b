package domain

import "time"

// Action names the operation a caller attempted on an owned record.
type Action string

const (
	ActionRead   Action = "read"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Company is the core aggregate root. Owner is the ID of the user that
// created it and is never reassigned.
type Company struct {
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

// OwnedBy reports whether userID is the owner of the company.
func (c *Company) OwnedBy(userID string) bool {
	return userID != "" && c.Owner == userID
}

// Authorize returns an *OwnershipError when userID may not perform action on c.
func (c *Company) Authorize(userID string, action Action) error {
	if !c.OwnedBy(userID) {
		return &OwnershipError{Action: action}
	}
	return nil
}
