package model

import "time"

// Default attribution used when no acting user is known.
const (
	SystemUserID   = "system"
	SystemUserName = "Sistema"
)

// Client is the customer a quote is addressed to.
type Client struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Lastname        string    `json:"lastname"`
	WhatsappPhone   string    `json:"whatsapp_phone"`
	Email           string    `json:"email"`
	RFC             string    `json:"rfc"`
	CompanyName     string    `json:"company_name"`
	Phone           string    `json:"phone,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	CreatedByUserID string    `json:"created_by_user_id"`
	CreatedByName   string    `json:"created_by_name"`
	UpdatedByUserID string    `json:"updated_by_user_id"`
	UpdatedByName   string    `json:"updated_by_name"`
}

// FullName joins name and lastname for display.
func (c *Client) FullName() string {
	if c.Lastname == "" {
		return c.Name
	}
	return c.Name + " " + c.Lastname
}

// Actor is the acting seller, supplied by the session provider.
type Actor struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	BranchID    string `json:"branch_id"`
	BranchName  string `json:"branch_name"`
}
