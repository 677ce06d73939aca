package http

import "github.com/astexai/waitlist-backend/internal/domain/model"

// RegisterRequest is the registration form as posted by the landing page.
// Field checks are done by the service so the API and the CLI share them.
type RegisterRequest struct {
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	Company    string   `json:"company"`
	Niches     []string `json:"niches"`
	OtherNiche *string  `json:"other_niche"`
	Recommend  *string  `json:"recommend"`
}

func (r *RegisterRequest) toEntry() *model.WhitelistEntry {
	return &model.WhitelistEntry{
		Name:       r.Name,
		Phone:      r.Phone,
		Email:      r.Email,
		Company:    r.Company,
		Niches:     r.Niches,
		OtherNiche: r.OtherNiche,
		Recommend:  r.Recommend,
	}
}

// RegisterResponse is returned once the entry is stored, whatever happened to the notifications.
type RegisterResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	EmailError    string `json:"email_error,omitempty"`
	WhatsAppError string `json:"whatsapp_error,omitempty"`
}

// ErrorResponse defines a standard structure for API error responses.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
