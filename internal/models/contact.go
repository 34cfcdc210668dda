package models

// ContactSubmission заявка с контактной формы.
// Теги validate задают схему, которую проверяет сервис contact.
type ContactSubmission struct {
	ContactType    string `json:"contactType" validate:"required,oneof=general sales support partnership press"`
	TargetEmail    string `json:"targetEmail" validate:"required,email"`
	Name           string `json:"name" validate:"required,max=200"`
	Email          string `json:"email" validate:"required,email"`
	Company        string `json:"company,omitempty" validate:"omitempty,max=200"`
	Employees      string `json:"employees,omitempty" validate:"omitempty,oneof=1-10 11-50 51-200 201-1000 1000+"`
	Message        string `json:"message" validate:"required,min=10,max=5000"`
	Agree          bool   `json:"agree" validate:"required"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

// ContactMessage сообщение, которое уходит в очередь на отправку письма.
type ContactMessage struct {
	ID          string `json:"id"`
	ContactType string `json:"contactType"`
	TargetEmail string `json:"targetEmail"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Employees   string `json:"employees,omitempty"`
	Message     string `json:"message"`
}
