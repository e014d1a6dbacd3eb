package model

import "time"

// ContactSubmission is a contact form message accepted and persisted by the store.
type ContactSubmission struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Company     *string   `json:"company" db:"company"`
	Message     string    `json:"message" db:"message"`
	Website     *string   `json:"website" db:"website"` // honeypot; always nil once persisted
	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
}

// ContactDraft is a validated, trimmed submission that has not been stored yet.
type ContactDraft struct {
	Name    string
	Email   string
	Company string
	Message string
	Website string
}

// FieldError describes a single failing field in a submission payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
