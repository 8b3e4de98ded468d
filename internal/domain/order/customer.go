package order

import (
	"strings"
)

// Customer holds the contact details typed into the checkout form. Values
// are free text and are not persisted.
type Customer struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// MissingFieldError lists required checkout fields left empty.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Validate requires a non-empty name and phone number. Any text counts as
// present. Email and address are optional and unchecked.
func (c Customer) Validate() error {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}
