package domain

import "unicode/utf16"

// FieldID identifies one input of the contact form.
type FieldID string

const (
	FieldName    FieldID = "name"
	FieldEmail   FieldID = "email"
	FieldSubject FieldID = "subject"
	FieldMessage FieldID = "message"
)

// FieldKind selects the kind-specific validation rule of a field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindLongText FieldKind = "longtext"
)

// Field is a single form input together with its presentation state.
type Field struct {
	ID       FieldID   `json:"id"`
	Value    string    `json:"value"`
	Required bool      `json:"required"`
	Kind     FieldKind `json:"kind"`

	// Invalid mirrors the "error" class on the field group.
	Invalid bool `json:"invalid,omitempty"`
	// Error is the inline error text shown under the field.
	Error string `json:"error,omitempty"`
}

// ValidationResult is the outcome of validating one field.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Valid is the result of a field that passed every rule.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid builds a failing result with the given message.
func Invalid(msg string) ValidationResult {
	return ValidationResult{Valid: false, Message: msg}
}

// ContactFields returns the pristine fields of the contact form, in page order.
func ContactFields() []Field {
	return []Field{
		{ID: FieldName, Required: true, Kind: KindText},
		{ID: FieldEmail, Required: true, Kind: KindEmail},
		{ID: FieldSubject, Required: true, Kind: KindText},
		{ID: FieldMessage, Required: true, Kind: KindLongText},
	}
}

// TextLength measures s in UTF-16 code units, the unit browsers use for the
// length of an input value. Characters outside the BMP count twice.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
