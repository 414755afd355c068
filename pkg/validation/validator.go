package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/aretw0/folio/pkg/domain"
)

// emailPattern accepts a non-empty local part, an "@", a domain part, a literal
// dot and a suffix, none of which may contain whitespace or another "@".
// RE2's \s is ASCII only, so the class also spells out \v, the Unicode
// separators and the BOM.
var emailPattern = regexp.MustCompile(`^[^\s\x{0B}\p{Z}\x{FEFF}@]+@[^\s\x{0B}\p{Z}\x{FEFF}@]+\.[^\s\x{0B}\p{Z}\x{FEFF}@]+$`)

// Rule checks one aspect of a field. It returns the failure message and false
// when the field breaks the rule.
type Rule func(f domain.Field) (string, bool)

// Rules returns the ordered rule set of the contact form.
func Rules() []Rule {
	return []Rule{requiredRule, emailRule, messageLengthRule}
}

// isBlank matches the browser's notion of white space: Unicode White_Space
// without U+0085, plus the BOM.
func isBlank(r rune) bool {
	return r == '\uFEFF' || (r != '\u0085' && unicode.IsSpace(r))
}

// Trim removes leading and trailing white space as the page script does.
func Trim(s string) string {
	return strings.TrimFunc(s, isBlank)
}

func requiredRule(f domain.Field) (string, bool) {
	if Trim(f.Value) == "" {
		return domain.MsgRequired, false
	}
	return "", true
}

func emailRule(f domain.Field) (string, bool) {
	if f.Kind == domain.KindEmail && !IsEmail(f.Value) {
		return domain.MsgInvalidEmail, false
	}
	return "", true
}

func messageLengthRule(f domain.Field) (string, bool) {
	if f.ID == domain.FieldMessage && domain.TextLength(Trim(f.Value)) < domain.MessageMinLength {
		return domain.MsgMessageShort, false
	}
	return "", true
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate evaluates the rules against the field and returns the first failure.
// Every field of the contact form is required, so the emptiness check applies
// regardless of the Required flag.
func Validate(f domain.Field) domain.ValidationResult {
	for _, rule := range Rules() {
		if msg, ok := rule(f); !ok {
			return domain.Invalid(msg)
		}
	}
	return domain.Valid()
}

// Apply validates the field and updates its presentation state accordingly.
func Apply(f *domain.Field) domain.ValidationResult {
	res := Validate(*f)
	f.Invalid = !res.Valid
	f.Error = res.Message
	return res
}

// ValidateAll applies the validator to every field, without stopping at the
// first failure, so that all errors surface at once. It returns true only when
// every field is valid.
func ValidateAll(fields []domain.Field) (bool, map[domain.FieldID]domain.ValidationResult) {
	results := make(map[domain.FieldID]domain.ValidationResult, len(fields))
	ok := true
	for i := range fields {
		res := Apply(&fields[i])
		results[fields[i].ID] = res
		if !res.Valid {
			ok = false
		}
	}
	return ok, results
}

// ShouldValidate reports whether an interaction of the given type must
// re-validate the field: always on blur, and on input only while the field is
// currently in the error state.
func ShouldValidate(trigger domain.EventType, f domain.Field) bool {
	switch trigger {
	case domain.EventBlur:
		return true
	case domain.EventInput:
		return f.Invalid
	default:
		return false
	}
}
