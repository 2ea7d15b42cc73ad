package contact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule describes the constraints on one form field.
type Rule struct {
	Field     string
	Label     string
	Required  bool
	MaxLength int
	Pattern   *regexp.Regexp
	// Hint is reported when Pattern does not match.
	Hint string
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().-]*$`)

// PersonRules apply to PersonFields.
var PersonRules = []Rule{
	{Field: "firstName", Label: "First name", Required: true, MaxLength: 100},
	{Field: "lastName", Label: "Last name", Required: true, MaxLength: 100},
}

// PhoneRules apply to PhoneFields.
var PhoneRules = []Rule{
	{
		Field: "phone", Label: "Phone", Required: true, MaxLength: 32,
		Pattern: phonePattern, Hint: "must contain digits and optional + ( ) - . separators",
	},
	{Field: "kind", Label: "Kind", Required: true, MaxLength: 32},
}

// FieldError is a single rule violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every violated rule of a submission.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Check returns the violation of value against r, if any.
func (r Rule) Check(value string) (FieldError, bool) {
	switch {
	case r.Required && value == "":
		return FieldError{Field: r.Field, Message: r.Label + " is required"}, false
	case r.MaxLength > 0 && utf8.RuneCountInString(value) > r.MaxLength:
		return FieldError{
			Field:   r.Field,
			Message: fmt.Sprintf("%s must be at most %d characters", r.Label, r.MaxLength),
		}, false
	case value != "" && r.Pattern != nil && !r.Pattern.MatchString(value):
		return FieldError{Field: r.Field, Message: r.Label + " " + r.Hint}, false
	}
	return FieldError{}, true
}

func validate(rules []Rule, values map[string]string) error {
	var errs []FieldError
	for _, r := range rules {
		if fe, ok := r.Check(values[r.Field]); !ok {
			errs = append(errs, fe)
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Normalize trims surrounding whitespace.
func (f PersonFields) Normalize() PersonFields {
	return PersonFields{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
	}
}

// Validate applies PersonRules.
func (f PersonFields) Validate() error {
	return validate(PersonRules, map[string]string{
		"firstName": f.FirstName,
		"lastName":  f.LastName,
	})
}

// Normalize trims surrounding whitespace.
func (f PhoneFields) Normalize() PhoneFields {
	return PhoneFields{
		Phone: strings.TrimSpace(f.Phone),
		Kind:  strings.TrimSpace(f.Kind),
	}
}

// Validate applies PhoneRules.
func (f PhoneFields) Validate() error {
	return validate(PhoneRules, map[string]string{
		"phone": f.Phone,
		"kind":  f.Kind,
	})
}
