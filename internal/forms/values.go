package forms

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Values holds normalised input keyed by field name.
type Values map[string]string

// Get returns the value for name.
func (v Values) Get(name string) string {
	if v == nil {
		return ""
	}
	return v[name]
}

// Checked reports whether a checkbox value is set.
func (v Values) Checked(name string) bool {
	return isTruthy(v.Get(name))
}

// Initial returns the form's reset state.
func (d Definition) Initial() Values {
	out := make(Values, len(d.Fields))
	for _, f := range d.Fields {
		out[f.Name] = f.Default
	}
	return out
}

// Parse extracts the form's named inputs from a request body. Unknown keys are dropped.
func (d Definition) Parse(form url.Values) Values {
	out := make(Values, len(d.Fields))
	for _, f := range d.Fields {
		raw := form.Get(f.Name)
		if f.Type == FieldCheckbox {
			if isTruthy(raw) {
				out[f.Name] = "true"
			} else {
				out[f.Name] = ""
			}
			continue
		}
		out[f.Name] = normalize(raw)
	}
	return out
}

// FieldError names a failing field.
type FieldError struct {
	Field  string
	Label  string
	Reason string
	Limit  int
}

const (
	ReasonRequired = "required"
	ReasonInvalid  = "invalid"
	ReasonTooLong  = "too_long"
)

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Form   Kind
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field+":"+f.Reason)
	}
	return fmt.Sprintf("forms: %s failed validation (%s)", e.Form, strings.Join(names, ", "))
}

// Message is the single banner text for the failure. Missing or invalid values win
// over length violations.
func (e *ValidationError) Message() string {
	var tooLong *FieldError
	for i := range e.Fields {
		switch e.Fields[i].Reason {
		case ReasonRequired, ReasonInvalid:
			return MessageRequired
		case ReasonTooLong:
			if tooLong == nil {
				tooLong = &e.Fields[i]
			}
		}
	}
	if tooLong != nil {
		return fmt.Sprintf("%s must be %d characters or fewer.", tooLong.Label, tooLong.Limit)
	}
	return MessageRequired
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validate checks required fields, enumerations, email shape and rune limits.
func (d Definition) Validate(values Values) error {
	var failures []FieldError
	for _, f := range d.Fields {
		value := values.Get(f.Name)
		fail := func(reason string) {
			failures = append(failures, FieldError{Field: f.Name, Label: f.Label, Reason: reason, Limit: f.MaxRunes})
		}
		if value == "" {
			if f.Required {
				fail(ReasonRequired)
			}
			continue
		}
		switch {
		case f.Type == FieldCheckbox:
		case !utf8.ValidString(value):
			fail(ReasonInvalid)
		case !f.Allows(value):
			fail(ReasonInvalid)
		case f.Type == FieldEmail && !validEmail(value):
			fail(ReasonInvalid)
		case f.Type == FieldURL && !validURL(value):
			fail(ReasonInvalid)
		case f.MaxRunes > 0 && utf8.RuneCountInString(value) > f.MaxRunes:
			fail(ReasonTooLong)
		}
	}
	if len(failures) > 0 {
		return &ValidationError{Form: d.Kind, Fields: failures}
	}
	return nil
}

// Record converts values to the stored document fields.
func (d Definition) Record(values Values) map[string]any {
	out := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		if f.Type == FieldCheckbox {
			out[f.Name] = values.Checked(f.Name)
			continue
		}
		out[f.Name] = values.Get(f.Name)
	}
	return out
}

func normalize(raw string) string {
	return strings.TrimSpace(norm.NFC.String(raw))
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	if at <= 0 {
		return false
	}
	domain := value[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func validURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
