package form

import (
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Field names as posted by the HTML forms.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldName        = "name"
	FieldDescription = "description"
	FieldStart       = "start_date"
	FieldEnd         = "end_date"
)

// MaxLength bounds every short text column.
const MaxLength = 250

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// DateTimeLayout is the value format of an <input type="datetime-local">.
const DateTimeLayout = "2006-01-02T15:04"

const dateTimeLayoutSeconds = "2006-01-02T15:04:05"

// Registration is a validated sign-up submission.
type Registration struct {
	Username string
	Email    string
	Password string
}

// Credentials is a validated login submission.
type Credentials struct {
	Email    string
	Password string
}

// TaskInput carries the four user-editable task fields.
type TaskInput struct {
	Name        string
	Description string
	Start       time.Time
	End         time.Time
}

// ParseRegistration validates a sign-up form. The email is normalised to
// trimmed lower case.
func ParseRegistration(values url.Values) (Registration, error) {
	ve := &ValidationError{}
	reg := Registration{
		Username: strings.TrimSpace(values.Get(FieldUsername)),
		Email:    normaliseEmail(values.Get(FieldEmail)),
		Password: values.Get(FieldPassword),
	}

	requireText(ve, FieldUsername, reg.Username)

	switch {
	case reg.Email == "":
		ve.Add(FieldEmail, "This field is required.")
	case utf8.RuneCountInString(reg.Email) > MaxLength:
		ve.Add(FieldEmail, "Email is too long.")
	case !validEmail(reg.Email):
		ve.Add(FieldEmail, "Invalid email address.")
	}

	switch {
	case reg.Password == "":
		ve.Add(FieldPassword, "This field is required.")
	case len(reg.Password) > maxPasswordBytes:
		ve.Add(FieldPassword, "Password must be at most 72 bytes.")
	}

	return reg, ve.err()
}

// ParseCredentials validates a login form. Only presence is checked; a
// malformed email simply matches no account.
func ParseCredentials(values url.Values) (Credentials, error) {
	ve := &ValidationError{}
	cred := Credentials{
		Email:    normaliseEmail(values.Get(FieldEmail)),
		Password: values.Get(FieldPassword),
	}
	if cred.Email == "" {
		ve.Add(FieldEmail, "This field is required.")
	}
	if cred.Password == "" {
		ve.Add(FieldPassword, "This field is required.")
	}
	return cred, ve.err()
}

// ParseTask validates a create or edit task form. Datetimes are read as UTC.
func ParseTask(values url.Values) (TaskInput, error) {
	ve := &ValidationError{}
	in := TaskInput{
		Name:        strings.TrimSpace(values.Get(FieldName)),
		Description: values.Get(FieldDescription),
	}

	requireText(ve, FieldName, in.Name)
	if strings.TrimSpace(in.Description) == "" {
		ve.Add(FieldDescription, "This field is required.")
	}

	var startOK, endOK bool
	in.Start, startOK = parseDateTime(ve, FieldStart, values.Get(FieldStart))
	in.End, endOK = parseDateTime(ve, FieldEnd, values.Get(FieldEnd))
	if startOK && endOK && in.End.Before(in.Start) {
		ve.Add(FieldEnd, "End date must not be before the start date.")
	}

	return in, ve.err()
}

// Values renders the input back into form values, for prefilling the edit
// form.
func (in TaskInput) Values() url.Values {
	return url.Values{
		FieldName:        {in.Name},
		FieldDescription: {in.Description},
		FieldStart:       {FormatDateTime(in.Start)},
		FieldEnd:         {FormatDateTime(in.End)},
	}
}

// FormatDateTime formats t for a datetime-local input. Seconds are kept
// when set so an unchanged edit parses back to the same instant.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	if t.Second() != 0 {
		return t.Format(dateTimeLayoutSeconds)
	}
	return t.Format(DateTimeLayout)
}

func requireText(ve *ValidationError, field, value string) {
	switch {
	case value == "":
		ve.Add(field, "This field is required.")
	case utf8.RuneCountInString(value) > MaxLength:
		ve.Add(field, "Must be at most 250 characters.")
	}
}

func parseDateTime(ve *ValidationError, field, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		ve.Add(field, "This field is required.")
		return time.Time{}, false
	}
	for _, layout := range []string{DateTimeLayout, dateTimeLayoutSeconds} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	ve.Add(field, "Not a valid datetime value.")
	return time.Time{}, false
}

func normaliseEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// validEmail accepts a bare addr-spec with a dotted domain.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
