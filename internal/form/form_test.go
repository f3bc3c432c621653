package form

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegistration(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantField string
	}{
		{
			name:   "valid",
			values: url.Values{"username": {"alice"}, "email": {"Alice@Example.com "}, "password": {"s3cret"}},
		},
		{
			name:      "missing username",
			values:    url.Values{"email": {"a@example.com"}, "password": {"x"}},
			wantField: FieldUsername,
		},
		{
			name:      "blank username",
			values:    url.Values{"username": {"   "}, "email": {"a@example.com"}, "password": {"x"}},
			wantField: FieldUsername,
		},
		{
			name:      "missing email",
			values:    url.Values{"username": {"alice"}, "password": {"x"}},
			wantField: FieldEmail,
		},
		{
			name:      "malformed email",
			values:    url.Values{"username": {"alice"}, "email": {"not-an-email"}, "password": {"x"}},
			wantField: FieldEmail,
		},
		{
			name:      "display name email",
			values:    url.Values{"username": {"alice"}, "email": {"Alice <a@example.com>"}, "password": {"x"}},
			wantField: FieldEmail,
		},
		{
			name:      "email without dotted domain",
			values:    url.Values{"username": {"alice"}, "email": {"a@localhost"}, "password": {"x"}},
			wantField: FieldEmail,
		},
		{
			name:      "missing password",
			values:    url.Values{"username": {"alice"}, "email": {"a@example.com"}},
			wantField: FieldPassword,
		},
		{
			name:      "password too long",
			values:    url.Values{"username": {"alice"}, "email": {"a@example.com"}, "password": {strings.Repeat("p", 73)}},
			wantField: FieldPassword,
		},
		{
			name:      "username too long",
			values:    url.Values{"username": {strings.Repeat("u", 251)}, "email": {"a@example.com"}, "password": {"x"}},
			wantField: FieldUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := ParseRegistration(tt.values)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "alice", reg.Username)
				assert.Equal(t, "alice@example.com", reg.Email)
				assert.Equal(t, "s3cret", reg.Password)
				return
			}
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.NotEmpty(t, ve.Field(tt.wantField))
		})
	}
}

func TestParseRegistration_ReportsEveryField(t *testing.T) {
	_, err := ParseRegistration(url.Values{})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Errors, 3)
	assert.Equal(t, "This field is required.", ve.Field(FieldUsername))
	assert.Equal(t, "This field is required.", ve.Field(FieldEmail))
	assert.Equal(t, "This field is required.", ve.Field(FieldPassword))
	assert.Empty(t, ve.Field(FieldName))
}

func TestParseCredentials(t *testing.T) {
	cred, err := ParseCredentials(url.Values{"email": {" BOB@example.com"}, "password": {"pw"}})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", cred.Email)
	assert.Equal(t, "pw", cred.Password)

	_, err = ParseCredentials(url.Values{"email": {"bob@example.com"}})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.Field(FieldPassword))
	assert.Empty(t, ve.Field(FieldEmail))
}

func TestParseTask(t *testing.T) {
	valid := func() url.Values {
		return url.Values{
			"name":        {"Ship report"},
			"description": {"<p>Q3 numbers</p>"},
			"start_date":  {"2024-01-01T09:00"},
			"end_date":    {"2024-01-01T17:00"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		in, err := ParseTask(valid())
		require.NoError(t, err)
		assert.Equal(t, "Ship report", in.Name)
		assert.Equal(t, "<p>Q3 numbers</p>", in.Description)
		assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), in.Start)
		assert.Equal(t, time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC), in.End)
	})

	t.Run("seconds accepted", func(t *testing.T) {
		v := valid()
		v.Set("start_date", "2024-01-01T09:00:30")
		in, err := ParseTask(v)
		require.NoError(t, err)
		assert.Equal(t, 30, in.Start.Second())
	})

	t.Run("start equals end", func(t *testing.T) {
		v := valid()
		v.Set("end_date", "2024-01-01T09:00")
		_, err := ParseTask(v)
		assert.NoError(t, err)
	})

	tests := []struct {
		name      string
		mutate    func(url.Values)
		wantField string
	}{
		{"missing name", func(v url.Values) { v.Del("name") }, FieldName},
		{"missing description", func(v url.Values) { v.Set("description", " ") }, FieldDescription},
		{"missing start", func(v url.Values) { v.Del("start_date") }, FieldStart},
		{"malformed start", func(v url.Values) { v.Set("start_date", "01/01/2024 9am") }, FieldStart},
		{"malformed end", func(v url.Values) { v.Set("end_date", "2024-13-01T09:00") }, FieldEnd},
		{"end before start", func(v url.Values) { v.Set("end_date", "2023-12-31T23:59") }, FieldEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valid()
			tt.mutate(v)
			_, err := ParseTask(v)
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.NotEmpty(t, ve.Field(tt.wantField))
		})
	}
}

func TestTaskInputValues(t *testing.T) {
	in := TaskInput{
		Name:        "Ship report",
		Description: "d",
		Start:       time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
	}
	v := in.Values()
	assert.Equal(t, "2024-01-01T09:00", v.Get(FieldStart))
	assert.Equal(t, "2024-01-01T17:00", v.Get(FieldEnd))

	back, err := ParseTask(v)
	require.NoError(t, err)
	assert.Equal(t, in, back)
	assert.Empty(t, FormatDateTime(time.Time{}))
}

func TestFormatDateTime_KeepsSeconds(t *testing.T) {
	v := url.Values{
		FieldName:        {"Ship report"},
		FieldDescription: {"d"},
		FieldStart:       {"2024-01-01T09:00:30"},
		FieldEnd:         {"2024-01-01T17:00"},
	}
	in, err := ParseTask(v)
	require.NoError(t, err)

	prefill := in.Values()
	assert.Equal(t, "2024-01-01T09:00:30", prefill.Get(FieldStart))
	assert.Equal(t, "2024-01-01T17:00", prefill.Get(FieldEnd))

	again, err := ParseTask(prefill)
	require.NoError(t, err)
	assert.True(t, in.Start.Equal(again.Start))
	assert.True(t, in.End.Equal(again.End))
}

func TestValidationErrorMessage(t *testing.T) {
	ve := &ValidationError{}
	assert.Equal(t, "validation error", ve.Error())
	ve.Add("name", "required")
	ve.Add("end_date", "bad")
	assert.Equal(t, "validation error: name: required; end_date: bad", ve.Error())

	var nilErr *ValidationError
	assert.Empty(t, nilErr.Field("name"))
	assert.False(t, nilErr.HasErrors())
}
