package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		in      string
		dialect dialect
		dsn     string
	}{
		{"", dialectSQLite, "to-do.db"},
		{"  ", dialectSQLite, "to-do.db"},
		{"to-do.db", dialectSQLite, "to-do.db"},
		{":memory:", dialectSQLite, ":memory:"},
		{"sqlite:///data/to-do.db", dialectSQLite, "data/to-do.db"},
		{"sqlite://to-do.db", dialectSQLite, "to-do.db"},
		{"postgres://u:p@localhost/todo?sslmode=disable", dialectPostgres, "postgres://u:p@localhost/todo?sslmode=disable"},
		{"postgresql://localhost/todo", dialectPostgres, "postgresql://localhost/todo"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, dsn := parseDatabaseURL(tt.in)
			assert.Equal(t, tt.dialect, d)
			assert.Equal(t, tt.dsn, dsn)
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"},
		{"to-do.db", "to-do.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"},
		{"file:x.db?cache=shared", "file:x.db?cache=shared&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.in))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(errors.New("plain")))
	assert.False(t, isUniqueViolation(nil))

	dup := &pq.Error{Code: "23505"}
	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", dup)))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
}
