package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSafeRedirect(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"/home/1", true},
		{"/edit/3?x=1", true},
		{"edit/3", true},
		{"http://todo.test/home/1", true},
		{"https://todo.test/home/1", true},
		{"http://TODO.test/home/1", true},
		{"", false},
		{"http://evil.test/", false},
		{"//evil.test/home", false},
		{"https://todo.test.evil.test/", false},
		{"http://todo.test:9999/", false},
		{"javascript:alert(1)", false},
		{"ftp://todo.test/file", false},
		{"/\\evil.test", false},
		{"\\\\evil.test", false},
		{"/home\r\nSet-Cookie: x", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSafeRedirect("http", "todo.test", tt.target))
		})
	}
}
