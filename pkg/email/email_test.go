package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		wantFirst string
		wantLast  string
	}{
		{name: "dotted local part", email: "jane.doe@example.com", wantFirst: "Jane", wantLast: "Doe"},
		{name: "underscore separator", email: "john_smith@example.com", wantFirst: "John", wantLast: "Smith"},
		{name: "plus tag ignored as separator", email: "jane+work@example.com", wantFirst: "Jane", wantLast: "Work"},
		{name: "single word", email: "admin@example.com", wantFirst: "Admin", wantLast: "User"},
		{name: "middle names dropped", email: "a.b.c.doe@example.com", wantFirst: "A", wantLast: "Doe"},
		{name: "no at sign", email: "plainstring", wantFirst: "Plainstring", wantLast: "User"},
		{name: "only separators", email: "...@example.com", wantFirst: "User", wantLast: "User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := DeriveNameFromEmail(tt.email)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}
