package jo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmahdy/jofotara-api/pkg/jo"
)

func TestSanitizeTaxID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"digits only", "12345678", "12345678"},
		{"country prefix and dashes", "JO-12-345", "12345"},
		{"spaces and letters", " TAX 9 8 7 ", "987"},
		{"no digits", "N/A", ""},
		{"empty", "", ""},
		{"truncated to max length", "1234567890123456789", "123456789012345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, jo.SanitizeTaxID(tc.in))
		})
	}
}
