package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator()
	assert.True(t, v.Valid())

	v.Check(false, "title", "title and url are required")
	v.Check(false, "title", "overwritten")
	v.Check(true, "url", "never added")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": "title and url are required"}, v.Errors)
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Errors: map[string]string{
		"username": "username must be at least 3 characters long",
		"password": "password must be at least 3 characters long",
	}}

	assert.Equal(t, "password must be at least 3 characters long; username must be at least 3 characters long", err.Error())
}

func TestCheckStringLength(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		input string
		want  bool
	}{
		{input: "", want: false},
		{input: "ab", want: false},
		{input: "abc", want: true},
		{input: "äöü", want: true},
		{input: "abcdef", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, v.CheckStringLength(tc.input, 3, 5))
		})
	}
}
