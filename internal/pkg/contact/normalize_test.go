//go:build unit

package contact_test

import (
	"testing"

	"questbook/internal/pkg/contact"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "formatted trunk-8 number", in: "8 (913) 555-01-02", want: "79135550102"},
		{name: "plus seven", in: "+7 913 555-01-02", want: "79135550102"},
		{name: "bare ten digit mobile", in: "9135550102", want: "79135550102"},
		{name: "double zero prefix", in: "0079135550102", want: "79135550102"},
		{name: "already canonical", in: "79135550102", want: "79135550102"},
		{name: "too short", in: "555-01-02", want: ""},
		{name: "too long", in: "1234567890123456", want: ""},
		{name: "not a number", in: "call me maybe", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contact.NormalizePhone(tt.in))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Ivan@Example.com", want: "ivan@example.com"},
		{name: "surrounding punctuation", in: "<ivan@example.com>,", want: "ivan@example.com"},
		{name: "at dot substitution", in: "ivan (at) example (dot) com", want: "ivan@example.com"},
		{name: "bracket substitution", in: "ivan[at]example[dot]com", want: "ivan@example.com"},
		{name: "russian substitution", in: "ivan собака example точка com", want: "ivan@example.com"},
		{name: "missing domain", in: "ivan@", want: ""},
		{name: "not an address", in: "just a name", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contact.NormalizeEmail(tt.in))
		})
	}
}

func TestExtractPhones(t *testing.T) {
	text := "Звонили с 8 (913) 555-01-02, потом с +7 913 555-01-02. Офис: 123."
	assert.Equal(t, []string{"79135550102"}, contact.ExtractPhones(text))

	assert.Empty(t, contact.ExtractPhones("no numbers here"))
}

func TestExtractEmails(t *testing.T) {
	text := "Писал с ivan@example.com и ivan (at) example (dot) com, потом с petr@mail.ru"
	assert.Equal(t, []string{"ivan@example.com", "petr@mail.ru"}, contact.ExtractEmails(text))

	assert.Empty(t, contact.ExtractEmails("nothing to see"))
}
