package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeContact(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "Unknown"},
		{"   ", "Unknown"},
		{"mr zin", "Mr Zine"},
		{"MR ZINE", "Mr Zine"},
		{"Zine", "Mr Zine"},
		{"alaa", "Alaa"},
		{"  chaima  ", "Chaima"},
		{"ÉLODIE", "Élodie"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeContact(tc.in), "input %q", tc.in)
	}
}

func TestContactAttributed(t *testing.T) {
	assert.False(t, contactAttributed("Unknown"))
	assert.False(t, contactAttributed("Unspecified"))
	assert.False(t, contactAttributed("non spécifié"))
	assert.True(t, contactAttributed("Alaa"))
}
