package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("googleapi: Error 503: backendError", "rateLimitExceeded", "backendError"))
	assert.False(t, HasAny("syntax error at or near", "backendError"))
	assert.False(t, HasAny("anything", ""))
	assert.False(t, HasAny("anything"))
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"london", "london"},
		{"100%", `100\%`},
		{"st_louis", `st\_louis`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeLike(tt.in), tt.in)
	}
}
