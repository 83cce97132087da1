package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("FINTRACK_TEST_KEY", "value")
	assert.Equal(t, "value", getEnv("FINTRACK_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnv("FINTRACK_TEST_MISSING", "fallback"))
}

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "https://app.example.com", want: []string{"https://app.example.com"}},
		{
			name: "multiple with spaces",
			raw:  "https://app.example.com, https://demo.example.com",
			want: []string{"https://app.example.com", "https://demo.example.com"},
		},
		{name: "trailing comma", raw: "https://app.example.com,", want: []string{"https://app.example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitOrigins(tt.raw))
		})
	}
}
