package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveSettings_Validation(t *testing.T) {
	handler := SaveSettings(nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "malformed json",
			body: `{`,
			want: "invalid request",
		},
		{
			name: "empty list",
			body: `[]`,
			want: "at least one setting is required",
		},
		{
			name: "missing key",
			body: `[{"key":"","value":"true"}]`,
			want: "setting key must be between 1 and 100 characters",
		},
		{
			name: "unknown type",
			body: `[{"key":"theme","value":"dark","type":"enum"}]`,
			want: "invalid setting type",
		},
		{
			name: "unknown category",
			body: `[{"key":"theme","value":"dark","category":"experimental"}]`,
			want: "invalid setting category",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/users/settings", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestDeleteSettings_Validation(t *testing.T) {
	handler := DeleteSettings(nil)

	t.Run("requires key or category", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/users/settings", ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "either key or category is required")
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/users/settings?category=experimental", ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
