package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpsertBudget_Validation(t *testing.T) {
	handler := UpsertBudget(nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "zero amount",
			body: `{"category_id":1,"month":1,"year":2025,"amount":0}`,
			want: "amount must be positive",
		},
		{
			name: "month too small",
			body: `{"category_id":1,"month":0,"year":2025,"amount":500}`,
			want: "month must be between 1 and 12",
		},
		{
			name: "month too large",
			body: `{"category_id":1,"month":13,"year":2025,"amount":500}`,
			want: "month must be between 1 and 12",
		},
		{
			name: "implausible year",
			body: `{"category_id":1,"month":1,"year":1970,"amount":500}`,
			want: "invalid year",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/budgets", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestUpdateBudget_Validation(t *testing.T) {
	handler := UpdateBudget(nil)

	t.Run("invalid id param", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodPut, "/api/budgets/abc", `{"amount":100}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetBudgetsForUser_Validation(t *testing.T) {
	handler := GetBudgetsForUser(nil)

	tests := []struct {
		name   string
		target string
	}{
		{"bad month", "/api/budgets?month=13"},
		{"bad year", "/api/budgets?year=abc"},
		{"bad page", "/api/budgets?page=-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(http.MethodGet, tt.target, ""))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
