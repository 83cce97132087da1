package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Validation failures must reject the request before any database work, so
// these run against a nil pool.
func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), "user_id", int64(1))
	return req.WithContext(ctx)
}

func TestCreateTransaction_Validation(t *testing.T) {
	handler := CreateTransaction(nil)

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
			name: "zero amount",
			body: `{"account_id":1,"category_id":1,"amount":0,"type":"EXPENSE","date":"2025-01-10"}`,
			want: "amount must be positive",
		},
		{
			name: "negative amount",
			body: `{"account_id":1,"category_id":1,"amount":-50,"type":"EXPENSE","date":"2025-01-10"}`,
			want: "amount must be positive",
		},
		{
			name: "unknown type",
			body: `{"account_id":1,"category_id":1,"amount":50,"type":"REFUND","date":"2025-01-10"}`,
			want: "invalid transaction type",
		},
		{
			name: "bad date",
			body: `{"account_id":1,"category_id":1,"amount":50,"type":"EXPENSE","date":"10/01/2025"}`,
			want: "invalid date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/transactions", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestUpdateTransaction_Validation(t *testing.T) {
	handler := UpdateTransaction(nil)

	t.Run("invalid id param", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodPut, "/api/transactions/abc", `{}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListTransactions_Validation(t *testing.T) {
	handler := ListTransactions(nil)

	tests := []struct {
		name   string
		target string
	}{
		{"zero page", "/api/transactions?page=0"},
		{"limit too large", "/api/transactions?limit=500"},
		{"bad start date", "/api/transactions?start_date=nope"},
		{"bad type", "/api/transactions?type=REFUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(http.MethodGet, tt.target, ""))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestParseTransactionFilter_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	filter, err := parseTransactionFilter(req)
	assert.NoError(t, err)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.Limit)
	assert.Nil(t, filter.StartDate)
	assert.Nil(t, filter.Type)
}

func TestParseTransactionFilter_AllFilters(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/transactions?page=2&limit=50&start_date=2025-01-01&end_date=2025-01-31&category_id=3&account_id=7&type=EXPENSE&search=coffee", nil)
	filter, err := parseTransactionFilter(req)
	assert.NoError(t, err)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, 3, *filter.CategoryID)
	assert.Equal(t, 7, *filter.AccountID)
	assert.Equal(t, "EXPENSE", *filter.Type)
	assert.Equal(t, "coffee", *filter.Search)
	assert.Equal(t, "2025-01-01", filter.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-01-31", filter.EndDate.Format("2006-01-02"))
}
