package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail("@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Password123"))
	assert.False(t, ValidatePassword("short1A"))
	assert.False(t, ValidatePassword("alllowercase1"))
	assert.False(t, ValidatePassword("ALLUPPERCASE1"))
	assert.False(t, ValidatePassword("NoDigitsHere"))
}

func TestValidateEnums(t *testing.T) {
	assert.True(t, ValidateTransactionType("INCOME"))
	assert.True(t, ValidateTransactionType("EXPENSE"))
	assert.True(t, ValidateTransactionType("TRANSFER"))
	assert.False(t, ValidateTransactionType("REFUND"))

	assert.True(t, ValidateCategoryType("EXPENSE"))
	assert.False(t, ValidateCategoryType("TRANSFER"))

	assert.True(t, ValidateAccountType("EWALLET"))
	assert.False(t, ValidateAccountType("CRYPTO"))

	assert.True(t, ValidateGoalStatus("CANCELLED"))
	assert.False(t, ValidateGoalStatus("PAUSED"))
}

func TestValidateHexColor(t *testing.T) {
	assert.True(t, ValidateHexColor("#10B981"))
	assert.True(t, ValidateHexColor("#abcdef"))
	assert.False(t, ValidateHexColor("10B981"))
	assert.False(t, ValidateHexColor("#10B98"))
	assert.False(t, ValidateHexColor("#GGGGGG"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-01-10T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, 15, d.Hour())

	_, err = ParseDate("10/01/2025")
	assert.Error(t, err)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2025, 1)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), end)

	// December rolls into the next year
	start, end = MonthRange(2024, 12)
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, 1))
	assert.Equal(t, 28, DaysInMonth(2025, 2))
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 30, DaysInMonth(2025, 4))
}
