package util

import (
	"regexp"
	"time"

	"fintrack-server/src/models"
)

func ValidateEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile("[a-z]").MatchString(password)
	hasUpper := regexp.MustCompile("[A-Z]").MatchString(password)
	hasDigit := regexp.MustCompile("[0-9]").MatchString(password)

	return hasLower && hasUpper && hasDigit
}

func ValidateTransactionType(txType string) bool {
	switch txType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeTransfer:
		return true
	}
	return false
}

func ValidateCategoryType(categoryType string) bool {
	return categoryType == models.CategoryTypeIncome || categoryType == models.CategoryTypeExpense
}

func ValidateAccountType(accountType string) bool {
	switch accountType {
	case models.AccountTypeCash, models.AccountTypeBank, models.AccountTypeEwallet, models.AccountTypeCreditCard:
		return true
	}
	return false
}

func ValidateGoalStatus(status string) bool {
	switch status {
	case models.GoalStatusActive, models.GoalStatusCompleted, models.GoalStatusCancelled:
		return true
	}
	return false
}

func ValidateSettingType(settingType string) bool {
	switch settingType {
	case models.SettingTypeBoolean, models.SettingTypeString, models.SettingTypeNumber,
		models.SettingTypeObject, models.SettingTypeArray:
		return true
	}
	return false
}

func ValidateSettingCategory(category string) bool {
	switch category {
	case models.SettingCategoryGeneral, models.SettingCategoryNotifications,
		models.SettingCategoryAppearance, models.SettingCategorySecurity,
		models.SettingCategoryPrivacy, models.SettingCategoryBilling:
		return true
	}
	return false
}

func ValidateHexColor(color string) bool {
	return regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`).MatchString(color)
}

// ParseDate accepts a bare calendar date or a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// MonthRange returns the half-open [first day, first day of next month)
// interval for one calendar month.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// DaysInMonth returns the number of calendar days in a month.
func DaysInMonth(year, month int) int {
	start, end := MonthRange(year, month)
	return int(end.Sub(start).Hours() / 24)
}
