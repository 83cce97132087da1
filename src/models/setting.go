package models

import "time"

const (
	SettingTypeBoolean = "boolean"
	SettingTypeString  = "string"
	SettingTypeNumber  = "number"
	SettingTypeObject  = "object"
	SettingTypeArray   = "array"
)

const (
	SettingCategoryGeneral       = "general"
	SettingCategoryNotifications = "notifications"
	SettingCategoryAppearance    = "appearance"
	SettingCategorySecurity      = "security"
	SettingCategoryPrivacy       = "privacy"
	SettingCategoryBilling       = "billing"
)

// UserSetting is one key/value preference. Values are stored as strings and
// the type field tells clients how to interpret them.
type UserSetting struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SaveSettingRequest is one entry of a bulk settings save.
type SaveSettingRequest struct {
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}
