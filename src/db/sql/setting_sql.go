package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/models"
)

const settingColumns = `id, user_id, key, value, type, category, description, icon, created_at, updated_at`

func scanSetting(row pgx.Row) (*models.UserSetting, error) {
	var s models.UserSetting
	err := row.Scan(&s.ID, &s.UserID, &s.Key, &s.Value, &s.Type, &s.Category, &s.Description, &s.Icon, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func strPtr(s string) *string { return &s }

// DefaultSettings are the preferences every user starts with. They are
// seeded lazily, the first time a user reads their settings.
var DefaultSettings = []models.SaveSettingRequest{
	{Key: "emailNotifications", Value: "true", Type: models.SettingTypeBoolean, Category: models.SettingCategoryNotifications, Description: strPtr("Receive email notifications"), Icon: strPtr("📩")},
	{Key: "budgetAlerts", Value: "true", Type: models.SettingTypeBoolean, Category: models.SettingCategoryNotifications, Description: strPtr("Get alerts when approaching budget limits"), Icon: strPtr("💰")},
	{Key: "weeklyReports", Value: "true", Type: models.SettingTypeBoolean, Category: models.SettingCategoryNotifications, Description: strPtr("Receive weekly financial reports"), Icon: strPtr("📊")},
	{Key: "transactionAlerts", Value: "true", Type: models.SettingTypeBoolean, Category: models.SettingCategoryNotifications, Description: strPtr("Get notified of new transactions"), Icon: strPtr("🔔")},
	{Key: "marketingEmails", Value: "true", Type: models.SettingTypeBoolean, Category: models.SettingCategoryNotifications, Description: strPtr("Receive marketing and promotional emails"), Icon: strPtr("📢")},
	{Key: "language", Value: "en", Type: models.SettingTypeString, Category: models.SettingCategoryGeneral, Description: strPtr("Interface language"), Icon: strPtr("🌐")},
	{Key: "currency", Value: "IDR", Type: models.SettingTypeString, Category: models.SettingCategoryGeneral, Description: strPtr("Default currency for transactions"), Icon: strPtr("💰")},
	{Key: "theme", Value: "light", Type: models.SettingTypeString, Category: models.SettingCategoryAppearance, Description: strPtr("Interface theme"), Icon: strPtr("🎨")},
}

// GetSettingsForUser returns the user's settings, optionally narrowed by
// category or key, ordered by category then key.
func GetSettingsForUser(ctx context.Context, pool *pgxpool.Pool, userID int, category, key *string) ([]models.UserSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM user_settings WHERE user_id = $1`
	args := []interface{}{userID}
	if category != nil {
		args = append(args, *category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if key != nil {
		args = append(args, *key)
		query += fmt.Sprintf(" AND key = $%d", len(args))
	}
	query += ` ORDER BY category, key`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []models.UserSetting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, *s)
	}
	return settings, rows.Err()
}

// SeedDefaultSettings inserts the default preference set for a user without
// touching keys the user already has.
func SeedDefaultSettings(ctx context.Context, pool *pgxpool.Pool, userID int) error {
	query := `
		INSERT INTO user_settings (user_id, key, value, type, category, description, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, key) DO NOTHING
	`
	for _, s := range DefaultSettings {
		if _, err := pool.Exec(ctx, query, userID, s.Key, s.Value, s.Type, s.Category, s.Description, s.Icon); err != nil {
			return fmt.Errorf("seed setting %s: %w", s.Key, err)
		}
	}
	return nil
}

// SaveSettings replaces the listed keys with the given entries in one
// database transaction. Keys not listed are left alone.
func SaveSettings(ctx context.Context, pool *pgxpool.Pool, userID int, settings []models.SaveSettingRequest) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	keys := make([]string, 0, len(settings))
	for _, s := range settings {
		keys = append(keys, s.Key)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_settings WHERE user_id = $1 AND key = ANY($2)`, userID, keys); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}

	query := `
		INSERT INTO user_settings (user_id, key, value, type, category, description, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, s := range settings {
		if _, err := tx.Exec(ctx, query, userID, s.Key, s.Value, s.Type, s.Category, s.Description, s.Icon); err != nil {
			return fmt.Errorf("save setting %s: %w", s.Key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UpdateSettingValue changes the value of one existing setting. The setting
// must already exist; values never create keys implicitly.
func UpdateSettingValue(ctx context.Context, pool *pgxpool.Pool, userID int, key, value string) (*models.UserSetting, error) {
	query := `
		UPDATE user_settings
		SET value = $1, updated_at = NOW()
		WHERE user_id = $2 AND key = $3
		RETURNING ` + settingColumns
	s, err := scanSetting(pool.QueryRow(ctx, query, value, userID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update setting: %w", err)
	}
	return s, nil
}

// DeleteSettings removes the settings matching a key, a category, or both,
// and reports how many rows went away.
func DeleteSettings(ctx context.Context, pool *pgxpool.Pool, userID int, key, category *string) (int, error) {
	query := `DELETE FROM user_settings WHERE user_id = $1`
	args := []interface{}{userID}
	if key != nil {
		args = append(args, *key)
		query += fmt.Sprintf(" AND key = $%d", len(args))
	}
	if category != nil {
		args = append(args, *category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}

	cmd, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete settings: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}
