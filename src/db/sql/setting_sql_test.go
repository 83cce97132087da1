package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fintrack-server/src/util"
)

// The default set is seeded with ON CONFLICT DO NOTHING on (user_id, key),
// so duplicate keys in the list would silently drop entries.
func TestDefaultSettings_KeysUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range DefaultSettings {
		assert.False(t, seen[s.Key], "duplicate default setting key %q", s.Key)
		seen[s.Key] = true
	}
}

func TestDefaultSettings_ValidTypesAndCategories(t *testing.T) {
	for _, s := range DefaultSettings {
		assert.True(t, util.ValidateSettingType(s.Type), "setting %q has invalid type %q", s.Key, s.Type)
		assert.True(t, util.ValidateSettingCategory(s.Category), "setting %q has invalid category %q", s.Key, s.Category)
		assert.NotEmpty(t, s.Value, "setting %q has no value", s.Key)
	}
}
