package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short string passes through", func(t *testing.T) {
		assert.Equal(t, "Groceries", truncate("Groceries", 20))
	})

	t.Run("long string gets an ascii ellipsis", func(t *testing.T) {
		got := truncate(strings.Repeat("a", 30), 10)
		assert.Equal(t, "aaaaaaa...", got)
		assert.Len(t, got, 10)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		// 10 runes, 20 bytes. Byte-based slicing would cut a rune in half.
		s := strings.Repeat("é", 10)
		assert.Equal(t, s, truncate(s, 10))

		got := truncate(s, 8)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, strings.Repeat("é", 5)+"...", got)
	})
}
