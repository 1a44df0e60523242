package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"askme/internal/models"
	"askme/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "apostrophe kept", in: "What's up", want: "What's up"},
		{name: "ampersand and angle kept", in: "A & B <3", want: "A & B <3"},
		{name: "quotes kept", in: `say "hi"`, want: `say "hi"`},
		{name: "tags stripped", in: "How do <b>channels</b> work?", want: "How do channels work?"},
		{name: "script dropped", in: "Body <script>alert(1)</script>text", want: "Body text"},
		{name: "encoded tags not revived", in: "&lt;b&gt;bold&lt;/b&gt;", want: "bold"},
		{name: "trimmed", in: "  spaced  ", want: "spaced"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeText(tt.in))
		})
	}
}

func TestCleanField(t *testing.T) {
	t.Parallel()

	t.Run("limit applies to submitted characters", func(t *testing.T) {
		raw := "What's " + strings.Repeat("a", 990) + "?"
		require.Equal(t, 998, utf8.RuneCountInString(raw))

		clean, err := cleanField(raw, validation.ValidateText)
		require.NoError(t, err)
		assert.Equal(t, raw, clean)
	})

	t.Run("over the limit", func(t *testing.T) {
		_, err := cleanField(strings.Repeat("a", models.MaxDescriptionLength+1), validation.ValidateText)
		assertValidationError(t, err)
	})

	t.Run("markup only is blank", func(t *testing.T) {
		_, err := cleanField("<b></b>", validation.ValidateText)
		assertValidationError(t, err)
	})
}
