package service

import (
	"html"
	"strings"

	"askme/internal/models"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

const maxSanitizePasses = 4

// sanitizeText strips all markup from user-supplied text and returns it as
// plain text. The policy entity-encodes what it keeps, so its output is
// decoded and passed through again until stable; entity-encoded tags in the
// input are stripped rather than revived.
func sanitizeText(s string) string {
	out := s
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(textPolicy.Sanitize(out))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

// cleanField validates raw as submitted, strips its markup and validates the
// result again so text made only of tags is rejected as blank.
func cleanField(raw string, validate func(string) error) (string, error) {
	if err := validate(raw); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	clean := sanitizeText(raw)
	if err := validate(clean); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	return clean, nil
}
