package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"askme/internal/models"
)

// ValidateTitle requires a non-blank title within the column limit.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return fmt.Errorf("title must not exceed %d characters", models.MaxTitleLength)
	}
	return nil
}

// ValidateText requires a non-blank body within the column limit.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if utf8.RuneCountInString(text) > models.MaxDescriptionLength {
		return fmt.Errorf("text must not exceed %d characters", models.MaxDescriptionLength)
	}
	return nil
}

// ParseTags splits a comma-separated tag list. Entries are trimmed, blanks
// dropped and duplicates removed while keeping first-seen order.
func ParseTags(raw string) ([]string, error) {
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > models.MaxTagLength {
			return nil, fmt.Errorf("tag %q must not exceed %d characters", tag, models.MaxTagLength)
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags, nil
}
