// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxUsernameLength = 150
	maxEmailLength    = 254
	maxNicknameLength = 255
)

// BirthdayLayout is the accepted birthday format.
const BirthdayLayout = "2006-01-02"

// ValidatePassword checks length and that the password mixes letters and digits.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	return nil
}

// ValidateUsername allows letters, digits and @ . + - _ up to 150 characters.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return fmt.Errorf("username must not exceed %d characters", maxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers and @/./+/-/_ characters")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must not exceed %d characters", maxEmailLength)
	}
	return nil
}

// ValidateNickname bounds the display name length. Empty is allowed.
func ValidateNickname(nickname string) error {
	if utf8.RuneCountInString(nickname) > maxNicknameLength {
		return fmt.Errorf("nickname must not exceed %d characters", maxNicknameLength)
	}
	return nil
}

// ParseBirthday parses a YYYY-MM-DD date. An empty string yields nil.
func ParseBirthday(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(BirthdayLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("birthday must be a date in YYYY-MM-DD format")
	}
	if t.After(time.Now()) {
		return nil, fmt.Errorf("birthday cannot be in the future")
	}
	return &t, nil
}
