package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKey reports whether err is a unique or primary key violation.
// gorm translates it when TranslateError is set; the text checks cover
// drivers and wrappers that bypass the translation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || // postgres 23505
		strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "primary key constraint")
}

// IsNotFound reports whether err is a lookup miss
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
