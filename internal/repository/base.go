// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"askme/internal/database"
	"askme/internal/models"

	"gorm.io/gorm"
)

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// isUniqueConstraintError matches PostgreSQL (SQLSTATE 23505) and SQLite unique violations.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// lookupError turns gorm.ErrRecordNotFound into a NOT_FOUND AppError and
// anything else into an INTERNAL_ERROR.
func lookupError(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// orderByIDs returns items rearranged to follow ids. Items whose ID is not in
// ids are dropped; IDs without an item are skipped.
func orderByIDs[T any](ids []uint, items []T, id func(*T) uint) []T {
	byID := make(map[uint]*T, len(items))
	for i := range items {
		byID[id(&items[i])] = &items[i]
	}
	out := make([]T, 0, len(ids))
	for _, want := range ids {
		if item, ok := byID[want]; ok {
			out = append(out, *item)
		}
	}
	return out
}
