// Package repository implements the Relationship Store: id-keyed tables and
// the mutation primitives the graph services compose inside a unit of work.
package repository

import (
	"errors"
	"slices"
	"strings"

	"kinship/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds a row lock on dialects that support one. SQLite serialises
// writers at the database level instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	if database.SupportsRowLocks(db) {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// uniqueIDs returns ids deduplicated and in ascending order, which is also
// the order rows are locked in to avoid lock-order deadlocks.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
