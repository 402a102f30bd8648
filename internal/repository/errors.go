// Package repository holds the SQL stores and the sentinel errors shared by
// every storage backend.  Handlers compare against these values with
// errors.Is to pick a status code, so both the SQL and the Mongo stores
// must return them unchanged (or wrapped).
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist or is outside the
// caller's read or write scope.  The two cases are deliberately
// indistinguishable to callers.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned for ids that cannot name any record.  It wraps
// ErrNotFound so a malformed id produces the same response as a missing one.
var ErrInvalidID = fmt.Errorf("%w: malformed id", ErrNotFound)

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// NewID returns a fresh record id.
func NewID() string { return uuid.NewString() }

// CheckID rejects ids that are not UUIDs.
func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// isDuplicate reports a unique-key violation from MySQL (1062) or SQLite.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// placeholders returns "?,?,?" for n values.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func toArgs(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
