// Package policy holds the single ownership-and-visibility rule shared by
// directors, actors and movies.
//
// Read rule: a record is visible when its owner is the requester OR its owner
// is any admin account.  The requester's own role plays no part in reads.
// Write rule: only the exact owner may update or delete, admins included.
// Storage backends translate the scopes below into queries; the generic
// predicates are the same rule applied to records already in memory.
package policy

import "github.com/iliyamo/movie-catalog/internal/model"

// Requester is the authenticated caller.
type Requester struct {
	ID   string
	Role model.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (r Requester) IsAdmin() bool { return r.Role == model.RoleAdmin }

// ReadScope is the set of owners whose records a requester may read.  It is
// rebuilt on every list/get from a fresh admin id lookup.
type ReadScope struct {
	RequesterID string
	AdminIDs    []string
}

// NewReadScope combines a requester with the current admin ids.
func NewReadScope(r Requester, adminIDs []string) ReadScope {
	return ReadScope{RequesterID: r.ID, AdminIDs: adminIDs}
}

// Allows reports whether a record owned by ownerID is visible.
func (s ReadScope) Allows(ownerID string) bool {
	if ownerID == "" {
		return false
	}
	if ownerID == s.RequesterID {
		return true
	}
	for _, id := range s.AdminIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}

// Owners returns the requester followed by the admin ids, without
// duplicates.  It is never empty for a valid requester.
func (s ReadScope) Owners() []string {
	out := make([]string, 0, len(s.AdminIDs)+1)
	seen := make(map[string]bool, len(s.AdminIDs)+1)
	for _, id := range append([]string{s.RequesterID}, s.AdminIDs...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// WriteScope names the only owner whose records may be mutated.
type WriteScope struct {
	OwnerID string
}

// NewWriteScope derives the write scope from the requester.  Role is
// ignored on purpose: admins cannot edit records they do not own.
func NewWriteScope(r Requester) WriteScope {
	return WriteScope{OwnerID: r.ID}
}

// Allows reports whether a record owned by ownerID may be mutated.
func (s WriteScope) Allows(ownerID string) bool {
	return ownerID != "" && ownerID == s.OwnerID
}

// CanRead applies the read rule to a single record.
func CanRead[T any](s ReadScope, rec T, ownerOf func(T) string) bool {
	return s.Allows(ownerOf(rec))
}

// CanWrite applies the write rule to a single record.
func CanWrite[T any](s WriteScope, rec T, ownerOf func(T) string) bool {
	return s.Allows(ownerOf(rec))
}

// FilterReadable keeps the visible records, preserving order.
func FilterReadable[T any](s ReadScope, recs []T, ownerOf func(T) string) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if CanRead(s, r, ownerOf) {
			out = append(out, r)
		}
	}
	return out
}

// FilterWritable keeps the records the scope's owner may mutate.
func FilterWritable[T any](s WriteScope, recs []T, ownerOf func(T) string) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if CanWrite(s, r, ownerOf) {
			out = append(out, r)
		}
	}
	return out
}
