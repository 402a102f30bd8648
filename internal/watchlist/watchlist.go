// Package watchlist tracks per-user favorite and watched movie ids.
//
// Every backend stores one value per (kind, user) under the key
// movie_<kind>_<userID>; the value is a JSON array of movie ids with no
// version field.  A value that cannot be parsed is treated as an empty
// list, so a corrupt entry is silently replaced by the next write.  A
// backend read failure also lists as empty but makes Add and Remove fail.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind names one of the two lists.
type Kind string

const (
	Favorites Kind = "favorites"
	Watched   Kind = "watched"
)

// ErrUnknownKind is returned for kinds other than favorites and watched.
var ErrUnknownKind = errors.New("unknown list kind")

// ParseKind validates a kind taken from user input.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Favorites, Watched:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Key returns the storage key for a user's list.
func Key(kind Kind, userID string) string {
	return fmt.Sprintf("movie_%s_%s", kind, userID)
}

// Store is the repository interface over a user's lists.  Add is
// idempotent and Remove of an absent id is a no-op.
type Store interface {
	List(ctx context.Context, userID string, kind Kind) ([]string, error)
	Add(ctx context.Context, userID string, kind Kind, movieID string) error
	Remove(ctx context.Context, userID string, kind Kind, movieID string) error
	Contains(ctx context.Context, userID string, kind Kind, movieID string) (bool, error)
}

// Toggle flips membership and reports whether the id is now in the list.
func Toggle(ctx context.Context, s Store, userID string, kind Kind, movieID string) (bool, error) {
	in, err := s.Contains(ctx, userID, kind, movieID)
	if err != nil {
		return false, err
	}
	if in {
		return false, s.Remove(ctx, userID, kind, movieID)
	}
	return true, s.Add(ctx, userID, kind, movieID)
}

// kv is the raw key/value access each backend provides.
type kv interface {
	get(ctx context.Context, key string) (string, bool, error)
	// update hands fn the current raw value ("" when unset) and stores the
	// result when fn reports a change.  A value that could not be read is
	// never replaced.
	update(ctx context.Context, key string, fn func(raw string) (string, bool)) error
}

// listStore implements Store on top of a kv.
type listStore struct {
	kv kv
}

// List reads a list; read failures yield an empty list.
func (s listStore) List(ctx context.Context, userID string, kind Kind) ([]string, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	raw, ok, err := s.kv.get(ctx, Key(kind, userID))
	if err != nil || !ok {
		return []string{}, nil
	}
	return decodeIDs(raw), nil
}

func (s listStore) Add(ctx context.Context, userID string, kind Kind, movieID string) error {
	return s.modify(ctx, userID, kind, func(ids []string) ([]string, bool) {
		return addID(ids, movieID)
	})
}

func (s listStore) Remove(ctx context.Context, userID string, kind Kind, movieID string) error {
	return s.modify(ctx, userID, kind, func(ids []string) ([]string, bool) {
		return removeID(ids, movieID)
	})
}

// modify rewrites one list.  Unlike List it fails on read errors, so a
// transient outage cannot reset the stored list.
func (s listStore) modify(ctx context.Context, userID string, kind Kind, fn func([]string) ([]string, bool)) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	err := s.kv.update(ctx, Key(kind, userID), func(raw string) (string, bool) {
		next, changed := fn(decodeIDs(raw))
		return encodeIDs(next), changed
	})
	if err != nil {
		return fmt.Errorf("update %s list: %w", kind, err)
	}
	return nil
}

func (s listStore) Contains(ctx context.Context, userID string, kind Kind, movieID string) (bool, error) {
	ids, err := s.List(ctx, userID, kind)
	if err != nil {
		return false, err
	}
	return indexOf(ids, movieID) >= 0, nil
}

func decodeIDs(raw string) []string {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil || ids == nil {
		return []string{}
	}
	return ids
}

func encodeIDs(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// addID appends id unless present.
func addID(ids []string, id string) ([]string, bool) {
	if id == "" || indexOf(ids, id) >= 0 {
		return ids, false
	}
	return append(ids, id), true
}

// removeID drops every occurrence of id, preserving order.
func removeID(ids []string, id string) ([]string, bool) {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out, len(out) != len(ids)
}
