package model

import (
    "bytes"
    "encoding/json"
)

// Identified is implemented by every type that can sit behind a Reference.
type Identified interface {
    RefID() string
}

// Reference points at another record.  On the wire it is either a bare id
// string or the expanded object; the form is decided once when decoding and
// callers only ever ask for ID() or Expanded().
type Reference[T Identified] struct {
    id    string
    value *T
}

// Ref builds an id-only reference.
func Ref[T Identified](id string) Reference[T] {
    return Reference[T]{id: id}
}

// Expand builds a reference carrying the full object.
func Expand[T Identified](v T) Reference[T] {
    return Reference[T]{id: v.RefID(), value: &v}
}

// ID returns the referenced id regardless of form.
func (r Reference[T]) ID() string {
    if r.value != nil {
        return (*r.value).RefID()
    }
    return r.id
}

// Expanded returns the embedded object when the reference was expanded.
func (r Reference[T]) Expanded() (T, bool) {
    if r.value == nil {
        var zero T
        return zero, false
    }
    return *r.value, true
}

// IsZero reports whether the reference points at nothing.
func (r Reference[T]) IsZero() bool { return r.value == nil && r.id == "" }

func (r Reference[T]) MarshalJSON() ([]byte, error) {
    if r.value != nil {
        return json.Marshal(*r.value)
    }
    if r.id == "" {
        return []byte("null"), nil
    }
    return json.Marshal(r.id)
}

func (r *Reference[T]) UnmarshalJSON(b []byte) error {
    b = bytes.TrimSpace(b)
    *r = Reference[T]{}
    switch {
    case len(b) == 0 || bytes.Equal(b, []byte("null")):
        return nil
    case b[0] == '"':
        return json.Unmarshal(b, &r.id)
    }
    var v T
    if err := json.Unmarshal(b, &v); err != nil {
        return err
    }
    r.value = &v
    r.id = v.RefID()
    return nil
}

// RefIDs collects the ids of a reference list, preserving order.
func RefIDs[T Identified](refs []Reference[T]) []string {
    out := make([]string, 0, len(refs))
    for _, r := range refs {
        out = append(out, r.ID())
    }
    return out
}
