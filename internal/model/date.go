package model

import (
    "bytes"
    "encoding/json"
    "fmt"
    "time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date that accepts both "2006-01-02" (what forms send)
// and RFC 3339 timestamps on input, and always emits RFC 3339 in UTC.
// The zero Date encodes as null.
type Date struct {
    time.Time
}

// NewDate truncates t to midnight UTC.
func NewDate(t time.Time) Date {
    if t.IsZero() {
        return Date{}
    }
    y, m, d := t.UTC().Date()
    return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses either accepted layout.
func ParseDate(s string) (Date, error) {
    if t, err := time.Parse(dateLayout, s); err == nil {
        return NewDate(t), nil
    }
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return Date{}, fmt.Errorf("invalid date %q", s)
    }
    return NewDate(t), nil
}

// Year returns the calendar year, or 0 for the zero date.
func (d Date) Year() int {
    if d.IsZero() {
        return 0
    }
    return d.Time.Year()
}

func (d Date) MarshalJSON() ([]byte, error) {
    if d.IsZero() {
        return []byte("null"), nil
    }
    return json.Marshal(d.UTC().Format(time.RFC3339))
}

func (d *Date) UnmarshalJSON(b []byte) error {
    b = bytes.TrimSpace(b)
    if bytes.Equal(b, []byte("null")) {
        *d = Date{}
        return nil
    }
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return err
    }
    if s == "" {
        *d = Date{}
        return nil
    }
    parsed, err := ParseDate(s)
    if err != nil {
        return err
    }
    *d = parsed
    return nil
}
