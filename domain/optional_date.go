package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// OptionalDate distinguishes an absent expiration date from an explicit null.
type OptionalDate struct {
	Set   bool
	Value *time.Time
}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	d.Value = nil

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidExpirationDate
	}

	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Value = t
	return nil
}

func (d OptionalDate) MarshalJSON() ([]byte, error) {
	if d.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value.Format(DateLayout))
}

// ParseDate accepts a calendar date or an RFC3339 timestamp. Blank input means no date.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(DateLayout, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, ErrInvalidExpirationDate
	}
	t = t.UTC()
	return &t, nil
}
