package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AuditDetails stores the before/after payload of an audit record inside a
// JSON column. Database drivers hand the column back either as raw bytes or
// as an already-decoded string, so the value keeps both shapes and decodes
// exactly once.
type AuditDetails struct {
	raw    []byte
	parsed map[string]any
}

// NewAuditDetails builds an already-parsed details value.
func NewAuditDetails(fields map[string]any) AuditDetails {
	return AuditDetails{parsed: fields}
}

// Value implements driver.Valuer so AuditDetails can be stored as JSON.
func (d AuditDetails) Value() (driver.Value, error) {
	if d.parsed == nil && len(d.raw) == 0 {
		return []byte("{}"), nil
	}
	if d.parsed != nil {
		data, err := json.Marshal(d.parsed)
		if err != nil {
			return nil, err
		}
		return data, nil
	}
	return d.raw, nil
}

// Scan implements sql.Scanner to hydrate AuditDetails from the database.
func (d *AuditDetails) Scan(value any) error {
	if value == nil {
		*d = AuditDetails{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		d.raw = append([]byte(nil), v...)
		d.parsed = nil
		return nil
	case string:
		d.raw = []byte(v)
		d.parsed = nil
		return nil
	default:
		return fmt.Errorf("domain.AuditDetails: unsupported type %T", value)
	}
}

// Fields returns the decoded payload, parsing the raw form at most once.
func (d *AuditDetails) Fields() (map[string]any, error) {
	if d.parsed != nil {
		return d.parsed, nil
	}
	if len(d.raw) == 0 {
		return nil, nil
	}
	var parsed map[string]any
	if err := json.Unmarshal(d.raw, &parsed); err != nil {
		return nil, err
	}
	d.parsed = parsed
	return parsed, nil
}
