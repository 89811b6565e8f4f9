package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores an ordered sequence of strings as a JSON array column.
// Older rows may hold a bare JSON string instead of an array; Scan wraps
// those as a one-element list so callers always observe a sequence.
type StringList []string

// Value marshals the list into its JSON array representation.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	encoded, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("string list: %w", err)
	}
	return string(encoded), nil
}

// Scan decodes the stored column back into an ordered list.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("string list: unsupported scan type %T", value)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err == nil {
		*l = StringList(items)
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		*l = StringList{single}
		return nil
	}

	// Legacy rows stored the plain text without JSON encoding.
	*l = StringList{string(raw)}
	return nil
}
