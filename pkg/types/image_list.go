package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ImageList holds product image URLs persisted as a JSONB array. Legacy rows
// mixed strings with arbitrary JSON, so decoding keeps the ordered string
// elements and drops everything else instead of failing the whole row.
type ImageList []string

// Value marshals the list into JSON for Postgres.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the list, coercing leniently.
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("image list: unsupported scan type %T", value)
	}

	parsed, err := ParseImageList(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseImageList decodes a JSON array keeping only string elements, in order.
// A single JSON string is treated as a one-element list. Any other shape
// yields an empty list rather than an error.
func ParseImageList(raw []byte) (ImageList, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return nil, err
	}

	switch v := anyValue.(type) {
	case nil:
		return nil, nil
	case string:
		return ImageList{v}, nil
	case []any:
		out := make(ImageList, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return ImageList{}, nil
	}
}
