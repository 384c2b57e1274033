// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package orm

// Wire-value conversions. JSON-decoded payloads arrive with float64 numbers
// and `false` as the protocol's unset sentinel for every non-boolean type.

// asInt64 coerces a wire number to int64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// decodeValue converts a raw wire value into the caller-facing shape for
// the field's kind. The unset sentinel decodes to nil for every kind except
// boolean, where false is a legitimate value.
func decodeValue(f Field, v any) any {
	if v == nil {
		return nil
	}
	if b, ok := v.(bool); ok && !b && f.Kind != KindBoolean {
		return nil
	}
	switch f.Kind {
	case KindInteger:
		if n, ok := asInt64(v); ok {
			return n
		}
	case KindReferenceSingle:
		switch ref := v.(type) {
		case Reference:
			return ref
		case []any:
			if len(ref) == 2 {
				id, _ := asInt64(ref[0])
				label, _ := ref[1].(string)
				return Reference{ID: id, Label: label}
			}
		}
	case KindReferenceMany:
		if ids, ok := v.([]any); ok {
			out := make([]int64, 0, len(ids))
			for _, raw := range ids {
				if id, ok := asInt64(raw); ok {
					out = append(out, id)
				}
			}
			return out
		}
	}
	return v
}

// encodeWrite converts a locally held value into its write-payload shape.
// Reference-single values collapse to the related id alone; sending the
// (id, label) pair back corrupts the remote write.
func encodeWrite(f Field, v any) any {
	if f.Kind != KindReferenceSingle {
		return v
	}
	switch ref := v.(type) {
	case Reference:
		if ref.ID == 0 {
			return false
		}
		return ref.ID
	case []any:
		if len(ref) == 2 {
			if id, ok := asInt64(ref[0]); ok {
				return id
			}
		}
	case int64, int, float64:
		id, _ := asInt64(ref)
		return id
	}
	return false
}

// firstRow extracts the first row from a read result. A missing, false or
// empty result means the record does not exist server-side.
func firstRow(res any) (map[string]any, bool) {
	rows, ok := res.([]any)
	if !ok || len(rows) == 0 {
		return nil, false
	}
	row, ok := rows[0].(map[string]any)
	return row, ok
}
