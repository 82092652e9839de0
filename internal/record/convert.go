package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ToDelimitedString serializes a record as a single line of field values
// joined by delim, in schema field order. Unset fields serialize as the
// empty string.
func ToDelimitedString(r *Record, delim string) string {
	fields := r.Schema().Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, Text(r.Get(f.Name)))
	}
	return strings.Join(parts, delim)
}

// ToJSONString serializes a record as a JSON object whose keys appear in
// schema field order. Byte fields follow encoding/json's base64 convention.
func ToJSONString(r *Record) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Schema().Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return "", err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Get(f.Name))
		if err != nil {
			return "", fmt.Errorf("record: field %q: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// Text renders a field value as plain text for delimited output and header
// maps. Unset values render as the empty string.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
