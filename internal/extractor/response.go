package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseFields pulls the first JSON object out of a model reply and flattens
// its values to strings. A fenced ```json block wins over bare objects;
// null values and the literal "null" become empty strings.
func ParseFields(content string) (map[string]string, error) {
	raw, err := decodeObject(content)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = stringify(v)
	}
	return out, nil
}

func decodeObject(content string) (map[string]json.RawMessage, error) {
	candidates := make([]string, 0, 2)
	if block, ok := fencedBlock(content); ok {
		candidates = append(candidates, block)
	}
	candidates = append(candidates, content)

	for _, c := range candidates {
		start := strings.IndexByte(c, '{')
		if start < 0 {
			continue
		}
		var obj map[string]json.RawMessage
		dec := json.NewDecoder(strings.NewReader(c[start:]))
		dec.UseNumber()
		if err := dec.Decode(&obj); err == nil {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoJSON, truncate(content, 200))
}

func fencedBlock(content string) (string, bool) {
	const fence = "```json"
	i := strings.Index(content, fence)
	if i < 0 {
		return "", false
	}
	rest := content[i+len(fence):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

func stringify(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, "null") {
			return ""
		}
		return s
	case 't', 'f':
		b, _ := strconv.ParseBool(string(v))
		return strconv.FormatBool(b)
	default:
		// numbers, arrays and nested objects keep their JSON text
		return string(v)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
