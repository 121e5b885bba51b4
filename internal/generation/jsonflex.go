package generation

import (
	"encoding/json"
	"strings"
)

// unmarshalFlex decodes raw into v, unwrapping one level of string encoding
// when the model returned the object as a quoted JSON string.
func unmarshalFlex(raw string, v any) error {
	err := json.Unmarshal([]byte(raw), v)
	if err == nil {
		return nil
	}
	var inner string
	if json.Unmarshal([]byte(raw), &inner) != nil {
		return err
	}
	return json.Unmarshal([]byte(strings.TrimSpace(inner)), v)
}

// extractObject returns the outermost {...} span of text, or the whole text
// when it is a quoted JSON string.
func extractObject(text string) (string, bool) {
	if strings.HasPrefix(text, `"`) {
		return text, true
	}
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
