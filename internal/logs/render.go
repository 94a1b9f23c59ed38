package logs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

var reservedKeys = map[string]struct{}{
	"ts":        {},
	"time":      {},
	"level":     {},
	"msg":       {},
	"component": {},
	"source":    {},
}

// Render turns one JSON record into a single readable line:
//
//	2026-03-01 10:00:00 WARN  [pipeline] file failed dest=/out/a.jpg
//
// Lines that are not JSON objects are returned unchanged.
func Render(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return line
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
		return line
	}

	var b strings.Builder
	ts, ok := record["ts"].(string)
	if !ok {
		ts, ok = record["time"].(string)
	}
	if ok {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			ts = parsed.Local().Format(time.DateTime)
		}
		b.WriteString(ts)
		b.WriteByte(' ')
	}
	level, _ := record["level"].(string)
	fmt.Fprintf(&b, "%-5s ", strings.ToUpper(level))
	if component, ok := record["component"].(string); ok && component != "" {
		fmt.Fprintf(&b, "[%s] ", component)
	}
	msg, _ := record["msg"].(string)
	b.WriteString(msg)

	keys := make([]string, 0, len(record))
	for key := range record {
		if _, skip := reservedKeys[key]; !skip {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%s", key, renderValue(record[key]))
	}
	return b.String()
}

func renderValue(v any) string {
	switch value := v.(type) {
	case string:
		if value == "" || strings.ContainsAny(value, " \t\"=") {
			return fmt.Sprintf("%q", value)
		}
		return value
	case nil:
		return "null"
	case float64, bool:
		return fmt.Sprint(value)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(encoded)
	}
}
