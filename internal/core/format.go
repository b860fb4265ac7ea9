package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FormatTime renders a millisecond count as m:ss.mmm with floor
// division throughout, no rounding.
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

// formatSeconds renders a second count as m:ss.
func formatSeconds(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// FormatMetadata renders a metadata mapping as sorted "key: value"
// lines, one chunk per line. A few fields get unit-aware rendering to
// accommodate the divergent conventions of real players: audio-bitrate
// arrives in bits per second, "time" in seconds and "mtime" in
// milliseconds (though some players misuse it, see status.go).
func FormatMetadata(md map[string]any) []string {
	keys := make([]string, 0, len(md))
	for key := range md {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s\n", key, formatField(key, md[key])))
	}
	return lines
}

func formatField(key string, value any) string {
	switch key {
	case "audio-bitrate":
		if bps, ok := asFloat(value); ok {
			kbps := bps / 1000
			if math.Abs(kbps-math.Trunc(kbps)) < 0.01 {
				return strconv.FormatInt(int64(kbps), 10)
			}
			return strconv.FormatFloat(kbps, 'f', 3, 64)
		}
	case "time":
		if secs, ok := asInt64(value); ok {
			return fmt.Sprintf("%s (%s)", formatValue(value), formatSeconds(secs))
		}
	case "mtime":
		if ms, ok := asInt64(value); ok {
			return fmt.Sprintf("%s (%s)", formatValue(value), FormatTime(ms))
		}
	}
	return formatValue(value)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(value)
	}
}

// asInt64 coerces the numeric shapes players actually send: every
// integer width, floats and numeric strings.
func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	if n, ok := asInt64(value); ok {
		return float64(n), true
	}
	return 0, false
}

// asString returns the first string-ish rendering of a metadata value;
// artist fields in particular arrive as either a string or a list.
func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case []string:
		if len(v) > 0 && v[0] != "" {
			return v[0], true
		}
	case []any:
		if len(v) > 0 {
			return asString(v[0])
		}
	}
	return "", false
}
