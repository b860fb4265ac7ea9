package mpris

import (
	"github.com/godbus/dbus/v5"
)

// decodeMetadata converts a raw Metadata property value into a plain
// map. Non-compliant players return nil, scalars or oddly typed values
// here, so every conversion is a tolerant cast rather than an assertion.
func decodeMetadata(value any) (map[string]any, bool) {
	raw, ok := value.(map[string]dbus.Variant)
	if !ok {
		return nil, false
	}
	md := make(map[string]any, len(raw))
	for key, variant := range raw {
		md[key] = flattenValue(variant.Value())
	}
	return md, true
}

// flattenValue strips dbus container types so the core formatter only
// ever sees plain Go values.
func flattenValue(value any) any {
	switch v := value.(type) {
	case dbus.Variant:
		return flattenValue(v.Value())
	case dbus.ObjectPath:
		return string(v)
	case []dbus.Variant:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, flattenValue(item.Value()))
		}
		return out
	case []dbus.ObjectPath:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, string(item))
		}
		return out
	default:
		return value
	}
}

func toString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

func toBool(value any) (bool, bool) {
	b, ok := value.(bool)
	return b, ok
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
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
	case byte:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

func toFloat64(value any) (float64, bool) {
	if f, ok := value.(float64); ok {
		return f, true
	}
	if n, ok := toInt64(value); ok {
		return float64(n), true
	}
	return 0, false
}

// toTrackList accepts the shapes players use for the Tracks property:
// a proper object-path array, or strings from sloppier implementations.
func toTrackList(value any) ([]dbus.ObjectPath, bool) {
	switch v := value.(type) {
	case []dbus.ObjectPath:
		return v, true
	case []string:
		out := make([]dbus.ObjectPath, 0, len(v))
		for _, item := range v {
			out = append(out, dbus.ObjectPath(item))
		}
		return out, true
	case []any:
		out := make([]dbus.ObjectPath, 0, len(v))
		for _, item := range v {
			switch t := item.(type) {
			case dbus.ObjectPath:
				out = append(out, t)
			case string:
				out = append(out, dbus.ObjectPath(t))
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

func toTrackID(value any) (dbus.ObjectPath, bool) {
	switch v := value.(type) {
	case dbus.ObjectPath:
		return v, true
	case string:
		return dbus.ObjectPath(v), true
	}
	return "", false
}
