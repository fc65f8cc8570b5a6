// Where: internal/docvalue/value.go
// What: Tagged union for record documents (string or nested mapping).
// Why: Keep the store's S/M wire shape expressible without reflection.
package docvalue

import "sort"

// Value is either a String or a Mapping.
type Value interface {
	isValue()
}

// String is a leaf value.
type String string

// Mapping is a nested document keyed by attribute name.
type Mapping map[string]Value

func (String) isValue()  {}
func (Mapping) isValue() {}

// FromPlain converts a plain Go value into a Value.
// Strings and string-keyed maps are accepted; any other dynamic type
// (numbers, bools, lists, nil) is reported as not ok and callers drop it.
// Nested unsupported values are dropped from their parent mapping.
func FromPlain(value any) (Value, bool) {
	switch v := value.(type) {
	case String:
		return v, true
	case string:
		return String(v), true
	case Mapping:
		out := make(Mapping, len(v))
		for key, item := range v {
			if converted, ok := FromPlain(item); ok {
				out[key] = converted
			}
		}
		return out, true
	case map[string]any:
		out := make(Mapping, len(v))
		for key, item := range v {
			if converted, ok := FromPlain(item); ok {
				out[key] = converted
			}
		}
		return out, true
	case map[string]string:
		out := make(Mapping, len(v))
		for key, item := range v {
			out[key] = String(item)
		}
		return out, true
	default:
		return nil, false
	}
}

// MappingFromPlain converts a plain document, dropping unsupported values.
func MappingFromPlain(doc map[string]any) Mapping {
	out := make(Mapping, len(doc))
	for key, item := range doc {
		if converted, ok := FromPlain(item); ok {
			out[key] = converted
		}
	}
	return out
}

// Set stores value under key when it is representable and reports whether it was kept.
func (m Mapping) Set(key string, value any) bool {
	converted, ok := FromPlain(value)
	if !ok {
		return false
	}
	m[key] = converted
	return true
}

// Str returns the string stored under key.
func (m Mapping) Str(key string) (string, bool) {
	v, ok := m[key].(String)
	return string(v), ok
}

// Keys returns the mapping keys in lexical order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for key, item := range m {
		switch v := item.(type) {
		case String:
			out[key] = v
		case Mapping:
			out[key] = v.Clone()
		}
	}
	return out
}

// Plain converts the mapping back into map[string]any with string leaves.
func (m Mapping) Plain() map[string]any {
	out := make(map[string]any, len(m))
	for key, item := range m {
		switch v := item.(type) {
		case String:
			out[key] = string(v)
		case Mapping:
			out[key] = v.Plain()
		}
	}
	return out
}
