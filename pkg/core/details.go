package core

import (
	"bytes"
	"encoding/json"
)

// Details is a string-keyed map that preserves insertion order, so the
// sub-scores that explain a dimension score always serialize before the
// derived fields. Not safe for concurrent mutation; every evaluation builds
// its own.
type Details struct {
	keys   []string
	values map[string]any
}

func NewDetails() *Details {
	return &Details{values: make(map[string]any)}
}

// Set adds or replaces a key. A replaced key keeps its original position.
func (d *Details) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

func (d *Details) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Float returns the value under key as a float64. The second return is
// false when the key is absent or holds another type.
func (d *Details) Float(key string) (float64, bool) {
	if v, ok := d.values[key]; ok {
		if f, ok := v.(float64); ok {
			return f, true
		}
	}
	return 0, false
}

func (d *Details) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

func (d *Details) Len() int {
	return len(d.keys)
}

// MarshalJSON emits a JSON object with keys in insertion order.
func (d *Details) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
