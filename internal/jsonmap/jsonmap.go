// Package jsonmap provides a JSON object that marshals in insertion order.
// The output format reads several of its objects (skin attachments,
// animated bones) in authoring order, which Go maps would alphabetize.
package jsonmap

import (
	"bytes"
	"encoding/json"
)

// Map is an insertion-ordered string-keyed object.
type Map[V any] struct {
	keys []string
	vals map[string]V
}

// New returns an empty ordered map.
func New[V any]() *Map[V] {
	return &Map[V]{vals: make(map[string]V)}
}

// Set inserts or replaces a key. First insertion fixes its position.
func (m *Map[V]) Set(key string, val V) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = val
}

// Get returns the value for key.
func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Len returns the number of keys.
func (m *Map[V]) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Map[V]) Keys() []string { return m.keys }

// MarshalJSON emits a JSON object with keys in insertion order.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
