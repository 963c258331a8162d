package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// Entry is a single key/value pair of a Mapping.
type Entry[V any] struct {
	Key   string
	Value V
}

// Mapping is a read-only string-keyed mapping that remembers the order in
// which its keys were declared in the source document.
//
// The zero value is an empty mapping.
type Mapping[V any] struct {
	keys   []string
	values map[string]V
}

// MappingOf builds a Mapping holding entries in the given order.
//
// Precondition: entry keys must be unique.
// Postcondition: Keys() returns the entry keys in argument order.
func MappingOf[V any](entries ...Entry[V]) Mapping[V] {
	var m Mapping[V]
	for _, e := range entries {
		if _, exists := m.values[e.Key]; exists {
			panic(fmt.Sprintf("resource.MappingOf: precondition violated: duplicate key %q", e.Key))
		}
		m.put(e.Key, e.Value)
	}
	return m
}

// put stores v under key. A new key is appended to the order; an existing key
// keeps its original position and takes the new value.
func (m *Mapping[V]) put(key string, v V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Len returns the number of keys.
func (m Mapping[V]) Len() int { return len(m.keys) }

// Get returns the value stored under key and whether it was present.
func (m Mapping[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m Mapping[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns a copy of the keys in declaration order.
func (m Mapping[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Entries returns a copy of the key/value pairs in declaration order.
func (m Mapping[V]) Entries() []Entry[V] {
	out := make([]Entry[V], 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Entry[V]{Key: k, Value: m.values[k]})
	}
	return out
}

// All iterates the key/value pairs in declaration order.
func (m Mapping[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the mapping as a JSON object whose members follow
// declaration order.
func (m Mapping[V]) MarshalJSON() ([]byte, error) {
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
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding value of %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the mapping as a YAML mapping node whose keys follow
// declaration order.
func (m Mapping[V]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		var val yaml.Node
		if err := val.Encode(m.values[k]); err != nil {
			return nil, fmt.Errorf("encoding value of %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}
