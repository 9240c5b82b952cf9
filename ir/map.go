package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"reflect"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Map is an insertion ordered mapping from canonical keys to resolved
// values. It is the resolved form of an object node.
type Map struct {
	keys []Key
	vals map[Key]any
}

func NewMap(n int) *Map {
	return &Map{
		keys: make([]Key, 0, n),
		vals: make(map[Key]any, n),
	}
}

// MapOf builds a Map from alternating keys and values. It panics on an odd
// number of arguments or a non string key.
func MapOf(kvs ...any) *Map {
	if len(kvs)%2 != 0 {
		panic("MapOf: odd number of arguments")
	}
	m := NewMap(len(kvs) / 2)
	for i := 0; i < len(kvs); i += 2 {
		switch k := kvs[i].(type) {
		case string:
			m.Set(Key(k), kvs[i+1])
		case Key:
			m.Set(k, kvs[i+1])
		default:
			panic(fmt.Sprintf("MapOf: key %v is %T", kvs[i], kvs[i]))
		}
	}
	return m
}

// Set adds or replaces k. A replaced key keeps its position.
func (m *Map) Set(k Key, v any) {
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

func (m *Map) Get(k Key) (any, bool) {
	v, ok := m.vals[k]
	return v, ok
}

func (m *Map) Delete(k Key) {
	if _, ok := m.vals[k]; !ok {
		return
	}
	delete(m.vals, k)
	for i := range m.keys {
		if m.keys[i] == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *Map) Keys() []Key {
	res := make([]Key, len(m.keys))
	copy(res, m.keys)
	return res
}

func (m *Map) All() iter.Seq2[Key, any] {
	return func(yield func(Key, any) bool) {
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Clone copies the top level of m.
func (m *Map) Clone() *Map {
	res := NewMap(len(m.keys))
	for k, v := range m.All() {
		res.Set(k, v)
	}
	return res
}

// Equal reports whether m and o hold the same keys in the same order with
// deeply equal values.
func (m *Map) Equal(o *Map) bool {
	if m == nil || o == nil {
		return m == o
	}
	return reflect.DeepEqual(m.keys, o.keys) && reflect.DeepEqual(m.vals, o.vals)
}

// Dig walks path through nested maps and slices. Unlike a plain lookup it
// distinguishes a missing path (ErrPathNotFound) from a present nil.
func (m *Map) Dig(path ...string) (any, error) {
	var cur any = m
	for i, seg := range path {
		found := false
		switch x := cur.(type) {
		case *Map:
			cur, found = x.Get(Key(seg))
		case []any:
			idx, err := strconv.Atoi(seg)
			if err == nil && idx >= 0 && idx < len(x) {
				cur, found = x[idx], true
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s (at %s)", ErrPathNotFound, KPath(path), KPath(path[:i+1]))
		}
	}
	return cur, nil
}

func (m *Map) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer([]byte{'{'})
	for i, k := range m.keys {
		if i != 0 {
			buf.WriteByte(',')
		}
		kd, err := json.Marshal(string(k))
		if err != nil {
			return nil, err
		}
		buf.Write(kd)
		buf.WriteByte(':')
		vd, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vd)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *Map) MarshalYAML() (any, error) {
	res := make(yaml.MapSlice, 0, len(m.keys))
	for _, k := range m.keys {
		res = append(res, yaml.MapItem{Key: string(k), Value: m.vals[k]})
	}
	return res, nil
}

func (m *Map) String() string {
	d, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<map: %v>", err)
	}
	return string(d)
}
