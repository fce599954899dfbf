package analytics

import "sort"

// OrderedMap is a map that remembers key insertion order.
// Grouping with it keeps first-seen order stable before any explicit sort.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. New keys are appended to the order.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// GetOrInit returns the value for key, storing init() first when absent.
func (m *OrderedMap[K, V]) GetOrInit(key K, init func() V) V {
	if v, ok := m.values[key]; ok {
		return v
	}
	v := init()
	m.Set(key, v)
	return v
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// Values returns the values in insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	out := make([]V, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.values[k]
	}
	return out
}

// SortedValues returns the values stably sorted by less. Equal elements keep
// insertion order.
func (m *OrderedMap[K, V]) SortedValues(less func(a, b V) bool) []V {
	out := m.Values()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
