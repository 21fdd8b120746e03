package domain

import "iter"

// Ordered is a map that remembers insertion order. Setting an existing key
// replaces its value but keeps the key's original position.
// The zero value is ready to use.
type Ordered[V any] struct {
	keys   []string
	values map[string]V
}

// Fields holds string attributes and typed properties.
type Fields = Ordered[string]

func (o *Ordered[V]) Set(key string, v V) {
	if o.values == nil {
		o.values = make(map[string]V)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Ordered[V]) Get(key string) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Ordered[V]) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o *Ordered[V]) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

func (o *Ordered[V]) Len() int { return len(o.keys) }

// Keys returns a copy of the keys in insertion order.
func (o *Ordered[V]) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// All iterates key/value pairs in insertion order.
func (o *Ordered[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// Map returns an unordered copy.
func (o *Ordered[V]) Map() map[string]V {
	out := make(map[string]V, len(o.keys))
	for _, k := range o.keys {
		out[k] = o.values[k]
	}
	return out
}
