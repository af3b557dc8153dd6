package cmd

// ordered is a map that remembers insertion order. Re-inserting a key keeps
// its original position.
type ordered[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{values: make(map[K]V)}
}

func (o *ordered[K, V]) set(k K, v V) {
	if _, ok := o.values[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.values[k] = v
}

func (o *ordered[K, V]) get(k K) (V, bool) {
	v, ok := o.values[k]
	return v, ok
}

func (o *ordered[K, V]) len() int { return len(o.keys) }

func (o *ordered[K, V]) each(fn func(K, V) error) error {
	for _, k := range o.keys {
		if err := fn(k, o.values[k]); err != nil {
			return err
		}
	}
	return nil
}
