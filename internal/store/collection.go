package store

// collection is an id-keyed map that remembers insertion order. It has no
// locking of its own; Store serializes access.
type collection[T any] struct {
	items map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *collection[T]) has(id string) bool {
	_, ok := c.items[id]
	return ok
}

// set stores item under id. An existing id keeps its position.
func (c *collection[T]) set(id string, item T) {
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item
}

func (c *collection[T]) remove(id string) bool {
	if _, exists := c.items[id]; !exists {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) len() int {
	return len(c.order)
}

// list returns the items in insertion order, passed through clone.
func (c *collection[T]) list(clone func(T) T) []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.items[id]))
	}
	return out
}

// collectionOf builds a collection from items. Later duplicates of an id
// replace earlier ones.
func collectionOf[T any](items []T, idOf func(T) string) *collection[T] {
	c := newCollection[T]()
	for _, item := range items {
		c.set(idOf(item), item)
	}
	return c
}
