package settings

import (
	"sort"
	"strings"
	"sync"
)

// Change describes the keys that differ after a reload.
type Change struct {
	keys map[string]bool
}

// NewChange builds a Change for the given keys.
func NewChange(keys ...string) Change {
	c := Change{keys: make(map[string]bool, len(keys))}
	for _, k := range keys {
		c.keys[strings.ToLower(k)] = true
	}
	return c
}

// Affects reports whether key, or any key nested below it, changed.
// Keys are case-insensitive.
func (c Change) Affects(key string) bool {
	key = strings.ToLower(key)
	if c.keys[key] {
		return true
	}
	for k := range c.keys {
		if strings.HasPrefix(k, key+".") {
			return true
		}
	}
	return false
}

// Keys returns the changed keys in sorted order.
func (c Change) Keys() []string {
	keys := make([]string, 0, len(c.keys))
	for k := range c.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subscribe registers fn for every future Change. The returned func
// unsubscribes and may be called more than once.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) publish(c Change) {
	s.subsMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
