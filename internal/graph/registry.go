package graph

import (
	"fmt"
	"strconv"
)

// LocationID identifies a location inside one Registry. Only a Registry can
// mint ids, so ids from different graphs cannot be forged from plain ints.
type LocationID struct {
	v int
}

// Int returns the dense zero-based index of the id.
func (id LocationID) Int() int { return id.v }

func (id LocationID) String() string { return strconv.Itoa(id.v) }

// Registry maps location names to ids. Ids are assigned sequentially in the
// order names are first seen.
type Registry struct {
	ids   map[string]LocationID
	names []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]LocationID)}
}

// NewRegistryFromNames registers names in order. A repeated name is an error.
func NewRegistryFromNames(names ...string) (*Registry, error) {
	r := NewRegistry()
	for _, name := range names {
		if _, err := r.Insert(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Insert registers a new name and returns its id.
func (r *Registry) Insert(name string) (LocationID, error) {
	if _, ok := r.ids[name]; ok {
		return LocationID{}, fmt.Errorf("%w: %q", ErrDuplicateLocation, name)
	}
	id := LocationID{v: len(r.names)}
	r.ids[name] = id
	r.names = append(r.names, name)
	return id, nil
}

// GetOrInsert returns the id of name, registering it first if needed.
func (r *Registry) GetOrInsert(name string) LocationID {
	if id, ok := r.ids[name]; ok {
		return id
	}
	id := LocationID{v: len(r.names)}
	r.ids[name] = id
	r.names = append(r.names, name)
	return id
}

// Lookup returns the id of name. A missing name is not an error.
func (r *Registry) Lookup(name string) (LocationID, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Name returns the name behind id, or "" if id was not minted by r.
func (r *Registry) Name(id LocationID) string {
	if id.v < 0 || id.v >= len(r.names) {
		return ""
	}
	return r.names[id.v]
}

// Len returns the number of registered locations.
func (r *Registry) Len() int { return len(r.names) }

// Names returns all names in id order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Equal reports whether both registries hold the same name/id pairs.
func (r *Registry) Equal(o *Registry) bool {
	if len(r.names) != len(o.names) {
		return false
	}
	for i, name := range r.names {
		if o.names[i] != name {
			return false
		}
	}
	return true
}
