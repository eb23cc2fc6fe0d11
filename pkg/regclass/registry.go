// Package regclass tracks per-register-class capacity facts.
// A register class is a partition of physical registers (e.g. integer
// vs floating point). The number of allocatable registers and the ABI
// callee-saved count are target facts supplied by the caller; this
// package only stores and serves them.
package regclass

import "fmt"

// ID identifies a register class within one Registry. IDs are small
// integers assigned in first-sight order, so they can index slices.
type ID int

// Limits holds the capacity facts for one register class.
type Limits struct {
	// Allocatable is the number of physical registers usable by this
	// class in the current function/target.
	Allocatable int
	// CalleeSaved is the number of registers in this class that
	// survive a call without spilling. Always <= Allocatable.
	CalleeSaved int
}

// Registry maps class names to IDs and serves their limits.
// It is populated lazily on first sight of a class and each entry is
// immutable afterward within one run. A Registry is built fresh per
// analyzed function and never shared between concurrent analyses.
type Registry struct {
	byName map[string]ID
	names  []string
	limits []Limits
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]ID)}
}

// Intern returns the ID for the named class, registering it with the
// given limits on first sight. Limits passed on later calls for the
// same name are ignored; the first-sight facts win.
func (r *Registry) Intern(name string, lim Limits) ID {
	if id, ok := r.byName[name]; ok {
		return id
	}
	id := ID(len(r.names))
	r.byName[name] = id
	r.names = append(r.names, name)
	r.limits = append(r.limits, lim)
	return id
}

// Lookup returns the ID for a class name, if it has been interned.
func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Name returns the class name for an ID.
// Asking for an ID that was never interned is a bug in the caller,
// not an input condition, so it panics.
func (r *Registry) Name(id ID) string {
	r.check(id)
	return r.names[id]
}

// Limits returns the capacity facts for an ID.
// Panics on an ID that was never interned, same as Name.
func (r *Registry) Limits(id ID) Limits {
	r.check(id)
	return r.limits[id]
}

// Len returns the number of interned classes.
func (r *Registry) Len() int {
	return len(r.names)
}

// IDs returns all interned class IDs in ascending order, which is the
// deterministic iteration order for reports.
func (r *Registry) IDs() []ID {
	ids := make([]ID, len(r.names))
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

func (r *Registry) check(id ID) {
	if id < 0 || int(id) >= len(r.names) {
		panic(fmt.Sprintf("regclass: unknown class id %d (registry has %d classes)", id, len(r.names)))
	}
}
