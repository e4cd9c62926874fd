package mask

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
	"sync"
)

// Mask is a set of independently enabled option bits.
type Mask uint64

// String formats the mask as a hexadecimal literal.
func (m Mask) String() string { return fmt.Sprintf("%#x", uint64(m)) }

// Has reports whether every bit of bits is set in m.
func (m Mask) Has(bits Mask) bool { return m&bits == bits }

// OptionEntry is a named option bit and its help text.
type OptionEntry struct {
	Name        string `json:"name"        msgpack:"name"        toml:"name"        yaml:"name"`
	Bit         Mask   `json:"bit"         msgpack:"bit"         toml:"bit"         yaml:"bit"`
	Description string `json:"description" msgpack:"description" toml:"description" yaml:"description"`
}

// describeWidth is the field width names are padded to by Describe.
const describeWidth = 20

// Registry maps option names to entries, ordered by name.
//
// A Registry is safe for concurrent use. The zero value is an empty registry
// ready to use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]OptionEntry
	names   []string // sorted keys of entries
}

// NewRegistry returns a registry holding entries. Later entries replace
// earlier ones with the same name.
func NewRegistry(entries ...OptionEntry) *Registry {
	r := new(Registry)

	for _, e := range entries {
		r.Register(e.Name, e.Bit, e.Description)
	}

	return r
}

// Register adds or replaces the entry for name.
func (r *Registry) Register(name string, bit Mask, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]OptionEntry)
	}

	if _, ok := r.entries[name]; !ok {
		i, _ := slices.BinarySearch(r.names, name)
		r.names = slices.Insert(r.names, i, name)
	}

	r.entries[name] = OptionEntry{Name: name, Bit: bit, Description: description}
}

// Lookup returns the bit registered for name. Names are matched exactly.
func (r *Registry) Lookup(name string) (Mask, bool) {
	e, ok := r.Entry(name)

	return e.Bit, ok
}

// Entry returns the entry registered for name.
func (r *Registry) Entry(name string) (OptionEntry, bool) {
	if r == nil {
		return OptionEntry{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]

	return e, ok
}

// Len returns the number of registered options.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.names)
}

// Names returns the registered option names in order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.names)
}

// Entries returns an iterator over a snapshot of the registry in name order.
func (r *Registry) Entries() iter.Seq[OptionEntry] {
	snapshot := r.snapshot()

	return slices.Values(snapshot)
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	return NewRegistry(r.snapshot()...)
}

// Merge registers every entry of other into r, replacing entries with the
// same name.
func (r *Registry) Merge(other *Registry) {
	for _, e := range other.snapshot() {
		r.Register(e.Name, e.Bit, e.Description)
	}
}

// Describe writes one line per option to w: the name left-justified in a
// fixed-width field, a tab, and the description.
func (r *Registry) Describe(w io.Writer) error {
	for _, e := range r.snapshot() {
		if _, err := fmt.Fprintf(w, "  %-*s\t%s\n",
			describeWidth, e.Name, e.Description); err != nil {
			return err
		}
	}

	return nil
}

// String returns the text written by [Registry.Describe].
func (r *Registry) String() string {
	var sb strings.Builder

	_ = r.Describe(&sb)

	return sb.String()
}

func (r *Registry) snapshot() []OptionEntry {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]OptionEntry, len(r.names))
	for i, name := range r.names {
		out[i] = r.entries[name]
	}

	return out
}
