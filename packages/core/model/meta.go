package model

// Meta is an ordered set of tag/value annotations on a story or scenario.
// Values may be empty; names are unique and kept in insertion order.
type Meta struct {
	names  []string
	values map[string]string
}

// EmptyMeta is a meta with no tags.
var EmptyMeta = Meta{}

// NewMeta builds a meta from alternating name/value pairs.
func NewMeta(pairs ...string) Meta {
	m := Meta{}
	for i := 0; i+1 < len(pairs); i += 2 {
		m = m.With(pairs[i], pairs[i+1])
	}
	return m
}

// With returns a copy of the meta with the given tag set. Setting an existing
// name replaces its value without changing its position.
func (m Meta) With(name, value string) Meta {
	out := Meta{
		names:  make([]string, len(m.names)),
		values: make(map[string]string, len(m.values)+1),
	}
	copy(out.names, m.names)
	for k, v := range m.values {
		out.values[k] = v
	}
	if _, ok := out.values[name]; !ok {
		out.names = append(out.names, name)
	}
	out.values[name] = value
	return out
}

// Names returns the tag names in insertion order.
func (m Meta) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Value returns the value of a tag and whether the tag is present.
func (m Meta) Value(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Property returns the value of a tag, or "" when absent.
func (m Meta) Property(name string) string {
	return m.values[name]
}

// IsEmpty reports whether the meta has no tags.
func (m Meta) IsEmpty() bool {
	return len(m.names) == 0
}

// InheritFrom merges the parent's tags into this meta. Tags already present
// on the receiver win on conflicts, so scenario meta takes precedence over
// story meta.
func (m Meta) InheritFrom(parent Meta) Meta {
	out := m
	for _, name := range parent.names {
		if _, ok := out.Value(name); !ok {
			out = out.With(name, parent.values[name])
		}
	}
	return out
}
