package doc

import (
	"strconv"
)

// Value is a sealed interface representing document tree node types.
// Only Null, String, Int, Float, Bool, Sequence, and *Mapping implement it.
type Value interface {
	docValue() // Sealed - only these types implement it
}

// Null represents an explicit null in the document.
// Using an explicit type keeps nil out of the tree entirely.
type Null struct{}

func (Null) docValue() {}

// String represents a string scalar.
type String string

func (String) docValue() {}

// Int represents an integer scalar. Always int64.
type Int int64

func (Int) docValue() {}

// Float represents a floating-point scalar.
type Float float64

func (Float) docValue() {}

// Bool represents a boolean scalar.
type Bool bool

func (Bool) docValue() {}

// Sequence represents an ordered list of values.
type Sequence []Value

func (Sequence) docValue() {}

// Mapping represents a key/value mapping that preserves the key order of
// the source document. Always constructed via NewMapping or FromPairs;
// the zero value is not usable.
type Mapping struct {
	keys   []string
	values map[string]Value
}

func (*Mapping) docValue() {}

// NewMapping creates an empty ordered mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// Pair is a key-value pair for literal Mapping construction.
type Pair struct {
	Key   string
	Value Value
}

// P is a shorthand constructor for Pair.
// Example: FromPairs(P("name", String("cart")), P("count", Int(5)))
func P(key string, value Value) Pair {
	return Pair{Key: key, Value: value}
}

// FromPairs creates a Mapping whose key order follows the pair order.
// A repeated key keeps its first position but takes the last value.
func FromPairs(pairs ...Pair) *Mapping {
	m := NewMapping()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Set inserts or replaces a key. New keys append to the key order;
// existing keys keep their original position.
func (m *Mapping) Set(key string, value Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it is present.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (m *Mapping) Keys() []string {
	return m.keys
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// StringForm renders a value the way it appears when substituted into a
// string or emitted as text: strings verbatim, numbers and booleans in
// their literal form, null as the empty string, sequences and mappings as
// canonical JSON.
func StringForm(v Value) string {
	switch val := v.(type) {
	case Null:
		return ""
	case String:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(val))
	case Sequence, *Mapping:
		b, err := MarshalCanonical(val)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// Truthy reports whether a value counts as "set" for reference lookup.
// Null, the empty string, false, numeric zero, and the empty sequence are
// all falsy. Note the quirk this preserves: an empty string is
// indistinguishable from an undefined key at lookup time.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, Null:
		return false
	case String:
		return val != ""
	case Int:
		return val != 0
	case Float:
		return val != 0
	case Bool:
		return bool(val)
	case Sequence:
		return len(val) > 0
	case *Mapping:
		return val.Len() > 0
	default:
		return false
	}
}
