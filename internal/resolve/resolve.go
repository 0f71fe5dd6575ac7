// Package resolve implements the flatten-and-resolve core: a depth-first
// traversal that converts a merged document tree into an ordered flat
// mapping of dotted key-paths, substituting $(name) references against
// entries resolved earlier in the same traversal.
package resolve

import (
	"regexp"
	"strconv"

	"github.com/roach88/flatkey/internal/doc"
)

// ArraySuffix is appended to a sequence's key-path for its whole-array
// entry in the resolved map.
const ArraySuffix = ".array"

// varPattern matches the first $(name) reference in a string.
// name is one or more non-")" characters.
var varPattern = regexp.MustCompile(`\$\(([^)]+)\)`)

// Result is the output of a flatten pass.
type Result struct {
	// Resolved maps dotted key-paths to final values in visit order.
	Resolved *Resolved

	// ArrayMarks holds every key-path that denotes a whole sequence.
	// Each marked path has a companion "<path>.array" entry in Resolved
	// alongside the flattened per-element entries - a deliberate dual
	// representation so consumers can choose element-level or
	// whole-array access.
	ArrayMarks map[string]bool
}

// Flatten walks the tree depth-first, mapping keys in document order and
// sequence elements in index order, and returns the resolved flat map.
//
// String scalars have $(name) references substituted against the resolved
// map state at the moment their key is visited; a reference to a key not
// yet visited (or visited but falsy) fails with UndefinedVariableError.
// The input tree is never mutated.
func Flatten(tree *doc.Mapping) (*Result, error) {
	res := &Result{
		Resolved:   NewResolved(),
		ArrayMarks: make(map[string]bool),
	}
	if err := res.walkMapping("", tree); err != nil {
		return nil, err
	}
	return res, nil
}

func (res *Result) walkMapping(prefix string, m *doc.Mapping) error {
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		if err := res.visit(pathJoin(prefix, key), v); err != nil {
			return err
		}
	}
	return nil
}

func (res *Result) visit(path string, v doc.Value) error {
	switch val := v.(type) {
	case *doc.Mapping:
		// No entry for the mapping itself, only for its leaves.
		return res.walkMapping(path, val)

	case doc.Sequence:
		// Whole-array entry first, then the elements. The whole-array
		// value is the sequence as found in the document - element
		// substitution happens only on the per-element entries.
		res.ArrayMarks[path] = true
		if err := res.Resolved.Set(path+ArraySuffix, val); err != nil {
			return err
		}
		for i, elem := range val {
			if err := res.visit(pathJoin(path, strconv.Itoa(i)), elem); err != nil {
				return err
			}
		}
		return nil

	case doc.String:
		s, err := res.resolveVars(string(val), path)
		if err != nil {
			return err
		}
		return res.Resolved.Set(path, doc.String(s))

	default:
		// Non-string scalars pass through untouched.
		return res.Resolved.Set(path, v)
	}
}

// resolveVars substitutes $(name) references in s, left to right, one at
// a time: the first occurrence is replaced with the looked-up value's
// string form and the scan restarts on the updated string until no
// pattern remains.
//
// A lookup fails when the name is absent from the resolved map or its
// value is falsy. The falsy rule means an empty-string key is
// indistinguishable from an undefined one - a preserved quirk of the
// substitution semantics, so do not "fix" it without checking with the
// document producers first.
//
// Resolved string values never contain references (they were substituted
// when written), but whole-array entries hold their elements raw, so a
// looked-up string form can itself carry $(name) patterns. Those are
// resolved in place with the owning name held active; a chain that loops
// back through an active name fails as undefined instead of rescanning
// forever.
func (res *Result) resolveVars(s, owningKey string) (string, error) {
	return res.expand(s, owningKey, nil)
}

func (res *Result) expand(s, owningKey string, active map[string]bool) (string, error) {
	for {
		m := varPattern.FindStringSubmatchIndex(s)
		if m == nil {
			return s, nil
		}
		name := s[m[2]:m[3]]
		if active[name] {
			return "", &UndefinedVariableError{Name: name, Key: owningKey}
		}
		v, ok := res.Resolved.Get(name)
		if !ok || !doc.Truthy(v) {
			return "", &UndefinedVariableError{Name: name, Key: owningKey}
		}
		form := doc.StringForm(v)
		if varPattern.MatchString(form) {
			if active == nil {
				active = make(map[string]bool)
			}
			active[name] = true
			expanded, err := res.expand(form, owningKey, active)
			delete(active, name)
			if err != nil {
				return "", err
			}
			form = expanded
		}
		s = s[:m[0]] + form + s[m[1]:]
	}
}

func pathJoin(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
