// Package merge combines parsed document trees into a single tree with
// deep-merge semantics: nested mappings merge key by key, while scalars
// and sequences are replaced wholesale by the later document.
package merge

import (
	"github.com/roach88/flatkey/internal/doc"
)

// Merge folds the trees left to right. Later trees take precedence.
// Merge of no trees is an empty mapping; merge of one tree is that tree.
// Merge is total over well-formed trees - it has no failure modes.
func Merge(trees ...doc.Value) doc.Value {
	if len(trees) == 0 {
		return doc.NewMapping()
	}
	result := trees[0]
	for _, tree := range trees[1:] {
		result = deepMerge(result, tree)
	}
	return result
}

// deepMerge combines two values. When both sides are mappings the result
// is their key-union with shared keys merged recursively; key order is
// a's keys in order, then b's additions in order. In every other case b
// wins outright - sequences are not concatenated, the later document's
// sequence replaces the earlier one.
func deepMerge(a, b doc.Value) doc.Value {
	am, aok := a.(*doc.Mapping)
	bm, bok := b.(*doc.Mapping)
	if !aok || !bok {
		return b
	}

	out := doc.NewMapping()
	for _, key := range am.Keys() {
		av, _ := am.Get(key)
		if bv, ok := bm.Get(key); ok {
			out.Set(key, deepMerge(av, bv))
		} else {
			out.Set(key, av)
		}
	}
	for _, key := range bm.Keys() {
		if _, ok := am.Get(key); !ok {
			bv, _ := bm.Get(key)
			out.Set(key, bv)
		}
	}
	return out
}
