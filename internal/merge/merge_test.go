package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flatkey/internal/doc"
)

func TestMergeEmpty(t *testing.T) {
	result := Merge()
	m, ok := result.(*doc.Mapping)
	require.True(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMergeSingle(t *testing.T) {
	tree := doc.FromPairs(doc.P("a", doc.Int(1)))
	assert.Equal(t, doc.Value(tree), Merge(tree))
}

func TestMergeNestedMappings(t *testing.T) {
	// {a: 1, b: {x: 1}} + {b: {y: 2}} -> {a: 1, b: {x: 1, y: 2}}
	a := doc.FromPairs(
		doc.P("a", doc.Int(1)),
		doc.P("b", doc.FromPairs(doc.P("x", doc.Int(1)))),
	)
	b := doc.FromPairs(
		doc.P("b", doc.FromPairs(doc.P("y", doc.Int(2)))),
	)

	result := Merge(a, b).(*doc.Mapping)

	v, ok := result.Get("a")
	require.True(t, ok)
	assert.Equal(t, doc.Int(1), v)

	inner := mustMapping(t, result, "b")
	assert.Equal(t, []string{"x", "y"}, inner.Keys())
	x, _ := inner.Get("x")
	y, _ := inner.Get("y")
	assert.Equal(t, doc.Int(1), x)
	assert.Equal(t, doc.Int(2), y)
}

func TestMergeScalarLastWins(t *testing.T) {
	a := doc.FromPairs(doc.P("k", doc.String("old")))
	b := doc.FromPairs(doc.P("k", doc.String("new")))

	result := Merge(a, b).(*doc.Mapping)
	v, _ := result.Get("k")
	assert.Equal(t, doc.String("new"), v)
}

func TestMergeSequenceReplacedWholesale(t *testing.T) {
	a := doc.FromPairs(doc.P("list", doc.Sequence{doc.Int(1), doc.Int(2), doc.Int(3)}))
	b := doc.FromPairs(doc.P("list", doc.Sequence{doc.Int(9)}))

	result := Merge(a, b).(*doc.Mapping)
	v, _ := result.Get("list")
	assert.Equal(t, doc.Value(doc.Sequence{doc.Int(9)}), v)
}

func TestMergeMappingOverScalar(t *testing.T) {
	// A later mapping replaces an earlier scalar outright, and vice versa
	a := doc.FromPairs(doc.P("k", doc.String("scalar")))
	b := doc.FromPairs(doc.P("k", doc.FromPairs(doc.P("nested", doc.Int(1)))))

	result := Merge(a, b).(*doc.Mapping)
	_, isMapping := mustGet(t, result, "k").(*doc.Mapping)
	assert.True(t, isMapping)

	reversed := Merge(b, a).(*doc.Mapping)
	assert.Equal(t, doc.Value(doc.String("scalar")), mustGet(t, reversed, "k"))
}

func TestMergeAssociative(t *testing.T) {
	a := doc.FromPairs(doc.P("k", doc.Int(1)), doc.P("only_a", doc.Int(10)))
	b := doc.FromPairs(doc.P("k", doc.Int(2)), doc.P("only_b", doc.Int(20)))
	c := doc.FromPairs(doc.P("k", doc.Int(3)))

	leftFold := Merge(Merge(a, b), c)
	allAtOnce := Merge(a, b, c)

	assert.Equal(t, allAtOnce, leftFold)
	v := mustGet(t, allAtOnce.(*doc.Mapping), "k")
	assert.Equal(t, doc.Int(3), v)
}

func TestMergeNotCommutative(t *testing.T) {
	a := doc.FromPairs(doc.P("k", doc.String("from-a")))
	b := doc.FromPairs(doc.P("k", doc.String("from-b")))

	ab := mustGet(t, Merge(a, b).(*doc.Mapping), "k")
	ba := mustGet(t, Merge(b, a).(*doc.Mapping), "k")

	assert.Equal(t, doc.String("from-b"), ab)
	assert.Equal(t, doc.String("from-a"), ba)
	assert.NotEqual(t, ab, ba)
}

func TestMergeKeyOrder(t *testing.T) {
	// Earlier document's key order comes first, later additions append
	a := doc.FromPairs(doc.P("one", doc.Int(1)), doc.P("two", doc.Int(2)))
	b := doc.FromPairs(doc.P("three", doc.Int(3)), doc.P("two", doc.Int(22)))

	result := Merge(a, b).(*doc.Mapping)
	assert.Equal(t, []string{"one", "two", "three"}, result.Keys())
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	a := doc.FromPairs(doc.P("b", doc.FromPairs(doc.P("x", doc.Int(1)))))
	b := doc.FromPairs(doc.P("b", doc.FromPairs(doc.P("y", doc.Int(2)))))

	Merge(a, b)

	innerA := mustMapping(t, a, "b")
	assert.Equal(t, []string{"x"}, innerA.Keys())
	innerB := mustMapping(t, b, "b")
	assert.Equal(t, []string{"y"}, innerB.Keys())
}

func mustGet(t *testing.T, m *doc.Mapping, key string) doc.Value {
	t.Helper()
	v, ok := m.Get(key)
	require.True(t, ok, "key %q missing", key)
	return v
}

func mustMapping(t *testing.T, m *doc.Mapping, key string) *doc.Mapping {
	t.Helper()
	v := mustGet(t, m, key)
	inner, ok := v.(*doc.Mapping)
	require.True(t, ok, "key %q is %T, want mapping", key, v)
	return inner
}
