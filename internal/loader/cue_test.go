package loader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flatkey/internal/doc"
)

func TestLoadFileCUE(t *testing.T) {
	path := writeFixture(t, "config.cue", `
namespace: "ns"
replicas:  3
ratio:     0.5
debug:     false
tags: ["a", "b"]
nested: inner: "value"
`)

	trees, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, trees, 1)

	m := trees[0].(*doc.Mapping)

	get := func(k string) doc.Value {
		v, ok := m.Get(k)
		require.True(t, ok, k)
		return v
	}
	assert.Equal(t, doc.String("ns"), get("namespace"))
	assert.Equal(t, doc.Int(3), get("replicas"))
	assert.Equal(t, doc.Float(0.5), get("ratio"))
	assert.Equal(t, doc.Bool(false), get("debug"))
	assert.Equal(t, doc.Sequence{doc.String("a"), doc.String("b")}, get("tags"))

	nested := get("nested").(*doc.Mapping)
	v, _ := nested.Get("inner")
	assert.Equal(t, doc.String("value"), v)
}

func TestLoadFileCUENotConcrete(t *testing.T) {
	path := writeFixture(t, "open.cue", `
port: int
`)

	_, err := LoadFile(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeSyntax, loadErr.Code)
}

func TestLoadFileCUESyntaxError(t *testing.T) {
	path := writeFixture(t, "bad.cue", `key: "unterminated`)

	_, err := LoadFile(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeSyntax, loadErr.Code)
}
