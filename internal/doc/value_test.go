package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(4.2)
	var _ Value = Bool(true)
	var _ Value = Sequence{String("a"), Int(1)}
	var _ Value = FromPairs(P("key", String("value")))
}

func TestMappingPreservesInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.Set("zebra", String("z"))
	m.Set("apple", String("a"))
	m.Set("banana", String("b"))

	assert.Equal(t, []string{"zebra", "apple", "banana"}, m.Keys())
}

func TestMappingSetExistingKeyKeepsPosition(t *testing.T) {
	m := NewMapping()
	m.Set("first", Int(1))
	m.Set("second", Int(2))
	m.Set("first", Int(10))

	assert.Equal(t, []string{"first", "second"}, m.Keys())

	v, ok := m.Get("first")
	require.True(t, ok)
	assert.Equal(t, Int(10), v)
}

func TestMappingGetMissing(t *testing.T) {
	m := NewMapping()
	_, ok := m.Get("absent")
	assert.False(t, ok)
}

func TestFromPairs(t *testing.T) {
	m := FromPairs(
		P("name", String("cart")),
		P("count", Int(5)),
	)

	require.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"name", "count"}, m.Keys())

	v, ok := m.Get("count")
	require.True(t, ok)
	assert.Equal(t, Int(5), v)
}

func TestStringForm(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"string", String("hello"), "hello"},
		{"empty string", String(""), ""},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"float", Float(2.5), "2.5"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"null", Null{}, ""},
		{"sequence", Sequence{Int(1), String("a")}, `[1,"a"]`},
		{"mapping", FromPairs(P("k", Int(1))), `{"k":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StringForm(tt.value))
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{"non-empty string", String("x"), true},
		{"empty string", String(""), false},
		{"nonzero int", Int(1), true},
		{"zero int", Int(0), false},
		{"nonzero float", Float(0.1), true},
		{"zero float", Float(0), false},
		{"true", Bool(true), true},
		{"false", Bool(false), false},
		{"null", Null{}, false},
		{"non-empty sequence", Sequence{Int(1)}, true},
		{"empty sequence", Sequence{}, false},
		{"non-empty mapping", FromPairs(P("k", Int(1))), true},
		{"empty mapping", NewMapping(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.value))
		})
	}
}
