package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_SortedKeys(t *testing.T) {
	obj := Object{"b": Int(1), "a": Int(2), "c": Int(3)}
	assert.Equal(t, []string{"a", "b", "c"}, obj.SortedKeys())
	assert.Empty(t, Object{}.SortedKeys())
}

func TestObject_Accessors(t *testing.T) {
	obj := Object{"by": Int(3), "name": String("x")}

	n, ok := obj.Int("by")
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	_, ok = obj.Int("name")
	assert.False(t, ok)

	var empty Object
	assert.Nil(t, empty.Get("by"))
	_, ok = empty.Int("by")
	assert.False(t, ok)
}

func TestMarshalJSON_SortedAndNested(t *testing.T) {
	obj := Object{
		"z":    Array{Int(1), Null{}, Bool(true)},
		"a":    String("<x>"),
		"next": Object{"k": Int(-2)},
	}

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"<x>","next":{"k":-2},"z":[1,null,true]}`, string(data))
}

func TestUnmarshal(t *testing.T) {
	v, err := Unmarshal([]byte(`{"a":[1,"b",true,null],"big":9007199254740993}`))
	require.NoError(t, err)

	assert.Equal(t, Object{
		"a":   Array{Int(1), String("b"), Bool(true), Null{}},
		"big": Int(9007199254740993),
	}, v)
}

func TestUnmarshal_RejectsFloats(t *testing.T) {
	for _, input := range []string{`1.5`, `{"a":2e3}`, `[1E2]`} {
		_, err := Unmarshal([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestObject_UnmarshalJSON(t *testing.T) {
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(`{"by":2}`), &obj))
	assert.Equal(t, Object{"by": Int(2)}, obj)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &obj))

	var arr Array
	require.NoError(t, json.Unmarshal([]byte(`["x"]`), &arr))
	assert.Equal(t, Array{String("x")}, arr)
}

func TestFromAny(t *testing.T) {
	// Shapes yaml.v3 produces.
	v, err := FromAny(map[string]any{
		"n":    3,
		"f":    4.0,
		"list": []any{"a", false},
		"none": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, Object{
		"n":    Int(3),
		"f":    Int(4),
		"list": Array{String("a"), Bool(false)},
		"none": Null{},
	}, v)

	_, err = FromAny(map[string]any{"x": 1.25})
	assert.ErrorContains(t, err, `object["x"]`)

	_, err = FromAny(struct{}{})
	assert.Error(t, err)
}

func TestFromAny_Int64Bounds(t *testing.T) {
	_, err := FromAny(float64(1 << 63))
	assert.ErrorContains(t, err, "floats are not allowed")

	v, err := FromAny(-float64(1 << 63))
	require.NoError(t, err)
	assert.Equal(t, Int(math.MinInt64), v)

	v, err = FromAny(float64(1 << 53))
	require.NoError(t, err)
	assert.Equal(t, Int(1<<53), v)

	_, err = FromAny(uint64(1 << 63))
	assert.ErrorContains(t, err, "out of int64 range")

	v, err = FromAny(uint64(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, Int(math.MaxInt64), v)
}

func TestObjectFromAny(t *testing.T) {
	obj, err := ObjectFromAny(nil)
	require.NoError(t, err)
	assert.Nil(t, obj)

	obj, err = ObjectFromAny(map[string]any{"by": 2})
	require.NoError(t, err)
	assert.Equal(t, Object{"by": Int(2)}, obj)
}

func TestToAny_RoundTrip(t *testing.T) {
	orig := Object{"a": Array{Int(1), String("x")}, "b": Bool(true)}
	back, err := FromAny(ToAny(orig))
	require.NoError(t, err)
	assert.True(t, Equal(orig, back))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int(1), Int(1)))
	assert.False(t, Equal(Int(1), String("1")))
	assert.True(t, Equal(nil, Null{}))
	assert.True(t, Equal(Array{Int(1)}, Array{Int(1)}))
	assert.False(t, Equal(Array{Int(1)}, Array{Int(2)}))
	assert.True(t, Equal(Object{"a": Array{}}, Object{"a": Array{}}))
	assert.False(t, Equal(Object{"a": Int(1)}, Object{"b": Int(1)}))
	assert.False(t, Equal(Object{}, Array{}))
}
