package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarSingletonsAreIdentical(t *testing.T) {
	assert.Same(t, TInt32, TInt32)
	assert.True(t, Equal(TBool, TBool))
	assert.NotSame(t, TInt32, TInt64)
}

// TestNewPointerInterns exercises property P3: structurally equal pointer
// types, built from separate calls, come back as the same *Type.
func TestNewPointerInterns(t *testing.T) {
	a := NewPointer(TInt32)
	b := NewPointer(TInt32)
	assert.Same(t, a, b)
	assert.Equal(t, Pointer, a.Kind)
	assert.Same(t, TInt32, a.Elem)

	c := NewPointer(TFloat64)
	assert.NotSame(t, a, c)
}

func TestNewArrayInternsByElemAndLen(t *testing.T) {
	a := NewArray(TInt32, 5)
	b := NewArray(TInt32, 5)
	assert.Same(t, a, b)

	diffLen := NewArray(TInt32, 6)
	assert.NotSame(t, a, diffLen)

	diffElem := NewArray(TFloat32, 5)
	assert.NotSame(t, a, diffElem)
}

// TestNewArrayNestingBuildsMultiDimensionalRightToLeft matches the documented
// construction order for a multi-dimensional array: the innermost dimension
// is built first and becomes the element type of the next one out.
func TestNewArrayNestingBuildsMultiDimensionalRightToLeft(t *testing.T) {
	matrix := NewArray(NewArray(TInt32, 3), 5)
	assert.Equal(t, Array, matrix.Kind)
	assert.Equal(t, 5, matrix.Len)
	require := matrix.Elem
	assert.Equal(t, Array, require.Kind)
	assert.Equal(t, 3, require.Len)
	assert.Same(t, TInt32, require.Elem)
}

func TestNewFunctionInternsBySignature(t *testing.T) {
	a := NewFunction(TInt32, []*Type{TInt32, TBool})
	b := NewFunction(TInt32, []*Type{TInt32, TBool})
	assert.Same(t, a, b)

	diffRet := NewFunction(TVoid, []*Type{TInt32, TBool})
	assert.NotSame(t, a, diffRet)

	diffParams := NewFunction(TInt32, []*Type{TBool, TInt32})
	assert.NotSame(t, a, diffParams)
}

func TestNewFunctionCopiesParamSlice(t *testing.T) {
	params := []*Type{TInt32, TBool}
	fn := NewFunction(TVoid, params)
	params[0] = TFloat64
	assert.Same(t, TInt32, fn.Params[0], "NewFunction must not alias the caller's slice")
}

func TestFromBasic(t *testing.T) {
	cases := []struct {
		lexeme string
		want   *Type
		ok     bool
	}{
		{"int", TInt32, true},
		{"char", TChar, true},
		{"float", TFloat32, true},
		{"bool", TBool, true},
		{"nope", nil, false},
	}
	for _, c := range cases {
		got, ok := FromBasic(c.lexeme)
		assert.Equal(t, c.ok, ok)
		if c.ok {
			assert.Same(t, c.want, got)
		}
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int32", TInt32.String())
	assert.Equal(t, "*int32", NewPointer(TInt32).String())
	assert.Equal(t, "[4]int32", NewArray(TInt32, 4).String())
	fn := NewFunction(TBool, []*Type{TInt32, TChar})
	assert.Equal(t, "func(int32, char) bool", fn.String())
}

func TestIsNumericIsFloatIsSigned(t *testing.T) {
	assert.True(t, TInt32.IsNumeric())
	assert.True(t, TFloat64.IsNumeric())
	assert.False(t, TBool.IsNumeric())

	assert.True(t, TFloat32.IsFloat())
	assert.False(t, TInt32.IsFloat())

	assert.True(t, TInt64.IsSigned())
	assert.False(t, TUint64.IsSigned())
}

func TestKindStringUnknown(t *testing.T) {
	assert.Equal(t, "Kind(999)", Kind(999).String())
}
