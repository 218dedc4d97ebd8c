// Package types implements the interned type system (spec §5, component
// C6): a closed set of scalar kinds plus pointer, array and function
// constructors, built so that structural equality implies pointer identity
// (spec property P3). Composite constructors are interned through
// github.com/dolthub/swiss hash maps, the way mna-nenuphar's lang/machine
// package backs its Map value with a swiss.Map rather than the standard
// library's built-in map.
package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dolthub/swiss"
)

// Kind differentiates the type system's closed set of constructors.
type Kind int

const (
	Void Kind = iota
	Bool
	Char
	Int32
	Int64
	Uint32
	Uint64
	Float32
	Float64
	Pointer
	Array
	Function
	BlockLabel
	TypeInfo
)

var kindNames = [...]string{
	Void: "void", Bool: "bool", Char: "char", Int32: "int32", Int64: "int64",
	Uint32: "uint32", Uint64: "uint64", Float32: "float32", Float64: "float64",
	Pointer: "pointer", Array: "array", Function: "function", BlockLabel: "label",
	TypeInfo: "typeinfo",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type is an interned type value. Two Types obtained through this package's
// constructors are structurally equal if and only if they are the same
// pointer (spec property P3): callers may compare Types with ==.
type Type struct {
	Kind   Kind
	Elem   *Type   // Pointer element, or Array element.
	Len    int     // Array length, when Kind == Array.
	Ret    *Type   // Function return type, when Kind == Function.
	Params []*Type // Function parameter types, when Kind == Function.
}

// String renders t the way the teacher's ir/lir/types package renders its
// own type enumeration: a short, reparsable-looking name.
func (t *Type) String() string {
	switch t.Kind {
	case Pointer:
		return "*" + t.Elem.String()
	case Array:
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem.String())
	case Function:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("func(%s) %s", strings.Join(parts, ", "), t.Ret.String())
	default:
		return t.Kind.String()
	}
}

// IsNumeric reports whether t is one of the arithmetic scalar kinds.
func (t *Type) IsNumeric() bool {
	switch t.Kind {
	case Int32, Int64, Uint32, Uint64, Float32, Float64, Char:
		return true
	default:
		return false
	}
}

// IsFloat reports whether t is one of the floating point kinds.
func (t *Type) IsFloat() bool { return t.Kind == Float32 || t.Kind == Float64 }

// IsSigned reports whether t is a signed integer kind.
func (t *Type) IsSigned() bool { return t.Kind == Int32 || t.Kind == Int64 }

// Scalar singletons. There is exactly one *Type value for each scalar kind,
// so identity comparison is free (no table lookup needed).
var (
	TVoid    = &Type{Kind: Void}
	TBool    = &Type{Kind: Bool}
	TChar    = &Type{Kind: Char}
	TInt32   = &Type{Kind: Int32}
	TInt64   = &Type{Kind: Int64}
	TUint32  = &Type{Kind: Uint32}
	TUint64  = &Type{Kind: Uint64}
	TFloat32 = &Type{Kind: Float32}
	TFloat64 = &Type{Kind: Float64}
	TLabel   = &Type{Kind: BlockLabel}
	TInfo    = &Type{Kind: TypeInfo}
)

// table is the interning machinery for the composite constructors. Each
// table maps a comparable structural key to the canonical *Type, guarded by
// a mutex since the IR builder and REPL shell (component C9) may intern
// concurrently.
type table struct {
	mu        sync.Mutex
	pointers  *swiss.Map[*Type, *Type]
	arrays    *swiss.Map[arrayKey, *Type]
	functions *swiss.Map[string, *Type]
}

type arrayKey struct {
	elem *Type
	len  int
}

var tbl = &table{
	pointers:  swiss.NewMap[*Type, *Type](64),
	arrays:    swiss.NewMap[arrayKey, *Type](64),
	functions: swiss.NewMap[string, *Type](64),
}

// NewPointer interns and returns the pointer-to-elem type.
func NewPointer(elem *Type) *Type {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	if t, ok := tbl.pointers.Get(elem); ok {
		return t
	}
	t := &Type{Kind: Pointer, Elem: elem}
	tbl.pointers.Put(elem, t)
	return t
}

// NewArray interns and returns the n-element array-of-elem type. Spec's
// multi-dimensional arrays are expressed as nested calls, e.g.
// NewArray(NewArray(TInt32, 3), 5) for a 5x3 matrix of ints.
func NewArray(elem *Type, n int) *Type {
	key := arrayKey{elem: elem, len: n}
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	if t, ok := tbl.arrays.Get(key); ok {
		return t
	}
	t := &Type{Kind: Array, Elem: elem, Len: n}
	tbl.arrays.Put(key, t)
	return t
}

// NewFunction interns and returns the function type (ret, params...).
func NewFunction(ret *Type, params []*Type) *Type {
	var b strings.Builder
	fmt.Fprintf(&b, "%p|", ret)
	for _, p := range params {
		fmt.Fprintf(&b, "%p,", p)
	}
	key := b.String()
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	if t, ok := tbl.functions.Get(key); ok {
		return t
	}
	cp := make([]*Type, len(params))
	copy(cp, params)
	t := &Type{Kind: Function, Ret: ret, Params: cp}
	tbl.functions.Put(key, t)
	return t
}

// FromBasic maps a parsed BasicTypeModifier lexeme ("int", "char", "float",
// "bool") to its scalar Type. Integer and float literals default to the
// 32-bit width; ok is false for an unrecognised lexeme.
func FromBasic(lexeme string) (*Type, bool) {
	switch lexeme {
	case "int":
		return TInt32, true
	case "char":
		return TChar, true
	case "float":
		return TFloat32, true
	case "bool":
		return TBool, true
	default:
		return nil, false
	}
}

// Equal reports structural equality. Because every Type obtainable through
// this package is interned, Equal degrades to pointer comparison (property
// P3) and is provided only for readability at call sites.
func Equal(a, b *Type) bool { return a == b }
