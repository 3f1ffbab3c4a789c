// Package codegen implements the one place a backend code generator
// touches this repo's IR (§6, SPEC_FULL.md §11): deciding how an
// ir.Allocate is realized, stack or heap, and tracking live heap
// allocations so an early exit can still free them. It stops exactly
// where instruction selection and register allocation would begin — no
// object code is emitted here.
package codegen

import (
	"halide/src/ir"

	"tinygo.org/x/go-llvm"
)

// stackThresholdBytes is the largest allocation CodeGen still puts on the
// stack; anything bigger goes to the heap, grounded on
// CodeGen_Posix::malloc_buffer's "allocate anything less than 8k on the
// stack" comment.
const stackThresholdBytes = 8 * 1024

// stackAlignBytes is the alignment malloc_buffer's stack path uses for its
// alloca (a vector of 8 i32 lanes, 32 bytes).
const stackAlignBytes = 32

// Kind distinguishes where an Allocate's storage lives.
type Kind int

const (
	Stack Kind = iota
	Heap
)

// AllocPlan is the decision LowerAllocation makes for one ir.Allocate: not
// how to emit it, only where its storage comes from and how big/aligned
// that storage is, mirroring exactly how far CodeGen_Posix::visit(Allocate)
// goes before handing off to LLVM IR building proper.
type AllocPlan struct {
	Name      string
	Kind      Kind
	ByteSize  int64 // Only meaningful when Size is a compile-time constant.
	Align     int   // Only meaningful for Kind == Stack.
	ElemType  llvm.Type
	KnownSize bool // Whether alloc.Size was a compile-time IntImm.
}

// llvmTypeOf maps an ir.Type to the tinygo.org/x/go-llvm type CodeGen
// would hand this allocation's element type to, grounded on the teacher's
// own `i`/`f` LLVM type globals in src/ir/llvm/transform.go.
func llvmTypeOf(t ir.Type) llvm.Type {
	switch t.Code {
	case ir.Float:
		if t.Bits <= 32 {
			return llvm.FloatType()
		}
		return llvm.DoubleType()
	default:
		switch {
		case t.Bits <= 1:
			return llvm.Int1Type()
		case t.Bits <= 8:
			return llvm.Int8Type()
		case t.Bits <= 16:
			return llvm.Int16Type()
		case t.Bits <= 32:
			return llvm.Int32Type()
		default:
			return llvm.Int64Type()
		}
	}
}

// LowerAllocation decides whether alloc should live on the stack or the
// heap, the way CodeGen_Posix::malloc_buffer does: a statically known size
// of at most stackThresholdBytes gets a 32-byte-aligned stack plan, everything
// else (including any size that isn't known until runtime) gets a heap
// plan routed through halide_malloc/halide_free.
func LowerAllocation(alloc *ir.Allocate) AllocPlan {
	elem := llvmTypeOf(alloc.Typ)
	bytesPerElement := int64(alloc.Typ.Bits / 8)
	if bytesPerElement < 1 {
		bytesPerElement = 1
	}

	imm, ok := alloc.Size.(*ir.IntImm)
	if !ok {
		return AllocPlan{Name: alloc.Name, Kind: Heap, ElemType: elem}
	}

	totalBytes := imm.Value * bytesPerElement
	if totalBytes > stackThresholdBytes {
		return AllocPlan{Name: alloc.Name, Kind: Heap, ByteSize: totalBytes, ElemType: elem, KnownSize: true}
	}

	return AllocPlan{
		Name: alloc.Name, Kind: Stack, ByteSize: totalBytes,
		Align: stackAlignBytes, ElemType: elem, KnownSize: true,
	}
}
