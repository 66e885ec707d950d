package engine

// Allocator is consulted by the engine before every call that needs to
// allocate memory for it. Refusing an allocation makes that call fail with
// CodeNoMem, which is how the out-of-memory paths of callers are exercised.
type Allocator interface {
	Alloc(n int) bool
}

// AllocatorFunc adapts a function to Allocator.
type AllocatorFunc func(n int) bool

func (f AllocatorFunc) Alloc(n int) bool { return f(n) }

// DefaultAllocator grants every request.
var DefaultAllocator Allocator = AllocatorFunc(func(int) bool { return true })
