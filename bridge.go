package nativebridge

// Memory represents a native module's linear memory, as seen by the bridge
// when marshaling compound values across the boundary.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator allocates space in a native module's linear memory.
// Free is advisory; allocators backed by guest bump allocators may ignore it.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
