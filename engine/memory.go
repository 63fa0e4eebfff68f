package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/native-bridge/errors"
)

// guestMemory adapts wazero linear memory to the bridge Memory interface.
type guestMemory struct {
	mem api.Memory
}

func (g guestMemory) Read(offset, length uint32) ([]byte, error) {
	b, ok := g.mem.Read(offset, length)
	if !ok {
		return nil, errors.New(errors.PhaseConvert, errors.KindInvalidData).
			Detail("memory read [%d, %d) out of range", offset, offset+length).
			Build()
	}
	return b, nil
}

func (g guestMemory) Write(offset uint32, data []byte) error {
	if !g.mem.Write(offset, data) {
		return errors.New(errors.PhaseConvert, errors.KindInvalidData).
			Detail("memory write [%d, %d) out of range", offset, offset+uint32(len(data))).
			Build()
	}
	return nil
}

// guestAllocator adapts a guest-exported allocator function to the
// bridge Allocator interface. Recognized conventions: cabi_realloc
// (old_ptr, old_size, align, new_size) and single-argument alloc/malloc.
type guestAllocator struct {
	ctx context.Context
	fn  api.Function
}

func newGuestAllocator(ctx context.Context, fn api.Function) guestAllocator {
	return guestAllocator{ctx: ctx, fn: fn}
}

func (g guestAllocator) Alloc(size, align uint32) (uint32, error) {
	if g.fn == nil {
		return 0, errors.Unsupported(errors.PhaseConvert, "guest exports no allocator")
	}

	var (
		results []uint64
		err     error
	)
	if len(g.fn.Definition().ParamTypes()) == 4 {
		results, err = g.fn.Call(g.ctx, 0, 0, uint64(align), uint64(size))
	} else {
		results, err = g.fn.Call(g.ctx, uint64(size))
	}
	if err != nil {
		return 0, errors.Wrap(errors.PhaseConvert, errors.KindInvalidData, err,
			fmt.Sprintf("allocate %d bytes", size))
	}
	if len(results) != 1 {
		return 0, errors.New(errors.PhaseConvert, errors.KindInvalidData).
			Detail("allocator returned %d values", len(results)).
			Build()
	}
	return api.DecodeU32(results[0]), nil
}

// Free is a no-op; per-call scratch allocations are reclaimed when the
// instance is recycled. Wasm linear memory never shrinks anyway.
func (g guestAllocator) Free(ptr, size, align uint32) {}
