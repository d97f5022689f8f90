package cache

import (
	"github.com/sarchlab/rv32sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore. Blocks that extend past
// the end of memory are clipped: missing bytes read as zero and writes to
// them are dropped.
type MemoryBacking struct {
	memory   *emu.Memory
	readOnly bool
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// NewReadOnlyMemoryBacking creates a MemoryBacking that fills blocks from
// memory but drops every write-back. Use it when memory is owned by the
// emulator and the cache only models timing.
func NewReadOnlyMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory, readOnly: true}
}

// Read fetches data from the backing memory.
func (m *MemoryBacking) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	if src := m.window(addr, size); src != nil {
		copy(data, src)
	}
	return data
}

// Write stores data to the backing memory. It does nothing on a read-only
// backing.
func (m *MemoryBacking) Write(addr uint64, data []byte) {
	if m.readOnly {
		return
	}
	if dst := m.window(addr, len(data)); dst != nil {
		copy(dst, data)
	}
}

// window returns the in-bounds part of [addr, addr+size).
func (m *MemoryBacking) window(addr uint64, size int) []byte {
	mem := m.memory.Bytes()
	if addr >= uint64(len(mem)) {
		return nil
	}
	end := addr + uint64(size)
	if end > uint64(len(mem)) || end < addr {
		end = uint64(len(mem))
	}
	return mem[addr:end]
}
