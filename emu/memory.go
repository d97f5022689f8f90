package emu

import (
	"encoding/binary"
	"fmt"
)

// Access identifies the kind of memory access that faulted.
type Access uint8

// Memory access kinds.
const (
	AccessFetch Access = iota
	AccessLoad
	AccessStore
)

func (a Access) String() string {
	switch a {
	case AccessFetch:
		return "fetch"
	case AccessLoad:
		return "load"
	case AccessStore:
		return "store"
	default:
		return fmt.Sprintf("access(%d)", uint8(a))
	}
}

// MemoryError reports an access that does not fit inside memory.
type MemoryError struct {
	Access Access
	Addr   uint64
	Size   int
	Limit  int
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("%s of %d bytes at 0x%x outside memory of %d bytes",
		e.Access, e.Size, e.Addr, e.Limit)
}

// Is reports whether target is ErrOutOfBounds.
func (e *MemoryError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// Memory is a flat, fixed-size, little-endian byte array. It is sized once
// at construction and never grows.
type Memory struct {
	data  []byte
	image []byte
}

// NewMemory creates a memory holding image at address 0. The memory is
// max(len(image), capacity) bytes long; bytes past the image are zero.
func NewMemory(image []byte, capacity int) *Memory {
	size := len(image)
	if capacity > size {
		size = capacity
	}

	m := &Memory{
		data:  make([]byte, size),
		image: append([]byte(nil), image...),
	}
	copy(m.data, m.image)

	return m
}

// Len returns the memory size in bytes.
func (m *Memory) Len() int {
	return len(m.data)
}

// Bytes returns the backing array. Callers must not resize it.
func (m *Memory) Bytes() []byte {
	return m.data
}

// Reset restores the original image and zeroes everything else.
func (m *Memory) Reset() {
	clear(m.data)
	copy(m.data, m.image)
}

func (m *Memory) check(access Access, addr uint64, size int) error {
	limit := uint64(len(m.data))
	if addr >= limit || uint64(size) > limit-addr {
		return &MemoryError{Access: access, Addr: addr, Size: size, Limit: len(m.data)}
	}
	return nil
}

// Fetch reads the 32-bit instruction word at addr.
func (m *Memory) Fetch(addr uint64) (uint32, error) {
	if err := m.check(AccessFetch, addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[addr:]), nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint64) (uint8, error) {
	if err := m.check(AccessLoad, addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// Read16 reads a 16-bit little-endian value.
func (m *Memory) Read16(addr uint64) (uint16, error) {
	if err := m.check(AccessLoad, addr, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[addr:]), nil
}

// Read32 reads a 32-bit little-endian value.
func (m *Memory) Read32(addr uint64) (uint32, error) {
	if err := m.check(AccessLoad, addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[addr:]), nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint64, value uint8) error {
	if err := m.check(AccessStore, addr, 1); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

// Write16 writes a 16-bit little-endian value.
func (m *Memory) Write16(addr uint64, value uint16) error {
	if err := m.check(AccessStore, addr, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[addr:], value)
	return nil
}

// Write32 writes a 32-bit little-endian value.
func (m *Memory) Write32(addr uint64, value uint32) error {
	if err := m.check(AccessStore, addr, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[addr:], value)
	return nil
}
