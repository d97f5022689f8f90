// Package loader reads RV32 program images from disk.
//
// Two formats are accepted: a raw flat binary, executed from address 0, and
// a 32-bit RISC-V ELF executable, whose loadable segments are placed at
// their virtual addresses inside one flat image.
package loader

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"
)

// Format identifies the on-disk format of a program image.
type Format int

// Supported image formats.
const (
	FormatRaw Format = iota
	FormatELF
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatELF:
		return "elf"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// MaxImageSize bounds the flat image built from ELF segments.
const MaxImageSize = 256 << 20

// Program is a program image ready to be handed to the emulator.
type Program struct {
	// Image is the flat memory image; byte i is loaded at address i.
	Image []byte

	// Entry is the address where execution should begin.
	Entry uint64

	// Format is the format the image was read from.
	Format Format

	// Segments lists the loadable ELF segments. It is empty for raw images.
	Segments []Segment
}

// Load reads the file at path. Files starting with the ELF magic are
// parsed as RV32 executables; anything else is taken as a raw image.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if bytes.HasPrefix(data, []byte(elf.ELFMAG)) {
		return LoadELF(data)
	}

	return &Program{Image: data, Format: FormatRaw}, nil
}
