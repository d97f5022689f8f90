package emu

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/rv32sim/insts"
)

// regsPerRow is the number of registers WriteState prints on one line.
const regsPerRow = 4

// WriteState writes a human-readable dump of the register file: the pc on
// its own line, then the 32 registers four to a row, e.g.
//
//	pc = 0x000000000000000c
//	x0(zero)=0x0000000000000000 x1(ra)=0x0000000000000000 ...
func WriteState(w io.Writer, regFile *RegFile) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "pc = 0x%016x\n", regFile.PC)
	for i := 0; i < insts.NumRegs; i++ {
		reg := uint8(i)
		fmt.Fprintf(&sb, "x%d(%s)=0x%016x", i, insts.RegName(reg), regFile.ReadReg(reg))
		if (i+1)%regsPerRow == 0 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
