package encoder

import (
	"fmt"

	"github.com/lookbusy1344/arm-assembler/parser"
)

// opcodes is the set of recognized instruction opcodes
var opcodes = map[string]bool{
	"adc": true, "add": true, "and": true,
	"b": true, "bic": true, "bl": true, "bx": true,
	"cdp": true, "cmn": true, "cmp": true,
	"eor": true,
	"ldc": true, "ldm": true, "ldr": true,
	"mcr": true, "mla": true, "mov": true, "mrc": true, "mrs": true,
	"msr": true, "mul": true, "mvn": true,
	"orr": true,
	"rsb": true, "rsc": true,
	"sbc": true, "stc": true, "stm": true, "str": true, "sub": true,
	"swi": true, "swp": true,
	"teq": true, "tst": true,
	"umull": true, "umlal": true, "smull": true, "smlal": true,
}

// maxOpcodeLen is the length of the longest opcode (umull and friends)
const maxOpcodeLen = 5

// conditionCodes maps condition mnemonics to their 4-bit encodings
var conditionCodes = map[string]uint32{
	"eq": 0x0, "ne": 0x1,
	"cs": 0x2, "cc": 0x3,
	"mi": 0x4, "pl": 0x5,
	"vs": 0x6, "vc": 0x7,
	"hi": 0x8, "ls": 0x9,
	"ge": 0xA, "lt": 0xB,
	"gt": 0xC, "le": 0xD,
	"al": 0xE,
}

// matchOpcode finds the longest prefix of mnemonic that is a valid opcode.
// Preferring the longest match keeps short opcodes from shadowing longer
// ones sharing their prefix: "bl" and "bic" are never parsed as "b", while
// "beq" still is.
func matchOpcode(mnemonic string) string {
	limit := len(mnemonic)
	if limit > maxOpcodeLen {
		limit = maxOpcodeLen
	}
	for n := limit; n >= 1; n-- {
		if opcodes[mnemonic[:n]] {
			return mnemonic[:n]
		}
	}
	return ""
}

// splitMnemonic decomposes an instruction keyword into opcode, condition and
// the class-specific suffix string. A missing condition means "al".
func splitMnemonic(tok parser.Token) (op, cond, suffix string, err error) {
	mnemonic := tok.Literal

	op = matchOpcode(mnemonic)
	if op == "" {
		return "", "", "", parser.NewError(tok.Line, parser.ErrShape,
			fmt.Sprintf("unknown opcode %q", mnemonic))
	}

	rest := mnemonic[len(op):]
	cond = "al"
	if len(rest) >= 2 {
		if _, ok := conditionCodes[rest[:2]]; ok {
			cond = rest[:2]
			rest = rest[2:]
		}
	}

	return op, cond, rest, nil
}
