package encoder

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/lookbusy1344/arm-assembler/parser"
)

// registerNames maps general register names to their 4-bit numbers
var registerNames = map[string]uint32{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3,
	"r4": 4, "r5": 5, "r6": 6, "r7": 7,
	"r8": 8, "r9": 9, "r10": 10, "r11": 11,
	"r12": 12, "r13": 13, "r14": 14, "r15": 15,
	"fp": 11, "sp": 13, "lr": 14, "pc": 15,
}

// shiftTypes maps shift mnemonics to their 2-bit encodings. LSL is a synonym
// for ASL.
var shiftTypes = map[string]uint32{
	"asl": 0, "lsl": 0,
	"lsr": 1,
	"asr": 2,
	"ror": 3,
}

// tokenAt returns the token at idx, or a shape error naming what was wanted.
func tokenAt(toks []parser.Token, idx int, want string) (parser.Token, error) {
	if idx >= len(toks) {
		return parser.Token{}, parser.NewError(toks[0].Line, parser.ErrShape,
			fmt.Sprintf("expected %s", want))
	}
	return toks[idx], nil
}

// expect checks that the token at idx has the given type.
func expect(toks []parser.Token, idx int, ty parser.TokenType) error {
	tok, err := tokenAt(toks, idx, fmt.Sprintf("%q", ty))
	if err != nil {
		return err
	}
	if tok.Type != ty {
		return parser.NewError(tok.Line, parser.ErrShape,
			fmt.Sprintf("expected %q, got %q", ty, tok.Literal))
	}
	return nil
}

// expectEnd checks that the line holds no tokens at or past idx.
func expectEnd(toks []parser.Token, idx int) error {
	if idx < len(toks) {
		return parser.NewError(toks[idx].Line, parser.ErrShape,
			fmt.Sprintf("unexpected %q after instruction", toks[idx].Literal))
	}
	return nil
}

// regAt parses a general register (r0-r15 or an alias) at idx. The PSR
// names are rejected here; they are only meaningful to the PSR transfer
// encoders.
func regAt(toks []parser.Token, idx int) (uint32, error) {
	tok, err := tokenAt(toks, idx, "a register")
	if err != nil {
		return 0, err
	}
	if tok.Type != parser.TokenKeyword {
		return 0, parser.NewError(tok.Line, parser.ErrShape,
			fmt.Sprintf("expected a register, got %q", tok.Literal))
	}
	n, ok := registerNames[tok.Literal]
	if !ok {
		return 0, parser.NewError(tok.Line, parser.ErrSemantic,
			fmt.Sprintf("invalid register %q", tok.Literal))
	}
	return n, nil
}

// psrAt parses cpsr/spsr (or the _all aliases) at idx, reporting whether the
// saved register was named.
func psrAt(toks []parser.Token, idx int) (spsr bool, err error) {
	tok, err := tokenAt(toks, idx, "cpsr or spsr")
	if err != nil {
		return false, err
	}
	switch tok.Literal {
	case "cpsr", "cpsr_all":
		return false, nil
	case "spsr", "spsr_all":
		return true, nil
	}
	return false, parser.NewError(tok.Line, parser.ErrSemantic,
		fmt.Sprintf("expected cpsr or spsr, got %q", tok.Literal))
}

// isPSRName reports whether a keyword names a program status register.
func isPSRName(lit string) bool {
	switch lit {
	case "cpsr", "cpsr_all", "spsr", "spsr_all":
		return true
	}
	return false
}

// numberedAt parses a register-file name with the given single-letter prefix
// and a 0-15 index, e.g. c4 or p15.
func numberedAt(toks []parser.Token, idx int, prefix byte, what string) (uint32, error) {
	tok, err := tokenAt(toks, idx, what)
	if err != nil {
		return 0, err
	}
	if tok.Type != parser.TokenKeyword {
		return 0, parser.NewError(tok.Line, parser.ErrShape,
			fmt.Sprintf("expected %s, got %q", what, tok.Literal))
	}
	lit := tok.Literal
	if len(lit) < 2 || lit[0] != prefix {
		return 0, parser.NewError(tok.Line, parser.ErrSemantic,
			fmt.Sprintf("invalid %s %q", what, lit))
	}
	n, convErr := strconv.ParseUint(lit[1:], 10, 8)
	if convErr != nil || n > MaxRegister {
		return 0, parser.NewError(tok.Line, parser.ErrSemantic,
			fmt.Sprintf("invalid %s %q", what, lit))
	}
	return uint32(n), nil
}

// coRegAt parses a coprocessor register c0-c15 at idx.
func coRegAt(toks []parser.Token, idx int) (uint32, error) {
	return numberedAt(toks, idx, 'c', "a coprocessor register")
}

// copNumAt parses a coprocessor number p0-p15 at idx.
func copNumAt(toks []parser.Token, idx int) (uint32, error) {
	return numberedAt(toks, idx, 'p', "a coprocessor number")
}

// numberAt parses an integer literal at idx: decimal or 0x hexadecimal,
// with an optional '#' prefix.
func numberAt(toks []parser.Token, idx int) (uint32, error) {
	tok, err := tokenAt(toks, idx, "an immediate")
	if err != nil {
		return 0, err
	}
	if tok.Type != parser.TokenNumber {
		return 0, parser.NewError(tok.Line, parser.ErrShape,
			fmt.Sprintf("expected an immediate, got %q", tok.Literal))
	}

	lit := strings.TrimPrefix(tok.Literal, "#")
	var value uint64
	var convErr error
	if strings.HasPrefix(lit, "0x") {
		value, convErr = strconv.ParseUint(lit[2:], 16, 32)
	} else {
		value, convErr = strconv.ParseUint(lit, 10, 32)
	}
	if convErr != nil {
		return 0, parser.NewError(tok.Line, parser.ErrSemantic,
			fmt.Sprintf("invalid immediate %q", tok.Literal))
	}
	return uint32(value), nil
}

// EncodeRotatedImmediate packs an unsigned 32-bit value into the 12-bit
// data-processing immediate field: an 8-bit value and a 4-bit rotation such
// that rotating the value right by twice the rotation restores the input.
// The second result is false when no such encoding exists.
func EncodeRotatedImmediate(value uint32) (uint32, bool) {
	for i := uint32(0); i < 16; i++ {
		rotated := bits.RotateLeft32(value, int(2*i))
		if rotated < 256 {
			return i<<8 | rotated, true
		}
	}
	return 0, false
}

// rotImmAt parses an immediate at idx and encodes it as a rotated 12-bit
// data-processing operand. Unrepresentable values are a range error.
func rotImmAt(toks []parser.Token, idx int) (uint32, error) {
	value, err := numberAt(toks, idx)
	if err != nil {
		return 0, err
	}
	encoded, ok := EncodeRotatedImmediate(value)
	if !ok {
		return 0, parser.NewError(toks[idx].Line, parser.ErrSemantic,
			fmt.Sprintf("immediate 0x%x cannot be encoded as a rotated 8-bit value", value))
	}
	return encoded, nil
}

// shiftTypeAt parses a shift mnemonic (asl/lsl, lsr, asr, ror) at idx.
func shiftTypeAt(toks []parser.Token, idx int) (uint32, error) {
	tok, err := tokenAt(toks, idx, "a shift type")
	if err != nil {
		return 0, err
	}
	if tok.Type != parser.TokenKeyword {
		return 0, parser.NewError(tok.Line, parser.ErrShape,
			fmt.Sprintf("expected a shift type, got %q", tok.Literal))
	}
	ty, ok := shiftTypes[tok.Literal]
	if !ok {
		return 0, parser.NewError(tok.Line, parser.ErrSemantic,
			fmt.Sprintf("invalid shift type %q", tok.Literal))
	}
	return ty, nil
}

// labelAt resolves a label reference at idx against the label table.
func (e *Encoder) labelAt(toks []parser.Token, idx int) (parser.Label, error) {
	tok, err := tokenAt(toks, idx, "a label")
	if err != nil {
		return parser.Label{}, err
	}
	if tok.Type != parser.TokenKeyword {
		return parser.Label{}, parser.NewError(tok.Line, parser.ErrShape,
			fmt.Sprintf("expected a label, got %q", tok.Literal))
	}
	label, ok := e.labels.Lookup(tok.Literal)
	if !ok {
		return parser.Label{}, parser.NewError(tok.Line, parser.ErrSemantic,
			fmt.Sprintf("no label named %q", tok.Literal))
	}
	return label, nil
}
