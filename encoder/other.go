package encoder

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/arm-assembler/parser"
)

// encodeMultiply encodes MUL and MLA.
//
//	MUL Rd, Rm, Rs
//	MLA Rd, Rm, Rs, Rn
//
// Format: cccc 0000 00AS dddd nnnn ssss 1001 mmmm
func (e *Encoder) encodeMultiply(op string, cond uint32, suffix string, toks []parser.Token) (uint32, error) {
	var accumulate uint32
	if op == "mla" {
		accumulate = 1
	}
	var sBit uint32
	if strings.HasSuffix(suffix, "s") {
		sBit = 1
	}

	rd, err := regAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 2, parser.TokenComma); err != nil {
		return 0, err
	}
	rm, err := regAt(toks, 3)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 4, parser.TokenComma); err != nil {
		return 0, err
	}
	rs, err := regAt(toks, 5)
	if err != nil {
		return 0, err
	}

	// The accumulator register is only present for MLA
	var rn uint32
	end := 6
	if op == "mla" {
		if err = expect(toks, 6, parser.TokenComma); err != nil {
			return 0, err
		}
		if rn, err = regAt(toks, 7); err != nil {
			return 0, err
		}
		end = 8
	}
	if err = expectEnd(toks, end); err != nil {
		return 0, err
	}

	return ((((((cond<<6|0b000000)<<1|accumulate)<<1|sBit)<<4|rd)<<4|rn)<<4|rs)<<8 |
		MultiplyMarker<<4 | rm, nil
}

// encodeMultiplyLong encodes UMULL, UMLAL, SMULL and SMLAL.
//
//	<op> RdLo, RdHi, Rm, Rs
//
// Format: cccc 0000 1UAS hhhh llll ssss 1001 mmmm
func (e *Encoder) encodeMultiplyLong(op string, cond uint32, suffix string, toks []parser.Token) (uint32, error) {
	var signed uint32
	if op == "smull" || op == "smlal" {
		signed = 1
	}
	var accumulate uint32
	if op == "umlal" || op == "smlal" {
		accumulate = 1
	}
	var sBit uint32
	if strings.HasSuffix(suffix, "s") {
		sBit = 1
	}

	rdLo, err := regAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 2, parser.TokenComma); err != nil {
		return 0, err
	}
	rdHi, err := regAt(toks, 3)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 4, parser.TokenComma); err != nil {
		return 0, err
	}
	rm, err := regAt(toks, 5)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 6, parser.TokenComma); err != nil {
		return 0, err
	}
	rs, err := regAt(toks, 7)
	if err != nil {
		return 0, err
	}
	if err = expectEnd(toks, 8); err != nil {
		return 0, err
	}

	return (((((((cond<<5|0b00001)<<1|signed)<<1|accumulate)<<1|sBit)<<4|rdHi)<<4|rdLo)<<4|rs)<<8 |
		MultiplyMarker<<4 | rm, nil
}

// encodeSwap encodes SWP and SWPB.
//
//	SWP{B} Rd, Rm, [Rn]
//
// Format: cccc 0001 0B00 nnnn dddd 0000 1001 mmmm
func (e *Encoder) encodeSwap(cond uint32, suffix string, toks []parser.Token) (uint32, error) {
	var byteBit uint32
	if strings.HasSuffix(suffix, "b") {
		byteBit = 1
	}

	rd, err := regAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 2, parser.TokenComma); err != nil {
		return 0, err
	}
	rm, err := regAt(toks, 3)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 4, parser.TokenComma); err != nil {
		return 0, err
	}
	if err = expect(toks, 5, parser.TokenLBracket); err != nil {
		return 0, err
	}
	rn, err := regAt(toks, 6)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 7, parser.TokenRBracket); err != nil {
		return 0, err
	}
	if err = expectEnd(toks, 8); err != nil {
		return 0, err
	}

	return (((((cond<<5|0b00010)<<1|byteBit)<<2|0b00)<<4|rn)<<4|rd)<<12 |
		SwapMarker<<4 | rm, nil
}

// encodeSWI encodes the software interrupt instruction.
//
// Format: cccc 1111 iiii iiii iiii iiii iiii iiii
func (e *Encoder) encodeSWI(cond uint32, toks []parser.Token) (uint32, error) {
	comment, err := numberAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if comment > MaxSWIComment {
		return 0, parser.NewError(toks[1].Line, parser.ErrSemantic,
			fmt.Sprintf("swi comment field 0x%x out of range", comment))
	}
	if err = expectEnd(toks, 2); err != nil {
		return 0, err
	}

	return cond<<ConditionShift | SWITypeValue<<PBitShift | comment, nil
}
