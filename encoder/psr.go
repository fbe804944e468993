package encoder

import (
	"fmt"

	"github.com/lookbusy1344/arm-assembler/parser"
)

// encodePSRTransfer encodes MRS and the two MSR forms:
//
//	MRS Rd, <cpsr|spsr>             register <- status
//	MSR <cpsr|spsr>, Rm             status  <- register
//	MSR <cpsr_flg|spsr_flg>, <op>   flag bits only, register or immediate
func (e *Encoder) encodePSRTransfer(op string, cond uint32, toks []parser.Token) (uint32, error) {
	if op == "mrs" {
		rd, err := regAt(toks, 1)
		if err != nil {
			return 0, err
		}
		if err = expect(toks, 2, parser.TokenComma); err != nil {
			return 0, err
		}
		spsr, err := psrAt(toks, 3)
		if err != nil {
			return 0, err
		}
		if err = expectEnd(toks, 4); err != nil {
			return 0, err
		}

		var ps uint32
		if spsr {
			ps = 1
		}
		return ((((cond<<5|0b00010)<<1|ps)<<6|0b001111)<<4 | rd) << RdShift, nil
	}

	// MSR: the destination designator picks the form
	dst, err := tokenAt(toks, 1, "a status register")
	if err != nil {
		return 0, err
	}

	if isPSRName(dst.Literal) {
		// Whole-register form, register source only
		spsr, err := psrAt(toks, 1)
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
		if err = expectEnd(toks, 4); err != nil {
			return 0, err
		}

		var pd uint32
		if spsr {
			pd = 1
		}
		return (((cond<<5|0b00010)<<1|pd)<<10|0b1010011111)<<12 | rm, nil
	}

	// Flag-byte form
	var pd uint32
	switch dst.Literal {
	case "cpsr_flg":
		pd = 0
	case "spsr_flg":
		pd = 1
	default:
		return 0, parser.NewError(dst.Line, parser.ErrSemantic,
			fmt.Sprintf("unrecognized status register designator %q", dst.Literal))
	}

	if err = expect(toks, 2, parser.TokenComma); err != nil {
		return 0, err
	}

	src, err := tokenAt(toks, 3, "a register or an immediate")
	if err != nil {
		return 0, err
	}

	var isImm, source uint32
	if src.Type == parser.TokenNumber {
		isImm = 1
		if source, err = rotImmAt(toks, 3); err != nil {
			return 0, err
		}
	} else {
		if source, err = regAt(toks, 3); err != nil {
			return 0, err
		}
	}
	if err = expectEnd(toks, 4); err != nil {
		return 0, err
	}

	return (((((cond<<2|0b00)<<1|isImm)<<2|0b10)<<1|pd)<<10|0b1010001111)<<12 | source, nil
}
