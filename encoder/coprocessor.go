package encoder

import (
	"fmt"

	"github.com/lookbusy1344/arm-assembler/parser"
)

// coprocInfoAt parses the optional trailing ", #op2" of the coprocessor
// instructions at idx. It defaults to zero; values above 7 are a range
// error.
func coprocInfoAt(toks []parser.Token, idx int) (uint32, error) {
	if idx >= len(toks) {
		return 0, nil
	}
	if err := expect(toks, idx, parser.TokenComma); err != nil {
		return 0, err
	}
	info, err := numberAt(toks, idx+1)
	if err != nil {
		return 0, err
	}
	if info > MaxCoprocInfo {
		return 0, parser.NewError(toks[idx+1].Line, parser.ErrSemantic,
			fmt.Sprintf("coprocessor information field %d out of range (max %d)", info, MaxCoprocInfo))
	}
	return info, expectEnd(toks, idx+2)
}

// encodeCoprocOp encodes CDP.
//
//	CDP p#, #op1, cd, cn, cm{, #op2}
//
// Format: cccc 1110 oooo nnnn dddd pppp iii0 mmmm
func (e *Encoder) encodeCoprocOp(cond uint32, toks []parser.Token) (uint32, error) {
	cpn, err := copNumAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 2, parser.TokenComma); err != nil {
		return 0, err
	}
	op1, err := numberAt(toks, 3)
	if err != nil {
		return 0, err
	}
	if op1 > MaxCoprocOpcode {
		return 0, parser.NewError(toks[3].Line, parser.ErrSemantic,
			fmt.Sprintf("coprocessor operation %d out of range (max %d)", op1, MaxCoprocOpcode))
	}
	if err = expect(toks, 4, parser.TokenComma); err != nil {
		return 0, err
	}
	crd, err := coRegAt(toks, 5)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 6, parser.TokenComma); err != nil {
		return 0, err
	}
	crn, err := coRegAt(toks, 7)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 8, parser.TokenComma); err != nil {
		return 0, err
	}
	crm, err := coRegAt(toks, 9)
	if err != nil {
		return 0, err
	}
	op2, err := coprocInfoAt(toks, 10)
	if err != nil {
		return 0, err
	}

	return (((((((cond<<4|0b1110)<<4|op1)<<4|crn)<<4|crd)<<4|cpn)<<3|op2)<<1|0b0)<<4 | crm, nil
}

// encodeCoprocTransfer encodes LDC and STC. The address takes the same
// PC-relative, zero-offset, pre- and post-indexed forms as LDR/STR, but the
// offset is immediate-only and scaled down by 4.
//
// Format: cccc 110P UNWL nnnn dddd pppp oooo oooo
func (e *Encoder) encodeCoprocTransfer(op string, cond uint32, suffix string, toks []parser.Token) (uint32, error) {
	var longBit uint32
	if suffix == "l" {
		longBit = 1
	}
	var load uint32
	if op == "ldc" {
		load = 1
	}

	cpn, err := copNumAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 2, parser.TokenComma); err != nil {
		return 0, err
	}
	crd, err := coRegAt(toks, 3)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 4, parser.TokenComma); err != nil {
		return 0, err
	}

	addr, err := tokenAt(toks, 5, "an address")
	if err != nil {
		return 0, err
	}

	var pre, write, rn, offset uint32
	up := uint32(1)

	if addr.Type == parser.TokenKeyword {
		// PC-relative label form, magnitude offset with U forced to subtract
		label, err := e.labelAt(toks, 5)
		if err != nil {
			return 0, err
		}
		if err = expectEnd(toks, 6); err != nil {
			return 0, err
		}
		offset = label.Offset(toks[0].Line, CoprocOffsetBits)
		pre, up, rn = 1, 0, RegisterPC
	} else {
		if err = expect(toks, 5, parser.TokenLBracket); err != nil {
			return 0, err
		}
		if rn, err = regAt(toks, 6); err != nil {
			return 0, err
		}

		sep, err := tokenAt(toks, 7, "']' or ','")
		if err != nil {
			return 0, err
		}

		switch {
		case sep.Type == parser.TokenRBracket && len(toks) == 8:
			// Zero-offset [Rn]
			pre = 1

		case sep.Type == parser.TokenRBracket:
			// Post-indexed [Rn], #imm
			if err = expect(toks, 8, parser.TokenComma); err != nil {
				return 0, err
			}
			if offset, err = e.coprocOffsetAt(toks, 9); err != nil {
				return 0, err
			}
			if err = expectEnd(toks, 10); err != nil {
				return 0, err
			}

		default:
			// Pre-indexed [Rn, #imm]{!}
			if err = expect(toks, 7, parser.TokenComma); err != nil {
				return 0, err
			}
			if offset, err = e.coprocOffsetAt(toks, 8); err != nil {
				return 0, err
			}
			if err = expect(toks, 9, parser.TokenRBracket); err != nil {
				return 0, err
			}
			pre = 1
			end := 10
			if end < len(toks) && toks[end].Type == parser.TokenExclaim {
				write = 1
				end++
			}
			if err = expectEnd(toks, end); err != nil {
				return 0, err
			}
		}
	}

	return (((((((((cond<<3|CoprocTypeValue)<<1|pre)<<1|up)<<1|longBit)<<1|write)<<1|load)<<4|rn)<<4|crd)<<4|cpn)<<8 | offset, nil
}

// coprocOffsetAt parses a coprocessor transfer offset immediate: it must be
// a multiple of four and fit the 8-bit word-count field once scaled.
func (e *Encoder) coprocOffsetAt(toks []parser.Token, idx int) (uint32, error) {
	imm, err := numberAt(toks, idx)
	if err != nil {
		return 0, err
	}
	if imm%4 != 0 {
		return 0, parser.NewError(toks[idx].Line, parser.ErrSemantic,
			fmt.Sprintf("coprocessor offset %d is not a multiple of 4", imm))
	}
	offset := imm / 4
	if offset > MaxOffsetCoproc {
		return 0, parser.NewError(toks[idx].Line, parser.ErrSemantic,
			fmt.Sprintf("coprocessor offset %d out of range", imm))
	}
	return offset, nil
}

// encodeCoprocRegTransfer encodes MRC and MCR.
//
//	<op> p#, #op1, Rd, cn, cm{, #op2}
//
// Format: cccc 1110 oooL nnnn dddd pppp iii1 mmmm
func (e *Encoder) encodeCoprocRegTransfer(op string, cond uint32, toks []parser.Token) (uint32, error) {
	var load uint32
	if op == "mrc" {
		load = 1
	}

	cpn, err := copNumAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 2, parser.TokenComma); err != nil {
		return 0, err
	}
	op1, err := numberAt(toks, 3)
	if err != nil {
		return 0, err
	}
	if op1 > MaxCoprocRegOpcode {
		return 0, parser.NewError(toks[3].Line, parser.ErrSemantic,
			fmt.Sprintf("coprocessor operation %d out of range (max %d)", op1, MaxCoprocRegOpcode))
	}
	if err = expect(toks, 4, parser.TokenComma); err != nil {
		return 0, err
	}
	rd, err := regAt(toks, 5)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 6, parser.TokenComma); err != nil {
		return 0, err
	}
	crn, err := coRegAt(toks, 7)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 8, parser.TokenComma); err != nil {
		return 0, err
	}
	crm, err := coRegAt(toks, 9)
	if err != nil {
		return 0, err
	}
	op2, err := coprocInfoAt(toks, 10)
	if err != nil {
		return 0, err
	}

	return ((((((((cond<<4|0b1110)<<3|op1)<<1|load)<<4|crn)<<4|rd)<<4|cpn)<<3|op2)<<1|0b1)<<4 | crm, nil
}
