package encoder

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/arm-assembler/parser"
)

// dataProcOpcodes maps data processing mnemonics to their 4-bit opcode field
var dataProcOpcodes = map[string]uint32{
	"and": 0x0, "eor": 0x1, "sub": 0x2, "rsb": 0x3,
	"add": 0x4, "adc": 0x5, "sbc": 0x6, "rsc": 0x7,
	"tst": 0x8, "teq": 0x9, "cmp": 0xA, "cmn": 0xB,
	"orr": 0xC, "mov": 0xD, "bic": 0xE, "mvn": 0xF,
}

// encodeDataProcessing encodes the sixteen data processing instructions.
// Three operand shapes share the encoding:
//
//	MOV, MVN:           Rd, <op2>
//	CMP, CMN, TEQ, TST: Rn, <op2>      (set-flags implied)
//	the rest:           Rd, Rn, <op2>
//
// Format: cccc 00Io oooS nnnn dddd oooo oooo oooo
func (e *Encoder) encodeDataProcessing(op string, condN uint32, suffix string, toks []parser.Token) (uint32, error) {
	opcodeN := dataProcOpcodes[op]

	compare := op == "cmp" || op == "cmn" || op == "teq" || op == "tst"

	// Comparisons always alter the condition flags
	var sBit uint32
	if compare || strings.HasSuffix(suffix, "s") {
		sBit = 1
	}

	var rd, rn uint32
	var err error
	op2Idx := 3

	switch {
	case op == "mov" || op == "mvn":
		if rd, err = regAt(toks, 1); err != nil {
			return 0, err
		}
		if err = expect(toks, 2, parser.TokenComma); err != nil {
			return 0, err
		}

	case compare:
		// Comparisons use Rn as their only register operand
		if rn, err = regAt(toks, 1); err != nil {
			return 0, err
		}
		if err = expect(toks, 2, parser.TokenComma); err != nil {
			return 0, err
		}

	default:
		if rd, err = regAt(toks, 1); err != nil {
			return 0, err
		}
		if err = expect(toks, 2, parser.TokenComma); err != nil {
			return 0, err
		}
		if rn, err = regAt(toks, 3); err != nil {
			return 0, err
		}
		if err = expect(toks, 4, parser.TokenComma); err != nil {
			return 0, err
		}
		op2Idx = 5
	}

	iBit, op2, err := e.parseOperand2(toks, op2Idx)
	if err != nil {
		return 0, err
	}

	return condN<<ConditionShift | iBit<<IBitShift | opcodeN<<OpcodeShift |
		sBit<<SBitShift | rn<<RnShift | rd<<RdShift | op2, nil
}

// parseOperand2 parses the <op2> operand starting at idx and consumes the
// rest of the line. It is either a rotated immediate or a register with an
// optional shift, where the shift amount is itself an immediate or a
// register.
func (e *Encoder) parseOperand2(toks []parser.Token, idx int) (iBit, op2 uint32, err error) {
	tok, err := tokenAt(toks, idx, "a register or an immediate")
	if err != nil {
		return 0, 0, err
	}

	if tok.Type == parser.TokenNumber {
		encoded, err := rotImmAt(toks, idx)
		if err != nil {
			return 0, 0, err
		}
		return 1, encoded, expectEnd(toks, idx+1)
	}

	rm, err := regAt(toks, idx)
	if err != nil {
		return 0, 0, err
	}

	// Bare register, no shift
	if idx+1 >= len(toks) {
		return 0, rm, nil
	}

	if err = expect(toks, idx+1, parser.TokenComma); err != nil {
		return 0, 0, err
	}
	shiftTy, err := shiftTypeAt(toks, idx+2)
	if err != nil {
		return 0, 0, err
	}

	amountTok, err := tokenAt(toks, idx+3, "a shift amount")
	if err != nil {
		return 0, 0, err
	}

	var shift uint32
	if amountTok.Type == parser.TokenNumber {
		amount, err := numberAt(toks, idx+3)
		if err != nil {
			return 0, 0, err
		}
		if amount > MaxShiftAmount {
			return 0, 0, parser.NewError(amountTok.Line, parser.ErrSemantic,
				fmt.Sprintf("shift amount %d out of range", amount))
		}
		shift = (amount<<2 | shiftTy) << 1
	} else {
		rs, err := regAt(toks, idx+3)
		if err != nil {
			return 0, 0, err
		}
		shift = (rs<<1<<2|shiftTy)<<1 | 1
	}

	return 0, shift<<Bit4 | rm, expectEnd(toks, idx+4)
}
