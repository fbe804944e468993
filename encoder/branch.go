package encoder

import (
	"github.com/lookbusy1344/arm-assembler/parser"
)

// encodeBranch encodes B and BL.
//
// Format: cccc 101L oooo oooo oooo oooo oooo oooo
func (e *Encoder) encodeBranch(op string, cond uint32, toks []parser.Token) (uint32, error) {
	var link uint32
	if op == "bl" {
		link = 1
	}

	label, err := e.labelAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if err := expectEnd(toks, 2); err != nil {
		return 0, err
	}

	offset := label.Offset(toks[0].Line, BranchOffsetBits)

	return cond<<ConditionShift | BranchTypeValue<<25 | link<<BranchLinkShift | offset, nil
}

// encodeBranchExchange encodes BX. The operand must be a general register;
// the PSR names are rejected.
//
// Format: cccc 0001 0010 1111 1111 1111 0001 nnnn
func (e *Encoder) encodeBranchExchange(cond uint32, toks []parser.Token) (uint32, error) {
	if tok, err := tokenAt(toks, 1, "a register"); err != nil {
		return 0, err
	} else if isPSRName(tok.Literal) {
		return 0, parser.NewError(tok.Line, parser.ErrSemantic,
			"bx operand must be a general register, not a status register")
	}

	rn, err := regAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if err := expectEnd(toks, 2); err != nil {
		return 0, err
	}

	return cond<<ConditionShift | BXMarker<<Bit4 | rn, nil
}
