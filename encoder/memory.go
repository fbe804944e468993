package encoder

import (
	"fmt"

	"github.com/lookbusy1344/arm-assembler/parser"
)

// transferSuffixes maps the LDR/STR suffix string (after condition removal)
// to its flavor. SH values: 01 unsigned halfword, 10 signed byte, 11 signed
// halfword; zero marks the plain word/byte family.
type transferFlavor struct {
	byteBit uint32 // B bit, word/byte family only
	tFlag   bool   // force translation on post-indexed
	sh      uint32 // halfword/signed SH field, 0 when not that family
}

var transferSuffixes = map[string]transferFlavor{
	"":   {},
	"b":  {byteBit: 1},
	"t":  {tFlag: true},
	"bt": {byteBit: 1, tFlag: true},
	"h":  {sh: 0b01},
	"sb": {sh: 0b10},
	"sh": {sh: 0b11},
}

// encodeDataTransfer encodes LDR and STR in all their flavors. The address
// operand takes one of four forms:
//
//	<label>                     PC-relative
//	[Rn]                        zero offset, pre-indexed
//	[Rn, <offset>]{!}           pre-indexed, optional write-back
//	[Rn], <offset>              post-indexed
//
// where <offset> is #imm or {+|-}Rm{, <shiftname> #imm}. Halfword and
// signed flavors use a distinct packing and take no shifted offsets.
func (e *Encoder) encodeDataTransfer(op string, cond uint32, suffix string, toks []parser.Token) (uint32, error) {
	flavor, ok := transferSuffixes[suffix]
	if !ok {
		return 0, parser.NewError(toks[0].Line, parser.ErrSemantic,
			fmt.Sprintf("invalid transfer suffix %q", suffix))
	}
	hwSigned := flavor.sh != 0

	var load uint32
	if op == "ldr" {
		load = 1
	}

	rd, err := regAt(toks, 1)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, 2, parser.TokenComma); err != nil {
		return 0, err
	}

	addr, err := tokenAt(toks, 3, "an address")
	if err != nil {
		return 0, err
	}

	// PC-relative label form: the offset is a magnitude and the U bit is
	// forced to subtract.
	if addr.Type == parser.TokenKeyword {
		label, err := e.labelAt(toks, 3)
		if err != nil {
			return 0, err
		}
		if err = expectEnd(toks, 4); err != nil {
			return 0, err
		}
		offset := label.Offset(toks[0].Line, TransferOffsetBits)
		return packTransfer(cond, flavor, load, 1, 0, 0, 0, RegisterPC, rd, offset), nil
	}

	if err = expect(toks, 3, parser.TokenLBracket); err != nil {
		return 0, err
	}
	rn, err := regAt(toks, 4)
	if err != nil {
		return 0, err
	}

	sep, err := tokenAt(toks, 5, "']' or ','")
	if err != nil {
		return 0, err
	}

	maxImm := uint32(MaxOffset12Bit)
	if hwSigned {
		maxImm = MaxOffsetHalfword
	}

	if sep.Type == parser.TokenRBracket {
		// Zero-offset [Rn], pre-indexed
		if len(toks) == 6 {
			return packTransfer(cond, flavor, load, 1, 1, 0, 0, rn, rd, 0), nil
		}

		// Post-indexed [Rn], <offset>; the W bit force-translates when the
		// 't' suffix was given
		if err = expect(toks, 6, parser.TokenComma); err != nil {
			return 0, err
		}
		isReg, up, field, next, err := e.parseTransferOffset(toks, 7, hwSigned, maxImm)
		if err != nil {
			return 0, err
		}
		if err = expectEnd(toks, next); err != nil {
			return 0, err
		}
		var write uint32
		if flavor.tFlag {
			write = 1
		}
		return packTransfer(cond, flavor, load, 0, up, write, isReg, rn, rd, field), nil
	}

	// Pre-indexed [Rn, <offset>]{!}
	if err = expect(toks, 5, parser.TokenComma); err != nil {
		return 0, err
	}
	isReg, up, field, next, err := e.parseTransferOffset(toks, 6, hwSigned, maxImm)
	if err != nil {
		return 0, err
	}
	if err = expect(toks, next, parser.TokenRBracket); err != nil {
		return 0, err
	}
	var write uint32
	if next+1 < len(toks) && toks[next+1].Type == parser.TokenExclaim {
		write = 1
		next++
	}
	if err = expectEnd(toks, next+1); err != nil {
		return 0, err
	}
	return packTransfer(cond, flavor, load, 1, up, write, isReg, rn, rd, field), nil
}

// parseTransferOffset parses an offset operand at idx: #imm, or a register
// with optional sign and optional immediate shift. It returns the I bit, the
// U bit, the packed 12-bit offset field, and the index just past the
// consumed tokens.
func (e *Encoder) parseTransferOffset(toks []parser.Token, idx int, hwSigned bool, maxImm uint32) (isReg, up, field uint32, next int, err error) {
	up = 1

	tok, err := tokenAt(toks, idx, "an offset")
	if err != nil {
		return 0, 0, 0, 0, err
	}

	if tok.Type == parser.TokenNumber {
		value, err := numberAt(toks, idx)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		if value > maxImm {
			return 0, 0, 0, 0, parser.NewError(tok.Line, parser.ErrSemantic,
				fmt.Sprintf("transfer offset %d out of range (max %d)", value, maxImm))
		}
		return 0, up, value, idx + 1, nil
	}

	// Optional sign ahead of a register offset
	switch tok.Type {
	case parser.TokenPlus:
		idx++
	case parser.TokenMinus:
		up = 0
		idx++
	}

	rm, err := regAt(toks, idx)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	next = idx + 1

	// A comma after Rm introduces a shift
	if next < len(toks) && toks[next].Type == parser.TokenComma {
		if hwSigned {
			return 0, 0, 0, 0, parser.NewError(toks[next].Line, parser.ErrSemantic,
				"halfword and signed transfers take no shifted offset")
		}
		shiftTy, err := shiftTypeAt(toks, next+1)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		amountTok, err := tokenAt(toks, next+2, "a shift amount")
		if err != nil {
			return 0, 0, 0, 0, err
		}
		if amountTok.Type != parser.TokenNumber {
			return 0, 0, 0, 0, parser.NewError(amountTok.Line, parser.ErrShape,
				"transfer shift amount must be an immediate")
		}
		amount, err := numberAt(toks, next+2)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		if amount > MaxShiftAmount {
			return 0, 0, 0, 0, parser.NewError(amountTok.Line, parser.ErrSemantic,
				fmt.Sprintf("shift amount %d out of range", amount))
		}
		shift := (amount<<2 | shiftTy) << 1
		return 1, up, shift<<Bit4 | rm, next + 3, nil
	}

	return 1, up, rm, next, nil
}

// packTransfer assembles the single data transfer word for both the
// word/byte and the halfword/signed families.
//
// Word/byte:        cccc 01IP UBWL nnnn dddd oooo oooo oooo
// Halfword reg:     cccc 000P U0WL nnnn dddd 0000 1SH1 mmmm
// Halfword imm:     cccc 000P U1WL nnnn dddd hhhh 1SH1 llll
func packTransfer(cond uint32, flavor transferFlavor, load, pre, up, write, isReg uint32, rn, rd, field uint32) uint32 {
	if flavor.sh == 0 {
		return (((((((((cond<<2|0b01)<<1|isReg)<<1|pre)<<1|up)<<1|flavor.byteBit)<<1|write)<<1|load)<<4|rn)<<4|rd)<<RdShift | field
	}

	prefix := ((((((cond<<3|0b000)<<1|pre)<<1|up)<<1|0)<<1|write)<<1|load)<<4 | rn
	if isReg == 1 {
		// Immediate/register flag stays clear for a register offset
		return ((((prefix<<4|rd)<<5|0b00001)<<2|flavor.sh)<<1|0b1)<<4 | field
	}

	prefix |= 1 << 6 // halfword immediate flag (bit 22 once packed)
	offsetHi := (field >> 4) & 0xF
	offsetLo := field & 0xF
	return (((((prefix<<4|rd)<<4|offsetHi)<<1|0b1)<<2|flavor.sh)<<1|0b1)<<4 | offsetLo
}

// blockModes maps a full LDM/STM mnemonic (opcode plus addressing-mode
// suffix, condition removed) to its L, P and U bits.
var blockModes = map[string][3]uint32{
	"ldmed": {1, 1, 1}, "ldmib": {1, 1, 1},
	"ldmfd": {1, 0, 1}, "ldmia": {1, 0, 1},
	"ldmea": {1, 1, 0}, "ldmdb": {1, 1, 0},
	"ldmfa": {1, 0, 0}, "ldmda": {1, 0, 0},
	"stmfa": {0, 1, 1}, "stmib": {0, 1, 1},
	"stmea": {0, 0, 1}, "stmia": {0, 0, 1},
	"stmfd": {0, 1, 0}, "stmdb": {0, 1, 0},
	"stmed": {0, 0, 0}, "stmda": {0, 0, 0},
}

// encodeBlockTransfer encodes LDM and STM.
//
//	<op><mode> Rn{!}, { <reg-list> } {^}
//
// The register list is a comma-separated mix of single registers and
// inclusive ranges, encoded as a 16-bit bitmap.
//
// Format: cccc 100P USWL nnnn rrrr rrrr rrrr rrrr
func (e *Encoder) encodeBlockTransfer(op string, cond uint32, suffix string, toks []parser.Token) (uint32, error) {
	mode, ok := blockModes[op+suffix]
	if !ok {
		return 0, parser.NewError(toks[0].Line, parser.ErrSemantic,
			fmt.Sprintf("invalid block transfer addressing mode %q", op+suffix))
	}
	load, pre, up := mode[0], mode[1], mode[2]

	rn, err := regAt(toks, 1)
	if err != nil {
		return 0, err
	}

	idx := 2
	var write uint32
	if tok, err := tokenAt(toks, 2, "'!' or ','"); err != nil {
		return 0, err
	} else if tok.Type == parser.TokenExclaim {
		write = 1
		idx = 3
	}

	if err = expect(toks, idx, parser.TokenComma); err != nil {
		return 0, err
	}
	if err = expect(toks, idx+1, parser.TokenLBrace); err != nil {
		return 0, err
	}

	rlist, next, err := parseRegisterList(toks, idx+2)
	if err != nil {
		return 0, err
	}

	// An optional '^' sets the PSR / force-user bit
	var force uint32
	if next < len(toks) && toks[next].Type == parser.TokenCaret {
		force = 1
		next++
	}
	if err = expectEnd(toks, next); err != nil {
		return 0, err
	}

	return (((((((cond<<3|LDMSTMTypeValue)<<1|pre)<<1|up)<<1|force)<<1|write)<<1|load)<<4|rn)<<RnShift | rlist, nil
}

// parseRegisterList parses the body of a { <reg-list> } operand starting at
// the first token after the open brace. It returns the 16-bit register
// bitmap and the index just past the closing brace.
func parseRegisterList(toks []parser.Token, idx int) (uint32, int, error) {
	var rlist uint32

	for {
		tok, err := tokenAt(toks, idx, "a register or '}'")
		if err != nil {
			return 0, 0, err
		}
		if tok.Type == parser.TokenRBrace {
			return rlist, idx + 1, nil
		}

		first, err := regAt(toks, idx)
		if err != nil {
			return 0, 0, err
		}

		sep, err := tokenAt(toks, idx+1, "',', '-' or '}'")
		if err != nil {
			return 0, 0, err
		}

		switch sep.Type {
		case parser.TokenRBrace:
			rlist |= 1 << first
			return rlist, idx + 2, nil

		case parser.TokenComma:
			rlist |= 1 << first
			idx += 2

		case parser.TokenMinus:
			last, err := regAt(toks, idx+2)
			if err != nil {
				return 0, 0, err
			}
			if first > last {
				return 0, 0, parser.NewError(sep.Line, parser.ErrSemantic,
					fmt.Sprintf("invalid register range r%d-r%d", first, last))
			}
			for r := first; r <= last; r++ {
				rlist |= 1 << r
			}

			after, err := tokenAt(toks, idx+3, "',' or '}'")
			if err != nil {
				return 0, 0, err
			}
			switch after.Type {
			case parser.TokenRBrace:
				return rlist, idx + 4, nil
			case parser.TokenComma:
				idx += 4
			default:
				return 0, 0, parser.NewError(after.Line, parser.ErrShape,
					fmt.Sprintf("expected ',' or '}' in register list, got %q", after.Literal))
			}

		default:
			return 0, 0, parser.NewError(sep.Line, parser.ErrShape,
				fmt.Sprintf("expected ',', '-' or '}' in register list, got %q", sep.Literal))
		}
	}
}
