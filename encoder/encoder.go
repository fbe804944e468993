package encoder

import (
	"strings"

	"github.com/lookbusy1344/arm-assembler/parser"
)

// Encoder converts logical instruction lines into ARM machine words. It
// borrows the label table built by the label pass; the table must be fully
// populated before encoding starts.
type Encoder struct {
	labels *parser.LabelTable
}

// NewEncoder creates a new encoder over a populated label table
func NewEncoder(labels *parser.LabelTable) *Encoder {
	return &Encoder{labels: labels}
}

// EncodedLine couples an encoded instruction with its originating source
type EncodedLine struct {
	Word   uint32 // the 32-bit machine word
	Line   int    // zero-indexed source line of the instruction
	Tokens []parser.Token
}

// Source re-emits the instruction's tokens: space separated, except that a
// comma attaches to the token before it.
func (l EncodedLine) Source() string {
	var sb strings.Builder
	for _, tok := range l.Tokens {
		if sb.Len() > 0 && tok.Type != parser.TokenComma {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}

// Assemble runs the two-pass driver over a token stream: split into logical
// lines, collect labels, then encode every instruction line in order.
// The second result is the logical line count, used to size the listing's
// line-number column.
func Assemble(tokens []parser.Token) ([]EncodedLine, int, error) {
	lines := parser.SplitLines(tokens)

	labels, err := parser.CollectLabels(lines)
	if err != nil {
		return nil, 0, err
	}

	enc := NewEncoder(labels)
	encoded := make([]EncodedLine, 0, len(lines))

	for _, line := range lines {
		if line.IsLabel() {
			continue
		}
		if !line.IsInstruction() {
			first := line.First()
			return nil, 0, parser.NewError(first.Line, parser.ErrShape,
				"expected an instruction or a label declaration")
		}

		word, err := enc.EncodeLine(line)
		if err != nil {
			return nil, 0, err
		}
		encoded = append(encoded, EncodedLine{
			Word:   word,
			Line:   line.First().Line,
			Tokens: line.Tokens,
		})
	}

	return encoded, len(lines), nil
}

// EncodeLine encodes a single instruction line into its 32-bit machine word
func (e *Encoder) EncodeLine(line parser.Line) (uint32, error) {
	toks := line.Tokens
	first := toks[0]

	op, cond, suffix, err := splitMnemonic(first)
	if err != nil {
		return 0, err
	}
	condN := conditionCodes[cond]

	var word uint32
	switch op {
	case "b", "bl":
		word, err = e.encodeBranch(op, condN, toks)
	case "bx":
		word, err = e.encodeBranchExchange(condN, toks)

	case "and", "eor", "sub", "rsb", "add", "adc", "sbc", "rsc",
		"tst", "teq", "cmp", "cmn", "orr", "mov", "bic", "mvn":
		word, err = e.encodeDataProcessing(op, condN, suffix, toks)

	case "mrs", "msr":
		word, err = e.encodePSRTransfer(op, condN, toks)

	case "mul", "mla":
		word, err = e.encodeMultiply(op, condN, suffix, toks)
	case "umull", "umlal", "smull", "smlal":
		word, err = e.encodeMultiplyLong(op, condN, suffix, toks)

	case "ldr", "str":
		word, err = e.encodeDataTransfer(op, condN, suffix, toks)
	case "ldm", "stm":
		word, err = e.encodeBlockTransfer(op, condN, suffix, toks)

	case "swp":
		word, err = e.encodeSwap(condN, suffix, toks)
	case "swi":
		word, err = e.encodeSWI(condN, toks)

	case "cdp":
		word, err = e.encodeCoprocOp(condN, toks)
	case "ldc", "stc":
		word, err = e.encodeCoprocTransfer(op, condN, suffix, toks)
	case "mrc", "mcr":
		word, err = e.encodeCoprocRegTransfer(op, condN, toks)
	}

	return word, wrapEncodingError(first.Line, first.Literal, err)
}
