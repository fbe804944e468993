package encoder_test

import (
	"fmt"
	"testing"

	"github.com/lookbusy1344/arm-assembler/encoder"
	"github.com/lookbusy1344/arm-assembler/parser"
)

// assemble lexes and assembles a complete source, failing the test on error
func assemble(t *testing.T, src string) []encoder.EncodedLine {
	t.Helper()
	tokens, err := parser.NewLexer(src).Tokenize()
	if err != nil {
		t.Fatalf("lexing %q failed: %v", src, err)
	}
	lines, _, err := encoder.Assemble(tokens)
	if err != nil {
		t.Fatalf("assembling %q failed: %v", src, err)
	}
	return lines
}

// encodeOne assembles a single-instruction source and returns its word
func encodeOne(t *testing.T, src string) uint32 {
	t.Helper()
	lines := assemble(t, src)
	if len(lines) != 1 {
		t.Fatalf("assembling %q produced %d words, want 1", src, len(lines))
	}
	return lines[0].Word
}

// assembleErr lexes and assembles, requiring a failure
func assembleErr(t *testing.T, src string) error {
	t.Helper()
	tokens, err := parser.NewLexer(src).Tokenize()
	if err != nil {
		t.Fatalf("lexing %q failed: %v", src, err)
	}
	_, _, err = encoder.Assemble(tokens)
	if err == nil {
		t.Fatalf("assembling %q unexpectedly succeeded", src)
	}
	return err
}

// TestEncodeScenarios pins the concrete end-to-end encodings
func TestEncodeScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want uint32
	}{
		{"mov immediate zero", "mov r0, #0", 0xE3A00000},
		{"add with shifted register", "addeqs r1, r2, r3, lsl #4", 0x00921203},
		{"pre-indexed load with writeback", "ldr r0, [r1, #4]!", 0xE5B10004},
		{"store multiple full descending", "stmfd sp!, {r0-r3, lr}", 0xE92D400F},
		{"byte swap", "swpb r0, r1, [r2]", 0xE1420091},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeOne(t, tt.src); got != tt.want {
				t.Errorf("%q: got 0x%08x, want 0x%08x", tt.src, got, tt.want)
			}
		})
	}
}

// TestEncodeBranchBackward tests a backward branch, whose offset is the plain
// line delta (the prefetch adjustment applies only to labels at or after the
// branch)
func TestEncodeBranchBackward(t *testing.T) {
	lines := assemble(t, "start:\n\nb start")
	if len(lines) != 1 {
		t.Fatalf("got %d words, want 1", len(lines))
	}
	if lines[0].Word != 0xEAFFFFFE {
		t.Errorf("got 0x%08x, want 0xeafffffe", lines[0].Word)
	}
	if offset := lines[0].Word & 0xFFFFFF; offset != 0xFFFFFE {
		t.Errorf("offset field: got 0x%06x, want 0xfffffe", offset)
	}
}

// TestEncodeBranches tests branch variants and label directions
func TestEncodeBranches(t *testing.T) {
	t.Run("forward branch", func(t *testing.T) {
		lines := assemble(t, "b fwd\n\nfwd:")
		if lines[0].Word != 0xEA000000 {
			t.Errorf("got 0x%08x, want 0xea000000", lines[0].Word)
		}
	})

	t.Run("branch with link", func(t *testing.T) {
		lines := assemble(t, "bl sub\nsub:")
		if lines[0].Word != 0xEBFFFFFF {
			t.Errorf("got 0x%08x, want 0xebffffff", lines[0].Word)
		}
	})

	t.Run("conditional branch exchange", func(t *testing.T) {
		if got := encodeOne(t, "bxne r2"); got != 0x112FFF12 {
			t.Errorf("got 0x%08x, want 0x112fff12", got)
		}
	})

	t.Run("bx rejects status registers", func(t *testing.T) {
		assembleErr(t, "bx cpsr")
		assembleErr(t, "bx spsr")
	})

	t.Run("undefined label", func(t *testing.T) {
		assembleErr(t, "b nowhere")
	})
}

// TestEncodeConditionBits tests that the top four bits always hold the
// condition, with AL for unconditioned instructions
func TestEncodeConditionBits(t *testing.T) {
	tests := []struct {
		src  string
		cond uint32
	}{
		{"mov r0, #0", 0xE},
		{"moveq r0, #0", 0x0},
		{"subne r0, r1, #1", 0x1},
		{"cmphs r0, #0", 0xE}, // hs is not a recognized condition; al applies
		{"mulvs r0, r1, r2", 0x6},
		{"swile 9", 0xD},
		{"ldrgt r0, [r1]", 0xC},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := encodeOne(t, tt.src)
			if got>>28 != tt.cond {
				t.Errorf("%q: condition bits 0x%x, want 0x%x", tt.src, got>>28, tt.cond)
			}
		})
	}
}

// TestLineNumberMonotonicity tests that output order follows source order
func TestLineNumberMonotonicity(t *testing.T) {
	src := "start:\nmov r0, #0\nmov r1, #1\n\nloop:\nadd r0, r0, #1\nb loop"
	lines := assemble(t, src)

	prev := -1
	for _, line := range lines {
		if line.Line <= prev {
			t.Fatalf("line %d emitted after line %d", line.Line, prev)
		}
		prev = line.Line
	}
}

// TestLabelDeterminism tests that encoding only depends on the line numbers
// of the branch and its label, not on other label declarations in the source
func TestLabelDeterminism(t *testing.T) {
	// Same geometry, without and with an unrelated trailing label
	first := assemble(t, "x:\n\nb x\nmov r0, #0")
	second := assemble(t, "x:\n\nb x\nmov r0, #0\ny:")

	if first[0].Word != second[0].Word {
		t.Errorf("encoding changed with unrelated label: 0x%08x vs 0x%08x",
			first[0].Word, second[0].Word)
	}
}

// TestEncodedLineSource tests token re-emission
func TestEncodedLineSource(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"mov r0, #0", "mov r0, #0"},
		{"add r1, r2, r3", "add r1, r2, r3"},
		{"ldr r0, [r1, #4]!", "ldr r0, [ r1, #4 ] !"},
		{"stmfd sp!, {r0-r3, lr}", "stmfd sp !, { r0 - r3, lr }"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lines := assemble(t, tt.src)
			if got := lines[0].Source(); got != tt.want {
				t.Errorf("Source() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestAssembleSkipsLabelLines tests that label-only lines produce no words
func TestAssembleSkipsLabelLines(t *testing.T) {
	lines := assemble(t, "a:\nmov r0, #0\nb:\nmov r1, #1\nc:")
	if len(lines) != 2 {
		t.Errorf("got %d words, want 2", len(lines))
	}
}

// TestAssembleLineCount tests the logical line count used for the listing
// width
func TestAssembleLineCount(t *testing.T) {
	tokens, err := parser.NewLexer("a:\nmov r0, #0\n\nmov r1, #1").Tokenize()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	_, count, err := encoder.Assemble(tokens)
	if err != nil {
		t.Fatalf("assembling failed: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d logical lines, want 3", count)
	}
}

// TestEncodeSynthesizedMoves synthesizes every register-to-register MOV and
// checks each field against an independent packing
func TestEncodeSynthesizedMoves(t *testing.T) {
	for rd := 0; rd < 16; rd++ {
		for rm := 0; rm < 16; rm++ {
			src := fmt.Sprintf("mov r%d, r%d", rd, rm)
			want := uint32(0xE)<<28 | 0xD<<21 | uint32(rd)<<12 | uint32(rm)
			if got := encodeOne(t, src); got != want {
				t.Fatalf("%q: got 0x%08x, want 0x%08x", src, got, want)
			}
		}
	}
}

// TestEncodeSynthesizedRegisterLists checks the block transfer bitmap for
// every single-register list
func TestEncodeSynthesizedRegisterLists(t *testing.T) {
	for r := 0; r < 16; r++ {
		src := fmt.Sprintf("ldmia r0, {r%d}", r)
		want := 0xE8900000 | uint32(1)<<r
		if got := encodeOne(t, src); got != want {
			t.Fatalf("%q: got 0x%08x, want 0x%08x", src, got, want)
		}
	}
}

// TestEncodeAgainstBitPacker cross-checks the data processing encoder
// against an independent field packer
func TestEncodeAgainstBitPacker(t *testing.T) {
	pack := func(cond, i, opc, s, rn, rd, op2 uint32) uint32 {
		return cond<<28 | i<<25 | opc<<21 | s<<20 | rn<<16 | rd<<12 | op2
	}

	tests := []struct {
		src                        string
		cond, i, opc, s, rn, rd    uint32
		op2                        uint32
	}{
		{"mov r0, #0", 0xE, 1, 0xD, 0, 0, 0, 0x000},
		{"movs r1, r2", 0xE, 0, 0xD, 1, 0, 1, 0x002},
		{"mvneq r3, #0xff", 0x0, 1, 0xF, 0, 0, 3, 0x0FF},
		{"cmp r1, #5", 0xE, 1, 0xA, 1, 1, 0, 0x005},
		{"cmn r2, r3", 0xE, 0, 0xB, 1, 2, 0, 0x003},
		{"teq r9, #0x100", 0xE, 1, 0x9, 1, 9, 0, 0xC01},
		{"tst r4, r5", 0xE, 0, 0x8, 1, 4, 0, 0x005},
		{"add r1, r2, r3", 0xE, 0, 0x4, 0, 2, 1, 0x003},
		{"adcs r6, r7, #1", 0xE, 1, 0x5, 1, 7, 6, 0x001},
		{"sub r0, r1, #4", 0xE, 1, 0x2, 0, 1, 0, 0x004},
		{"rsb r0, r1, #4", 0xE, 1, 0x3, 0, 1, 0, 0x004},
		{"sbc r2, r3, r4", 0xE, 0, 0x6, 0, 3, 2, 0x004},
		{"rscs r5, r6, r7", 0xE, 0, 0x7, 1, 6, 5, 0x007},
		{"and r4, r5, r6, lsr r7", 0xE, 0, 0x0, 0, 5, 4, 0x736},
		{"eor r1, r2, r3, asr #3", 0xE, 0, 0x1, 0, 2, 1, 0x1C3},
		{"orr r8, r9, r10, ror #1", 0xE, 0, 0xC, 0, 9, 8, 0x0EA},
		{"bics r8, r9, #0xff00", 0xE, 1, 0xE, 1, 9, 8, 0xCFF},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			want := pack(tt.cond, tt.i, tt.opc, tt.s, tt.rn, tt.rd, tt.op2)
			if got := encodeOne(t, tt.src); got != want {
				t.Errorf("%q: got 0x%08x, want 0x%08x", tt.src, got, want)
			}
		})
	}
}
