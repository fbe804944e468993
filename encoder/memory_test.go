package encoder_test

import (
	"testing"
)

// TestEncodeDataTransfer tests LDR/STR across addressing modes
func TestEncodeDataTransfer(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want uint32
	}{
		{"zero offset store", "str r2, [r3]", 0xE5832000},
		{"zero offset load", "ldr r0, [r1]", 0xE5910000},
		{"immediate offset", "ldr r0, [r1, #4]", 0xE5910004},
		{"immediate offset writeback", "ldr r0, [r1, #4]!", 0xE5B10004},
		{"byte load", "ldrb r4, [r5, #0xff]", 0xE5D540FF},
		{"byte store", "strb r4, [r5]", 0xE5C54000},
		{"post-indexed immediate", "ldr r0, [r1], #4", 0xE4910004},
		{"post-indexed translate", "ldrt r0, [r1], #4", 0xE4B10004},
		{"post-indexed byte translate", "strbt r0, [r1], #4", 0xE4E10004},
		{"negative register offset", "str r0, [r1, -r2]", 0xE7010002},
		{"positive register offset", "ldr r0, [r1, +r2]", 0xE7910002},
		{"scaled register offset", "ldr r0, [r1, r2, lsl #2]", 0xE7910102},
		{"post-indexed register", "str r6, [r7], r8", 0xE6876008},
		{"conditional load", "ldrne r0, [r1]", 0x15910000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeOne(t, tt.src); got != tt.want {
				t.Errorf("%q: got 0x%08x, want 0x%08x", tt.src, got, tt.want)
			}
		})
	}
}

// TestEncodeDataTransferLabel tests the PC-relative label form: base PC,
// pre-indexed, U forced to subtract, magnitude offset
func TestEncodeDataTransferLabel(t *testing.T) {
	lines := assemble(t, "x:\nldr r2, x")
	if lines[0].Word != 0xE51F2004 {
		t.Errorf("got 0x%08x, want 0xe51f2004", lines[0].Word)
	}
}

// TestEncodeHalfwordTransfer tests the halfword/signed packing family
func TestEncodeHalfwordTransfer(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want uint32
	}{
		{"halfword immediate", "ldrh r0, [r1, #0xff]", 0xE1D10FBF},
		{"signed halfword immediate", "ldrsh r1, [r2, #8]", 0xE1D210F8},
		{"signed byte post register", "ldrsb r2, [r3], r4", 0xE09320D4},
		{"halfword store register writeback", "strh r5, [r6, -r7]!", 0xE12650B7},
		{"halfword zero offset", "ldrh r0, [r1]", 0xE1D100B0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeOne(t, tt.src); got != tt.want {
				t.Errorf("%q: got 0x%08x, want 0x%08x", tt.src, got, tt.want)
			}
		})
	}
}

// TestEncodeDataTransferErrors tests shape and range rejections
func TestEncodeDataTransferErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"offset out of range", "ldr r0, [r1, #4096]"},
		{"halfword offset out of range", "ldrh r0, [r1, #256]"},
		{"halfword shifted offset", "ldrh r0, [r1, r2, lsl #1]"},
		{"invalid suffix", "ldrq r0, [r1]"},
		{"missing bracket", "ldr r0, r1, #4]"},
		{"trailing tokens", "ldr r0, [r1] r2"},
		{"status register as base", "ldr r0, [cpsr]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assembleErr(t, tt.src)
		})
	}
}

// TestEncodeBlockTransfer tests LDM/STM addressing-mode mnemonics and
// register lists
func TestEncodeBlockTransfer(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want uint32
	}{
		{"push frame", "stmfd sp!, {r0-r3, lr}", 0xE92D400F},
		{"increment after", "ldmia r0, {r1, r2}", 0xE8900006},
		{"pop with psr", "ldmfd sp!, {r0-r12, pc}^", 0xE8FD9FFF},
		{"increment before", "stmib r4, {r0, r5-r7}", 0xE98400E1},
		{"decrement after", "ldmda r1, {r2}", 0xE8110004},
		{"decrement before", "stmdb r9, {r0, r15}", 0xE9098001},
		{"full ascending load", "ldmfa r3, {r4-r6}", 0xE8130070},
		{"empty ascending store", "stmea r2!, {r0-r1}", 0xE8A20003},
		{"single register", "ldmia r0, {r7}", 0xE8900080},
		{"conditional", "stmeqia r0, {r1}", 0x08800002},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeOne(t, tt.src); got != tt.want {
				t.Errorf("%q: got 0x%08x, want 0x%08x", tt.src, got, tt.want)
			}
		})
	}
}

// TestEncodeBlockTransferErrors tests addressing-mode and list rejections
func TestEncodeBlockTransferErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing mode suffix", "ldm r0, {r1}"},
		{"invalid mode suffix", "ldmqq r0, {r1}"},
		{"descending range", "ldmia r0, {r3-r1}"},
		{"missing close brace", "ldmia r0, {r1, r2"},
		{"missing list", "ldmia r0"},
		{"bad separator", "ldmia r0, {r1 r2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assembleErr(t, tt.src)
		})
	}
}
