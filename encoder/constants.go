package encoder

// Bit positions shared by the instruction encoders
const (
	ConditionShift = 28 // Bits 31-28: condition code
	IBitShift      = 25 // Bit 25: immediate operand flag
	OpcodeShift    = 21 // Bits 24-21: data processing opcode
	SBitShift      = 20 // Bit 20: set-flags / store-load modifier
	RnShift        = 16 // Bits 19-16: first operand register
	RdShift        = 12 // Bits 15-12: destination register
	RsShift        = 8  // Bits 11-8: shift register

	PBitShift = 24 // Bit 24: pre/post indexing
	UBitShift = 23 // Bit 23: up/down (add/subtract offset)
	BBitShift = 22 // Bit 22: byte/word
	WBitShift = 21 // Bit 21: write-back
	LBitShift = 20 // Bit 20: load/store

	BranchLinkShift = 24 // Bit 24: branch link flag

	ShiftAmountShift = 7 // Bits 11-7: immediate shift amount
	ShiftTypeShift   = 5 // Bits 6-5: shift type
	Bit4             = 4 // Bit 4: register/immediate shift indicator
)

// Register numbers with architectural roles
const (
	RegisterSP = 13
	RegisterLR = 14
	RegisterPC = 15
)

// Instruction type values (before shifting into position)
const (
	BranchTypeValue = 0x5 // 0b101 in bits 27-25
	LDMSTMTypeValue = 0x4 // 0b100 in bits 27-25
	CoprocTypeValue = 0x6 // 0b110 in bits 27-25 for LDC/STC
	SWITypeValue    = 0xF // 0b1111 in bits 27-24
	MultiplyMarker  = 0x9 // 0b1001 in bits 7-4
	SwapMarker      = 0x09
	BXMarker        = 0x12FFF1 // bits 27-4 of BX
)

// Field limits
const (
	MaxRegister        = 15
	MaxShiftAmount     = 31
	MaxOffset12Bit     = 0xFFF    // single data transfer immediate offset
	MaxOffsetHalfword  = 0xFF     // halfword/signed immediate offset
	MaxOffsetCoproc    = 0xFF     // coprocessor transfer word offset
	MaxCoprocInfo      = 7        // 3-bit coprocessor info field (op2)
	MaxCoprocOpcode    = 15       // 4-bit CDP operation field
	MaxCoprocRegOpcode = 7        // 3-bit MRC/MCR operation field
	MaxSWIComment      = 0xFFFFFF // 24-bit SWI comment field
)

// Label offset field widths
const (
	BranchOffsetBits   = 24
	TransferOffsetBits = 12
	CoprocOffsetBits   = 8
)
