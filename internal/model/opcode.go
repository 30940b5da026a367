package model

import "fmt"

// Opcode is a JVM instruction opcode.
type Opcode uint8

// 0x00 range - constants.
const (
	NOP         Opcode = 0x00
	ACONST_NULL Opcode = 0x01
	ICONST_M1   Opcode = 0x02
	ICONST_0    Opcode = 0x03
	ICONST_1    Opcode = 0x04
	ICONST_2    Opcode = 0x05
	ICONST_3    Opcode = 0x06
	ICONST_4    Opcode = 0x07
	ICONST_5    Opcode = 0x08
	LCONST_0    Opcode = 0x09
	LCONST_1    Opcode = 0x0a
	FCONST_0    Opcode = 0x0b
	FCONST_1    Opcode = 0x0c
	FCONST_2    Opcode = 0x0d
	DCONST_0    Opcode = 0x0e
	DCONST_1    Opcode = 0x0f
	BIPUSH      Opcode = 0x10
	SIPUSH      Opcode = 0x11
	LDC         Opcode = 0x12
	LDC_W       Opcode = 0x13
	LDC2_W      Opcode = 0x14
)

// 0x15 range - loads.
const (
	ILOAD   Opcode = 0x15
	LLOAD   Opcode = 0x16
	FLOAD   Opcode = 0x17
	DLOAD   Opcode = 0x18
	ALOAD   Opcode = 0x19
	ILOAD_0 Opcode = 0x1a
	ILOAD_1 Opcode = 0x1b
	ILOAD_2 Opcode = 0x1c
	ILOAD_3 Opcode = 0x1d
	LLOAD_0 Opcode = 0x1e
	LLOAD_1 Opcode = 0x1f
	LLOAD_2 Opcode = 0x20
	LLOAD_3 Opcode = 0x21
	FLOAD_0 Opcode = 0x22
	FLOAD_1 Opcode = 0x23
	FLOAD_2 Opcode = 0x24
	FLOAD_3 Opcode = 0x25
	DLOAD_0 Opcode = 0x26
	DLOAD_1 Opcode = 0x27
	DLOAD_2 Opcode = 0x28
	DLOAD_3 Opcode = 0x29
	ALOAD_0 Opcode = 0x2a
	ALOAD_1 Opcode = 0x2b
	ALOAD_2 Opcode = 0x2c
	ALOAD_3 Opcode = 0x2d
	IALOAD  Opcode = 0x2e
	LALOAD  Opcode = 0x2f
	FALOAD  Opcode = 0x30
	DALOAD  Opcode = 0x31
	AALOAD  Opcode = 0x32
	BALOAD  Opcode = 0x33
	CALOAD  Opcode = 0x34
	SALOAD  Opcode = 0x35
)

// 0x36 range - stores.
const (
	ISTORE   Opcode = 0x36
	LSTORE   Opcode = 0x37
	FSTORE   Opcode = 0x38
	DSTORE   Opcode = 0x39
	ASTORE   Opcode = 0x3a
	ISTORE_0 Opcode = 0x3b
	ISTORE_1 Opcode = 0x3c
	ISTORE_2 Opcode = 0x3d
	ISTORE_3 Opcode = 0x3e
	LSTORE_0 Opcode = 0x3f
	LSTORE_1 Opcode = 0x40
	LSTORE_2 Opcode = 0x41
	LSTORE_3 Opcode = 0x42
	FSTORE_0 Opcode = 0x43
	FSTORE_1 Opcode = 0x44
	FSTORE_2 Opcode = 0x45
	FSTORE_3 Opcode = 0x46
	DSTORE_0 Opcode = 0x47
	DSTORE_1 Opcode = 0x48
	DSTORE_2 Opcode = 0x49
	DSTORE_3 Opcode = 0x4a
	ASTORE_0 Opcode = 0x4b
	ASTORE_1 Opcode = 0x4c
	ASTORE_2 Opcode = 0x4d
	ASTORE_3 Opcode = 0x4e
	IASTORE  Opcode = 0x4f
	LASTORE  Opcode = 0x50
	FASTORE  Opcode = 0x51
	DASTORE  Opcode = 0x52
	AASTORE  Opcode = 0x53
	BASTORE  Opcode = 0x54
	CASTORE  Opcode = 0x55
	SASTORE  Opcode = 0x56
)

// 0x57 range - stack manipulation.
const (
	POP     Opcode = 0x57
	POP2    Opcode = 0x58
	DUP     Opcode = 0x59
	DUP_X1  Opcode = 0x5a
	DUP_X2  Opcode = 0x5b
	DUP2    Opcode = 0x5c
	DUP2_X1 Opcode = 0x5d
	DUP2_X2 Opcode = 0x5e
	SWAP    Opcode = 0x5f
)

// 0x60 range - arithmetic and logic.
const (
	IADD  Opcode = 0x60
	LADD  Opcode = 0x61
	FADD  Opcode = 0x62
	DADD  Opcode = 0x63
	ISUB  Opcode = 0x64
	LSUB  Opcode = 0x65
	FSUB  Opcode = 0x66
	DSUB  Opcode = 0x67
	IMUL  Opcode = 0x68
	LMUL  Opcode = 0x69
	FMUL  Opcode = 0x6a
	DMUL  Opcode = 0x6b
	IDIV  Opcode = 0x6c
	LDIV  Opcode = 0x6d
	FDIV  Opcode = 0x6e
	DDIV  Opcode = 0x6f
	IREM  Opcode = 0x70
	LREM  Opcode = 0x71
	FREM  Opcode = 0x72
	DREM  Opcode = 0x73
	INEG  Opcode = 0x74
	LNEG  Opcode = 0x75
	FNEG  Opcode = 0x76
	DNEG  Opcode = 0x77
	ISHL  Opcode = 0x78
	LSHL  Opcode = 0x79
	ISHR  Opcode = 0x7a
	LSHR  Opcode = 0x7b
	IUSHR Opcode = 0x7c
	LUSHR Opcode = 0x7d
	IAND  Opcode = 0x7e
	LAND  Opcode = 0x7f
	IOR   Opcode = 0x80
	LOR   Opcode = 0x81
	IXOR  Opcode = 0x82
	LXOR  Opcode = 0x83
	IINC  Opcode = 0x84
)

// 0x85 range - conversions and comparisons.
const (
	I2L   Opcode = 0x85
	I2F   Opcode = 0x86
	I2D   Opcode = 0x87
	L2I   Opcode = 0x88
	L2F   Opcode = 0x89
	L2D   Opcode = 0x8a
	F2I   Opcode = 0x8b
	F2L   Opcode = 0x8c
	F2D   Opcode = 0x8d
	D2I   Opcode = 0x8e
	D2L   Opcode = 0x8f
	D2F   Opcode = 0x90
	I2B   Opcode = 0x91
	I2C   Opcode = 0x92
	I2S   Opcode = 0x93
	LCMP  Opcode = 0x94
	FCMPL Opcode = 0x95
	FCMPG Opcode = 0x96
	DCMPL Opcode = 0x97
	DCMPG Opcode = 0x98
)

// 0x99 range - control flow.
const (
	IFEQ         Opcode = 0x99
	IFNE         Opcode = 0x9a
	IFLT         Opcode = 0x9b
	IFGE         Opcode = 0x9c
	IFGT         Opcode = 0x9d
	IFLE         Opcode = 0x9e
	IF_ICMPEQ    Opcode = 0x9f
	IF_ICMPNE    Opcode = 0xa0
	IF_ICMPLT    Opcode = 0xa1
	IF_ICMPGE    Opcode = 0xa2
	IF_ICMPGT    Opcode = 0xa3
	IF_ICMPLE    Opcode = 0xa4
	IF_ACMPEQ    Opcode = 0xa5
	IF_ACMPNE    Opcode = 0xa6
	GOTO         Opcode = 0xa7
	JSR          Opcode = 0xa8
	RET          Opcode = 0xa9
	TABLESWITCH  Opcode = 0xaa
	LOOKUPSWITCH Opcode = 0xab
	IRETURN      Opcode = 0xac
	LRETURN      Opcode = 0xad
	FRETURN      Opcode = 0xae
	DRETURN      Opcode = 0xaf
	ARETURN      Opcode = 0xb0
	RETURN       Opcode = 0xb1
)

// 0xb2 range - references.
const (
	GETSTATIC       Opcode = 0xb2
	PUTSTATIC       Opcode = 0xb3
	GETFIELD        Opcode = 0xb4
	PUTFIELD        Opcode = 0xb5
	INVOKEVIRTUAL   Opcode = 0xb6
	INVOKESPECIAL   Opcode = 0xb7
	INVOKESTATIC    Opcode = 0xb8
	INVOKEINTERFACE Opcode = 0xb9
	INVOKEDYNAMIC   Opcode = 0xba
	NEW             Opcode = 0xbb
	NEWARRAY        Opcode = 0xbc
	ANEWARRAY       Opcode = 0xbd
	ARRAYLENGTH     Opcode = 0xbe
	ATHROW          Opcode = 0xbf
	CHECKCAST       Opcode = 0xc0
	INSTANCEOF      Opcode = 0xc1
	MONITORENTER    Opcode = 0xc2
	MONITOREXIT     Opcode = 0xc3
	WIDE            Opcode = 0xc4
	MULTIANEWARRAY  Opcode = 0xc5
	IFNULL          Opcode = 0xc6
	IFNONNULL       Opcode = 0xc7
	GOTO_W          Opcode = 0xc8
	JSR_W           Opcode = 0xc9
)

// OperandFormat describes how an opcode's operands are laid out in the code array.
type OperandFormat uint8

// Operand formats.
const (
	FormatNone OperandFormat = iota
	FormatByte
	FormatShort
	FormatLocal
	FormatConstU1
	FormatConstU2
	FormatIinc
	FormatBranch
	FormatBranchWide
	FormatTableSwitch
	FormatLookupSwitch
	FormatField
	FormatMethod
	FormatInterfaceMethod
	FormatDynamic
	FormatClass
	FormatNewArray
	FormatMultiANewArray
	FormatWide
)

// Dynamic marks a stack effect that depends on the operand (descriptor or dimensions).
const Dynamic = -1

type opcodeInfo struct {
	name   string
	format OperandFormat
	pop    int // words
	push   int // words
	local  int // implicit local slot, -1 when the slot is an operand or absent
	valid  bool
}

var opcodeTable [256]opcodeInfo

func def(op Opcode, name string, format OperandFormat, pop, push int) {
	opcodeTable[op] = opcodeInfo{name: name, format: format, pop: pop, push: push, local: -1, valid: true}
}

func defImplicit(first Opcode, prefix string, pop, push int) {
	for i := 0; i < 4; i++ {
		op := first + Opcode(i)
		opcodeTable[op] = opcodeInfo{name: fmt.Sprintf("%s_%d", prefix, i), format: FormatNone, pop: pop, push: push, local: i, valid: true}
	}
}

func init() {
	def(NOP, "nop", FormatNone, 0, 0)
	def(ACONST_NULL, "aconst_null", FormatNone, 0, 1)
	def(ICONST_M1, "iconst_m1", FormatNone, 0, 1)

	for i := 0; i <= 5; i++ {
		def(ICONST_0+Opcode(i), fmt.Sprintf("iconst_%d", i), FormatNone, 0, 1)
	}

	def(LCONST_0, "lconst_0", FormatNone, 0, 2)
	def(LCONST_1, "lconst_1", FormatNone, 0, 2)
	def(FCONST_0, "fconst_0", FormatNone, 0, 1)
	def(FCONST_1, "fconst_1", FormatNone, 0, 1)
	def(FCONST_2, "fconst_2", FormatNone, 0, 1)
	def(DCONST_0, "dconst_0", FormatNone, 0, 2)
	def(DCONST_1, "dconst_1", FormatNone, 0, 2)
	def(BIPUSH, "bipush", FormatByte, 0, 1)
	def(SIPUSH, "sipush", FormatShort, 0, 1)
	def(LDC, "ldc", FormatConstU1, 0, 1)
	def(LDC_W, "ldc_w", FormatConstU2, 0, 1)
	def(LDC2_W, "ldc2_w", FormatConstU2, 0, 2)

	def(ILOAD, "iload", FormatLocal, 0, 1)
	def(LLOAD, "lload", FormatLocal, 0, 2)
	def(FLOAD, "fload", FormatLocal, 0, 1)
	def(DLOAD, "dload", FormatLocal, 0, 2)
	def(ALOAD, "aload", FormatLocal, 0, 1)
	defImplicit(ILOAD_0, "iload", 0, 1)
	defImplicit(LLOAD_0, "lload", 0, 2)
	defImplicit(FLOAD_0, "fload", 0, 1)
	defImplicit(DLOAD_0, "dload", 0, 2)
	defImplicit(ALOAD_0, "aload", 0, 1)
	def(IALOAD, "iaload", FormatNone, 2, 1)
	def(LALOAD, "laload", FormatNone, 2, 2)
	def(FALOAD, "faload", FormatNone, 2, 1)
	def(DALOAD, "daload", FormatNone, 2, 2)
	def(AALOAD, "aaload", FormatNone, 2, 1)
	def(BALOAD, "baload", FormatNone, 2, 1)
	def(CALOAD, "caload", FormatNone, 2, 1)
	def(SALOAD, "saload", FormatNone, 2, 1)

	def(ISTORE, "istore", FormatLocal, 1, 0)
	def(LSTORE, "lstore", FormatLocal, 2, 0)
	def(FSTORE, "fstore", FormatLocal, 1, 0)
	def(DSTORE, "dstore", FormatLocal, 2, 0)
	def(ASTORE, "astore", FormatLocal, 1, 0)
	defImplicit(ISTORE_0, "istore", 1, 0)
	defImplicit(LSTORE_0, "lstore", 2, 0)
	defImplicit(FSTORE_0, "fstore", 1, 0)
	defImplicit(DSTORE_0, "dstore", 2, 0)
	defImplicit(ASTORE_0, "astore", 1, 0)
	def(IASTORE, "iastore", FormatNone, 3, 0)
	def(LASTORE, "lastore", FormatNone, 4, 0)
	def(FASTORE, "fastore", FormatNone, 3, 0)
	def(DASTORE, "dastore", FormatNone, 4, 0)
	def(AASTORE, "aastore", FormatNone, 3, 0)
	def(BASTORE, "bastore", FormatNone, 3, 0)
	def(CASTORE, "castore", FormatNone, 3, 0)
	def(SASTORE, "sastore", FormatNone, 3, 0)

	def(POP, "pop", FormatNone, 1, 0)
	def(POP2, "pop2", FormatNone, 2, 0)
	def(DUP, "dup", FormatNone, 1, 2)
	def(DUP_X1, "dup_x1", FormatNone, 2, 3)
	def(DUP_X2, "dup_x2", FormatNone, 3, 4)
	def(DUP2, "dup2", FormatNone, 2, 4)
	def(DUP2_X1, "dup2_x1", FormatNone, 3, 5)
	def(DUP2_X2, "dup2_x2", FormatNone, 4, 6)
	def(SWAP, "swap", FormatNone, 2, 2)

	arith := []string{"add", "sub", "mul", "div", "rem"}
	for i, name := range arith {
		base := IADD + Opcode(i*4)
		def(base, "i"+name, FormatNone, 2, 1)
		def(base+1, "l"+name, FormatNone, 4, 2)
		def(base+2, "f"+name, FormatNone, 2, 1)
		def(base+3, "d"+name, FormatNone, 4, 2)
	}

	def(INEG, "ineg", FormatNone, 1, 1)
	def(LNEG, "lneg", FormatNone, 2, 2)
	def(FNEG, "fneg", FormatNone, 1, 1)
	def(DNEG, "dneg", FormatNone, 2, 2)
	def(ISHL, "ishl", FormatNone, 2, 1)
	def(LSHL, "lshl", FormatNone, 3, 2)
	def(ISHR, "ishr", FormatNone, 2, 1)
	def(LSHR, "lshr", FormatNone, 3, 2)
	def(IUSHR, "iushr", FormatNone, 2, 1)
	def(LUSHR, "lushr", FormatNone, 3, 2)
	def(IAND, "iand", FormatNone, 2, 1)
	def(LAND, "land", FormatNone, 4, 2)
	def(IOR, "ior", FormatNone, 2, 1)
	def(LOR, "lor", FormatNone, 4, 2)
	def(IXOR, "ixor", FormatNone, 2, 1)
	def(LXOR, "lxor", FormatNone, 4, 2)
	def(IINC, "iinc", FormatIinc, 0, 0)

	def(I2L, "i2l", FormatNone, 1, 2)
	def(I2F, "i2f", FormatNone, 1, 1)
	def(I2D, "i2d", FormatNone, 1, 2)
	def(L2I, "l2i", FormatNone, 2, 1)
	def(L2F, "l2f", FormatNone, 2, 1)
	def(L2D, "l2d", FormatNone, 2, 2)
	def(F2I, "f2i", FormatNone, 1, 1)
	def(F2L, "f2l", FormatNone, 1, 2)
	def(F2D, "f2d", FormatNone, 1, 2)
	def(D2I, "d2i", FormatNone, 2, 1)
	def(D2L, "d2l", FormatNone, 2, 2)
	def(D2F, "d2f", FormatNone, 2, 1)
	def(I2B, "i2b", FormatNone, 1, 1)
	def(I2C, "i2c", FormatNone, 1, 1)
	def(I2S, "i2s", FormatNone, 1, 1)
	def(LCMP, "lcmp", FormatNone, 4, 1)
	def(FCMPL, "fcmpl", FormatNone, 2, 1)
	def(FCMPG, "fcmpg", FormatNone, 2, 1)
	def(DCMPL, "dcmpl", FormatNone, 4, 1)
	def(DCMPG, "dcmpg", FormatNone, 4, 1)

	def(IFEQ, "ifeq", FormatBranch, 1, 0)
	def(IFNE, "ifne", FormatBranch, 1, 0)
	def(IFLT, "iflt", FormatBranch, 1, 0)
	def(IFGE, "ifge", FormatBranch, 1, 0)
	def(IFGT, "ifgt", FormatBranch, 1, 0)
	def(IFLE, "ifle", FormatBranch, 1, 0)
	def(IF_ICMPEQ, "if_icmpeq", FormatBranch, 2, 0)
	def(IF_ICMPNE, "if_icmpne", FormatBranch, 2, 0)
	def(IF_ICMPLT, "if_icmplt", FormatBranch, 2, 0)
	def(IF_ICMPGE, "if_icmpge", FormatBranch, 2, 0)
	def(IF_ICMPGT, "if_icmpgt", FormatBranch, 2, 0)
	def(IF_ICMPLE, "if_icmple", FormatBranch, 2, 0)
	def(IF_ACMPEQ, "if_acmpeq", FormatBranch, 2, 0)
	def(IF_ACMPNE, "if_acmpne", FormatBranch, 2, 0)
	def(GOTO, "goto", FormatBranch, 0, 0)
	def(JSR, "jsr", FormatBranch, 0, 1)
	def(RET, "ret", FormatLocal, 0, 0)
	def(TABLESWITCH, "tableswitch", FormatTableSwitch, 1, 0)
	def(LOOKUPSWITCH, "lookupswitch", FormatLookupSwitch, 1, 0)
	def(IRETURN, "ireturn", FormatNone, 1, 0)
	def(LRETURN, "lreturn", FormatNone, 2, 0)
	def(FRETURN, "freturn", FormatNone, 1, 0)
	def(DRETURN, "dreturn", FormatNone, 2, 0)
	def(ARETURN, "areturn", FormatNone, 1, 0)
	def(RETURN, "return", FormatNone, 0, 0)

	def(GETSTATIC, "getstatic", FormatField, Dynamic, Dynamic)
	def(PUTSTATIC, "putstatic", FormatField, Dynamic, Dynamic)
	def(GETFIELD, "getfield", FormatField, Dynamic, Dynamic)
	def(PUTFIELD, "putfield", FormatField, Dynamic, Dynamic)
	def(INVOKEVIRTUAL, "invokevirtual", FormatMethod, Dynamic, Dynamic)
	def(INVOKESPECIAL, "invokespecial", FormatMethod, Dynamic, Dynamic)
	def(INVOKESTATIC, "invokestatic", FormatMethod, Dynamic, Dynamic)
	def(INVOKEINTERFACE, "invokeinterface", FormatInterfaceMethod, Dynamic, Dynamic)
	def(INVOKEDYNAMIC, "invokedynamic", FormatDynamic, Dynamic, Dynamic)
	def(NEW, "new", FormatClass, 0, 1)
	def(NEWARRAY, "newarray", FormatNewArray, 1, 1)
	def(ANEWARRAY, "anewarray", FormatClass, 1, 1)
	def(ARRAYLENGTH, "arraylength", FormatNone, 1, 1)
	def(ATHROW, "athrow", FormatNone, 1, 0)
	def(CHECKCAST, "checkcast", FormatClass, 1, 1)
	def(INSTANCEOF, "instanceof", FormatClass, 1, 1)
	def(MONITORENTER, "monitorenter", FormatNone, 1, 0)
	def(MONITOREXIT, "monitorexit", FormatNone, 1, 0)
	def(WIDE, "wide", FormatWide, 0, 0)
	def(MULTIANEWARRAY, "multianewarray", FormatMultiANewArray, Dynamic, 1)
	def(IFNULL, "ifnull", FormatBranch, 1, 0)
	def(IFNONNULL, "ifnonnull", FormatBranch, 1, 0)
	def(GOTO_W, "goto_w", FormatBranchWide, 0, 0)
	def(JSR_W, "jsr_w", FormatBranchWide, 0, 1)
}

// Valid reports whether op is a defined JVM opcode.
func (op Opcode) Valid() bool {
	return opcodeTable[op].valid
}

// String returns the mnemonic, or a hex placeholder for undefined opcodes.
func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("opcode(0x%02x)", uint8(op))
	}

	return opcodeTable[op].name
}

// Format returns the operand layout of op.
func (op Opcode) Format() OperandFormat {
	return opcodeTable[op].format
}

// StackEffect returns the static number of words popped and pushed by op.
// Either value may be Dynamic.
func (op Opcode) StackEffect() (pop, push int) {
	info := opcodeTable[op]
	return info.pop, info.push
}

// ImplicitLocal returns the local slot encoded in op itself (iload_1 -> 1), or -1.
func (op Opcode) ImplicitLocal() int {
	if !op.Valid() {
		return -1
	}

	return opcodeTable[op].local
}

// IsLoad reports whether op reads a local variable onto the stack.
func (op Opcode) IsLoad() bool {
	return (op >= ILOAD && op <= ALOAD_3)
}

// IsStore reports whether op writes the stack top into a local variable.
func (op Opcode) IsStore() bool {
	return op >= ISTORE && op <= ASTORE_3
}

// IsConditionalJump reports whether op is a two-way branch.
func (op Opcode) IsConditionalJump() bool {
	return (op >= IFEQ && op <= IF_ACMPNE) || op == IFNULL || op == IFNONNULL
}

// IsUnconditionalJump reports whether op always transfers control to its target.
func (op Opcode) IsUnconditionalJump() bool {
	return op == GOTO || op == GOTO_W
}

// IsSubroutineJump reports whether op is jsr or jsr_w.
func (op Opcode) IsSubroutineJump() bool {
	return op == JSR || op == JSR_W
}

// IsJump reports whether op carries a single branch target.
func (op Opcode) IsJump() bool {
	f := op.Format()
	return f == FormatBranch || f == FormatBranchWide
}

// IsSwitch reports whether op is a table or lookup switch.
func (op Opcode) IsSwitch() bool {
	return op == TABLESWITCH || op == LOOKUPSWITCH
}

// IsReturn reports whether op returns from the method.
func (op Opcode) IsReturn() bool {
	return op >= IRETURN && op <= RETURN
}

// IsInvoke reports whether op calls a method.
func (op Opcode) IsInvoke() bool {
	return op >= INVOKEVIRTUAL && op <= INVOKEDYNAMIC
}

// IsFieldRead reports whether op reads a static or instance field.
func (op Opcode) IsFieldRead() bool {
	return op == GETSTATIC || op == GETFIELD
}

// IsFieldWrite reports whether op writes a static or instance field.
func (op Opcode) IsFieldWrite() bool {
	return op == PUTSTATIC || op == PUTFIELD
}

// FallsThrough reports whether execution can continue at the next instruction.
func (op Opcode) FallsThrough() bool {
	switch {
	case op.IsReturn(), op.IsUnconditionalJump(), op.IsSwitch():
		return false
	case op == ATHROW, op == RET:
		return false
	}

	return true
}

// ValueKind is the computational type a typed load/store/return operates on.
type ValueKind byte

// Value kinds, named after their opcode prefix letter.
const (
	KindNone   ValueKind = 0
	KindInt    ValueKind = 'i'
	KindLong   ValueKind = 'l'
	KindFloat  ValueKind = 'f'
	KindDouble ValueKind = 'd'
	KindRef    ValueKind = 'a'
)

// Kind returns the value kind of a typed load or store, KindNone otherwise.
func (op Opcode) Kind() ValueKind {
	var idx int

	switch {
	case op >= ILOAD && op <= ALOAD:
		idx = int(op - ILOAD)
	case op >= ILOAD_0 && op <= ALOAD_3:
		idx = int(op-ILOAD_0) / 4
	case op >= ISTORE && op <= ASTORE:
		idx = int(op - ISTORE)
	case op >= ISTORE_0 && op <= ASTORE_3:
		idx = int(op-ISTORE_0) / 4
	default:
		return KindNone
	}

	return []ValueKind{KindInt, KindLong, KindFloat, KindDouble, KindRef}[idx]
}

// Negated returns the conditional jump taken exactly when op is not taken.
func (op Opcode) Negated() (Opcode, bool) {
	switch op {
	case IFNULL:
		return IFNONNULL, true
	case IFNONNULL:
		return IFNULL, true
	}

	if op < IFEQ || op > IF_ACMPNE {
		return op, false
	}

	// Pairs are laid out adjacently: eq/ne, lt/ge, gt/le.
	if (op-IFEQ)%2 == 0 {
		return op + 1, true
	}

	return op - 1, true
}
