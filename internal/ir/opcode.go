package ir

import "fmt"

// Opcode identifies an instruction operation. OpNone is reported for values
// that are not instructions.
type Opcode uint8

const (
	OpNone Opcode = iota

	// Terminators.
	OpRet
	OpBr
	OpSwitch
	OpIndirectBr
	OpInvoke
	OpResume
	OpUnreachable
	OpCallBr
	OpCleanupRet
	OpCatchRet
	OpCatchSwitch

	// Unary.
	OpFNeg

	// Binary.
	binaryBegin
	OpAdd
	OpFAdd
	OpSub
	OpFSub
	OpMul
	OpFMul
	OpUDiv
	OpSDiv
	OpFDiv
	OpURem
	OpSRem
	OpFRem
	OpShl
	OpLShr
	OpAShr
	OpAnd
	OpOr
	OpXor
	binaryEnd

	// Memory.
	OpAlloca
	OpLoad
	OpStore
	OpGetElementPtr
	OpFence
	OpAtomicCmpXchg
	OpAtomicRMW

	// Casts.
	castBegin
	OpTrunc
	OpZExt
	OpSExt
	OpFPToUI
	OpFPToSI
	OpUIToFP
	OpSIToFP
	OpFPTrunc
	OpFPExt
	OpPtrToInt
	OpIntToPtr
	OpBitCast
	OpAddrSpaceCast
	castEnd

	// Other.
	OpICmp
	OpFCmp
	OpPHI
	OpCall
	OpSelect
	OpVAArg
	OpExtractElement
	OpInsertElement
	OpShuffleVector
	OpExtractValue
	OpInsertValue
	OpLandingPad
	OpFreeze
	OpCatchPad
	OpCleanupPad

	opcodeCount
)

var opcodeNames = [...]string{
	OpNone:           "",
	OpRet:            "ret",
	OpBr:             "br",
	OpSwitch:         "switch",
	OpIndirectBr:     "indirectbr",
	OpInvoke:         "invoke",
	OpResume:         "resume",
	OpUnreachable:    "unreachable",
	OpCallBr:         "callbr",
	OpCleanupRet:     "cleanupret",
	OpCatchRet:       "catchret",
	OpCatchSwitch:    "catchswitch",
	OpFNeg:           "fneg",
	OpAdd:            "add",
	OpFAdd:           "fadd",
	OpSub:            "sub",
	OpFSub:           "fsub",
	OpMul:            "mul",
	OpFMul:           "fmul",
	OpUDiv:           "udiv",
	OpSDiv:           "sdiv",
	OpFDiv:           "fdiv",
	OpURem:           "urem",
	OpSRem:           "srem",
	OpFRem:           "frem",
	OpShl:            "shl",
	OpLShr:           "lshr",
	OpAShr:           "ashr",
	OpAnd:            "and",
	OpOr:             "or",
	OpXor:            "xor",
	OpAlloca:         "alloca",
	OpLoad:           "load",
	OpStore:          "store",
	OpGetElementPtr:  "getelementptr",
	OpFence:          "fence",
	OpAtomicCmpXchg:  "cmpxchg",
	OpAtomicRMW:      "atomicrmw",
	OpTrunc:          "trunc",
	OpZExt:           "zext",
	OpSExt:           "sext",
	OpFPToUI:         "fptoui",
	OpFPToSI:         "fptosi",
	OpUIToFP:         "uitofp",
	OpSIToFP:         "sitofp",
	OpFPTrunc:        "fptrunc",
	OpFPExt:          "fpext",
	OpPtrToInt:       "ptrtoint",
	OpIntToPtr:       "inttoptr",
	OpBitCast:        "bitcast",
	OpAddrSpaceCast:  "addrspacecast",
	OpICmp:           "icmp",
	OpFCmp:           "fcmp",
	OpPHI:            "phi",
	OpCall:           "call",
	OpSelect:         "select",
	OpVAArg:          "va_arg",
	OpExtractElement: "extractelement",
	OpInsertElement:  "insertelement",
	OpShuffleVector:  "shufflevector",
	OpExtractValue:   "extractvalue",
	OpInsertValue:    "insertvalue",
	OpLandingPad:     "landingpad",
	OpFreeze:         "freeze",
	OpCatchPad:       "catchpad",
	OpCleanupPad:     "cleanuppad",
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		if name != "" {
			m[name] = Opcode(op)
		}
	}
	return m
}()

// String returns the textual IR mnemonic of the opcode.
func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	if op == OpNone {
		return "none"
	}
	return fmt.Sprintf("Opcode<%d>", op)
}

// IsBinary reports whether op is a two-operand arithmetic, bitwise or
// shift operation.
func (op Opcode) IsBinary() bool {
	return op > binaryBegin && op < binaryEnd
}

// IsCast reports whether op is a conversion instruction.
func (op Opcode) IsCast() bool {
	return op > castBegin && op < castEnd
}

// IsTerminator reports whether op ends a basic block.
func (op Opcode) IsTerminator() bool {
	return op >= OpRet && op <= OpCatchSwitch
}

// LookupOpcode maps a textual mnemonic to its opcode.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}
