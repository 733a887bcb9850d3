package ir

import (
	"strings"

	"fortio.org/safecast"
)

// knownIntrinsics lists the intrinsic base names that get their own id.
// Overloaded intrinsics carry type suffixes (llvm.smax.i32) and resolve to
// the longest known prefix. The order is the id order; append only.
var knownIntrinsics = []string{
	"llvm.abs",
	"llvm.assume",
	"llvm.bitreverse",
	"llvm.bswap",
	"llvm.ceil",
	"llvm.copysign",
	"llvm.cos",
	"llvm.ctlz",
	"llvm.ctpop",
	"llvm.cttz",
	"llvm.dbg.assign",
	"llvm.dbg.declare",
	"llvm.dbg.label",
	"llvm.dbg.value",
	"llvm.debugtrap",
	"llvm.exp",
	"llvm.expect",
	"llvm.fabs",
	"llvm.floor",
	"llvm.fma",
	"llvm.fmuladd",
	"llvm.fshl",
	"llvm.fshr",
	"llvm.lifetime.end",
	"llvm.lifetime.start",
	"llvm.log",
	"llvm.masked.load",
	"llvm.masked.store",
	"llvm.maximum",
	"llvm.maxnum",
	"llvm.memcpy",
	"llvm.memmove",
	"llvm.memset",
	"llvm.minimum",
	"llvm.minnum",
	"llvm.objectsize",
	"llvm.pow",
	"llvm.prefetch",
	"llvm.round",
	"llvm.sadd.sat",
	"llvm.sadd.with.overflow",
	"llvm.sin",
	"llvm.smax",
	"llvm.smin",
	"llvm.smul.with.overflow",
	"llvm.sqrt",
	"llvm.ssub.sat",
	"llvm.ssub.with.overflow",
	"llvm.stackrestore",
	"llvm.stacksave",
	"llvm.trap",
	"llvm.trunc",
	"llvm.uadd.sat",
	"llvm.uadd.with.overflow",
	"llvm.umax",
	"llvm.umin",
	"llvm.umul.with.overflow",
	"llvm.usub.sat",
	"llvm.usub.with.overflow",
	"llvm.va_copy",
	"llvm.va_end",
	"llvm.va_start",
	"llvm.vector.reduce.add",
	"llvm.vector.reduce.and",
	"llvm.vector.reduce.fadd",
	"llvm.vector.reduce.fmul",
	"llvm.vector.reduce.mul",
	"llvm.vector.reduce.or",
	"llvm.vector.reduce.smax",
	"llvm.vector.reduce.smin",
	"llvm.vector.reduce.umax",
	"llvm.vector.reduce.umin",
	"llvm.vector.reduce.xor",
}

// OtherIntrinsicID is shared by every llvm.* name outside knownIntrinsics.
var OtherIntrinsicID = safecast.MustConv[uint32](len(knownIntrinsics) + 1)

var intrinsicIDs = func() map[string]uint32 {
	ids := make(map[string]uint32, len(knownIntrinsics))
	for i, base := range knownIntrinsics {
		ids[base] = safecast.MustConv[uint32](i + 1)
	}
	return ids
}()

// LookupIntrinsicID returns a non-zero id for every llvm.* name and 0 for
// everything else. Known base names have a distinct id.
func LookupIntrinsicID(name string) uint32 {
	if !strings.HasPrefix(name, "llvm.") {
		return 0
	}
	for base := name; base != "llvm"; {
		if id, ok := intrinsicIDs[base]; ok {
			return id
		}
		dot := strings.LastIndexByte(base, '.')
		if dot < 0 {
			break
		}
		base = base[:dot]
	}
	return OtherIntrinsicID
}
