package ir

// Op enumerates the primitive operators backends must provide. The
// lowering engine emits them for exactly-saturated primitive calls, for
// the successor-branch decrement, and for the parallelism hint.
type Op uint16

const (
	OpAddInt Op = iota
	OpSubInt
	OpMulInt
	OpDivInt
	OpModInt
	OpNegInt
	OpEqInt
	OpLtInt
	OpLeInt
	OpGtInt
	OpGeInt

	OpAddBig
	OpSubBig
	OpMulBig
	OpDivBig
	OpModBig
	OpEqBig
	OpLtBig
	OpLeBig
	OpGtBig
	OpGeBig

	OpAddFloat
	OpSubFloat
	OpMulFloat
	OpDivFloat
	OpNegFloat
	OpEqFloat
	OpLtFloat
	OpLeFloat
	OpGtFloat
	OpGeFloat

	OpStrConcat
	OpStrLen
	OpStrEq
	OpStrLt
	OpStrHead
	OpStrTail
	OpStrCons
	OpStrIndex
	OpStrRev
	OpStrSubstr

	OpIntStr
	OpStrInt
	OpIntBig
	OpBigInt
	OpIntFloat
	OpFloatInt
	OpFloatStr
	OpStrFloat
	OpBigStr
	OpStrBig
	OpCharInt
	OpIntChar

	OpWriteStr
	OpReadStr

	// OpPar hints that its single lazily-wrapped argument may be
	// evaluated in parallel.
	OpPar
)

var opNames = [...]string{
	OpAddInt: "add.int",
	OpSubInt: "sub.int",
	OpMulInt: "mul.int",
	OpDivInt: "div.int",
	OpModInt: "mod.int",
	OpNegInt: "neg.int",
	OpEqInt:  "eq.int",
	OpLtInt:  "lt.int",
	OpLeInt:  "le.int",
	OpGtInt:  "gt.int",
	OpGeInt:  "ge.int",

	OpAddBig: "add.big",
	OpSubBig: "sub.big",
	OpMulBig: "mul.big",
	OpDivBig: "div.big",
	OpModBig: "mod.big",
	OpEqBig:  "eq.big",
	OpLtBig:  "lt.big",
	OpLeBig:  "le.big",
	OpGtBig:  "gt.big",
	OpGeBig:  "ge.big",

	OpAddFloat: "add.float",
	OpSubFloat: "sub.float",
	OpMulFloat: "mul.float",
	OpDivFloat: "div.float",
	OpNegFloat: "neg.float",
	OpEqFloat:  "eq.float",
	OpLtFloat:  "lt.float",
	OpLeFloat:  "le.float",
	OpGtFloat:  "gt.float",
	OpGeFloat:  "ge.float",

	OpStrConcat: "str.concat",
	OpStrLen:    "str.len",
	OpStrEq:     "str.eq",
	OpStrLt:     "str.lt",
	OpStrHead:   "str.head",
	OpStrTail:   "str.tail",
	OpStrCons:   "str.cons",
	OpStrIndex:  "str.index",
	OpStrRev:    "str.rev",
	OpStrSubstr: "str.substr",

	OpIntStr:   "int.str",
	OpStrInt:   "str.int",
	OpIntBig:   "int.big",
	OpBigInt:   "big.int",
	OpIntFloat: "int.float",
	OpFloatInt: "float.int",
	OpFloatStr: "float.str",
	OpStrFloat: "str.float",
	OpBigStr:   "big.str",
	OpStrBig:   "str.big",
	OpCharInt:  "char.int",
	OpIntChar:  "int.char",

	OpWriteStr: "write.str",
	OpReadStr:  "read.str",

	OpPar: "par",
}

// String returns the operator's dump name.
func (o Op) String() string {
	if int(o) < len(opNames) && opNames[o] != "" {
		return opNames[o]
	}
	return "op?"
}
