package lower

import (
	"tarn/internal/ir"
	"tarn/internal/names"
)

// primSpec pairs the operator a primitive lowers to with the operand
// count an exactly-saturated application supplies.
type primSpec struct {
	op    ir.Op
	arity int
}

// primOps maps primitive definition names to IR operators. Only an
// exactly-saturated application lowers to the operator node; any other
// shape goes through the call builder like an ordinary function. The
// effectful string primitives thread the world token as their first
// argument.
var primOps = map[names.Name]primSpec{
	names.New("prim", "add.int"): {ir.OpAddInt, 2},
	names.New("prim", "sub.int"): {ir.OpSubInt, 2},
	names.New("prim", "mul.int"): {ir.OpMulInt, 2},
	names.New("prim", "div.int"): {ir.OpDivInt, 2},
	names.New("prim", "mod.int"): {ir.OpModInt, 2},
	names.New("prim", "neg.int"): {ir.OpNegInt, 1},
	names.New("prim", "eq.int"):  {ir.OpEqInt, 2},
	names.New("prim", "lt.int"):  {ir.OpLtInt, 2},
	names.New("prim", "le.int"):  {ir.OpLeInt, 2},
	names.New("prim", "gt.int"):  {ir.OpGtInt, 2},
	names.New("prim", "ge.int"):  {ir.OpGeInt, 2},

	names.New("prim", "add.big"): {ir.OpAddBig, 2},
	names.New("prim", "sub.big"): {ir.OpSubBig, 2},
	names.New("prim", "mul.big"): {ir.OpMulBig, 2},
	names.New("prim", "div.big"): {ir.OpDivBig, 2},
	names.New("prim", "mod.big"): {ir.OpModBig, 2},
	names.New("prim", "eq.big"):  {ir.OpEqBig, 2},
	names.New("prim", "lt.big"):  {ir.OpLtBig, 2},
	names.New("prim", "le.big"):  {ir.OpLeBig, 2},
	names.New("prim", "gt.big"):  {ir.OpGtBig, 2},
	names.New("prim", "ge.big"):  {ir.OpGeBig, 2},

	names.New("prim", "add.float"): {ir.OpAddFloat, 2},
	names.New("prim", "sub.float"): {ir.OpSubFloat, 2},
	names.New("prim", "mul.float"): {ir.OpMulFloat, 2},
	names.New("prim", "div.float"): {ir.OpDivFloat, 2},
	names.New("prim", "neg.float"): {ir.OpNegFloat, 1},
	names.New("prim", "eq.float"):  {ir.OpEqFloat, 2},
	names.New("prim", "lt.float"):  {ir.OpLtFloat, 2},
	names.New("prim", "le.float"):  {ir.OpLeFloat, 2},
	names.New("prim", "gt.float"):  {ir.OpGtFloat, 2},
	names.New("prim", "ge.float"):  {ir.OpGeFloat, 2},

	names.New("prim", "str.concat"): {ir.OpStrConcat, 2},
	names.New("prim", "str.len"):    {ir.OpStrLen, 1},
	names.New("prim", "str.eq"):     {ir.OpStrEq, 2},
	names.New("prim", "str.lt"):     {ir.OpStrLt, 2},
	names.New("prim", "str.head"):   {ir.OpStrHead, 1},
	names.New("prim", "str.tail"):   {ir.OpStrTail, 1},
	names.New("prim", "str.cons"):   {ir.OpStrCons, 2},
	names.New("prim", "str.index"):  {ir.OpStrIndex, 2},
	names.New("prim", "str.rev"):    {ir.OpStrRev, 1},
	names.New("prim", "str.substr"): {ir.OpStrSubstr, 3},

	names.New("prim", "int.str"):   {ir.OpIntStr, 1},
	names.New("prim", "str.int"):   {ir.OpStrInt, 1},
	names.New("prim", "int.big"):   {ir.OpIntBig, 1},
	names.New("prim", "big.int"):   {ir.OpBigInt, 1},
	names.New("prim", "int.float"): {ir.OpIntFloat, 1},
	names.New("prim", "float.int"): {ir.OpFloatInt, 1},
	names.New("prim", "float.str"): {ir.OpFloatStr, 1},
	names.New("prim", "str.float"): {ir.OpStrFloat, 1},
	names.New("prim", "big.str"):   {ir.OpBigStr, 1},
	names.New("prim", "str.big"):   {ir.OpStrBig, 1},
	names.New("prim", "char.int"):  {ir.OpCharInt, 1},
	names.New("prim", "int.char"):  {ir.OpIntChar, 1},

	names.New("prim", "write.str"): {ir.OpWriteStr, 2},
	names.New("prim", "read.str"):  {ir.OpReadStr, 1},
}
