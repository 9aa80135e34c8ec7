package core

import "tarn/internal/names"

// Head markers the lowering engine recognizes before ordinary dispatch.
// The front end emits them with a reserved "%" sigil so user code can
// never collide with them.
var (
	// MarkForeign heads a foreign-call construction:
	// %foreignCall(ret, target, argPairs [, world]).
	MarkForeign = names.Local("%foreignCall")
	// MarkRunUnsafe strips an unsafe effect-run wrapper.
	MarkRunUnsafe = names.Local("%runUnsafe")
	// MarkAssertTotal and MarkAssertSmaller are totality/size assertions,
	// identity on their final argument.
	MarkAssertTotal   = names.Local("%assertTotal")
	MarkAssertSmaller = names.Local("%assertSmaller")
	// MarkDelay and MarkForce are the laziness pair. Both occur in a
	// legacy single-argument form and a current two-argument form whose
	// first argument is the type. MarkDelay doubles as the lazy value's
	// wrapper constructor inside case-trees.
	MarkDelay = names.Local("%delay")
	MarkForce = names.Local("%force")
	// MarkPar is the parallelism hint.
	MarkPar = names.Local("%par")
	// MarkIfThenElse is the boolean-elimination fast path:
	// %ifThenElse(ty, cond, delayedThen, delayedElse).
	MarkIfThenElse = names.Local("%ifThenElse")
	// MarkAlloc and MarkTraceAlloc are allocation markers, lowered to
	// their final argument.
	MarkAlloc      = names.Local("%alloc")
	MarkTraceAlloc = names.Local("%traceAlloc")
)

// Boolean constructors targeted by the %ifThenElse rewrite.
var (
	FalseName = names.New("Prelude.Bool", "False")
	TrueName  = names.New("Prelude.Bool", "True")
)

// Tags of the boolean constructors.
const (
	FalseTag = 0
	TrueTag  = 1
)

// Constructors of the list/pair encoding used by foreign argument lists.
// Type arguments may precede the payload arguments; the mapper reads the
// trailing two.
var (
	ListNil  = names.New("Prelude.List", "Nil")
	ListCons = names.New("Prelude.List", "Cons")
	PairCon  = names.New("Prelude.Pair", "MkPair")
)

// Foreign descriptor heads. Shapes follow the FFI descriptor type:
// leaf descriptors stand alone, %C_IntT wraps an integer width, %C_FnT
// wraps a function spine of %C_Fn steps terminated by %C_FnBase or an
// effectful %C_FnIO step.
var (
	FCStr     = names.Local("%C_Str")
	FCFloat   = names.Local("%C_Float")
	FCPtr     = names.Local("%C_Ptr")
	FCMPtr    = names.Local("%C_MPtr")
	FCCData   = names.Local("%C_CData")
	FCUnit    = names.Local("%C_Unit")
	FCAny     = names.Local("%C_Any")
	FCIntT    = names.Local("%C_IntT")
	FCIntNat  = names.Local("%C_IntNative")
	FCIntB8   = names.Local("%C_IntBits8")
	FCIntB16  = names.Local("%C_IntBits16")
	FCIntB32  = names.Local("%C_IntBits32")
	FCIntB64  = names.Local("%C_IntBits64")
	FCIntChar = names.Local("%C_IntChar")
	FCIntBig  = names.Local("%C_IntBig")
	FCFnT     = names.Local("%C_FnT")
	FCFn      = names.Local("%C_Fn")
	FCFnIO    = names.Local("%C_FnIO")
	FCFnBase  = names.Local("%C_FnBase")
)
