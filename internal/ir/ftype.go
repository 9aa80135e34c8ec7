package ir

// FType is the closed set of foreign types a foreign call can mention.
// The mapper in the lowering engine translates descriptor terms into
// these; unrecognized but well-formed descriptors become FAny.
type FType uint8

const (
	// FAny is the generic fallback: passed through untranslated.
	FAny FType = iota
	FInt
	FBits8
	FBits16
	FBits32
	FBits64
	FBigInt
	FChar
	FFloat
	FString
	// FPtr is a raw foreign pointer, FMPtr one managed by the runtime.
	FPtr
	FMPtr
	// FCData is opaque foreign data.
	FCData
	FUnit
	// FFun is a pure foreign function, FFunIO an effectful one.
	FFun
	FFunIO
)

// String returns the dump name of the foreign type.
func (t FType) String() string {
	switch t {
	case FAny:
		return "any"
	case FInt:
		return "int"
	case FBits8:
		return "bits8"
	case FBits16:
		return "bits16"
	case FBits32:
		return "bits32"
	case FBits64:
		return "bits64"
	case FBigInt:
		return "big"
	case FChar:
		return "char"
	case FFloat:
		return "float"
	case FString:
		return "string"
	case FPtr:
		return "ptr"
	case FMPtr:
		return "mptr"
	case FCData:
		return "cdata"
	case FUnit:
		return "unit"
	case FFun:
		return "fun"
	case FFunIO:
		return "fun.io"
	default:
		return "ftype?"
	}
}
