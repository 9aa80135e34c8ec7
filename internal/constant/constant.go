// Package constant models the literal values shared by the typed core
// language and the untyped IR: machine integers, arbitrary-precision
// integers, fixed-width words, characters, strings, floats, the effect
// world token, and primitive type tags (types are themselves legal
// constants and may be matched on).
package constant

import (
	"math/big"
	"strconv"
)

// Kind enumerates literal value kinds.
type Kind uint8

const (
	// Int is the native signed integer.
	Int Kind = iota
	// BigInt is an arbitrary-precision integer.
	BigInt
	// Bits8 through Bits64 are fixed-width unsigned words.
	Bits8
	Bits16
	Bits32
	Bits64
	// Float is a 64-bit floating point value.
	Float
	// Char is a unicode code point.
	Char
	// String is a unicode string.
	String
	// World is the effect-world token threaded through effectful code.
	World
	// Type is a primitive type used as a value (a type tag).
	Type
)

// String returns a human-readable name for the constant kind.
func (k Kind) String() string {
	switch k {
	case Int:
		return "Int"
	case BigInt:
		return "BigInt"
	case Bits8:
		return "Bits8"
	case Bits16:
		return "Bits16"
	case Bits32:
		return "Bits32"
	case Bits64:
		return "Bits64"
	case Float:
		return "Float"
	case Char:
		return "Char"
	case String:
		return "String"
	case World:
		return "World"
	case Type:
		return "Type"
	default:
		return "Unknown"
	}
}

// TypeTag identifies which primitive type a Type constant denotes.
type TypeTag uint8

const (
	TagInt TypeTag = iota
	TagBigInt
	TagBits8
	TagBits16
	TagBits32
	TagBits64
	TagFloat
	TagChar
	TagString
	TagWorld
)

// String returns the tag's type name.
func (t TypeTag) String() string {
	switch t {
	case TagInt:
		return "Int"
	case TagBigInt:
		return "BigInt"
	case TagBits8:
		return "Bits8"
	case TagBits16:
		return "Bits16"
	case TagBits32:
		return "Bits32"
	case TagBits64:
		return "Bits64"
	case TagFloat:
		return "Float"
	case TagChar:
		return "Char"
	case TagString:
		return "String"
	case TagWorld:
		return "World"
	default:
		return "Unknown"
	}
}

// Value is one literal constant. Only the field selected by Kind is
// meaningful; the rest stay zero.
type Value struct {
	Kind  Kind
	Int   int64    // Int
	Word  uint64   // Bits8..Bits64
	Big   *big.Int // BigInt
	Float float64  // Float
	Char  rune     // Char
	Str   string   // String
	Tag   TypeTag  // Type
}

// IntVal returns a native integer constant.
func IntVal(v int64) Value { return Value{Kind: Int, Int: v} }

// BigVal returns an arbitrary-precision integer constant.
func BigVal(v *big.Int) Value { return Value{Kind: BigInt, Big: v} }

// BigIntVal returns an arbitrary-precision constant holding v.
func BigIntVal(v int64) Value { return Value{Kind: BigInt, Big: big.NewInt(v)} }

// BitsVal returns a fixed-width word constant of the given kind.
// kind must be one of Bits8..Bits64.
func BitsVal(kind Kind, v uint64) Value { return Value{Kind: kind, Word: v} }

// FloatVal returns a floating point constant.
func FloatVal(v float64) Value { return Value{Kind: Float, Float: v} }

// CharVal returns a character constant.
func CharVal(r rune) Value { return Value{Kind: Char, Char: r} }

// StrVal returns a string constant.
func StrVal(s string) Value { return Value{Kind: String, Str: s} }

// WorldVal returns the effect-world token.
func WorldVal() Value { return Value{Kind: World} }

// TypeVal returns a primitive type tag constant.
func TypeVal(t TypeTag) Value { return Value{Kind: Type, Tag: t} }

// Matchable reports whether a constant of this kind may appear as a
// dispatch key in a decision node. Floats and the world token have no
// decidable equality at this level and are rejected by the simplifier.
func (k Kind) Matchable() bool {
	switch k {
	case Int, BigInt, Bits8, Bits16, Bits32, Bits64, Char, String, Type:
		return true
	default:
		return false
	}
}

// String renders the value for dumps and diagnostics.
func (v Value) String() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case BigInt:
		if v.Big == nil {
			return "0"
		}
		return v.Big.String()
	case Bits8:
		return strconv.FormatUint(v.Word, 10) + "u8"
	case Bits16:
		return strconv.FormatUint(v.Word, 10) + "u16"
	case Bits32:
		return strconv.FormatUint(v.Word, 10) + "u32"
	case Bits64:
		return strconv.FormatUint(v.Word, 10) + "u64"
	case Float:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case Char:
		return strconv.QuoteRune(v.Char)
	case String:
		return strconv.Quote(v.Str)
	case World:
		return "#world"
	case Type:
		return "$" + v.Tag.String()
	default:
		return "?"
	}
}
