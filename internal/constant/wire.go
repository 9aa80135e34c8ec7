package constant

import (
	"fmt"
	"math/big"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

// EncodeMsgpack writes the value as [kind, payload]. Big integers travel
// as decimal strings; the world token has no payload.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	n := 2
	if v.Kind == World {
		n = 1
	}
	if err := enc.EncodeArrayLen(n); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(v.Kind)); err != nil {
		return err
	}
	switch v.Kind {
	case Int:
		return enc.EncodeInt(v.Int)
	case BigInt:
		if v.Big == nil {
			return enc.EncodeString("0")
		}
		return enc.EncodeString(v.Big.String())
	case Bits8, Bits16, Bits32, Bits64:
		return enc.EncodeUint(v.Word)
	case Float:
		return enc.EncodeFloat64(v.Float)
	case Char:
		return enc.EncodeInt(int64(v.Char))
	case String:
		return enc.EncodeString(v.Str)
	case World:
		return nil
	case Type:
		return enc.EncodeUint8(uint8(v.Tag))
	default:
		return fmt.Errorf("constant: encode: unknown kind %d", v.Kind)
	}
}

// DecodeMsgpack reads the form written by EncodeMsgpack.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("constant: decode: empty value")
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	*v = Value{Kind: Kind(k)}
	switch v.Kind {
	case Int:
		v.Int, err = dec.DecodeInt64()
		return err
	case BigInt:
		s, err := dec.DecodeString()
		if err != nil {
			return err
		}
		b, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("constant: decode: bad big integer %q", s)
		}
		v.Big = b
		return nil
	case Bits8, Bits16, Bits32, Bits64:
		v.Word, err = dec.DecodeUint64()
		return err
	case Float:
		v.Float, err = dec.DecodeFloat64()
		return err
	case Char:
		c, err := dec.DecodeInt64()
		if err != nil {
			return err
		}
		r, err := safecast.Conv[int32](c)
		if err != nil {
			return fmt.Errorf("constant: decode: char out of range: %w", err)
		}
		v.Char = r
		return nil
	case String:
		v.Str, err = dec.DecodeString()
		return err
	case World:
		return nil
	case Type:
		t, err := dec.DecodeUint8()
		if err != nil {
			return err
		}
		v.Tag = TypeTag(t)
		return nil
	default:
		return fmt.Errorf("constant: decode: unknown kind %d", k)
	}
}
