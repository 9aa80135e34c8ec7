package ir

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"tarn/internal/constant"
	"tarn/internal/names"
)

// Wire layout mirrors the core package: union nodes as [kind, payload...]
// arrays, programs as name-sorted declaration lists.

var (
	_ msgpack.CustomEncoder = (*Exp)(nil)
	_ msgpack.CustomDecoder = (*Exp)(nil)
	_ msgpack.CustomEncoder = (*Alt)(nil)
	_ msgpack.CustomDecoder = (*Alt)(nil)
	_ msgpack.CustomEncoder = (*Decl)(nil)
	_ msgpack.CustomDecoder = (*Decl)(nil)
	_ msgpack.CustomEncoder = (*Program)(nil)
	_ msgpack.CustomDecoder = (*Program)(nil)
)

func encodeInt(enc *msgpack.Encoder, v int) error {
	return enc.EncodeInt(int64(v))
}

func decodeInt(dec *msgpack.Decoder) (int, error) {
	v, err := dec.DecodeInt64()
	if err != nil {
		return 0, err
	}
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, fmt.Errorf("ir: decode: integer out of range: %w", err)
	}
	return n, nil
}

func decodeName(dec *msgpack.Decoder) (names.Name, error) {
	var n names.Name
	err := dec.Decode(&n)
	return n, err
}

func encodeNameList(enc *msgpack.Encoder, list []names.Name) error {
	if err := enc.EncodeArrayLen(len(list)); err != nil {
		return err
	}
	for _, n := range list {
		if err := enc.Encode(n); err != nil {
			return err
		}
	}
	return nil
}

func decodeNameList(dec *msgpack.Decoder) ([]names.Name, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	list := make([]names.Name, n)
	for i := range list {
		if list[i], err = decodeName(dec); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func encodeExpList(enc *msgpack.Encoder, list []*Exp) error {
	if err := enc.EncodeArrayLen(len(list)); err != nil {
		return err
	}
	for _, e := range list {
		if err := e.EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeExpList(dec *msgpack.Decoder) ([]*Exp, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	list := make([]*Exp, n)
	for i := range list {
		list[i] = new(Exp)
		if err := list[i].DecodeMsgpack(dec); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func arrayHeader(enc *msgpack.Encoder, n int, kind uint8) error {
	if err := enc.EncodeArrayLen(n); err != nil {
		return err
	}
	return enc.EncodeUint8(kind)
}

func checkLen(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("ir: decode %s: array length %d, want %d", what, got, want)
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (e *Exp) EncodeMsgpack(enc *msgpack.Encoder) error {
	if e == nil {
		return fmt.Errorf("ir: encode: nil expression")
	}
	switch d := e.Data.(type) {
	case VarData:
		if err := arrayHeader(enc, 2, uint8(e.Kind)); err != nil {
			return err
		}
		return enc.Encode(d.Name)
	case AppData:
		if err := arrayHeader(enc, 3, uint8(e.Kind)); err != nil {
			return err
		}
		if err := d.Fn.EncodeMsgpack(enc); err != nil {
			return err
		}
		return encodeExpList(enc, d.Args)
	case LamData:
		if err := arrayHeader(enc, 3, uint8(e.Kind)); err != nil {
			return err
		}
		if err := encodeNameList(enc, d.Params); err != nil {
			return err
		}
		return d.Body.EncodeMsgpack(enc)
	case LetData:
		if err := arrayHeader(enc, 4, uint8(e.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Name); err != nil {
			return err
		}
		if err := d.Value.EncodeMsgpack(enc); err != nil {
			return err
		}
		return d.Body.EncodeMsgpack(enc)
	case ConData:
		if err := arrayHeader(enc, 4, uint8(e.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Con); err != nil {
			return err
		}
		if err := encodeInt(enc, d.Tag); err != nil {
			return err
		}
		return encodeExpList(enc, d.Args)
	case PrjData:
		if err := arrayHeader(enc, 3, uint8(e.Kind)); err != nil {
			return err
		}
		if err := d.Exp.EncodeMsgpack(enc); err != nil {
			return err
		}
		return encodeInt(enc, d.Field)
	case OpData:
		if err := arrayHeader(enc, 3, uint8(e.Kind)); err != nil {
			return err
		}
		if err := enc.EncodeUint(uint64(d.Op)); err != nil {
			return err
		}
		return encodeExpList(enc, d.Args)
	case ForeignData:
		if err := arrayHeader(enc, 4, uint8(e.Kind)); err != nil {
			return err
		}
		if err := enc.EncodeUint8(uint8(d.Ret)); err != nil {
			return err
		}
		if err := enc.EncodeString(d.Target); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(d.Args)); err != nil {
			return err
		}
		for _, a := range d.Args {
			if err := enc.EncodeArrayLen(2); err != nil {
				return err
			}
			if err := enc.EncodeUint8(uint8(a.Type)); err != nil {
				return err
			}
			if err := a.Exp.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case ConstData:
		if err := arrayHeader(enc, 2, uint8(e.Kind)); err != nil {
			return err
		}
		return d.Value.EncodeMsgpack(enc)
	case CaseData:
		if err := arrayHeader(enc, 3, uint8(e.Kind)); err != nil {
			return err
		}
		if err := d.Subject.EncodeMsgpack(enc); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(d.Alts)); err != nil {
			return err
		}
		for _, a := range d.Alts {
			if err := a.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case LazyData:
		if err := arrayHeader(enc, 2, uint8(e.Kind)); err != nil {
			return err
		}
		return d.Exp.EncodeMsgpack(enc)
	case ForceData:
		if err := arrayHeader(enc, 2, uint8(e.Kind)); err != nil {
			return err
		}
		return d.Exp.EncodeMsgpack(enc)
	case CrashData:
		if err := arrayHeader(enc, 2, uint8(e.Kind)); err != nil {
			return err
		}
		return enc.EncodeString(d.Message)
	case nil:
		return arrayHeader(enc, 1, uint8(e.Kind))
	default:
		return fmt.Errorf("ir: encode: unknown expression payload %T", e.Data)
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (e *Exp) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("ir: decode expression: empty array")
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	e.Kind = ExpKind(k)
	e.Data = nil
	switch e.Kind {
	case ExpVar:
		if err := checkLen("expression", n, 2); err != nil {
			return err
		}
		name, err := decodeName(dec)
		if err != nil {
			return err
		}
		e.Data = VarData{Name: name}
	case ExpApp:
		if err := checkLen("expression", n, 3); err != nil {
			return err
		}
		fn := new(Exp)
		if err := fn.DecodeMsgpack(dec); err != nil {
			return err
		}
		args, err := decodeExpList(dec)
		if err != nil {
			return err
		}
		e.Data = AppData{Fn: fn, Args: args}
	case ExpLam:
		if err := checkLen("expression", n, 3); err != nil {
			return err
		}
		params, err := decodeNameList(dec)
		if err != nil {
			return err
		}
		body := new(Exp)
		if err := body.DecodeMsgpack(dec); err != nil {
			return err
		}
		e.Data = LamData{Params: params, Body: body}
	case ExpLet:
		if err := checkLen("expression", n, 4); err != nil {
			return err
		}
		name, err := decodeName(dec)
		if err != nil {
			return err
		}
		value := new(Exp)
		if err := value.DecodeMsgpack(dec); err != nil {
			return err
		}
		body := new(Exp)
		if err := body.DecodeMsgpack(dec); err != nil {
			return err
		}
		e.Data = LetData{Name: name, Value: value, Body: body}
	case ExpCon:
		if err := checkLen("expression", n, 4); err != nil {
			return err
		}
		con, err := decodeName(dec)
		if err != nil {
			return err
		}
		tag, err := decodeInt(dec)
		if err != nil {
			return err
		}
		args, err := decodeExpList(dec)
		if err != nil {
			return err
		}
		e.Data = ConData{Con: con, Tag: tag, Args: args}
	case ExpPrj:
		if err := checkLen("expression", n, 3); err != nil {
			return err
		}
		sub := new(Exp)
		if err := sub.DecodeMsgpack(dec); err != nil {
			return err
		}
		field, err := decodeInt(dec)
		if err != nil {
			return err
		}
		e.Data = PrjData{Exp: sub, Field: field}
	case ExpOp:
		if err := checkLen("expression", n, 3); err != nil {
			return err
		}
		raw, err := dec.DecodeUint64()
		if err != nil {
			return err
		}
		op, err := safecast.Conv[uint16](raw)
		if err != nil {
			return fmt.Errorf("ir: decode: operator out of range: %w", err)
		}
		args, err := decodeExpList(dec)
		if err != nil {
			return err
		}
		e.Data = OpData{Op: Op(op), Args: args}
	case ExpForeign:
		if err := checkLen("expression", n, 4); err != nil {
			return err
		}
		ret, err := dec.DecodeUint8()
		if err != nil {
			return err
		}
		target, err := dec.DecodeString()
		if err != nil {
			return err
		}
		cnt, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		var args []ForeignArg
		for i := 0; i < cnt; i++ {
			pair, err := dec.DecodeArrayLen()
			if err != nil {
				return err
			}
			if pair != 2 {
				return fmt.Errorf("ir: decode foreign argument: array length %d, want 2", pair)
			}
			ft, err := dec.DecodeUint8()
			if err != nil {
				return err
			}
			arg := new(Exp)
			if err := arg.DecodeMsgpack(dec); err != nil {
				return err
			}
			args = append(args, ForeignArg{Type: FType(ft), Exp: arg})
		}
		e.Data = ForeignData{Ret: FType(ret), Target: target, Args: args}
	case ExpConst:
		if err := checkLen("expression", n, 2); err != nil {
			return err
		}
		var v constant.Value
		if err := v.DecodeMsgpack(dec); err != nil {
			return err
		}
		e.Data = ConstData{Value: v}
	case ExpCase:
		if err := checkLen("expression", n, 3); err != nil {
			return err
		}
		subject := new(Exp)
		if err := subject.DecodeMsgpack(dec); err != nil {
			return err
		}
		cnt, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		alts := make([]*Alt, cnt)
		for i := range alts {
			alts[i] = new(Alt)
			if err := alts[i].DecodeMsgpack(dec); err != nil {
				return err
			}
		}
		e.Data = CaseData{Subject: subject, Alts: alts}
	case ExpLazy, ExpForce:
		if err := checkLen("expression", n, 2); err != nil {
			return err
		}
		sub := new(Exp)
		if err := sub.DecodeMsgpack(dec); err != nil {
			return err
		}
		if e.Kind == ExpLazy {
			e.Data = LazyData{Exp: sub}
		} else {
			e.Data = ForceData{Exp: sub}
		}
	case ExpErased:
		if err := checkLen("expression", n, 1); err != nil {
			return err
		}
	case ExpCrash:
		if err := checkLen("expression", n, 2); err != nil {
			return err
		}
		msg, err := dec.DecodeString()
		if err != nil {
			return err
		}
		e.Data = CrashData{Message: msg}
	default:
		return fmt.Errorf("ir: decode expression: unknown kind %d", k)
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (a *Alt) EncodeMsgpack(enc *msgpack.Encoder) error {
	if a == nil {
		return fmt.Errorf("ir: encode: nil alternative")
	}
	switch d := a.Data.(type) {
	case ConAltData:
		if err := arrayHeader(enc, 5, uint8(a.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Con); err != nil {
			return err
		}
		if err := encodeInt(enc, d.Tag); err != nil {
			return err
		}
		if err := encodeNameList(enc, d.Binders); err != nil {
			return err
		}
		return d.Body.EncodeMsgpack(enc)
	case ConstAltData:
		if err := arrayHeader(enc, 3, uint8(a.Kind)); err != nil {
			return err
		}
		if err := d.Value.EncodeMsgpack(enc); err != nil {
			return err
		}
		return d.Body.EncodeMsgpack(enc)
	case DefaultAltData:
		if err := arrayHeader(enc, 2, uint8(a.Kind)); err != nil {
			return err
		}
		return d.Body.EncodeMsgpack(enc)
	default:
		return fmt.Errorf("ir: encode: unknown alternative payload %T", a.Data)
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (a *Alt) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("ir: decode alternative: empty array")
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	a.Kind = AltKind(k)
	a.Data = nil
	switch a.Kind {
	case AltCon:
		if err := checkLen("alternative", n, 5); err != nil {
			return err
		}
		con, err := decodeName(dec)
		if err != nil {
			return err
		}
		tag, err := decodeInt(dec)
		if err != nil {
			return err
		}
		binders, err := decodeNameList(dec)
		if err != nil {
			return err
		}
		body := new(Exp)
		if err := body.DecodeMsgpack(dec); err != nil {
			return err
		}
		a.Data = ConAltData{Con: con, Tag: tag, Binders: binders, Body: body}
	case AltConst:
		if err := checkLen("alternative", n, 3); err != nil {
			return err
		}
		var v constant.Value
		if err := v.DecodeMsgpack(dec); err != nil {
			return err
		}
		body := new(Exp)
		if err := body.DecodeMsgpack(dec); err != nil {
			return err
		}
		a.Data = ConstAltData{Value: v, Body: body}
	case AltDefault:
		if err := checkLen("alternative", n, 2); err != nil {
			return err
		}
		body := new(Exp)
		if err := body.DecodeMsgpack(dec); err != nil {
			return err
		}
		a.Data = DefaultAltData{Body: body}
	default:
		return fmt.Errorf("ir: decode alternative: unknown kind %d", k)
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (d *Decl) EncodeMsgpack(enc *msgpack.Encoder) error {
	if d == nil {
		return fmt.Errorf("ir: encode: nil declaration")
	}
	switch data := d.Data.(type) {
	case FunDecl:
		if err := arrayHeader(enc, 4, uint8(d.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Name); err != nil {
			return err
		}
		if err := encodeNameList(enc, data.Params); err != nil {
			return err
		}
		return data.Body.EncodeMsgpack(enc)
	case ConDecl:
		if err := arrayHeader(enc, 4, uint8(d.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Name); err != nil {
			return err
		}
		if err := encodeInt(enc, data.Tag); err != nil {
			return err
		}
		return encodeInt(enc, data.Arity)
	default:
		return fmt.Errorf("ir: encode: unknown declaration payload %T", d.Data)
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *Decl) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if err := checkLen("declaration", n, 4); err != nil {
		return err
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	d.Kind = DeclKind(k)
	d.Data = nil
	if d.Name, err = decodeName(dec); err != nil {
		return err
	}
	switch d.Kind {
	case DeclFun:
		params, err := decodeNameList(dec)
		if err != nil {
			return err
		}
		body := new(Exp)
		if err := body.DecodeMsgpack(dec); err != nil {
			return err
		}
		d.Data = FunDecl{Params: params, Body: body}
	case DeclCon:
		tag, err := decodeInt(dec)
		if err != nil {
			return err
		}
		arity, err := decodeInt(dec)
		if err != nil {
			return err
		}
		d.Data = ConDecl{Tag: tag, Arity: arity}
	default:
		return fmt.Errorf("ir: decode declaration: unknown kind %d", k)
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder. Declarations are
// written name-sorted.
func (p *Program) EncodeMsgpack(enc *msgpack.Encoder) error {
	order := p.Names()
	if err := enc.EncodeArrayLen(len(order)); err != nil {
		return err
	}
	for _, n := range order {
		if err := p.Decls[n].EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (p *Program) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	p.Decls = make(map[names.Name]*Decl, n)
	for i := 0; i < n; i++ {
		decl := new(Decl)
		if err := decl.DecodeMsgpack(dec); err != nil {
			return err
		}
		p.Decls[decl.Name] = decl
	}
	return nil
}
