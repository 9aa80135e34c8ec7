package core

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"tarn/internal/constant"
	"tarn/internal/names"
)

// Wire layout: every union node is an array [kind, payload...]. The
// payload order matches the struct field order of the Data payloads, so
// the codecs below stay mechanical. Programs serialize as name-sorted
// definition lists, giving byte-stable snapshots for identical inputs.

var (
	_ msgpack.CustomEncoder = (*Term)(nil)
	_ msgpack.CustomDecoder = (*Term)(nil)
	_ msgpack.CustomEncoder = (*Tree)(nil)
	_ msgpack.CustomDecoder = (*Tree)(nil)
	_ msgpack.CustomEncoder = (*Alt)(nil)
	_ msgpack.CustomDecoder = (*Alt)(nil)
	_ msgpack.CustomEncoder = (*Def)(nil)
	_ msgpack.CustomDecoder = (*Def)(nil)
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
		return 0, fmt.Errorf("core: decode: integer out of range: %w", err)
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

func decodeConst(dec *msgpack.Decoder) (constant.Value, error) {
	var v constant.Value
	err := v.DecodeMsgpack(dec)
	return v, err
}

func arrayHeader(enc *msgpack.Encoder, n int, kind uint8) error {
	if err := enc.EncodeArrayLen(n); err != nil {
		return err
	}
	return enc.EncodeUint8(kind)
}

func checkLen(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("core: decode %s: array length %d, want %d", what, got, want)
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (t *Term) EncodeMsgpack(enc *msgpack.Encoder) error {
	if t == nil {
		return fmt.Errorf("core: encode: nil term")
	}
	switch d := t.Data.(type) {
	case LocalData:
		if err := arrayHeader(enc, 2, uint8(t.Kind)); err != nil {
			return err
		}
		return encodeInt(enc, d.Index)
	case RefData:
		if err := arrayHeader(enc, 2, uint8(t.Kind)); err != nil {
			return err
		}
		return enc.Encode(d.Name)
	case AppData:
		if err := arrayHeader(enc, 3, uint8(t.Kind)); err != nil {
			return err
		}
		if err := d.Fn.EncodeMsgpack(enc); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(d.Args)); err != nil {
			return err
		}
		for _, a := range d.Args {
			if err := a.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case LamData:
		if err := arrayHeader(enc, 3, uint8(t.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Binder); err != nil {
			return err
		}
		return d.Body.EncodeMsgpack(enc)
	case PiData:
		if err := arrayHeader(enc, 3, uint8(t.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Binder); err != nil {
			return err
		}
		return d.Body.EncodeMsgpack(enc)
	case LetData:
		if err := arrayHeader(enc, 4, uint8(t.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Binder); err != nil {
			return err
		}
		if err := d.Value.EncodeMsgpack(enc); err != nil {
			return err
		}
		return d.Body.EncodeMsgpack(enc)
	case PrjData:
		if err := arrayHeader(enc, 3, uint8(t.Kind)); err != nil {
			return err
		}
		if err := d.Value.EncodeMsgpack(enc); err != nil {
			return err
		}
		return encodeInt(enc, d.Field)
	case ConstData:
		if err := arrayHeader(enc, 2, uint8(t.Kind)); err != nil {
			return err
		}
		return d.Value.EncodeMsgpack(enc)
	case nil:
		return arrayHeader(enc, 1, uint8(t.Kind))
	default:
		return fmt.Errorf("core: encode: unknown term payload %T", t.Data)
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (t *Term) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("core: decode term: empty array")
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	t.Kind = TermKind(k)
	t.Data = nil
	switch t.Kind {
	case TermLocal:
		if err := checkLen("term", n, 2); err != nil {
			return err
		}
		idx, err := decodeInt(dec)
		if err != nil {
			return err
		}
		t.Data = LocalData{Index: idx}
	case TermRef:
		if err := checkLen("term", n, 2); err != nil {
			return err
		}
		name, err := decodeName(dec)
		if err != nil {
			return err
		}
		t.Data = RefData{Name: name}
	case TermApp:
		if err := checkLen("term", n, 3); err != nil {
			return err
		}
		fn := new(Term)
		if err := fn.DecodeMsgpack(dec); err != nil {
			return err
		}
		cnt, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		args := make([]*Term, cnt)
		for i := range args {
			args[i] = new(Term)
			if err := args[i].DecodeMsgpack(dec); err != nil {
				return err
			}
		}
		t.Data = AppData{Fn: fn, Args: args}
	case TermLam, TermPi:
		if err := checkLen("term", n, 3); err != nil {
			return err
		}
		binder, err := decodeName(dec)
		if err != nil {
			return err
		}
		body := new(Term)
		if err := body.DecodeMsgpack(dec); err != nil {
			return err
		}
		if t.Kind == TermLam {
			t.Data = LamData{Binder: binder, Body: body}
		} else {
			t.Data = PiData{Binder: binder, Body: body}
		}
	case TermLet:
		if err := checkLen("term", n, 4); err != nil {
			return err
		}
		binder, err := decodeName(dec)
		if err != nil {
			return err
		}
		value := new(Term)
		if err := value.DecodeMsgpack(dec); err != nil {
			return err
		}
		body := new(Term)
		if err := body.DecodeMsgpack(dec); err != nil {
			return err
		}
		t.Data = LetData{Binder: binder, Value: value, Body: body}
	case TermPrj:
		if err := checkLen("term", n, 3); err != nil {
			return err
		}
		value := new(Term)
		if err := value.DecodeMsgpack(dec); err != nil {
			return err
		}
		field, err := decodeInt(dec)
		if err != nil {
			return err
		}
		t.Data = PrjData{Value: value, Field: field}
	case TermConst:
		if err := checkLen("term", n, 2); err != nil {
			return err
		}
		v, err := decodeConst(dec)
		if err != nil {
			return err
		}
		t.Data = ConstData{Value: v}
	case TermErased, TermImpossible, TermUniverse:
		if err := checkLen("term", n, 1); err != nil {
			return err
		}
	default:
		return fmt.Errorf("core: decode term: unknown kind %d", k)
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (t *Tree) EncodeMsgpack(enc *msgpack.Encoder) error {
	if t == nil {
		return fmt.Errorf("core: encode: nil tree")
	}
	switch d := t.Data.(type) {
	case TerminalData:
		if err := arrayHeader(enc, 2, uint8(t.Kind)); err != nil {
			return err
		}
		return d.Term.EncodeMsgpack(enc)
	case UnmatchedData:
		if err := arrayHeader(enc, 2, uint8(t.Kind)); err != nil {
			return err
		}
		return enc.EncodeString(d.Message)
	case CaseData:
		if err := arrayHeader(enc, 3, uint8(t.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Subject); err != nil {
			return err
		}
		return encodeAlts(enc, d.Alts)
	case ProjData:
		if err := arrayHeader(enc, 3, uint8(t.Kind)); err != nil {
			return err
		}
		if err := d.Subject.EncodeMsgpack(enc); err != nil {
			return err
		}
		return encodeAlts(enc, d.Alts)
	default:
		return fmt.Errorf("core: encode: unknown tree payload %T", t.Data)
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (t *Tree) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("core: decode tree: empty array")
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	t.Kind = TreeKind(k)
	t.Data = nil
	switch t.Kind {
	case TreeTerminal:
		if err := checkLen("tree", n, 2); err != nil {
			return err
		}
		term := new(Term)
		if err := term.DecodeMsgpack(dec); err != nil {
			return err
		}
		t.Data = TerminalData{Term: term}
	case TreeUnmatched:
		if err := checkLen("tree", n, 2); err != nil {
			return err
		}
		msg, err := dec.DecodeString()
		if err != nil {
			return err
		}
		t.Data = UnmatchedData{Message: msg}
	case TreeCase:
		if err := checkLen("tree", n, 3); err != nil {
			return err
		}
		subject, err := decodeName(dec)
		if err != nil {
			return err
		}
		alts, err := decodeAlts(dec)
		if err != nil {
			return err
		}
		t.Data = CaseData{Subject: subject, Alts: alts}
	case TreeProj:
		if err := checkLen("tree", n, 3); err != nil {
			return err
		}
		subject := new(Term)
		if err := subject.DecodeMsgpack(dec); err != nil {
			return err
		}
		alts, err := decodeAlts(dec)
		if err != nil {
			return err
		}
		t.Data = ProjData{Subject: subject, Alts: alts}
	default:
		return fmt.Errorf("core: decode tree: unknown kind %d", k)
	}
	return nil
}

func encodeAlts(enc *msgpack.Encoder, alts []*Alt) error {
	if err := enc.EncodeArrayLen(len(alts)); err != nil {
		return err
	}
	for _, a := range alts {
		if err := a.EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeAlts(dec *msgpack.Decoder) ([]*Alt, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	alts := make([]*Alt, n)
	for i := range alts {
		alts[i] = new(Alt)
		if err := alts[i].DecodeMsgpack(dec); err != nil {
			return nil, err
		}
	}
	return alts, nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (a *Alt) EncodeMsgpack(enc *msgpack.Encoder) error {
	if a == nil {
		return fmt.Errorf("core: encode: nil alternative")
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
		return d.Sub.EncodeMsgpack(enc)
	case ConstAltData:
		if err := arrayHeader(enc, 3, uint8(a.Kind)); err != nil {
			return err
		}
		if err := d.Value.EncodeMsgpack(enc); err != nil {
			return err
		}
		return d.Sub.EncodeMsgpack(enc)
	case SucAltData:
		if err := arrayHeader(enc, 3, uint8(a.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Binder); err != nil {
			return err
		}
		return d.Sub.EncodeMsgpack(enc)
	case DefaultAltData:
		if err := arrayHeader(enc, 2, uint8(a.Kind)); err != nil {
			return err
		}
		return d.Sub.EncodeMsgpack(enc)
	default:
		return fmt.Errorf("core: encode: unknown alternative payload %T", a.Data)
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (a *Alt) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("core: decode alternative: empty array")
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
		sub := new(Tree)
		if err := sub.DecodeMsgpack(dec); err != nil {
			return err
		}
		a.Data = ConAltData{Con: con, Tag: tag, Binders: binders, Sub: sub}
	case AltConst:
		if err := checkLen("alternative", n, 3); err != nil {
			return err
		}
		v, err := decodeConst(dec)
		if err != nil {
			return err
		}
		sub := new(Tree)
		if err := sub.DecodeMsgpack(dec); err != nil {
			return err
		}
		a.Data = ConstAltData{Value: v, Sub: sub}
	case AltSuc:
		if err := checkLen("alternative", n, 3); err != nil {
			return err
		}
		binder, err := decodeName(dec)
		if err != nil {
			return err
		}
		sub := new(Tree)
		if err := sub.DecodeMsgpack(dec); err != nil {
			return err
		}
		a.Data = SucAltData{Binder: binder, Sub: sub}
	case AltDefault:
		if err := checkLen("alternative", n, 2); err != nil {
			return err
		}
		sub := new(Tree)
		if err := sub.DecodeMsgpack(dec); err != nil {
			return err
		}
		a.Data = DefaultAltData{Sub: sub}
	default:
		return fmt.Errorf("core: decode alternative: unknown kind %d", k)
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (d *Def) EncodeMsgpack(enc *msgpack.Encoder) error {
	if d == nil {
		return fmt.Errorf("core: encode: nil definition")
	}
	switch data := d.Data.(type) {
	case FunData:
		if err := arrayHeader(enc, 4, uint8(d.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Name); err != nil {
			return err
		}
		if err := encodeInt(enc, data.Arity); err != nil {
			return err
		}
		return data.Body.EncodeMsgpack(enc)
	case MatchData:
		if err := arrayHeader(enc, 4, uint8(d.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Name); err != nil {
			return err
		}
		if err := encodeNameList(enc, data.Args); err != nil {
			return err
		}
		return data.Tree.EncodeMsgpack(enc)
	case ConData:
		if err := arrayHeader(enc, 7, uint8(d.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Name); err != nil {
			return err
		}
		if err := encodeInt(enc, data.Tag); err != nil {
			return err
		}
		if err := encodeInt(enc, data.Arity); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(data.FieldArity)); err != nil {
			return err
		}
		for _, fa := range data.FieldArity {
			if err := encodeInt(enc, fa); err != nil {
				return err
			}
		}
		if err := enc.EncodeBool(data.Instance); err != nil {
			return err
		}
		return enc.Encode(data.Class)
	case TypeConData:
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
	case PostulateData:
		if err := arrayHeader(enc, 3, uint8(d.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Name); err != nil {
			return err
		}
		return encodeInt(enc, data.Arity)
	case PrimData:
		if err := arrayHeader(enc, 3, uint8(d.Kind)); err != nil {
			return err
		}
		if err := enc.Encode(d.Name); err != nil {
			return err
		}
		return encodeInt(enc, data.Arity)
	default:
		return fmt.Errorf("core: encode: unknown definition payload %T", d.Data)
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *Def) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 2 {
		return fmt.Errorf("core: decode definition: array length %d", n)
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	d.Kind = DefKind(k)
	d.Data = nil
	if d.Name, err = decodeName(dec); err != nil {
		return err
	}
	switch d.Kind {
	case DefFun:
		if err := checkLen("definition", n, 4); err != nil {
			return err
		}
		arity, err := decodeInt(dec)
		if err != nil {
			return err
		}
		body := new(Term)
		if err := body.DecodeMsgpack(dec); err != nil {
			return err
		}
		d.Data = FunData{Arity: arity, Body: body}
	case DefMatch:
		if err := checkLen("definition", n, 4); err != nil {
			return err
		}
		args, err := decodeNameList(dec)
		if err != nil {
			return err
		}
		tree := new(Tree)
		if err := tree.DecodeMsgpack(dec); err != nil {
			return err
		}
		d.Data = MatchData{Args: args, Tree: tree}
	case DefCon:
		if err := checkLen("definition", n, 7); err != nil {
			return err
		}
		tag, err := decodeInt(dec)
		if err != nil {
			return err
		}
		arity, err := decodeInt(dec)
		if err != nil {
			return err
		}
		cnt, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		var fieldArity []int
		if cnt > 0 {
			fieldArity = make([]int, cnt)
			for i := range fieldArity {
				if fieldArity[i], err = decodeInt(dec); err != nil {
					return err
				}
			}
		}
		instance, err := dec.DecodeBool()
		if err != nil {
			return err
		}
		class, err := decodeName(dec)
		if err != nil {
			return err
		}
		d.Data = ConData{Tag: tag, Arity: arity, FieldArity: fieldArity, Instance: instance, Class: class}
	case DefTypeCon:
		if err := checkLen("definition", n, 4); err != nil {
			return err
		}
		tag, err := decodeInt(dec)
		if err != nil {
			return err
		}
		arity, err := decodeInt(dec)
		if err != nil {
			return err
		}
		d.Data = TypeConData{Tag: tag, Arity: arity}
	case DefPostulate:
		if err := checkLen("definition", n, 3); err != nil {
			return err
		}
		arity, err := decodeInt(dec)
		if err != nil {
			return err
		}
		d.Data = PostulateData{Arity: arity}
	case DefPrim:
		if err := checkLen("definition", n, 3); err != nil {
			return err
		}
		arity, err := decodeInt(dec)
		if err != nil {
			return err
		}
		d.Data = PrimData{Arity: arity}
	default:
		return fmt.Errorf("core: decode definition: unknown kind %d", k)
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder. Definitions are written
// name-sorted.
func (p *Program) EncodeMsgpack(enc *msgpack.Encoder) error {
	order := p.Names()
	if err := enc.EncodeArrayLen(len(order)); err != nil {
		return err
	}
	for _, n := range order {
		if err := p.Defs[n].EncodeMsgpack(enc); err != nil {
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
	p.Defs = make(map[names.Name]*Def, n)
	for i := 0; i < n; i++ {
		def := new(Def)
		if err := def.DecodeMsgpack(dec); err != nil {
			return err
		}
		p.Defs[def.Name] = def
	}
	return nil
}
