package diag

import (
	"fmt"
)

type Code uint16

const (
	// Fallback for diagnostics without a specific code.
	UnknownCode Code = 0

	// Snapshot IO
	SnapInfo           Code = 1000
	SnapBadMagic       Code = 1001
	SnapSchemaMismatch Code = 1002
	SnapCorrupt        Code = 1003

	// Lowering: the front end handed over something malformed.
	LowInfo         Code = 2000
	LowForeignArity Code = 2001
	LowForeignArgs  Code = 2002
	LowForeignPair  Code = 2003
	LowConstMatch   Code = 2004
	LowForeignAny   Code = 2005

	// Observability payloads carried through the diagnostic stream.
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Internal invariants. These point at a front-end or analysis bug,
	// never at the user's program.
	IceInfo           Code = 9000
	IceMissingUsage   Code = 9001
	IceDeBruijn       Code = 9002
	IceDetagOverlap   Code = 9003
	IceMalformedFun   Code = 9004
	IceOverAppliedCon Code = 9005
	IceUnknownKind    Code = 9006
	IceEmptyCase      Code = 9007
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	SnapInfo:           "Snapshot information",
	SnapBadMagic:       "Not a snapshot file",
	SnapSchemaMismatch: "Snapshot schema version mismatch",
	SnapCorrupt:        "Snapshot is corrupt",

	LowInfo:         "Lowering information",
	LowForeignArity: "Foreign call is missing its descriptor arguments",
	LowForeignArgs:  "Foreign argument list is not a literal list",
	LowForeignPair:  "Foreign argument entry is not a descriptor pair",
	LowConstMatch:   "Constant pattern cannot be matched at run time",
	LowForeignAny:   "Foreign type descriptor is not recognized",

	ObsInfo:    "Observability information",
	ObsTimings: "Pipeline timings",

	IceInfo:           "Internal diagnostic information",
	IceMissingUsage:   "Constructor has no usage record",
	IceDeBruijn:       "Variable index escapes its binding depth",
	IceDetagOverlap:   "Tag-free constructor in a multi-way dispatch",
	IceMalformedFun:   "Function body has fewer binders than its declared arity",
	IceOverAppliedCon: "Constructor applied beyond its declared arity",
	IceUnknownKind:    "Definition kind is not lowerable",
	IceEmptyCase:      "Dispatch carries no alternatives",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SNP%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("ICE%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
