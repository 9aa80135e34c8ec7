// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     by snapshot loading and lowering.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – four-level enum (Info, Warning, Error, Bug) defined in
//     severity.go. Error flags malformed input; Bug flags a broken
//     internal invariant and always points at the front end or the
//     erasure analysis, never at the user's program.
//   - Code – compact numeric identifier (see codes.go) with stable string
//     form, grouped into SNP (snapshot IO), LOW (lowering), OBS
//     (observability) and ICE (internal invariant) blocks.
//   - Name – the definition being lowered, zero outside any definition.
//   - Message – human oriented text; keep it short and actionable.
//   - Detail – optional dump of the offending term or tree.
//
// Diagnostic implements error, so a phase can abort through ordinary
// error returns; callers recover the structured form with FromError.
//
// # Emitting diagnostics
//
// Per-definition workers return the Diagnostic as their error and let the
// driver collect survivors into a Bag, which supports sorting, merging
// and deduplication. Non-fatal findings flow through a Reporter instead:
// BagReporter collects, DedupReporter suppresses repeats, and
// LockedReporter makes a chain safe to share across workers.
//
// Keep the data model deterministic: any new fields must serialise
// stably, so golden tests and cached runs stay byte-for-byte comparable.
package diag
