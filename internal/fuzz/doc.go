// Package fuzztests houses Go fuzz harnesses that exercise the snapshot
// boundary (bytes -> envelope -> program). Its goal is to smoke test
// robustness on arbitrary, truncated, or mislabeled inputs: a snapshot
// the loader does not understand must always come back as an error,
// never as a panic.
package fuzztests
