// Package mtx reads and writes the plain-text Matrix Market coordinate
// exchange format: a format declaration line, % comments, a dimensions
// line and one 1-based entry per line.
//
// The reader tolerates the quirks of real-world files the same way the
// rest of the ecosystem does: malformed entry lines are skipped, pattern
// matrices imply a value of 1.0, and symmetric declarations mirror every
// off-diagonal entry on ingestion. Mirrored entries do not count toward
// the declared nonzero total that drives the read loop.
package mtx
