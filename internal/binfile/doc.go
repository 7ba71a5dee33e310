// Package binfile implements the on-disk simulation archive format.
//
// An archive is a fixed-size header followed by a sequence of fixed-stride,
// self-contained checkpoint records ("blobs"). Record 0 holds the initial
// state at t=0; the writer appends one record each time the producing
// integration crosses an output interval boundary.
//
// The format is append-only on the write side and strictly read-only on the
// read side. Every record carries a CRC32 of its payload so that truncation
// and corruption are detected at load time rather than surfacing as silently
// wrong particle coordinates.
package binfile
