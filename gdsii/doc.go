// Package gdsii reads and writes GDSII stream files.
//
// GDSII is the older sibling of OASIS: a flat sequence of big-endian
// records, each a two-byte length, a record type and a data type followed
// by the payload. The package maps streams to and from the same
// layout.Library model the oasis package uses, so a library read from one
// format can be written in the other.
//
// Supported elements are BOUNDARY, BOX (read as a boundary), PATH, TEXT,
// SREF and AREF, with STRANS/MAG/ANGLE transforms and PROPATTR/PROPVALUE
// properties. NODE elements are skipped.
//
// Properties travel only when their name is a GDSII attribute number
// (1..127) and their first value is a string; other properties are left
// out on write.
package gdsii
