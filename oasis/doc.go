// Package oasis reads and writes OASIS (SEMI P39) layout streams.
//
// # Reading
//
// Read decodes a complete stream into a layout.Library:
//
//	lib, err := oasis.Read(data)
//
// The reader follows the modal-variable model of the format: fields a
// record leaves out are taken from the previous record of the cell, and a
// field used before any record set it fails with errs.ErrModalUnset.
// Repetitions are expanded into one element per instance, except on
// placements, where regular lattices become a single layout.ArrayRef.
// RECTANGLE, POLYGON, TRAPEZOID, CTRAPEZOID and CIRCLE records all become
// layout.Boundary elements. Layer, datatype, textlayer and texttype values
// above math.MaxInt16 are clamped to it.
//
// Name references may point forward; they are resolved once the END
// record is reached. With WithLenientReferences, references that are never
// defined turn into placeholder names instead of failing the read.
//
// # Writing
//
// Write encodes a library:
//
//	data, err := oasis.Write(lib, oasis.WithCBlocks(true))
//
// The writer declares every name up front, keeps its own copy of the modal
// variables to leave out unchanged fields, and picks the most compact point
// list for each outline. Axis-aligned rectangles are written as RECTANGLE
// records, arrays as a single PLACEMENT with a repetition. Output is
// deterministic.
//
// Round ends of paths and text transforms have no OASIS form; they are
// written as half-width extensions and plain TEXT records.
package oasis
