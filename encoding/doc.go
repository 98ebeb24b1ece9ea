// Package encoding implements the OASIS primitive codecs.
//
// Writers append to a caller-provided byte slice and return the extended
// slice, in the style of strconv.Append* and encoding/binary.Append*.
// Readers are methods on Source, a cursor over a stack of byte buffers that
// makes inflated CBLOCK payloads transparent to the record layer.
//
// # Integers
//
// Unsigned integers are LEB128: seven data bits per byte, low group first,
// continuation in the high bit. Signed integers keep the sign in the low bit
// and the magnitude in the remaining bits:
//
//	buf = encoding.AppendSvarint(buf, -5) // 0x0b
//	v, _ := src.Svarint()                  // -5
//
// # Reals
//
// A real starts with its type: 0/1 whole numbers, 2/3 reciprocals, 4/5
// ratios, 6 float32 and 7 float64 (little-endian). AppendReal picks the
// shortest exact form.
//
// # Point lists and repetitions
//
// ChoosePointListType selects the most compact of the five point-list
// encodings; AppendPointList and Source.PointList round-trip the exact delta
// list. Repetition is a closed sum type of eight placement shapes. On the
// wire every dimension is stored minus two, and a lone zero byte stands for
// "the previous repetition", which Source.Repetition reports as reused.
package encoding
