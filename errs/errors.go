// Package errs defines the sentinel errors shared by the maskio codecs.
//
// Decoders wrap these sentinels with fmt.Errorf("%w: ...") for context and,
// where a byte position is known, in an *OffsetError. Callers should test
// for a specific failure with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

// Stream-level errors.
var (
	ErrInvalidMagic     = errors.New("invalid magic header")
	ErrUnexpectedEOF    = errors.New("unexpected end of data")
	ErrUnknownRecord    = errors.New("unknown record type")
	ErrUnexpectedRecord = errors.New("unexpected record")
	ErrDecompress       = errors.New("decompression failed")
	ErrVarintOverflow   = errors.New("varint overflows 64 bits")
	ErrInvalidChecksum  = errors.New("invalid validation scheme")
	ErrModalUnset       = errors.New("modal variable used before being set")
)

// Field-level errors.
var (
	ErrUnknownRealType       = errors.New("unknown real number type")
	ErrInvalidAString        = errors.New("invalid a-string content")
	ErrInvalidNString        = errors.New("invalid n-string content")
	ErrInvalidPointListType  = errors.New("invalid point-list type")
	ErrInvalidRepetitionType = errors.New("invalid repetition type")
	ErrInvalidDelta          = errors.New("invalid delta")
	ErrInvalidPropertyType   = errors.New("invalid property value type")
	ErrInvalidCTrapezoid     = errors.New("invalid ctrapezoid type")
	ErrInvalidInterval       = errors.New("invalid interval type")
	ErrUnknownReference      = errors.New("unknown name reference")
)

// Writer and container errors.
var (
	ErrUnsupportedElement   = errors.New("unsupported element")
	ErrInvalidRepetition    = errors.New("invalid repetition")
	ErrInvalidContainer     = errors.New("invalid container format")
	ErrUnsupportedContainer = errors.New("unsupported container format")
)

// GDSII specific errors.
var (
	ErrInvalidGDSRecord = errors.New("invalid gdsii record")
)

// OffsetError attaches the byte offset at which decoding failed.
//
// Depth is zero for the file stream itself; inside a CBLOCK it is the
// nesting depth and Offset is relative to the start of the inflated data.
type OffsetError struct {
	Offset int64
	Depth  int
	Err    error
}

// At wraps err with an offset unless it already carries one.
func At(offset int64, depth int, err error) error {
	if err == nil {
		return nil
	}

	var oe *OffsetError
	if errors.As(err, &oe) {
		return err
	}

	return &OffsetError{Offset: offset, Depth: depth, Err: err}
}

func (e *OffsetError) Error() string {
	if e.Depth > 0 {
		return fmt.Sprintf("offset %d (cblock depth %d): %v", e.Offset, e.Depth, e.Err)
	}

	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *OffsetError) Unwrap() error {
	return e.Err
}
