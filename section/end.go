package section

import (
	"fmt"

	"github.com/arloliu/maskio/encoding"
	"github.com/arloliu/maskio/endian"
	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
)

// EndRecordSize is the fixed size of the END record.
const EndRecordSize = 256

// Validation schemes.
const (
	ValidationNone     = 0
	ValidationCRC32    = 1
	ValidationChecksum = 2
)

// End is the END record. Signatures are carried but never verified.
type End struct {
	Tables     Tables
	Validation uint64
	Signature  uint32
}

// AppendTo appends the complete END record, padded to EndRecordSize bytes.
// withTables must match Start.TablesInEnd.
//
// Only ValidationNone is written.
func (e *End) AppendTo(dst []byte, withTables bool) []byte {
	var body []byte
	if withTables {
		body = e.Tables.AppendTo(body)
	}
	tail := encoding.AppendUvarint(nil, ValidationNone)

	dst = encoding.AppendUvarint(dst, uint64(format.RecordEnd))
	dst = append(dst, body...)
	dst = encoding.AppendBString(dst, make([]byte, paddingLen(len(body)+len(tail))))

	return append(dst, tail...)
}

// paddingLen returns the padding length that brings a record with fixed
// bytes of table and validation data closest to EndRecordSize without
// exceeding it.
func paddingLen(fixed int) int {
	rem := EndRecordSize - 1 - fixed // minus the record id
	for n := rem - 1; n >= 0; n-- {
		if n+encoding.UvarintLen(uint64(n)) <= rem {
			return n
		}
	}

	return 0
}

// Read reads the END record body; the record id has been consumed.
// withTables must match Start.TablesInEnd.
func (e *End) Read(src *encoding.Source, withTables bool) error {
	if withTables {
		if err := e.Tables.Read(src); err != nil {
			return err
		}
	}
	if _, err := src.BString(); err != nil {
		return err
	}

	scheme, err := src.Uvarint()
	if err != nil {
		return err
	}
	e.Validation = scheme

	switch scheme {
	case ValidationNone:
		return nil
	case ValidationCRC32, ValidationChecksum:
		b, err := src.Next(4)
		if err != nil {
			return err
		}
		e.Signature = endian.GetLittleEndianEngine().Uint32(b)

		return nil
	default:
		return fmt.Errorf("%w: %d", errs.ErrInvalidChecksum, scheme)
	}
}
