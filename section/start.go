package section

import (
	"fmt"

	"github.com/arloliu/maskio/encoding"
	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
)

// Version is the only OASIS version this package writes.
const Version = "1.0"

// Start is the START record.
type Start struct {
	// Version is the format version string, "1.0" in practice.
	Version string
	// Unit is the number of database units per micron.
	Unit float64
	// TablesInEnd reports whether the table offsets are stored in END
	// (offset-flag 1) rather than in START (offset-flag 0).
	TablesInEnd bool
	// Tables holds the table offsets when TablesInEnd is false.
	Tables Tables
}

// NewStart creates a START record for unit database units per micron with
// the table offsets deferred to END.
func NewStart(unit float64) *Start {
	return &Start{Version: Version, Unit: unit, TablesInEnd: true}
}

// AppendTo appends the complete START record.
func (s *Start) AppendTo(dst []byte) ([]byte, error) {
	dst = encoding.AppendUvarint(dst, uint64(format.RecordStart))

	var err error
	if dst, err = encoding.AppendAString(dst, s.Version); err != nil {
		return dst, err
	}
	dst = encoding.AppendReal(dst, s.Unit)
	if s.TablesInEnd {
		return encoding.AppendUvarint(dst, 1), nil
	}
	dst = encoding.AppendUvarint(dst, 0)

	return s.Tables.AppendTo(dst), nil
}

// Read reads the START record body; the record id has been consumed.
func (s *Start) Read(src *encoding.Source) error {
	version, err := src.AString()
	if err != nil {
		return err
	}
	unit, err := src.Real()
	if err != nil {
		return err
	}
	if unit <= 0 {
		return fmt.Errorf("%w: START unit %g is not positive", errs.ErrUnexpectedRecord, unit)
	}
	flag, err := src.Uvarint()
	if err != nil {
		return err
	}

	s.Version = version
	s.Unit = unit
	s.TablesInEnd = flag != 0
	s.Tables = Tables{}
	if s.TablesInEnd {
		return nil
	}

	return s.Tables.Read(src)
}
