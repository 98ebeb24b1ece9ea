package section

import (
	"github.com/arloliu/maskio/encoding"
)

// Name table indexes within Tables, in wire order.
const (
	TableCellName = iota
	TableTextString
	TablePropName
	TablePropString
	TableLayerName
	TableXName
	tableCount
)

// TableOffset locates one name table in the stream.
//
// Strict means every record of that kind lives in the table; a zero Offset
// means the table is absent.
type TableOffset struct {
	Strict bool
	Offset uint64
}

// Tables holds the six name-table offsets.
type Tables [tableCount]TableOffset

// AppendTo appends the offsets as flag/offset pairs.
func (t *Tables) AppendTo(dst []byte) []byte {
	for _, e := range t {
		var flag uint64
		if e.Strict {
			flag = 1
		}
		dst = encoding.AppendUvarint(dst, flag)
		dst = encoding.AppendUvarint(dst, e.Offset)
	}

	return dst
}

// Read reads six flag/offset pairs.
func (t *Tables) Read(src *encoding.Source) error {
	for i := range t {
		flag, err := src.Uvarint()
		if err != nil {
			return err
		}
		off, err := src.Uvarint()
		if err != nil {
			return err
		}
		t[i] = TableOffset{Strict: flag != 0, Offset: off}
	}

	return nil
}
