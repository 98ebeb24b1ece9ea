package format

import "strconv"

type (
	RecordType        uint8
	PointListType     uint8
	RepetitionType    uint8
	RealType          uint8
	PropertyValueType uint8
	CompressionType   uint8
	Container         uint8
)

// OASIS record types.
const (
	RecordPad             RecordType = 0
	RecordStart           RecordType = 1
	RecordEnd             RecordType = 2
	RecordCellName        RecordType = 3
	RecordCellNameRef     RecordType = 4
	RecordTextString      RecordType = 5
	RecordTextStringRef   RecordType = 6
	RecordPropName        RecordType = 7
	RecordPropNameRef     RecordType = 8
	RecordPropString      RecordType = 9
	RecordPropStringRef   RecordType = 10
	RecordLayerName       RecordType = 11
	RecordLayerNameText   RecordType = 12
	RecordCellRef         RecordType = 13
	RecordCell            RecordType = 14
	RecordXYAbsolute      RecordType = 15
	RecordXYRelative      RecordType = 16
	RecordPlacement       RecordType = 17
	RecordPlacementX      RecordType = 18 // PLACEMENT with magnification and arbitrary angle
	RecordText            RecordType = 19
	RecordRectangle       RecordType = 20
	RecordPolygon         RecordType = 21
	RecordPath            RecordType = 22
	RecordTrapezoid       RecordType = 23
	RecordTrapezoidA      RecordType = 24
	RecordTrapezoidB      RecordType = 25
	RecordCTrapezoid      RecordType = 26
	RecordCircle          RecordType = 27
	RecordProperty        RecordType = 28
	RecordPropertyRepeat  RecordType = 29
	RecordXName           RecordType = 30
	RecordXNameRef        RecordType = 31
	RecordXElement        RecordType = 32
	RecordXGeometry       RecordType = 33
	RecordCBlock          RecordType = 34
	recordTypeCount                  = 35
)

var recordNames = [recordTypeCount]string{
	"PAD", "START", "END", "CELLNAME", "CELLNAME-REF", "TEXTSTRING", "TEXTSTRING-REF",
	"PROPNAME", "PROPNAME-REF", "PROPSTRING", "PROPSTRING-REF", "LAYERNAME", "LAYERNAME-TEXT",
	"CELL-REF", "CELL", "XYABSOLUTE", "XYRELATIVE", "PLACEMENT", "PLACEMENT-X", "TEXT",
	"RECTANGLE", "POLYGON", "PATH", "TRAPEZOID", "TRAPEZOID-A", "TRAPEZOID-B", "CTRAPEZOID",
	"CIRCLE", "PROPERTY", "PROPERTY-REPEAT", "XNAME", "XNAME-REF", "XELEMENT", "XGEOMETRY", "CBLOCK",
}

// Valid reports whether r is one of the 35 defined record types.
func (r RecordType) Valid() bool {
	return r < recordTypeCount
}

// IsNameRecord reports whether r declares an entry in one of the name tables.
func (r RecordType) IsNameRecord() bool {
	return r >= RecordCellName && r <= RecordLayerNameText
}

// IsCellBoundary reports whether r terminates the body of the current cell.
func (r RecordType) IsCellBoundary() bool {
	return r.IsNameRecord() || r == RecordCell || r == RecordCellRef || r == RecordEnd ||
		r == RecordXName || r == RecordXNameRef
}

func (r RecordType) String() string {
	if r.Valid() {
		return recordNames[r]
	}

	return "RECORD(" + strconv.Itoa(int(r)) + ")"
}

// Point-list types.
const (
	PointListManhattanH PointListType = 0 // alternating, horizontal first
	PointListManhattanV PointListType = 1 // alternating, vertical first
	PointListManhattan  PointListType = 2 // 2-delta, any Manhattan direction
	PointListOctangular PointListType = 3 // 3-delta, Manhattan or 45 degrees
	PointListGeneral    PointListType = 4 // g-delta pairs
	PointListDouble     PointListType = 5 // g-delta pairs relative to the previous delta
)

func (p PointListType) String() string {
	switch p {
	case PointListManhattanH:
		return "ManhattanH"
	case PointListManhattanV:
		return "ManhattanV"
	case PointListManhattan:
		return "Manhattan"
	case PointListOctangular:
		return "Octangular"
	case PointListGeneral:
		return "General"
	case PointListDouble:
		return "Double"
	default:
		return "Unknown"
	}
}

// Repetition types. Type 0 on the wire means "reuse the previous repetition".
const (
	RepetitionReuse            RepetitionType = 0
	RepetitionGrid             RepetitionType = 1
	RepetitionRow              RepetitionType = 2
	RepetitionColumn           RepetitionType = 3
	RepetitionVariableRow      RepetitionType = 4
	RepetitionVariableRowGrid  RepetitionType = 5
	RepetitionVariableCol      RepetitionType = 6
	RepetitionVariableColGrid  RepetitionType = 7
	RepetitionArbitraryGrid    RepetitionType = 8
	RepetitionDisplacementRow  RepetitionType = 9
	RepetitionDisplacements    RepetitionType = 10
	RepetitionDisplacementGrid RepetitionType = 11
)

func (r RepetitionType) String() string {
	switch r {
	case RepetitionReuse:
		return "Reuse"
	case RepetitionGrid:
		return "Grid"
	case RepetitionRow:
		return "Row"
	case RepetitionColumn:
		return "Column"
	case RepetitionVariableRow, RepetitionVariableRowGrid:
		return "VariableRow"
	case RepetitionVariableCol, RepetitionVariableColGrid:
		return "VariableColumn"
	case RepetitionArbitraryGrid:
		return "ArbitraryGrid"
	case RepetitionDisplacementRow:
		return "DisplacementRow"
	case RepetitionDisplacements, RepetitionDisplacementGrid:
		return "Displacements"
	default:
		return "Unknown"
	}
}

// Real number types.
const (
	RealPositiveInteger    RealType = 0
	RealNegativeInteger    RealType = 1
	RealPositiveReciprocal RealType = 2
	RealNegativeReciprocal RealType = 3
	RealPositiveRatio      RealType = 4
	RealNegativeRatio      RealType = 5
	RealFloat32            RealType = 6
	RealFloat64            RealType = 7
)

// Property value wire types. Codes 0..7 are reals and share the real type
// numbering.
const (
	PropUnsigned     PropertyValueType = 8
	PropSigned       PropertyValueType = 9
	PropAString      PropertyValueType = 10
	PropBString      PropertyValueType = 11
	PropNString      PropertyValueType = 12
	PropAStringRef   PropertyValueType = 13
	PropBStringRef   PropertyValueType = 14
	PropNStringRef   PropertyValueType = 15
	propertyTypeLast                   = PropNStringRef
)

// Valid reports whether p is a defined property value type.
func (p PropertyValueType) Valid() bool {
	return p <= propertyTypeLast
}

// IsReal reports whether p is one of the eight real encodings.
func (p PropertyValueType) IsReal() bool {
	return p <= PropertyValueType(RealFloat64)
}

// CBLOCK compression types.
const (
	CompressionDeflate CompressionType = 0
)

func (c CompressionType) String() string {
	if c == CompressionDeflate {
		return "Deflate"
	}

	return "Unknown"
}

// Whole-file container formats used when reading or writing layout files.
const (
	ContainerNone Container = 0x0
	ContainerGzip Container = 0x1
	ContainerZstd Container = 0x2
	ContainerS2   Container = 0x3
	ContainerLZ4  Container = 0x4
)

func (c Container) String() string {
	switch c {
	case ContainerNone:
		return "None"
	case ContainerGzip:
		return "Gzip"
	case ContainerZstd:
		return "Zstd"
	case ContainerS2:
		return "S2"
	case ContainerLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
