package oasis

// Info-byte bits shared by the geometry records.
const (
	bitLayer      = 0x01
	bitDatatype   = 0x02
	bitRepetition = 0x04
	bitY          = 0x08
	bitX          = 0x10
)

// RECTANGLE, TRAPEZOID and CTRAPEZOID.
const (
	bitHeight = 0x20
	bitWidth  = 0x40
	bitSquare = 0x80 // RECTANGLE: height equals width
	bitVert   = 0x80 // TRAPEZOID: vertical orientation
	bitCType  = 0x80 // CTRAPEZOID: type present
)

// POLYGON, PATH and CIRCLE.
const (
	bitPoints    = 0x20
	bitRadius    = 0x20
	bitHalfWidth = 0x40
	bitExtension = 0x80
)

// TEXT.
const (
	bitTextLayer  = 0x01
	bitTextType   = 0x02
	bitTextRef    = 0x20
	bitTextString = 0x40
)

// PLACEMENT (17) and PLACEMENT with magnification (18).
const (
	bitPlaceFlip  = 0x01
	bitPlaceAngle = 0x02 // record 18
	bitPlaceMag   = 0x04 // record 18
	bitPlaceAA    = 0x06 // record 17: angle in quarter turns
	bitPlaceRep   = 0x08
	bitPlaceY     = 0x10
	bitPlaceX     = 0x20
	bitPlaceRef   = 0x40
	bitPlaceCell  = 0x80
)

// PROPERTY.
const (
	bitPropStandard = 0x01
	bitPropRef      = 0x02
	bitPropName     = 0x04
	bitPropReuse    = 0x08
	propCountShift  = 4
	propCountEscape = 0x0f
)
