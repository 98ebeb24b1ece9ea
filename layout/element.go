package layout

// ElementKind identifies the concrete type of an Element.
type ElementKind uint8

const (
	KindBoundary ElementKind = iota
	KindPath
	KindText
	KindCellRef
	KindArrayRef
)

func (k ElementKind) String() string {
	switch k {
	case KindBoundary:
		return "Boundary"
	case KindPath:
		return "Path"
	case KindText:
		return "Text"
	case KindCellRef:
		return "CellRef"
	case KindArrayRef:
		return "ArrayRef"
	default:
		return "Unknown"
	}
}

// Element is one geometric item of a cell.
//
// The set of implementations is closed: *Boundary, *Path, *Text, *CellRef
// and *ArrayRef.
type Element interface {
	Kind() ElementKind
	// Props returns the properties attached to the element.
	Props() []Property
	// AddProperty attaches p to the element.
	AddProperty(p Property)

	isElement()
}

// Boundary is a closed polygon; the last point repeats the first.
type Boundary struct {
	Layer    int16
	Datatype int16
	Points   []Point
	Properties
}

// PathType is the end-cap style of a path.
type PathType uint8

const (
	PathFlush           PathType = iota // ends flush with the end points
	PathHalfWidthExtend                 // ends extended by half the width
	PathRound                           // round ends
	PathCustomExtension                 // explicit begin and end extensions
)

func (p PathType) String() string {
	switch p {
	case PathFlush:
		return "Flush"
	case PathHalfWidthExtend:
		return "HalfWidthExtend"
	case PathRound:
		return "Round"
	case PathCustomExtension:
		return "CustomExtension"
	default:
		return "Unknown"
	}
}

// Path is a polyline of constant width.
//
// BeginExtension and EndExtension are only meaningful for
// PathCustomExtension.
type Path struct {
	Layer          int16
	Datatype       int16
	PathType       PathType
	Width          int32
	BeginExtension int32
	EndExtension   int32
	Points         []Point
	Properties
}

// Text is a text label anchored at Position.
type Text struct {
	Layer     int16
	TextType  int16
	Transform Transform
	Position  Point
	String    string
	Properties
}

// CellRef places one instance of the cell called CellName at Origin.
type CellRef struct {
	CellName  string
	Origin    Point
	Transform Transform
	Properties
}

// ArrayRef places a Columns×Rows lattice of instances.
//
// ReferencePoints holds the origin, the origin displaced by Columns column
// steps, and the origin displaced by Rows row steps.
type ArrayRef struct {
	CellName        string
	Transform       Transform
	Columns         int
	Rows            int
	ReferencePoints [3]Point
	Properties
}

// Steps returns the displacement between adjacent columns and adjacent rows.
func (a *ArrayRef) Steps() (col, row Point) {
	origin := a.ReferencePoints[0]
	if a.Columns > 0 {
		d := a.ReferencePoints[1].Sub(origin)
		col = Point{X: d.X / int32(a.Columns), Y: d.Y / int32(a.Columns)} //nolint: gosec
	}
	if a.Rows > 0 {
		d := a.ReferencePoints[2].Sub(origin)
		row = Point{X: d.X / int32(a.Rows), Y: d.Y / int32(a.Rows)} //nolint: gosec
	}

	return col, row
}

func (*Boundary) Kind() ElementKind { return KindBoundary }
func (*Path) Kind() ElementKind     { return KindPath }
func (*Text) Kind() ElementKind     { return KindText }
func (*CellRef) Kind() ElementKind  { return KindCellRef }
func (*ArrayRef) Kind() ElementKind { return KindArrayRef }

func (*Boundary) isElement() {}
func (*Path) isElement()     {}
func (*Text) isElement()     {}
func (*CellRef) isElement()  {}
func (*ArrayRef) isElement() {}

// Box returns the closed five-point outline of the w×h rectangle whose
// lower-left corner is (x, y), counter-clockwise from that corner.
func Box(x, y, w, h int32) []Point {
	return []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}
}

// Close returns pts with the first point appended when the outline is not
// already closed.
func Close(pts []Point) []Point {
	if len(pts) == 0 || pts[0] == pts[len(pts)-1] {
		return pts
	}

	return append(pts, pts[0])
}

// Open returns pts without the closing duplicate of the first point.
func Open(pts []Point) []Point {
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		return pts[:len(pts)-1]
	}

	return pts
}

// Box reports whether b is an axis-aligned rectangle and returns its
// lower-left corner and size.
func (b *Boundary) Box() (x, y, w, h int32, ok bool) {
	pts := Open(b.Points)
	if len(pts) != 4 {
		return 0, 0, 0, 0, false
	}

	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	if minX == maxX || minY == maxY {
		return 0, 0, 0, 0, false
	}

	// Each corner must appear once and consecutive corners share an axis.
	seen := 0
	for i, p := range pts {
		if (p.X != minX && p.X != maxX) || (p.Y != minY && p.Y != maxY) {
			return 0, 0, 0, 0, false
		}
		bit := 0
		if p.X == maxX {
			bit |= 1
		}
		if p.Y == maxY {
			bit |= 2
		}
		seen |= 1 << bit

		next := pts[(i+1)%len(pts)]
		if p.X != next.X && p.Y != next.Y {
			return 0, 0, 0, 0, false
		}
	}
	if seen != 0xf {
		return 0, 0, 0, 0, false
	}

	return minX, minY, maxX - minX, maxY - minY, true
}
