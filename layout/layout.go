// Package layout is the format-neutral representation of a mask layout
// shared by the maskio codecs.
//
// A Library owns Cells; a Cell owns an ordered list of Elements. Coordinates
// are integer database units (dbu); Units converts them to microns.
package layout

// DefaultDBUPerMicron is the resolution used when a library does not state one.
const DefaultDBUPerMicron = 1000

// Point is a position in database units.
type Point struct {
	X, Y int32
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Transform is the placement transform of a text or cell instance: an
// optional reflection about the x axis, then magnification, then a
// counter-clockwise rotation by Angle degrees.
type Transform struct {
	MirrorX       bool
	Magnification float64
	Angle         float64
}

// Identity returns the transform that leaves geometry unchanged.
func Identity() Transform {
	return Transform{Magnification: 1}
}

// Scale returns the effective magnification; the zero value means 1.
func (t Transform) Scale() float64 {
	if t.Magnification == 0 {
		return 1
	}

	return t.Magnification
}

// IsIdentity reports whether t neither mirrors, scales nor rotates.
func (t Transform) IsIdentity() bool {
	return !t.MirrorX && t.Scale() == 1 && t.Angle == 0
}

// Units relates database units to physical size.
type Units struct {
	DBUPerMicron float64
}

// DefaultUnits returns units of DefaultDBUPerMicron.
func DefaultUnits() Units {
	return Units{DBUPerMicron: DefaultDBUPerMicron}
}

// MicronsPerDBU returns the size of one database unit in microns.
func (u Units) MicronsPerDBU() float64 {
	if u.DBUPerMicron == 0 {
		return 1.0 / DefaultDBUPerMicron
	}

	return 1 / u.DBUPerMicron
}

// Cell is a named, reusable block of geometry.
type Cell struct {
	Name     string
	Elements []Element
	Properties
}

// NewCell creates an empty cell.
func NewCell(name string) *Cell {
	return &Cell{Name: name}
}

// Add appends elements to the cell.
func (c *Cell) Add(elems ...Element) {
	c.Elements = append(c.Elements, elems...)
}

// Count returns the number of elements of the given kind.
func (c *Cell) Count(kind ElementKind) int {
	n := 0
	for _, e := range c.Elements {
		if e.Kind() == kind {
			n++
		}
	}

	return n
}

// Library is a complete layout: units, cells and library-level properties.
type Library struct {
	Name  string
	Units Units
	Cells []*Cell
	Properties
}

// NewLibrary creates an empty library with default units.
func NewLibrary(name string) *Library {
	return &Library{Name: name, Units: DefaultUnits()}
}

// AddCell appends a new empty cell and returns it.
func (l *Library) AddCell(name string) *Cell {
	c := NewCell(name)
	l.Cells = append(l.Cells, c)

	return c
}

// Cell returns the first cell called name, or nil.
func (l *Library) Cell(name string) *Cell {
	for _, c := range l.Cells {
		if c.Name == name {
			return c
		}
	}

	return nil
}
