package oasis

import (
	"math"

	"github.com/arloliu/maskio/encoding"
	"github.com/arloliu/maskio/format"
	"github.com/arloliu/maskio/layout"
)

// circleSegments is the number of edges of the polygon a CIRCLE becomes.
const circleSegments = 64

func (r *Reader) readRectangle() error {
	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}
	layer, datatype, err := r.layerDatatype(info)
	if err != nil {
		return err
	}
	if err := r.uvarintModal(info&bitWidth != 0, &r.modal.width); err != nil {
		return err
	}
	if err := r.uvarintModal(info&bitHeight != 0, &r.modal.height); err != nil {
		return err
	}
	w := r.modal.width.get("geometry-w")
	if info&bitSquare != 0 {
		r.modal.height.set(w)
	}
	h := r.modal.height.get("geometry-h")

	if err := r.xy(info, bitX, bitY, &r.modal.geometryX, &r.modal.geometryY); err != nil {
		return err
	}
	rep, err := r.repetition(info&bitRepetition != 0)
	if err != nil {
		return err
	}

	x, y := r.modal.geometryX, r.modal.geometryY
	r.emit(rep, func(d encoding.Delta) layout.Element {
		return &layout.Boundary{
			Layer:    layer,
			Datatype: datatype,
			Points:   layout.Box(i32(x+d.X), i32(y+d.Y), i32(int64(w)), i32(int64(h))), //nolint: gosec
		}
	})

	return nil
}

func (r *Reader) readPolygon() error {
	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}
	layer, datatype, err := r.layerDatatype(info)
	if err != nil {
		return err
	}
	if info&bitPoints != 0 {
		typ, deltas, err := r.src.PointList()
		if err != nil {
			return err
		}
		r.modal.polygonPoints.set(polygonVertices(typ, deltas))
	}
	verts := r.modal.polygonPoints.get("polygon-point-list")

	if err := r.xy(info, bitX, bitY, &r.modal.geometryX, &r.modal.geometryY); err != nil {
		return err
	}
	rep, err := r.repetition(info&bitRepetition != 0)
	if err != nil {
		return err
	}

	x, y := r.modal.geometryX, r.modal.geometryY
	r.emit(rep, func(d encoding.Delta) layout.Element {
		return &layout.Boundary{
			Layer:    layer,
			Datatype: datatype,
			Points:   layout.Close(absolute(verts, x+d.X, y+d.Y)),
		}
	})

	return nil
}

// polygonVertices turns a POLYGON point list into vertex offsets from the
// first vertex. Alternating lists (types 0 and 1) leave out the vertex
// before the closing edge; it is restored here so that both closing edges
// stay axis-parallel.
func polygonVertices(typ format.PointListType, deltas []encoding.Delta) []encoding.Delta {
	verts := pathVertices(deltas)
	if len(deltas) == 0 || (typ != format.PointListManhattanH && typ != format.PointListManhattanV) {
		return verts
	}

	last := verts[len(verts)-1]
	lastHorizontal := (typ == format.PointListManhattanH) == ((len(deltas)-1)%2 == 0)
	if lastHorizontal {
		return append(verts, encoding.Delta{X: last.X})
	}

	return append(verts, encoding.Delta{Y: last.Y})
}

// pathVertices accumulates deltas into offsets from the first vertex.
func pathVertices(deltas []encoding.Delta) []encoding.Delta {
	verts := make([]encoding.Delta, 1, len(deltas)+2)
	var cur encoding.Delta
	for _, d := range deltas {
		cur = cur.Add(d)
		verts = append(verts, cur)
	}

	return verts
}

func absolute(verts []encoding.Delta, x, y int64) []layout.Point {
	pts := make([]layout.Point, len(verts), len(verts)+1)
	for i, v := range verts {
		pts[i] = point(x+v.X, y+v.Y)
	}

	return pts
}

func (r *Reader) readPath() error {
	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}
	layer, datatype, err := r.layerDatatype(info)
	if err != nil {
		return err
	}
	if err := r.uvarintModal(info&bitHalfWidth != 0, &r.modal.halfWidth); err != nil {
		return err
	}
	hw := r.modal.halfWidth.get("path-halfwidth")

	if info&bitExtension != 0 {
		scheme, err := r.src.Uvarint()
		if err != nil {
			return err
		}
		if err := r.extension(scheme>>2&3, hw, &r.modal.startExt); err != nil {
			return err
		}
		if err := r.extension(scheme&3, hw, &r.modal.endExt); err != nil {
			return err
		}
	}
	begin := r.modal.startExt.get("path-start-extension")
	end := r.modal.endExt.get("path-end-extension")

	if info&bitPoints != 0 {
		_, deltas, err := r.src.PointList()
		if err != nil {
			return err
		}
		r.modal.pathPoints.set(pathVertices(deltas))
	}
	verts := r.modal.pathPoints.get("path-point-list")

	if err := r.xy(info, bitX, bitY, &r.modal.geometryX, &r.modal.geometryY); err != nil {
		return err
	}
	rep, err := r.repetition(info&bitRepetition != 0)
	if err != nil {
		return err
	}

	pathType, beginExt, endExt := pathStyle(begin, end)
	x, y := r.modal.geometryX, r.modal.geometryY
	r.emit(rep, func(d encoding.Delta) layout.Element {
		return &layout.Path{
			Layer:          layer,
			Datatype:       datatype,
			PathType:       pathType,
			Width:          i32(int64(hw) * 2), //nolint: gosec
			BeginExtension: beginExt,
			EndExtension:   endExt,
			Points:         absolute(verts, x+d.X, y+d.Y),
		}
	})

	return nil
}

// extension applies one two-bit extension scheme to the modal variable o.
func (r *Reader) extension(scheme uint64, hw uint64, o *opt[pathExt]) error {
	switch scheme {
	case extReuse:
	case extFlush:
		o.set(pathExt{scheme: extFlush})
	case extHalfWidth:
		o.set(pathExt{scheme: extHalfWidth, value: int64(hw)}) //nolint: gosec
	case extExplicit:
		v, err := r.src.Svarint()
		if err != nil {
			return err
		}
		o.set(pathExt{scheme: extExplicit, value: v})
	}

	return nil
}

// pathStyle maps the two end extensions onto a path type. Mixed or explicit
// extensions become PathCustomExtension with the lengths spelled out.
func pathStyle(begin, end pathExt) (layout.PathType, int32, int32) {
	switch {
	case begin.scheme == extFlush && end.scheme == extFlush:
		return layout.PathFlush, 0, 0
	case begin.scheme == extHalfWidth && end.scheme == extHalfWidth:
		return layout.PathHalfWidthExtend, 0, 0
	default:
		return layout.PathCustomExtension, i32(begin.value), i32(end.value)
	}
}

func (r *Reader) readText() error {
	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}

	if info&bitTextString != 0 {
		var ref nameRef
		if info&bitTextRef != 0 {
			if ref.ref, err = r.src.Uvarint(); err != nil {
				return err
			}
			ref.byRef = true
		} else if ref.name, err = r.src.AString(); err != nil {
			return err
		}
		r.modal.textString.set(ref)
	}
	str := r.modal.textString.get("text-string")

	if err := r.uvarintModal(info&bitTextLayer != 0, &r.modal.textLayer); err != nil {
		return err
	}
	if err := r.uvarintModal(info&bitTextType != 0, &r.modal.textType); err != nil {
		return err
	}
	layer := layerNumber(r.modal.textLayer.get("textlayer"))
	textType := layerNumber(r.modal.textType.get("texttype"))

	if err := r.xy(info, bitX, bitY, &r.modal.textX, &r.modal.textY); err != nil {
		return err
	}
	rep, err := r.repetition(info&bitRepetition != 0)
	if err != nil {
		return err
	}

	x, y := r.modal.textX, r.modal.textY
	r.emit(rep, func(d encoding.Delta) layout.Element {
		t := &layout.Text{
			Layer:     layer,
			TextType:  textType,
			Transform: layout.Identity(),
			Position:  point(x+d.X, y+d.Y),
		}
		r.resolve(&r.textStrings, str, func(s string, _ bool) { t.String = s })

		return t
	})

	return nil
}

func (r *Reader) readPlacement(withMag bool) error {
	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}

	if info&bitPlaceCell != 0 {
		var ref nameRef
		if info&bitPlaceRef != 0 {
			if ref.ref, err = r.src.Uvarint(); err != nil {
				return err
			}
			ref.byRef = true
		} else if ref.name, err = r.src.NString(); err != nil {
			return err
		}
		r.modal.placementCell.set(ref)
	}
	cell := r.modal.placementCell.get("placement-cell")

	tr := layout.Transform{MirrorX: info&bitPlaceFlip != 0, Magnification: 1}
	if withMag {
		if info&bitPlaceMag != 0 {
			if tr.Magnification, err = r.src.Real(); err != nil {
				return err
			}
		}
		if info&bitPlaceAngle != 0 {
			if tr.Angle, err = r.src.Real(); err != nil {
				return err
			}
		}
	} else {
		tr.Angle = float64(info&bitPlaceAA>>1) * 90
	}

	if err := r.xy(info, bitPlaceX, bitPlaceY, &r.modal.placementX, &r.modal.placementY); err != nil {
		return err
	}
	rep, err := r.repetition(info&bitPlaceRep != 0)
	if err != nil {
		return err
	}

	x, y := r.modal.placementX, r.modal.placementY
	if cols, rows, colStep, rowStep, ok := lattice(rep); ok {
		origin := point(x, y)
		a := &layout.ArrayRef{
			Transform: tr,
			Columns:   cols,
			Rows:      rows,
			ReferencePoints: [3]layout.Point{
				origin,
				point(x+colStep.X*int64(cols), y+colStep.Y*int64(cols)),
				point(x+rowStep.X*int64(rows), y+rowStep.Y*int64(rows)),
			},
		}
		r.resolve(&r.cellNames, cell, func(s string, _ bool) { a.CellName = s })
		r.cell.Add(a)
		r.targets = append(r.targets[:0], a)

		return nil
	}

	r.emit(rep, func(d encoding.Delta) layout.Element {
		c := &layout.CellRef{Origin: point(x+d.X, y+d.Y), Transform: tr}
		r.resolve(&r.cellNames, cell, func(s string, _ bool) { c.CellName = s })

		return c
	})

	return nil
}

// lattice reports whether rep is a regular lattice and returns its
// dimensions and steps.
func lattice(rep encoding.Repetition) (cols, rows int, colStep, rowStep encoding.Delta, ok bool) {
	switch rep := rep.(type) {
	case encoding.UniformGrid:
		return rep.Columns, rep.Rows, encoding.Delta{X: rep.ColumnSpace}, encoding.Delta{Y: rep.RowSpace}, true
	case encoding.UniformRow:
		return rep.N, 1, encoding.Delta{X: rep.Space}, encoding.Delta{}, true
	case encoding.UniformColumn:
		return 1, rep.N, encoding.Delta{}, encoding.Delta{Y: rep.Space}, true
	case encoding.ArbitraryGrid:
		return rep.N, rep.M, rep.NDisp, rep.MDisp, true
	case encoding.DisplacementRow:
		return rep.N, 1, rep.Disp, encoding.Delta{}, true
	default:
		return 0, 0, encoding.Delta{}, encoding.Delta{}, false
	}
}

func (r *Reader) readTrapezoid(rec format.RecordType) error {
	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}
	layer, datatype, err := r.layerDatatype(info)
	if err != nil {
		return err
	}
	if err := r.uvarintModal(info&bitWidth != 0, &r.modal.width); err != nil {
		return err
	}
	if err := r.uvarintModal(info&bitHeight != 0, &r.modal.height); err != nil {
		return err
	}
	w := int64(r.modal.width.get("geometry-w"))  //nolint: gosec
	h := int64(r.modal.height.get("geometry-h")) //nolint: gosec

	var da, db int64
	if rec != format.RecordTrapezoidB {
		if da, err = r.src.Svarint(); err != nil {
			return err
		}
	}
	if rec != format.RecordTrapezoidA {
		if db, err = r.src.Svarint(); err != nil {
			return err
		}
	}

	if err := r.xy(info, bitX, bitY, &r.modal.geometryX, &r.modal.geometryY); err != nil {
		return err
	}
	rep, err := r.repetition(info&bitRepetition != 0)
	if err != nil {
		return err
	}

	corners := trapezoid(info&bitVert != 0, w, h, da, db)
	x, y := r.modal.geometryX, r.modal.geometryY
	r.emit(rep, func(d encoding.Delta) layout.Element {
		return &layout.Boundary{
			Layer:    layer,
			Datatype: datatype,
			Points:   layout.Close(absolute(corners, x+d.X, y+d.Y)),
		}
	})

	return nil
}

// trapezoid returns the four corners of a trapezoid in its w×h box,
// counter-clockwise from the lower left. Each delta is the offset of the
// first end of a slanted side relative to its second end; a positive delta
// moves the corner inwards along the bottom (or left) edge, a negative one
// along the top (or right) edge.
func trapezoid(vertical bool, w, h, da, db int64) []encoding.Delta {
	if vertical {
		return []encoding.Delta{
			{X: 0, Y: max(da, 0)},
			{X: w, Y: -min(da, 0)},
			{X: w, Y: h - max(db, 0)},
			{X: 0, Y: h + min(db, 0)},
		}
	}

	return []encoding.Delta{
		{X: max(da, 0), Y: 0},
		{X: w + min(db, 0), Y: 0},
		{X: w - max(db, 0), Y: h},
		{X: -min(da, 0), Y: h},
	}
}

func (r *Reader) readCTrapezoid() error {
	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}
	layer, datatype, err := r.layerDatatype(info)
	if err != nil {
		return err
	}
	if err := r.uvarintModal(info&bitCType != 0, &r.modal.ctrapezoidType); err != nil {
		return err
	}
	typ := r.modal.ctrapezoidType.get("ctrapezoid-type")

	if err := r.uvarintModal(info&bitWidth != 0, &r.modal.width); err != nil {
		return err
	}
	if err := r.uvarintModal(info&bitHeight != 0, &r.modal.height); err != nil {
		return err
	}
	w := r.modal.width.get("geometry-w")
	if ctrapezoidSquare(typ) {
		r.modal.height.set(w)
	}
	h := r.modal.height.get("geometry-h")

	if err := r.xy(info, bitX, bitY, &r.modal.geometryX, &r.modal.geometryY); err != nil {
		return err
	}
	rep, err := r.repetition(info&bitRepetition != 0)
	if err != nil {
		return err
	}

	shape, err := CTrapezoidShape(typ, 0, 0, i32(int64(w)), i32(int64(h))) //nolint: gosec
	if err != nil {
		return err
	}

	x, y := r.modal.geometryX, r.modal.geometryY
	r.emit(rep, func(d encoding.Delta) layout.Element {
		pts := make([]layout.Point, len(shape))
		off := point(x+d.X, y+d.Y)
		for i, p := range shape {
			pts[i] = p.Add(off)
		}

		return &layout.Boundary{Layer: layer, Datatype: datatype, Points: pts}
	})

	return nil
}

func (r *Reader) readCircle() error {
	info, err := r.src.ReadByte()
	if err != nil {
		return err
	}
	layer, datatype, err := r.layerDatatype(info)
	if err != nil {
		return err
	}
	if err := r.uvarintModal(info&bitRadius != 0, &r.modal.radius); err != nil {
		return err
	}
	radius := float64(r.modal.radius.get("circle-radius"))

	if err := r.xy(info, bitX, bitY, &r.modal.geometryX, &r.modal.geometryY); err != nil {
		return err
	}
	rep, err := r.repetition(info&bitRepetition != 0)
	if err != nil {
		return err
	}

	outline := make([]encoding.Delta, circleSegments)
	for i := range outline {
		a := 2 * math.Pi * float64(i) / circleSegments
		outline[i] = encoding.Delta{
			X: int64(math.Round(radius * math.Cos(a))),
			Y: int64(math.Round(radius * math.Sin(a))),
		}
	}

	x, y := r.modal.geometryX, r.modal.geometryY
	r.emit(rep, func(d encoding.Delta) layout.Element {
		return &layout.Boundary{
			Layer:    layer,
			Datatype: datatype,
			Points:   layout.Close(absolute(outline, x+d.X, y+d.Y)),
		}
	})

	return nil
}
