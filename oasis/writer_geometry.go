package oasis

import (
	"fmt"

	"github.com/arloliu/maskio/encoding"
	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
	"github.com/arloliu/maskio/internal/pool"
	"github.com/arloliu/maskio/layout"
)

// deltaPool holds the per-element delta lists built while encoding.
var deltaPool = pool.NewSlicePool[encoding.Delta]()

// Extension scheme bytes written for each path type, start scheme in bits
// 2-3 and end scheme in bits 0-1.
const (
	schemeFlush     = extFlush<<2 | extFlush
	schemeHalfWidth = extHalfWidth<<2 | extHalfWidth
	schemeExplicit  = extExplicit<<2 | extExplicit
)

// layerBits sets the layer and datatype bits that differ from the modal
// values and updates them.
func (w *Writer) layerBits(layer, datatype uint64) byte {
	var info byte
	if !holds(w.modal.layer, layer) {
		info |= bitLayer
		w.modal.layer.set(layer)
	}
	if !holds(w.modal.datatype, datatype) {
		info |= bitDatatype
		w.modal.datatype.set(datatype)
	}

	return info
}

func appendLayer(dst []byte, info byte, layer, datatype uint64) []byte {
	if info&bitLayer != 0 {
		dst = encoding.AppendUvarint(dst, layer)
	}
	if info&bitDatatype != 0 {
		dst = encoding.AppendUvarint(dst, datatype)
	}

	return dst
}

// xyBits sets xBit and yBit for coordinates that differ from the modal
// position and moves it.
func xyBits(x, y int64, mx, my *int64, xBit, yBit byte) byte {
	var info byte
	if x != *mx {
		info |= xBit
		*mx = x
	}
	if y != *my {
		info |= yBit
		*my = y
	}

	return info
}

func appendXY(dst []byte, info, xBit, yBit byte, x, y int64) []byte {
	if info&xBit != 0 {
		dst = encoding.AppendSvarint(dst, x)
	}
	if info&yBit != 0 {
		dst = encoding.AppendSvarint(dst, y)
	}

	return dst
}

func (w *Writer) appendBoundary(dst []byte, b *layout.Boundary) ([]byte, error) {
	if x, y, width, height, ok := b.Box(); ok {
		return w.appendRectangle(dst, clamp(b.Layer), clamp(b.Datatype), x, y, width, height), nil
	}

	pts := layout.Open(b.Points)
	if len(pts) < 3 {
		return dst, fmt.Errorf("%w: boundary with %d points", errs.ErrUnsupportedElement, len(pts))
	}
	edges, release := deltaPool.Get(len(pts))
	defer release()
	typ, deltas := polygonPointList(edges, pts)

	layer, datatype := clamp(b.Layer), clamp(b.Datatype)
	x, y := int64(pts[0].X), int64(pts[0].Y)
	info := w.layerBits(layer, datatype) | bitPoints
	info |= xyBits(x, y, &w.modal.geometryX, &w.modal.geometryY, bitX, bitY)

	dst = encoding.AppendUvarint(dst, uint64(format.RecordPolygon))
	dst = append(dst, info)
	dst = appendLayer(dst, info, layer, datatype)
	dst, err := encoding.AppendPointList(dst, typ, deltas)
	if err != nil {
		return dst, err
	}

	return appendXY(dst, info, bitX, bitY, x, y), nil
}

func (w *Writer) appendRectangle(dst []byte, layer, datatype uint64, x, y, width, height int32) []byte {
	wd, ht := uint64(width), uint64(height) //nolint: gosec
	info := w.layerBits(layer, datatype)
	if wd == ht {
		info |= bitSquare
		if !holds(w.modal.width, wd) {
			info |= bitWidth
		}
	} else {
		if !holds(w.modal.width, wd) {
			info |= bitWidth
		}
		if !holds(w.modal.height, ht) {
			info |= bitHeight
		}
	}
	w.modal.width.set(wd)
	w.modal.height.set(ht)
	info |= xyBits(int64(x), int64(y), &w.modal.geometryX, &w.modal.geometryY, bitX, bitY)

	dst = encoding.AppendUvarint(dst, uint64(format.RecordRectangle))
	dst = append(dst, info)
	dst = appendLayer(dst, info, layer, datatype)
	if info&bitWidth != 0 {
		dst = encoding.AppendUvarint(dst, wd)
	}
	if info&bitHeight != 0 {
		dst = encoding.AppendUvarint(dst, ht)
	}

	return appendXY(dst, info, bitX, bitY, int64(x), int64(y))
}

// polygonPointList picks the point list for an open polygon outline.
//
// Alternating lists imply the vertex before the closing edge, so they are
// only usable when the whole outline, closing edge included, alternates.
// Otherwise the list holds every edge but the closing one.
//
// edges is scratch space of len(pts); the returned deltas alias it.
func polygonPointList(edges []encoding.Delta, pts []layout.Point) (format.PointListType, []encoding.Delta) {
	for i, p := range pts {
		next := pts[(i+1)%len(pts)]
		edges[i] = encoding.Delta{X: int64(next.X) - int64(p.X), Y: int64(next.Y) - int64(p.Y)}
	}

	if len(edges)%2 == 0 && len(edges) >= 4 {
		switch {
		case alternatesStrictly(edges, true):
			return format.PointListManhattanH, edges[:len(edges)-2]
		case alternatesStrictly(edges, false):
			return format.PointListManhattanV, edges[:len(edges)-2]
		}
	}

	deltas := edges[:len(edges)-1]
	typ := encoding.ChoosePointListType(deltas)
	if typ == format.PointListManhattanH || typ == format.PointListManhattanV {
		typ = format.PointListOctangular
		if allManhattan(deltas) {
			typ = format.PointListManhattan
		}
	}

	return typ, deltas
}

// alternatesStrictly reports whether every edge is a non-zero move along
// one axis, the axes alternating from the first edge on.
func alternatesStrictly(edges []encoding.Delta, horizontalFirst bool) bool {
	horizontal := horizontalFirst
	for _, e := range edges {
		if horizontal && (e.X == 0 || e.Y != 0) {
			return false
		}
		if !horizontal && (e.Y == 0 || e.X != 0) {
			return false
		}
		horizontal = !horizontal
	}

	return true
}

func allManhattan(deltas []encoding.Delta) bool {
	for _, d := range deltas {
		if !d.IsManhattan() {
			return false
		}
	}

	return true
}

func (w *Writer) appendPath(dst []byte, p *layout.Path) ([]byte, error) {
	if len(p.Points) == 0 {
		return dst, fmt.Errorf("%w: path without points", errs.ErrUnsupportedElement)
	}

	layer, datatype := clamp(p.Layer), clamp(p.Datatype)
	hw := uint64(max(p.Width, 0) / 2) //nolint: gosec

	info := w.layerBits(layer, datatype) | bitExtension | bitPoints
	if !holds(w.modal.halfWidth, hw) {
		info |= bitHalfWidth
		w.modal.halfWidth.set(hw)
	}
	x, y := int64(p.Points[0].X), int64(p.Points[0].Y)
	info |= xyBits(x, y, &w.modal.geometryX, &w.modal.geometryY, bitX, bitY)

	dst = encoding.AppendUvarint(dst, uint64(format.RecordPath))
	dst = append(dst, info)
	dst = appendLayer(dst, info, layer, datatype)
	if info&bitHalfWidth != 0 {
		dst = encoding.AppendUvarint(dst, hw)
	}

	switch p.PathType {
	case layout.PathFlush:
		dst = encoding.AppendUvarint(dst, schemeFlush)
	case layout.PathCustomExtension:
		dst = encoding.AppendUvarint(dst, schemeExplicit)
		dst = encoding.AppendSvarint(dst, int64(p.BeginExtension))
		dst = encoding.AppendSvarint(dst, int64(p.EndExtension))
	default:
		// Round ends have no OASIS form; half-width extension covers them.
		dst = encoding.AppendUvarint(dst, schemeHalfWidth)
	}

	deltas, release := deltaPool.Get(len(p.Points) - 1)
	defer release()
	for i := range deltas {
		a, b := p.Points[i], p.Points[i+1]
		deltas[i] = encoding.Delta{X: int64(b.X) - int64(a.X), Y: int64(b.Y) - int64(a.Y)}
	}
	dst, err := encoding.AppendPointList(dst, encoding.ChoosePointListType(deltas), deltas)
	if err != nil {
		return dst, err
	}

	return appendXY(dst, info, bitX, bitY, x, y), nil
}

func (w *Writer) appendText(dst []byte, t *layout.Text) ([]byte, error) {
	var info byte
	if !holds(w.modal.textString, t.String) {
		info |= bitTextString
		w.modal.textString.set(t.String)
	}
	layer, textType := clamp(t.Layer), clamp(t.TextType)
	if !holds(w.modal.textLayer, layer) {
		info |= bitTextLayer
		w.modal.textLayer.set(layer)
	}
	if !holds(w.modal.textType, textType) {
		info |= bitTextType
		w.modal.textType.set(textType)
	}
	x, y := int64(t.Position.X), int64(t.Position.Y)
	info |= xyBits(x, y, &w.modal.textX, &w.modal.textY, bitX, bitY)

	dst = encoding.AppendUvarint(dst, uint64(format.RecordText))
	dst = append(dst, info)
	if info&bitTextString != 0 {
		var err error
		if dst, err = encoding.AppendAString(dst, t.String); err != nil {
			return dst, err
		}
	}
	if info&bitTextLayer != 0 {
		dst = encoding.AppendUvarint(dst, layer)
	}
	if info&bitTextType != 0 {
		dst = encoding.AppendUvarint(dst, textType)
	}

	return appendXY(dst, info, bitX, bitY, x, y), nil
}

func (w *Writer) appendArray(dst []byte, a *layout.ArrayRef) ([]byte, error) {
	if a.Columns < 1 || a.Rows < 1 {
		return dst, fmt.Errorf("%w: array of %dx%d", errs.ErrUnsupportedElement, a.Columns, a.Rows)
	}

	return w.appendPlacement(dst, a.CellName, a.ReferencePoints[0], a.Transform, arrayRepetition(a))
}

// arrayRepetition returns the repetition describing an array, or nil for
// a single instance.
func arrayRepetition(a *layout.ArrayRef) encoding.Repetition {
	colPt, rowPt := a.Steps()
	col := encoding.Delta{X: int64(colPt.X), Y: int64(colPt.Y)}
	row := encoding.Delta{X: int64(rowPt.X), Y: int64(rowPt.Y)}

	switch {
	case a.Columns >= 2 && a.Rows >= 2:
		if col.Y == 0 && row.X == 0 && col.X >= 0 && row.Y >= 0 {
			return encoding.UniformGrid{Columns: a.Columns, Rows: a.Rows, ColumnSpace: col.X, RowSpace: row.Y}
		}

		return encoding.ArbitraryGrid{N: a.Columns, M: a.Rows, NDisp: col, MDisp: row}
	case a.Columns >= 2:
		if col.Y == 0 && col.X >= 0 {
			return encoding.UniformRow{N: a.Columns, Space: col.X}
		}

		return encoding.DisplacementRow{N: a.Columns, Disp: col}
	case a.Rows >= 2:
		if row.X == 0 && row.Y >= 0 {
			return encoding.UniformColumn{N: a.Rows, Space: row.Y}
		}

		return encoding.DisplacementRow{N: a.Rows, Disp: row}
	default:
		return nil
	}
}

// appendPlacement writes a PLACEMENT record; the magnifying form is used
// only when tr is not the identity.
func (w *Writer) appendPlacement(dst []byte, cellName string, origin layout.Point, tr layout.Transform, rep encoding.Repetition) ([]byte, error) {
	ref, _ := w.cellNames.Lookup(cellName)

	var info byte
	if !holds(w.modal.placementCell, ref) {
		info |= bitPlaceCell | bitPlaceRef
		w.modal.placementCell.set(ref)
	}
	x, y := int64(origin.X), int64(origin.Y)
	info |= xyBits(x, y, &w.modal.placementX, &w.modal.placementY, bitPlaceX, bitPlaceY)

	reuse := false
	if rep != nil {
		info |= bitPlaceRep
		reuse = holds(w.modal.repetition, rep)
		w.modal.repetition.set(rep)
	}

	rec := format.RecordPlacement
	mag := tr.Scale()
	if !tr.IsIdentity() {
		rec = format.RecordPlacementX
		if tr.MirrorX {
			info |= bitPlaceFlip
		}
		if mag != 1 {
			info |= bitPlaceMag
		}
		if tr.Angle != 0 {
			info |= bitPlaceAngle
		}
	}

	dst = encoding.AppendUvarint(dst, uint64(rec))
	dst = append(dst, info)
	if info&bitPlaceCell != 0 {
		dst = encoding.AppendUvarint(dst, ref)
	}
	if rec == format.RecordPlacementX {
		if info&bitPlaceMag != 0 {
			dst = encoding.AppendReal(dst, mag)
		}
		if info&bitPlaceAngle != 0 {
			dst = encoding.AppendReal(dst, tr.Angle)
		}
	}
	dst = appendXY(dst, info, bitPlaceX, bitPlaceY, x, y)

	if rep == nil {
		return dst, nil
	}
	if reuse {
		return encoding.AppendUvarint(dst, uint64(format.RepetitionReuse)), nil
	}

	return encoding.AppendRepetition(dst, rep)
}
