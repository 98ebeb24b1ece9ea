package oasis

import (
	"fmt"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/layout"
)

// MaxCTrapezoidType is the largest compact trapezoid type code.
const MaxCTrapezoidType = 24

// horizontalCuts lists the corners of types 0..7 in a box of width w and
// height h as (x multiplier of w, x multiplier of h, y multiplier of h).
// A corner at x = a*w + b*h, y = c*h. Types 8..15 are the same shapes
// with the axes swapped.
var horizontalCuts = [8][4][3]int32{
	{{0, 0, 0}, {0, 0, 1}, {1, -1, 1}, {1, 0, 0}},
	{{0, 0, 0}, {0, 0, 1}, {1, 0, 1}, {1, -1, 0}},
	{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 0, 0}},
	{{0, 1, 0}, {0, 0, 1}, {1, 0, 1}, {1, 0, 0}},
	{{0, 0, 0}, {0, 1, 1}, {1, -1, 1}, {1, 0, 0}},
	{{0, 1, 0}, {0, 0, 1}, {1, 0, 1}, {1, -1, 0}},
	{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, -1, 0}},
	{{0, 1, 0}, {0, 0, 1}, {1, -1, 1}, {1, 0, 0}},
}

// CTrapezoidShape returns the closed outline of compact trapezoid type typ
// with lower-left corner (x, y) and bounding box w×h.
//
// Types 0..7 are horizontal trapezoids whose slanted corners are cut by h;
// 8..15 are vertical trapezoids cut by w; 16 is a rectangle and 17 a
// square; 18 and 19 are octagons cut by h/3 and w/3; 20..23 are triangles
// pointing right, left, up and down; 24 is a right pointing triangle with
// h equal to w. Quadrilaterals have five points, triangles four and
// octagons nine, the last point always repeating the first.
func CTrapezoidShape(typ uint64, x, y, w, h int32) ([]layout.Point, error) {
	var pts []layout.Point

	switch {
	case typ <= 7:
		pts = cutCorners(horizontalCuts[typ], w, h, false)
	case typ <= 15:
		pts = cutCorners(horizontalCuts[typ-8], h, w, true)
	case typ == 16:
		pts = layout.Open(layout.Box(0, 0, w, h))
	case typ == 17:
		pts = layout.Open(layout.Box(0, 0, w, w))
	case typ == 18, typ == 19:
		c := h / 3
		if typ == 19 {
			c = w / 3
		}
		pts = []layout.Point{
			{c, 0}, {w - c, 0}, {w, c}, {w, h - c},
			{w - c, h}, {c, h}, {0, h - c}, {0, c},
		}
	case typ == 20:
		pts = []layout.Point{{0, 0}, {w, h / 2}, {0, h}}
	case typ == 21:
		pts = []layout.Point{{w, 0}, {w, h}, {0, h / 2}}
	case typ == 22:
		pts = []layout.Point{{0, 0}, {w, 0}, {w / 2, h}}
	case typ == 23:
		pts = []layout.Point{{0, h}, {w / 2, 0}, {w, h}}
	case typ == 24:
		pts = []layout.Point{{0, 0}, {w, w / 2}, {0, w}}
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidCTrapezoid, typ)
	}

	origin := layout.Point{X: x, Y: y}
	for i := range pts {
		pts[i] = pts[i].Add(origin)
	}

	return append(pts, pts[0]), nil
}

// cutCorners evaluates one horizontalCuts row. With swap set, long is the
// box height and short the width, and x and y trade places.
func cutCorners(corners [4][3]int32, long, short int32, swap bool) []layout.Point {
	pts := make([]layout.Point, 4, 5)
	for i, c := range corners {
		a := c[0]*long + c[1]*short
		b := c[2] * short
		if swap {
			pts[i] = layout.Point{X: b, Y: a}
		} else {
			pts[i] = layout.Point{X: a, Y: b}
		}
	}

	return pts
}

// ctrapezoidSquare reports whether type typ derives its height from its
// width.
func ctrapezoidSquare(typ uint64) bool {
	return typ == 17 || typ == 24
}
