package encoding

import (
	"fmt"

	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
)

// countBias is subtracted from every repetition dimension on the wire; a
// repetition always places at least two copies.
const countBias = 2

// Repetition describes the placement offsets of a repeated record.
//
// It is a closed set: UniformGrid, UniformRow, UniformColumn, VariableRow,
// VariableColumn, ArbitraryGrid, DisplacementRow and DisplacementList.
type Repetition interface {
	// Type returns the wire type the shape is written as.
	Type() format.RepetitionType
	// Count returns the number of placements, including the origin.
	Count() int
	// Offsets returns the displacement of every placement; the first is (0,0).
	Offsets() []Delta

	isRepetition()
}

// UniformGrid is an axis-aligned Columns×Rows grid (type 1).
type UniformGrid struct {
	Columns, Rows         int
	ColumnSpace, RowSpace int64
}

// UniformRow is a horizontal row of equally spaced copies (type 2).
type UniformRow struct {
	N     int
	Space int64
}

// UniformColumn is a vertical column of equally spaced copies (type 3).
type UniformColumn struct {
	N     int
	Space int64
}

// VariableRow is a horizontal row with individual gaps (types 4 and 5).
type VariableRow struct {
	Spaces []int64
}

// VariableColumn is a vertical column with individual gaps (types 6 and 7).
type VariableColumn struct {
	Spaces []int64
}

// ArbitraryGrid is an N×M lattice spanned by two arbitrary vectors (type 8).
type ArbitraryGrid struct {
	N, M         int
	NDisp, MDisp Delta
}

// DisplacementRow is a line of copies along one arbitrary vector (type 9).
type DisplacementRow struct {
	N    int
	Disp Delta
}

// DisplacementList places copies at successive arbitrary displacements
// (types 10 and 11).
type DisplacementList struct {
	Displacements []Delta
}

func (UniformGrid) isRepetition()      {}
func (UniformRow) isRepetition()       {}
func (UniformColumn) isRepetition()    {}
func (VariableRow) isRepetition()      {}
func (VariableColumn) isRepetition()   {}
func (ArbitraryGrid) isRepetition()    {}
func (DisplacementRow) isRepetition()  {}
func (DisplacementList) isRepetition() {}

func (UniformGrid) Type() format.RepetitionType      { return format.RepetitionGrid }
func (UniformRow) Type() format.RepetitionType       { return format.RepetitionRow }
func (UniformColumn) Type() format.RepetitionType    { return format.RepetitionColumn }
func (VariableRow) Type() format.RepetitionType      { return format.RepetitionVariableRow }
func (VariableColumn) Type() format.RepetitionType   { return format.RepetitionVariableCol }
func (ArbitraryGrid) Type() format.RepetitionType    { return format.RepetitionArbitraryGrid }
func (DisplacementRow) Type() format.RepetitionType  { return format.RepetitionDisplacementRow }
func (DisplacementList) Type() format.RepetitionType { return format.RepetitionDisplacements }

func (r UniformGrid) Count() int      { return r.Columns * r.Rows }
func (r UniformRow) Count() int       { return r.N }
func (r UniformColumn) Count() int    { return r.N }
func (r VariableRow) Count() int      { return len(r.Spaces) + 1 }
func (r VariableColumn) Count() int   { return len(r.Spaces) + 1 }
func (r ArbitraryGrid) Count() int    { return r.N * r.M }
func (r DisplacementRow) Count() int  { return r.N }
func (r DisplacementList) Count() int { return len(r.Displacements) + 1 }

func (r UniformGrid) Offsets() []Delta {
	out := make([]Delta, 0, r.Count())
	for row := range r.Rows {
		for col := range r.Columns {
			out = append(out, Delta{X: int64(col) * r.ColumnSpace, Y: int64(row) * r.RowSpace})
		}
	}

	return out
}

func (r UniformRow) Offsets() []Delta {
	return line(r.N, Delta{X: r.Space})
}

func (r UniformColumn) Offsets() []Delta {
	return line(r.N, Delta{Y: r.Space})
}

func (r VariableRow) Offsets() []Delta {
	return accumulate(r.Spaces, func(v int64) Delta { return Delta{X: v} })
}

func (r VariableColumn) Offsets() []Delta {
	return accumulate(r.Spaces, func(v int64) Delta { return Delta{Y: v} })
}

func (r ArbitraryGrid) Offsets() []Delta {
	out := make([]Delta, 0, r.Count())
	for m := range r.M {
		for n := range r.N {
			out = append(out, r.NDisp.Scale(int64(n)).Add(r.MDisp.Scale(int64(m))))
		}
	}

	return out
}

func (r DisplacementRow) Offsets() []Delta {
	return line(r.N, r.Disp)
}

func (r DisplacementList) Offsets() []Delta {
	return accumulate(r.Displacements, func(d Delta) Delta { return d })
}

func line(count int, step Delta) []Delta {
	out := make([]Delta, count)
	for i := range out {
		out[i] = step.Scale(int64(i))
	}

	return out
}

func accumulate[T any](steps []T, toDelta func(T) Delta) []Delta {
	out := make([]Delta, 1, len(steps)+1)
	var cur Delta
	for _, s := range steps {
		cur = cur.Add(toDelta(s))
		out = append(out, cur)
	}

	return out
}

// AppendRepetition appends rep in its canonical wire form.
func AppendRepetition(dst []byte, rep Repetition) ([]byte, error) {
	if rep == nil {
		return dst, fmt.Errorf("%w: nil repetition", errs.ErrInvalidRepetition)
	}
	if rep.Count() < countBias {
		return dst, fmt.Errorf("%w: %s with %d placements", errs.ErrInvalidRepetition, rep.Type(), rep.Count())
	}

	dst = AppendUvarint(dst, uint64(rep.Type()))
	switch r := rep.(type) {
	case UniformGrid:
		if r.Columns < countBias || r.Rows < countBias || r.ColumnSpace < 0 || r.RowSpace < 0 {
			return dst, fmt.Errorf("%w: grid %dx%d spacing (%d,%d)", errs.ErrInvalidRepetition,
				r.Columns, r.Rows, r.ColumnSpace, r.RowSpace)
		}
		dst = appendDimension(dst, r.Columns)
		dst = appendDimension(dst, r.Rows)
		dst = AppendUvarint(dst, uint64(r.ColumnSpace))
		dst = AppendUvarint(dst, uint64(r.RowSpace))
	case UniformRow:
		if r.Space < 0 {
			return dst, fmt.Errorf("%w: negative row spacing %d", errs.ErrInvalidRepetition, r.Space)
		}
		dst = appendDimension(dst, r.N)
		dst = AppendUvarint(dst, uint64(r.Space))
	case UniformColumn:
		if r.Space < 0 {
			return dst, fmt.Errorf("%w: negative column spacing %d", errs.ErrInvalidRepetition, r.Space)
		}
		dst = appendDimension(dst, r.N)
		dst = AppendUvarint(dst, uint64(r.Space))
	case VariableRow:
		return appendSpaces(dst, r.Spaces)
	case VariableColumn:
		return appendSpaces(dst, r.Spaces)
	case ArbitraryGrid:
		if r.N < countBias || r.M < countBias {
			return dst, fmt.Errorf("%w: arbitrary grid %dx%d", errs.ErrInvalidRepetition, r.N, r.M)
		}
		dst = appendDimension(dst, r.N)
		dst = appendDimension(dst, r.M)
		dst = AppendGDelta(dst, r.NDisp)
		dst = AppendGDelta(dst, r.MDisp)
	case DisplacementRow:
		dst = appendDimension(dst, r.N)
		dst = AppendGDelta(dst, r.Disp)
	case DisplacementList:
		dst = appendDimension(dst, len(r.Displacements)+1)
		for _, d := range r.Displacements {
			dst = AppendGDelta(dst, d)
		}
	default:
		return dst, fmt.Errorf("%w: %T", errs.ErrInvalidRepetition, rep)
	}

	return dst, nil
}

func appendDimension(dst []byte, count int) []byte {
	return AppendUvarint(dst, uint64(count-countBias)) //nolint: gosec
}

func appendSpaces(dst []byte, spaces []int64) ([]byte, error) {
	dst = appendDimension(dst, len(spaces)+1)
	for _, v := range spaces {
		if v < 0 {
			return dst, fmt.Errorf("%w: negative spacing %d", errs.ErrInvalidRepetition, v)
		}
		dst = AppendUvarint(dst, uint64(v))
	}

	return dst, nil
}

// Repetition reads a repetition.
//
// A leading zero byte is the "reuse previous repetition" marker: it is
// consumed and reused is returned true with a nil shape; the caller
// substitutes its modal repetition.
func (s *Source) Repetition() (rep Repetition, reused bool, err error) {
	b, err := s.PeekByte()
	if err != nil {
		return nil, false, err
	}
	if b == 0 {
		_, _ = s.ReadByte()
		return nil, true, nil
	}

	rawType, err := s.Uvarint()
	if err != nil {
		return nil, false, err
	}

	switch format.RepetitionType(rawType) {
	case format.RepetitionGrid:
		cols, err := s.dimension()
		if err != nil {
			return nil, false, err
		}
		rows, err := s.dimension()
		if err != nil {
			return nil, false, err
		}
		cs, err := s.space()
		if err != nil {
			return nil, false, err
		}
		rs, err := s.space()
		if err != nil {
			return nil, false, err
		}
		if err := lattice(cols, rows); err != nil {
			return nil, false, err
		}

		return UniformGrid{Columns: cols, Rows: rows, ColumnSpace: cs, RowSpace: rs}, false, nil
	case format.RepetitionRow, format.RepetitionColumn:
		n, err := s.dimension()
		if err != nil {
			return nil, false, err
		}
		sp, err := s.space()
		if err != nil {
			return nil, false, err
		}
		if format.RepetitionType(rawType) == format.RepetitionRow {
			return UniformRow{N: n, Space: sp}, false, nil
		}

		return UniformColumn{N: n, Space: sp}, false, nil
	case format.RepetitionVariableRow, format.RepetitionVariableRowGrid:
		spaces, err := s.spaces(format.RepetitionType(rawType) == format.RepetitionVariableRowGrid)
		if err != nil {
			return nil, false, err
		}

		return VariableRow{Spaces: spaces}, false, nil
	case format.RepetitionVariableCol, format.RepetitionVariableColGrid:
		spaces, err := s.spaces(format.RepetitionType(rawType) == format.RepetitionVariableColGrid)
		if err != nil {
			return nil, false, err
		}

		return VariableColumn{Spaces: spaces}, false, nil
	case format.RepetitionArbitraryGrid:
		n, err := s.dimension()
		if err != nil {
			return nil, false, err
		}
		m, err := s.dimension()
		if err != nil {
			return nil, false, err
		}
		nd, err := s.GDelta()
		if err != nil {
			return nil, false, err
		}
		md, err := s.GDelta()
		if err != nil {
			return nil, false, err
		}
		if err := lattice(n, m); err != nil {
			return nil, false, err
		}

		return ArbitraryGrid{N: n, M: m, NDisp: nd, MDisp: md}, false, nil
	case format.RepetitionDisplacementRow:
		n, err := s.dimension()
		if err != nil {
			return nil, false, err
		}
		d, err := s.GDelta()
		if err != nil {
			return nil, false, err
		}

		return DisplacementRow{N: n, Disp: d}, false, nil
	case format.RepetitionDisplacements, format.RepetitionDisplacementGrid:
		n, err := s.dimension()
		if err != nil {
			return nil, false, err
		}
		grid := int64(1)
		if format.RepetitionType(rawType) == format.RepetitionDisplacementGrid {
			if grid, err = s.space(); err != nil {
				return nil, false, err
			}
		}
		disps := make([]Delta, 0, min(n-1, 1<<16))
		for range n - 1 {
			d, err := s.GDelta()
			if err != nil {
				return nil, false, err
			}
			disps = append(disps, d.Scale(grid))
		}

		return DisplacementList{Displacements: disps}, false, nil
	default:
		return nil, false, fmt.Errorf("%w: %d", errs.ErrInvalidRepetitionType, rawType)
	}
}

func (s *Source) dimension() (int, error) {
	v, err := s.UvarintInt()
	if err != nil {
		return 0, err
	}
	if v > maxInt-countBias {
		return 0, fmt.Errorf("%w: dimension %d overflows", errs.ErrInvalidRepetition, v)
	}

	return v + countBias, nil
}

// lattice checks that an n×m lattice can be counted in an int.
func lattice(n, m int) error {
	if n > maxInt/m {
		return fmt.Errorf("%w: %dx%d lattice overflows", errs.ErrInvalidRepetition, n, m)
	}

	return nil
}

func (s *Source) space() (int64, error) {
	v, err := s.Uvarint()
	if err != nil {
		return 0, err
	}

	return int64(v), nil //nolint: gosec
}

// spaces reads the dimension and gaps of a variable row or column,
// multiplying each gap by the grid when gridded is set.
func (s *Source) spaces(gridded bool) ([]int64, error) {
	n, err := s.dimension()
	if err != nil {
		return nil, err
	}
	grid := int64(1)
	if gridded {
		if grid, err = s.space(); err != nil {
			return nil, err
		}
	}

	out := make([]int64, 0, min(n-1, 1<<16))
	for range n - 1 {
		v, err := s.space()
		if err != nil {
			return nil, err
		}
		out = append(out, v*grid)
	}

	return out, nil
}
