package gdsii

import (
	"fmt"

	"github.com/arloliu/maskio/endian"
	"github.com/arloliu/maskio/errs"
)

var engine = endian.GetBigEndianEngine()

type recordType uint8

const (
	recHeader       recordType = 0x00
	recBgnLib       recordType = 0x01
	recLibName      recordType = 0x02
	recUnits        recordType = 0x03
	recEndLib       recordType = 0x04
	recBgnStr       recordType = 0x05
	recStrName      recordType = 0x06
	recEndStr       recordType = 0x07
	recBoundary     recordType = 0x08
	recPath         recordType = 0x09
	recSRef         recordType = 0x0a
	recARef         recordType = 0x0b
	recText         recordType = 0x0c
	recLayer        recordType = 0x0d
	recDatatype     recordType = 0x0e
	recWidth        recordType = 0x0f
	recXY           recordType = 0x10
	recEndEl        recordType = 0x11
	recSName        recordType = 0x12
	recColRow       recordType = 0x13
	recNode         recordType = 0x15
	recTextType     recordType = 0x16
	recPresentation recordType = 0x17
	recString       recordType = 0x19
	recSTrans       recordType = 0x1a
	recMag          recordType = 0x1b
	recAngle        recordType = 0x1c
	recPathType     recordType = 0x21
	recPropAttr     recordType = 0x2b
	recPropValue    recordType = 0x2c
	recBox          recordType = 0x2d
	recBoxType      recordType = 0x2e
	recBgnExtn      recordType = 0x30
	recEndExtn      recordType = 0x31
)

func (r recordType) String() string {
	if name, ok := recordNames[r]; ok {
		return name
	}

	return fmt.Sprintf("record 0x%02x", uint8(r))
}

var recordNames = map[recordType]string{
	recHeader: "HEADER", recBgnLib: "BGNLIB", recLibName: "LIBNAME", recUnits: "UNITS",
	recEndLib: "ENDLIB", recBgnStr: "BGNSTR", recStrName: "STRNAME", recEndStr: "ENDSTR",
	recBoundary: "BOUNDARY", recPath: "PATH", recSRef: "SREF", recARef: "AREF",
	recText: "TEXT", recLayer: "LAYER", recDatatype: "DATATYPE", recWidth: "WIDTH",
	recXY: "XY", recEndEl: "ENDEL", recSName: "SNAME", recColRow: "COLROW",
	recNode: "NODE", recTextType: "TEXTTYPE", recPresentation: "PRESENTATION",
	recString: "STRING", recSTrans: "STRANS", recMag: "MAG", recAngle: "ANGLE",
	recPathType: "PATHTYPE", recPropAttr: "PROPATTR", recPropValue: "PROPVALUE",
	recBox: "BOX", recBoxType: "BOXTYPE", recBgnExtn: "BGNEXTN", recEndExtn: "ENDEXTN",
}

type dataType uint8

const (
	dataNone  dataType = 0
	dataBits  dataType = 1
	dataInt16 dataType = 2
	dataInt32 dataType = 3
	dataReal8 dataType = 5
	dataASCII dataType = 6
)

const (
	headerSize = 4
	maxRecord  = 0xffff
	// maxPoints is the most points one XY record holds.
	maxPoints = (maxRecord - headerSize) / 8
)

// STRANS flags.
const (
	stransReflect  = 0x8000
	stransAbsMag   = 0x0004
	stransAbsAngle = 0x0002
)

// record is one decoded record header and its payload.
type record struct {
	typ  recordType
	data dataType
	body []byte
	off  int
}

func (r record) int16s() ([]int16, error) {
	if r.data != dataInt16 || len(r.body)%2 != 0 {
		return nil, r.invalid("int16 payload")
	}
	out := make([]int16, len(r.body)/2)
	for i := range out {
		out[i] = int16(engine.Uint16(r.body[2*i:])) //nolint: gosec
	}

	return out, nil
}

func (r record) int16() (int16, error) {
	v, err := r.int16s()
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, r.invalid("empty int16 payload")
	}

	return v[0], nil
}

func (r record) int32s() ([]int32, error) {
	if r.data != dataInt32 || len(r.body)%4 != 0 {
		return nil, r.invalid("int32 payload")
	}
	out := make([]int32, len(r.body)/4)
	for i := range out {
		out[i] = int32(engine.Uint32(r.body[4*i:])) //nolint: gosec
	}

	return out, nil
}

func (r record) int32() (int32, error) {
	v, err := r.int32s()
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, r.invalid("empty int32 payload")
	}

	return v[0], nil
}

func (r record) reals() ([]float64, error) {
	if r.data != dataReal8 || len(r.body)%8 != 0 {
		return nil, r.invalid("real8 payload")
	}
	out := make([]float64, len(r.body)/8)
	for i := range out {
		out[i] = decodeReal8(engine.Uint64(r.body[8*i:]))
	}

	return out, nil
}

func (r record) real() (float64, error) {
	v, err := r.reals()
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, r.invalid("empty real8 payload")
	}

	return v[0], nil
}

func (r record) bits() (uint16, error) {
	if r.data != dataBits || len(r.body) != 2 {
		return 0, r.invalid("bit array payload")
	}

	return engine.Uint16(r.body), nil
}

// str returns an ASCII payload without its NUL padding.
func (r record) str() (string, error) {
	if r.data != dataASCII {
		return "", r.invalid("ascii payload")
	}
	b := r.body
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}

	return string(b), nil
}

func (r record) invalid(what string) error {
	return errs.At(int64(r.off), 0, fmt.Errorf("%w: %s has bad %s", errs.ErrInvalidGDSRecord, r.typ, what))
}

// scanner splits a stream into records.
type scanner struct {
	buf []byte
	off int
}

func (s *scanner) next() (record, error) {
	if len(s.buf)-s.off < headerSize {
		return record{}, errs.At(int64(s.off), 0, errs.ErrUnexpectedEOF)
	}
	h := s.buf[s.off:]
	n := int(engine.Uint16(h))
	if n < headerSize || n%2 != 0 {
		return record{}, errs.At(int64(s.off), 0, fmt.Errorf("%w: length %d", errs.ErrInvalidGDSRecord, n))
	}
	if len(h) < n {
		return record{}, errs.At(int64(s.off), 0, errs.ErrUnexpectedEOF)
	}

	rec := record{typ: recordType(h[2]), data: dataType(h[3]), body: h[headerSize:n], off: s.off}
	s.off += n

	return rec, nil
}

// appendHeader starts a record with a payload of n bytes.
func appendHeader(dst []byte, typ recordType, data dataType, n int) ([]byte, error) {
	if headerSize+n > maxRecord {
		return dst, fmt.Errorf("%w: %s payload of %d bytes", errs.ErrUnsupportedElement, typ, n)
	}
	dst = engine.AppendUint16(dst, uint16(headerSize+n)) //nolint: gosec

	return append(dst, byte(typ), byte(data)), nil
}

func appendEmpty(dst []byte, typ recordType) []byte {
	dst, _ = appendHeader(dst, typ, dataNone, 0)
	return dst
}

func appendInt16s(dst []byte, typ recordType, vs ...int16) []byte {
	dst, _ = appendHeader(dst, typ, dataInt16, 2*len(vs))
	for _, v := range vs {
		dst = engine.AppendUint16(dst, uint16(v)) //nolint: gosec
	}

	return dst
}

func appendInt32s(dst []byte, typ recordType, vs ...int32) ([]byte, error) {
	dst, err := appendHeader(dst, typ, dataInt32, 4*len(vs))
	if err != nil {
		return dst, err
	}
	for _, v := range vs {
		dst = engine.AppendUint32(dst, uint32(v)) //nolint: gosec
	}

	return dst, nil
}

func appendReals(dst []byte, typ recordType, vs ...float64) []byte {
	dst, _ = appendHeader(dst, typ, dataReal8, 8*len(vs))
	for _, v := range vs {
		dst = engine.AppendUint64(dst, encodeReal8(v))
	}

	return dst
}

func appendBits(dst []byte, typ recordType, v uint16) []byte {
	dst, _ = appendHeader(dst, typ, dataBits, 2)
	return engine.AppendUint16(dst, v)
}

// appendString writes s padded with a NUL to an even length.
func appendString(dst []byte, typ recordType, s string) ([]byte, error) {
	n := len(s) + len(s)%2
	dst, err := appendHeader(dst, typ, dataASCII, n)
	if err != nil {
		return dst, err
	}
	dst = append(dst, s...)
	if len(s)%2 != 0 {
		dst = append(dst, 0)
	}

	return dst, nil
}
