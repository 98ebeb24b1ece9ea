package encoding

import (
	"github.com/arloliu/maskio/errs"
)

// frame is one byte buffer on the Source stack with its read offset.
type frame struct {
	buf []byte
	off int
}

// Source is a read cursor over a stack of byte buffers.
//
// The bottom frame is the file itself. Each inflated CBLOCK is pushed on top
// of it; once the top frame is exhausted it is popped and reading resumes in
// the frame below, right after the compressed payload. Consumers never see
// the frame boundaries, and no bytes are copied to splice the streams.
//
// Note: Source is NOT thread-safe.
type Source struct {
	frames []frame
}

// NewSource creates a Source reading buf from the beginning.
func NewSource(buf []byte) *Source {
	return &Source{frames: []frame{{buf: buf}}}
}

// Push makes buf the current input until it is exhausted.
func (s *Source) Push(buf []byte) {
	if len(buf) == 0 {
		return
	}
	s.frames = append(s.frames, frame{buf: buf})
}

// Depth returns the number of pushed frames above the base stream.
func (s *Source) Depth() int {
	s.settle()
	return len(s.frames) - 1
}

// Offset returns the read offset within the current frame.
func (s *Source) Offset() int64 {
	s.settle()
	return int64(s.frames[len(s.frames)-1].off)
}

// EOF reports whether every frame has been consumed.
func (s *Source) EOF() bool {
	s.settle()
	top := s.frames[len(s.frames)-1]

	return top.off >= len(top.buf)
}

// settle pops exhausted frames, never the base one.
func (s *Source) settle() {
	for len(s.frames) > 1 {
		top := s.frames[len(s.frames)-1]
		if top.off < len(top.buf) {
			return
		}
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Err wraps err with the current position.
func (s *Source) Err(err error) error {
	return errs.At(s.Offset(), s.Depth(), err)
}

// ReadByte consumes one byte.
func (s *Source) ReadByte() (byte, error) {
	s.settle()
	top := &s.frames[len(s.frames)-1]
	if top.off >= len(top.buf) {
		return 0, errs.ErrUnexpectedEOF
	}
	b := top.buf[top.off]
	top.off++

	return b, nil
}

// PeekByte returns the next byte without consuming it.
func (s *Source) PeekByte() (byte, error) {
	s.settle()
	top := s.frames[len(s.frames)-1]
	if top.off >= len(top.buf) {
		return 0, errs.ErrUnexpectedEOF
	}

	return top.buf[top.off], nil
}

// Next consumes n bytes. The result aliases the underlying buffer unless
// it spans a frame boundary, in which case it is a copy.
func (s *Source) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, errs.ErrUnexpectedEOF
	}
	s.settle()
	top := &s.frames[len(s.frames)-1]
	if n <= len(top.buf)-top.off {
		out := top.buf[top.off : top.off+n]
		top.off += n

		return out, nil
	}
	if n > s.remaining() {
		return nil, errs.ErrUnexpectedEOF
	}

	out := make([]byte, 0, n)
	for len(out) < n {
		s.settle()
		top = &s.frames[len(s.frames)-1]
		avail := len(top.buf) - top.off
		if avail == 0 {
			return nil, errs.ErrUnexpectedEOF
		}
		take := min(avail, n-len(out))
		out = append(out, top.buf[top.off:top.off+take]...)
		top.off += take
	}

	return out, nil
}

// remaining returns the unread bytes across all frames.
func (s *Source) remaining() int {
	n := 0
	for _, f := range s.frames {
		n += len(f.buf) - f.off
	}

	return n
}

// Skip discards n bytes.
func (s *Source) Skip(n int) error {
	_, err := s.Next(n)
	return err
}
