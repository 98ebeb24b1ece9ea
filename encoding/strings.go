package encoding

import (
	"fmt"

	"github.com/arloliu/maskio/errs"
)

// Magic is the fixed header every OASIS file starts with.
const Magic = "%SEMI-OASIS\r\n"

// AppendMagic appends the OASIS magic header.
func AppendMagic(dst []byte) []byte {
	return append(dst, Magic...)
}

// CheckMagic consumes and verifies the magic header.
func (s *Source) CheckMagic() error {
	b, err := s.Next(len(Magic))
	if err != nil || string(b) != Magic {
		return errs.ErrInvalidMagic
	}

	return nil
}

// AppendBString appends an arbitrary byte string with its length.
func AppendBString(dst []byte, b []byte) []byte {
	dst = AppendUvarint(dst, uint64(len(b)))
	return append(dst, b...)
}

// AppendAString appends a printable-ASCII string with its length.
func AppendAString(dst []byte, s string) ([]byte, error) {
	if !IsAString(s) {
		return dst, fmt.Errorf("%w: %q", errs.ErrInvalidAString, s)
	}
	dst = AppendUvarint(dst, uint64(len(s)))

	return append(dst, s...), nil
}

// AppendNString appends a name string: printable ASCII without spaces.
func AppendNString(dst []byte, s string) ([]byte, error) {
	if !IsNString(s) {
		return dst, fmt.Errorf("%w: %q", errs.ErrInvalidNString, s)
	}
	dst = AppendUvarint(dst, uint64(len(s)))

	return append(dst, s...), nil
}

// IsAString reports whether s only holds printable ASCII (0x20..0x7E).
func IsAString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}

	return true
}

// IsNString reports whether s is a valid name: non-empty printable ASCII
// without spaces (0x21..0x7E).
func IsNString(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}

	return true
}

// BString reads a length-prefixed byte string. The result is a copy.
func (s *Source) BString() ([]byte, error) {
	n, err := s.UvarintInt()
	if err != nil {
		return nil, err
	}
	b, err := s.Next(n)
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), b...), nil
}

// AString reads a length-prefixed printable-ASCII string.
func (s *Source) AString() (string, error) {
	str, err := s.rawString()
	if err != nil {
		return "", err
	}
	if !IsAString(str) {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidAString, str)
	}

	return str, nil
}

// NString reads a length-prefixed name string.
//
// Empty names are accepted on input; some producers emit them for unnamed
// layers.
func (s *Source) NString() (string, error) {
	str, err := s.rawString()
	if err != nil {
		return "", err
	}
	if str != "" && !IsNString(str) {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidNString, str)
	}

	return str, nil
}

func (s *Source) rawString() (string, error) {
	n, err := s.UvarintInt()
	if err != nil {
		return "", err
	}
	b, err := s.Next(n)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
