// Package maskio reads and writes IC mask layouts in the OASIS and GDSII
// stream formats.
//
// Both formats decode into the same in-memory model (package layout): a
// library of named cells holding boundaries, paths, texts and cell
// references. A library read from one format can be written in the other.
//
// # Core Features
//
//   - OASIS (SEMI P39) reader covering every geometry record, modal
//     variables, repetitions, forward name references and CBLOCK compression
//   - Deterministic OASIS writer with modal compaction and optional CBLOCKs
//   - GDSII stream reader and writer
//   - Transparent gzip, zstd, S2 and LZ4 file containers
//
// # Basic Usage
//
// Reading a layout file of either format, compressed or not:
//
//	lib, err := maskio.ReadFile("chip.oas.gz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, cell := range lib.Cells {
//	    fmt.Println(cell.Name, len(cell.Elements))
//	}
//
// Converting it to GDSII:
//
//	err = maskio.WriteFile("chip.gds", lib)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the oasis and
// gdsii packages. For fine-grained control, use those packages directly.
package maskio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/maskio/compress"
	"github.com/arloliu/maskio/encoding"
	"github.com/arloliu/maskio/errs"
	"github.com/arloliu/maskio/format"
	"github.com/arloliu/maskio/gdsii"
	"github.com/arloliu/maskio/internal/options"
	"github.com/arloliu/maskio/layout"
	"github.com/arloliu/maskio/oasis"
)

// Format is a layout stream format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatOASIS
	FormatGDSII
)

func (f Format) String() string {
	switch f {
	case FormatOASIS:
		return "OASIS"
	case FormatGDSII:
		return "GDSII"
	default:
		return "Unknown"
	}
}

// gdsHeader is the HEADER record every GDSII stream starts with, up to the
// version number.
var gdsHeader = []byte{0x00, 0x06, 0x00, 0x02}

// DetectFormat identifies the layout format of an uncompressed stream from
// its first bytes.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte(encoding.Magic)):
		return FormatOASIS
	case bytes.HasPrefix(data, gdsHeader):
		return FormatGDSII
	default:
		return FormatUnknown
	}
}

// FormatFromPath maps a file name to a layout format, ignoring a trailing
// container extension such as ".gz".
//
// Example:
//
//	maskio.FormatFromPath("top.gds.zst") // FormatGDSII
func FormatFromPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if compress.ContainerFromPath(path) != format.ContainerNone {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}

	switch ext {
	case ".oas", ".oasis":
		return FormatOASIS
	case ".gds", ".gds2", ".gdsii", ".sf":
		return FormatGDSII
	default:
		return FormatUnknown
	}
}

// Decode decodes a layout stream of either format.
//
// A gzip, zstd, S2 or LZ4 container is recognized by its magic bytes and
// removed first, unless WithContainer names the container explicitly.
//
// Parameters:
//   - data: The file contents
//   - opts: Optional configuration (WithContainer, WithOASISReaderOptions)
//
// Returns:
//   - *layout.Library: The decoded library
//   - error: errs.ErrInvalidMagic when the format is not recognized, or the
//     decoder's error
func Decode(data []byte, opts ...Option) (*layout.Library, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	container := compress.DetectContainer(data)
	if cfg.containerSet {
		container = cfg.container
	}
	raw, err := unwrap(data, container)
	if err != nil {
		return nil, err
	}

	switch DetectFormat(raw) {
	case FormatOASIS:
		return oasis.Read(raw, cfg.oasisReader...)
	case FormatGDSII:
		return gdsii.Read(raw)
	default:
		return nil, fmt.Errorf("%w: neither OASIS nor GDSII", errs.ErrInvalidMagic)
	}
}

// Encode encodes lib in the given format, wrapped in the container chosen
// with WithContainer (none by default).
//
// Example:
//
//	data, err := maskio.Encode(lib, maskio.FormatOASIS,
//	    maskio.WithContainer(format.ContainerZstd),
//	    maskio.WithOASISWriterOptions(oasis.WithCBlocks(true)),
//	)
func Encode(lib *layout.Library, f Format, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return encode(lib, f, cfg.container, cfg)
}

func encode(lib *layout.Library, f Format, container format.Container, cfg *Config) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	switch f {
	case FormatOASIS:
		raw, err = oasis.Write(lib, cfg.oasisWriter...)
	case FormatGDSII:
		raw, err = gdsii.Write(lib, cfg.gdsiiWriter...)
	default:
		return nil, fmt.Errorf("unsupported layout format: %s", f)
	}
	if err != nil {
		return nil, err
	}

	codec, err := compress.CreateContainerCodec(container)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrUnsupportedContainer, err)
	}

	return codec.Compress(raw)
}

func unwrap(data []byte, container format.Container) ([]byte, error) {
	codec, err := compress.CreateContainerCodec(container)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrUnsupportedContainer, err)
	}
	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrInvalidContainer, container, err)
	}

	return raw, nil
}

// Convert re-encodes a layout stream of either format in format to.
func Convert(data []byte, to Format, opts ...Option) ([]byte, error) {
	lib, err := Decode(data, opts...)
	if err != nil {
		return nil, err
	}

	return Encode(lib, to, opts...)
}

// ReadFile reads and decodes a layout file.
//
// The container is detected from the file contents; see Decode.
func ReadFile(path string, opts ...Option) (*layout.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lib, err := Decode(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return lib, nil
}

// WriteFile encodes lib and writes it to path.
//
// The layout format follows the file extension (".oas" or ".gds"), as does
// the container (".gz", ".zst", ".s2", ".lz4") unless WithContainer is
// given.
//
// Example:
//
//	err := maskio.WriteFile("top.oas.gz", lib)
func WriteFile(path string, lib *layout.Library, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	f := FormatFromPath(path)
	if f == FormatUnknown {
		return fmt.Errorf("%s: cannot tell the layout format from the file name", path)
	}
	container := compress.ContainerFromPath(path)
	if cfg.containerSet {
		container = cfg.container
	}

	data, err := encode(lib, f, container, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return os.WriteFile(path, data, 0o644) //nolint: gosec
}

// Config holds the settings of the top-level helpers.
type Config struct {
	container    format.Container
	containerSet bool
	oasisReader  []oasis.ReaderOption
	oasisWriter  []oasis.WriterOption
	gdsiiWriter  []gdsii.WriterOption
}

// Option configures the top-level helpers.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithContainer selects the whole-file container, overriding detection on
// read and the file extension on write.
func WithContainer(c format.Container) Option {
	return options.New(func(cfg *Config) error {
		if _, err := compress.CreateContainerCodec(c); err != nil {
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedContainer, c)
		}
		cfg.container = c
		cfg.containerSet = true

		return nil
	})
}

// WithOASISReaderOptions passes options to the OASIS reader.
func WithOASISReaderOptions(opts ...oasis.ReaderOption) Option {
	return options.NoError(func(cfg *Config) {
		cfg.oasisReader = append(cfg.oasisReader, opts...)
	})
}

// WithOASISWriterOptions passes options to the OASIS writer.
func WithOASISWriterOptions(opts ...oasis.WriterOption) Option {
	return options.NoError(func(cfg *Config) {
		cfg.oasisWriter = append(cfg.oasisWriter, opts...)
	})
}

// WithGDSIIWriterOptions passes options to the GDSII writer.
func WithGDSIIWriterOptions(opts ...gdsii.WriterOption) Option {
	return options.NoError(func(cfg *Config) {
		cfg.gdsiiWriter = append(cfg.gdsiiWriter, opts...)
	})
}
