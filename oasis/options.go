package oasis

import (
	"fmt"

	"github.com/klauspost/compress/flate"

	"github.com/arloliu/maskio/compress"
	"github.com/arloliu/maskio/internal/options"
)

// DefaultMaxInflateSize bounds the inflated size of a single CBLOCK.
const DefaultMaxInflateSize = 256 << 20 // 256MiB

// DefaultMaxRepetition bounds the placements of a single repetition.
const DefaultMaxRepetition = 1 << 24

// ReaderConfig holds the settings of a Reader.
type ReaderConfig struct {
	lenient        bool
	maxInflateSize uint64
	maxRepetition  int
}

func newReaderConfig() *ReaderConfig {
	return &ReaderConfig{maxInflateSize: DefaultMaxInflateSize, maxRepetition: DefaultMaxRepetition}
}

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*ReaderConfig]

// WithLenientReferences keeps decoding when a name reference number is never
// defined. Unresolved names become placeholders such as "CELL7", and
// unresolved property strings stay as layout.ReferenceValue.
//
// By default an undefined reference fails the read with
// errs.ErrUnknownReference.
func WithLenientReferences() ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.lenient = true
	})
}

// WithMaxInflateSize sets the largest uncompressed size accepted for one
// CBLOCK. Larger blocks fail with errs.ErrDecompress.
func WithMaxInflateSize(n uint64) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if n == 0 {
			return fmt.Errorf("max inflate size must be positive")
		}
		c.maxInflateSize = n

		return nil
	})
}

// WithMaxRepetition sets the largest number of placements accepted for one
// repetition, lattices kept as layout.ArrayRef included. Larger repetitions
// fail with errs.ErrInvalidRepetition.
func WithMaxRepetition(n int) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if n < 1 {
			return fmt.Errorf("max repetition must be positive")
		}
		c.maxRepetition = n

		return nil
	})
}

// WriterConfig holds the settings of a Writer.
type WriterConfig struct {
	cblocks         bool
	libraryNameProp bool
	codec           compress.DeflateCodec
}

func newWriterConfig() *WriterConfig {
	return &WriterConfig{
		libraryNameProp: true,
		codec:           compress.NewDefaultDeflateCodec(),
	}
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*WriterConfig]

// WithCBlocks wraps every cell in a DEFLATE compressed CBLOCK when enabled.
func WithCBlocks(enabled bool) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.cblocks = enabled
	})
}

// WithCompressionLevel sets the DEFLATE level used for CBLOCKs, from
// flate.HuffmanOnly to flate.BestCompression.
func WithCompressionLevel(level int) WriterOption {
	return options.New(func(c *WriterConfig) error {
		codec, err := compress.NewDeflateCodec(level)
		if err != nil {
			return err
		}
		c.codec = codec

		return nil
	})
}

// WithLibraryNameString controls whether the library name is stored as the
// first PROPSTRING record. It is enabled by default; without it readers
// name the library after its first cell.
func WithLibraryNameString(enabled bool) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.libraryNameProp = enabled
	})
}

// DefaultCompressionLevel is the CBLOCK level used unless configured.
const DefaultCompressionLevel = flate.DefaultCompression
