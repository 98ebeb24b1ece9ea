package gdsii

import (
	"time"

	"github.com/arloliu/maskio/internal/options"
)

// Version is the stream version written in the HEADER record.
const Version = 600

// WriterConfig holds the settings of a Writer.
type WriterConfig struct {
	modTime time.Time
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*WriterConfig]

// WithModTime sets the modification and access time stored in BGNLIB and
// BGNSTR. Without it the fields are zero, which keeps output reproducible.
func WithModTime(t time.Time) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.modTime = t
	})
}
