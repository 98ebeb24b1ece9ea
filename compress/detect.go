package compress

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/arloliu/maskio/format"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	s2Magic   = []byte("\xff\x06\x00\x00S2sTwO")
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// DetectContainer identifies the container format of data from its leading
// magic bytes. Unrecognized data is reported as ContainerNone.
func DetectContainer(data []byte) format.Container {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return format.ContainerGzip
	case bytes.HasPrefix(data, zstdMagic):
		return format.ContainerZstd
	case bytes.HasPrefix(data, s2Magic):
		return format.ContainerS2
	case bytes.HasPrefix(data, lz4Magic):
		return format.ContainerLZ4
	default:
		return format.ContainerNone
	}
}

// ContainerFromPath maps a file name extension to a container format.
func ContainerFromPath(path string) format.Container {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return format.ContainerGzip
	case ".zst", ".zstd":
		return format.ContainerZstd
	case ".s2":
		return format.ContainerS2
	case ".lz4":
		return format.ContainerLZ4
	default:
		return format.ContainerNone
	}
}
