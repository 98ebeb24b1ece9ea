package compress

import (
	"fmt"

	"github.com/arloliu/maskio/format"
)

// Compressor compresses a complete payload in one call.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Implementations validate their input format and return an error for
// corrupted data or data produced by a different algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateContainerCodec returns a Codec for a whole-file container format.
//
// Parameters:
//   - container: Container format (None, Gzip, Zstd, S2 or LZ4)
//
// Returns:
//   - Codec: Codec instance for the container
//   - error: Unsupported container error
func CreateContainerCodec(container format.Container) (Codec, error) {
	switch container {
	case format.ContainerNone:
		return NewNoOpCompressor(), nil
	case format.ContainerGzip:
		return NewGzipCompressor(), nil
	case format.ContainerZstd:
		return NewZstdCompressor(), nil
	case format.ContainerS2:
		return NewS2Compressor(), nil
	case format.ContainerLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid container: %s", container)
	}
}
