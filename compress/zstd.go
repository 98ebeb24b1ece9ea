package compress

// ZstdCompressor handles `.zst` layout files.
//
// The pure Go implementation (klauspost/compress/zstd) is used by default;
// building with `-tags cgozstd` switches to the cgo binding (valyala/gozstd).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
