// Package compress provides the compression codecs used by the layout readers
// and writers.
//
// Two unrelated concerns share the package:
//
//  1. OASIS CBLOCK records, which wrap a raw DEFLATE stream standing in for a
//     run of records. DeflateCodec implements compression type 0, the only
//     one the format defines.
//  2. Whole-file containers. Layout files are routinely distributed as
//     `.oas.gz` or `.gds.zst`; CreateContainerCodec and DetectContainer let
//     the top-level file helpers read and write them transparently.
//
// Every codec implements the same pair of interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
// # Containers
//
//	codec, _ := compress.CreateContainerCodec(format.ContainerGzip)
//	packed, _ := codec.Compress(oasisBytes)
//	unpacked, _ := codec.Decompress(packed)
//
// Zstd uses klauspost/compress/zstd unless the module is built with the
// `cgozstd` tag, which switches to valyala/gozstd.
//
// # Thread Safety
//
// All codecs are stateless values; pooled encoders and decoders make them
// safe for concurrent use.
package compress
