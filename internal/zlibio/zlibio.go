// Package zlibio wraps zlib-format compression for PVRZ and MOSC payloads
// behind the two-operation interface spec'd for the compression adapter:
// Inflate(src, expectedSize) and Deflate(src). Both are deterministic and
// stateless, matching the original tool's Compression::inflate/deflate.
package zlibio

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// ErrCorruptCompressed is wrapped and returned when a decompressed stream's
// length does not match the caller-supplied expected size.
var ErrCorruptCompressed = fmt.Errorf("zlibio: corrupt compressed stream")

// Inflate decompresses a zlib stream, failing unless the result is exactly
// expectedSize bytes long.
func Inflate(src []byte, expectedSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCompressed, err)
	}
	defer zr.Close()

	out := make([]byte, 0, expectedSize)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCompressed, err)
	}

	if buf.Len() != expectedSize {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrCorruptCompressed, buf.Len(), expectedSize)
	}
	return buf.Bytes(), nil
}

// Deflate compresses src as a zlib stream at default compression level.
// Never fails on well-formed input.
func Deflate(src []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(src)
	_ = zw.Close()
	return buf.Bytes()
}
