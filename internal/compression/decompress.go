// Package compression transparently unwraps gzip, xz and bzip2 compressed sources.
package compression

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/spritetint/internal/security"
)

// MaxDecompressedSize bounds the output of a single source.
const MaxDecompressedSize = 32 * 1024 * 1024

// ErrUnsupported is returned by DecompressAs for an unknown format.
var ErrUnsupported = errors.New("unsupported compression format")

// Format identifies a compression wrapper.
type Format string

// Supported formats.
const (
	None  Format = ""
	Gzip  Format = "gzip"
	Xz    Format = "xz"
	Bzip2 Format = "bzip2"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	bzip2Magic = []byte("BZh")
)

// Detect returns the compression format of data from its magic bytes.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip
	case bytes.HasPrefix(data, xzMagic):
		return Xz
	case bytes.HasPrefix(data, bzip2Magic):
		return Bzip2
	default:
		return None
	}
}

// Decompress unwraps data if it carries a known compression header.
// Uncompressed data is returned unchanged with format None.
func Decompress(data []byte) ([]byte, Format, error) {
	format := Detect(data)
	if format == None {
		return data, None, nil
	}
	out, err := DecompressAs(data, format)
	return out, format, err
}

// DecompressAs unwraps data using the given format.
func DecompressAs(data []byte, format Format) ([]byte, error) {
	var (
		r   io.Reader
		err error
	)
	switch format {
	case None:
		return data, nil
	case Gzip:
		gzr, gzErr := gzip.NewReader(bytes.NewReader(data))
		if gzErr != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", gzErr)
		}
		defer gzr.Close()
		r = gzr
	case Xz:
		r, err = xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
	case Bzip2:
		r = bzip2.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, format)
	}

	out, err := io.ReadAll(security.NewLimitedReader(r, MaxDecompressedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s data: %w", format, err)
	}
	return out, nil
}
