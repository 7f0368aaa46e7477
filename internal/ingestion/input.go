package ingestion

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrInputTooLarge is returned by a reader from LimitDecoded once the decoded
// stream passes its cap.
var ErrInputTooLarge = errors.New("decoded input exceeds maximum allowed size")

// Compression is how an input stream is encoded.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// CompressionFromPath picks the decoder from the file extension.
func CompressionFromPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	}
	return CompressionNone
}

// ParseCompression maps a Content-Encoding value. Unknown encodings fail.
func ParseCompression(encoding string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return CompressionNone, nil
	case "gzip", "x-gzip":
		return CompressionGzip, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return CompressionNone, fmt.Errorf("unsupported content encoding %q", encoding)
}

// Decompress wraps r with the decoder for c. Closing the result does not
// close r.
func Decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}

// OpenInput opens a JSONL file, decompressing .gz and .zst inputs.
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	r, err := Decompress(f, CompressionFromPath(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &inputFile{ReadCloser: r, file: f}, nil
}

type inputFile struct {
	io.ReadCloser
	file *os.File
}

func (f *inputFile) Close() error {
	err := f.ReadCloser.Close()
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// LimitDecoded caps the bytes read from a decoded stream. Reading past max
// fails with ErrInputTooLarge instead of truncating silently.
func LimitDecoded(rc io.ReadCloser, max int64) io.ReadCloser {
	return &limitedInput{ReadCloser: rc, remaining: max}
}

type limitedInput struct {
	io.ReadCloser
	remaining int64
}

func (l *limitedInput) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var probe [1]byte
		n, err := l.ReadCloser.Read(probe[:])
		if n > 0 {
			return 0, ErrInputTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.ReadCloser.Read(p)
	l.remaining -= int64(n)
	return n, err
}
