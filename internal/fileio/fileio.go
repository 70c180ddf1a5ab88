// Package fileio holds small helpers for reading the text formats the
// pipelines consume: transparently decompressed readers and plain
// multi-FASTA files.
package fileio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	gzip "github.com/klauspost/pgzip"
)

// Open returns a reader for path, transparently decompressing files
// ending in .gz or .bz2. The caller owns the returned closer.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		reader, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		return &wrappedCloser{Reader: reader, file: file}, nil

	case strings.HasSuffix(path, ".bz2"):
		reader, err := bzip2.NewReader(file, new(bzip2.ReaderConfig))
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("opening bzip2 stream %s: %w", path, err)
		}
		return &wrappedCloser{Reader: reader, file: file}, nil

	default:
		return file, nil
	}
}

// wrappedCloser closes both the decompressor and the underlying file.
type wrappedCloser struct {
	io.Reader
	file *os.File
}

func (w *wrappedCloser) Close() error {
	if closer, ok := w.Reader.(io.Closer); ok {
		closer.Close()
	}
	return w.file.Close()
}
