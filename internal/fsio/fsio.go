// Package fsio is the filesystem capability the converter consumes: list
// directories, read report files, create output directories and write or
// append CSV bytes.
package fsio

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

//go:generate go tool mockgen -destination=fsiomock/mock_fs.go -package=fsiomock . FS

// FS is implemented by [OS]. Tests swap in fsiomock.MockFS.
type FS interface {
	// ReadDir lists a directory in the order the OS returns it.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Open opens a report file, transparently decompressing .gz and .zst files.
	Open(name string) (io.ReadCloser, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error

	// WriteFile creates or truncates name and writes data.
	WriteFile(name string, data []byte) error

	// AppendFile appends data to name, creating it if needed.
	AppendFile(name string, data []byte) error
}

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Compression suffixes recognized by [OS.Open].
const (
	SuffixGzip = ".gz"
	SuffixZstd = ".zst"
)

// TrimCompression strips a recognized compression suffix from name.
func TrimCompression(name string) (string, bool) {
	for _, suffix := range []string{SuffixGzip, SuffixZstd} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			return trimmed, true
		}
	}
	return name, false
}

// OS is the real filesystem.
type OS struct{}

var _ FS = OS{}

func (OS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (OS) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(name, SuffixGzip):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("gzip %s: %w", name, err)
		}
		return &decompressReader{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case strings.HasSuffix(name, SuffixZstd):
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("zstd %s: %w", name, err)
		}
		closeDecoder := func() error {
			zr.Close()
			return nil
		}
		return &decompressReader{Reader: zr, closers: []func() error{closeDecoder, f.Close}}, nil
	default:
		return f, nil
	}
}

func (OS) MkdirAll(path string) error {
	return os.MkdirAll(path, dirPerm)
}

func (OS) WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, filePerm)
}

func (OS) AppendFile(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return f.Close()
}

// decompressReader closes the decompressor and then the underlying file.
type decompressReader struct {
	io.Reader
	closers []func() error
}

func (r *decompressReader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
