package fsio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"intermediate":[]}`

func readAll(t *testing.T, path string) string {
	t.Helper()
	rc, err := OS{}.Open(path)
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestOpen_Plain(t *testing.T) {
	p := filepath.Join(t.TempDir(), "checkout.json")
	require.NoError(t, os.WriteFile(p, []byte(payload), 0o644))

	assert.Equal(t, payload, readAll(t, p))
}

func TestOpen_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	p := filepath.Join(t.TempDir(), "checkout.json.gz")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))

	assert.Equal(t, payload, readAll(t, p))
}

func TestOpen_Zstd(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte(payload), nil)
	require.NoError(t, enc.Close())

	p := filepath.Join(t.TempDir(), "checkout.json.zst")
	require.NoError(t, os.WriteFile(p, compressed, 0o644))

	assert.Equal(t, payload, readAll(t, p))
}

func TestOpen_CorruptGzip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.json.gz")
	require.NoError(t, os.WriteFile(p, []byte("not gzip"), 0o644))

	_, err := OS{}.Open(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestOpen_Missing(t *testing.T) {
	_, err := OS{}.Open(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteAndAppend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "main")
	require.NoError(t, OS{}.MkdirAll(dir))
	require.NoError(t, OS{}.MkdirAll(dir), "MkdirAll must be idempotent")

	p := filepath.Join(dir, "checkout.csv")
	require.NoError(t, OS{}.AppendFile(p, []byte("a\n")))
	require.NoError(t, OS{}.AppendFile(p, []byte("b\n")))

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))

	require.NoError(t, OS{}.WriteFile(p, []byte("c\n")))
	data, err = os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "c\n", string(data))
}

func TestTrimCompression(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"checkout.json", "checkout.json", false},
		{"checkout.json.gz", "checkout.json", true},
		{"checkout.json.zst", "checkout.json", true},
		{"gz", "gz", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := TrimCompression(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
