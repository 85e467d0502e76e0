// Package dataset renders extracted rows as CSV and writes them to the
// output tree, mirroring the <branch>/<test> layout of the source tree.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"iter"
	"path/filepath"

	"github.com/spboyer/loadcsv/internal/fsio"
	"github.com/spboyer/loadcsv/internal/models"
)

// Ext is the extension of every output file.
const Ext = ".csv"

// Mode controls what happens to an output file that already exists.
type Mode string

const (
	// ModeTruncate replaces the file, so re-runs produce the same output.
	ModeTruncate Mode = "truncate"

	// ModeAppend adds a header and rows after any existing content.
	ModeAppend Mode = "append"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTruncate, ModeAppend:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unsupported output mode %q: must be %s or %s", s, ModeTruncate, ModeAppend)
	}
}

// Render writes the header and one line per row into memory. It consumes
// rows until the first error, which is returned without any partial output.
func Render(rows iter.Seq2[models.Row, error]) ([]byte, int, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(models.Header()); err != nil {
		return nil, 0, fmt.Errorf("csv: header: %w", err)
	}

	n := 0
	for row, err := range rows {
		if err != nil {
			return nil, 0, err
		}
		if err := w.Write(row.Record()); err != nil {
			return nil, 0, fmt.Errorf("csv: row %d: %w", row.Index, err)
		}
		n++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, fmt.Errorf("csv: flush: %w", err)
	}
	return buf.Bytes(), n, nil
}

// Writer places rendered CSV files under an output root.
type Writer struct {
	fs   fsio.FS
	root string
	mode Mode
}

// NewWriter returns a Writer for root using mode.
func NewWriter(fsys fsio.FS, root string, mode Mode) *Writer {
	return &Writer{fs: fsys, root: root, mode: mode}
}

// Dir returns the output directory of a branch.
func (w *Writer) Dir(branch string) string {
	return filepath.Join(w.root, branch)
}

// Path returns the output file of a test.
func (w *Writer) Path(branch, test string) string {
	return filepath.Join(w.root, branch, test+Ext)
}

// EnsureDir creates the output directory of a branch. It is a no-op if the
// directory already exists.
func (w *Writer) EnsureDir(branch string) error {
	dir := w.Dir(branch)
	if err := w.fs.MkdirAll(dir); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// Write stores a rendered CSV body for a test and returns its path.
func (w *Writer) Write(branch, test string, body []byte) (string, error) {
	p := w.Path(branch, test)

	var err error
	if w.mode == ModeAppend {
		err = w.fs.AppendFile(p, body)
	} else {
		err = w.fs.WriteFile(p, body)
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", p, err)
	}
	return p, nil
}
