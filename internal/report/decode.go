// Package report reads artillery JSON reports: it decodes them keeping
// number literals intact, checks their shape against a JSON Schema and
// maps them onto [models.Report].
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/loadcsv/internal/models"
)

// IntervalsField is the top-level field holding the interval records.
const IntervalsField = "intermediate"

// ErrNoIntervals is returned by [Decode] when the document has no
// interval record array.
var ErrNoIntervals = errors.New("report has no " + IntervalsField + " array")

// Decode parses a JSON report. Numbers are kept as json.Number so their
// text is written to the CSV unchanged.
func Decode(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: trailing data after report")
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: document is not an object", ErrNoIntervals)
	}
	if _, ok := obj[IntervalsField].([]any); !ok {
		return nil, ErrNoIntervals
	}
	return doc, nil
}

// Parse maps a decoded (and validated) document onto a [models.Report].
// The first interval record is never converted, so it is left as a zero
// value whatever its shape.
func Parse(doc any) (*models.Report, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: document is not an object", ErrNoIntervals)
	}
	records, ok := obj[IntervalsField].([]any)
	if !ok {
		return nil, ErrNoIntervals
	}

	rep := &models.Report{Intermediate: make([]models.IntervalRecord, len(records))}
	for i := 1; i < len(records); i++ {
		if err := mapstructure.Decode(records[i], &rep.Intermediate[i]); err != nil {
			return nil, fmt.Errorf("decoding %s[%d]: %w", IntervalsField, i, err)
		}
	}
	return rep, nil
}
