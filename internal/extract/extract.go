// Package extract turns the interval records of a report into CSV rows.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strconv"

	"github.com/spboyer/loadcsv/internal/models"
)

// ErrMissingField is wrapped by every extraction failure caused by an
// absent summary or metric.
var ErrMissingField = errors.New("missing field")

// Rows yields one row per interval record, skipping the first record (the
// warm-up bucket). Row indices are the record positions 1..n-1. Iteration
// stops at the first error.
func Rows(rep *models.Report, summaryKey string) iter.Seq2[models.Row, error] {
	return func(yield func(models.Row, error) bool) {
		for i := 1; i < len(rep.Intermediate); i++ {
			row, err := rowAt(rep.Intermediate[i], i, summaryKey)
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

func rowAt(rec models.IntervalRecord, index int, summaryKey string) (models.Row, error) {
	summary, ok := rec.Summaries[summaryKey].(map[string]any)
	if !ok {
		return models.Row{}, fmt.Errorf("record %d: summary %q: %w", index, summaryKey, ErrMissingField)
	}

	values := make([]string, 0, len(models.Metrics))
	for _, metric := range models.Metrics {
		raw, ok := summary[metric]
		if !ok {
			return models.Row{}, fmt.Errorf("record %d: %s.%s: %w", index, summaryKey, metric, ErrMissingField)
		}
		text, err := numberText(raw)
		if err != nil {
			return models.Row{}, fmt.Errorf("record %d: %s.%s: %w", index, summaryKey, metric, err)
		}
		values = append(values, text)
	}

	return models.Row{Index: index, Values: values}, nil
}

// numberText renders a decoded JSON number. json.Number keeps the literal
// from the source file.
func numberText(v any) (string, error) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), nil
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	default:
		return "", fmt.Errorf("value %v (%T) is not a number", v, v)
	}
}
