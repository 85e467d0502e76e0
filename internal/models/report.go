package models

import "strconv"

// DefaultSummaryKey is the artillery summary the latency columns are read from.
const DefaultSummaryKey = "http.response_time"

// IndexColumn is the first CSV column. It holds the record position.
const IndexColumn = "id"

// Metrics is the ordered list of latency statistics written for every
// interval record. Both the header and the data rows are built from it.
var Metrics = []string{
	"min",
	"max",
	"count",
	"mean",
	"p50",
	"median",
	"p75",
	"p90",
	"p95",
	"p99",
	"p999",
}

// Header returns the CSV header row: the index column followed by Metrics.
func Header() []string {
	header := make([]string, 0, len(Metrics)+1)
	header = append(header, IndexColumn)
	return append(header, Metrics...)
}

// Report is the part of an artillery JSON report that gets converted.
// Everything besides the intermediate records is ignored. The first record
// is the warm-up bucket; it is kept as a zero value so indices match the
// source positions.
type Report struct {
	Intermediate []IntervalRecord `mapstructure:"intermediate"`
}

// IntervalRecord is one time bucket of a load test run.
type IntervalRecord struct {
	// Summaries maps a summary name (e.g. "http.response_time") to its
	// statistics. Only the converted summary has to be an object; numbers
	// are json.Number when decoded from a file.
	Summaries map[string]any `mapstructure:"summaries"`
}

// Row is one CSV data line: the record position and its metric values in
// Metrics order.
type Row struct {
	Index  int
	Values []string
}

// Record returns the row as CSV fields.
func (r Row) Record() []string {
	rec := make([]string, 0, len(r.Values)+1)
	rec = append(rec, strconv.Itoa(r.Index))
	return append(rec, r.Values...)
}
