package report

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spboyer/loadcsv/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullSummary = `{"min":1,"max":2,"count":3,"mean":4.5,"p50":5,"median":6,"p75":7,"p90":8,"p95":9,"p99":10,"p999":11}`

func record(summary string) string {
	return `{"counters":{"http.requests":10},"summaries":{"http.response_time":` + summary + `}}`
}

func document(records ...string) string {
	return `{"aggregate":{},"intermediate":[` + strings.Join(records, ",") + `]}`
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(models.DefaultSummaryKey)
	require.NoError(t, err)
	return v
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		noIntvl bool
	}{
		{name: "valid", input: document(record(fullSummary))},
		{name: "empty intervals", input: `{"intermediate":[]}`},
		{name: "not json", input: `{"intermediate":`, wantErr: "invalid JSON"},
		{name: "trailing data", input: `{"intermediate":[]} {}`, wantErr: "trailing data"},
		{name: "array document", input: `[1,2]`, wantErr: "not an object", noIntvl: true},
		{name: "missing intermediate", input: `{"aggregate":{}}`, wantErr: "no intermediate array", noIntvl: true},
		{name: "intermediate not array", input: `{"intermediate":{}}`, wantErr: "no intermediate array", noIntvl: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.noIntvl, errors.Is(err, ErrNoIntervals))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, doc)
		})
	}
}

func TestDecode_KeepsNumberText(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"intermediate":[{"x":12.50},{"y":1e3}]}`))
	require.NoError(t, err)

	recs := doc.(map[string]any)["intermediate"].([]any)
	assert.Equal(t, json.Number("12.50"), recs[0].(map[string]any)["x"])
	assert.Equal(t, json.Number("1e3"), recs[1].(map[string]any)["y"])
}

func TestValidate_Valid(t *testing.T) {
	v := newValidator(t)
	doc, err := Decode(strings.NewReader(document(record(fullSummary), record(fullSummary))))
	require.NoError(t, err)
	assert.NoError(t, v.Validate(doc))
}

func TestValidate_FirstRecordNotChecked(t *testing.T) {
	v := newValidator(t)
	doc, err := Decode(strings.NewReader(document(`{"summaries":{}}`, record(fullSummary))))
	require.NoError(t, err)
	assert.NoError(t, v.Validate(doc))
}

func TestValidate_SingleRecord(t *testing.T) {
	v := newValidator(t)
	doc, err := Decode(strings.NewReader(document(`{}`)))
	require.NoError(t, err)
	assert.NoError(t, v.Validate(doc))
}

func TestValidate_MissingMetric(t *testing.T) {
	v := newValidator(t)
	missingP999 := strings.Replace(fullSummary, `,"p999":11`, "", 1)
	doc, err := Decode(strings.NewReader(document(record(fullSummary), record(fullSummary), record(missingP999))))
	require.NoError(t, err)

	err = v.Validate(doc)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotEmpty(t, ve.Problems)
	assert.Contains(t, ve.Problems[0], "/intermediate/2/summaries/http.response_time")
	assert.Contains(t, ve.Error(), "p999")
}

func TestValidate_MissingSummary(t *testing.T) {
	v := newValidator(t)
	doc, err := Decode(strings.NewReader(document(record(fullSummary), `{"summaries":{"vusers.session_length":{"min":1}}}`)))
	require.NoError(t, err)

	err = v.Validate(doc)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "/intermediate/1/summaries")
	assert.Contains(t, ve.Error(), "http.response_time")
}

func TestValidate_NonNumericMetric(t *testing.T) {
	v := newValidator(t)
	bad := strings.Replace(fullSummary, `"mean":4.5`, `"mean":"fast"`, 1)
	doc, err := Decode(strings.NewReader(document(record(fullSummary), record(bad))))
	require.NoError(t, err)

	err = v.Validate(doc)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "/intermediate/1/summaries/http.response_time/mean")
}

func TestValidate_CustomSummaryKey(t *testing.T) {
	v, err := NewValidator("vusers.session_length")
	require.NoError(t, err)
	assert.Equal(t, "vusers.session_length", v.SummaryKey())

	doc, err := Decode(strings.NewReader(document(record(fullSummary), record(fullSummary))))
	require.NoError(t, err)
	assert.Error(t, v.Validate(doc), "http.response_time does not satisfy a different key")
}

func TestNewValidator_EmptyKey(t *testing.T) {
	_, err := NewValidator("")
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	doc, err := Decode(strings.NewReader(document(record(fullSummary), record(fullSummary))))
	require.NoError(t, err)

	rep, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, rep.Intermediate, 2)

	summary, ok := rep.Intermediate[1].Summaries[models.DefaultSummaryKey].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("4.5"), summary["mean"])
	assert.Equal(t, json.Number("11"), summary["p999"])
}

func TestParse_IgnoresWarmupAndOtherSummaries(t *testing.T) {
	tests := []struct {
		name   string
		warmup string
	}{
		{"scalar", `"warmup"`},
		{"summaries array", `{"summaries":[]}`},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := `{"summaries":{"vusers.created":5,"http.response_time":` + fullSummary + `}}`
			doc, err := Decode(strings.NewReader(document(tt.warmup, rec)))
			require.NoError(t, err)
			require.NoError(t, newValidator(t).Validate(doc))

			rep, err := Parse(doc)
			require.NoError(t, err)
			require.Len(t, rep.Intermediate, 2)
			assert.Empty(t, rep.Intermediate[0].Summaries)
			assert.Equal(t, json.Number("5"), rep.Intermediate[1].Summaries["vusers.created"])
		})
	}
}
