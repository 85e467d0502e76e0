package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spboyer/loadcsv/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

const schemaURL = "report.schema.json"

// ValidationError lists every place a report breaks the expected shape.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "report does not match schema: " + strings.Join(e.Problems, "; ")
}

// Validator checks reports for a single summary key.
type Validator struct {
	summaryKey string
	schema     *jsonschema.Schema
}

// NewValidator compiles the report schema for summaryKey.
func NewValidator(summaryKey string) (*Validator, error) {
	if summaryKey == "" {
		return nil, errors.New("summary key must not be empty")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schemaDocument(summaryKey)); err != nil {
		return nil, fmt.Errorf("adding report schema: %w", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling report schema: %w", err)
	}
	return &Validator{summaryKey: summaryKey, schema: sch}, nil
}

// SummaryKey returns the summary the validator requires.
func (v *Validator) SummaryKey() string {
	return v.summaryKey
}

// Validate returns a *ValidationError if any interval record after the
// first lacks the summary or one of the metrics. The first record is never
// converted, so it is not checked.
func (v *Validator) Validate(doc any) error {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &ValidationError{Problems: []string{fmt.Sprintf("schema: %v", err)}}
	}
	var problems []string
	collectSchemaErrors(ve, &problems)
	return &ValidationError{Problems: problems}
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// schemaDocument builds the JSON Schema from models.Metrics so the checked
// fields always match the written columns.
func schemaDocument(summaryKey string) map[string]any {
	metricProps := make(map[string]any, len(models.Metrics))
	required := make([]any, 0, len(models.Metrics))
	for _, m := range models.Metrics {
		metricProps[m] = map[string]any{"type": "number"}
		required = append(required, m)
	}

	record := map[string]any{
		"type":     "object",
		"required": []any{"summaries"},
		"properties": map[string]any{
			"summaries": map[string]any{
				"type":     "object",
				"required": []any{summaryKey},
				"properties": map[string]any{
					summaryKey: map[string]any{
						"type":       "object",
						"required":   required,
						"properties": metricProps,
					},
				},
			},
		},
	}

	return map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"type":     "object",
		"required": []any{IntervalsField},
		"properties": map[string]any{
			IntervalsField: map[string]any{
				"type":        "array",
				"prefixItems": []any{true},
				"items":       record,
			},
		},
	}
}
