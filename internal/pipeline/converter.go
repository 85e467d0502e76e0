// Package pipeline drives a conversion run: discover branches and tests,
// decode and validate each report, extract its rows and write the CSV.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spboyer/loadcsv/internal/dataset"
	"github.com/spboyer/loadcsv/internal/discovery"
	"github.com/spboyer/loadcsv/internal/extract"
	"github.com/spboyer/loadcsv/internal/fsio"
	"github.com/spboyer/loadcsv/internal/models"
	"github.com/spboyer/loadcsv/internal/report"
)

// Options configures a run.
type Options struct {
	SourceRoot string
	OutputRoot string
	Mode       dataset.Mode
	SummaryKey string

	// DryRun validates every report without creating directories or files.
	DryRun bool
}

// Converter runs the pipeline sequentially, one report at a time.
type Converter struct {
	opts      Options
	fs        fsio.FS
	discover  *discovery.Discoverer
	validator *report.Validator
	writer    *dataset.Writer
	logger    *slog.Logger
}

// New validates opts and prepares a Converter. A nil logger uses slog.Default().
func New(fsys fsio.FS, opts Options, logger *slog.Logger) (*Converter, error) {
	if opts.SourceRoot == "" {
		return nil, errors.New("source root is required")
	}
	if opts.OutputRoot == "" && !opts.DryRun {
		return nil, errors.New("output root is required")
	}
	if opts.SummaryKey == "" {
		opts.SummaryKey = models.DefaultSummaryKey
	}
	if opts.Mode == "" {
		opts.Mode = dataset.ModeTruncate
	}
	if _, err := dataset.ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}

	validator, err := report.NewValidator(opts.SummaryKey)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Converter{
		opts:      opts,
		fs:        fsys,
		discover:  discovery.New(fsys),
		validator: validator,
		writer:    dataset.NewWriter(fsys, opts.OutputRoot, opts.Mode),
		logger:    logger,
	}, nil
}

// Run converts every test of every branch. It stops at the first failure
// and returns it as a *ConvertError; the summary covers the tests written
// before that point.
func (c *Converter) Run(ctx context.Context) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		SourceRoot: c.opts.SourceRoot,
		OutputRoot: c.opts.OutputRoot,
		DryRun:     c.opts.DryRun,
		Branches:   []models.BranchSummary{},
	}

	branches, err := c.discover.Branches(c.opts.SourceRoot)
	if err != nil {
		return summary, &ConvertError{Kind: KindDiscovery, Err: err}
	}
	c.logger.Info("Found branches", "source", c.opts.SourceRoot, "count", len(branches))

	for _, branch := range branches {
		if err := c.runBranch(ctx, branch, summary); err != nil {
			return summary, err
		}
	}

	c.logger.Info("Conversion finished", "tests", summary.TotalTests, "rows", summary.TotalRows)
	return summary, nil
}

func (c *Converter) runBranch(ctx context.Context, branch discovery.Branch, summary *models.RunSummary) error {
	tests, err := c.discover.Tests(branch)
	if err != nil {
		return &ConvertError{Kind: KindDiscovery, Branch: branch.Name, Err: err}
	}

	names := make([]string, 0, len(tests))
	for _, t := range tests {
		names = append(names, t.Name)
	}
	c.logger.Info("Processing branch", "branch", branch.Name, "tests", names)

	if !c.opts.DryRun {
		if err := c.writer.EnsureDir(branch.Name); err != nil {
			return &ConvertError{Kind: KindWrite, Branch: branch.Name, Err: err}
		}
	}
	summary.AddBranch(branch.Name)

	for _, test := range tests {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("conversion interrupted before %s/%s: %w", branch.Name, test.Name, err)
		}

		result, err := c.runTest(branch, test)
		if err != nil {
			return err
		}
		summary.Add(branch.Name, result)
	}
	return nil
}

func (c *Converter) runTest(branch discovery.Branch, test discovery.Test) (models.TestSummary, error) {
	fail := func(kind Kind, err error) (models.TestSummary, error) {
		return models.TestSummary{}, &ConvertError{Kind: kind, Branch: branch.Name, Test: test.Name, Err: err}
	}

	c.logger.Info("Processing test", "branch", branch.Name, "test", test.Name, "source", test.Path)

	doc, err := c.load(test.Path)
	if err != nil {
		var pe *parseError
		if errors.As(err, &pe) {
			return fail(KindParse, pe.err)
		}
		return fail(KindDiscovery, err)
	}

	if err := c.validator.Validate(doc); err != nil {
		return fail(KindSchema, err)
	}

	rep, err := report.Parse(doc)
	if err != nil {
		return fail(KindParse, err)
	}

	body, n, err := dataset.Render(extract.Rows(rep, c.validator.SummaryKey()))
	if err != nil {
		return fail(KindSchema, err)
	}
	c.logger.Debug("Extracted rows", "branch", branch.Name, "test", test.Name, "rows", n)

	result := models.TestSummary{Name: test.Name, Source: test.Path, Rows: n}
	if c.opts.DryRun {
		return result, nil
	}

	out, err := c.writer.Write(branch.Name, test.Name, body)
	if err != nil {
		return fail(KindWrite, err)
	}
	c.logger.Info("Wrote CSV", "branch", branch.Name, "test", test.Name+dataset.Ext, "rows", n)
	result.Output = out
	return result, nil
}

// parseError marks a failure to decode a report that was read successfully.
type parseError struct {
	err error
}

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

func (c *Converter) load(path string) (any, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	doc, err := report.Decode(f)
	if err != nil {
		return nil, &parseError{err: err}
	}
	return doc, nil
}
