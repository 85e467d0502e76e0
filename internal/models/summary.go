package models

// RunSummary describes what a conversion run produced.
type RunSummary struct {
	SourceRoot string          `json:"source_root"`
	OutputRoot string          `json:"output_root"`
	DryRun     bool            `json:"dry_run,omitempty"`
	Branches   []BranchSummary `json:"branches"`
	TotalTests int             `json:"total_tests"`
	TotalRows  int             `json:"total_rows"`
}

// BranchSummary lists the tests converted for one branch.
type BranchSummary struct {
	Name  string        `json:"name"`
	Tests []TestSummary `json:"tests"`
}

// TestSummary is the result of converting a single report file.
type TestSummary struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Output string `json:"output,omitempty"`
	Rows   int    `json:"rows"`
}

// Add records a converted test under its branch, keeping branch order
// as first seen.
func (s *RunSummary) Add(branch string, test TestSummary) {
	s.TotalTests++
	s.TotalRows += test.Rows
	for i := range s.Branches {
		if s.Branches[i].Name == branch {
			s.Branches[i].Tests = append(s.Branches[i].Tests, test)
			return
		}
	}
	s.Branches = append(s.Branches, BranchSummary{Name: branch, Tests: []TestSummary{test}})
}

// AddBranch registers a branch even if it ends up with no tests.
func (s *RunSummary) AddBranch(branch string) {
	for _, b := range s.Branches {
		if b.Name == branch {
			return
		}
	}
	s.Branches = append(s.Branches, BranchSummary{Name: branch, Tests: []TestSummary{}})
}
