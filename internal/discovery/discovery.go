// Package discovery finds the branch/test hierarchy of a load-test results
// tree: <root>/<branch>/<test>.json.
package discovery

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spboyer/loadcsv/internal/fsio"
)

// Branch is a directory of test reports directly under the source root.
type Branch struct {
	Name string // directory name, reused as the output subdirectory
	Dir  string // path to the branch directory
}

// Test is a single report file inside a branch.
type Test struct {
	Name string // filename without its extension(s)
	Path string // path to the report file
}

// Discoverer lists branches and tests through an [fsio.FS].
type Discoverer struct {
	fs fsio.FS
}

// New returns a Discoverer reading from fsys.
func New(fsys fsio.FS) *Discoverer {
	return &Discoverer{fs: fsys}
}

// Branches lists the branch directories under root, sorted by name.
// Hidden entries are skipped. Any other non-directory entry is an error.
func (d *Discoverer) Branches(root string) ([]Branch, error) {
	entries, err := d.fs.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("listing source root %s: %w", root, err)
	}

	var branches []Branch
	for _, e := range entries {
		if isHidden(e.Name()) {
			continue
		}
		if !e.IsDir() {
			return nil, fmt.Errorf("source root entry %q is not a directory", e.Name())
		}
		branches = append(branches, Branch{
			Name: e.Name(),
			Dir:  filepath.Join(root, e.Name()),
		})
	}

	slices.SortFunc(branches, func(a, b Branch) int {
		return strings.Compare(a.Name, b.Name)
	})
	return branches, nil
}

// Tests lists the report files of a branch, sorted by test name.
// Subdirectories and hidden files are skipped. Two files that map to the
// same test name (e.g. checkout.json and checkout.json.gz) are an error,
// since both would write the same CSV.
func (d *Discoverer) Tests(branch Branch) ([]Test, error) {
	entries, err := d.fs.ReadDir(branch.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing branch %s: %w", branch.Name, err)
	}

	var tests []Test
	seen := make(map[string]string)
	for _, e := range entries {
		if isHidden(e.Name()) {
			continue
		}
		if e.IsDir() {
			slog.Debug("Skipping directory inside branch", "branch", branch.Name, "dir", e.Name())
			continue
		}

		name := TestName(e.Name())
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("branch %s: %q and %q both map to test %q", branch.Name, prev, e.Name(), name)
		}
		seen[name] = e.Name()

		tests = append(tests, Test{
			Name: name,
			Path: filepath.Join(branch.Dir, e.Name()),
		})
	}

	slices.SortFunc(tests, func(a, b Test) int {
		return strings.Compare(a.Name, b.Name)
	})
	return tests, nil
}

// TestName derives a test name from a report filename by removing its
// extension. A compression suffix is removed first, so checkout.json.gz
// and checkout.json both name the test "checkout".
func TestName(filename string) string {
	base, _ := fsio.TrimCompression(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
