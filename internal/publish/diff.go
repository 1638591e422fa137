package publish

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/dgallion1/flagdoc/internal/render"
)

// Diff compares pages with the files under dir and returns one unified diff
// per page that is missing or different, in page order.
func Diff(dir string, pages []render.Page) ([]string, error) {
	var diffs []string
	for _, p := range pages {
		path, err := pagePath(dir, p)
		if err != nil {
			return nil, err
		}
		old, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", p.Path, err)
		}
		if err == nil && string(old) == string(p.Content) {
			continue
		}

		from := "a/" + p.Path
		if old == nil {
			from = "/dev/null"
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(old)),
			B:        difflib.SplitLines(string(p.Content)),
			FromFile: from,
			ToFile:   "b/" + p.Path,
			Context:  3,
		})
		if err != nil {
			return nil, fmt.Errorf("diff %s: %w", p.Path, err)
		}
		diffs = append(diffs, text)
	}
	return diffs, nil
}

// Check returns an error wrapping ErrOutOfDate, with the diffs attached, when
// the output directory does not match pages.
func Check(dir string, pages []render.Page) error {
	diffs, err := Diff(dir, pages)
	if err != nil {
		return err
	}
	if len(diffs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d page(s) differ\n%s", ErrOutOfDate, len(diffs), strings.Join(diffs, ""))
}
