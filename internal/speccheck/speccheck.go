// Package speccheck loads the OpenAPI documents a catalog links to from a
// local directory and validates them.
package speccheck

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/alecgard/apicatalog/catalog"
)

// ErrOutsideRoot is returned for hrefs that resolve above the spec root.
var ErrOutsideRoot = errors.New("href escapes spec root")

// Result is the outcome for one spec reference.
type Result struct {
	APIID   string
	Href    string
	Path    string // file checked; empty when skipped
	Skipped string // reason the reference was not checked
	Err     error
}

// OK reports whether the reference was checked and is valid.
func (r Result) OK() bool { return r.Skipped == "" && r.Err == nil }

// Check validates every OpenAPI reference in cfg. Relative hrefs are read
// from root; absolute URLs and other spec kinds are reported as skipped.
func Check(ctx context.Context, root string, cfg *catalog.Config) []Result {
	var results []Result
	for _, api := range cfg.APIs {
		for _, spec := range api.Specs {
			res := Result{APIID: api.ID, Href: spec.Href}
			switch {
			case spec.Kind != catalog.KindOpenAPI:
				res.Skipped = "not an openapi document"
			case strings.Contains(spec.Href, "://"):
				res.Skipped = "remote href"
			default:
				res.Path, res.Err = resolve(root, spec.Href)
				if res.Err == nil {
					res.Err = validateFile(ctx, res.Path)
				}
			}
			results = append(results, res)
		}
	}
	return results
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func resolve(root, href string) (string, error) {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimLeft(href, "/")))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", href, ErrOutsideRoot)
	}
	return filepath.Join(root, rel), nil
}

func validateFile(ctx context.Context, path string) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	return nil
}
