// Package attach implements spec.md §4.7's service attach: enumerate a
// service's entity sets and create a host-level view per set, skipping
// names the caller's glob ignore patterns exclude.
//
// Grounded on the teacher's cmd/devserver's RegisterEntity calls (one
// call per discovered Go model at startup, each handed to the service for
// routing) — this package builds one View per discovered remote entity
// set the same way, substituting HTTP discovery for compile-time structs.
// Glob matching uses the standard library's path.Match since no example
// repo in the pack vendors a third-party glob library (see DESIGN.md).
package attach

import (
	"context"
	"fmt"
	"path"

	"github.com/erpl-go/erpl/internal/edmmodel"
	"github.com/erpl-go/erpl/internal/odataclient"
	"github.com/erpl-go/erpl/internal/readbind"
)

// View is one host-level object created for a remote entity set: a
// named read path ready for Init/Scan (spec.md §4.7: "a host-level
// view named after the entity set that selects from the entity-set URL
// via the read path").
type View struct {
	Name    string
	URL     string
	Columns []edmmodel.TableColumn
	Reader  *readbind.Reader
}

// Result is the outcome of one Attach call.
type Result struct {
	Views   []View
	Skipped []string // entity-set names excluded by an ignore pattern
}

// Attach implements spec.md §4.7: enumerates entity sets via the
// ServiceClient, and for each whose name matches none of the ignore
// globs, builds a View over its read path. One-shot: completes in a
// single bind/scan cycle, no background polling.
func Attach(ctx context.Context, svc *odataclient.ServiceClient, newClient func(entitySetURL string) *odataclient.Client, ignoreGlobs []string) (*Result, error) {
	refs, err := svc.EntitySets(ctx)
	if err != nil {
		return nil, fmt.Errorf("attach: enumerating entity sets: %w", err)
	}

	result := &Result{}
	for _, ref := range refs {
		if matchesAny(ref.Name, ignoreGlobs) {
			result.Skipped = append(result.Skipped, ref.Name)
			continue
		}

		client := newClient(ref.URL)
		es := odataclient.NewEntitySetClient(client)
		columns, err := readbind.ResolveSchema(ctx, es, ref.URL)
		if err != nil {
			return nil, fmt.Errorf("attach: resolving schema for %q: %w", ref.Name, err)
		}

		result.Views = append(result.Views, View{
			Name:    ref.Name,
			URL:     ref.URL,
			Columns: columns,
			Reader:  readbind.NewReader(es, columns),
		})
	}
	return result, nil
}

// matchesAny reports whether name matches any of the glob ignore
// patterns. A malformed pattern is treated as non-matching rather than
// failing the whole attach (spec.md §7's logged-and-continue posture).
func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
