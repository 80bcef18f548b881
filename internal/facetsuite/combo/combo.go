// Package combo enumerates the configurations of a collection.
//
// A collection is a directory of facets, a facet is a directory of config snippets.
// Every combination picks exactly one snippet from each facet. Combinations are
// produced in standard Cartesian-product order: facets sorted by name, snippets sorted
// by name, and the last facet varying fastest.
package combo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/G-Research/facetsuite/internal/common/suiteerrors"
	"github.com/G-Research/facetsuite/internal/facetsuite/safepath"
)

// ConfigExtension is the suffix a file must carry to be picked up as a config snippet.
const ConfigExtension = ".yaml"

// Snippet is one concrete choice for a facet.
type Snippet struct {
	Facet string
	Name  string
	Path  string
}

// Facet is a named axis of variation within a collection.
type Facet struct {
	Name     string
	Snippets []Snippet
}

// Collection is a directory of facets.
type Collection struct {
	// Path as given by the user.
	Path string
	// Name derived from Path; used in job descriptions.
	Name string
	// Facets sorted by name.
	Facets []Facet
}

// Combination is one snippet per facet, in facet order.
type Combination []Snippet

// Description returns the label of the job running this combination,
// e.g., "collection:basic clusters:fixed.yaml tasks:smoke.yaml".
func (c Combination) Description(collectionName string) string {
	parts := make([]string, 0, len(c)+1)
	parts = append(parts, "collection:"+collectionName)
	for _, s := range c {
		parts = append(parts, s.Facet+":"+s.Name)
	}
	return strings.Join(parts, " ")
}

// Paths returns the file path of every snippet, in facet order.
func (c Combination) Paths() []string {
	paths := make([]string, len(c))
	for i, s := range c {
		paths[i] = s.Path
	}
	return paths
}

// Load reads the facets and snippets of the collection at path.
func Load(path string) (*Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithStack(&suiteerrors.ErrNotFound{Type: "collection", Value: path})
		}
		return nil, errors.WithStack(err)
	}
	if !info.IsDir() {
		return nil, errors.WithStack(&suiteerrors.ErrInvalidArgument{
			Name:    "collections",
			Value:   path,
			Message: "not a directory",
		})
	}

	name, err := safepath.Name(path)
	if err != nil {
		return nil, err
	}

	facetNames, err := listEntries(path, func(e os.DirEntry) bool { return isDir(path, e) })
	if err != nil {
		return nil, err
	}

	facets := make([]Facet, 0, len(facetNames))
	for _, facetName := range facetNames {
		facetDir := filepath.Join(path, facetName)
		snippetNames, err := listEntries(facetDir, func(e os.DirEntry) bool {
			return strings.HasSuffix(e.Name(), ConfigExtension) && !isDir(facetDir, e)
		})
		if err != nil {
			return nil, err
		}
		facet := Facet{Name: facetName, Snippets: make([]Snippet, len(snippetNames))}
		for i, snippetName := range snippetNames {
			facet.Snippets[i] = Snippet{
				Facet: facetName,
				Name:  snippetName,
				Path:  filepath.Join(facetDir, snippetName),
			}
		}
		facets = append(facets, facet)
	}

	return &Collection{
		Path:   path,
		Name:   name,
		Facets: facets,
	}, nil
}

// Count returns the number of combinations of c.
func (c *Collection) Count() int {
	n := 1
	for _, f := range c.Facets {
		n *= len(f.Snippets)
	}
	return n
}

// Combinations returns a fresh iterator over the combinations of c.
// Each call starts over from the first combination.
func (c *Collection) Combinations() *Iterator {
	return &Iterator{
		facets: c.Facets,
		cursor: make([]int, len(c.Facets)),
	}
}

// Iterator walks the Cartesian product of a collection's facets.
// It holds one cursor per facet and nothing else.
type Iterator struct {
	facets  []Facet
	cursor  []int
	started bool
	done    bool
}

// Next returns the next combination. The second return value is false once the
// product is exhausted; it's false on the first call if any facet is empty.
// A collection without facets yields exactly one empty combination.
func (it *Iterator) Next() (Combination, bool) {
	if it.done {
		return nil, false
	}
	if !it.started {
		it.started = true
		for _, f := range it.facets {
			if len(f.Snippets) == 0 {
				it.done = true
				return nil, false
			}
		}
	} else if !it.advance() {
		it.done = true
		return nil, false
	}

	combination := make(Combination, len(it.facets))
	for i, f := range it.facets {
		combination[i] = f.Snippets[it.cursor[i]]
	}
	return combination, true
}

// advance moves the cursor like an odometer, last facet first.
// Returns false once every position has wrapped around.
func (it *Iterator) advance() bool {
	for i := len(it.cursor) - 1; i >= 0; i-- {
		it.cursor[i]++
		if it.cursor[i] < len(it.facets[i].Snippets) {
			return true
		}
		it.cursor[i] = 0
	}
	return false
}

// listEntries returns the sorted names of the non-hidden entries of dir accepted by keep.
func listEntries(dir string, keep func(os.DirEntry) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WithMessagef(err, "error listing %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !keep(e) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// isDir follows symlinks, which DirEntry.IsDir doesn't.
func isDir(parent string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}
