// Package safepath turns arbitrary, possibly hostile, paths into names that are
// safe to use as a single path segment.
package safepath

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/G-Research/facetsuite/internal/common/suiteerrors"
)

// Munge rewrites path so that it can't escape a base directory it is joined to.
// This changes the meaning of unsafe paths, and only of those:
// empty and "." segments are dropped, and a leading dot of any segment becomes
// an underscore, which neutralises "..". Absolute paths become relative.
func Munge(path string) string {
	segments := make([]string, 0, strings.Count(path, "/")+1)
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." {
			continue
		}
		if strings.HasPrefix(seg, ".") {
			seg = "_" + seg[1:]
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return "_"
	}
	return strings.Join(segments, "/")
}

// Name returns the last segment of the munged path. The result never contains
// a separator and never starts with a dot.
func Name(path string) (string, error) {
	if path == "" {
		return "", errors.WithStack(&suiteerrors.ErrInvalidArgument{
			Name:    "path",
			Value:   path,
			Message: "empty path",
		})
	}
	munged := Munge(path)
	if i := strings.LastIndexByte(munged, '/'); i >= 0 {
		return munged[i+1:], nil
	}
	return munged, nil
}
