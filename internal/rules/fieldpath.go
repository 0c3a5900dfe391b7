// internal/rules/fieldpath.go
package rules

import (
	"strings"

	"github.com/solatis/valkeeper/internal/types"
)

/*
 * Field path resolution for value trees.
 *
 * A path is a dotted sequence of object keys (user.data.info.score). Array
 * indexing is not supported: any segment that meets a non-object, a missing
 * key or None leaves the path unresolved. MaxPathDepth (16) is enforced at
 * parse and resolution time.
 *
 * Key functions:
 *   - ParsePath: validates and splits a dotted path
 *   - Resolve: walks a parsed path through Obj members
 *   - Lookup: parse + resolve convenience used by operand resolution
 */

// FieldPath is a parsed dotted path.
type FieldPath []string

// String joins the segments back into dotted form.
func (p FieldPath) String() string {
	return strings.Join(p, ".")
}

// ParsePath splits a dotted path into segments.
// Returns ErrEmptyPath, ErrEmptySegment or ErrPathTooDeep for malformed paths.
func ParsePath(s string) (FieldPath, error) {
	if s == "" {
		return nil, types.ErrEmptyPath
	}
	segments := strings.Split(s, ".")
	if len(segments) > types.MaxPathDepth {
		return nil, types.ErrPathTooDeep
	}
	for _, seg := range segments {
		if seg == "" {
			return nil, types.ErrEmptySegment
		}
	}
	return FieldPath(segments), nil
}

// Resolve traverses root following path segments.
// Returns ErrPathTooDeep if path exceeds MaxPathDepth.
// Returns ErrFieldNotFound if a segment crosses None, a non-object or a
// missing key. The resolved leaf itself may be None.
func Resolve(path FieldPath, root types.Value) (types.Value, error) {
	if len(path) == 0 {
		return types.Value{}, types.ErrEmptyPath
	}
	if len(path) > types.MaxPathDepth {
		return types.Value{}, types.ErrPathTooDeep
	}

	current := root
	for _, seg := range path {
		if current.Kind() != types.KindObj {
			// None, scalar or array in the middle of the path
			return types.Value{}, types.ErrFieldNotFound
		}
		next, ok := current.Member(seg)
		if !ok {
			return types.Value{}, types.ErrFieldNotFound
		}
		current = next
	}
	return current, nil
}

// Lookup parses path and resolves it against root. Malformed paths and
// unresolvable paths both report false.
func Lookup(path string, root types.Value) (types.Value, bool) {
	parsed, err := ParsePath(path)
	if err != nil {
		return types.Value{}, false
	}
	v, err := Resolve(parsed, root)
	if err != nil {
		return types.Value{}, false
	}
	return v, true
}
