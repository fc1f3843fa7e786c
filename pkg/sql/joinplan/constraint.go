package joinplan

import (
	"sort"
	"strconv"
	"strings"
)

// PlannerConstraint is the set of outer-scope column names bound into a
// node's scan at plan time - e.g. the single column a semi-join probes a
// child table by. A nil/empty constraint means "no binding."
type PlannerConstraint map[string]struct{}

// NewPlannerConstraint builds a constraint from a list of column names. A
// call with no columns returns nil, not an empty-but-non-nil map, so that
// len(c) == 0 holds for "absent" everywhere a constraint is optional.
func NewPlannerConstraint(columns ...string) PlannerConstraint {
	if len(columns) == 0 {
		return nil
	}
	c := make(PlannerConstraint, len(columns))
	for _, col := range columns {
		c[col] = struct{}{}
	}
	return c
}

// MergeConstraints returns the union of a and b without mutating either.
func MergeConstraints(a, b PlannerConstraint) PlannerConstraint {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(PlannerConstraint, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// Columns returns the constraint's column names sorted, for stable
// debug-event output and tests.
func (c PlannerConstraint) Columns() []string {
	if len(c) == 0 {
		return nil
	}
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BranchPattern identifies which path through nested OR regions a constraint
// or cost estimate applies to: empty outside any OR, and one integer per
// enclosing FanIn (innermost first) once UFI conversion has split branches
// apart. Two calls with equal patterns land in the same constraint bucket.
type BranchPattern []int

// WithPrefix returns a new pattern with i prepended, leaving p untouched.
func (p BranchPattern) WithPrefix(i int) BranchPattern {
	out := make(BranchPattern, 0, len(p)+1)
	out = append(out, i)
	out = append(out, p...)
	return out
}

func clonePattern(p BranchPattern) BranchPattern {
	if p == nil {
		return nil
	}
	out := make(BranchPattern, len(p))
	copy(out, p)
	return out
}

// branchPatternKey renders a pattern into a comparable map key.
func branchPatternKey(p BranchPattern) string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, v := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
