package joinplan

import "fmt"

// Join is one EXISTS/NOT EXISTS correlated subquery, resolved to either a
// semi-join (probe the child once per parent row) or a flipped join (scan
// the child as the driving side and probe the parent instead).
type Join struct {
	id     NodeID
	output Node

	// Structure, set once at construction.
	parent           Node
	child            Node
	parentConstraint PlannerConstraint
	childConstraint  PlannerConstraint
	flippable        bool
	planID           PlanID
	initialType      JoinType

	// Planning state.
	currentType JoinType
}

// NewJoin builds a Join. flippable is false for NOT EXISTS and for any
// EXISTS whose flip was pinned by the caller; initialType is the type the
// join starts every attempt from (semi, unless pinned flipped).
func NewJoin(parent, child Node, parentConstraint, childConstraint PlannerConstraint, flippable bool, planID PlanID, initialType JoinType) *Join {
	return &Join{
		parent:           parent,
		child:            child,
		parentConstraint: parentConstraint,
		childConstraint:  childConstraint,
		flippable:        flippable,
		planID:           planID,
		initialType:      initialType,
		currentType:      initialType,
	}
}

func (j *Join) NodeID() NodeID        { return j.id }
func (j *Join) ClosestIsJoin() bool   { return true }
func (j *Join) PlanID() PlanID        { return j.planID }
func (j *Join) Flippable() bool       { return j.flippable }
func (j *Join) Type() JoinType        { return j.currentType }
func (j *Join) Parent() Node          { return j.parent }
func (j *Join) Child() Node           { return j.child }

// SetType forces the join's current type without going through Flip's
// eligibility check, used only when restoring a captured snapshot.
func (j *Join) SetType(t JoinType) { j.currentType = t }

// Flip converts this join to a flipped join for the current attempt. It
// fails if the join was never eligible, or if it is already flipped.
func (j *Join) Flip() error {
	if !j.flippable {
		return fmt.Errorf("join %d: %w", j.planID, ErrNotFlippable)
	}
	if j.currentType == JoinFlipped {
		return fmt.Errorf("join %d: %w", j.planID, ErrAlreadyFlipped)
	}
	j.currentType = JoinFlipped
	return nil
}

func (j *Join) Reset() {
	j.currentType = j.initialType
}

// PropagateConstraints forwards the incoming constraint to this join's
// parent subgraph, and sends either the join's own child_constraint (semi -
// the child is always probed by the same correlated key) or nothing
// (flipped - the child now drives and needs no constraint) to the child.
func (j *Join) PropagateConstraints(pattern BranchPattern, incoming PlannerConstraint) {
	switch j.currentType {
	case JoinSemi:
		j.child.PropagateConstraints(pattern, j.childConstraint)
		j.parent.PropagateConstraints(pattern, incoming)
	case JoinFlipped:
		j.child.PropagateConstraints(pattern, nil)
		j.parent.PropagateConstraints(pattern, MergeConstraints(incoming, j.parentConstraint))
	}
}

// PropagateUnlimitFromFlippedJoin continues unlimiting upstream into this
// join's parent subgraph when it is itself still a semi-join (its child
// remains limit-respecting, since a semi-join still only probes it), and
// stops when it is already flipped (it was already unlimited on a prior
// flip in this same walk).
func (j *Join) PropagateUnlimitFromFlippedJoin() {
	if j.currentType == JoinSemi {
		j.parent.PropagateUnlimitFromFlippedJoin()
	}
}

// EstimateCost implements the four join cost formulas from SPEC_FULL.md §4.2:
// semi/flipped crossed with pipelined/nested, where "pipelined" means the
// join's parent subgraph is itself already driven by an enclosing join.
func (j *Join) EstimateCost(pattern BranchPattern) CostEstimate {
	p := j.parent.EstimateCost(pattern)
	c := j.child.EstimateCost(pattern)

	scan := p.ScanEst
	if j.currentType == JoinSemi && p.Limit != nil && c.Selectivity > 0 {
		if capped := *p.Limit / c.Selectivity; capped < scan {
			scan = capped
		}
	}

	isPipeline := j.parent.ClosestIsJoin()

	var cost float64
	switch {
	case j.currentType == JoinSemi && isPipeline:
		cost = p.Cost + scan*(c.StartupCost+c.Cost)
	case j.currentType == JoinSemi && !isPipeline:
		cost = scan * (c.StartupCost + c.Cost)
	case j.currentType == JoinFlipped && isPipeline:
		cost = c.StartupCost + c.Cost*(p.StartupCost+scan)
	default: // flipped, nested
		cost = c.Cost * (p.StartupCost + scan)
	}

	return CostEstimate{
		StartupCost:  p.StartupCost,
		ScanEst:      scan,
		Cost:         cost,
		ReturnedRows: p.ReturnedRows,
		Selectivity:  p.Selectivity,
		Limit:        p.Limit,
	}
}
