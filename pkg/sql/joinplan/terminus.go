package joinplan

// Terminus is the root of a plan graph: the single node every other node's
// output chain eventually reaches. It has one input and no output.
type Terminus struct {
	id    NodeID
	input Node
}

// NewTerminus builds a Terminus over input.
func NewTerminus(input Node) *Terminus {
	return &Terminus{input: input}
}

func (t *Terminus) NodeID() NodeID     { return t.id }
func (t *Terminus) Input() Node        { return t.input }
func (t *Terminus) ClosestIsJoin() bool { return t.input.ClosestIsJoin() }
func (t *Terminus) Reset()             {}

// PropagateConstraints is a no-op on Terminus itself: nothing is ever
// downstream of it to call it this way. Use Propagate to start the real,
// top-down traversal for an attempt.
func (t *Terminus) PropagateConstraints(BranchPattern, PlannerConstraint) {}

func (t *Terminus) EstimateCost(pattern BranchPattern) CostEstimate {
	return t.input.EstimateCost(pattern)
}

func (t *Terminus) PropagateUnlimitFromFlippedJoin() {}

// Propagate starts constraint propagation for the whole graph: an empty
// branch pattern and no bound constraint at the root.
func (t *Terminus) Propagate() {
	t.input.PropagateConstraints(nil, nil)
}

// TotalCost returns the graph's total estimated cost (startup + running) at
// its current planning state.
func (t *Terminus) TotalCost() float64 {
	est := t.EstimateCost(nil)
	return est.StartupCost + est.Cost
}
