package joinplan

import "math"

// FanOut splits a single upstream stream into one output per surviving OR
// branch. It has one input (set at construction) and a list of outputs
// (weak back-references, recorded as branches are built - see attach in
// node.go), plus the FanIn it structurally pairs with once that FanIn is
// built.
type FanOut struct {
	id     NodeID
	input  Node
	outputs []Node

	pairedFanIn *FanIn
	variant     FanOutVariant
}

// NewFanOut builds a FanOut over input.
func NewFanOut(input Node) *FanOut {
	return &FanOut{input: input, variant: FanOutPlain}
}

func (f *FanOut) NodeID() NodeID      { return f.id }
func (f *FanOut) Input() Node         { return f.input }
func (f *FanOut) Variant() FanOutVariant { return f.variant }
func (f *FanOut) PairedFanIn() *FanIn { return f.pairedFanIn }

// ClosestIsJoin delegates through to the node FanOut splits, since a FanOut
// is a structural courier rather than a substantive node.
func (f *FanOut) ClosestIsJoin() bool { return f.input.ClosestIsJoin() }

func (f *FanOut) Reset() { f.variant = FanOutPlain }

// ConvertToUFO marks this FanOut as a union fan-out: once any join strictly
// between it and its paired FanIn has flipped, each branch must scan the
// input independently rather than share one upstream fetch.
func (f *FanOut) ConvertToUFO() { f.variant = FanOutUnion }

// SetVariant forces the variant without re-deriving it, used when restoring
// a captured snapshot.
func (f *FanOut) SetVariant(v FanOutVariant) { f.variant = v }

// PropagateConstraints forwards unchanged to the single input, regardless
// of variant: FO and UFO both still have exactly one upstream scan site.
func (f *FanOut) PropagateConstraints(pattern BranchPattern, incoming PlannerConstraint) {
	f.input.PropagateConstraints(pattern, incoming)
}

func (f *FanOut) EstimateCost(pattern BranchPattern) CostEstimate {
	return f.input.EstimateCost(pattern)
}

func (f *FanOut) PropagateUnlimitFromFlippedJoin() {
	f.input.PropagateUnlimitFromFlippedJoin()
}

// FanIn reconverges the branches of an OR back into a single stream. It has
// a list of inputs (the branch tails, forward structural edges set at
// construction) and one output.
type FanIn struct {
	id     NodeID
	inputs []Node
	output Node

	variant FanInVariant
}

// NewFanIn builds a FanIn over inputs, one per surviving OR branch.
func NewFanIn(inputs []Node) *FanIn {
	return &FanIn{inputs: inputs, variant: FanInPlain}
}

func (f *FanIn) NodeID() NodeID       { return f.id }
func (f *FanIn) Inputs() []Node       { return f.inputs }
func (f *FanIn) Variant() FanInVariant { return f.variant }

// ClosestIsJoin reports true if any branch is already join-backed. A mixed
// region (one branch a bare scan, another a nested loop) is treated as
// "already pipelining" for cost-formula purposes.
func (f *FanIn) ClosestIsJoin() bool {
	for _, in := range f.inputs {
		if in.ClosestIsJoin() {
			return true
		}
	}
	return false
}

func (f *FanIn) Reset() { f.variant = FanInPlain }

// ConvertToUFI marks this FanIn as a union fan-in, matching its paired
// FanOut's conversion to UFO.
func (f *FanIn) ConvertToUFI() { f.variant = FanInUnion }

// SetVariant forces the variant, used when restoring a captured snapshot.
func (f *FanIn) SetVariant(v FanInVariant) { f.variant = v }

func (f *FanIn) branchPattern(pattern BranchPattern, branchIndex int) BranchPattern {
	if f.variant == FanInUnion {
		return pattern.WithPrefix(branchIndex)
	}
	return pattern.WithPrefix(0)
}

// PropagateConstraints forwards incoming to every branch. A plain FanIn
// (FI) sends every branch the same pattern (prefixed with 0), so they share
// one constraint bucket upstream; a union FanIn (UFI) gives each branch its
// own bucket (prefixed with its index).
func (f *FanIn) PropagateConstraints(pattern BranchPattern, incoming PlannerConstraint) {
	for i, in := range f.inputs {
		in.PropagateConstraints(f.branchPattern(pattern, i), incoming)
	}
}

func (f *FanIn) EstimateCost(pattern BranchPattern) CostEstimate {
	estimates := make([]CostEstimate, len(f.inputs))
	for i, in := range f.inputs {
		estimates[i] = in.EstimateCost(f.branchPattern(pattern, i))
	}
	return combineFanInEstimates(f.variant, estimates)
}

func (f *FanIn) PropagateUnlimitFromFlippedJoin() {
	for _, in := range f.inputs {
		in.PropagateUnlimitFromFlippedJoin()
	}
}

// combineFanInEstimates merges the per-branch estimates reconverging at a
// FanIn. A plain FanIn (FI) shares one fetch across branches, so costs are
// taken as the max across branches (whichever branch is most expensive
// dominates the shared scan) rather than summed; a union FanIn (UFI) fetches
// each branch independently, so costs are summed.
func combineFanInEstimates(variant FanInVariant, ests []CostEstimate) CostEstimate {
	if len(ests) == 0 {
		return CostEstimate{}
	}

	var out CostEstimate
	switch variant {
	case FanInPlain:
		out = ests[0]
		for _, e := range ests[1:] {
			out.StartupCost = math.Max(out.StartupCost, e.StartupCost)
			out.ScanEst = math.Max(out.ScanEst, e.ScanEst)
			out.Cost = math.Max(out.Cost, e.Cost)
			out.ReturnedRows = math.Max(out.ReturnedRows, e.ReturnedRows)
		}
		out.Limit = ests[0].Limit
	case FanInUnion:
		out.Limit = nil
		for _, e := range ests {
			out.StartupCost += e.StartupCost
			out.ScanEst += e.ScanEst
			out.Cost += e.Cost
			out.ReturnedRows += e.ReturnedRows
		}
	}

	survival := 1.0
	for _, e := range ests {
		survival *= 1 - e.Selectivity
	}
	out.Selectivity = 1 - survival

	return out
}
