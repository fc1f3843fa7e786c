package joinplan

// DebugSink receives the planner's debug event stream. Callers that don't
// care can pass nil; emit is a no-op in that case. The teacher's codebase
// carries no logging library, so this is a plain interface over typed
// structs rather than a structured-logger adapter.
type DebugSink interface {
	Emit(Event)
}

// Event is the marker interface implemented by every debug event kind.
type Event interface {
	eventNode()
}

// AttemptStart is emitted once per enumeration attempt, before any flip is
// applied.
type AttemptStart struct {
	AttemptNumber int
	TotalAttempts int
}

func (AttemptStart) eventNode() {}

// NodeCost is emitted for one node's cost estimate during an attempt, when
// the caller wants a full per-node trace (the planner only emits the
// coarser PlanComplete/BestPlanSelected events itself; NodeCost exists for
// callers that walk the graph themselves).
type NodeCost struct {
	NodeKind      string
	NodeID        NodeID
	BranchPattern BranchPattern
	Estimate      CostEstimate
}

func (NodeCost) eventNode() {}

// NodeConstraint is emitted alongside NodeCost for the same reason, when a
// caller wants to see the constraint bound at a node/pattern pair.
type NodeConstraint struct {
	NodeKind      string
	NodeID        NodeID
	BranchPattern BranchPattern
	Constraint    PlannerConstraint
}

func (NodeConstraint) eventNode() {}

// PlanComplete is emitted once per attempt, after constraints have been
// propagated and the attempt's total cost computed.
type PlanComplete struct {
	AttemptNumber   int
	TotalCost       float64
	FlipPatternMask uint64
	JoinStates      map[PlanID]JoinType
}

func (PlanComplete) eventNode() {}

// PlanFailed is emitted when a graph cannot be planned at all - currently
// only for the too-many-flippable-joins safety gate (§7 of SPEC_FULL.md);
// this is reported here rather than as a Go error, since it is not a
// failure the caller needs to handle, just a cap on how hard the planner
// tried.
type PlanFailed struct {
	Reason string
}

func (PlanFailed) eventNode() {}

// BestPlanSelected is emitted once per graph, after the best attempt has
// been restored as the graph's final planning state.
type BestPlanSelected struct {
	BestAttemptNumber int
	TotalCost         float64
	FlipPatternMask   uint64
	JoinStates        map[PlanID]JoinType
}

func (BestPlanSelected) eventNode() {}

func emit(sink DebugSink, e Event) {
	if sink == nil {
		return
	}
	sink.Emit(e)
}
