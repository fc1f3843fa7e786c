package joinplan

// CostModel prices one Connection's scan under the given ordering, opaque
// filter, and bound constraint. It returns the startup cost (paid once, e.g.
// to build a sort or a hash) and the number of rows the scan is expected to
// return once the constraint and filter are applied.
//
// CostModel has no error return: a model that cannot price a node should
// report it with a very large (or +Inf) cost rather than fail the whole
// enumeration, since the planner has no recovery path for a mid-attempt
// error (see ErrCostModel in errors.go).
type CostModel func(table string, ordering []OrderTerm, filter Condition, constraint PlannerConstraint) (startupCost float64, rows float64)

// CostEstimate is what every plan-graph node reports for one branch pattern.
// Downstream nodes only ever read these fields; nothing else is inferred.
type CostEstimate struct {
	// StartupCost is paid once regardless of how many rows are pulled.
	StartupCost float64
	// ScanEst is the number of rows this node expects to scan, after any
	// upstream limit has capped it (see Join.EstimateCost in join.go).
	ScanEst float64
	// Cost is the running cost, scaling with the number of outer iterations
	// a parent probes this node with.
	Cost float64
	// ReturnedRows is the number of rows this node is expected to produce.
	ReturnedRows float64
	// Selectivity is the fraction, in [0, 1], of this node's unconstrained
	// rows that survive once the currently bound constraint is applied.
	Selectivity float64
	// Limit is the propagated row limit in effect at this node, or nil if
	// none applies.
	Limit *float64

	// FanOut selectivity (how many child rows one outer row tends to match)
	// would live here, next to Selectivity, if the cost model ever needed to
	// distinguish "rows survive" from "rows fan out" - SPEC_FULL.md leaves
	// this an open question and joinplan does not implement it.
}
