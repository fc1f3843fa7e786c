package joinplan

// Source is a factory for Connections over one table. It is not itself a
// plan-graph node; it exists so that multiple correlations to the same
// table (e.g. two different EXISTS subqueries both against "comments") can
// share a lookup key in PlannerGraph.sources while still getting their own,
// independent Connection (see PlannerGraph.SourceFor in graph.go).
type Source struct {
	table string
}

// NewSource creates a Source for the given table name.
func NewSource(table string) *Source {
	return &Source{table: table}
}

// Table returns the source's table name.
func (s *Source) Table() string { return s.table }

// NewConnection builds a Connection reading from this source.
func (s *Source) NewConnection(ordering []OrderTerm, filter Condition, baseConstraints PlannerConstraint, limit *int, costModel CostModel) *Connection {
	return NewConnection(s.table, ordering, filter, baseConstraints, limit, costModel)
}

// bucketConstraint is one entry in a Connection's constraints map: the
// branch pattern it was recorded under, and the constraint bound there.
type bucketConstraint struct {
	pattern    BranchPattern
	constraint PlannerConstraint
}

// Connection is a leaf plan-graph node: a single scan of one table, priced
// by the caller's CostModel. It is the only node kind that ever calls into
// the cost model; every other node kind derives its own estimate from its
// neighbors'.
type Connection struct {
	id     NodeID
	table  string
	output Node

	// Structure, set once at construction and never mutated afterward.
	ordering        []OrderTerm
	filter          Condition
	baseConstraints PlannerConstraint
	initialLimit    *int
	costModel       CostModel

	// Planning state, reset between enumeration attempts.
	limit           *int
	constraints     map[string]bucketConstraint
	bucketCostCache map[string]CostEstimate
	totalCostCache  *CostEstimate
}

// NewConnection builds a Connection. baseConstraints are the constraints
// this connection starts with regardless of any probe (e.g. the child-side
// correlation field of an enclosing related subquery); limit is the row
// limit in effect before any unlimiting.
func NewConnection(table string, ordering []OrderTerm, filter Condition, baseConstraints PlannerConstraint, limit *int, costModel CostModel) *Connection {
	return &Connection{
		table:           table,
		ordering:        ordering,
		filter:          filter,
		baseConstraints: baseConstraints,
		initialLimit:    limit,
		costModel:       costModel,
		limit:           copyIntPtr(limit),
		constraints:     map[string]bucketConstraint{},
	}
}

func (c *Connection) NodeID() NodeID    { return c.id }
func (c *Connection) Table() string     { return c.table }
func (c *Connection) ClosestIsJoin() bool { return false }

// Limit returns the connection's current (possibly unlimited) row limit.
func (c *Connection) Limit() *int { return c.limit }

// Reset restores the connection's limit and constraints map to their
// as-built values, invalidating every cached cost.
func (c *Connection) Reset() {
	c.limit = copyIntPtr(c.initialLimit)
	c.constraints = map[string]bucketConstraint{}
	c.invalidateCaches()
}

// Unlimit clears the connection's row limit.
func (c *Connection) Unlimit() {
	c.limit = nil
	c.invalidateCaches()
}

func (c *Connection) PropagateUnlimitFromFlippedJoin() {
	c.Unlimit()
}

func (c *Connection) invalidateCaches() {
	c.bucketCostCache = nil
	c.totalCostCache = nil
}

// PropagateConstraints stores incoming at key pattern in the constraints
// map, replacing any prior value recorded there, and invalidates every
// cached cost (both that bucket's and the connection's total).
func (c *Connection) PropagateConstraints(pattern BranchPattern, incoming PlannerConstraint) {
	key := branchPatternKey(pattern)
	c.constraints[key] = bucketConstraint{pattern: clonePattern(pattern), constraint: incoming}
	c.invalidateCaches()
}

// EstimateCost returns (and caches) the cost estimate for the constraint
// bucket recorded at pattern. A connection that has never been propagated a
// constraint at this pattern is priced with no constraint beyond its base
// constraints.
func (c *Connection) EstimateCost(pattern BranchPattern) CostEstimate {
	key := branchPatternKey(pattern)
	if c.bucketCostCache == nil {
		c.bucketCostCache = map[string]CostEstimate{}
	}
	if est, ok := c.bucketCostCache[key]; ok {
		return est
	}
	est := c.computeBucketCost(pattern, 1.0)
	c.bucketCostCache[key] = est
	return est
}

// EstimateCostAll sums the cost across every bucket this connection has
// been propagated a constraint for - the connection's total cost, used for
// diagnostics rather than by any other node's EstimateCost.
func (c *Connection) EstimateCostAll() CostEstimate {
	if c.totalCostCache != nil {
		return *c.totalCostCache
	}
	if len(c.constraints) == 0 {
		est := c.EstimateCost(nil)
		c.totalCostCache = &est
		return est
	}
	var sum CostEstimate
	first := true
	for _, bc := range c.constraints {
		est := c.EstimateCost(bc.pattern)
		if first {
			sum = est
			first = false
			continue
		}
		sum.StartupCost += est.StartupCost
		sum.ScanEst += est.ScanEst
		sum.Cost += est.Cost
		sum.ReturnedRows += est.ReturnedRows
	}
	c.totalCostCache = &sum
	return sum
}

// computeBucketCost invokes the cost model once (or twice, to derive
// selectivity - see below) for the constraint bound at pattern.
//
// downstreamSelectivity is the hook SPEC_FULL.md's Open Questions section
// leaves for a future "how much does the downstream consumer already narrow
// this scan" refinement. It is threaded through but always 1.0 today; no
// caller computes anything else for it.
func (c *Connection) computeBucketCost(pattern BranchPattern, downstreamSelectivity float64) CostEstimate {
	_ = downstreamSelectivity

	key := branchPatternKey(pattern)
	var propagated PlannerConstraint
	if bc, ok := c.constraints[key]; ok {
		propagated = bc.constraint
	}
	merged := MergeConstraints(c.baseConstraints, propagated)
	startupCost, rows := c.costModel(c.table, c.ordering, c.filter, merged)

	// Selectivity compares the constrained row count against the same scan
	// with only the connection's inherent base constraints applied - how
	// much the *currently bound probe*, specifically, narrows the scan.
	selectivity := 1.0
	if len(propagated) > 0 {
		_, baseRows := c.costModel(c.table, c.ordering, c.filter, c.baseConstraints)
		if baseRows > 0 {
			selectivity = rows / baseRows
		} else {
			selectivity = 1.0
		}
	}

	var limitF *float64
	if c.limit != nil {
		v := float64(*c.limit)
		limitF = &v
	}

	return CostEstimate{
		StartupCost:  startupCost,
		ScanEst:      rows,
		Cost:         rows,
		ReturnedRows: rows,
		Selectivity:  selectivity,
		Limit:        limitF,
	}
}

// CaptureConstraints returns a shallow copy of the connection's constraints
// map, for PlannerGraph's per-attempt snapshot.
func (c *Connection) CaptureConstraints() map[string]bucketConstraint {
	out := make(map[string]bucketConstraint, len(c.constraints))
	for k, v := range c.constraints {
		out[k] = v
	}
	return out
}

// RestoreConstraints replaces the connection's constraints map with a copy
// of m and invalidates cached costs.
func (c *Connection) RestoreConstraints(m map[string]bucketConstraint) {
	cp := make(map[string]bucketConstraint, len(m))
	for k, v := range m {
		cp[k] = v
	}
	c.constraints = cp
	c.invalidateCaches()
}
