package joinplan

// PlannerGraph holds one correlation scope's plan-graph nodes: the top-level
// query or one related (nested) subquery each get their own graph (see
// builder.go). Nodes are kept in construction order so flip-pattern bit
// indices and debug output are stable and reproducible across runs.
type PlannerGraph struct {
	nextID NodeID

	sources     map[string]*Source
	connections []*Connection
	joins       []*Join
	fanOuts     []*FanOut
	fanIns      []*FanIn
	terminus    *Terminus
}

// NewPlannerGraph builds an empty graph.
func NewPlannerGraph() *PlannerGraph {
	return &PlannerGraph{sources: map[string]*Source{}}
}

func (g *PlannerGraph) newID() NodeID {
	g.nextID++
	return g.nextID
}

// SourceFor returns the Source for table, creating it the first time a
// given table is referenced in this graph so that later correlations to the
// same table reuse it.
func (g *PlannerGraph) SourceFor(table string) *Source {
	if s, ok := g.sources[table]; ok {
		return s
	}
	s := NewSource(table)
	g.sources[table] = s
	return s
}

func (g *PlannerGraph) AddConnection(c *Connection) *Connection {
	c.id = g.newID()
	g.connections = append(g.connections, c)
	return c
}

func (g *PlannerGraph) AddJoin(j *Join) *Join {
	j.id = g.newID()
	g.joins = append(g.joins, j)
	return j
}

func (g *PlannerGraph) AddFanOut(f *FanOut) *FanOut {
	f.id = g.newID()
	g.fanOuts = append(g.fanOuts, f)
	return f
}

func (g *PlannerGraph) AddFanIn(f *FanIn) *FanIn {
	f.id = g.newID()
	g.fanIns = append(g.fanIns, f)
	return f
}

func (g *PlannerGraph) SetTerminus(t *Terminus) {
	t.id = g.newID()
	g.terminus = t
}

func (g *PlannerGraph) Terminus() *Terminus       { return g.terminus }
func (g *PlannerGraph) Connections() []*Connection { return g.connections }
func (g *PlannerGraph) Joins() []*Join             { return g.joins }
func (g *PlannerGraph) FanOuts() []*FanOut         { return g.fanOuts }
func (g *PlannerGraph) FanIns() []*FanIn           { return g.fanIns }

// FlippableJoins returns every join eligible for enumeration, in
// construction order - bit i of a flip-pattern mask corresponds to
// FlippableJoins()[i].
func (g *PlannerGraph) FlippableJoins() []*Join {
	var out []*Join
	for _, j := range g.joins {
		if j.flippable {
			out = append(out, j)
		}
	}
	return out
}

// FlippedPlanIDs returns the set of PlanIDs currently flipped, read by
// Rewrite once planning has settled on a winning attempt.
func (g *PlannerGraph) FlippedPlanIDs() map[PlanID]bool {
	out := map[PlanID]bool{}
	for _, j := range g.joins {
		if j.currentType == JoinFlipped {
			out[j.planID] = true
		}
	}
	return out
}

// ResetPlanningState returns every node's mutable planning state to its
// as-built value, ahead of applying the next attempt's flip pattern.
func (g *PlannerGraph) ResetPlanningState() {
	for _, j := range g.joins {
		j.Reset()
	}
	for _, f := range g.fanOuts {
		f.Reset()
	}
	for _, f := range g.fanIns {
		f.Reset()
	}
	for _, c := range g.connections {
		c.Reset()
	}
}

// ApplyFlipPattern flips every join whose bit is set in mask, in the order
// given by flippable (normally g.FlippableJoins()).
func (g *PlannerGraph) ApplyFlipPattern(flippable []*Join, mask uint64) error {
	for i, j := range flippable {
		if mask&(1<<uint(i)) != 0 {
			if err := j.Flip(); err != nil {
				return err
			}
		}
	}
	return nil
}

// fanRegion is the cached structural relationship between one FanOut and
// its paired FanIn: every join reachable from the FanOut's branches without
// first crossing the FanIn.
type fanRegion struct {
	fanOut *FanOut
	fanIn  *FanIn
	joins  []*Join
}

// BuildFanRegionCache computes, once per graph (the pairing and region
// shape are structural and do not change across attempts), the joins lying
// between each FanOut and its paired FanIn.
func (g *PlannerGraph) BuildFanRegionCache() []fanRegion {
	regions := make([]fanRegion, 0, len(g.fanOuts))
	for _, fo := range g.fanOuts {
		regions = append(regions, fanRegion{
			fanOut: fo,
			fanIn:  fo.pairedFanIn,
			joins:  collectJoinsBetween(fo),
		})
	}
	return regions
}

func collectJoinsBetween(fo *FanOut) []*Join {
	visited := map[NodeID]bool{}
	var joins []*Join

	var walk func(n Node)
	walk = func(n Node) {
		if n == nil || visited[n.NodeID()] {
			return
		}
		visited[n.NodeID()] = true
		switch t := n.(type) {
		case *Join:
			joins = append(joins, t)
			walk(t.output)
		case *FanOut:
			for _, o := range t.outputs {
				walk(o)
			}
		case *FanIn:
			if t == fo.pairedFanIn {
				return
			}
			walk(t.output)
		case *Connection:
			walk(t.output)
		case *Terminus:
			// a region never reaches a Terminus without first reaching its
			// own paired FanIn.
		}
	}

	for _, o := range fo.outputs {
		walk(o)
	}
	return joins
}

// DeriveFanVariants converts each FanOut/FanIn pair in regions to UFO/UFI
// whenever any join strictly between them is flipped for the current
// attempt. A region with no flipped join keeps its current variants.
func (g *PlannerGraph) DeriveFanVariants(regions []fanRegion) {
	for _, region := range regions {
		flipped := false
		for _, j := range region.joins {
			if j.currentType == JoinFlipped {
				flipped = true
				break
			}
		}
		if flipped {
			region.fanOut.ConvertToUFO()
			region.fanIn.ConvertToUFI()
		}
	}
}

// PropagateUnlimitForFlippedJoins runs the unlimiting pass for every join
// currently flipped: both of its neighbors are told to clear their row
// limits (see Node.PropagateUnlimitFromFlippedJoin for how far each node
// kind forwards the call).
func (g *PlannerGraph) PropagateUnlimitForFlippedJoins() {
	for _, j := range g.joins {
		if j.currentType == JoinFlipped {
			j.parent.PropagateUnlimitFromFlippedJoin()
			j.child.PropagateUnlimitFromFlippedJoin()
		}
	}
}

// PropagateConstraints runs the top-down constraint propagation pass for
// the current attempt.
func (g *PlannerGraph) PropagateConstraints() {
	g.terminus.Propagate()
}

// TotalCost returns the graph's total cost at its current planning state.
func (g *PlannerGraph) TotalCost() float64 {
	return g.terminus.TotalCost()
}

// PlanningSnapshot is a captured copy of every node's mutable planning
// state, used to restore the winning attempt after enumeration has moved
// on to evaluate worse ones.
type PlanningSnapshot struct {
	joinTypes              []JoinType
	fanOutVariants         []FanOutVariant
	fanInVariants          []FanInVariant
	connectionLimits       []*int
	connectionConstraints  []map[string]bucketConstraint
}

// CapturePlanningSnapshot captures the graph's current planning state.
func (g *PlannerGraph) CapturePlanningSnapshot() PlanningSnapshot {
	s := PlanningSnapshot{
		joinTypes:             make([]JoinType, len(g.joins)),
		fanOutVariants:        make([]FanOutVariant, len(g.fanOuts)),
		fanInVariants:         make([]FanInVariant, len(g.fanIns)),
		connectionLimits:      make([]*int, len(g.connections)),
		connectionConstraints: make([]map[string]bucketConstraint, len(g.connections)),
	}
	for i, j := range g.joins {
		s.joinTypes[i] = j.currentType
	}
	for i, f := range g.fanOuts {
		s.fanOutVariants[i] = f.variant
	}
	for i, f := range g.fanIns {
		s.fanInVariants[i] = f.variant
	}
	for i, c := range g.connections {
		s.connectionLimits[i] = copyIntPtr(c.limit)
		s.connectionConstraints[i] = c.CaptureConstraints()
	}
	return s
}

// RestorePlanningSnapshot restores a previously captured snapshot onto this
// graph. It fails with ErrSnapshotMismatch if the snapshot's shape doesn't
// match this graph's - a programmer error, since a snapshot only ever makes
// sense restored onto the graph it was captured from.
func (g *PlannerGraph) RestorePlanningSnapshot(s PlanningSnapshot) error {
	if len(s.joinTypes) != len(g.joins) ||
		len(s.fanOutVariants) != len(g.fanOuts) ||
		len(s.fanInVariants) != len(g.fanIns) ||
		len(s.connectionLimits) != len(g.connections) {
		return ErrSnapshotMismatch
	}
	for i, j := range g.joins {
		j.SetType(s.joinTypes[i])
	}
	for i, f := range g.fanOuts {
		f.SetVariant(s.fanOutVariants[i])
	}
	for i, f := range g.fanIns {
		f.SetVariant(s.fanInVariants[i])
	}
	for i, c := range g.connections {
		c.limit = copyIntPtr(s.connectionLimits[i])
		c.RestoreConstraints(s.connectionConstraints[i])
	}
	return nil
}
