package joinplan

import "fmt"

// Planner drives the flip-pattern enumeration over one Plan (a top-level
// graph plus every related subquery's own graph).
type Planner struct {
	plan *Plan
}

// NewPlanner wraps plan for planning.
func NewPlanner(plan *Plan) *Planner {
	return &Planner{plan: plan}
}

// Plan enumerates every flip pattern for every graph in p.plan (the
// top-level graph, then every related subquery's own graph from the flat
// p.plan.Related map, each exactly once), leaving each graph's joins set to
// its cheapest attempt and its connections' constraints maps reflecting
// that attempt.
func (p *Planner) Plan(sink DebugSink) error {
	if err := planGraph(p.plan, sink); err != nil {
		return err
	}
	return planRelated(p.plan, sink)
}

func planGraph(plan *Plan, sink DebugSink) error {
	g := plan.Graph
	flippable := g.FlippableJoins()

	if len(flippable) > MAX_FLIPPABLE_JOINS {
		emit(sink, PlanFailed{Reason: "too_many_flippable_joins"})
		return nil
	}

	regions := g.BuildFanRegionCache()
	totalAttempts := uint64(1) << uint(len(flippable))

	var best PlanningSnapshot
	bestCost := 0.0
	haveBest := false
	var bestMask uint64

	for mask := uint64(0); mask < totalAttempts; mask++ {
		emit(sink, AttemptStart{AttemptNumber: int(mask), TotalAttempts: int(totalAttempts)})

		g.ResetPlanningState()
		if err := g.ApplyFlipPattern(flippable, mask); err != nil {
			return fmt.Errorf("apply flip pattern %d: %w", mask, err)
		}
		g.DeriveFanVariants(regions)
		g.PropagateUnlimitForFlippedJoins()
		g.PropagateConstraints()

		cost := g.TotalCost()
		emit(sink, PlanComplete{
			AttemptNumber:   int(mask),
			TotalCost:       cost,
			FlipPatternMask: mask,
			JoinStates:      joinStates(g),
		})

		if !haveBest || cost < bestCost {
			bestCost = cost
			bestMask = mask
			best = g.CapturePlanningSnapshot()
			haveBest = true
		}
	}

	if err := g.RestorePlanningSnapshot(best); err != nil {
		return err
	}
	// Re-propagate so every Connection's constraints map reflects the
	// restored (winning) attempt, not whatever attempt ran last.
	g.PropagateConstraints()

	emit(sink, BestPlanSelected{
		BestAttemptNumber: int(bestMask),
		TotalCost:         bestCost,
		FlipPatternMask:   bestMask,
		JoinStates:        joinStates(g),
	})

	return nil
}

func planRelated(plan *Plan, sink DebugSink) error {
	for _, sub := range plan.Related {
		if err := planGraph(sub, sink); err != nil {
			return err
		}
	}
	return nil
}

func joinStates(g *PlannerGraph) map[PlanID]JoinType {
	out := make(map[PlanID]JoinType, len(g.Joins()))
	for _, j := range g.Joins() {
		out[j.PlanID()] = j.Type()
	}
	return out
}

// PlanAndRewrite is the package's main entry point: build a Plan for q,
// enumerate every graph's flip patterns, and return a rewritten copy of q
// with every correlated subquery's Flip field set to the winning choice.
func PlanAndRewrite(q *Query, costModel CostModel, sink DebugSink) (*Query, error) {
	plan := Build(q, costModel)
	if err := NewPlanner(plan).Plan(sink); err != nil {
		return nil, err
	}
	return Rewrite(q, plan), nil
}
