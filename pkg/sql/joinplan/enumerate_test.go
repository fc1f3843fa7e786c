package joinplan

import "testing"

func existsOf(table, parentField, childField string) Condition {
	return &CorrelatedSubquery{Op: Exists, ParentField: parentField, ChildField: childField, Query: &Query{Table: table}}
}

// TestScenario1_SingleExistsParentLimit hand-verifies that, for a single
// EXISTS under an outer LIMIT and no selective constraint, the semi-join
// attempt (≈1000) beats the flipped attempt (9000) - see the formula
// derivations in join_test.go.
func TestScenario1_SingleExistsParentLimit(t *testing.T) {
	q := &Query{
		Table:  "users",
		Limit:  intp(10),
		Filter: existsOf("posts", "id", "user_id"),
	}

	sink := &recordingSink{}
	plan := Build(q, toyCostModel)
	if err := NewPlanner(plan).Plan(sink); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if sink.countAttempts() != 2 {
		t.Fatalf("expected 2 attempts for 1 flippable join, got %d", sink.countAttempts())
	}

	rewritten := Rewrite(q, plan)
	cond := rewritten.Filter.(*CorrelatedSubquery)
	if cond.Flip {
		t.Fatalf("expected the semi-join attempt to win when no selective constraint favors flipping")
	}
}

// TestScenario2_SelectiveConstraintStillFavorsSemi uses a cost model where
// the correlated constraint makes a constrained scan dramatically cheaper
// (simulating an index lookup). That helps both attempts equally: semi costs
// min(100, 10/0.01) * 1 = 100 and flipped costs 100 * (0 + 1) = 100, so the
// attempts tie and semi (attempt 0, evaluated first) is kept.
func TestScenario2_SelectiveConstraintStillFavorsSemi(t *testing.T) {
	model := func(table string, ordering []OrderTerm, filter Condition, constraint PlannerConstraint) (float64, float64) {
		if len(constraint) > 0 {
			return 0, 1
		}
		return 0, 100
	}

	q := &Query{
		Table:  "users",
		Limit:  intp(10),
		Filter: existsOf("posts", "id", "user_id"),
	}
	plan := Build(q, model)
	if err := NewPlanner(plan).Plan(nil); err != nil {
		t.Fatalf("Plan: %v", err)
	}

	rewritten := Rewrite(q, plan)
	cond := rewritten.Filter.(*CorrelatedSubquery)
	if cond.Flip {
		t.Fatalf("expected semi to be kept when the constraint is highly selective")
	}
}

func TestScenario3_NotExistsNeverFlips(t *testing.T) {
	q := &Query{
		Table: "users",
		Filter: &CorrelatedSubquery{
			Op: NotExists, ParentField: "id", ChildField: "user_id",
			Query: &Query{Table: "bans"},
		},
	}
	sink := &recordingSink{}
	plan := Build(q, toyCostModel)
	if err := NewPlanner(plan).Plan(sink); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if sink.countAttempts() != 1 {
		t.Fatalf("expected exactly 1 trivial attempt for zero flippable joins, got %d", sink.countAttempts())
	}

	rewritten := Rewrite(q, plan)
	if rewritten.Filter.(*CorrelatedSubquery).Flip {
		t.Fatalf("expected NOT EXISTS to never flip")
	}
}

// TestScenario4_OrRegionFanVariantFollowsInnerFlip walks all four attempts
// of an OR with two flippable EXISTS branches and checks that the FanOut/
// FanIn pair converts to UFO/UFI exactly when at least one inner join is
// flipped for that attempt.
func TestScenario4_OrRegionFanVariantFollowsInnerFlip(t *testing.T) {
	q := &Query{
		Table: "users",
		Filter: &Or{Conditions: []Condition{
			existsOf("posts", "id", "user_id"),
			existsOf("comments", "id", "author_id"),
		}},
	}
	plan := Build(q, toyCostModel)
	g := plan.Graph
	flippable := g.FlippableJoins()
	if len(flippable) != 2 {
		t.Fatalf("expected 2 flippable joins, got %d", len(flippable))
	}
	regions := g.BuildFanRegionCache()
	if len(regions) != 1 {
		t.Fatalf("expected 1 fan region, got %d", len(regions))
	}
	fo := g.FanOuts()[0]
	fi := g.FanIns()[0]

	for mask := uint64(0); mask < 4; mask++ {
		g.ResetPlanningState()
		if err := g.ApplyFlipPattern(flippable, mask); err != nil {
			t.Fatalf("ApplyFlipPattern(%d): %v", mask, err)
		}
		g.DeriveFanVariants(regions)

		anyFlipped := mask != 0
		wantVariant := FanOutPlain
		wantFIVariant := FanInPlain
		if anyFlipped {
			wantVariant = FanOutUnion
			wantFIVariant = FanInUnion
		}
		if fo.Variant() != wantVariant {
			t.Fatalf("mask %d: expected FanOut variant %v, got %v", mask, wantVariant, fo.Variant())
		}
		if fi.Variant() != wantFIVariant {
			t.Fatalf("mask %d: expected FanIn variant %v, got %v", mask, wantFIVariant, fi.Variant())
		}
	}
}

func TestScenario5_RelatedSubqueryPlannedIndependently(t *testing.T) {
	q := &Query{
		Table:  "users",
		Limit:  intp(10),
		Filter: existsOf("posts", "id", "user_id"),
		Related: []RelatedQuery{
			{
				Alias: "comments", ParentField: "id", ChildField: "author_id",
				Query: &Query{
					Table:  "comments",
					Filter: existsOf("replies", "id", "comment_id"),
				},
			},
		},
	}
	plan := Build(q, toyCostModel)
	if err := NewPlanner(plan).Plan(nil); err != nil {
		t.Fatalf("Plan: %v", err)
	}

	outerJoins := plan.Graph.Joins()
	if len(outerJoins) != 1 {
		t.Fatalf("expected 1 join in the outer graph, got %d", len(outerJoins))
	}

	var sub *Plan
	for _, p := range plan.Related {
		sub = p
	}
	if sub == nil {
		t.Fatalf("expected a related sub-plan")
	}
	if sub.Graph == plan.Graph {
		t.Fatalf("expected the related subquery to have an independent graph")
	}
	if len(sub.Graph.Joins()) != 1 {
		t.Fatalf("expected 1 join in the related subquery's own graph")
	}
}

func TestScenario6_PinnedFlipSurvivesRewriteRegardlessOfCost(t *testing.T) {
	q := &Query{
		Table: "users",
		Limit: intp(10),
		Filter: &CorrelatedSubquery{
			Op: Exists, FlipPin: boolp(true), ParentField: "id", ChildField: "user_id",
			Query: &Query{Table: "posts"},
		},
	}
	plan := Build(q, toyCostModel)
	if err := NewPlanner(plan).Plan(nil); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	rewritten := Rewrite(q, plan)
	if !rewritten.Filter.(*CorrelatedSubquery).Flip {
		t.Fatalf("expected a pinned flip=true to survive planning and rewrite")
	}
}

// TestScenario6_NotExistsPinnedFlip checks the other half of scenario 6: a
// FlipPin of true on a NOT EXISTS has no effect, since NOT EXISTS can never
// flip regardless of pin (see processCorrelatedSubquery's flippable guard in
// builder.go, mirrored by TestScenario3_NotExistsNeverFlips for the
// unpinned case).
func TestScenario6_NotExistsPinnedFlip(t *testing.T) {
	q := &Query{
		Table: "users",
		Filter: &CorrelatedSubquery{
			Op: NotExists, FlipPin: boolp(true), ParentField: "id", ChildField: "user_id",
			Query: &Query{Table: "bans"},
		},
	}
	plan := Build(q, toyCostModel)
	if len(plan.Graph.FlippableJoins()) != 0 {
		t.Fatalf("expected a pinned NOT EXISTS to still be non-flippable")
	}
	if err := NewPlanner(plan).Plan(nil); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	rewritten := Rewrite(q, plan)
	if rewritten.Filter.(*CorrelatedSubquery).Flip {
		t.Fatalf("expected a pinned flip=true on NOT EXISTS to be ignored")
	}
}

func TestFanPairingConsistentAcrossNestedOr(t *testing.T) {
	q := &Query{
		Table: "users",
		Filter: &Or{Conditions: []Condition{
			existsOf("posts", "id", "user_id"),
			&Or{Conditions: []Condition{
				existsOf("comments", "id", "author_id"),
				existsOf("likes", "id", "liker_id"),
			}},
		}},
	}
	plan := Build(q, toyCostModel)
	if len(plan.Graph.FanOuts()) != 2 || len(plan.Graph.FanIns()) != 2 {
		t.Fatalf("expected 2 nested fan regions, got %d FanOuts / %d FanIns",
			len(plan.Graph.FanOuts()), len(plan.Graph.FanIns()))
	}
	for _, fo := range plan.Graph.FanOuts() {
		if fo.PairedFanIn() == nil {
			t.Fatalf("expected every FanOut to have a paired FanIn")
		}
	}
}

func TestUnlimitPropagationClearsBothSidesOfAFlippedJoin(t *testing.T) {
	q := &Query{
		Table:  "users",
		Limit:  intp(10),
		Filter: existsOf("posts", "id", "user_id"),
	}
	plan := Build(q, toyCostModel)
	g := plan.Graph
	j := g.Joins()[0]

	g.ApplyFlipPattern(g.FlippableJoins(), 1)
	g.PropagateUnlimitForFlippedJoins()

	if j.Parent().(*Connection).Limit() != nil {
		t.Fatalf("expected the flipped join's parent connection to be unlimited")
	}
	if j.Child().(*Connection).Limit() != nil {
		t.Fatalf("expected the flipped join's child connection to be unlimited")
	}
}

func TestSnapshotRoundTripPreservesCost(t *testing.T) {
	q := &Query{
		Table:  "users",
		Limit:  intp(10),
		Filter: existsOf("posts", "id", "user_id"),
	}
	plan := Build(q, toyCostModel)
	g := plan.Graph

	g.PropagateConstraints()
	before := g.TotalCost()
	snap := g.CapturePlanningSnapshot()

	g.ApplyFlipPattern(g.FlippableJoins(), 1)
	g.PropagateConstraints()
	if g.TotalCost() == before {
		t.Fatalf("expected flipping to change the total cost before restore")
	}

	if err := g.RestorePlanningSnapshot(snap); err != nil {
		t.Fatalf("RestorePlanningSnapshot: %v", err)
	}
	g.PropagateConstraints()
	if g.TotalCost() != before {
		t.Fatalf("expected restoring the snapshot to reproduce the original cost, got %v want %v", g.TotalCost(), before)
	}
}

func TestRestorePlanningSnapshotMismatchedShapeFails(t *testing.T) {
	q1 := &Query{Table: "users", Filter: existsOf("posts", "id", "user_id")}
	q2 := &Query{Table: "users"}

	p1 := Build(q1, toyCostModel)
	p2 := Build(q2, toyCostModel)

	snap := p1.Graph.CapturePlanningSnapshot()
	if err := p2.Graph.RestorePlanningSnapshot(snap); err == nil {
		t.Fatalf("expected a shape mismatch to be rejected")
	}
}

func TestIdempotentReplanProducesSameWinner(t *testing.T) {
	q := &Query{
		Table:  "users",
		Limit:  intp(10),
		Filter: existsOf("posts", "id", "user_id"),
	}

	plan1 := Build(q, toyCostModel)
	if err := NewPlanner(plan1).Plan(nil); err != nil {
		t.Fatalf("Plan 1: %v", err)
	}
	first := Rewrite(q, plan1)

	plan2 := Build(q, toyCostModel)
	if err := NewPlanner(plan2).Plan(nil); err != nil {
		t.Fatalf("Plan 2: %v", err)
	}
	second := Rewrite(q, plan2)

	f1 := first.Filter.(*CorrelatedSubquery).Flip
	f2 := second.Filter.(*CorrelatedSubquery).Flip
	if f1 != f2 {
		t.Fatalf("expected replanning the same input to reach the same winner, got %v and %v", f1, f2)
	}
}

func chainOfExists(n int) Condition {
	conds := make([]Condition, n)
	for i := 0; i < n; i++ {
		conds[i] = existsOf("t", "id", "fk")
	}
	return &And{Conditions: conds}
}

func TestBoundaryZeroFlippableRunsOneTrivialAttempt(t *testing.T) {
	q := &Query{Table: "users", Filter: &Simple{Predicate: "age > 18"}}
	sink := &recordingSink{}
	plan := Build(q, toyCostModel)
	if err := NewPlanner(plan).Plan(sink); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if sink.countAttempts() != 1 {
		t.Fatalf("expected 1 trivial attempt with zero flippable joins, got %d", sink.countAttempts())
	}
}

func TestBoundaryAtMaxRunsFullEnumeration(t *testing.T) {
	q := &Query{Table: "users", Filter: chainOfExists(MAX_FLIPPABLE_JOINS)}
	sink := &recordingSink{}
	plan := Build(q, toyCostModel)
	if len(plan.Graph.FlippableJoins()) != MAX_FLIPPABLE_JOINS {
		t.Fatalf("expected %d flippable joins, got %d", MAX_FLIPPABLE_JOINS, len(plan.Graph.FlippableJoins()))
	}
	if err := NewPlanner(plan).Plan(sink); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := 1 << uint(MAX_FLIPPABLE_JOINS)
	if sink.countAttempts() != want {
		t.Fatalf("expected %d attempts at the boundary, got %d", want, sink.countAttempts())
	}
	if len(sink.failures()) != 0 {
		t.Fatalf("expected no safety-gate failure exactly at the boundary")
	}
}

func TestBoundaryOverMaxSkipsEnumeration(t *testing.T) {
	q := &Query{Table: "users", Filter: chainOfExists(MAX_FLIPPABLE_JOINS + 1)}
	sink := &recordingSink{}
	plan := Build(q, toyCostModel)
	if err := NewPlanner(plan).Plan(sink); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if sink.countAttempts() != 0 {
		t.Fatalf("expected no attempts once the safety gate trips, got %d", sink.countAttempts())
	}
	failures := sink.failures()
	if len(failures) != 1 || failures[0].Reason != "too_many_flippable_joins" {
		t.Fatalf("expected exactly one too_many_flippable_joins failure, got %+v", failures)
	}

	rewritten := Rewrite(q, plan)
	for _, sub := range rewritten.Filter.(*And).Conditions {
		if sub.(*CorrelatedSubquery).Flip {
			t.Fatalf("expected every join to remain un-flipped when the safety gate trips")
		}
	}
}
