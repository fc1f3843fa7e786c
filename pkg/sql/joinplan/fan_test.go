package joinplan

import "testing"

func TestFanInPlainSharesBucketAcrossBranches(t *testing.T) {
	a := NewConnection("comments", nil, nil, nil, nil, toyCostModel)
	b := NewConnection("likes", nil, nil, nil, nil, toyCostModel)
	fi := NewFanIn([]Node{a, b})

	fi.PropagateConstraints(nil, NewPlannerConstraint("post_id"))

	// FI prefixes every branch with 0, so both connections land in the
	// same constraint bucket key.
	if a.EstimateCost(BranchPattern{0}).Cost != 90 {
		t.Fatalf("expected branch a constrained to 90 rows")
	}
	if b.EstimateCost(BranchPattern{0}).Cost != 90 {
		t.Fatalf("expected branch b constrained to 90 rows")
	}
}

func TestFanInUnionGivesEachBranchItsOwnBucket(t *testing.T) {
	a := NewConnection("comments", nil, nil, nil, nil, toyCostModel)
	b := NewConnection("likes", nil, nil, nil, nil, toyCostModel)
	fi := NewFanIn([]Node{a, b})
	fi.ConvertToUFI()

	fi.PropagateConstraints(nil, NewPlannerConstraint("post_id"))

	if _, ok := a.constraints[branchPatternKey(BranchPattern{0})]; !ok {
		t.Fatalf("expected branch a's constraint recorded under pattern [0]")
	}
	if _, ok := b.constraints[branchPatternKey(BranchPattern{1})]; !ok {
		t.Fatalf("expected branch b's constraint recorded under pattern [1]")
	}
}

func TestFanOutForwardsUnchangedToInput(t *testing.T) {
	in := NewConnection("users", nil, nil, nil, nil, toyCostModel)
	fo := NewFanOut(in)

	fo.PropagateConstraints(BranchPattern{5}, NewPlannerConstraint("id"))

	est := in.EstimateCost(BranchPattern{5})
	if est.Cost != 90 {
		t.Fatalf("expected FanOut to forward pattern/constraint unchanged, got cost %v", est.Cost)
	}
}

func TestCombineFanInEstimatesPlainTakesMax(t *testing.T) {
	out := combineFanInEstimates(FanInPlain, []CostEstimate{
		{Cost: 10, ScanEst: 10, Selectivity: 0.5},
		{Cost: 30, ScanEst: 30, Selectivity: 0.5},
	})
	if out.Cost != 30 {
		t.Fatalf("expected plain FanIn to take the max cost across branches, got %v", out.Cost)
	}
}

func TestCombineFanInEstimatesUnionSums(t *testing.T) {
	out := combineFanInEstimates(FanInUnion, []CostEstimate{
		{Cost: 10, ScanEst: 10},
		{Cost: 30, ScanEst: 30},
	})
	if out.Cost != 40 {
		t.Fatalf("expected union FanIn to sum branch costs, got %v", out.Cost)
	}
}

func TestFanOutFanInPairingAndRegionCollection(t *testing.T) {
	root := NewConnection("users", nil, nil, nil, nil, toyCostModel)
	g := NewPlannerGraph()
	g.AddConnection(root)

	fo := g.AddFanOut(NewFanOut(root))
	attach(root, fo)

	childA := g.AddConnection(NewConnection("posts", nil, nil, nil, nil, toyCostModel))
	jA := g.AddJoin(NewJoin(fo, childA, nil, NewPlannerConstraint("user_id"), true, 1, JoinSemi))
	attach(fo, jA)
	attach(childA, jA)

	childB := g.AddConnection(NewConnection("comments", nil, nil, nil, nil, toyCostModel))
	jB := g.AddJoin(NewJoin(fo, childB, nil, NewPlannerConstraint("user_id"), true, 2, JoinSemi))
	attach(fo, jB)
	attach(childB, jB)

	fi := g.AddFanIn(NewFanIn([]Node{jA, jB}))
	attach(jA, fi)
	attach(jB, fi)
	fo.pairedFanIn = fi

	regions := g.BuildFanRegionCache()
	if len(regions) != 1 {
		t.Fatalf("expected exactly one fan region, got %d", len(regions))
	}
	region := regions[0]
	if region.fanIn != fi {
		t.Fatalf("expected the region's FanIn to be the one paired at construction")
	}
	if len(region.joins) != 2 {
		t.Fatalf("expected both joins between the FanOut and its FanIn to be collected, got %d", len(region.joins))
	}
}
