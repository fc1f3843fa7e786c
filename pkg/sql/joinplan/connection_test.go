package joinplan

import "testing"

func TestConnectionCachesPerBucket(t *testing.T) {
	calls := 0
	model := func(table string, ordering []OrderTerm, filter Condition, constraint PlannerConstraint) (float64, float64) {
		calls++
		return 0, 100
	}
	c := NewConnection("users", nil, nil, nil, nil, model)

	c.EstimateCost(nil)
	c.EstimateCost(nil)
	if calls != 1 {
		t.Fatalf("expected the cost model to be called once for a repeated bucket, got %d calls", calls)
	}

	c.EstimateCost(BranchPattern{0})
	if calls != 2 {
		t.Fatalf("expected a new bucket to trigger a fresh cost-model call, got %d calls", calls)
	}
}

func TestConnectionPropagateInvalidatesCache(t *testing.T) {
	c := NewConnection("users", nil, nil, nil, nil, toyCostModel)
	first := c.EstimateCost(nil)
	if first.Cost != 100 {
		t.Fatalf("expected base cost 100, got %v", first.Cost)
	}

	c.PropagateConstraints(nil, NewPlannerConstraint("id"))
	second := c.EstimateCost(nil)
	if second.Cost != 90 {
		t.Fatalf("expected constrained cost 90 after propagation, got %v", second.Cost)
	}
	if second.Selectivity != 0.9 {
		t.Fatalf("expected selectivity 0.9, got %v", second.Selectivity)
	}
}

func TestConnectionUnlimitClearsLimit(t *testing.T) {
	c := NewConnection("posts", nil, nil, nil, intp(1), toyCostModel)
	if *c.Limit() != 1 {
		t.Fatalf("expected initial limit 1")
	}
	c.Unlimit()
	if c.Limit() != nil {
		t.Fatalf("expected limit cleared after Unlimit")
	}
}

func TestConnectionResetRestoresBaseState(t *testing.T) {
	c := NewConnection("posts", nil, nil, nil, intp(1), toyCostModel)
	c.Unlimit()
	c.PropagateConstraints(nil, NewPlannerConstraint("user_id"))

	c.Reset()

	if c.Limit() == nil || *c.Limit() != 1 {
		t.Fatalf("expected Reset to restore the initial limit of 1")
	}
	est := c.EstimateCost(nil)
	if est.Cost != 100 {
		t.Fatalf("expected Reset to clear propagated constraints, got cost %v", est.Cost)
	}
}

func TestConnectionEstimateCostAllSumsBuckets(t *testing.T) {
	c := NewConnection("comments", nil, nil, nil, nil, toyCostModel)
	c.PropagateConstraints(BranchPattern{0}, NewPlannerConstraint("a"))
	c.PropagateConstraints(BranchPattern{1}, NewPlannerConstraint("a", "b"))

	total := c.EstimateCostAll()
	// bucket 0: 100-10=90, bucket 1: 100-20=80
	if total.Cost != 170 {
		t.Fatalf("expected summed cost 170, got %v", total.Cost)
	}
}
