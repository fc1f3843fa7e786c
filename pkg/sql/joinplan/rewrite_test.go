package joinplan

import "testing"

func TestRewriteDoesNotMutateInput(t *testing.T) {
	q := &Query{
		Table: "users",
		Limit: intp(10),
		Filter: &CorrelatedSubquery{
			Op: Exists, ParentField: "id", ChildField: "user_id",
			Query: &Query{Table: "posts"},
		},
	}
	plan := Build(q, toyCostModel)
	if err := NewPlanner(plan).Plan(nil); err != nil {
		t.Fatalf("Plan: %v", err)
	}

	_ = Rewrite(q, plan)

	cond := q.Filter.(*CorrelatedSubquery)
	if cond.Flip {
		t.Fatalf("expected Rewrite to leave the input AST's Flip field untouched")
	}
}

func TestRewriteProducesADistinctCopy(t *testing.T) {
	q := &Query{
		Table:  "users",
		Filter: &CorrelatedSubquery{Op: Exists, ParentField: "id", ChildField: "user_id", Query: &Query{Table: "posts"}},
	}
	plan := Build(q, toyCostModel)
	rewritten := Rewrite(q, plan)

	if rewritten == q {
		t.Fatalf("expected Rewrite to return a distinct *Query")
	}
	if rewritten.Filter == q.Filter {
		t.Fatalf("expected Rewrite to copy the filter condition rather than share it")
	}
}

func TestRewriteCopiesUnrelatedFieldsUnchanged(t *testing.T) {
	q := &Query{
		Table:    "users",
		Ordering: []OrderTerm{{Column: "created_at", Desc: true}},
		Limit:    intp(5),
		Filter:   &Simple{Predicate: "active = true"},
	}
	plan := Build(q, toyCostModel)
	rewritten := Rewrite(q, plan)

	if rewritten.Table != q.Table {
		t.Fatalf("expected Table to round-trip unchanged")
	}
	if len(rewritten.Ordering) != 1 || rewritten.Ordering[0] != q.Ordering[0] {
		t.Fatalf("expected Ordering to round-trip unchanged")
	}
	if rewritten.Limit == q.Limit || *rewritten.Limit != *q.Limit {
		t.Fatalf("expected Limit to be a distinct pointer with the same value")
	}
	got := rewritten.Filter.(*Simple).Predicate
	want := q.Filter.(*Simple).Predicate
	if got != want {
		t.Fatalf("expected Simple predicate text to round-trip unchanged, got %q want %q", got, want)
	}
}

func TestRewriteSetsFlipOnNestedExistsChild(t *testing.T) {
	q := &Query{
		Table: "users",
		Filter: &CorrelatedSubquery{
			Op: Exists, FlipPin: boolp(true), ParentField: "id", ChildField: "user_id",
			Query: &Query{
				Table: "posts",
				Filter: &CorrelatedSubquery{
					Op: Exists, FlipPin: boolp(true), ParentField: "id", ChildField: "post_id",
					Query: &Query{Table: "comments"},
				},
			},
		},
	}
	plan := Build(q, toyCostModel)
	if err := NewPlanner(plan).Plan(nil); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	rewritten := Rewrite(q, plan)

	outer := rewritten.Filter.(*CorrelatedSubquery)
	if !outer.Flip {
		t.Fatalf("expected the pinned outer join to flip")
	}
	inner := outer.Query.Filter.(*CorrelatedSubquery)
	if !inner.Flip {
		t.Fatalf("expected the pinned inner EXISTS-child join to flip too")
	}
}

func TestRewriteSetsFlipOnRelatedSubquery(t *testing.T) {
	q := &Query{
		Table: "users",
		Related: []RelatedQuery{
			{
				Alias: "posts", ParentField: "id", ChildField: "user_id",
				Query: &Query{
					Table: "posts",
					Filter: &CorrelatedSubquery{
						Op: Exists, FlipPin: boolp(true), ParentField: "id", ChildField: "post_id",
						Query: &Query{Table: "comments"},
					},
				},
			},
		},
	}
	plan := Build(q, toyCostModel)
	if err := NewPlanner(plan).Plan(nil); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	rewritten := Rewrite(q, plan)

	relCond := rewritten.Related[0].Query.Filter.(*CorrelatedSubquery)
	if !relCond.Flip {
		t.Fatalf("expected the pinned join inside a related subquery to flip")
	}
}

func TestRewriteAndOrStructurePreserved(t *testing.T) {
	q := &Query{
		Table: "users",
		Filter: &And{Conditions: []Condition{
			&Simple{Predicate: "active = true"},
			&Or{Conditions: []Condition{
				existsOf("posts", "id", "user_id"),
				existsOf("comments", "id", "author_id"),
			}},
		}},
	}
	plan := Build(q, toyCostModel)
	rewritten := Rewrite(q, plan)

	and, ok := rewritten.Filter.(*And)
	if !ok || len(and.Conditions) != 2 {
		t.Fatalf("expected the And structure to be preserved with 2 conditions")
	}
	or, ok := and.Conditions[1].(*Or)
	if !ok || len(or.Conditions) != 2 {
		t.Fatalf("expected the nested Or structure to be preserved with 2 branches")
	}
}

func TestRewriteUnplannedQueryLeavesEveryFlipFalse(t *testing.T) {
	q := &Query{
		Table: "users",
		Filter: &And{Conditions: []Condition{
			existsOf("posts", "id", "user_id"),
			existsOf("comments", "id", "author_id"),
		}},
	}
	plan := Build(q, toyCostModel)
	rewritten := Rewrite(q, plan)

	for _, sub := range rewritten.Filter.(*And).Conditions {
		if sub.(*CorrelatedSubquery).Flip {
			t.Fatalf("expected every Flip to default to false before Planner.Plan has run")
		}
	}
}
