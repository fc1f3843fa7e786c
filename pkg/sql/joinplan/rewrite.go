package joinplan

// Rewrite returns a copy of q with every correlated subquery's Flip field
// set to the choice Planner.Plan settled on for plan. Rewrite is purely
// functional: q is never mutated, and every field other than Flip is
// copied byte-identical to the input.
func Rewrite(q *Query, plan *Plan) *Query {
	flipped := plan.Graph.FlippedPlanIDs()
	return rewriteQuery(q, flipped, plan.Related)
}

func rewriteQuery(q *Query, flipped map[PlanID]bool, related map[*RelatedQuery]*Plan) *Query {
	if q == nil {
		return nil
	}

	nq := &Query{
		Table:    q.Table,
		Ordering: append([]OrderTerm(nil), q.Ordering...),
		Limit:    copyIntPtr(q.Limit),
	}
	if q.Filter != nil {
		nq.Filter = rewriteCondition(q.Filter, flipped, related)
	}

	nq.Related = make([]RelatedQuery, len(q.Related))
	for i := range q.Related {
		rel := &q.Related[i]
		sub := related[rel]

		var newQuery *Query
		if sub != nil {
			newQuery = Rewrite(rel.Query, sub)
		} else {
			newQuery = rewriteQuery(rel.Query, map[PlanID]bool{}, related)
		}

		nq.Related[i] = RelatedQuery{
			Alias:       rel.Alias,
			ParentField: rel.ParentField,
			ChildField:  rel.ChildField,
			Query:       newQuery,
		}
	}

	return nq
}

func rewriteCondition(c Condition, flipped map[PlanID]bool, related map[*RelatedQuery]*Plan) Condition {
	switch t := c.(type) {
	case nil:
		return nil

	case *Simple:
		cp := *t
		return &cp

	case *And:
		out := make([]Condition, len(t.Conditions))
		for i, sub := range t.Conditions {
			out[i] = rewriteCondition(sub, flipped, related)
		}
		return &And{Conditions: out}

	case *Or:
		out := make([]Condition, len(t.Conditions))
		for i, sub := range t.Conditions {
			out[i] = rewriteCondition(sub, flipped, related)
		}
		return &Or{Conditions: out}

	case *CorrelatedSubquery:
		cp := *t
		cp.Flip = flipped[t.PlanID]
		cp.Query = rewriteQuery(t.Query, flipped, related)
		return &cp

	default:
		return c
	}
}
