package joinplan

// Plan is the result of Build: one PlannerGraph for a query's own scope,
// plus a sub-Plan for every related (nested) subquery found anywhere within
// it - including inside an EXISTS/NOT EXISTS child's own Query, since those
// live inline in the enclosing graph but can still carry their own related
// subqueries that need a fresh scope.
//
// Related is flat and keyed by the *RelatedQuery AST node itself rather
// than nested per scope, since RelatedQuery pointers are unique across the
// whole input tree; Rewrite looks an entry up by taking the address of the
// slice element it is currently rewriting.
type Plan struct {
	Graph   *PlannerGraph
	Related map[*RelatedQuery]*Plan
}

// Build walks q and produces its Plan: one graph per correlation scope,
// wired so Planner.Plan can enumerate flip patterns and Rewrite can read
// back the winning choice.
func Build(q *Query, costModel CostModel) *Plan {
	related := map[*RelatedQuery]*Plan{}
	g := buildGraph(q, nil, q.Limit, costModel, related)
	return &Plan{Graph: g, Related: related}
}

// buildGraph builds the graph for one correlation scope rooted at q.
// baseConstraints are constraints this scope's root connection starts with
// regardless of any probe (the child-side correlation field, for a related
// subquery's scope); limit is the scope root's own row limit.
func buildGraph(q *Query, baseConstraints PlannerConstraint, limit *int, costModel CostModel, related map[*RelatedQuery]*Plan) *PlannerGraph {
	g := NewPlannerGraph()

	source := g.SourceFor(q.Table)
	conn := g.AddConnection(source.NewConnection(q.Ordering, q.Filter, baseConstraints, limit, costModel))

	var end Node = conn
	planID := new(int)
	if q.Filter != nil {
		end = processCondition(g, planID, q.Filter, end, costModel, related)
	}

	term := NewTerminus(end)
	g.SetTerminus(term)
	attach(end, term)

	buildRelated(q, costModel, related)

	return g
}

// buildRelated builds a fresh scope (graph) for every entry in q.Related,
// recording it in related under that entry's own address.
func buildRelated(q *Query, costModel CostModel, related map[*RelatedQuery]*Plan) {
	for i := range q.Related {
		rel := &q.Related[i]
		childBase := NewPlannerConstraint(rel.ChildField)
		subGraph := buildGraph(rel.Query, childBase, rel.Query.Limit, costModel, related)
		related[rel] = &Plan{Graph: subGraph, Related: related}
	}
}

// processCondition walks one Condition subtree, threading currentEnd (the
// plan-graph node that represents "the stream as built so far") through:
// a Simple predicate leaves it unchanged; an And folds left across its
// conditions; an Or introduces a FanOut/FanIn region around whichever
// sub-conditions contain a correlated subquery; a CorrelatedSubquery
// introduces a Join.
func processCondition(g *PlannerGraph, planID *int, cond Condition, currentEnd Node, costModel CostModel, related map[*RelatedQuery]*Plan) Node {
	switch c := cond.(type) {
	case nil:
		return currentEnd

	case *Simple:
		return currentEnd

	case *And:
		end := currentEnd
		for _, sub := range c.Conditions {
			end = processCondition(g, planID, sub, end, costModel, related)
		}
		return end

	case *Or:
		var surviving []Condition
		for _, sub := range c.Conditions {
			if containsCorrelatedSubquery(sub) {
				surviving = append(surviving, sub)
			}
		}
		if len(surviving) == 0 {
			return currentEnd
		}

		fo := g.AddFanOut(NewFanOut(currentEnd))
		attach(currentEnd, fo)

		branchEnds := make([]Node, 0, len(surviving))
		for _, sub := range surviving {
			be := processCondition(g, planID, sub, fo, costModel, related)
			branchEnds = append(branchEnds, be)
		}

		fi := g.AddFanIn(NewFanIn(branchEnds))
		for _, be := range branchEnds {
			attach(be, fi)
		}
		fo.pairedFanIn = fi

		return fi

	case *CorrelatedSubquery:
		return processCorrelatedSubquery(g, planID, c, currentEnd, costModel, related)

	default:
		return currentEnd
	}
}

func processCorrelatedSubquery(g *PlannerGraph, planID *int, c *CorrelatedSubquery, currentEnd Node, costModel CostModel, related map[*RelatedQuery]*Plan) Node {
	// NOT EXISTS never flips, even if the caller pinned it true: it always
	// remains a semi-join (an anti-probe) and is never offered to
	// enumeration.
	flippable := c.Op == Exists && c.FlipPin == nil
	initialType := JoinSemi
	if c.Op == Exists && c.FlipPin != nil && *c.FlipPin {
		initialType = JoinFlipped
	}

	var childLimit *int
	if c.Op == Exists {
		l := EXISTS_CHILD_LIMIT
		childLimit = &l
	}

	source := g.SourceFor(c.Query.Table)
	childConn := g.AddConnection(source.NewConnection(c.Query.Ordering, c.Query.Filter, nil, childLimit, costModel))

	var childEnd Node = childConn
	if c.Query.Filter != nil {
		childEnd = processCondition(g, planID, c.Query.Filter, childEnd, costModel, related)
	}
	buildRelated(c.Query, costModel, related)

	*planID++
	pid := PlanID(*planID)
	c.PlanID = pid

	parentConstraint := NewPlannerConstraint(c.ParentField)
	childConstraint := NewPlannerConstraint(c.ChildField)

	j := g.AddJoin(NewJoin(currentEnd, childEnd, parentConstraint, childConstraint, flippable, pid, initialType))
	attach(currentEnd, j)
	attach(childEnd, j)

	return j
}

// containsCorrelatedSubquery reports whether cond contains a
// CorrelatedSubquery anywhere within its And/Or structure. It does not
// recurse into a CorrelatedSubquery's own nested Query - that question is
// about this condition tree, not about what the subquery itself filters on.
func containsCorrelatedSubquery(cond Condition) bool {
	switch c := cond.(type) {
	case *CorrelatedSubquery:
		return true
	case *And:
		for _, sub := range c.Conditions {
			if containsCorrelatedSubquery(sub) {
				return true
			}
		}
		return false
	case *Or:
		for _, sub := range c.Conditions {
			if containsCorrelatedSubquery(sub) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
