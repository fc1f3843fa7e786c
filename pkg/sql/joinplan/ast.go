package joinplan

// Query is the external, caller-owned AST the planner reads. It describes
// one table scoped by an optional filter, ordering, and limit, plus any
// related (nested) subqueries that join back to it by a parent/child field
// pair. A Query is immutable input to Build except for the one mutable slot
// CorrelatedSubquery.PlanID (see builder.go).
type Query struct {
	Table    string
	Ordering []OrderTerm
	Filter   Condition
	Limit    *int
	Related  []RelatedQuery
}

// OrderTerm is one column of a Query's ORDER BY list.
type OrderTerm struct {
	Column string
	Desc   bool
}

// RelatedQuery is a nested subquery joined back to its parent Query by a
// parent-field/child-field pair, the way a one-to-many relation is usually
// fetched alongside its parent rather than correlated row-by-row.
type RelatedQuery struct {
	Alias       string
	ParentField string
	ChildField  string
	Query       *Query
}

// ExistsOp distinguishes EXISTS from NOT EXISTS. NOT EXISTS conditions never
// flip (see builder.go).
type ExistsOp int

const (
	Exists ExistsOp = iota
	NotExists
)

func (op ExistsOp) String() string {
	if op == NotExists {
		return "NOT EXISTS"
	}
	return "EXISTS"
}

// PlanID identifies one correlated_subquery condition within a single plan
// graph. It is assigned by Build in construction order and is stable across
// Plan/Rewrite; it is not unique across different graphs (e.g. a related
// subquery's own scope restarts numbering at 1).
type PlanID int

// Condition is the marker interface implemented by every node in a filter
// expression tree: Simple (an opaque row predicate), And, Or, and
// CorrelatedSubquery. The planner never inspects a Simple predicate's text;
// it only cares whether a Condition subtree contains a CorrelatedSubquery.
type Condition interface {
	conditionNode()
}

// Simple wraps an opaque, planner-unreadable row predicate (e.g. already
// compiled into the caller's own expression representation). The planner
// passes it through to the cost model untouched and never looks inside it.
type Simple struct {
	Predicate string
}

func (*Simple) conditionNode() {}

// And is the conjunction of one or more sub-conditions, processed left to
// right by the builder (each sub-condition's resulting graph node becomes
// the input to the next).
type And struct {
	Conditions []Condition
}

func (*And) conditionNode() {}

// Or is the disjunction of one or more sub-conditions. Branches that contain
// no correlated subquery are filtered out by the builder before a FanOut/
// FanIn region is even introduced; if none remain, the Or is a no-op.
type Or struct {
	Conditions []Condition
}

func (*Or) conditionNode() {}

// CorrelatedSubquery is an EXISTS/NOT EXISTS test against a nested Query,
// correlated to the enclosing scope by ParentField/ChildField. FlipPin is a
// caller override: nil leaves the choice to the planner, &true/&false pins
// it (a pinned join is never eligible for enumeration - see builder.go).
// Flip is the planner's decision, written onto the *copy* produced by
// Rewrite; it is always false on a Query fed into Build.
type CorrelatedSubquery struct {
	Op          ExistsOp
	FlipPin     *bool
	ParentField string
	ChildField  string
	Query       *Query
	PlanID      PlanID
	Flip        bool
}

func (*CorrelatedSubquery) conditionNode() {}
