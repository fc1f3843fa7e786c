package joinplan

// Safety and correlation constants for the planner. These mirror the style
// of pkg/sql/optimizer's named cost constants: plain exported consts, no
// config file or environment layer.
const (
	// MAX_FLIPPABLE_JOINS caps how many flippable joins a single plan graph
	// may contain before enumeration is skipped entirely. 2**9 = 512 attempts
	// is the largest search Plan will run per graph.
	MAX_FLIPPABLE_JOINS = 9

	// EXISTS_CHILD_LIMIT is the implicit row limit placed on the Connection
	// built for an EXISTS/NOT EXISTS child: a semi-join only ever needs to
	// know whether at least one row exists, except NOT EXISTS children which
	// get no limit (see CorrelatedSubquery handling in builder.go).
	EXISTS_CHILD_LIMIT = 1
)
