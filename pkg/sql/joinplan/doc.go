// Package joinplan chooses, for every EXISTS/NOT EXISTS correlated subquery
// in a query, whether to execute it as a semi-join (probe the child once per
// outer row) or a flipped join (scan the child as the driving side and probe
// the parent instead). It enumerates every combination of flippable joins,
// costs each one with a caller-supplied cost model, and rewrites the query's
// AST with the winning choice recorded on each correlated subquery.
//
// The package does not parse SQL, execute plans, or estimate costs itself;
// callers bring their own AST (ast.go) and cost model (costmodel.go) and get
// back a planned AST (rewrite.go) plus, optionally, a stream of debug events
// describing every attempt the enumeration made (debug.go).
package joinplan
