// cmd/turplan/main.go
//
// turplan - exercises the join planner end to end: builds a single
// EXISTS/NOT EXISTS query from flags, plans it, rewrites it, and prints the
// winning flip decision (and, with -debug, the full enumeration trace).
//
// Usage:
//
//	turplan -table users -exists posts -parent id -child user_id -limit 10
package main

import (
	"flag"
	"fmt"
	"os"

	"tur/pkg/schema"
	"tur/pkg/sql/joinplan"
	"tur/pkg/sql/joinplan/joinplandemo"
	"tur/pkg/sql/optimizer"
)

func main() {
	table := flag.String("table", "users", "outer query table")
	existsTable := flag.String("exists", "posts", "table probed by the correlated EXISTS")
	notExists := flag.Bool("not-exists", false, "probe with NOT EXISTS instead of EXISTS")
	parentField := flag.String("parent", "id", "outer correlation field")
	childField := flag.String("child", "user_id", "inner correlation field")
	limit := flag.Int("limit", 0, "outer query row limit, 0 for none")
	flipPin := flag.String("flip", "", "pin the flip decision: \"true\", \"false\", or empty to let the planner choose")
	outerRows := flag.Int64("outer-rows", 100000, "synthetic row count for the outer table")
	innerRows := flag.Int64("inner-rows", 1000000, "synthetic row count for the correlated table")
	debug := flag.Bool("debug", false, "print every AttemptStart/PlanComplete/BestPlanSelected event")
	flag.Parse()

	op := joinplan.Exists
	if *notExists {
		op = joinplan.NotExists
	}

	var pin *bool
	switch *flipPin {
	case "true":
		v := true
		pin = &v
	case "false":
		v := false
		pin = &v
	case "":
	default:
		fmt.Fprintf(os.Stderr, "invalid -flip value %q: want \"true\", \"false\", or empty\n", *flipPin)
		os.Exit(1)
	}

	q := &joinplan.Query{
		Table: *table,
		Filter: &joinplan.CorrelatedSubquery{
			Op:          op,
			FlipPin:     pin,
			ParentField: *parentField,
			ChildField:  *childField,
			Query:       &joinplan.Query{Table: *existsTable},
		},
	}
	if *limit > 0 {
		q.Limit = limit
	}

	stats := map[string]*schema.TableStatistics{
		*table:       {TableName: *table, RowCount: *outerRows, ColumnStats: map[string]*schema.ColumnStatistics{}},
		*existsTable: {TableName: *existsTable, RowCount: *innerRows, ColumnStats: map[string]*schema.ColumnStatistics{}},
	}
	costModel := joinplandemo.NewFromStatistics(stats, optimizer.NewCostEstimator())

	var sink joinplan.DebugSink
	if *debug {
		sink = stderrSink{}
	}

	rewritten, err := joinplan.PlanAndRewrite(q, costModel, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "plan: %v\n", err)
		os.Exit(1)
	}

	cond := rewritten.Filter.(*joinplan.CorrelatedSubquery)
	fmt.Printf("%s %s JOIN %s ON %s.%s = %s.%s\n",
		*table, op, *existsTable, *table, *parentField, *existsTable, *childField)
	fmt.Printf("flip = %v\n", cond.Flip)
}

// stderrSink prints every debug event to stderr as it is emitted.
type stderrSink struct{}

func (stderrSink) Emit(e joinplan.Event) {
	switch ev := e.(type) {
	case joinplan.AttemptStart:
		fmt.Fprintf(os.Stderr, "attempt %d/%d\n", ev.AttemptNumber, ev.TotalAttempts)
	case joinplan.PlanComplete:
		fmt.Fprintf(os.Stderr, "  mask=%d cost=%.2f joins=%v\n", ev.FlipPatternMask, ev.TotalCost, ev.JoinStates)
	case joinplan.PlanFailed:
		fmt.Fprintf(os.Stderr, "plan failed: %s\n", ev.Reason)
	case joinplan.BestPlanSelected:
		fmt.Fprintf(os.Stderr, "best: mask=%d cost=%.2f joins=%v\n", ev.FlipPatternMask, ev.TotalCost, ev.JoinStates)
	}
}
