// Package joinplandemo provides a reference joinplan.CostModel built from
// the engine's own statistics and cost-estimation conventions. It exists for
// tests and cmd/turplan; joinplan itself never imports this package - the
// dependency runs one way, demo to planner, matching how cmd/turplan depends
// on pkg/sql/optimizer rather than the reverse.
package joinplandemo

import (
	"tur/pkg/schema"
	"tur/pkg/sql/joinplan"
	"tur/pkg/sql/optimizer"
)

// NewFromStatistics builds a joinplan.CostModel that prices a table scan
// using est's page/tuple cost constants against stats[table].RowCount, then
// narrows the row estimate by each constrained column's equality
// selectivity (falling back to est's default equality selectivity for a
// column with no collected statistics).
func NewFromStatistics(stats map[string]*schema.TableStatistics, est *optimizer.CostEstimator) joinplan.CostModel {
	return func(table string, ordering []joinplan.OrderTerm, filter joinplan.Condition, constraint joinplan.PlannerConstraint) (float64, float64) {
		ts, ok := stats[table]
		if !ok {
			cost, rows := est.EstimateTableScan(&schema.TableDef{Name: table}, 0)
			return cost, float64(rows)
		}

		cost, rows := est.EstimateTableScan(&schema.TableDef{Name: table}, ts.RowCount)
		estimated := float64(rows)

		for _, col := range constraint.Columns() {
			sel := est.EstimateSelectivity("=")
			if cs, ok := ts.ColumnStats[col]; ok {
				sel = cs.EqualitySelectivity()
			}
			estimated *= sel
		}
		if estimated < 1 {
			estimated = 1
		}

		return cost, estimated
	}
}
