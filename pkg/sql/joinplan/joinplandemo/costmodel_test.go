package joinplandemo

import (
	"testing"

	"tur/pkg/schema"
	"tur/pkg/sql/joinplan"
	"tur/pkg/sql/optimizer"
)

func TestNewFromStatisticsNarrowsRowsByConstraintSelectivity(t *testing.T) {
	stats := map[string]*schema.TableStatistics{
		"posts": {
			TableName: "posts",
			RowCount:  1000,
			ColumnStats: map[string]*schema.ColumnStatistics{
				"user_id": {ColumnName: "user_id", DistinctCount: 100},
			},
		},
	}
	model := NewFromStatistics(stats, optimizer.NewCostEstimator())

	_, unconstrained := model("posts", nil, nil, joinplan.NewPlannerConstraint())
	_, constrained := model("posts", nil, nil, joinplan.NewPlannerConstraint("user_id"))

	if constrained >= unconstrained {
		t.Fatalf("expected a constrained scan to estimate fewer rows, got constrained=%v unconstrained=%v", constrained, unconstrained)
	}
	// 1000 rows / 100 distinct values = 10 matching rows.
	if constrained != 10 {
		t.Fatalf("expected 10 rows for an equality match against 100 distinct values, got %v", constrained)
	}
}

func TestNewFromStatisticsUnknownTableStillReturnsAPositiveCost(t *testing.T) {
	model := NewFromStatistics(map[string]*schema.TableStatistics{}, optimizer.NewCostEstimator())

	cost, rows := model("missing", nil, nil, nil)
	if cost <= 0 {
		t.Fatalf("expected a positive minimum cost even for an untracked table, got %v", cost)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows for an untracked, empty table, got %v", rows)
	}
}

func TestNewFromStatisticsFallsBackToDefaultSelectivityForUnknownColumn(t *testing.T) {
	stats := map[string]*schema.TableStatistics{
		"posts": {TableName: "posts", RowCount: 1000, ColumnStats: map[string]*schema.ColumnStatistics{}},
	}
	model := NewFromStatistics(stats, optimizer.NewCostEstimator())

	_, rows := model("posts", nil, nil, joinplan.NewPlannerConstraint("unknown_col"))
	// Default equality selectivity is 1%, rounded via the estimator's own rule.
	if rows != 10 {
		t.Fatalf("expected the default 1%% equality selectivity to yield 10 rows, got %v", rows)
	}
}
