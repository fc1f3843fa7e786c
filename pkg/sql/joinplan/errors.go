package joinplan

import "errors"

// Sentinel errors returned (wrapped with fmt.Errorf("%w", ...)) by planner
// operations. No error-stack library is used, matching pkg/sql/optimizer.
var (
	// ErrNotFlippable is returned by Join.Flip when called on a join that
	// was never eligible for flipping (NOT EXISTS, or a user-pinned flip).
	ErrNotFlippable = errors.New("joinplan: join is not flippable")

	// ErrAlreadyFlipped is returned by Join.Flip when called twice on the
	// same attempt without an intervening Reset.
	ErrAlreadyFlipped = errors.New("joinplan: join already flipped")

	// ErrSnapshotMismatch is returned by RestorePlanningSnapshot when the
	// snapshot's shape (join/fan/connection counts) doesn't match the graph
	// it's being restored onto - a programmer error, not a planning failure.
	ErrSnapshotMismatch = errors.New("joinplan: snapshot shape mismatch")

	// ErrCostModel is reserved for cost-model callback failures. CostModel
	// has no error return (see costmodel.go); a model that cannot price a
	// node is expected to return +Inf cost rather than an error. This
	// sentinel is kept for callers who wrap their own cost model and want a
	// consistent error to surface if they choose to check for non-finite
	// costs themselves; joinplan never returns it.
	ErrCostModel = errors.New("joinplan: cost model error")
)
