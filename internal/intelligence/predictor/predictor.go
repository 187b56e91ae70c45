// Package predictor provides the response-prediction capability behind the
// /predict endpoints and the advisory hints attached to simulation results.
// The capability is a single-method interface so the backing implementation
// can be the built-in heuristic model or a remote inference service without
// callers knowing the difference.
package predictor

import (
	"context"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/internal/domain/microenv"
)

// Kind selects which question a Predict call asks.
type Kind string

const (
	// KindOptimalDose asks for the drug concentration expected to reach
	// the target inhibition on the given cell line.
	KindOptimalDose Kind = "optimal_dose"

	// KindGrowth asks for the expected live population after growing
	// untreated under the given environment.
	KindGrowth Kind = "growth"
)

// Features is the input feature set of one prediction.
type Features struct {
	Kind     Kind               `json:"kind"`
	CellLine string             `json:"cellLine"`
	Drug     cellline.DrugClass `json:"drug,omitempty"`

	// TargetInhibition applies to KindOptimalDose; 0 means the default
	// of half-maximal inhibition.
	TargetInhibition float64 `json:"targetInhibition,omitempty"`

	// InitialCells, DurationHours and Environment apply to KindGrowth.
	InitialCells  float64             `json:"initialCells,omitempty"`
	DurationHours float64             `json:"durationHours,omitempty"`
	Environment   microenv.Conditions `json:"environment,omitempty"`
}

// Prediction is the answer to one Predict call.  Fields not relevant to the
// asked Kind are zero.
type Prediction struct {
	Kind Kind `json:"kind"`

	// Optimal-dose answer.
	OptimalConcentration float64 `json:"optimalConcentration,omitempty"`
	ExpectedEffect       float64 `json:"expectedEffect,omitempty"`

	// Growth answer.
	PredictedLive          float64 `json:"predictedLive,omitempty"`
	GrowthFactor           float64 `json:"growthFactor,omitempty"`
	EffectiveDoublingHours float64 `json:"effectiveDoublingHours,omitempty"`

	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale,omitempty"`
}

// Predictor answers prediction queries.  Implementations must be safe for
// concurrent use.
type Predictor interface {
	Predict(ctx context.Context, f Features) (*Prediction, error)
}
