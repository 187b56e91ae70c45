package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/internal/domain/microenv"
	"github.com/turtacn/cytodyn/pkg/errors"
)

// defaultTargetInhibition is the inhibition an optimal-dose query aims for
// when the caller does not specify one.  At the catalog's standard Hill
// slope and Emax this lands at roughly twice the EC50.
const defaultTargetInhibition = 0.7

// localConfidence reflects that the heuristic is parameter-table driven, not
// fitted to experimental response data.
const localConfidence = 0.7

// Local is the built-in heuristic predictor backed by the cell-line catalog.
type Local struct {
	catalog *cellline.Catalog
}

// NewLocal returns a predictor answering from the catalog's profiles.
func NewLocal(catalog *cellline.Catalog) *Local {
	return &Local{catalog: catalog}
}

// Predict answers f without any network dependency.
func (l *Local) Predict(_ context.Context, f Features) (*Prediction, error) {
	profile, err := l.catalog.Lookup(f.CellLine)
	if err != nil {
		return nil, err
	}
	switch f.Kind {
	case KindOptimalDose:
		return l.optimalDose(f, profile)
	case KindGrowth:
		return l.growth(f, profile)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameters,
			"prediction kind %q is not one of optimal_dose|growth", f.Kind)
	}
}

func (l *Local) optimalDose(f Features, p cellline.Parameters) (*Prediction, error) {
	sens, ok := p.SensitivityFor(f.Drug)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownDrug,
			"cell line %s has no sensitivity profile for drug class %q", p.Name, f.Drug)
	}
	target := f.TargetInhibition
	if target == 0 {
		target = defaultTargetInhibition
	}
	if target < 0 || target >= sens.Emax {
		return nil, errors.Newf(errors.ErrCodeInvalidParameters,
			"targetInhibition %.2f is outside the achievable range [0, %.2f)", target, sens.Emax)
	}

	// Invert the Hill relation for the dose reaching the target effect.
	ratio := target / (sens.Emax - target)
	dose := sens.EC50 * math.Pow(ratio, 1/sens.Hill)

	effect := sens.Emax * math.Pow(dose, sens.Hill) /
		(math.Pow(sens.EC50, sens.Hill) + math.Pow(dose, sens.Hill))

	return &Prediction{
		Kind:                 KindOptimalDose,
		OptimalConcentration: dose,
		ExpectedEffect:       effect,
		Confidence:           localConfidence,
		Rationale: fmt.Sprintf("%s EC50 for %s is %.2f µM (Hill %.1f); %.2f µM reaches %.0f%% inhibition",
			p.Name, f.Drug, sens.EC50, sens.Hill, dose, effect*100),
	}, nil
}

func (l *Local) growth(f Features, p cellline.Parameters) (*Prediction, error) {
	if f.InitialCells <= 0 {
		return nil, errors.InvalidParameters("initialCells must be positive")
	}
	if f.DurationHours <= 0 {
		return nil, errors.InvalidParameters("durationHours must be positive")
	}
	env := f.Environment.Normalize()
	if err := env.Validate(); err != nil {
		return nil, err
	}

	gf := microenv.GrowthFactor(env, p)
	rate := p.DivisionRate()*gf - microenv.StressDeathRate(env, p)
	live := f.InitialCells * math.Exp(rate*f.DurationHours)

	doubling := math.Inf(1)
	if rate > 0 {
		doubling = math.Ln2 / rate
	}

	return &Prediction{
		Kind:                   KindGrowth,
		PredictedLive:          live,
		GrowthFactor:           gf,
		EffectiveDoublingHours: doubling,
		Confidence:             localConfidence,
		Rationale: fmt.Sprintf("%s doubles every %.1fh nominally; environment factor %.2f over %.0fh",
			p.Name, p.DoublingTime, gf, f.DurationHours),
	}, nil
}
