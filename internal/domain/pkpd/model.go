// Package pkpd couples drug exposure to cell-cycle effect.  The PK side is a
// one-compartment model with first-order elimination; dosing schedules add
// impulse inputs (bolus, repeated) or a continuous infusion term.  The PD
// side is the Hill/Emax relation converting concentration to a fractional
// effect, routed into the cycle model as either an added death rate
// (cytotoxic classes) or a G1→S arrest factor (cytostatic classes).
package pkpd

import (
	"math"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/pkg/errors"
)

// ScheduleKind selects the dosing pattern.
type ScheduleKind string

const (
	ScheduleBolus    ScheduleKind = "bolus"    // single dose at Start
	ScheduleRepeated ScheduleKind = "repeated" // dose at Start and every Interval after
	ScheduleInfusion ScheduleKind = "infusion" // continuous input holding steady state
)

// Schedule describes when drug enters the compartment.
type Schedule struct {
	Kind     ScheduleKind `json:"kind"`
	Start    float64      `json:"start"`    // hours, first dose time
	Interval float64      `json:"interval"` // hours between repeated doses
}

// TreatmentSpec is the per-request treatment value object.  A nil/zero Drug
// means no treatment.
type TreatmentSpec struct {
	Drug          cellline.DrugClass `json:"drug"`
	Concentration float64            `json:"concentration"` // µM per dose, or infusion plateau
	Schedule      Schedule           `json:"schedule"`
}

// None returns the untreated TreatmentSpec.
func None() TreatmentSpec { return TreatmentSpec{} }

// Active reports whether any drug exposure is requested.
func (s TreatmentSpec) Active() bool {
	return s.Drug != "" && s.Concentration > 0
}

// eliminationRates holds first-order media elimination constants (1/hour)
// per drug class, reflecting in-culture degradation and uptake losses.
var eliminationRates = map[cellline.DrugClass]float64{
	cellline.DrugTaxol:       0.04,
	cellline.DrugCisplatin:   0.12,
	cellline.DrugDoxorubicin: 0.06,
	cellline.DrugGemcitabine: 0.30,
	cellline.DrugTargeted:    0.02,
}

// defaultEliminationRate applies to overlay-defined drug classes without a
// dedicated constant.
const defaultEliminationRate = 0.05

// killRateScale converts the fractional PD effect of a cytotoxic drug into a
// death rate: at full effect (E = 1) the kill rate is 0.1/hour.
const killRateScale = 0.1

// Model computes drug concentration dynamics and their cell-cycle coupling
// for one validated treatment against one cell line.
type Model struct {
	spec     TreatmentSpec
	sens     cellline.Sensitivity
	elimRate float64
	infusion float64 // continuous input rate, 0 unless ScheduleInfusion
}

// NewModel validates spec against the cell line profile and returns the
// configured model.  An empty treatment yields a model whose concentration
// stays zero and whose effect terms are neutral.
func NewModel(spec TreatmentSpec, p cellline.Parameters) (*Model, error) {
	if !spec.Active() {
		if spec.Concentration < 0 {
			return nil, errors.InvalidParameters("treatment.concentration must be non-negative")
		}
		return &Model{spec: None()}, nil
	}

	sens, ok := p.SensitivityFor(spec.Drug)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownDrug,
			"cell line %s has no sensitivity profile for drug class %q", p.Name, spec.Drug)
	}
	if spec.Schedule.Kind == "" {
		spec.Schedule.Kind = ScheduleBolus
	}
	switch spec.Schedule.Kind {
	case ScheduleBolus, ScheduleInfusion:
	case ScheduleRepeated:
		if spec.Schedule.Interval <= 0 {
			return nil, errors.InvalidParameters("treatment.schedule.interval must be positive for repeated dosing")
		}
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameters,
			"treatment.schedule.kind %q is not one of bolus|repeated|infusion", spec.Schedule.Kind)
	}
	if spec.Schedule.Start < 0 {
		return nil, errors.InvalidParameters("treatment.schedule.start must be non-negative")
	}

	elim, ok := eliminationRates[spec.Drug]
	if !ok {
		elim = defaultEliminationRate
	}

	m := &Model{spec: spec, sens: sens, elimRate: elim}
	if spec.Schedule.Kind == ScheduleInfusion {
		// Input rate chosen so the steady-state plateau equals the
		// requested concentration.
		m.infusion = spec.Concentration * elim
	}
	return m, nil
}

// Active reports whether the model carries any drug exposure.
func (m *Model) Active() bool { return m.spec.Active() }

// Mechanism returns the drug's effect routing; MechanismCytotoxic for the
// inactive model (where the effect is zero anyway).
func (m *Model) Mechanism() cellline.Mechanism {
	if m.sens.Mechanism == "" {
		return cellline.MechanismCytotoxic
	}
	return m.sens.Mechanism
}

// ConcentrationDerivative returns dC/dt (µM/hour) from continuous terms
// only: infusion input minus first-order elimination.  Impulse doses are
// handled by the engine at schedule boundaries, never inside the derivative.
func (m *Model) ConcentrationDerivative(concentration float64) float64 {
	if !m.Active() {
		return 0
	}
	c := math.Max(0, concentration)
	return m.infusion - m.elimRate*c
}

// DoseTimes returns the impulse dose times within (0, duration], in order.
// A dose exactly at t=0 is reported too so the engine can apply it to the
// initial state.  Infusion and inactive schedules have no impulses.
func (m *Model) DoseTimes(duration float64) []float64 {
	if !m.Active() {
		return nil
	}
	switch m.spec.Schedule.Kind {
	case ScheduleBolus:
		if m.spec.Schedule.Start <= duration {
			return []float64{m.spec.Schedule.Start}
		}
		return nil
	case ScheduleRepeated:
		var times []float64
		for t := m.spec.Schedule.Start; t <= duration; t += m.spec.Schedule.Interval {
			times = append(times, t)
		}
		return times
	default:
		return nil
	}
}

// DoseAmount returns the concentration added per impulse dose.
func (m *Model) DoseAmount() float64 {
	if !m.Active() {
		return 0
	}
	return m.spec.Concentration
}

// Effect returns the fractional PD effect ∈ [0, Emax] for the given
// concentration via the Hill/Emax relation.  Integrator overshoot below
// zero is clamped before evaluation.
func (m *Model) Effect(concentration float64) float64 {
	if !m.Active() {
		return 0
	}
	c := math.Max(0, concentration)
	if c == 0 {
		return 0
	}
	cn := math.Pow(c, m.sens.Hill)
	en := math.Pow(m.sens.EC50, m.sens.Hill)
	effect := m.sens.Emax * cn / (en + cn)
	return math.Max(0, math.Min(effect, m.sens.Emax))
}

// DeathRate returns the additive death-rate contribution (1/hour) of a
// cytotoxic drug at the given concentration; 0 for cytostatic drugs.
func (m *Model) DeathRate(concentration float64) float64 {
	if m.Mechanism() != cellline.MechanismCytotoxic {
		return 0
	}
	return killRateScale * m.Effect(concentration)
}

// ArrestFactor returns the multiplicative G1→S arrest factor ∈ [0,1] of a
// cytostatic drug at the given concentration; 1 for cytotoxic drugs.
func (m *Model) ArrestFactor(concentration float64) float64 {
	if m.Mechanism() != cellline.MechanismCytostatic {
		return 1
	}
	return 1 - m.Effect(concentration)
}
