// Package cellcycle holds the four-compartment population model of cycle
// progression: G1 → S → G2/M → division back into G1, with a side flow from
// every live phase into Dead.  The model produces derivatives only; numerical
// integration is owned by the simulation engine.
package cellcycle

import (
	"math"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
)

// Epsilon is the population threshold below which death fluxes are clamped
// to keep compartments from being driven negative by a vanishing cohort.
const Epsilon = 1e-6

// Phases is the population split across cycle compartments.  Values are
// continuous cell counts; the model operates on expectations, not individual
// cells.
type Phases struct {
	G1   float64
	S    float64
	G2M  float64
	Dead float64
}

// Live returns the total live population.
func (p Phases) Live() float64 {
	return p.G1 + p.S + p.G2M
}

// Total returns live plus dead population.
func (p Phases) Total() float64 {
	return p.Live() + p.Dead
}

// IsFinite reports whether every compartment holds a finite value.
func (p Phases) IsFinite() bool {
	for _, v := range []float64{p.G1, p.S, p.G2M, p.Dead} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ClampNonNegative zeroes any compartment the integrator overshot below zero.
func (p Phases) ClampNonNegative() Phases {
	return Phases{
		G1:   math.Max(0, p.G1),
		S:    math.Max(0, p.S),
		G2M:  math.Max(0, p.G2M),
		Dead: math.Max(0, p.Dead),
	}
}

// Model holds the first-order phase-transition rates of one cell line at
// reference conditions.  Rates are 1/hour, derived from the profile's
// nominal phase durations and calibrated so the unperturbed model reproduces
// the profile's doubling time.
type Model struct {
	kG1S     float64 // G1 → S
	kSG2M    float64 // S → G2/M
	kDivide  float64 // G2/M exit: one cell leaves, two enter G1
	baseline float64 // spontaneous death rate
}

// NewModel derives transition rates from the cell-line profile.
//
// Naive rates 1/duration make the mean cycle transit time match the profile,
// but a linear chain with a 2× branch grows faster than ln2/doubling because
// the compartments equilibrate to an exponential age distribution.  The
// rates are therefore uniformly rescaled so that the dominant eigenvalue of
// the transition matrix, less the spontaneous death rate, equals the
// profile's division rate.
func NewModel(p cellline.Parameters) *Model {
	g1 := durationOrDefault(p.Phases.G1, 10)
	s := durationOrDefault(p.Phases.S, 8)
	g2m := durationOrDefault(p.Phases.G2+p.Phases.M, 6)

	m := &Model{
		kG1S:     1 / g1,
		kSG2M:    1 / s,
		kDivide:  1 / g2m,
		baseline: math.Max(0, p.BaselineDeathRate),
	}
	m.calibrate(p.DivisionRate() + m.baseline)
	return m
}

func durationOrDefault(hours, fallback float64) float64 {
	if hours <= 0 {
		return fallback
	}
	return hours
}

// growthEigenvalue returns the dominant eigenvalue λ of the live-compartment
// transition matrix under a uniform rate scale c, found by bisection on the
// characteristic equation (c·k1+λ)(c·k2+λ)(c·k3+λ) = 2·c³·k1·k2·k3.
func (m *Model) growthEigenvalue(scale float64) float64 {
	k1, k2, k3 := scale*m.kG1S, scale*m.kSG2M, scale*m.kDivide

	f := func(l float64) float64 {
		return (k1+l)*(k2+l)*(k3+l) - 2*k1*k2*k3
	}

	// λ lies in (0, min(k)) since f(0) < 0 and f(min k) > 0.
	lo, hi := 0.0, math.Min(k1, math.Min(k2, k3))
	for i := 0; i < 80; i++ {
		mid := (lo + hi) / 2
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// calibrate rescales all transition rates so the model's exponential growth
// rate equals target (1/hour).  The characteristic equation is homogeneous,
// so λ scales linearly with a uniform rate scale and a single division gives
// the exact calibration.
func (m *Model) calibrate(target float64) {
	if target <= 0 {
		return
	}
	base := m.growthEigenvalue(1)
	if base <= 0 {
		return
	}
	scale := target / base
	m.kG1S *= scale
	m.kSG2M *= scale
	m.kDivide *= scale
}

// Derivatives returns the rate of change of each compartment given the
// current populations, the microenvironment growth factor, the combined
// instantaneous death rate (stress + cytotoxic drug effect), and the arrest
// factor ∈ [0,1] applied to the G1→S transition (1 = unimpeded).
//
// Division conserves mass except for the 2× multiplication at G2/M exit.
// Death moves cells into Dead, so total mass (live + dead) only grows
// through division.
func (m *Model) Derivatives(ph Phases, growthFactor, deathRate, arrestFactor float64) Phases {
	if growthFactor < 0 {
		growthFactor = 0
	}
	if arrestFactor < 0 {
		arrestFactor = 0
	} else if arrestFactor > 1 {
		arrestFactor = 1
	}
	death := math.Max(0, deathRate) + m.baseline

	// A vanishing cohort no longer dies; this keeps compartments from being
	// pushed negative once the population has effectively reached zero.
	if ph.Live() < Epsilon {
		death = 0
	}

	g1 := math.Max(0, ph.G1)
	s := math.Max(0, ph.S)
	g2m := math.Max(0, ph.G2M)

	g1Exit := m.kG1S * growthFactor * arrestFactor * g1
	sExit := m.kSG2M * growthFactor * s
	division := m.kDivide * growthFactor * g2m

	return Phases{
		G1:   2*division - g1Exit - death*g1,
		S:    g1Exit - sExit - death*s,
		G2M:  sExit - division - death*g2m,
		Dead: death * (g1 + s + g2m),
	}
}
