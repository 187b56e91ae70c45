// Package microenv maps culture conditions (temperature, pH, oxygen,
// nutrient availability) to the two scalar couplings the simulation engine
// consumes: a multiplicative growth-modulation factor and an additive
// stress death rate.  Both are pure functions so they can be unit tested
// without running an integration.
package microenv

import (
	"math"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/pkg/errors"
)

// Conditions is the per-request description of the culture environment.
// Oxygen and Nutrient are normalized fractions where 1.0 means normoxic /
// fully-fed reference media.
type Conditions struct {
	Temperature float64 // °C
	PH          float64
	Oxygen      float64 // 0..~1.5, 1.0 = normoxia
	Nutrient    float64 // 0..~1.5, 1.0 = fresh media
}

// Reference returns the reference optimum: 37°C, pH 7.4, normoxic fresh media.
func Reference() Conditions {
	return Conditions{Temperature: 37, PH: 7.4, Oxygen: 1, Nutrient: 1}
}

// Normalize fills unset optional fields with their reference values.
// Zero-valued Oxygen/Nutrient are treated as "not provided", matching the
// request schema where both are optional; true anoxia is expressed with a
// small positive value.
func (c Conditions) Normalize() Conditions {
	if c.Oxygen == 0 {
		c.Oxygen = 1
	}
	if c.Nutrient == 0 {
		c.Nutrient = 1
	}
	return c
}

// Validate rejects physically meaningless conditions before integration.
func (c Conditions) Validate() error {
	if c.Temperature < 0 || c.Temperature > 60 {
		return errors.InvalidParameters("environment.temperature must be within [0, 60] °C").
			WithDetail("temperature out of physical culture range")
	}
	if c.PH < 4 || c.PH > 10 {
		return errors.InvalidParameters("environment.pH must be within [4, 10]")
	}
	if c.Oxygen < 0 || c.Oxygen > 1.5 {
		return errors.InvalidParameters("environment.oxygen must be within [0, 1.5]")
	}
	if c.Nutrient < 0 || c.Nutrient > 1.5 {
		return errors.InvalidParameters("environment.nutrient must be within [0, 1.5]")
	}
	return nil
}

// Shape constants for the condition-response curves.  Widths are in the
// units of the corresponding condition.
const (
	tempSigma = 2.5  // °C width of the thermal tolerance Gaussian
	phSigma   = 0.35 // pH width

	oxygenK   = 0.15 // Michaelis constant of the oxygen response
	nutrientK = 0.2  // Michaelis constant of the nutrient response

	// growthFactorCeiling caps the modulation factor; mild hyperoxia or
	// nutrient excess can push growth slightly above the reference rate.
	growthFactorCeiling = 1.5
)

// GrowthFactor returns the multiplicative growth modulation ∈ [0, 1.5] for
// the given conditions and cell line.  It is exactly 1.0 at the profile's
// optimum under normoxic fresh media and decays smoothly toward 0 as any
// condition deviates.
func GrowthFactor(cond Conditions, p cellline.Parameters) float64 {
	cond = cond.Normalize()

	dT := cond.Temperature - p.OptimalTemperature
	gTemp := math.Exp(-(dT * dT) / (2 * tempSigma * tempSigma))

	dPH := cond.PH - p.OptimalPH
	gPH := math.Exp(-(dPH * dPH) / (2 * phSigma * phSigma))

	// Saturating responses normalized to 1.0 at the reference level, so
	// values above 1.0 yield a mild enhancement rather than a cliff.
	gO2 := cond.Oxygen * (1 + oxygenK) / (cond.Oxygen + oxygenK)

	mmNutrient := cond.Nutrient * (1 + nutrientK) / (cond.Nutrient + nutrientK)
	// Lines with low growth-factor dependence keep cycling under
	// deprivation; highly dependent lines track the media closely.
	gNutrient := 1 - p.GrowthFactorDependence + p.GrowthFactorDependence*mmNutrient

	g := gTemp * gPH * gO2 * gNutrient
	if g < 0 {
		return 0
	}
	if g > growthFactorCeiling {
		return growthFactorCeiling
	}
	return g
}

// Stress death-rate scale constants, in 1/hour at one characteristic
// deviation width.
const (
	tempStressScale = 0.008
	phStressScale   = 0.012
	hypoxiaScale    = 0.02
	starvationScale = 0.015

	hypoxiaThreshold    = 0.2
	starvationThreshold = 0.2
)

// StressDeathRate returns the additive death-rate term (1/hour) contributed
// by environmental stress.  It is 0 at the optimum and increases
// monotonically with deviation magnitude; hypoxia and starvation contribute
// only below their thresholds.
func StressDeathRate(cond Conditions, p cellline.Parameters) float64 {
	cond = cond.Normalize()

	dT := (cond.Temperature - p.OptimalTemperature) / tempSigma
	dPH := (cond.PH - p.OptimalPH) / phSigma

	rate := tempStressScale*dT*dT + phStressScale*dPH*dPH

	if cond.Oxygen < hypoxiaThreshold {
		deficit := (hypoxiaThreshold - cond.Oxygen) / hypoxiaThreshold
		rate += hypoxiaScale * deficit * deficit
	}
	if cond.Nutrient < starvationThreshold {
		deficit := (starvationThreshold - cond.Nutrient) / starvationThreshold
		rate += starvationScale * deficit * deficit
	}

	return rate
}
