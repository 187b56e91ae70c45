// Package cellline defines the immutable cell-line parameter catalog.
// Profiles are resolved once per simulation request and never mutated, so the
// catalog is safe for concurrent reads without locking after construction.
package cellline

import (
	"math"
)

// DrugClass identifies a pharmacological mechanism category.
type DrugClass string

const (
	DrugTaxol       DrugClass = "taxol"
	DrugCisplatin   DrugClass = "cisplatin"
	DrugDoxorubicin DrugClass = "doxorubicin"
	DrugGemcitabine DrugClass = "gemcitabine"
	DrugTargeted    DrugClass = "targeted"
)

// Mechanism describes how a drug's fractional effect feeds into the cell
// cycle: cytotoxic drugs add to the death rate, cytostatic drugs arrest the
// G1→S transition.
type Mechanism string

const (
	MechanismCytotoxic  Mechanism = "cytotoxic"
	MechanismCytostatic Mechanism = "cytostatic"
)

// Sensitivity is the dose-response parameterization of one cell line for one
// drug class: the Hill/Emax model E = Emax·C^n / (EC50^n + C^n).
type Sensitivity struct {
	EC50      float64   `json:"ec50" yaml:"ec50"` // µM, half-maximal concentration
	Hill      float64   `json:"hill" yaml:"hill"` // Hill coefficient n
	Emax      float64   `json:"emax" yaml:"emax"` // maximum fractional effect, ≤ 1
	Mechanism Mechanism `json:"mechanism" yaml:"mechanism"`
}

// PhaseDurations holds the nominal hours a healthy cell spends in each cycle
// phase at reference conditions.  G2 and M are merged in the population model
// but kept separate here because the catalog data is reported that way.
type PhaseDurations struct {
	G1 float64 `json:"g1" yaml:"g1"`
	S  float64 `json:"s" yaml:"s"`
	G2 float64 `json:"g2" yaml:"g2"`
	M  float64 `json:"m" yaml:"m"`
}

// Metabolism holds per-cell consumption/production rates in pmol/cell/hr.
// They scale the nutrient-dependence of the growth factor.
type Metabolism struct {
	GlucoseConsumption float64 `json:"glucose_consumption" yaml:"glucose_consumption"`
	OxygenConsumption  float64 `json:"oxygen_consumption" yaml:"oxygen_consumption"`
	LactateProduction  float64 `json:"lactate_production" yaml:"lactate_production"`
}

// Parameters is the complete immutable biological profile of a cell line.
type Parameters struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"` // "Cancer" | "Normal" | "Stem"
	Origin string `json:"origin" yaml:"origin"`

	// DoublingTime is the population doubling time in hours at reference
	// conditions.  The baseline division rate is ln(2)/DoublingTime.
	DoublingTime float64 `json:"doubling_time" yaml:"doubling_time"`

	// BaselineDeathRate is the spontaneous death rate (per hour) absent any
	// stress or drug effect.
	BaselineDeathRate float64 `json:"baseline_death_rate" yaml:"baseline_death_rate"`

	// OptimalTemperature and OptimalPH define the growth optimum used by the
	// microenvironment model.
	OptimalTemperature float64 `json:"optimal_temperature" yaml:"optimal_temperature"`
	OptimalPH          float64 `json:"optimal_ph" yaml:"optimal_ph"`

	Phases     PhaseDurations `json:"phases" yaml:"phases"`
	Metabolism Metabolism     `json:"metabolism" yaml:"metabolism"`

	// GrowthFactorDependence ∈ [0,1]: how strongly nutrient/signaling
	// deprivation slows G1 progression.
	GrowthFactorDependence float64 `json:"growth_factor_dependence" yaml:"growth_factor_dependence"`

	// ContactInhibition ∈ [0,1]: density-driven growth damping; carried in
	// the profile for parity with the catalog source even though the
	// well-mixed population model applies it only at carrying capacity.
	ContactInhibition float64 `json:"contact_inhibition" yaml:"contact_inhibition"`

	// Sensitivity maps each supported drug class to its dose-response curve.
	Sensitivity map[DrugClass]Sensitivity `json:"sensitivity" yaml:"sensitivity"`
}

// DivisionRate returns the baseline first-order division rate in 1/hour.
func (p Parameters) DivisionRate() float64 {
	if p.DoublingTime <= 0 {
		return 0
	}
	return math.Ln2 / p.DoublingTime
}

// SensitivityFor returns the dose-response parameters for the given drug
// class and whether the profile defines one.
func (p Parameters) SensitivityFor(class DrugClass) (Sensitivity, bool) {
	s, ok := p.Sensitivity[class]
	return s, ok
}

// Summary is the condensed view returned by the cell-line listing endpoint.
type Summary struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Origin       string  `json:"origin"`
	DoublingTime float64 `json:"doublingTime"`
	DrugClasses  []string `json:"drugClasses"`
}
