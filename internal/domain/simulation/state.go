// Package simulation drives the coupled cell-cycle, microenvironment and
// PK/PD models forward in time with an adaptive Runge-Kutta integrator and
// produces sampled population trajectories.
package simulation

import (
	"math"
	"time"

	"github.com/turtacn/cytodyn/internal/domain/cellcycle"
	"github.com/turtacn/cytodyn/internal/domain/microenv"
	"github.com/turtacn/cytodyn/internal/domain/pkpd"
)

// stateDim is the length of the integration vector:
// [G1, S, G2M, Dead, drug concentration].
const stateDim = 5

const (
	idxG1 = iota
	idxS
	idxG2M
	idxDead
	idxConc
)

// state is the raw integration vector.
type state [stateDim]float64

func (s state) phases() cellcycle.Phases {
	return cellcycle.Phases{G1: s[idxG1], S: s[idxS], G2M: s[idxG2M], Dead: s[idxDead]}
}

func (s state) concentration() float64 { return s[idxConc] }

// isFinite reports whether every component is a normal float.
func (s state) isFinite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// clampNonNegative zeroes small integrator undershoots in place.
func (s *state) clampNonNegative() {
	for i, v := range s {
		if v < 0 {
			s[i] = 0
		}
	}
}

// Request is the validated input of one simulation run.
type Request struct {
	CellLine      string  `json:"cellLine"`
	InitialCells  float64 `json:"initialCells"`
	DurationHours float64 `json:"durationHours"`
	// SampleHours is the output sampling interval; 0 means the default of
	// one point per hour.
	SampleHours float64             `json:"sampleHours,omitempty"`
	Environment microenv.Conditions `json:"environment"`
	Treatment   pkpd.TreatmentSpec  `json:"treatment"`
}

// Timepoint is one sampled row of the trajectory.
type Timepoint struct {
	Time          float64          `json:"time"` // hours since start
	Phases        cellcycle.Phases `json:"phases"`
	Live          float64          `json:"live"`
	Total         float64          `json:"total"`
	Viability     float64          `json:"viability"` // live/total, 1 for an empty dish
	Concentration float64          `json:"concentration"`
}

// Stats records integrator effort for observability.
type Stats struct {
	Steps       int           `json:"steps"`
	Rejected    int           `json:"rejected"`
	Segments    int           `json:"segments"`
	WallClock   time.Duration `json:"-"`
	WallClockMS float64       `json:"wallClockMs"`
}

// Result is the full outcome of one run.
type Result struct {
	CellLine     string      `json:"cellLine"`
	GrowthFactor float64     `json:"growthFactor"` // microenvironment multiplier applied
	Timepoints   []Timepoint `json:"timepoints"`
	Stats        Stats       `json:"stats"`
}

// FinalLive returns the live population at the last sample, 0 when empty.
func (r *Result) FinalLive() float64 {
	if len(r.Timepoints) == 0 {
		return 0
	}
	return r.Timepoints[len(r.Timepoints)-1].Live
}

// FinalConcentration returns the drug concentration at the last sample.
func (r *Result) FinalConcentration() float64 {
	if len(r.Timepoints) == 0 {
		return 0
	}
	return r.Timepoints[len(r.Timepoints)-1].Concentration
}

// EffectiveDoublingHours estimates the realized doubling time from the
// trajectory endpoints; +Inf for flat or shrinking populations.
func (r *Result) EffectiveDoublingHours() float64 {
	if len(r.Timepoints) < 2 {
		return math.Inf(1)
	}
	first, last := r.Timepoints[0], r.Timepoints[len(r.Timepoints)-1]
	if first.Live <= 0 || last.Live <= first.Live {
		return math.Inf(1)
	}
	rate := math.Log(last.Live/first.Live) / (last.Time - first.Time)
	return math.Ln2 / rate
}

func newTimepoint(t float64, s state) Timepoint {
	ph := s.phases()
	live, total := ph.Live(), ph.Total()
	viability := 1.0
	if total > 0 {
		viability = live / total
	}
	return Timepoint{
		Time:          t,
		Phases:        ph,
		Live:          live,
		Total:         total,
		Viability:     viability,
		Concentration: math.Max(0, s.concentration()),
	}
}
