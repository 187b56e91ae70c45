package cellcycle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
)

func helaModel(t *testing.T) (*Model, cellline.Parameters) {
	t.Helper()
	p, err := cellline.NewCatalog().Lookup("HeLa")
	require.NoError(t, err)
	return NewModel(p), p
}

func TestPhases_Accessors(t *testing.T) {
	ph := Phases{G1: 100, S: 50, G2M: 25, Dead: 10}
	assert.Equal(t, 175.0, ph.Live())
	assert.Equal(t, 185.0, ph.Total())
	assert.True(t, ph.IsFinite())

	assert.False(t, Phases{G1: math.NaN()}.IsFinite())
	assert.False(t, Phases{S: math.Inf(1)}.IsFinite())

	clamped := Phases{G1: -1e-9, S: 1, G2M: -2, Dead: 3}.ClampNonNegative()
	assert.Equal(t, Phases{G1: 0, S: 1, G2M: 0, Dead: 3}, clamped)
}

// Euler-integrate the model with small steps; accurate enough to verify
// growth-rate calibration without depending on the engine package.
func integrate(m *Model, ph Phases, hours, growthFactor, deathRate, arrestFactor float64) Phases {
	const dt = 0.001
	steps := int(hours / dt)
	for i := 0; i < steps; i++ {
		d := m.Derivatives(ph, growthFactor, deathRate, arrestFactor)
		ph.G1 += dt * d.G1
		ph.S += dt * d.S
		ph.G2M += dt * d.G2M
		ph.Dead += dt * d.Dead
	}
	return ph
}

func TestModel_CalibratedGrowthMatchesDoublingTime(t *testing.T) {
	m, p := helaModel(t)

	// Run past the initial transient so the age distribution settles, then
	// measure growth over one doubling time.
	warm := integrate(m, Phases{G1: 1000}, 48, 1, 0, 1)
	grown := integrate(m, warm, p.DoublingTime, 1, 0, 1)

	ratio := grown.Live() / warm.Live()
	assert.InDelta(t, 2.0, ratio, 0.05, "population doubles in one doubling time")
}

func TestModel_DivisionProducesTwoDaughters(t *testing.T) {
	m, _ := helaModel(t)

	// All cells in G2/M: G1 gains twice what G2/M loses to division.
	d := m.Derivatives(Phases{G2M: 100}, 1, 0, 1)
	division := m.kDivide * 100
	assert.InDelta(t, 2*division, d.G1, 1e-9)
	assert.InDelta(t, -division-m.baseline*100, d.G2M, 1e-9)
}

func TestModel_MassConservationExceptDivision(t *testing.T) {
	m, _ := helaModel(t)
	ph := Phases{G1: 500, S: 300, G2M: 200}

	d := m.Derivatives(ph, 1, 0.05, 1)

	// d(total)/dt must equal the division gain exactly: death only moves
	// mass between live and dead compartments.
	division := m.kDivide * ph.G2M
	total := d.G1 + d.S + d.G2M + d.Dead
	assert.InDelta(t, division, total, 1e-9)
}

func TestModel_GrowthFactorScalesProgression(t *testing.T) {
	m, _ := helaModel(t)
	ph := Phases{G1: 100, S: 100, G2M: 100}

	full := m.Derivatives(ph, 1, 0, 1)
	half := m.Derivatives(ph, 0.5, 0, 1)
	frozen := m.Derivatives(ph, 0, 0, 1)

	// Subtract the growth-independent death term before comparing fluxes.
	assert.InDelta(t, full.S+m.baseline*100, 2*(half.S+m.baseline*100), 1e-9)
	assert.InDelta(t, -m.baseline*100, frozen.G1, 1e-12, "no cycling at zero growth factor")
}

func TestModel_ArrestBlocksG1SOnly(t *testing.T) {
	m, _ := helaModel(t)
	ph := Phases{G1: 100, S: 100, G2M: 100}

	free := m.Derivatives(ph, 1, 0, 1)
	arrested := m.Derivatives(ph, 1, 0, 0)

	// Arrest removes the G1 exit flux but leaves S→G2/M and division alone.
	assert.Greater(t, arrested.G1, free.G1)
	g1Exit := m.kG1S * 100
	assert.InDelta(t, free.G1+g1Exit, arrested.G1, 1e-9)
	assert.InDelta(t, free.G2M, arrested.G2M, 1e-9)
}

func TestModel_DeathMovesMassToDead(t *testing.T) {
	m, _ := helaModel(t)
	ph := Phases{G1: 300, S: 200, G2M: 100}

	d := m.Derivatives(ph, 1, 0.1, 1)
	assert.InDelta(t, (0.1+m.baseline)*600, d.Dead, 1e-9)
}

func TestModel_EpsilonClampStopsDeathForVanishedPopulation(t *testing.T) {
	m, _ := helaModel(t)
	tiny := Phases{G1: Epsilon / 10}

	d := m.Derivatives(tiny, 1, 10, 1)
	assert.Zero(t, d.Dead, "death flux clamped below epsilon")

	// Negative inputs from integrator overshoot are treated as empty.
	d = m.Derivatives(Phases{G1: -1}, 1, 10, 1)
	assert.Zero(t, d.Dead)
	assert.GreaterOrEqual(t, d.G1, 0.0)
}
