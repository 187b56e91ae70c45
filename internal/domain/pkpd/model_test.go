package pkpd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/pkg/errors"
)

func helaProfile(t *testing.T) cellline.Parameters {
	t.Helper()
	p, err := cellline.NewCatalog().Lookup("HeLa")
	require.NoError(t, err)
	return p
}

func TestNewModelValidation(t *testing.T) {
	profile := helaProfile(t)

	tests := []struct {
		name    string
		spec    TreatmentSpec
		code    errors.ErrorCode
		wantErr bool
	}{
		{name: "untreated", spec: None()},
		{
			name: "default schedule is bolus",
			spec: TreatmentSpec{Drug: cellline.DrugTaxol, Concentration: 5},
		},
		{
			name:    "unknown drug class",
			spec:    TreatmentSpec{Drug: "mystery", Concentration: 5},
			wantErr: true,
			code:    errors.ErrCodeUnknownDrug,
		},
		{
			name:    "negative concentration",
			spec:    TreatmentSpec{Concentration: -1},
			wantErr: true,
			code:    errors.ErrCodeInvalidParameters,
		},
		{
			name: "repeated without interval",
			spec: TreatmentSpec{
				Drug: cellline.DrugTaxol, Concentration: 5,
				Schedule: Schedule{Kind: ScheduleRepeated},
			},
			wantErr: true,
			code:    errors.ErrCodeInvalidParameters,
		},
		{
			name: "unknown schedule kind",
			spec: TreatmentSpec{
				Drug: cellline.DrugTaxol, Concentration: 5,
				Schedule: Schedule{Kind: "weekly"},
			},
			wantErr: true,
			code:    errors.ErrCodeInvalidParameters,
		},
		{
			name: "negative start",
			spec: TreatmentSpec{
				Drug: cellline.DrugTaxol, Concentration: 5,
				Schedule: Schedule{Kind: ScheduleBolus, Start: -2},
			},
			wantErr: true,
			code:    errors.ErrCodeInvalidParameters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewModel(tt.spec, profile)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.code))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, m)
		})
	}
}

func TestInactiveModelIsNeutral(t *testing.T) {
	m, err := NewModel(None(), helaProfile(t))
	require.NoError(t, err)

	assert.False(t, m.Active())
	assert.Zero(t, m.ConcentrationDerivative(3.0))
	assert.Zero(t, m.Effect(10))
	assert.Zero(t, m.DeathRate(10))
	assert.Equal(t, 1.0, m.ArrestFactor(10))
	assert.Nil(t, m.DoseTimes(72))
	assert.Zero(t, m.DoseAmount())
}

func TestConcentrationDerivative(t *testing.T) {
	profile := helaProfile(t)

	bolus, err := NewModel(TreatmentSpec{
		Drug: cellline.DrugTaxol, Concentration: 10,
		Schedule: Schedule{Kind: ScheduleBolus},
	}, profile)
	require.NoError(t, err)

	// Pure first-order decay between doses.
	assert.InDelta(t, -0.04*10, bolus.ConcentrationDerivative(10), 1e-12)
	// Overshoot below zero never feeds back a positive input.
	assert.Zero(t, bolus.ConcentrationDerivative(-0.5))

	infusion, err := NewModel(TreatmentSpec{
		Drug: cellline.DrugTaxol, Concentration: 10,
		Schedule: Schedule{Kind: ScheduleInfusion},
	}, profile)
	require.NoError(t, err)

	// At the plateau the input balances elimination exactly.
	assert.InDelta(t, 0, infusion.ConcentrationDerivative(10), 1e-12)
	assert.Greater(t, infusion.ConcentrationDerivative(5), 0.0)
	assert.Less(t, infusion.ConcentrationDerivative(20), 0.0)
}

func TestDoseTimes(t *testing.T) {
	profile := helaProfile(t)

	tests := []struct {
		name     string
		schedule Schedule
		duration float64
		want     []float64
	}{
		{
			name:     "bolus at zero",
			schedule: Schedule{Kind: ScheduleBolus},
			duration: 72,
			want:     []float64{0},
		},
		{
			name:     "delayed bolus",
			schedule: Schedule{Kind: ScheduleBolus, Start: 24},
			duration: 72,
			want:     []float64{24},
		},
		{
			name:     "bolus after the run ends",
			schedule: Schedule{Kind: ScheduleBolus, Start: 96},
			duration: 72,
			want:     nil,
		},
		{
			name:     "repeated every 24h",
			schedule: Schedule{Kind: ScheduleRepeated, Interval: 24},
			duration: 72,
			want:     []float64{0, 24, 48, 72},
		},
		{
			name:     "infusion has no impulses",
			schedule: Schedule{Kind: ScheduleInfusion},
			duration: 72,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewModel(TreatmentSpec{
				Drug: cellline.DrugTaxol, Concentration: 5,
				Schedule: tt.schedule,
			}, profile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.DoseTimes(tt.duration))
			if len(tt.want) > 0 {
				assert.Equal(t, 5.0, m.DoseAmount())
			}
		})
	}
}

func TestEffectHillCurve(t *testing.T) {
	profile := helaProfile(t)
	m, err := NewModel(TreatmentSpec{
		Drug: cellline.DrugTaxol, Concentration: 10,
		Schedule: Schedule{Kind: ScheduleBolus},
	}, profile)
	require.NoError(t, err)

	sens, ok := profile.SensitivityFor(cellline.DrugTaxol)
	require.True(t, ok)

	// Half of Emax exactly at the EC50.
	assert.InDelta(t, sens.Emax/2, m.Effect(sens.EC50), 1e-12)

	// Monotone in concentration, clamped to [0, Emax].
	prev := 0.0
	for _, c := range []float64{0.1, 1, 5, 10, 50, 500, 5000} {
		e := m.Effect(c)
		assert.Greater(t, e, prev)
		assert.LessOrEqual(t, e, sens.Emax)
		prev = e
	}
	assert.InDelta(t, sens.Emax, m.Effect(1e9), 1e-6)

	// Negative concentration clamps to zero effect.
	assert.Zero(t, m.Effect(-3))
	assert.Zero(t, m.Effect(0))
}

func TestMechanismRouting(t *testing.T) {
	profile := helaProfile(t)

	cytotoxic, err := NewModel(TreatmentSpec{
		Drug: cellline.DrugTaxol, Concentration: 20,
		Schedule: Schedule{Kind: ScheduleBolus},
	}, profile)
	require.NoError(t, err)

	assert.Equal(t, cellline.MechanismCytotoxic, cytotoxic.Mechanism())
	assert.InDelta(t, killRateScale*cytotoxic.Effect(20), cytotoxic.DeathRate(20), 1e-12)
	assert.Equal(t, 1.0, cytotoxic.ArrestFactor(20))

	cytostatic, err := NewModel(TreatmentSpec{
		Drug: cellline.DrugTargeted, Concentration: 40,
		Schedule: Schedule{Kind: ScheduleBolus},
	}, profile)
	require.NoError(t, err)

	assert.Equal(t, cellline.MechanismCytostatic, cytostatic.Mechanism())
	assert.Zero(t, cytostatic.DeathRate(40))
	arrest := cytostatic.ArrestFactor(40)
	assert.InDelta(t, 1-cytostatic.Effect(40), arrest, 1e-12)
	assert.Greater(t, arrest, 0.0)
	assert.Less(t, arrest, 1.0)
}

func TestInfusionApproachesPlateau(t *testing.T) {
	profile := helaProfile(t)
	m, err := NewModel(TreatmentSpec{
		Drug: cellline.DrugTaxol, Concentration: 8,
		Schedule: Schedule{Kind: ScheduleInfusion},
	}, profile)
	require.NoError(t, err)

	// Forward Euler from zero: the concentration converges to the target.
	c, dt := 0.0, 0.01
	for t0 := 0.0; t0 < 400; t0 += dt {
		c += dt * m.ConcentrationDerivative(c)
	}
	assert.InDelta(t, 8, c, 0.05)
	assert.False(t, math.IsNaN(c))
}
