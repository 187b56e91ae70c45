package simulation

import (
	"context"
	"sort"
	"time"

	"github.com/turtacn/cytodyn/internal/domain/cellcycle"
	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/internal/domain/microenv"
	"github.com/turtacn/cytodyn/internal/domain/pkpd"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/cytodyn/pkg/errors"
)

// Options bounds one engine's numerical effort and request sizes.
type Options struct {
	AbsTolerance     float64
	RelTolerance     float64
	MaxSteps         int
	MaxInitialCells  float64
	MaxDurationHours float64
	RunTimeout       time.Duration
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		AbsTolerance:     1e-8,
		RelTolerance:     1e-7,
		MaxSteps:         200000,
		MaxInitialCells:  1e12,
		MaxDurationHours: 2160, // 90 days
		RunTimeout:       30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AbsTolerance <= 0 {
		o.AbsTolerance = d.AbsTolerance
	}
	if o.RelTolerance <= 0 {
		o.RelTolerance = d.RelTolerance
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	if o.MaxInitialCells <= 0 {
		o.MaxInitialCells = d.MaxInitialCells
	}
	if o.MaxDurationHours <= 0 {
		o.MaxDurationHours = d.MaxDurationHours
	}
	if o.RunTimeout <= 0 {
		o.RunTimeout = d.RunTimeout
	}
	return o
}

// defaultSampleHours is the output sampling interval when the request does
// not set one.
const defaultSampleHours = 1.0

// Engine runs validated simulation requests.  It holds no per-run state and
// is safe for concurrent use.
type Engine struct {
	catalog *cellline.Catalog
	opts    Options
	log     logging.Logger
}

// NewEngine wires an engine over the given catalog.  A nil logger disables
// engine logging.
func NewEngine(catalog *cellline.Catalog, opts Options, log logging.Logger) *Engine {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Engine{catalog: catalog, opts: opts.withDefaults(), log: log.Named("engine")}
}

// Validate checks every request field before any integration work and
// returns the resolved cell line profile and treatment model.
func (e *Engine) Validate(req Request) (cellline.Parameters, *pkpd.Model, error) {
	profile, err := e.catalog.Lookup(req.CellLine)
	if err != nil {
		return cellline.Parameters{}, nil, err
	}
	if req.InitialCells <= 0 {
		return cellline.Parameters{}, nil, errors.InvalidParameters("initialCells must be positive")
	}
	if req.InitialCells > e.opts.MaxInitialCells {
		return cellline.Parameters{}, nil, errors.Newf(errors.ErrCodeInvalidParameters,
			"initialCells %.3g exceeds the limit of %.3g", req.InitialCells, e.opts.MaxInitialCells)
	}
	if req.DurationHours <= 0 {
		return cellline.Parameters{}, nil, errors.InvalidParameters("durationHours must be positive")
	}
	if req.DurationHours > e.opts.MaxDurationHours {
		return cellline.Parameters{}, nil, errors.Newf(errors.ErrCodeInvalidParameters,
			"durationHours %.1f exceeds the limit of %.1f", req.DurationHours, e.opts.MaxDurationHours)
	}
	// SampleHours 0 means "use the default interval"; anything else must be
	// a positive interval that fits inside the experiment.
	if req.SampleHours < 0 {
		return cellline.Parameters{}, nil, errors.InvalidParameters("sampleHours must be non-negative")
	}
	if req.SampleHours > req.DurationHours {
		return cellline.Parameters{}, nil, errors.Newf(errors.ErrCodeInvalidParameters,
			"sampleHours %.1f exceeds durationHours %.1f", req.SampleHours, req.DurationHours)
	}
	if err := req.Environment.Normalize().Validate(); err != nil {
		return cellline.Parameters{}, nil, err
	}
	drug, err := pkpd.NewModel(req.Treatment, profile)
	if err != nil {
		return cellline.Parameters{}, nil, err
	}
	return profile, drug, nil
}

// Run executes one simulation from t=0 to req.DurationHours and returns the
// sampled trajectory.  The run is bounded by both ctx and the engine's
// RunTimeout.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	profile, drug, err := e.Validate(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.RunTimeout)
	defer cancel()

	started := time.Now()
	env := req.Environment.Normalize()
	growthFactor := microenv.GrowthFactor(env, profile)
	stressRate := microenv.StressDeathRate(env, profile)
	cycle := cellcycle.NewModel(profile)

	f := func(_ float64, y state) state {
		c := y.concentration()
		d := cycle.Derivatives(y.phases(), growthFactor,
			stressRate+drug.DeathRate(c), drug.ArrestFactor(c))
		return state{d.G1, d.S, d.G2M, d.Dead, drug.ConcentrationDerivative(c)}
	}

	y := e.initialState(req)
	samples := sampleTimes(req.DurationHours, req.SampleHours)
	boundaries, doses := segmentBoundaries(drug, req.DurationHours)

	// A dose at t=0 loads the compartment before the first sample.
	if doses[0] {
		y[idxConc] += drug.DoseAmount()
	}

	result := &Result{
		CellLine:     profile.Name,
		GrowthFactor: growthFactor,
		Timepoints:   make([]Timepoint, 0, len(samples)),
	}
	result.Timepoints = append(result.Timepoints, newTimepoint(0, y))
	samples = samples[1:]

	in := newIntegrator(e.opts.AbsTolerance, e.opts.RelTolerance, e.opts.MaxSteps)
	emit := func(t float64, s state) {
		result.Timepoints = append(result.Timepoints, newTimepoint(t, s))
	}

	prev := 0.0
	for _, b := range boundaries[1:] {
		var seg []float64
		for len(samples) > 0 && samples[0] <= b+1e-12 {
			seg = append(seg, samples[0])
			samples = samples[1:]
		}
		y, err = in.integrate(ctx, f, y, prev, b, seg, emit)
		if err != nil {
			e.log.Warn("simulation aborted",
				logging.String("cell_line", profile.Name),
				logging.Float64("at_hours", prev),
				logging.Err(err))
			return nil, err
		}
		if doses[b] && b < req.DurationHours {
			y[idxConc] += drug.DoseAmount()
		}
		prev = b
	}

	result.Stats = Stats{
		Steps:       in.steps,
		Rejected:    in.rejected,
		Segments:    len(boundaries) - 1,
		WallClock:   time.Since(started),
		WallClockMS: float64(time.Since(started).Microseconds()) / 1000,
	}
	e.log.Debug("simulation complete",
		logging.String("cell_line", profile.Name),
		logging.Float64("duration_hours", req.DurationHours),
		logging.Int("steps", in.steps),
		logging.Int("rejected", in.rejected),
		logging.Float64("final_live", result.FinalLive()))
	return result, nil
}

// initialState seeds the whole population in G1, matching a synchronized
// culture at plating time.  The phase distribution relaxes to its steady
// proportions within the first cycle.
func (e *Engine) initialState(req Request) state {
	return state{req.InitialCells, 0, 0, 0, 0}
}

// sampleTimes returns the ascending output grid 0, dt, 2dt, ..., always
// ending exactly at duration.
func sampleTimes(duration, dt float64) []float64 {
	if dt <= 0 {
		dt = defaultSampleHours
	}
	var times []float64
	for i := 0; ; i++ {
		t := float64(i) * dt
		if t >= duration-1e-12 {
			break
		}
		times = append(times, t)
	}
	return append(times, duration)
}

// segmentBoundaries returns the sorted integration breakpoints {0, dose
// times, duration} and the set of breakpoints that carry an impulse dose.
func segmentBoundaries(drug *pkpd.Model, duration float64) ([]float64, map[float64]bool) {
	doses := make(map[float64]bool)
	set := map[float64]bool{0: true, duration: true}
	for _, t := range drug.DoseTimes(duration) {
		doses[t] = true
		set[t] = true
	}
	boundaries := make([]float64, 0, len(set))
	for t := range set {
		boundaries = append(boundaries, t)
	}
	sort.Float64s(boundaries)
	return boundaries, doses
}
