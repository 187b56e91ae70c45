package simulation

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/turtacn/cytodyn/pkg/errors"
)

// Cash-Karp embedded Runge-Kutta coefficients (orders 4 and 5).  The
// difference between the two solutions gives a per-step error estimate that
// drives the adaptive step size.
var (
	ckA = [6]float64{0, 1.0 / 5, 3.0 / 10, 3.0 / 5, 1, 7.0 / 8}

	ckB = [6][5]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{3.0 / 10, -9.0 / 10, 6.0 / 5},
		{-11.0 / 54, 5.0 / 2, -70.0 / 27, 35.0 / 27},
		{1631.0 / 55296, 175.0 / 512, 575.0 / 13824, 44275.0 / 110592, 253.0 / 4096},
	}

	// 5th-order weights.
	ckC = [6]float64{37.0 / 378, 0, 250.0 / 621, 125.0 / 594, 0, 512.0 / 1771}

	// Difference between the 5th- and 4th-order weights.
	ckDC = [6]float64{
		37.0/378 - 2825.0/27648,
		0,
		250.0/621 - 18575.0/48384,
		125.0/594 - 13525.0/55296,
		-277.0 / 14336,
		512.0/1771 - 1.0/4,
	}
)

const (
	stepSafety    = 0.9
	stepShrinkMin = 0.2 // never shrink a step by more than 5x at once
	stepGrowMax   = 5.0 // never grow a step by more than 5x at once
	minStep       = 1e-10
)

// derivFunc evaluates the coupled model right-hand side at time t.
type derivFunc func(t float64, y state) state

// integrator advances the state vector with adaptive Cash-Karp RK45 steps
// and interpolates dense output at requested sample times.  It accumulates
// effort counters across segments so one instance serves a whole run.
type integrator struct {
	absTol   float64
	relTol   float64
	maxSteps int

	steps    int
	rejected int
}

func newIntegrator(absTol, relTol float64, maxSteps int) *integrator {
	return &integrator{absTol: absTol, relTol: relTol, maxSteps: maxSteps}
}

// integrate advances y from t0 to t1, calling emit with a Hermite-interpolated
// state at each time in samples.  Samples must be ascending and lie within
// (t0, t1]; the caller emits the t0 point itself.  The returned state is the
// solution at t1.
func (in *integrator) integrate(ctx context.Context, f derivFunc, y state, t0, t1 float64, samples []float64, emit func(t float64, s state)) (state, error) {
	if t1 <= t0 {
		return y, nil
	}

	t := t0
	dy := f(t, y)
	h := in.initialStep(t0, t1)

	for t < t1 {
		select {
		case <-ctx.Done():
			return y, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "simulation cancelled mid-integration")
		default:
		}
		if in.steps >= in.maxSteps {
			return y, errors.Newf(errors.ErrCodeNumericalInstability,
				"step budget of %d exhausted at t=%.4fh", in.maxSteps, t)
		}
		if h > t1-t {
			h = t1 - t
		}

		yNext, errEst := in.step(f, t, y, dy, h)
		in.steps++

		if !yNext.isFinite() {
			return y, errors.Newf(errors.ErrCodeNumericalInstability,
				"non-finite state at t=%.4fh (step %.3g)", t, h)
		}

		tol := in.tolerance(y, yNext)
		if errEst > tol && h > minStep {
			in.rejected++
			h = math.Max(minStep, h*math.Max(stepShrinkMin, stepSafety*math.Pow(tol/errEst, 0.25)))
			continue
		}

		dyNext := f(t+h, yNext)

		// Dense output: cubic Hermite over the accepted step.
		for len(samples) > 0 && samples[0] <= t+h+1e-12 {
			ts := samples[0]
			samples = samples[1:]
			emit(ts, hermite(t, t+h, y, yNext, dy, dyNext, ts))
		}

		t += h
		y = yNext
		y.clampNonNegative()
		dy = dyNext

		if errEst > 0 {
			h *= math.Min(stepGrowMax, stepSafety*math.Pow(tol/errEst, 0.2))
		} else {
			h *= stepGrowMax
		}
	}
	return y, nil
}

// step performs one Cash-Karp evaluation and returns the 5th-order solution
// with the embedded error estimate (max norm over components).
func (in *integrator) step(f derivFunc, t float64, y state, dy state, h float64) (state, float64) {
	var k [6]state
	k[0] = dy
	for i := 1; i < 6; i++ {
		var yi state
		for c := 0; c < stateDim; c++ {
			acc := y[c]
			for j := 0; j < i; j++ {
				acc += h * ckB[i][j] * k[j][c]
			}
			yi[c] = acc
		}
		k[i] = f(t+ckA[i]*h, yi)
	}

	var out state
	var diff [stateDim]float64
	for c := 0; c < stateDim; c++ {
		sum, d := 0.0, 0.0
		for i := 0; i < 6; i++ {
			sum += ckC[i] * k[i][c]
			d += ckDC[i] * k[i][c]
		}
		out[c] = y[c] + h*sum
		diff[c] = h * d
	}
	return out, floats.Norm(diff[:], math.Inf(1))
}

// tolerance returns the acceptance threshold scaled by the largest state
// magnitude seen across the step.
func (in *integrator) tolerance(y, yNext state) float64 {
	scale := math.Max(floats.Norm(y[:], math.Inf(1)), floats.Norm(yNext[:], math.Inf(1)))
	return in.absTol + in.relTol*scale
}

func (in *integrator) initialStep(t0, t1 float64) float64 {
	return math.Min(0.1, (t1-t0)/100)
}

// hermite interpolates the state at ts within an accepted step [ta, tb]
// using the cubic matching values and derivatives at both ends.
func hermite(ta, tb float64, ya, yb, dya, dyb state, ts float64) state {
	h := tb - ta
	u := (ts - ta) / h
	u2 := u * u
	u3 := u2 * u

	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	var out state
	for c := 0; c < stateDim; c++ {
		out[c] = h00*ya[c] + h10*h*dya[c] + h01*yb[c] + h11*h*dyb[c]
	}
	out.clampNonNegative()
	return out
}
