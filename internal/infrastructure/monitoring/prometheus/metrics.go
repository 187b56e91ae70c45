package prometheus

// SimMetrics holds the metric instruments shared by the HTTP layer and the
// simulation services.
type SimMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec   // method, path, status
	HTTPRequestDuration HistogramVec // method, path

	// Simulation layer
	SimulationsTotal     CounterVec   // cell_line, status
	SimulationDuration   HistogramVec // cell_line
	IntegratorSteps      HistogramVec // cell_line
	IntegratorRejections CounterVec   // cell_line
	ActiveSimulations    GaugeVec     // (no labels)

	// Predictor collaborator
	PredictorRequestsTotal CounterVec   // endpoint, status
	PredictorLatency       HistogramVec // endpoint
}

var (
	// DefaultHTTPDurationBuckets covers the expected latency range of the
	// API surface, from catalog reads to long simulation runs.
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

	// DefaultSimDurationBuckets covers CPU-bound integration wall time.
	DefaultSimDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}

	// DefaultStepCountBuckets covers accepted integrator step counts.
	DefaultStepCountBuckets = []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000}
)

// NewSimMetrics registers the full metric set on c and returns it.
func NewSimMetrics(c MetricsCollector) *SimMetrics {
	return &SimMetrics{
		HTTPRequestsTotal: c.RegisterCounter(
			"http_requests_total",
			"Total HTTP requests by method, path, and status code.",
			"method", "path", "status"),
		HTTPRequestDuration: c.RegisterHistogram(
			"http_request_duration_seconds",
			"HTTP request latency by method and path.",
			DefaultHTTPDurationBuckets,
			"method", "path"),

		SimulationsTotal: c.RegisterCounter(
			"simulations_total",
			"Completed simulation runs by cell line and outcome.",
			"cell_line", "status"),
		SimulationDuration: c.RegisterHistogram(
			"simulation_duration_seconds",
			"Wall-clock duration of simulation runs.",
			DefaultSimDurationBuckets,
			"cell_line"),
		IntegratorSteps: c.RegisterHistogram(
			"integrator_steps",
			"Accepted integrator steps per run.",
			DefaultStepCountBuckets,
			"cell_line"),
		IntegratorRejections: c.RegisterCounter(
			"integrator_rejected_steps_total",
			"Rejected (error-controlled) integrator steps.",
			"cell_line"),
		ActiveSimulations: c.RegisterGauge(
			"active_simulations",
			"Simulations currently executing."),

		PredictorRequestsTotal: c.RegisterCounter(
			"predictor_requests_total",
			"Response-predictor invocations by endpoint and outcome.",
			"endpoint", "status"),
		PredictorLatency: c.RegisterHistogram(
			"predictor_latency_seconds",
			"Response-predictor call latency.",
			nil,
			"endpoint"),
	}
}
