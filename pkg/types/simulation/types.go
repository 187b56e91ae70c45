// Package simulation defines the wire types of the simulation API, shared
// by the server handlers and the Go client.
package simulation

// SimulateRequest is the body of POST /api/v1/simulate.
type SimulateRequest struct {
	CellLineName     string           `json:"cellLineName"`
	Environment      Environment      `json:"environment"`
	Treatment        *Treatment       `json:"treatment,omitempty"`
	ExperimentParams ExperimentParams `json:"experimentParams"`
}

// Environment holds culture conditions.  Oxygen and Nutrient are normalized
// fractions of the reference condition; zero means "at reference".
type Environment struct {
	Temperature float64 `json:"temperature"`
	PH          float64 `json:"pH"`
	Oxygen      float64 `json:"oxygen,omitempty"`
	Nutrient    float64 `json:"nutrient,omitempty"`
}

// Treatment describes drug exposure.  Type is "none" or a drug class name
// (taxol, cisplatin, doxorubicin, gemcitabine, targeted).
type Treatment struct {
	Type          string    `json:"type"`
	Concentration float64   `json:"concentration,omitempty"`
	Schedule      *Schedule `json:"schedule,omitempty"`
}

// Schedule selects the dosing pattern; the default is a single bolus at t=0.
type Schedule struct {
	Kind     string  `json:"kind"` // "bolus" | "repeated" | "infusion"
	Start    float64 `json:"start,omitempty"`
	Interval float64 `json:"interval,omitempty"`
}

// ExperimentParams bounds the run.  Times are hours.
type ExperimentParams struct {
	InitialCells float64 `json:"initialCells"`
	Duration     float64 `json:"duration"`
	TimeInterval float64 `json:"timeInterval,omitempty"`
}

// PhaseCounts is the per-compartment population at one timepoint.
type PhaseCounts struct {
	G1   float64 `json:"g1"`
	S    float64 `json:"s"`
	G2M  float64 `json:"g2m"`
	Dead float64 `json:"dead"`
}

// Timepoint is one sampled row of the returned trajectory.
type Timepoint struct {
	Time              float64     `json:"time"`
	PhaseCounts       PhaseCounts `json:"phaseCounts"`
	DrugConcentration float64     `json:"drugConcentration"`
	ViableCount       float64     `json:"viableCount"`
	ViabilityFraction float64     `json:"viabilityFraction"`
}

// RunStats reports integrator effort.
type RunStats struct {
	Steps       int     `json:"steps"`
	Rejected    int     `json:"rejected"`
	Segments    int     `json:"segments"`
	WallClockMS float64 `json:"wallClockMs"`
}

// Warning is a non-fatal degradation attached to a successful response.
type Warning struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Recommendation is the advisory dosing hint attached to treated runs.
type Recommendation struct {
	OptimalConcentration float64 `json:"optimalConcentration"`
	ExpectedEffect       float64 `json:"expectedEffect"`
	Confidence           float64 `json:"confidence"`
	Rationale            string  `json:"rationale,omitempty"`
}

// SimulateResponse is the body of a successful POST /api/v1/simulate.
type SimulateResponse struct {
	RunID          string          `json:"runId"`
	CellLine       string          `json:"cellLine"`
	GrowthFactor   float64         `json:"growthFactor"`
	Timepoints     []Timepoint     `json:"timepoints"`
	Stats          RunStats        `json:"stats"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Warnings       []Warning       `json:"warnings,omitempty"`
}

// OptimalDoseRequest is the body of POST /api/v1/predict/optimal-dose.
type OptimalDoseRequest struct {
	CellLineName     string  `json:"cellLineName"`
	Drug             string  `json:"drug"`
	TargetInhibition float64 `json:"targetInhibition,omitempty"`
}

// OptimalDoseResponse is the corresponding success body.
type OptimalDoseResponse struct {
	CellLine             string  `json:"cellLine"`
	Drug                 string  `json:"drug"`
	OptimalConcentration float64 `json:"optimalConcentration"`
	ExpectedEffect       float64 `json:"expectedEffect"`
	Confidence           float64 `json:"confidence"`
	Rationale            string  `json:"rationale,omitempty"`
}

// GrowthRequest is the body of POST /api/v1/predict/growth.
type GrowthRequest struct {
	CellLineName string      `json:"cellLineName"`
	InitialCells float64     `json:"initialCells"`
	Duration     float64     `json:"duration"`
	Environment  Environment `json:"environment"`
}

// GrowthResponse is the corresponding success body.
type GrowthResponse struct {
	CellLine               string  `json:"cellLine"`
	PredictedLive          float64 `json:"predictedLive"`
	GrowthFactor           float64 `json:"growthFactor"`
	EffectiveDoublingHours float64 `json:"effectiveDoublingHours"`
	Confidence             float64 `json:"confidence"`
}

// CellLineSummary is one row of the catalog listing.
type CellLineSummary struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Origin       string   `json:"origin"`
	DoublingTime float64  `json:"doublingTime"`
	DrugClasses  []string `json:"drugClasses"`
}

// CellLineListResponse is the body of GET /api/v1/cell-lines.
type CellLineListResponse struct {
	CellLines []CellLineSummary `json:"cellLines"`
}

// DrugSensitivity is the dose-response parameterization reported by the
// cell-line detail endpoint.
type DrugSensitivity struct {
	EC50      float64 `json:"ec50"`
	Hill      float64 `json:"hill"`
	Emax      float64 `json:"emax"`
	Mechanism string  `json:"mechanism"`
}

// CellLinePhases holds nominal phase durations in hours.
type CellLinePhases struct {
	G1 float64 `json:"g1"`
	S  float64 `json:"s"`
	G2 float64 `json:"g2"`
	M  float64 `json:"m"`
}

// CellLineProfile is the body of GET /api/v1/cell-lines/{name}.
type CellLineProfile struct {
	Name                   string                     `json:"name"`
	Type                   string                     `json:"type"`
	Origin                 string                     `json:"origin"`
	DoublingTime           float64                    `json:"doubling_time"`
	BaselineDeathRate      float64                    `json:"baseline_death_rate"`
	OptimalTemperature     float64                    `json:"optimal_temperature"`
	OptimalPH              float64                    `json:"optimal_ph"`
	Phases                 CellLinePhases             `json:"phases"`
	GrowthFactorDependence float64                    `json:"growth_factor_dependence"`
	ContactInhibition      float64                    `json:"contact_inhibition"`
	Sensitivity            map[string]DrugSensitivity `json:"sensitivity"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string   `json:"status"`
	Version       string   `json:"version"`
	Features      []string `json:"features"`
	UptimeSeconds float64  `json:"uptimeSeconds"`
	CellLines     int      `json:"cellLines"`
}

// ErrorBody is the error envelope of every non-2xx response.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorBody under the "error" key.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
