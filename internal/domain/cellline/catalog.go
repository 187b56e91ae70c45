package cellline

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/cytodyn/pkg/errors"
)

// Catalog is a read-only registry of cell-line profiles.  Construct it once
// at startup; Lookup and List are safe for concurrent use afterwards.
type Catalog struct {
	byKey map[string]Parameters
	names []string // insertion-ordered, builtin order then overlay additions
}

// NewCatalog builds a catalog containing the built-in profiles.
func NewCatalog() *Catalog {
	c := &Catalog{byKey: make(map[string]Parameters)}
	for _, p := range builtinProfiles() {
		c.put(p)
	}
	return c
}

// NewCatalogWithOverlay builds the built-in catalog and then applies the YAML
// overlay file at path.  Overlay entries with a known name replace the
// built-in profile; new names are appended to the listing order.
func NewCatalogWithOverlay(path string) (*Catalog, error) {
	c := NewCatalog()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to read catalog overlay")
	}

	var overlay struct {
		CellLines []Parameters `yaml:"cell_lines"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to parse catalog overlay")
	}

	for _, p := range overlay.CellLines {
		if p.Name == "" {
			return nil, errors.New(errors.ErrCodeCatalogLoadFailed, "overlay entry missing name")
		}
		if p.DoublingTime <= 0 {
			return nil, errors.Newf(errors.ErrCodeCatalogLoadFailed,
				"overlay entry %q: doubling_time must be positive", p.Name)
		}
		c.put(p)
	}
	return c, nil
}

func (c *Catalog) put(p Parameters) {
	key := strings.ToLower(p.Name)
	if _, exists := c.byKey[key]; !exists {
		c.names = append(c.names, p.Name)
	}
	c.byKey[key] = p
}

// Lookup resolves a profile by name, case-insensitively.  Returns an
// UnknownCellLine error when the name is not registered.
func (c *Catalog) Lookup(name string) (Parameters, error) {
	p, ok := c.byKey[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Parameters{}, errors.UnknownCellLine(name)
	}
	return p, nil
}

// List returns the registered cell-line names in stable catalog order.
func (c *Catalog) List() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Summaries returns the condensed listing view, in catalog order.
func (c *Catalog) Summaries() []Summary {
	out := make([]Summary, 0, len(c.names))
	for _, name := range c.names {
		p := c.byKey[strings.ToLower(name)]
		classes := make([]string, 0, len(p.Sensitivity))
		for class := range p.Sensitivity {
			classes = append(classes, string(class))
		}
		sort.Strings(classes)
		out = append(out, Summary{
			Name:         p.Name,
			Type:         p.Type,
			Origin:       p.Origin,
			DoublingTime: p.DoublingTime,
			DrugClasses:  classes,
		})
	}
	return out
}

// defaultHill and defaultEmax parameterize the Hill curves of the built-in
// profiles; the catalog source reports only per-class EC50 values.
const (
	defaultHill = 1.5
	defaultEmax = 0.95
)

func sensitivities(ec50 map[DrugClass]float64) map[DrugClass]Sensitivity {
	out := make(map[DrugClass]Sensitivity, len(ec50))
	for class, v := range ec50 {
		mech := MechanismCytotoxic
		if class == DrugTargeted {
			mech = MechanismCytostatic
		}
		out[class] = Sensitivity{EC50: v, Hill: defaultHill, Emax: defaultEmax, Mechanism: mech}
	}
	return out
}

func builtinProfiles() []Parameters {
	return []Parameters{
		{
			Name:               "HeLa",
			Type:               "Cancer",
			Origin:             "Cervical carcinoma",
			DoublingTime:       24,
			BaselineDeathRate:  0.001,
			OptimalTemperature: 37,
			OptimalPH:          7.4,
			Phases:             PhaseDurations{G1: 10, S: 8, G2: 4, M: 2},
			Metabolism:         Metabolism{GlucoseConsumption: 2.5, OxygenConsumption: 1.8, LactateProduction: 3.2},
			GrowthFactorDependence: 0.6,
			ContactInhibition:      0.2,
			Sensitivity: sensitivities(map[DrugClass]float64{
				DrugTaxol:       8.5,
				DrugCisplatin:   12.3,
				DrugDoxorubicin: 6.7,
				DrugGemcitabine: 15.2,
				DrugTargeted:    20.0,
			}),
		},
		{
			Name:               "MCF-7",
			Type:               "Cancer",
			Origin:             "Breast adenocarcinoma",
			DoublingTime:       29,
			BaselineDeathRate:  0.001,
			OptimalTemperature: 37,
			OptimalPH:          7.4,
			Phases:             PhaseDurations{G1: 14, S: 9, G2: 4, M: 2},
			Metabolism:         Metabolism{GlucoseConsumption: 2.1, OxygenConsumption: 1.5, LactateProduction: 2.8},
			GrowthFactorDependence: 0.8,
			ContactInhibition:      0.5,
			Sensitivity: sensitivities(map[DrugClass]float64{
				DrugTaxol:       6.2,
				DrugCisplatin:   18.5,
				DrugDoxorubicin: 4.3,
				DrugGemcitabine: 22.1,
				DrugTargeted:    8.5,
			}),
		},
		{
			Name:               "A549",
			Type:               "Cancer",
			Origin:             "Lung carcinoma",
			DoublingTime:       22,
			BaselineDeathRate:  0.001,
			OptimalTemperature: 37,
			OptimalPH:          7.4,
			Phases:             PhaseDurations{G1: 9, S: 7, G2: 4, M: 2},
			Metabolism:         Metabolism{GlucoseConsumption: 2.8, OxygenConsumption: 2.1, LactateProduction: 3.5},
			GrowthFactorDependence: 0.7,
			ContactInhibition:      0.3,
			Sensitivity: sensitivities(map[DrugClass]float64{
				DrugTaxol:       10.5,
				DrugCisplatin:   15.8,
				DrugDoxorubicin: 8.9,
				DrugGemcitabine: 12.3,
				DrugTargeted:    25.0,
			}),
		},
		{
			Name:               "HEK293",
			Type:               "Normal",
			Origin:             "Embryonic kidney",
			DoublingTime:       20,
			BaselineDeathRate:  0.0005,
			OptimalTemperature: 37,
			OptimalPH:          7.4,
			Phases:             PhaseDurations{G1: 8, S: 7, G2: 3, M: 2},
			Metabolism:         Metabolism{GlucoseConsumption: 1.8, OxygenConsumption: 1.3, LactateProduction: 2.0},
			GrowthFactorDependence: 0.5,
			ContactInhibition:      0.7,
			Sensitivity: sensitivities(map[DrugClass]float64{
				DrugTaxol:       15.0,
				DrugCisplatin:   25.0,
				DrugDoxorubicin: 18.0,
				DrugGemcitabine: 30.0,
				DrugTargeted:    50.0,
			}),
		},
		{
			Name:               "Jurkat",
			Type:               "Cancer",
			Origin:             "T-cell leukemia",
			DoublingTime:       48,
			BaselineDeathRate:  0.002,
			OptimalTemperature: 37,
			OptimalPH:          7.4,
			Phases:             PhaseDurations{G1: 20, S: 15, G2: 10, M: 3},
			Metabolism:         Metabolism{GlucoseConsumption: 3.2, OxygenConsumption: 2.5, LactateProduction: 4.0},
			GrowthFactorDependence: 0.9,
			ContactInhibition:      0.1,
			Sensitivity: sensitivities(map[DrugClass]float64{
				DrugTaxol:       12.0,
				DrugCisplatin:   8.5,
				DrugDoxorubicin: 5.2,
				DrugGemcitabine: 18.0,
				DrugTargeted:    15.0,
			}),
		},
	}
}
