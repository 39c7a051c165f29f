package carbon

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/reference.yaml
var referenceYAML []byte

// referenceDocument is the YAML layout of a reference dataset.
type referenceDocument struct {
	Sources []struct {
		ID   Source `yaml:"id"`
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
		Year string `yaml:"year"`
	} `yaml:"sources"`

	Factors []struct {
		Key         string           `yaml:"key"`
		Value       float64          `yaml:"value"`
		Unit        string           `yaml:"unit"`
		Source      Source           `yaml:"source"`
		Scope       Scope            `yaml:"scope"`
		Category    ActivityCategory `yaml:"category"`
		Description string           `yaml:"description"`
		GridMix     string           `yaml:"grid_mix"`
	} `yaml:"factors"`

	Units map[UnitCategory][]struct {
		Symbol     string  `yaml:"symbol"`
		Label      string  `yaml:"label"`
		Multiplier float64 `yaml:"multiplier"`
	} `yaml:"units"`

	EnergyMix *EnergyMix `yaml:"energy_mix"`
}

// unitEntry is one row of a unit conversion table.
type unitEntry struct {
	symbol     string
	label      string
	multiplier float64
}

// Registry holds the emission factors, publishers, unit conversion tables and
// energy mix of a reference dataset. It is immutable after loading and safe
// for concurrent use.
type Registry struct {
	factors map[string]EmissionFactor
	order   []string
	sources map[Source]SourceInfo

	units     map[UnitCategory][]unitEntry
	unitIndex map[UnitCategory]map[string]float64

	mix EnergyMix
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry built from the embedded dataset. It is
// parsed once on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		reg, err := LoadRegistry(referenceYAML)
		if err != nil {
			logger.Error().Err(err).Msg("failed to load embedded reference dataset")
			reg = emptyRegistry()
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// LoadRegistryFile reads a reference dataset from a YAML file.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference dataset %s: %w", path, err)
	}
	reg, err := LoadRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("loading reference dataset %s: %w", path, err)
	}
	return reg, nil
}

// LoadRegistry parses and validates a YAML reference dataset.
//
// Validation rejects duplicate or empty factor keys, unknown scopes, sources
// and categories, negative or non-finite factor values, unit tables without a
// base unit (multiplier 1), non-positive or NaN multipliers, NaN shares, and energy mix pairs that
// do not sum to 1.
func LoadRegistry(data []byte) (*Registry, error) {
	var doc referenceDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	reg := emptyRegistry()

	for _, s := range doc.Sources {
		if !s.ID.Valid() {
			return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidDataset, s.ID)
		}
		reg.sources[s.ID] = SourceInfo{Name: s.Name, URL: s.URL, Year: s.Year}
	}

	for _, f := range doc.Factors {
		switch {
		case f.Key == "":
			return nil, fmt.Errorf("%w: factor without key", ErrInvalidDataset)
		case !f.Scope.Valid():
			return nil, fmt.Errorf("%w: factor %s: unknown scope %q", ErrInvalidDataset, f.Key, f.Scope)
		case !f.Category.Valid():
			return nil, fmt.Errorf("%w: factor %s: unknown category %q", ErrInvalidDataset, f.Key, f.Category)
		case !f.Source.Valid():
			return nil, fmt.Errorf("%w: factor %s: unknown source %q", ErrInvalidDataset, f.Key, f.Source)
		case math.IsNaN(f.Value) || math.IsInf(f.Value, 0) || f.Value < 0:
			return nil, fmt.Errorf("%w: factor %s: invalid value %v", ErrInvalidDataset, f.Key, f.Value)
		}
		if _, dup := reg.factors[f.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate factor %s", ErrInvalidDataset, f.Key)
		}
		if _, ok := reg.sources[f.Source]; !ok {
			return nil, fmt.Errorf("%w: factor %s: source %s has no metadata", ErrInvalidDataset, f.Key, f.Source)
		}
		reg.factors[f.Key] = EmissionFactor{
			Key:         f.Key,
			Value:       f.Value,
			Unit:        f.Unit,
			Source:      f.Source,
			Scope:       f.Scope,
			Category:    f.Category,
			Description: f.Description,
			GridMix:     f.GridMix,
		}
		reg.order = append(reg.order, f.Key)
	}

	for category, rows := range doc.Units {
		if !category.Valid() {
			return nil, fmt.Errorf("%w: unknown unit category %q", ErrInvalidDataset, category)
		}
		hasBase := false
		index := make(map[string]float64, len(rows))
		entries := make([]unitEntry, 0, len(rows))
		for _, row := range rows {
			if row.Symbol == "" || math.IsNaN(row.Multiplier) || row.Multiplier <= 0 || math.IsInf(row.Multiplier, 0) {
				return nil, fmt.Errorf("%w: %s: invalid unit %q", ErrInvalidDataset, category, row.Symbol)
			}
			if _, dup := index[row.Symbol]; dup {
				return nil, fmt.Errorf("%w: %s: duplicate unit %q", ErrInvalidDataset, category, row.Symbol)
			}
			if row.Multiplier == 1 {
				hasBase = true
			}
			index[row.Symbol] = row.Multiplier
			entries = append(entries, unitEntry{symbol: row.Symbol, label: row.Label, multiplier: row.Multiplier})
		}
		if !hasBase {
			return nil, fmt.Errorf("%w: %s: no base unit with multiplier 1", ErrInvalidDataset, category)
		}
		reg.units[category] = entries
		reg.unitIndex[category] = index
	}

	if doc.EnergyMix == nil {
		return nil, fmt.Errorf("%w: missing energy_mix", ErrInvalidDataset)
	}
	for region, share := range map[string]MixShare{"IT": doc.EnergyMix.IT, "EU": doc.EnergyMix.EU} {
		if err := validateShare(share); err != nil {
			return nil, fmt.Errorf("%w: energy_mix %s: %w", ErrInvalidDataset, region, err)
		}
	}
	reg.mix = *doc.EnergyMix

	for _, key := range reg.order {
		f := reg.factors[key]
		if f.GridMix == "" {
			continue
		}
		share, ok := reg.mix.Share(f.GridMix)
		if !ok {
			return nil, fmt.Errorf("%w: factor %s: unknown grid mix %q", ErrInvalidDataset, key, f.GridMix)
		}
		if share.Renewable >= 1 {
			return nil, fmt.Errorf("%w: factor %s: grid mix %s is fully renewable", ErrInvalidDataset, key, f.GridMix)
		}
	}

	return reg, nil
}

func validateShare(s MixShare) error {
	if math.IsNaN(s.Renewable) || math.IsNaN(s.Fossil) ||
		s.Renewable < 0 || s.Renewable > 1 || s.Fossil < 0 || s.Fossil > 1 {
		return fmt.Errorf("shares must be within [0,1], got renewable=%v fossil=%v", s.Renewable, s.Fossil)
	}
	if math.Abs(s.Renewable+s.Fossil-1) > mixTolerance {
		return fmt.Errorf("shares must sum to 1, got %v", s.Renewable+s.Fossil)
	}
	return nil
}

func emptyRegistry() *Registry {
	return &Registry{
		factors:   make(map[string]EmissionFactor),
		sources:   make(map[Source]SourceInfo),
		units:     make(map[UnitCategory][]unitEntry),
		unitIndex: make(map[UnitCategory]map[string]float64),
	}
}

// Lookup returns the factor registered under key.
func (r *Registry) Lookup(key string) (EmissionFactor, bool) {
	f, ok := r.factors[key]
	return f, ok
}

// Len returns the number of registered factors.
func (r *Registry) Len() int {
	return len(r.order)
}

// Keys returns the factor keys in dataset order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// ListByScope returns the factors of a scope as selection options, in dataset
// order.
func (r *Registry) ListByScope(scope Scope) []Option {
	var opts []Option
	for _, key := range r.order {
		f := r.factors[key]
		if f.Scope == scope {
			opts = append(opts, Option{Value: key, Label: f.Description})
		}
	}
	return opts
}

// SourceInfo returns the publication metadata of the factor registered under key.
func (r *Registry) SourceInfo(key string) (SourceInfo, bool) {
	f, ok := r.factors[key]
	if !ok {
		return SourceInfo{}, false
	}
	info, ok := r.sources[f.Source]
	return info, ok
}

// EnergyMix returns the national grid splits.
func (r *Registry) EnergyMix() EnergyMix {
	return r.mix
}
