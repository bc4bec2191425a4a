package classifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// ArtifactFormat tags artifacts written by this package.
const ArtifactFormat = "housingrisk/logistic/v1"

// Artifact is the on-disk form of a fitted Logistic.
type Artifact struct {
	Format       string             `json:"format"`
	Variant      interfaces.Variant `json:"variant"`
	Version      string             `json:"version"`
	FeatureNames []string           `json:"feature_names,omitempty"`
	Weights      []float64          `json:"weights"`
	Intercept    float64            `json:"intercept"`
	Means        []float64          `json:"means,omitempty"`
	Scales       []float64          `json:"scales,omitempty"`
	TrainedAt    time.Time          `json:"trained_at"`
	Samples      int                `json:"samples"`
}

// Artifact captures the model for persistence.
func (m *Logistic) Artifact(variant interfaces.Variant, trainedAt time.Time, samples int) *Artifact {
	a := &Artifact{
		Format:       ArtifactFormat,
		Variant:      variant,
		Version:      m.version,
		FeatureNames: m.Features(),
		Weights:      m.Weights(),
		Intercept:    m.intercept,
		TrainedAt:    trainedAt.UTC(),
		Samples:      samples,
	}
	if m.means != nil {
		a.Means = append([]float64(nil), m.means...)
		a.Scales = append([]float64(nil), m.scales...)
	}
	return a
}

// CatalogFeatures returns the canonical feature order of a variant.
func CatalogFeatures(v interfaces.Variant) ([]string, error) {
	switch v {
	case interfaces.VariantQuestionnaire:
		return catalog.DefaultQuestionnaire().Names(), nil
	case interfaces.VariantPhysical:
		return catalog.DefaultPhysical().Names(), nil
	default:
		return nil, fmt.Errorf("unknown variant %q", v)
	}
}

// Save writes the artifact as indented JSON.
func Save(path string, a *Artifact) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("classifier: encoding artifact: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("classifier: writing %s: %w", path, err)
	}
	return nil
}

// Load reads an artifact and rebuilds the model in catalog feature order. When
// want is non-empty the artifact must be for that variant. Every failure wraps
// interfaces.ErrModelLoad.
func Load(path string, want interfaces.Variant) (*Logistic, *Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading %s: %v", interfaces.ErrModelLoad, path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding %s: %v", interfaces.ErrModelLoad, path, err)
	}
	if want != "" && a.Variant != want {
		return nil, nil, fmt.Errorf("%w: %s holds a %q model, want %q", interfaces.ErrModelLoad, path, a.Variant, want)
	}
	m, err := FromArtifact(&a)
	if err != nil {
		return nil, nil, err
	}
	return m, &a, nil
}

// FromArtifact validates a decoded artifact and realigns it to the catalog
// feature order.
func FromArtifact(a *Artifact) (*Logistic, error) {
	if len(a.Weights) == 0 {
		return nil, fmt.Errorf("%w: artifact has no weights", interfaces.ErrModelLoad)
	}
	names, err := CatalogFeatures(a.Variant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrModelLoad, err)
	}
	if a.Means != nil && (len(a.Means) != len(a.Weights) || len(a.Scales) != len(a.Weights)) {
		return nil, fmt.Errorf("%w: %d weights but %d means and %d scales",
			interfaces.ErrModelLoad, len(a.Weights), len(a.Means), len(a.Scales))
	}

	order, err := alignment(a, names)
	if err != nil {
		return nil, err
	}

	m := &Logistic{
		version:   a.Version,
		names:     names,
		weights:   make([]float64, len(names)),
		intercept: a.Intercept,
	}
	if a.Means != nil {
		m.means = make([]float64, len(names))
		m.scales = make([]float64, len(names))
	}
	for i, src := range order {
		m.weights[i] = a.Weights[src]
		if m.means != nil {
			m.means[i] = a.Means[src]
			m.scales[i] = a.Scales[src]
			if m.scales[i] == 0 {
				m.scales[i] = 1
			}
		}
	}
	return m, nil
}

// alignment maps each catalog position to its index in the artifact.
func alignment(a *Artifact, names []string) ([]int, error) {
	order := make([]int, len(names))

	if len(a.FeatureNames) == 0 {
		if len(a.Weights) != len(names) {
			return nil, fmt.Errorf("%w: feature order absent and ambiguous: %d weights for %d catalog features",
				interfaces.ErrModelLoad, len(a.Weights), len(names))
		}
		slog.Warn("classifier: artifact has no feature names, assuming catalog order",
			"variant", a.Variant, "features", len(names))
		for i := range order {
			order[i] = i
		}
		return order, nil
	}

	if len(a.FeatureNames) != len(a.Weights) {
		return nil, fmt.Errorf("%w: %d feature names for %d weights",
			interfaces.ErrModelLoad, len(a.FeatureNames), len(a.Weights))
	}

	pos := make(map[string]int, len(a.FeatureNames))
	for i, n := range a.FeatureNames {
		if _, dup := pos[n]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", interfaces.ErrModelLoad, n)
		}
		pos[n] = i
	}
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for _, n := range a.FeatureNames {
		if !known[n] {
			return nil, fmt.Errorf("%w: unknown feature %q", interfaces.ErrModelLoad, n)
		}
	}
	for i, n := range names {
		src, ok := pos[n]
		if !ok {
			return nil, fmt.Errorf("%w: missing feature %q", interfaces.ErrModelLoad, n)
		}
		order[i] = src
	}
	return order, nil
}
