package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"studio/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var samplesYAML []byte

type sampleSet struct {
	Services  []models.Service       `yaml:"services"`
	Portfolio []models.PortfolioItem `yaml:"portfolio"`
}

var (
	samplesOnce sync.Once
	samples     sampleSet
)

func loadSamples() sampleSet {
	samplesOnce.Do(func() {
		if err := yaml.Unmarshal(samplesYAML, &samples); err != nil {
			panic(fmt.Sprintf("catalog: embedded samples are invalid: %v", err))
		}
	})
	return samples
}

// SampleServices returns a fresh copy of the built-in services, pointer fields
// included.
func SampleServices() []models.Service {
	src := loadSamples().Services
	out := make([]models.Service, len(src))
	for i, s := range src {
		if s.PriceFrom != nil {
			price := *s.PriceFrom
			s.PriceFrom = &price
		}
		if s.DurationMin != nil {
			duration := *s.DurationMin
			s.DurationMin = &duration
		}
		out[i] = s
	}
	return out
}

// SamplePortfolio returns a fresh copy of the built-in portfolio.
func SamplePortfolio() []models.PortfolioItem {
	src := loadSamples().Portfolio
	out := make([]models.PortfolioItem, len(src))
	copy(out, src)
	return out
}
