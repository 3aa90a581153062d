package playground

import (
	_ "embed"

	"github.com/bnema/composer/internal/scenario"
)

//go:embed default.yaml
var defaultScenario []byte

// DefaultScenario is the document shown when no scenario file is given.
func DefaultScenario() (*scenario.Scenario, error) {
	return scenario.Parse(defaultScenario)
}
