package output

import (
	"encoding/json"

	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

// JSONFormatter emits the full plan result as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
