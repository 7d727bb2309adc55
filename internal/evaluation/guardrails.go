package evaluation

import "fmt"

// GuardrailConfig sets the minimum scores an evaluation run must reach.
// Zero disables a check.
type GuardrailConfig struct {
	MinAccuracy  float64
	MinRecall    float64
	MinPrecision float64
}

// Guardrails gates a summary against GuardrailConfig.
type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	return &Guardrails{config: config}
}

// Violations lists every threshold the summary falls below.
func (g *Guardrails) Violations(s *EvalSummary) []string {
	var out []string
	if g.config.MinAccuracy > 0 && s.Accuracy() < g.config.MinAccuracy {
		out = append(out, fmt.Sprintf("accuracy %.2f below %.2f", s.Accuracy(), g.config.MinAccuracy))
	}
	if g.config.MinRecall > 0 && s.AvgRecall < g.config.MinRecall {
		out = append(out, fmt.Sprintf("recall %.2f below %.2f", s.AvgRecall, g.config.MinRecall))
	}
	if g.config.MinPrecision > 0 && s.AvgPrecision < g.config.MinPrecision {
		out = append(out, fmt.Sprintf("precision %.2f below %.2f", s.AvgPrecision, g.config.MinPrecision))
	}
	return out
}
