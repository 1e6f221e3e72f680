package orchestrator

import "context"

// Health reports a point-in-time snapshot of the orchestrator's wired
// dependencies, without making any outbound call itself — a pure data
// method suitable for a liveness/readiness endpoint (SPEC_FULL.md §12).
func (o *Orchestrator) Health(ctx context.Context) (HealthReport, error) {
	report := HealthReport{
		RegistryConfigured:  o.registry != nil,
		ReasoningConfigured: o.reasoner != nil,
	}
	if o.index != nil {
		report.IndexSize = o.index.Size()
	}
	return report, nil
}
