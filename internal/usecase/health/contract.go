package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ExtractorChecker checks resume-extraction service availability.
type ExtractorChecker interface {
	HealthCheck(ctx context.Context) error
}
