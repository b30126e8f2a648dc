package ports

import "context"

// HealthChecker verifies connectivity of one backing service.
type HealthChecker interface {
	Name() string
	Ping(ctx context.Context) error
}
