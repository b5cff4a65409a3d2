package transport

import (
	"context"

	"weather-relay/internal/domain/model"
)

// Probe reports whether one transport component is healthy, with details
type Probe interface {
	Probe() (up bool, details map[string]string)
}

// ProbeFunc adapts a function to Probe
type ProbeFunc func() (bool, map[string]string)

// Probe implements Probe
func (f ProbeFunc) Probe() (bool, map[string]string) {
	return f()
}

// HealthGateway reports the health of one application component
type HealthGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

// RegistryHealthGateway aggregates the probes of the active transport
type RegistryHealthGateway interface {
	HealthGateway
	Register(name string, probe Probe)
	Unregister(name string)
}
