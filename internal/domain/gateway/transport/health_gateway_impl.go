package transport

import (
	"context"
	"strconv"
	"sync"

	"weather-relay/internal/domain/model"
)

type probeHealthGateway struct {
	kind   string
	probes map[string]Probe
	mutex  sync.RWMutex
}

// NewHealthGateway creates a registry for the probes of the transport named kind
func NewHealthGateway(kind string) RegistryHealthGateway {
	return &probeHealthGateway{
		kind:   kind,
		probes: make(map[string]Probe),
	}
}

func (gateway *probeHealthGateway) Register(name string, probe Probe) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	gateway.probes[name] = probe
}

func (gateway *probeHealthGateway) Unregister(name string) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	delete(gateway.probes, name)
}

func (gateway *probeHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	if len(gateway.probes) == 0 {
		return model.ComponentHealthStatus{
			Status: model.StatusUnknown,
			Details: map[string]string{
				"kind":         gateway.kind,
				"message":      "No transport components registered",
				"probes_count": "0",
			},
		}
	}

	overallStatus := model.StatusUp
	details := map[string]string{"kind": gateway.kind}
	probesUp := 0
	probesDown := 0

	for name, probe := range gateway.probes {
		up, probeDetails := probe.Probe()

		if up {
			probesUp++
			details[name+"_status"] = string(model.StatusUp)
		} else {
			probesDown++
			overallStatus = model.StatusDown
			details[name+"_status"] = string(model.StatusDown)
		}

		for key, value := range probeDetails {
			details[name+"_"+key] = value
		}
	}

	details["probes_total"] = strconv.Itoa(len(gateway.probes))
	details["probes_up"] = strconv.Itoa(probesUp)
	details["probes_down"] = strconv.Itoa(probesDown)

	return model.ComponentHealthStatus{
		Status:  overallStatus,
		Details: details,
	}
}
