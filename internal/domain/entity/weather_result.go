package entity

// InstanceIDField is the key added to every relayed forecast
const InstanceIDField = "instanceId"

// WeatherResult is the forecast body as returned by the provider, kept opaque
type WeatherResult map[string]any

// WithInstanceID attaches the requesting instance id so the receiver can correlate the result
func (w WeatherResult) WithInstanceID(instanceID any) WeatherResult {
	if w == nil {
		w = WeatherResult{}
	}
	w[InstanceIDField] = instanceID
	return w
}

// InstanceID returns the attached instance id, if any
func (w WeatherResult) InstanceID() any {
	return w[InstanceIDField]
}
