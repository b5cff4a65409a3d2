package model

// FetchAccepted is returned once a fetch request has been dispatched
type FetchAccepted struct {
	InstanceID any    `json:"instanceId"`
	RequestID  string `json:"requestId"`
}

// ErrorResponse is the body of a rejected HTTP call
type ErrorResponse struct {
	Error string `json:"error"`
}
