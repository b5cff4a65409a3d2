package http

import (
	"context"
	"fmt"
)

// RequestMethod represents the HTTP method for the request.
type RequestMethod string

const (
	GET    RequestMethod = "GET"
	POST   RequestMethod = "POST"
	PATCH  RequestMethod = "PATCH"
	PUT    RequestMethod = "PUT"
	DELETE RequestMethod = "DELETE"
)

// Request represents an HTTP request with various configuration options.
type Request struct {
	requestClient      *Client
	requestContext     context.Context
	requestMethod      RequestMethod
	requestPath        string
	requestHeaders     map[string]string
	requestBody        any
	requestSuccessResp any
	requestClose       bool
}

// NewHttpClientRequest creates a new Request object with the given client.
func NewHttpClientRequest(client *Client) *Request {
	return &Request{
		requestClient:  client,
		requestContext: context.Background(),
		requestMethod:  GET,
		requestPath:    "/",
	}
}

// WithContext sets the context bounding the request; its deadline aborts the call.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.requestContext = ctx
	return r
}

// WithMethod sets the HTTP method for the request.
func (r *Request) WithMethod(method RequestMethod) *Request {
	r.requestMethod = method
	return r
}

// WithPath sets the path for the request. It may carry an already encoded query string.
func (r *Request) WithPath(path string) *Request {
	r.requestPath = path
	return r
}

// WithHeaders sets the headers for the request.
func (r *Request) WithHeaders(headers map[string]string) *Request {
	r.requestHeaders = headers
	return r
}

// WithBody sets the body for the request.
func (r *Request) WithBody(body any) *Request {
	r.requestBody = body
	return r
}

// WithSuccessResp sets the success response for the request.
func (r *Request) WithSuccessResp(successResp any) *Request {
	r.requestSuccessResp = successResp
	return r
}

// WithConnectionClose asks the server to close the connection after the response.
func (r *Request) WithConnectionClose() *Request {
	r.requestClose = true
	return r
}

// Execute sends the request and returns the success response, status code, and error if any.
func (r *Request) Execute() (any, int, error) {
	if r.requestClient == nil {
		return nil, 0, fmt.Errorf("client is required")
	}
	if r.requestMethod == "" {
		return nil, 0, fmt.Errorf("method is required")
	}
	if r.requestPath == "" {
		return nil, 0, fmt.Errorf("path is required")
	}

	return r.requestClient.doRequest(
		r.requestContext,
		string(r.requestMethod),
		r.requestPath,
		r.requestHeaders,
		r.requestBody,
		r.requestSuccessResp,
		r.requestClose,
	)
}
