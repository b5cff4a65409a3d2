package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	charsetpkg "golang.org/x/net/html/charset"
)

// Client represents an HTTP client with configuration options.
type Client struct {
	baseURL            string
	client             *http.Client
	dismiss404         bool
	defaultHeaders     map[string]string
	defaultContentType string
	logger             HTTPLogger
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	FollowRedirect      bool
	Dismiss404          bool
	DisableKeepAlives   bool
	DefaultHeaders      map[string]string
	DefaultContentType  string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	Logger              HTTPLogger
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 200
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 20
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 60 * time.Second
	}
	if opts.DefaultContentType == "" {
		opts.DefaultContentType = "application/json"
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		IdleConnTimeout:     opts.IdleConnTimeout,
		DisableKeepAlives:   opts.DisableKeepAlives,
		DialContext: (&net.Dialer{
			Timeout: opts.ConnectionTimeout,
		}).DialContext,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.ReadTimeout,
	}

	if !opts.FollowRedirect {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		client:             client,
		dismiss404:         opts.Dismiss404,
		defaultHeaders:     opts.DefaultHeaders,
		defaultContentType: opts.DefaultContentType,
		logger:             opts.Logger,
	}
}

// BaseURL returns the normalized base URL of the client.
func (hc *Client) BaseURL() string {
	return hc.baseURL
}

// Request creates a new Request object for the client.
func (hc *Client) Request() *Request {
	return NewHttpClientRequest(hc)
}

// Get sends a GET request to the specified path with optional headers.
// It returns the success response, the status code and an error if any.
func (hc *Client) Get(ctx context.Context, path string, headers map[string]string, successResp any) (any, int, error) {
	return hc.doRequest(ctx, http.MethodGet, path, headers, nil, successResp, false)
}

// doRequest sends an HTTP request with the given method, path, headers, body and success response.
// Non-2xx responses are returned as *StatusError, undecodable bodies as *DecodeError.
func (hc *Client) doRequest(ctx context.Context, method, path string, headers map[string]string, body any, successResp any, closeConn bool) (any, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	url := hc.buildURL(path)

	var bodyReader io.Reader
	var bodyLog string
	if body != nil {
		switch body := body.(type) {
		case string:
			bodyReader = bytes.NewBufferString(body)
			bodyLog = body
		case []byte:
			bodyReader = bytes.NewBuffer(body)
			bodyLog = string(body)
		default:
			jsonBody, err := json.Marshal(body)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to marshal request body to JSON: %w", err)
			}
			bodyReader = bytes.NewBuffer(jsonBody)
			bodyLog = string(jsonBody)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, 0, err
	}
	req.Close = closeConn

	if body != nil {
		req.Header.Set("Content-Type", hc.defaultContentType)
	}
	for k, v := range hc.defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if closeConn {
		req.Header.Set("Connection", "close")
	}

	sentHeaders := flattenHeaders(req.Header)
	if hc.logger != nil {
		hc.logger.LogRequest(method, url, sentHeaders, bodyLog)
	}

	start := time.Now()
	resp, err := hc.client.Do(req)
	if err != nil {
		if hc.logger != nil {
			hc.logger.LogResponseError(method, url, sentHeaders, bodyLog, 0, "", time.Since(start).Milliseconds(), err)
		}
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := readBody(resp)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		if hc.logger != nil {
			hc.logger.LogResponseError(method, url, sentHeaders, bodyLog, resp.StatusCode, "", latency, err)
		}
		return nil, resp.StatusCode, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if successResp != nil {
			if err = json.Unmarshal(bodyBytes, successResp); err != nil {
				decodeErr := &DecodeError{StatusCode: resp.StatusCode, Err: err}
				if hc.logger != nil {
					hc.logger.LogResponseError(method, url, sentHeaders, bodyLog, resp.StatusCode, string(bodyBytes), latency, decodeErr)
				}
				return nil, resp.StatusCode, decodeErr
			}
		}
		if hc.logger != nil {
			hc.logger.LogResponseSuccess(method, url, sentHeaders, bodyLog, resp.StatusCode, string(bodyBytes), latency)
		}
		return successResp, resp.StatusCode, nil
	}

	if resp.StatusCode == http.StatusNotFound && hc.dismiss404 {
		return nil, resp.StatusCode, nil
	}

	statusErr := &StatusError{StatusCode: resp.StatusCode, Reason: reasonPhrase(resp), Body: bodyBytes}
	if hc.logger != nil {
		hc.logger.LogResponseError(method, url, sentHeaders, bodyLog, resp.StatusCode, string(bodyBytes), latency, statusErr)
	}
	return nil, resp.StatusCode, statusErr
}

// readBody reads the whole response body, transcoding it to UTF-8 based on the Content-Type charset
func readBody(resp *http.Response) ([]byte, error) {
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || !strings.Contains(strings.ToLower(contentType), "charset=") {
		return io.ReadAll(resp.Body)
	}

	reader, err := charsetpkg.NewReader(resp.Body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response charset: %w", err)
	}
	return io.ReadAll(reader)
}

// reasonPhrase extracts the reason phrase from the status line, e.g. "Not Found" from "404 Not Found"
func reasonPhrase(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for k := range header {
		flat[k] = header.Get(k)
	}
	return flat
}

// buildURL builds a normalized URL by properly handling baseURL and path
func (hc *Client) buildURL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return hc.baseURL + path
}
