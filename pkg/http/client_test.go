package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingLogger struct {
	mu        sync.Mutex
	requests  []string
	successes []int
	failures  []int
}

func (l *recordingLogger) LogRequest(method, url string, headers map[string]string, body string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, method+" "+url)
}

func (l *recordingLogger) LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.successes = append(l.successes, httpStatus)
}

func (l *recordingLogger) LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = append(l.failures, httpStatus)
}

func TestRequestDecodesJSONAndSendsHeaders(t *testing.T) {
	var gotUA, gotAccept, gotPath, gotQuery string
	var gotClose bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotClose = r.Close
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"currently":{"temperature":72}}`))
	}))
	defer server.Close()

	logger := &recordingLogger{}
	client := NewHttpClient(server.URL+"/", ClientOptions{
		DefaultHeaders: map[string]string{"Accept": "application/json"},
		Logger:         logger,
	})

	var body map[string]any
	resp, status, err := client.Request().
		WithPath("forecast/key/1,2?units=us&lang=en").
		WithHeaders(map[string]string{"User-Agent": "test-agent/1.0"}).
		WithSuccessResp(&body).
		WithConnectionClose().
		Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", status)
	}
	if resp == nil {
		t.Fatal("expected success response")
	}
	currently, ok := body["currently"].(map[string]any)
	if !ok || currently["temperature"] != float64(72) {
		t.Fatalf("unexpected body: %v", body)
	}
	if gotUA != "test-agent/1.0" || gotAccept != "application/json" {
		t.Fatalf("unexpected headers: ua=%q accept=%q", gotUA, gotAccept)
	}
	if !gotClose {
		t.Fatal("expected Connection: close to reach the server")
	}
	if gotPath != "/forecast/key/1,2" || gotQuery != "units=us&lang=en" {
		t.Fatalf("unexpected url: %s?%s", gotPath, gotQuery)
	}
	if len(logger.requests) != 1 || len(logger.successes) != 1 || len(logger.failures) != 0 {
		t.Fatalf("unexpected logger calls: %+v", logger)
	}
}

func TestRequestReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"slow down"}`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{})
	var body map[string]any
	_, status, err := client.Request().WithPath("/x").WithSuccessResp(&body).Execute()

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if status != http.StatusTooManyRequests || statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected status %d / %d", status, statusErr.StatusCode)
	}
	if statusErr.Reason != "Too Many Requests" {
		t.Fatalf("unexpected reason %q", statusErr.Reason)
	}
}

func TestRequestReturnsDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{})
	var body map[string]any
	_, _, err := client.Request().WithPath("/x").WithSuccessResp(&body).Execute()

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}

func TestRequestHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewHttpClient(server.URL, ClientOptions{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, status, err := client.Request().WithContext(ctx).WithPath("/slow").Execute()
	if err == nil {
		t.Fatal("expected an error")
	}
	if status != 0 {
		t.Fatalf("expected no status, got %d", status)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRequestTranscodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=ISO-8859-1")
		// "São" encoded in latin1
		_, _ = w.Write([]byte("{\"summary\":\"S\xe3o\"}"))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{})
	var body map[string]any
	if _, _, err := client.Request().WithPath("/x").WithSuccessResp(&body).Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.EqualFold(body["summary"].(string), "São") {
		t.Fatalf("unexpected summary %q", body["summary"])
	}
}
