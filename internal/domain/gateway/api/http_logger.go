package api

import (
	"regexp"

	"go.uber.org/zap"

	"weather-relay/pkg/log"
)

var forecastKeySegment = regexp.MustCompile(`(/forecast/)[^/?]+`)

// maskingHTTPLogger traces provider calls at debug level without leaking the API key
type maskingHTTPLogger struct{}

func newMaskingHTTPLogger() *maskingHTTPLogger {
	return &maskingHTTPLogger{}
}

func maskForecastURL(url string) string {
	return forecastKeySegment.ReplaceAllString(url, "${1}"+Mask)
}

func (l *maskingHTTPLogger) LogRequest(method, url string, headers map[string]string, body string) {
	log.Debug("forecast request",
		zap.String("method", method),
		zap.String("url", maskForecastURL(url)))
}

func (l *maskingHTTPLogger) LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64) {
	log.Debug("forecast response",
		zap.String("method", method),
		zap.String("url", maskForecastURL(url)),
		zap.Int("status", httpStatus),
		zap.Int("bytes", len(responseBody)),
		zap.Int64("latency_ms", latency))
}

func (l *maskingHTTPLogger) LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error) {
	log.Debug("forecast response error",
		zap.String("method", method),
		zap.String("url", maskForecastURL(url)),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
		zap.String("error", maskForecastURL(err.Error())))
}
