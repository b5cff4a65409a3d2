package api

import (
	"context"
	"net/url"
	"strings"
	"time"

	"weather-relay/internal/domain/entity"
	"weather-relay/pkg/http"
)

// Mask replaces secrets in anything written to the logs
const Mask = "***"

// DefaultBaseURL is the Pirate Weather API host
const DefaultBaseURL = "https://api.pirateweather.net"

// ForecastGatewayOptions configures the forecast gateway
type ForecastGatewayOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// forecastGatewayImpl implements the ForecastGateway interface
type forecastGatewayImpl struct {
	httpClient *http.Client
	userAgent  string
}

// NewForecastGateway creates a new instance of ForecastGateway with HTTP client
func NewForecastGateway(opts ForecastGatewayOptions) ForecastGateway {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "PirateWeatherRelay/1.0"
	}

	httpClient := http.NewHttpClient(opts.BaseURL, http.ClientOptions{
		FollowRedirect:    true,
		DisableKeepAlives: true,
		DefaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		ConnectionTimeout: opts.Timeout,
		ReadTimeout:       opts.Timeout,
		Logger:            newMaskingHTTPLogger(),
	})

	return &forecastGatewayImpl{
		httpClient: httpClient,
		userAgent:  opts.UserAgent,
	}
}

// GetForecast gets the forecast for one coordinate pair
func (g *forecastGatewayImpl) GetForecast(ctx context.Context, req entity.FetchRequest) (entity.WeatherResult, error) {
	var result entity.WeatherResult

	_, _, err := g.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath(ForecastPath(req)).
		WithHeaders(map[string]string{"User-Agent": g.userAgent}).
		WithSuccessResp(&result).
		WithConnectionClose().
		Execute()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// MaskedURL returns the full request URL with every occurrence of the API key masked
func (g *forecastGatewayImpl) MaskedURL(req entity.FetchRequest) string {
	return MaskSecret(g.httpClient.BaseURL()+ForecastPath(req), req.APIKey)
}

// ForecastPath builds /forecast/{apiKey}/{lat},{lon}?units={units}&lang={language}, escaping every component
func ForecastPath(req entity.FetchRequest) string {
	var b strings.Builder
	b.WriteString("/forecast/")
	b.WriteString(url.PathEscape(req.APIKey))
	b.WriteString("/")
	b.WriteString(url.PathEscape(req.Latitude.String()))
	b.WriteString(",")
	b.WriteString(url.PathEscape(req.Longitude.String()))
	b.WriteString("?units=")
	b.WriteString(url.QueryEscape(string(req.Units)))
	b.WriteString("&lang=")
	b.WriteString(url.QueryEscape(req.Language))
	return b.String()
}

// MaskSecret replaces the secret, raw or escaped, wherever it appears in s
func MaskSecret(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, secret, Mask)
	if escaped := url.PathEscape(secret); escaped != secret {
		s = strings.ReplaceAll(s, escaped, Mask)
	}
	return s
}
