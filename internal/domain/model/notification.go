package model

const (
	// FetchWeatherNotification is the inbound notification asking for a forecast
	FetchWeatherNotification = "PIRATE_WEATHER_GET"
	// WeatherDataNotification is the outbound notification carrying a forecast
	WeatherDataNotification = "PIRATE_WEATHER_DATA"
)
