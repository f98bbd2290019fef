package weather

import (
	"time"

	"github.com/sharkmet/HomeHUB/internal/common"
)

// Condition is a normalized coarse weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Current is the normalized current-conditions payload.
type Current struct {
	TemperatureC float64   `json:"temperature_c"`
	FeelsLikeC   float64   `json:"feels_like_c"`
	HumidityPct  float64   `json:"humidity_percent"`
	PressureHpa  float64   `json:"pressure_hpa"`
	WindSpeedMS  float64   `json:"wind_speed_ms"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Condition    Condition `json:"condition"`
	ObservedAt   time.Time `json:"observed_at"`
}

// ForecastEntry is one day of the forecast.
type ForecastEntry struct {
	Date         time.Time `json:"date"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_percent"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Condition    Condition `json:"condition"`
}

// Bundle is what one upstream fetch yields and what the cache stores.
type Bundle struct {
	Current  Current         `json:"current"`
	Forecast []ForecastEntry `json:"forecast"`
}

// mapCondition normalizes an OpenWeatherMap description to a Condition.
func mapCondition(description string) Condition {
	switch {
	case description == "":
		return ConditionUnknown
	case common.HasAnyFold(description, "thunder", "storm"):
		return ConditionStorm
	case common.HasAnyFold(description, "rain", "drizzle", "shower"):
		return ConditionRain
	case common.HasAnyFold(description, "snow", "sleet"):
		return ConditionSnow
	case common.HasAnyFold(description, "mist", "fog", "haze"):
		return ConditionMist
	case common.HasAnyFold(description, "cloud", "overcast"):
		return ConditionCloudy
	case common.HasAnyFold(description, "clear", "sun"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}
