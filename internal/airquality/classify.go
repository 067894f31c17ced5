package airquality

// Level is an AQI classification band on the standard 0-500 scale.
type Level int

const (
	LevelGood Level = iota
	LevelModerate
	LevelUnhealthySensitive
	LevelUnhealthy
	LevelVeryUnhealthy
	LevelHazardous
)

// Classify maps an AQI value to its band. Boundaries follow the standard
// scale: Good 0-50, Moderate 51-100, Unhealthy for sensitive groups 101-150,
// Unhealthy 151-200, Very Unhealthy 201-300, Hazardous 301+.
func Classify(aqi int) Level {
	switch {
	case aqi <= 50:
		return LevelGood
	case aqi <= 100:
		return LevelModerate
	case aqi <= 150:
		return LevelUnhealthySensitive
	case aqi <= 200:
		return LevelUnhealthy
	case aqi <= 300:
		return LevelVeryUnhealthy
	default:
		return LevelHazardous
	}
}

func (l Level) String() string {
	switch l {
	case LevelGood:
		return "Good"
	case LevelModerate:
		return "Moderate"
	case LevelUnhealthySensitive:
		return "Unhealthy for sensitive groups"
	case LevelUnhealthy:
		return "Unhealthy"
	case LevelVeryUnhealthy:
		return "Very unhealthy"
	case LevelHazardous:
		return "Hazardous"
	default:
		return "Unknown"
	}
}

// Advice returns the operational guidance shown under a report.
func (l Level) Advice() string {
	switch l {
	case LevelGood:
		return "Air quality is optimal for outdoor activity."
	case LevelModerate:
		return "Air quality is acceptable; keep monitoring the trend."
	case LevelUnhealthySensitive, LevelUnhealthy:
		return "Limit prolonged outdoor exertion; protect sensitive groups."
	default:
		return "Critical pollution levels; suspend non-essential outdoor activity."
	}
}
