package weather

import "strings"

// LevelClassification is a classified reading of one numeric metric:
// a level label, a color token for the UI, and short advice text. It is
// derived on demand and never persisted.
type LevelClassification struct {
	Level      string `json:"level"`
	ColorToken string `json:"colorToken"`
	Advice     string `json:"advice"`
}

// ClassifyHumidity buckets a relative-humidity percentage.
func ClassifyHumidity(pct float64) LevelClassification {
	switch {
	case pct < 30:
		return LevelClassification{Level: "dry", ColorToken: "#f44336", Advice: "Dry air, stay hydrated"}
	case pct < 50:
		return LevelClassification{Level: "comfortable", ColorToken: "#4caf50", Advice: "Comfortable humidity"}
	case pct < 70:
		return LevelClassification{Level: "humid", ColorToken: "#2196f3", Advice: "Noticeably humid"}
	default:
		return LevelClassification{Level: "wet", ColorToken: "#9c27b0", Advice: "Very humid, expect dampness"}
	}
}

// ClassifyWind buckets a wind speed in m/s.
func ClassifyWind(speed float64) LevelClassification {
	switch {
	case speed < 2:
		return LevelClassification{Level: "calm", ColorToken: "#9e9e9e", Advice: "Barely any wind"}
	case speed < 4:
		return LevelClassification{Level: "light", ColorToken: "#4caf50", Advice: "Light breeze"}
	case speed < 6:
		return LevelClassification{Level: "moderate", ColorToken: "#2196f3", Advice: "Moderate breeze"}
	case speed < 8:
		return LevelClassification{Level: "fresh", ColorToken: "#ff9800", Advice: "Fresh breeze"}
	default:
		return LevelClassification{Level: "strong", ColorToken: "#f44336", Advice: "Strong wind, take care outside"}
	}
}

// ClassifyVisibility buckets a visibility distance in km.
func ClassifyVisibility(km float64) LevelClassification {
	switch {
	case km < 1:
		return LevelClassification{Level: "poor", ColorToken: "#f44336", Advice: "Poor visibility, drive carefully"}
	case km < 5:
		return LevelClassification{Level: "fair", ColorToken: "#ff9800", Advice: "Reduced visibility"}
	case km < 10:
		return LevelClassification{Level: "good", ColorToken: "#4caf50", Advice: "Good visibility"}
	default:
		return LevelClassification{Level: "excellent", ColorToken: "#2196f3", Advice: "Excellent visibility"}
	}
}

// ClassifyUV buckets a UV index.
func ClassifyUV(uv float64) LevelClassification {
	switch {
	case uv <= 2:
		return LevelClassification{Level: "low", ColorToken: "#4CAF50", Advice: "No protection needed"}
	case uv <= 5:
		return LevelClassification{Level: "moderate", ColorToken: "#FFC107", Advice: "Protection recommended"}
	case uv <= 7:
		return LevelClassification{Level: "high", ColorToken: "#FF9800", Advice: "Protection required"}
	case uv <= 10:
		return LevelClassification{Level: "very-high", ColorToken: "#F44336", Advice: "Extra protection required"}
	default:
		return LevelClassification{Level: "extreme", ColorToken: "#9C27B0", Advice: "Avoid going outside"}
	}
}

// ClassifyAQI buckets an air quality index.
func ClassifyAQI(aqi float64) LevelClassification {
	switch {
	case aqi <= 50:
		return LevelClassification{Level: "good", ColorToken: "#4CAF50", Advice: "Air quality is good"}
	case aqi <= 100:
		return LevelClassification{Level: "moderate", ColorToken: "#8BC34A", Advice: "Air quality is acceptable"}
	case aqi <= 150:
		return LevelClassification{Level: "lightly-polluted", ColorToken: "#FFC107", Advice: "Sensitive groups should limit outdoor time"}
	case aqi <= 200:
		return LevelClassification{Level: "moderately-polluted", ColorToken: "#FF9800", Advice: "Consider wearing a mask outside"}
	case aqi <= 300:
		return LevelClassification{Level: "heavily-polluted", ColorToken: "#F44336", Advice: "Limit outdoor activity"}
	default:
		return LevelClassification{Level: "severely-polluted", ColorToken: "#9C27B0", Advice: "Stay indoors"}
	}
}

// LifestyleAdvice is the set of lifestyle recommendations derived from
// temperature and condition text.
type LifestyleAdvice struct {
	Sport    string `json:"sport"`
	Travel   string `json:"travel"`
	Clothing string `json:"clothing"`
	Umbrella string `json:"umbrella"`
}

// keywordRule pairs a condition-text substring with the precipitation
// category it indicates. Free-text matching is fragile to wording
// changes, so the policy lives in this one table, evaluated in order,
// instead of inline string checks.
type keywordRule struct {
	keyword  string
	category Condition
}

var precipitationRules = []keywordRule{
	{"雨", ConditionRain},
	{"rain", ConditionRain},
	{"雪", ConditionSnow},
	{"snow", ConditionSnow},
}

// matchesPrecipitation reports whether the condition text indicates any
// of the given precipitation categories.
func matchesPrecipitation(conditionText string, categories ...Condition) bool {
	text := strings.ToLower(conditionText)
	for _, rule := range precipitationRules {
		if !strings.Contains(text, rule.keyword) {
			continue
		}
		for _, cat := range categories {
			if rule.category == cat {
				return true
			}
		}
	}
	return false
}

// Lifestyle derives sport, travel, clothing and umbrella recommendations
// from the current temperature and raw condition text. Precipitation is
// detected on the text, not the canonical category, matching how the
// dashboard always behaved.
func Lifestyle(tempC float64, conditionText string) LifestyleAdvice {
	advice := LifestyleAdvice{}

	switch {
	case tempC > 30:
		advice.Sport = "unsuitable"
	case tempC > 20:
		advice.Sport = "suitable"
	case tempC > 10:
		advice.Sport = "somewhat-suitable"
	default:
		advice.Sport = "unsuitable"
	}

	if matchesPrecipitation(conditionText, ConditionRain, ConditionSnow) {
		advice.Travel = "unsuitable"
	} else {
		advice.Travel = "suitable"
	}

	switch {
	case tempC < 10:
		advice.Clothing = "heavy-coat"
	case tempC < 20:
		advice.Clothing = "jacket"
	case tempC < 30:
		advice.Clothing = "long-sleeve"
	default:
		advice.Clothing = "short-sleeve"
	}

	if matchesPrecipitation(conditionText, ConditionRain) {
		advice.Umbrella = "needed"
	} else {
		advice.Umbrella = "not-needed"
	}

	return advice
}

// AlertSeverity classifies an alert event name.
type AlertSeverity string

const (
	SeverityWarning AlertSeverity = "warning"
	SeverityWatch   AlertSeverity = "watch"
	SeverityInfo    AlertSeverity = "info"
)

var alertSeverityRules = []struct {
	keyword  string
	severity AlertSeverity
}{
	{"warning", SeverityWarning},
	{"alert", SeverityWarning},
	{"watch", SeverityWatch},
}

// ClassifyAlertSeverity maps an alert event name to a severity by keyword,
// defaulting to info.
func ClassifyAlertSeverity(event string) AlertSeverity {
	lower := strings.ToLower(event)
	for _, rule := range alertSeverityRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.severity
		}
	}
	return SeverityInfo
}
