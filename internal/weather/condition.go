package weather

// conditionTable maps the provider's free-text condition strings to
// canonical categories. The provider reports conditions as localized
// Chinese text with no separate category field, so the closed set below
// is the whole contract.
var conditionTable = map[string]Condition{
	"晴":       ConditionClear,
	"多云":      ConditionClouds,
	"阴":       ConditionClouds,
	"小雨":      ConditionRain,
	"中雨":      ConditionRain,
	"大雨":      ConditionRain,
	"暴雨":      ConditionDrizzle,
	"雷阵雨":     ConditionThunderstorm,
	"雷阵雨伴有冰雹": ConditionThunderstorm,
	"小雪":      ConditionSnow,
	"中雪":      ConditionSnow,
	"大雪":      ConditionSnow,
	"暴雪":      ConditionSnow,
	"雾":       ConditionFog,
	"霾":       ConditionHaze,
	"浮尘":      ConditionDust,
	"扬沙":      ConditionDust,
	"沙尘暴":     ConditionDust,
}

// Classify maps a raw condition string to its canonical category. Any
// unrecognized input, including the empty string, maps to clouds: an
// unknown condition should render as an ordinary overcast day, never
// break the page.
func Classify(raw string) Condition {
	if c, ok := conditionTable[raw]; ok {
		return c
	}
	return ConditionClouds
}
