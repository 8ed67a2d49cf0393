package weather

import (
	"fmt"
	"sort"
	"time"
)

// maxForecastDays bounds every daily view to one week.
const maxForecastDays = 7

var weekdayLabels = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

func weekdayLabel(t time.Time) string {
	return weekdayLabels[int(t.Weekday())]
}

// GroupDaily folds forecast records into one aggregate per calendar day.
// The first record for a day seeds its min/max; later records widen them
// monotonically, never narrow. Output is ordered by each group's earliest
// record and truncated to 7 days.
func GroupDaily(records []ForecastRecord) []DailyAggregate {
	groups := make(map[string]*DailyAggregate)
	var order []string

	for _, r := range records {
		t := time.Unix(r.EpochSeconds, 0)
		key := t.Format("2006-01-02")

		agg, ok := groups[key]
		if !ok {
			groups[key] = &DailyAggregate{
				DayKey:                  weekdayLabel(t),
				TempMinC:                r.TempMinC,
				TempMaxC:                r.TempMaxC,
				RepresentativeCondition: r.ConditionCategory,
				ConditionText:           r.ConditionText,
				EpochSeconds:            r.EpochSeconds,
			}
			order = append(order, key)
			continue
		}

		if r.TempMinC < agg.TempMinC {
			agg.TempMinC = r.TempMinC
		}
		if r.TempMaxC > agg.TempMaxC {
			agg.TempMaxC = r.TempMaxC
		}
		if r.EpochSeconds < agg.EpochSeconds {
			agg.EpochSeconds = r.EpochSeconds
		}
	}

	out := make([]DailyAggregate, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EpochSeconds < out[j].EpochSeconds
	})

	if len(out) > maxForecastDays {
		out = out[:maxForecastDays]
	}
	return out
}

// SynthesizeHourly maps each of the next 24 wall-clock hours, starting at
// now and wrapping past midnight, to the first record whose local
// hour-of-day matches. Hours with no matching record produce no slot, so
// the output is sparse: between 0 and 24 slots in offset-from-now order.
func SynthesizeHourly(records []ForecastRecord, now time.Time) []HourlySlot {
	currentHour := now.Hour()

	var slots []HourlySlot
	for i := 0; i < 24; i++ {
		target := (currentHour + i) % 24

		for _, r := range records {
			if time.Unix(r.EpochSeconds, 0).Hour() != target {
				continue
			}

			label := fmt.Sprintf("%d:00", target)
			if i == 0 {
				label = "now"
			}
			slots = append(slots, HourlySlot{
				HourOfDay:         target,
				Label:             label,
				TempC:             r.TempC,
				ConditionCategory: r.ConditionCategory,
			})
			break
		}
	}
	return slots
}

// BuildTrend produces the chart dataset: per calendar day the running
// high, low and mean temperature, truncated to 7 days, plus a [0,1]
// vertical position for each day's high scaled against the truncated
// set's global extremes. A degenerate temperature range falls back to a
// denominator of 1 so heights stay finite.
func BuildTrend(records []ForecastRecord) []TrendPoint {
	type trendBucket struct {
		point TrendPoint
		sum   float64
		count int
	}

	buckets := make(map[string]*trendBucket)
	var order []string

	for _, r := range records {
		t := time.Unix(r.EpochSeconds, 0)
		key := t.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			buckets[key] = &trendBucket{
				point: TrendPoint{
					DayKey:       fmt.Sprintf("%d/%d %s", int(t.Month()), t.Day(), weekdayLabel(t)),
					EpochSeconds: r.EpochSeconds,
					DayTemp:      r.TempMaxC,
					NightTemp:    r.TempMinC,
					Condition:    r.ConditionCategory,
				},
				sum:   r.TempC,
				count: 1,
			}
			order = append(order, key)
			continue
		}

		if r.TempMaxC > b.point.DayTemp {
			b.point.DayTemp = r.TempMaxC
		}
		if r.TempMinC < b.point.NightTemp {
			b.point.NightTemp = r.TempMinC
		}
		if r.EpochSeconds < b.point.EpochSeconds {
			b.point.EpochSeconds = r.EpochSeconds
		}
		b.sum += r.TempC
		b.count++
	}

	points := make([]TrendPoint, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		b.point.AvgTemp = b.sum / float64(b.count)
		points = append(points, b.point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].EpochSeconds < points[j].EpochSeconds
	})

	if len(points) > maxForecastDays {
		points = points[:maxForecastDays]
	}
	if len(points) == 0 {
		return points
	}

	// Global extremes over the truncated set, not the full series.
	globalHigh := points[0].DayTemp
	globalLow := points[0].NightTemp
	for _, p := range points[1:] {
		if p.DayTemp > globalHigh {
			globalHigh = p.DayTemp
		}
		if p.NightTemp < globalLow {
			globalLow = p.NightTemp
		}
	}

	span := globalHigh - globalLow
	if span < 1 {
		span = 1
	}
	for i := range points {
		points[i].NormalizedHeight = (points[i].DayTemp - globalLow) / span
	}

	return points
}
