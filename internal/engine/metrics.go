package engine

// QuarterMileM is the reference drag-race distance in metres.
const QuarterMileM = 402.336

// PerformanceMetrics are interpolated threshold crossings extracted from a
// completed snapshot sequence. A nil field means the run never reached that
// threshold.
type PerformanceMetrics struct {
	TimeTo100KMH     *float64 `json:"time_to_100kmh"`
	TimeTo200KMH     *float64 `json:"time_to_200kmh"`
	QuarterMileTime  *float64 `json:"quarter_mile_time"`
	QuarterMileSpeed *float64 `json:"quarter_mile_speed"` // km/h
}

// CalculateMetrics extracts performance metrics from a snapshot sequence by
// linear interpolation between the frames that straddle each threshold. It is
// a pure function: the input is never modified and repeated calls on the same
// sequence return identical results.
func CalculateMetrics(snapshots []Snapshot) PerformanceMetrics {
	var m PerformanceMetrics
	if len(snapshots) == 0 {
		return m
	}
	// A roll race can start above a speed threshold; credit it immediately.
	if first := snapshots[0]; first.Velocity >= 100/3.6 {
		t := first.Time
		m.TimeTo100KMH = &t
		if first.Velocity >= 200/3.6 {
			t2 := first.Time
			m.TimeTo200KMH = &t2
		}
	}
	for i := 1; i < len(snapshots); i++ {
		prev, cur := snapshots[i-1], snapshots[i]

		if m.TimeTo100KMH == nil {
			if t, ok := velocityCrossing(prev, cur, 100/3.6); ok {
				m.TimeTo100KMH = &t
			}
		}
		if m.TimeTo200KMH == nil {
			if t, ok := velocityCrossing(prev, cur, 200/3.6); ok {
				m.TimeTo200KMH = &t
			}
		}
		if m.QuarterMileTime == nil && prev.Distance < QuarterMileM && cur.Distance >= QuarterMileM {
			frac := interpFraction(prev.Distance, cur.Distance, QuarterMileM)
			t := prev.Time + frac*(cur.Time-prev.Time)
			speed := (prev.Velocity + frac*(cur.Velocity-prev.Velocity)) * 3.6
			m.QuarterMileTime = &t
			m.QuarterMileSpeed = &speed
		}
	}
	return m
}

// velocityCrossing returns the interpolated time at which velocity crosses
// the threshold between two consecutive snapshots.
func velocityCrossing(prev, cur Snapshot, threshold float64) (float64, bool) {
	if prev.Velocity >= threshold || cur.Velocity < threshold {
		return 0, false
	}
	frac := interpFraction(prev.Velocity, cur.Velocity, threshold)
	return prev.Time + frac*(cur.Time-prev.Time), true
}

func interpFraction(lo, hi, target float64) float64 {
	if hi <= lo {
		return 1
	}
	return (target - lo) / (hi - lo)
}
