package workhours

import (
	"math"
	"time"
)

// CalculateHoursWorked computes elapsed hours for a check-in/check-out pair.
// A checkout earlier than the check-in is an overnight shift: the checkout is
// taken to be on the following calendar day, never treated as a data error.
// The result is exact; rounding happens at the point of persistence.
func CalculateHoursWorked(checkIn, checkOut *time.Time) float64 {
	if checkIn == nil || checkOut == nil {
		return 0.0
	}

	diff := checkOut.Sub(*checkIn)
	if diff < 0 {
		diff += 24 * time.Hour
	}

	return diff.Hours()
}

// Round2 rounds to 2 decimal places for persistence.
func Round2(hours float64) float64 {
	return math.Round(hours*100) / 100
}

// PeriodKey derives the accumulator key for a check-in timestamp: ISO-8601
// year and week number (weeks start Monday; week 1 contains the year's first
// Thursday) plus the calendar month. Note the year is the ISO week-year, so a
// late-December date can key into week 1 of the following year.
func PeriodKey(t time.Time) (year, month, week int) {
	year, week = t.ISOWeek()
	month = int(t.Month())
	return year, month, week
}

// CapCheck is the advisory result of a weekly contract-hour check. It carries
// the numbers a caller needs to decide what to do; nothing here rejects or
// persists anything.
type CapCheck struct {
	Compliant     bool     `json:"compliant"`
	HasCap        bool     `json:"has_cap"`
	CurrentHours  float64  `json:"current_hours"`
	ProposedTotal float64  `json:"proposed_total"`
	CapHours      *float64 `json:"cap_hours,omitempty"`
	Margin        float64  `json:"margin"`
	Excess        float64  `json:"excess"`
}

// EvaluateWeeklyCap applies the cap rule to already-loaded numbers. A nil cap
// means no constraint is configured and the result is always compliant.
func EvaluateWeeklyCap(current, proposed float64, capHours *float64) CapCheck {
	check := CapCheck{
		Compliant:     true,
		CurrentHours:  current,
		ProposedTotal: current + proposed,
	}

	if capHours == nil {
		return check
	}

	check.HasCap = true
	check.CapHours = capHours

	if check.ProposedTotal > *capHours {
		check.Compliant = false
		check.Excess = check.ProposedTotal - *capHours
	} else {
		check.Margin = *capHours - check.ProposedTotal
	}

	return check
}
