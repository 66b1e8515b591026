package utils

import (
	"log"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers trading-day questions via scmhub/calendar, with a
// plain Mon-Fri fallback when the MIC is unknown.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// NewTradingCalendar loads the calendar for a MIC code (ISO 10383), e.g.
// "xnys" for NYSE.
func NewTradingCalendar(mic string) *TradingCalendar {
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		cal = calendar.GetCalendar("xnys")
	}

	if cal == nil {
		log.Printf("WARNING: Failed to load calendar for MIC '%s' and fallback 'xnys'. Using simple Mon-Fri fallback.", mic)
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{Calendar: cal, Fallback: false, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// PreviousTradingSession returns the most recent trading day strictly before
// the given time. The batch analyzer uses it to pick its default date.
func (tc *TradingCalendar) PreviousTradingSession(from time.Time) time.Time {
	day := from.AddDate(0, 0, -1)
	for !tc.IsTradingDay(day) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
